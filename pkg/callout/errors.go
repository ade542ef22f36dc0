package callout

import (
	"strconv"

	mderrors "github.com/virtkit/mdevman/pkg/errors"
)

// errNoMatchingScript marks a directory-level attempt where no script
// claimed the event. It is recovered locally: the engine moves on to the
// next directory, and an absence of scripts everywhere counts as success.
func errNoMatchingScript() error {
	return mderrors.New(mderrors.ErrCalloutNoMatch, "no matching script for device found")
}

// errInvocationFailure marks a claiming script that failed. hasCode is
// false when the script was terminated before producing an exit code.
func errInvocationFailure(script string, code int, hasCode bool) error {
	status := "unknown"
	if hasCode {
		status = strconv.Itoa(code)
	}
	return mderrors.Newf(mderrors.ErrCalloutFailure, "script %q failed with status %s", script, status).
		WithDetail("script", script).
		WithDetail("status", status)
}

func errInvalidJSON(err error) error {
	return mderrors.Wrap(err, mderrors.ErrCalloutJSON, "invalid JSON received from callout script")
}

// IsNoMatch reports whether err is the recoverable "no script claimed the
// event" outcome
func IsNoMatch(err error) bool {
	return mderrors.IsErrorCode(err, mderrors.ErrCalloutNoMatch)
}
