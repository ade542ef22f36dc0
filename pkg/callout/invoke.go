package callout

import (
	"bytes"
	"errors"
	"os/exec"
	"strings"

	mderrors "github.com/virtkit/mdevman/pkg/errors"
)

// invocationContext is the immutable per-call bundle handed to one script
// launch. Built fresh for every external process.
type invocationContext struct {
	mdevType string
	uuid     string
	parent   string
	event    Event
	action   Action
	state    State
}

// scriptResult captures everything a finished script produced. A script
// terminated by a signal has no exit code; signaled is set instead.
type scriptResult struct {
	stdout   []byte
	stderr   []byte
	exitCode int
	signaled bool
}

func (r *scriptResult) success() bool {
	return !r.signaled && r.exitCode == 0
}

// runScript launches the script with the standard argument contract, pipes
// the payload to its stdin, and waits for it to exit. A nonzero exit code
// is a normal, interpretable outcome; only a process that cannot be spawned
// or fed its stdin yields an error.
func runScript(script string, ctx invocationContext, stdin string) (*scriptResult, error) {
	cmd := exec.Command(script,
		"-t", ctx.mdevType,
		"-e", ctx.event.String(),
		"-a", ctx.action.String(),
		"-s", ctx.state.String(),
		"-u", ctx.uuid,
		"-p", ctx.parent,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, mderrors.Wrapf(err, mderrors.ErrCalloutSpawn,
				"failed to execute callout script %s", script)
		}
		// ExitCode is -1 when the process was killed by a signal
		if exitErr.ExitCode() == -1 {
			return &scriptResult{
				stdout:   stdout.Bytes(),
				stderr:   stderr.Bytes(),
				signaled: true,
			}, nil
		}
		return &scriptResult{
			stdout:   stdout.Bytes(),
			stderr:   stderr.Bytes(),
			exitCode: exitErr.ExitCode(),
		}, nil
	}

	return &scriptResult{
		stdout: stdout.Bytes(),
		stderr: stderr.Bytes(),
	}, nil
}
