package callout

import (
	"os"
	"path/filepath"
)

// exitDeclined is the protocol code for "this script does not handle this
// device type, try the next one"
const exitDeclined = 2

// matchOutcome is the three-way result of offering an event to one script
type matchOutcome int

const (
	// outcomeClaimed: the script claimed the event, scanning stops. Any
	// exit code other than 2 is a claim, including failures.
	outcomeClaimed matchOutcome = iota

	// outcomeDeclined: exit code 2, keep scanning
	outcomeDeclined

	// outcomeSkipped: terminated by a signal, keep scanning; counts
	// neither as a match nor as a failure
	outcomeSkipped
)

func classify(res *scriptResult) matchOutcome {
	switch {
	case res.signaled:
		return outcomeSkipped
	case res.exitCode == exitDeclined:
		return outcomeDeclined
	default:
		return outcomeClaimed
	}
}

// firstMatchingScript lists dir's immediate entries in lexicographic order
// and invokes each until one claims the event. Returns the claiming script's
// path and captured result, or ("", nil) when nothing claimed. An unreadable
// or empty directory is the same as no match, never a hard error.
func (c *Callout) firstMatchingScript(dev Device, dir string, event Event, action Action) (string, *scriptResult) {
	mdevType, err := dev.MdevType()
	if err != nil {
		c.logger.Debug().Str("dir", dir).Msg("device has no mdev type, cannot match scripts")
		return "", nil
	}

	c.logger.Debug().
		Str("event", event.String()).
		Str("action", action.String()).
		Str("mdev_type", mdevType).
		Str("dir", dir).
		Msg("looking for a matching callout script")

	// os.ReadDir returns entries sorted by file name
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", nil
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		res, err := c.invokeScript(dev, path, event, action)
		if err != nil {
			c.logger.Debug().Err(err).Str("script", path).Msg("failed to execute callout script")
			continue
		}

		switch classify(res) {
		case outcomeSkipped:
			c.logger.Warn().Str("script", path).Msg("callout script was terminated by a signal")
		case outcomeDeclined:
			c.logger.Debug().
				Str("script", path).
				Str("mdev_type", mdevType).
				Msg("device type unmatched by callout script")
		case outcomeClaimed:
			c.logger.Debug().Str("script", path).Msg("found callout script")
			return path, res
		}
	}
	return "", nil
}
