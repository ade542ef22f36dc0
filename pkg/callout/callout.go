package callout

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/virtkit/mdevman/pkg/logging"
	"github.com/virtkit/mdevman/pkg/paths"
)

// Device is the view of a mediated device the callout engine needs. The
// concrete implementation lives in pkg/device.
type Device interface {
	// ID returns the device's unique identifier
	ID() string

	// MdevType returns the mediated device type; errors when unset
	MdevType() (string, error)

	// Parent returns the parent device identifier; errors when unset
	Parent() (string, error)

	// CompactJSON returns the device's compact JSON representation,
	// piped to scripts on stdin
	CompactJSON() (string, error)

	// Env returns the environment supplying the script directory lists
	Env() paths.Env
}

// ActionFunc applies one lifecycle action to the device and reports its
// result. It is the value Invoke wraps with the pre/post/notify sequence.
type ActionFunc func(Device) error

// Callout is one orchestration session, scoped to a single Invoke or
// GetAttributes call. It tracks the action's outcome and the sticky script:
// once a script claims the pre event, post reuses the same path without
// rescanning the directory. Sessions are never shared or reused.
type Callout struct {
	state  State
	script string

	stderr io.Writer
	logger zerolog.Logger
}

func newCallout() *Callout {
	return &Callout{
		state:  StateNone,
		stderr: os.Stderr,
		logger: logging.GetLogger("callout"),
	}
}

// Invoke runs the full callout sequence around one lifecycle action:
// pre validation, the action itself, post notification, and finally the
// best-effort notify broadcast.
//
// A pre failure aborts the action unless force is set, in which case it is
// logged and the sequence proceeds. Post failures are logged and discarded
// so they can never mask the action's own result. Notify always runs exactly
// once, whatever happened before it, carrying the state the action reached
// (none if it never ran). The returned error is the action's, or the pre
// error when pre failed without force.
func Invoke(dev Device, action Action, force bool, fn ActionFunc) error {
	c := newCallout()
	return c.invoke(dev, action, force, fn)
}

func (c *Callout) invoke(dev Device, action Action, force bool, fn ActionFunc) (err error) {
	defer c.notify(dev, action)

	if preErr := c.callout(dev, EventPre, action); preErr != nil {
		if !force {
			return preErr
		}
		c.logger.Warn().
			Err(preErr).
			Str("action", action.String()).
			Msg("Forcing operation despite callout failure")
	}

	err = fn(dev)
	if err != nil {
		c.state = StateFailure
	} else {
		c.state = StateSuccess
	}

	if postErr := c.callout(dev, EventPost, action); postErr != nil {
		c.logger.Debug().Err(postErr).Msg("Error occurred when executing post callout script")
	}

	return err
}

// callout runs one event across the environment's ordered callout
// directories, stopping at the first directory that produces success or a
// hard failure. No script claiming the event anywhere is success: the
// operator simply has not configured validation for this device type.
func (c *Callout) callout(dev Device, event Event, action Action) error {
	for _, dir := range dev.Env().CalloutDirs() {
		err := c.calloutDir(dev, event, action, dir)
		if err != nil && IsNoMatch(err) {
			continue
		}
		return err
	}
	return nil
}

// calloutDir resolves and runs the script for one directory. A sticky
// script resolved earlier in the session is invoked directly without
// rescanning; otherwise the directory is scanned for a claiming script,
// which then becomes sticky.
func (c *Callout) calloutDir(dev Device, event Event, action Action, dir string) error {
	var script string
	var res *scriptResult

	if c.script != "" {
		script = c.script
		r, err := c.invokeScript(dev, script, event, action)
		if err != nil {
			c.logger.Debug().Err(err).Str("script", script).Msg("failed to execute callout script")
			return errNoMatchingScript()
		}
		res = r
	} else {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return errNoMatchingScript()
		}
		script, res = c.firstMatchingScript(dev, dir, event, action)
		if res == nil {
			return errNoMatchingScript()
		}
		c.script = script
	}

	c.printErr(res, script)

	switch {
	case res.signaled:
		return errNoMatchingScript()
	case res.exitCode == 0:
		return nil
	default:
		return errInvocationFailure(script, res.exitCode, true)
	}
}

// notify fans the event out to every script in every notification
// directory, in directory read order, regardless of how the surrounding
// sequence resolved. Failing or unlaunchable scripts are logged and the
// scan continues; notify itself can never fail.
func (c *Callout) notify(dev Device, action Action) {
	c.logger.Debug().
		Str("action", action.String()).
		Str("device", dev.ID()).
		Msg("executing notification scripts")

	for _, dir := range dev.Env().NotificationDirs() {
		f, err := os.Open(dir)
		if err != nil {
			continue
		}
		entries, err := f.ReadDir(-1)
		f.Close()
		if err != nil {
			continue
		}

		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			res, err := c.invokeScript(dev, path, EventNotify, action)
			if err != nil {
				c.logger.Debug().Err(err).Str("script", path).Msg("Failed to execute notify script")
				continue
			}
			if !res.success() {
				c.logger.Debug().Str("script", path).Msg("Error occurred when executing notify script")
			}
		}
	}
}

// invokeScript launches one script for this session's state, with the
// device JSON on stdin for everything except get events
func (c *Callout) invokeScript(dev Device, script string, event Event, action Action) (*scriptResult, error) {
	mdevType, err := dev.MdevType()
	if err != nil {
		return nil, err
	}
	parent, err := dev.Parent()
	if err != nil {
		return nil, err
	}

	stdin := ""
	if event != EventGet {
		stdin, err = dev.CompactJSON()
		if err != nil {
			return nil, err
		}
	}

	c.logger.Debug().
		Str("event", event.String()).
		Str("action", action.String()).
		Str("script", script).
		Str("mdev_type", mdevType).
		Str("uuid", dev.ID()).
		Str("parent", parent).
		Str("state", c.state.String()).
		Msg("executing callout script")

	return runScript(script, invocationContext{
		mdevType: mdevType,
		uuid:     dev.ID(),
		parent:   parent,
		event:    event,
		action:   action,
		state:    c.state,
	}, stdin)
}

// printErr echoes a script's stderr to the operator immediately, tagged
// with the script's base name. Scripts talk to the operator through
// stderr; it is never part of the returned result.
func (c *Callout) printErr(res *scriptResult, script string) {
	if len(res.stderr) == 0 {
		return
	}
	name := filepath.Base(script)
	fmt.Fprintf(c.stderr, "%s: %s", name, res.stderr)
}
