package callout

import (
	"encoding/json"
	"os"
)

// emptyAttrList is the literal some scripts emit for "one empty attribute
// object". It is normalized to an empty list rather than taken at face
// value.
const emptyAttrList = "[{}]"

// GetAttributes queries the device's attributes from a claiming callout
// script. The first existing callout directory is scanned with a fresh
// session for a get/attributes claim; the claiming script's stdout is
// parsed as JSON. No claiming script in any directory yields JSON null
// without error: absence of an attribute provider is not a failure.
func GetAttributes(dev Device) (interface{}, error) {
	for _, dir := range dev.Env().CalloutDirs() {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}

		c := newCallout()
		value, err := c.getAttributesDir(dev, dir)
		if err != nil && IsNoMatch(err) {
			continue
		}
		return value, err
	}
	return nil, nil
}

func (c *Callout) getAttributesDir(dev Device, dir string) (interface{}, error) {
	script, res := c.firstMatchingScript(dev, dir, EventGet, ActionAttributes)
	if res == nil {
		c.logger.Debug().Str("dir", dir).Msg("device type unmatched by callout script")
		return nil, errNoMatchingScript()
	}
	return c.parseAttributeOutput(dev, script, res)
}

// parseAttributeOutput normalizes a claiming script's stdout: empty output
// means null, the empty-attribute literal means an empty list, anything
// else must be valid JSON
func (c *Callout) parseAttributeOutput(dev Device, script string, res *scriptResult) (interface{}, error) {
	if !res.success() {
		c.printErr(res, script)
		return nil, errInvocationFailure(script, res.exitCode, !res.signaled)
	}

	c.logger.Debug().Str("device", dev.ID()).Msg("got attributes from callout script")

	out := string(res.stdout)
	if out == "" {
		return nil, nil
	}
	if out == emptyAttrList {
		c.logger.Debug().Str("device", dev.ID()).Msg("attribute field is empty")
		out = "[]"
	}

	var value interface{}
	if err := json.Unmarshal([]byte(out), &value); err != nil {
		return nil, errInvalidJSON(err)
	}
	return value, nil
}
