// Package device models mediated devices: virtual sub-devices carved out of
// a physical parent device for assignment to a virtual machine. A device is
// identified by a UUID and lives under exactly one parent. Defined devices
// are persisted as JSON under the environment's persist base; active devices
// appear under the mdev base.
package device

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	mderrors "github.com/virtkit/mdevman/pkg/errors"
	"github.com/virtkit/mdevman/pkg/paths"
)

// Attribute is a single ordered device attribute. Attributes are applied to
// the device in list order at start time, so order must survive the JSON
// round trip; each attribute serializes as a single-key object.
type Attribute struct {
	Name  string
	Value string
}

// MarshalJSON serializes the attribute as {"name": "value"}
func (a Attribute) MarshalJSON() ([]byte, error) {
	name, err := json.Marshal(a.Name)
	if err != nil {
		return nil, err
	}
	value, err := json.Marshal(a.Value)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("{%s:%s}", name, value)), nil
}

// UnmarshalJSON parses a single-key object into the attribute
func (a *Attribute) UnmarshalJSON(data []byte) error {
	var obj map[string]string
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if len(obj) != 1 {
		return fmt.Errorf("attribute must be a single-key object, got %d keys", len(obj))
	}
	for k, v := range obj {
		a.Name = k
		a.Value = v
	}
	return nil
}

// Device is one mediated device, persisted or active
type Device struct {
	UUID       uuid.UUID
	AutoStart  bool
	Attributes []Attribute

	parent   string
	mdevType string

	env paths.Env
	fs  afero.Fs
}

// New creates a device bound to the given environment. The fs is used for
// all persistence and sysfs-style writes; pass afero.NewOsFs() outside tests.
func New(env paths.Env, fs afero.Fs, id uuid.UUID) *Device {
	return &Device{
		UUID: id,
		env:  env,
		fs:   fs,
	}
}

// Env returns the environment this device is bound to
func (d *Device) Env() paths.Env {
	return d.env
}

// ID returns the device's UUID in hyphenated string form
func (d *Device) ID() string {
	return d.UUID.String()
}

// SetParent sets the parent device identifier
func (d *Device) SetParent(parent string) {
	d.parent = parent
}

// SetMdevType sets the mediated device type
func (d *Device) SetMdevType(mdevType string) {
	d.mdevType = mdevType
}

// Parent returns the parent device identifier, or an error if unset
func (d *Device) Parent() (string, error) {
	if d.parent == "" {
		return "", mderrors.Newf(mderrors.ErrDeviceNoParent, "device %s has no parent", d.UUID)
	}
	return d.parent, nil
}

// MdevType returns the mediated device type, or an error if unset
func (d *Device) MdevType() (string, error) {
	if d.mdevType == "" {
		return "", mderrors.Newf(mderrors.ErrDeviceNoType, "device %s has no mdev type", d.UUID)
	}
	return d.mdevType, nil
}

// HasParent reports whether a parent is set
func (d *Device) HasParent() bool {
	return d.parent != ""
}

// jsonDevice is the on-disk and on-stdin representation of a device
type jsonDevice struct {
	MdevType   string      `json:"mdev_type"`
	Start      string      `json:"start"`
	Attributes []Attribute `json:"attributes"`
}

func (d *Device) toJSONDevice() jsonDevice {
	start := "manual"
	if d.AutoStart {
		start = "auto"
	}
	attrs := d.Attributes
	if attrs == nil {
		attrs = []Attribute{}
	}
	return jsonDevice{
		MdevType:   d.mdevType,
		Start:      start,
		Attributes: attrs,
	}
}

// CompactJSON returns the device's compact JSON representation, the form
// piped to callout scripts on stdin
func (d *Device) CompactJSON() (string, error) {
	data, err := json.Marshal(d.toJSONDevice())
	if err != nil {
		return "", mderrors.Wrap(err, mderrors.ErrDeviceInvalid, "failed to serialize device")
	}
	return string(data), nil
}

// PrettyJSON returns the indented JSON representation used for persistence
// and display
func (d *Device) PrettyJSON() (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d.toJSONDevice()); err != nil {
		return "", mderrors.Wrap(err, mderrors.ErrDeviceInvalid, "failed to serialize device")
	}
	return buf.String(), nil
}

// LoadFromJSON populates the device from its JSON representation
func (d *Device) LoadFromJSON(parent string, data []byte) error {
	var jd jsonDevice
	if err := json.Unmarshal(data, &jd); err != nil {
		return mderrors.Wrap(err, mderrors.ErrDeviceInvalid, "failed to parse device definition")
	}
	if jd.MdevType == "" {
		return mderrors.Newf(mderrors.ErrDeviceInvalid, "device definition for %s has no mdev_type", d.UUID)
	}
	if jd.Start != "" && jd.Start != "auto" && jd.Start != "manual" {
		return mderrors.Newf(mderrors.ErrDeviceInvalid, "invalid start mode %q for device %s", jd.Start, d.UUID)
	}

	d.parent = parent
	d.mdevType = jd.MdevType
	d.AutoStart = jd.Start == "auto"
	d.Attributes = jd.Attributes
	return nil
}

// AddAttribute inserts an attribute at index, or appends when index is
// negative or past the end
func (d *Device) AddAttribute(name, value string, index int) {
	attr := Attribute{Name: name, Value: value}
	if index < 0 || index >= len(d.Attributes) {
		d.Attributes = append(d.Attributes, attr)
		return
	}
	d.Attributes = append(d.Attributes[:index], append([]Attribute{attr}, d.Attributes[index:]...)...)
}

// DeleteAttribute removes the attribute at index, or the last attribute when
// index is negative
func (d *Device) DeleteAttribute(index int) error {
	if len(d.Attributes) == 0 {
		return mderrors.Newf(mderrors.ErrInvalidInput, "device %s has no attributes to delete", d.UUID)
	}
	if index < 0 {
		index = len(d.Attributes) - 1
	}
	if index >= len(d.Attributes) {
		return mderrors.Newf(mderrors.ErrInvalidInput, "attribute index %d out of range", index)
	}
	d.Attributes = append(d.Attributes[:index], d.Attributes[index+1:]...)
	return nil
}
