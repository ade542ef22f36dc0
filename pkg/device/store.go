package device

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	mderrors "github.com/virtkit/mdevman/pkg/errors"
	"github.com/virtkit/mdevman/pkg/paths"
)

// PersistPath returns the path the device definition is persisted at
func (d *Device) PersistPath() (string, error) {
	parent, err := d.Parent()
	if err != nil {
		return "", err
	}
	return filepath.Join(d.env.PersistBase(), parent, d.UUID.String()), nil
}

// IsDefined reports whether a persisted definition exists for this device
func (d *Device) IsDefined() bool {
	path, err := d.PersistPath()
	if err != nil {
		return false
	}
	ok, err := afero.Exists(d.fs, path)
	return err == nil && ok
}

// Define persists the device definition. Fails if the device is already
// defined under the same parent.
func (d *Device) Define() error {
	if _, err := d.MdevType(); err != nil {
		return err
	}
	if d.IsDefined() {
		return mderrors.Newf(mderrors.ErrDeviceExists, "device %s is already defined", d.UUID)
	}
	return d.writeDefinition()
}

// Update rewrites the persisted definition of an already-defined device
func (d *Device) Update() error {
	if !d.IsDefined() {
		return mderrors.Newf(mderrors.ErrDeviceNotFound, "device %s is not defined", d.UUID)
	}
	return d.writeDefinition()
}

func (d *Device) writeDefinition() error {
	path, err := d.PersistPath()
	if err != nil {
		return err
	}
	if err := d.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return mderrors.Wrapf(err, mderrors.ErrDirCreate, "failed to create persist directory for %s", d.UUID)
	}
	data, err := d.PrettyJSON()
	if err != nil {
		return err
	}
	if err := afero.WriteFile(d.fs, path, []byte(data), 0644); err != nil {
		return mderrors.Wrapf(err, mderrors.ErrFileWrite, "failed to persist device %s", d.UUID)
	}
	return nil
}

// Undefine removes the persisted definition
func (d *Device) Undefine() error {
	path, err := d.PersistPath()
	if err != nil {
		return err
	}
	if ok, _ := afero.Exists(d.fs, path); !ok {
		return mderrors.Newf(mderrors.ErrDeviceNotFound, "device %s is not defined", d.UUID)
	}
	if err := d.fs.Remove(path); err != nil {
		return mderrors.Wrapf(err, mderrors.ErrFileAccess, "failed to remove definition of %s", d.UUID)
	}
	return nil
}

// IsActive reports whether the device currently exists under the mdev base
func (d *Device) IsActive() bool {
	ok, err := afero.Exists(d.fs, filepath.Join(d.env.MdevBase(), d.UUID.String()))
	return err == nil && ok
}

// Start activates the device by writing its UUID to the parent type's
// create node
func (d *Device) Start() error {
	parent, err := d.Parent()
	if err != nil {
		return err
	}
	mdevType, err := d.MdevType()
	if err != nil {
		return err
	}
	createPath := filepath.Join(d.env.ParentBase(), parent, "mdev_supported_types", mdevType, "create")
	if ok, _ := afero.Exists(d.fs, filepath.Dir(createPath)); !ok {
		return mderrors.Newf(mderrors.ErrDeviceInvalid,
			"parent %s does not support mdev type %s", parent, mdevType)
	}
	if err := afero.WriteFile(d.fs, createPath, []byte(d.UUID.String()), 0200); err != nil {
		return mderrors.Wrapf(err, mderrors.ErrFileWrite, "failed to start device %s", d.UUID)
	}
	return nil
}

// Stop deactivates the device by writing to its remove node
func (d *Device) Stop() error {
	removePath := filepath.Join(d.env.MdevBase(), d.UUID.String(), "remove")
	if err := afero.WriteFile(d.fs, removePath, []byte("1"), 0200); err != nil {
		return mderrors.Wrapf(err, mderrors.ErrFileWrite, "failed to stop device %s", d.UUID)
	}
	return nil
}

// GetDefined looks up a single defined device by UUID. When parent is empty
// and the UUID is defined under more than one parent, the lookup fails as
// ambiguous.
func GetDefined(env paths.Env, fs afero.Fs, id uuid.UUID, parent string) (*Device, error) {
	devs, err := ListDefined(env, fs, id, parent)
	if err != nil {
		return nil, err
	}
	switch len(devs) {
	case 0:
		return nil, mderrors.Newf(mderrors.ErrDeviceNotFound, "device %s is not defined", id)
	case 1:
		return devs[0], nil
	default:
		return nil, mderrors.Newf(mderrors.ErrDeviceAmbiguous,
			"device %s is defined under multiple parents, specify one", id)
	}
}

// ListDefined returns defined devices, filtered by UUID and parent when
// non-zero. Parent directories that cannot be read are skipped.
func ListDefined(env paths.Env, fs afero.Fs, id uuid.UUID, parent string) ([]*Device, error) {
	var devs []*Device

	parents, err := afero.ReadDir(fs, env.PersistBase())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, mderrors.Wrap(err, mderrors.ErrFileAccess, "failed to read persist base")
	}

	for _, p := range parents {
		if !p.IsDir() {
			continue
		}
		if parent != "" && p.Name() != parent {
			continue
		}
		entries, err := afero.ReadDir(fs, filepath.Join(env.PersistBase(), p.Name()))
		if err != nil {
			continue
		}
		for _, entry := range entries {
			devID, err := uuid.Parse(entry.Name())
			if err != nil {
				continue
			}
			if id != uuid.Nil && devID != id {
				continue
			}
			data, err := afero.ReadFile(fs, filepath.Join(env.PersistBase(), p.Name(), entry.Name()))
			if err != nil {
				continue
			}
			dev := New(env, fs, devID)
			if err := dev.LoadFromJSON(p.Name(), data); err != nil {
				return nil, err
			}
			devs = append(devs, dev)
		}
	}
	return devs, nil
}
