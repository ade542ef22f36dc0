package device

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mderrors "github.com/virtkit/mdevman/pkg/errors"
	"github.com/virtkit/mdevman/pkg/paths"
)

const otherParent = "0000:00:02.0"

type testStore struct {
	env paths.Env
	fs  afero.Fs
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()
	return &testStore{
		env: paths.NewWithRoot("/scratch"),
		fs:  afero.NewMemMapFs(),
	}
}

func (s *testStore) newDevice(t *testing.T, parent string) *Device {
	t.Helper()
	dev := New(s.env, s.fs, uuid.MustParse(testUUID))
	dev.SetParent(parent)
	dev.SetMdevType(testType)
	return dev
}

func TestDefine(t *testing.T) {
	s := newTestStore(t)
	dev := s.newDevice(t, testParent)

	assert.False(t, dev.IsDefined())
	require.NoError(t, dev.Define())
	assert.True(t, dev.IsDefined())

	path, err := dev.PersistPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/scratch/etc/mdevman.d", testParent, testUUID), path)

	data, err := afero.ReadFile(s.fs, path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"mdev_type": "i915-GVTg_V5_4"`)
	assert.Contains(t, string(data), `"start": "manual"`)
}

func TestDefineAlreadyDefined(t *testing.T) {
	s := newTestStore(t)
	dev := s.newDevice(t, testParent)
	require.NoError(t, dev.Define())

	err := dev.Define()
	assert.True(t, mderrors.IsErrorCode(err, mderrors.ErrDeviceExists))
}

func TestDefineRequiresType(t *testing.T) {
	s := newTestStore(t)
	dev := New(s.env, s.fs, uuid.MustParse(testUUID))
	dev.SetParent(testParent)

	err := dev.Define()
	assert.True(t, mderrors.IsErrorCode(err, mderrors.ErrDeviceNoType))
}

func TestUpdate(t *testing.T) {
	s := newTestStore(t)
	dev := s.newDevice(t, testParent)

	// update before define fails
	err := dev.Update()
	assert.True(t, mderrors.IsErrorCode(err, mderrors.ErrDeviceNotFound))

	require.NoError(t, dev.Define())
	dev.AutoStart = true
	dev.AddAttribute("added-attr", "added-attr-value", -1)
	require.NoError(t, dev.Update())

	reloaded, err := GetDefined(s.env, s.fs, dev.UUID, testParent)
	require.NoError(t, err)
	assert.True(t, reloaded.AutoStart)
	require.Len(t, reloaded.Attributes, 1)
	assert.Equal(t, "added-attr", reloaded.Attributes[0].Name)
}

func TestUndefine(t *testing.T) {
	s := newTestStore(t)
	dev := s.newDevice(t, testParent)
	require.NoError(t, dev.Define())

	require.NoError(t, dev.Undefine())
	assert.False(t, dev.IsDefined())

	err := dev.Undefine()
	assert.True(t, mderrors.IsErrorCode(err, mderrors.ErrDeviceNotFound))
}

func TestGetDefined(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.newDevice(t, testParent).Define())

	dev, err := GetDefined(s.env, s.fs, uuid.MustParse(testUUID), testParent)
	require.NoError(t, err)
	parent, err := dev.Parent()
	require.NoError(t, err)
	assert.Equal(t, testParent, parent)

	// lookup without parent is fine while unambiguous
	_, err = GetDefined(s.env, s.fs, uuid.MustParse(testUUID), "")
	assert.NoError(t, err)

	_, err = GetDefined(s.env, s.fs, uuid.New(), "")
	assert.True(t, mderrors.IsErrorCode(err, mderrors.ErrDeviceNotFound))
}

func TestGetDefinedAmbiguous(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.newDevice(t, testParent).Define())
	require.NoError(t, s.newDevice(t, otherParent).Define())

	_, err := GetDefined(s.env, s.fs, uuid.MustParse(testUUID), "")
	assert.True(t, mderrors.IsErrorCode(err, mderrors.ErrDeviceAmbiguous))

	// a parent disambiguates
	dev, err := GetDefined(s.env, s.fs, uuid.MustParse(testUUID), otherParent)
	require.NoError(t, err)
	parent, err := dev.Parent()
	require.NoError(t, err)
	assert.Equal(t, otherParent, parent)
}

func TestListDefined(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.newDevice(t, testParent).Define())
	require.NoError(t, s.newDevice(t, otherParent).Define())

	all, err := ListDefined(s.env, s.fs, uuid.Nil, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	one, err := ListDefined(s.env, s.fs, uuid.Nil, testParent)
	require.NoError(t, err)
	assert.Len(t, one, 1)

	// missing persist base is not an error
	empty, err := ListDefined(paths.NewWithRoot("/nowhere"), s.fs, uuid.Nil, "")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStartStop(t *testing.T) {
	s := newTestStore(t)
	dev := s.newDevice(t, testParent)

	// parent type dir must exist for start
	err := dev.Start()
	assert.True(t, mderrors.IsErrorCode(err, mderrors.ErrDeviceInvalid))

	typeDir := filepath.Join(s.env.ParentBase(), testParent, "mdev_supported_types", testType)
	require.NoError(t, s.fs.MkdirAll(typeDir, 0755))

	require.NoError(t, dev.Start())
	data, err := afero.ReadFile(s.fs, filepath.Join(typeDir, "create"))
	require.NoError(t, err)
	assert.Equal(t, testUUID, string(data))

	require.NoError(t, dev.Stop())
	data, err = afero.ReadFile(s.fs, filepath.Join(s.env.MdevBase(), testUUID, "remove"))
	require.NoError(t, err)
	assert.Equal(t, "1", string(data))
}
