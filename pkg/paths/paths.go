// Package paths provides centralized path handling for mdevman.
// It resolves the directory trees that hold persisted device definitions,
// active device entries, and the operator-installed callout and
// notification scripts.
package paths

import (
	"os"
	"path/filepath"
)

// Environment variable names
const (
	// EnvRoot overrides the filesystem root for all mdevman paths.
	// Used by the test suite to point mdevman at a scratch tree.
	EnvRoot = "MDEVMAN_ROOT"
)

// Directory layout constants.
// These define mdevman's on-disk structure and are NOT user-configurable.
// User-configurable additions (extra script directories) belong in pkg/config.
const (
	// PersistDir holds persisted device definitions, one JSON file per
	// device at <PersistDir>/<parent>/<uuid>
	PersistDir = "etc/mdevman.d"

	// SystemScriptsDir is the distro-installed script tree
	SystemScriptsDir = "usr/lib/mdevman/scripts.d"

	// AdminScriptsDir is the administrator-managed script tree, consulted
	// before SystemScriptsDir
	AdminScriptsDir = "etc/mdevman.d/scripts.d"

	// CalloutsSubdir holds pre/post/get callout scripts
	CalloutsSubdir = "callouts"

	// NotifiersSubdir holds best-effort notification scripts
	NotifiersSubdir = "notifiers"

	// MdevBaseDir is where active mediated devices appear
	MdevBaseDir = "sys/bus/mdev/devices"

	// ParentBaseDir is where mdev-capable parent devices appear
	ParentBaseDir = "sys/class/mdev_bus"
)

// Env supplies the ordered directory lists and filesystem roots the rest of
// mdevman operates on. Callout directories are ordered most-specific first:
// a script installed by the administrator shadows one shipped by a package.
type Env interface {
	// Root returns the filesystem root all other paths hang off of
	Root() string

	// CalloutDirs returns the ordered list of callout script directories
	CalloutDirs() []string

	// NotificationDirs returns the ordered list of notification script directories
	NotificationDirs() []string

	// PersistBase returns the directory holding persisted device definitions
	PersistBase() string

	// MdevBase returns the directory where active devices appear
	MdevBase() string

	// ParentBase returns the directory where parent devices appear
	ParentBase() string
}

type env struct {
	root string

	// administrator-configured additions, consulted after the built-in trees
	extraCalloutDirs      []string
	extraNotificationDirs []string
}

// Option configures an Env
type Option func(*env)

// WithExtraCalloutDirs appends administrator-configured callout directories
// after the built-in trees
func WithExtraCalloutDirs(dirs []string) Option {
	return func(e *env) {
		e.extraCalloutDirs = append(e.extraCalloutDirs, dirs...)
	}
}

// WithExtraNotificationDirs appends administrator-configured notification
// directories after the built-in trees
func WithExtraNotificationDirs(dirs []string) Option {
	return func(e *env) {
		e.extraNotificationDirs = append(e.extraNotificationDirs, dirs...)
	}
}

// New creates an Env rooted at "/" unless MDEVMAN_ROOT is set
func New(opts ...Option) Env {
	root := os.Getenv(EnvRoot)
	if root == "" {
		root = "/"
	}
	return NewWithRoot(root, opts...)
}

// NewWithRoot creates an Env rooted at the given directory
func NewWithRoot(root string, opts ...Option) Env {
	e := &env{root: root}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *env) Root() string {
	return e.root
}

func (e *env) CalloutDirs() []string {
	dirs := []string{
		filepath.Join(e.root, AdminScriptsDir, CalloutsSubdir),
		filepath.Join(e.root, SystemScriptsDir, CalloutsSubdir),
	}
	return append(dirs, e.extraCalloutDirs...)
}

func (e *env) NotificationDirs() []string {
	dirs := []string{
		filepath.Join(e.root, AdminScriptsDir, NotifiersSubdir),
		filepath.Join(e.root, SystemScriptsDir, NotifiersSubdir),
	}
	return append(dirs, e.extraNotificationDirs...)
}

func (e *env) PersistBase() string {
	return filepath.Join(e.root, PersistDir)
}

func (e *env) MdevBase() string {
	return filepath.Join(e.root, MdevBaseDir)
}

func (e *env) ParentBase() string {
	return filepath.Join(e.root, ParentBaseDir)
}
