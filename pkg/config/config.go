// Package config loads mdevman configuration. Layering, lowest to highest
// precedence: embedded defaults, the system config under /etc/mdevman, a
// per-user config under $XDG_CONFIG_HOME/mdevman, and MDEVMAN_* environment
// variables.
package config

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	mderrors "github.com/virtkit/mdevman/pkg/errors"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// SystemConfigDir is where the system-wide config file lives
const SystemConfigDir = "/etc/mdevman"

// EnvPrefix is the prefix for environment variable overrides, e.g.
// MDEVMAN_SCRIPTS_CALLOUT_DIRS
const EnvPrefix = "MDEVMAN_"

// Config holds the resolved mdevman configuration
type Config struct {
	Scripts ScriptsConfig `koanf:"scripts"`
}

// ScriptsConfig holds administrator additions to the script search paths
type ScriptsConfig struct {
	CalloutDirs      []string `koanf:"callout_dirs"`
	NotificationDirs []string `koanf:"notification_dirs"`
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Load resolves the configuration from all layers
func Load() (*Config, error) {
	return LoadFrom(SystemConfigDir, filepath.Join(xdg.ConfigHome, "mdevman"))
}

// LoadFrom resolves the configuration reading config files from the given
// directories, in order of increasing precedence
func LoadFrom(configDirs ...string) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, mderrors.Wrap(err, mderrors.ErrConfigLoad, "failed to load built-in defaults")
	}

	// 2. Config files, toml preferred over yaml within each directory
	for _, dir := range configDirs {
		if err := loadDirConfig(k, dir); err != nil {
			return nil, err
		}
	}

	// 3. Environment overrides: MDEVMAN_SCRIPTS_CALLOUT_DIRS=a:b maps to
	// scripts.callout_dirs = [a, b]
	envProvider := env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		name := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		name = strings.Replace(name, "_", ".", 1)
		if strings.HasSuffix(name, "dirs") {
			return name, strings.Split(value, ":")
		}
		return name, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, mderrors.Wrap(err, mderrors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, mderrors.Wrap(err, mderrors.ErrConfigParse, "failed to unmarshal configuration")
	}

	return &cfg, nil
}

func loadDirConfig(k *koanf.Koanf, dir string) error {
	type candidate struct {
		name   string
		parser koanf.Parser
	}
	candidates := []candidate{
		{"config.toml", toml.Parser()},
		{"config.yaml", yaml.Parser()},
	}

	for _, c := range candidates {
		path := filepath.Join(dir, c.name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), c.parser); err != nil {
			return mderrors.Wrapf(err, mderrors.ErrConfigParse, "failed to parse config file %s", path)
		}
		break
	}
	return nil
}
