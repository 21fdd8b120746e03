package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvPath names an explicit config file.
const EnvPath = "TMXEDIT_CONFIG"

type Config struct {
	Log     LogConfig     `toml:"log"`
	Storage StorageConfig `toml:"storage"`
	Editor  EditorConfig  `toml:"editor"`
	HTTP    HTTPConfig    `toml:"http"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type StorageConfig struct {
	// Path of the sqlite database. Empty disables persistence.
	Path      string `toml:"path"`
	Cache     bool   `toml:"cache"`
	CacheKeep int    `toml:"cache_keep"`
}

type EditorConfig struct {
	PageSize int `toml:"page_size"`
}

type HTTPConfig struct {
	Timeout duration `toml:"timeout"`
}

// duration decodes TOML strings such as "20s".
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func Default() Config {
	dbPath := ""
	if dir, err := os.UserCacheDir(); err == nil {
		dbPath = filepath.Join(dir, "tmxedit", "tmxedit.db")
	}
	return Config{
		Log:     LogConfig{Level: "warn", Format: "console"},
		Storage: StorageConfig{Path: dbPath, Cache: true, CacheKeep: 20},
		Editor:  EditorConfig{PageSize: 100},
		HTTP:    HTTPConfig{Timeout: duration{20 * time.Second}},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Editor.PageSize <= 0 {
		return errors.New("editor.page_size must be positive")
	}
	if c.Storage.CacheKeep < 0 {
		return errors.New("storage.cache_keep must not be negative")
	}
	if c.HTTP.Timeout.Duration < 0 {
		return errors.New("http.timeout must not be negative")
	}
	return nil
}

// Locate returns the config file to use: explicit, then $TMXEDIT_CONFIG,
// then <user config dir>/tmxedit/config.toml. An explicit path is returned
// as is; the other two are used only when the file exists. ok is false when
// none does.
func Locate(explicit string) (path string, ok bool, err error) {
	if explicit != "" {
		return explicit, true, nil
	}
	if env := os.Getenv(EnvPath); env != "" {
		if ok, err := exists(env); ok || err != nil {
			return env, ok, err
		}
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", false, nil
	}
	candidate := filepath.Join(dir, "tmxedit", "config.toml")
	if ok, err := exists(candidate); ok || err != nil {
		return candidate, ok, err
	}
	return "", false, nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("failed to stat %q: %w", path, err)
	}
}

// Resolve locates and loads the config, falling back to defaults.
func Resolve(explicit string) (Config, error) {
	path, ok, err := Locate(explicit)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}
