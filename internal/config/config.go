package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	AppName               = "todos"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todo.db"
	DefaultLogName        = "todos.log"
	DefaultStorageKey     = "todoapp.todos"
)

type Keymap struct {
	Quit            string `toml:"quit"`
	Add             string `toml:"add"`
	Up              string `toml:"up"`
	Down            string `toml:"down"`
	Toggle          string `toml:"toggle"`
	ToggleAll       string `toml:"toggle_all"`
	Delete          string `toml:"delete"`
	ClearCompleted  string `toml:"clear_completed"`
	FilterAll       string `toml:"filter_all"`
	FilterActive    string `toml:"filter_active"`
	FilterCompleted string `toml:"filter_completed"`
	Confirm         string `toml:"confirm"`
	Cancel          string `toml:"cancel"`
	Help            string `toml:"help"`
}

type Config struct {
	DBPath        string `toml:"db_path"`
	StorageKey    string `toml:"storage_key"`
	DefaultFilter string `toml:"default_filter"`
	ConfirmDelete bool   `toml:"confirm_delete"`
	LogPath       string `toml:"log_path"`
	LogLevel      string `toml:"log_level"`
	Keys          Keymap `toml:"keys"`
}

// ResolveConfigPath returns the per-user config file location, falling back
// to the working directory when the platform has no config dir.
func ResolveConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there first if
// the file does not exist. Relative db and log paths are resolved against the
// config file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(filepath.Dir(path)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if cfg.StorageKey == "" {
		cfg.StorageKey = DefaultStorageKey
	}
	if cfg.LogPath == "" {
		cfg.LogPath = DefaultLogName
	}
	cfg.Keys = cfg.Keys.withDefaults(defaultKeymap())
	return cfg.resolve(filepath.Dir(path)), nil
}

func (c Config) resolve(dir string) Config {
	c.DBPath = resolvePath(dir, c.DBPath)
	c.LogPath = resolvePath(dir, c.LogPath)
	return c
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) || dir == "" {
		return p
	}
	return filepath.Join(dir, p)
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// withDefaults fills bindings left empty in an older or hand-written config.
func (k Keymap) withDefaults(d Keymap) Keymap {
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&k.Quit, d.Quit)
	fill(&k.Add, d.Add)
	fill(&k.Up, d.Up)
	fill(&k.Down, d.Down)
	fill(&k.Toggle, d.Toggle)
	fill(&k.ToggleAll, d.ToggleAll)
	fill(&k.Delete, d.Delete)
	fill(&k.ClearCompleted, d.ClearCompleted)
	fill(&k.FilterAll, d.FilterAll)
	fill(&k.FilterActive, d.FilterActive)
	fill(&k.FilterCompleted, d.FilterCompleted)
	fill(&k.Confirm, d.Confirm)
	fill(&k.Cancel, d.Cancel)
	fill(&k.Help, d.Help)
	return k
}

func defaultConfig() Config {
	return Config{
		DBPath:        DefaultDBName,
		StorageKey:    DefaultStorageKey,
		DefaultFilter: "all",
		ConfirmDelete: true,
		LogPath:       DefaultLogName,
		LogLevel:      "info",
		Keys:          defaultKeymap(),
	}
}

func defaultKeymap() Keymap {
	return Keymap{
		Quit:            "q",
		Add:             "a",
		Up:              "k",
		Down:            "j",
		Toggle:          " ",
		ToggleAll:       "t",
		Delete:          "d",
		ClearCompleted:  "c",
		FilterAll:       "1",
		FilterActive:    "2",
		FilterCompleted: "3",
		Confirm:         "enter",
		Cancel:          "esc",
		Help:            "?",
	}
}
