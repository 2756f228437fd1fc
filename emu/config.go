package emu

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	"jubilee/emu/log"
	"jubilee/hw/input"
)

type Config struct {
	Input   input.Config  `toml:"input"`
	Video   VideoConfig   `toml:"video"`
	Machine MachineConfig `toml:"machine"`

	TraceOut io.WriteCloser `toml:"-"`
}

type VideoConfig struct {
	DisableVSync bool  `toml:"disable_vsync"`
	Scale        int   `toml:"scale"`
	Monitor      int32 `toml:"monitor"`
}

type MachineConfig struct {
	// NVRAMDir is where the battery backed memory is persisted. Defaults to
	// the config directory.
	NVRAMDir string `toml:"nvram_dir"`
}

const DefaultFileMode = os.FileMode(0755)

var ConfigDir = sync.OnceValue(func() string {
	cfgdir, err := os.UserConfigDir()
	if err != nil {
		log.ModEmu.Fatalf("failed to get user config directory: %v", err)
	}

	dir := filepath.Join(cfgdir, "jubilee")
	if err := os.MkdirAll(dir, DefaultFileMode); err != nil {
		log.ModEmu.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})

func DefaultConfig() Config {
	return Config{
		Input: input.DefaultConfig(),
		Video: VideoConfig{
			Scale: 2,
		},
	}
}

const cfgFilename = "config.toml"

// LoadConfigOrDefault loads the configuration from the config directory, or
// provides a default one.
func LoadConfigOrDefault() Config {
	cfg, err := loadConfig(filepath.Join(ConfigDir(), cfgFilename))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.ModEmu.WarnZ("failed to load config, using default").Error("err", err).End()
		}
		return DefaultConfig()
	}
	return cfg
}

func loadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, err
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		log.ModEmu.WarnZ("unknown config keys").String("keys", fmt.Sprint(undec)).End()
	}
	if cfg.Video.Scale < 1 {
		cfg.Video.Scale = 1
	}
	return cfg, nil
}

// SaveConfig into the config directory.
func SaveConfig(cfg Config) error {
	return saveConfig(filepath.Join(ConfigDir(), cfgFilename), cfg)
}

func saveConfig(path string, cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}

// NVRAMDir returns the directory where NVRAM is persisted.
func (cfg *Config) NVRAMDir() string {
	if cfg.Machine.NVRAMDir != "" {
		return cfg.Machine.NVRAMDir
	}
	return ConfigDir()
}
