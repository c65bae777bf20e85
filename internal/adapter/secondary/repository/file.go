package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"birthday-countdown/internal/domain"
)

// DefaultEnvPrefix is the environment variable prefix overriding file values.
// Example: BDAY_TICK_INTERVAL=500ms
const DefaultEnvPrefix = "BDAY_"

// FileRepository implements domain.SettingsRepository on top of a YAML file.
// Environment variables override the file; missing keys fall back to defaults.
// This is a secondary adapter.
type FileRepository struct {
	path      string
	envPrefix string
	mu        sync.Mutex
}

// NewFileRepository creates a new file-based settings repository.
func NewFileRepository(path string) (*FileRepository, error) {
	if path == "" {
		return nil, errors.New("path is required")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	return &FileRepository{path: path, envPrefix: DefaultEnvPrefix}, nil
}

// Path returns the settings file location.
func (f *FileRepository) Path() string {
	return f.path
}

// persistedData represents the YAML structure on disk.
type persistedData struct {
	TickInterval string `koanf:"tick_interval"`
	Addr         string `koanf:"addr"`
	VideoURL     string `koanf:"video_url"`
	Chime        bool   `koanf:"chime"`
	LogLevel     string `koanf:"log_level"`
}

func toPersisted(s domain.Settings) persistedData {
	return persistedData{
		TickInterval: s.TickInterval.String(),
		Addr:         s.Addr,
		VideoURL:     s.VideoURL,
		Chime:        s.Chime,
		LogLevel:     s.LogLevel,
	}
}

func (p persistedData) toMap() map[string]any {
	return map[string]any{
		"tick_interval": p.TickInterval,
		"addr":          p.Addr,
		"video_url":     p.VideoURL,
		"chime":         p.Chime,
		"log_level":     p.LogLevel,
	}
}

// Load reads defaults, then the file (if present), then the environment.
func (f *FileRepository) Load() (domain.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	k := koanf.New(".")
	if err := k.Load(mapProvider(toPersisted(domain.DefaultSettings()).toMap()), nil); err != nil {
		return domain.Settings{}, fmt.Errorf("load defaults: %w", err)
	}

	if _, err := os.Stat(f.path); err == nil {
		if err := k.Load(file.Provider(f.path), yaml.Parser()); err != nil {
			return domain.Settings{}, fmt.Errorf("read config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return domain.Settings{}, fmt.Errorf("stat config: %w", err)
	}

	prefix := f.envPrefix
	if err := k.Load(env.Provider(prefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, prefix))
	}), nil); err != nil {
		return domain.Settings{}, fmt.Errorf("load env: %w", err)
	}

	var persisted persistedData
	if err := k.Unmarshal("", &persisted); err != nil {
		return domain.Settings{}, fmt.Errorf("unmarshal config: %w", err)
	}

	interval, err := time.ParseDuration(persisted.TickInterval)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("parse tick_interval %q: %w", persisted.TickInterval, err)
	}

	return domain.Settings{
		TickInterval: interval,
		Addr:         persisted.Addr,
		VideoURL:     persisted.VideoURL,
		Chime:        persisted.Chime,
		LogLevel:     persisted.LogLevel,
	}, nil
}

// Save persists the settings to disk.
func (f *FileRepository) Save(settings domain.Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	k := koanf.New(".")
	if err := k.Load(mapProvider(toPersisted(settings).toMap()), nil); err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	data, err := k.Marshal(yaml.Parser())
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	// Atomic write
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename tmp: %w", err)
	}

	return nil
}

// DefaultPath returns ~/.config/birthday-countdown/config.yaml (or a cwd fallback).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".config", "birthday-countdown", "config.yaml")
	}
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, "birthday-countdown.yaml")
}

var _ domain.SettingsRepository = (*FileRepository)(nil)
