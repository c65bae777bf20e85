package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"birthday-countdown/internal/domain"
)

func TestNewFileRepository_RequiresPath(t *testing.T) {
	if _, err := NewFileRepository(""); err == nil {
		t.Error("NewFileRepository(\"\") should fail")
	}
}

func TestLoad_Defaults(t *testing.T) {
	repo, err := NewFileRepository(filepath.Join(t.TempDir(), "nested", "config.yaml"))
	if err != nil {
		t.Fatalf("NewFileRepository() error = %v", err)
	}

	got, err := repo.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != domain.DefaultSettings() {
		t.Errorf("Load() = %+v, want defaults %+v", got, domain.DefaultSettings())
	}
}

func TestSaveLoad(t *testing.T) {
	repo, err := NewFileRepository(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("NewFileRepository() error = %v", err)
	}

	want := domain.Settings{
		TickInterval: 250 * time.Millisecond,
		Addr:         "0.0.0.0:8080",
		VideoURL:     "https://example.com/party",
		Chime:        false,
		LogLevel:     "debug",
	}
	if err := repo.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(repo.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}

	got, err := repo.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestLoad_PartialFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
addr: "127.0.0.1:9999"
chime: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("BDAY_LOG_LEVEL", "trace")
	t.Setenv("BDAY_TICK_INTERVAL", "2s")

	repo, err := NewFileRepository(path)
	if err != nil {
		t.Fatalf("NewFileRepository() error = %v", err)
	}
	got, err := repo.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got.Addr != "127.0.0.1:9999" {
		t.Errorf("Addr = %q, want file value", got.Addr)
	}
	if got.Chime {
		t.Error("Chime = true, want file value false")
	}
	if got.LogLevel != "trace" {
		t.Errorf("LogLevel = %q, want env value trace", got.LogLevel)
	}
	if got.TickInterval != 2*time.Second {
		t.Errorf("TickInterval = %v, want env value 2s", got.TickInterval)
	}
	if got.VideoURL != domain.DefaultVideoURL {
		t.Errorf("VideoURL = %q, want default", got.VideoURL)
	}
}

func TestLoad_BadInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("tick_interval: soon\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	repo, _ := NewFileRepository(path)
	if _, err := repo.Load(); err == nil {
		t.Error("Load() with bad interval should fail")
	}
}

func TestWatch_ReloadsOnSave(t *testing.T) {
	repo, err := NewFileRepository(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("NewFileRepository() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan domain.Settings, 8)
	if err := repo.Watch(ctx, func(s domain.Settings) { changes <- s }); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	updated := domain.DefaultSettings()
	updated.VideoURL = "https://example.com/cake"
	if err := repo.Save(updated); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	deadline := time.After(3 * time.Second)
	for {
		select {
		case s := <-changes:
			if s.VideoURL == updated.VideoURL {
				return
			}
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
}
