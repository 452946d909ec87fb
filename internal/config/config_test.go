package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "DATABASE_URL", "CORS_ORIGINS", "QUEUE_NAME",
		"QUEUE_VISIBILITY", "QUEUE_MAX_RECEIVES", "WORKER_BATCH_SIZE", "WORKER_POLL_INTERVAL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load(zap.NewNop())

	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %q", cfg.Port)
	}
	if cfg.QueueName != "order-created" {
		t.Fatalf("expected default queue name, got %q", cfg.QueueName)
	}
	if cfg.QueueVisibility != 30*time.Second {
		t.Fatalf("expected 30s visibility, got %v", cfg.QueueVisibility)
	}
	if cfg.QueueMaxReceives != 3 {
		t.Fatalf("expected 3 max receives, got %d", cfg.QueueMaxReceives)
	}
	if cfg.WorkerBatchSize != 10 {
		t.Fatalf("expected batch size 10, got %d", cfg.WorkerBatchSize)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("expected 2 default origins, got %v", cfg.CORSOrigins)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("QUEUE_VISIBILITY", "45s")
	t.Setenv("QUEUE_MAX_RECEIVES", "5")
	t.Setenv("CORS_ORIGINS", "https://tickets.example, https://admin.example")

	cfg := Load(zap.NewNop())

	if cfg.Port != "9090" {
		t.Fatalf("expected port 9090, got %q", cfg.Port)
	}
	if cfg.QueueVisibility != 45*time.Second {
		t.Fatalf("expected 45s visibility, got %v", cfg.QueueVisibility)
	}
	if cfg.QueueMaxReceives != 5 {
		t.Fatalf("expected 5 max receives, got %d", cfg.QueueMaxReceives)
	}
	want := []string{"https://tickets.example", "https://admin.example"}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != want[0] || cfg.CORSOrigins[1] != want[1] {
		t.Fatalf("unexpected origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("QUEUE_VISIBILITY", "not-a-duration")
	t.Setenv("QUEUE_MAX_RECEIVES", "-1")
	t.Setenv("WORKER_BATCH_SIZE", "zero")

	cfg := Load(zap.NewNop())

	if cfg.QueueVisibility != 30*time.Second {
		t.Fatalf("expected fallback visibility, got %v", cfg.QueueVisibility)
	}
	if cfg.QueueMaxReceives != 3 {
		t.Fatalf("expected fallback max receives, got %d", cfg.QueueMaxReceives)
	}
	if cfg.WorkerBatchSize != 10 {
		t.Fatalf("expected fallback batch size, got %d", cfg.WorkerBatchSize)
	}
}

func TestParseCSV(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "", want: nil},
		{in: "a", want: []string{"a"}},
		{in: "a, b ,c", want: []string{"a", "b", "c"}},
		{in: ",,a,", want: []string{"a"}},
	}

	for _, tt := range tests {
		got := parseCSV(tt.in)
		if len(got) != len(tt.want) {
			t.Fatalf("parseCSV(%q) = %v, want %v", tt.in, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("parseCSV(%q) = %v, want %v", tt.in, got, tt.want)
			}
		}
	}
}

func TestParseEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\n" +
		"PLAIN_KEY=plain\n" +
		"export EXPORTED_KEY=exported\n" +
		"QUOTED_KEY=\"with spaces\"\n" +
		"SINGLE_KEY='single'\n" +
		"EXISTING_KEY=from-file\n" +
		"not a pair\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv("EXISTING_KEY", "from-env")
	for _, key := range []string{"PLAIN_KEY", "EXPORTED_KEY", "QUOTED_KEY", "SINGLE_KEY"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open env file: %v", err)
	}
	defer file.Close()

	if err := parseEnvFile(file); err != nil {
		t.Fatalf("parse env file: %v", err)
	}

	if got := os.Getenv("PLAIN_KEY"); got != "plain" {
		t.Fatalf("PLAIN_KEY = %q", got)
	}
	if got := os.Getenv("EXPORTED_KEY"); got != "exported" {
		t.Fatalf("EXPORTED_KEY = %q", got)
	}
	if got := os.Getenv("QUOTED_KEY"); got != "with spaces" {
		t.Fatalf("QUOTED_KEY = %q", got)
	}
	if got := os.Getenv("SINGLE_KEY"); got != "single" {
		t.Fatalf("SINGLE_KEY = %q", got)
	}
	if got := os.Getenv("EXISTING_KEY"); got != "from-env" {
		t.Fatalf("existing env should win, got %q", got)
	}
}

func TestTrimQuotes(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`"quoted"`, "quoted"},
		{`'quoted'`, "quoted"},
		{`plain`, "plain"},
		{`"mismatched'`, `"mismatched'`},
		{`"`, `"`},
	}
	for _, tt := range tests {
		if got := trimQuotes(tt.in); got != tt.want {
			t.Fatalf("trimQuotes(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
