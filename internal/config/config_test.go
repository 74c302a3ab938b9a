package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	os.Setenv("JWT_SECRET", "this_is_a_test_secret_key_with_32_chars_minimum")
	os.Setenv("POSTGRES_DB", "chatapp_test")
	os.Setenv("UPLOAD_MAX_SIZE", "1048576")
	defer func() {
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("POSTGRES_DB")
		os.Unsetenv("UPLOAD_MAX_SIZE")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.PostgresDB != "chatapp_test" {
		t.Errorf("PostgresDB = %q, want %q", cfg.PostgresDB, "chatapp_test")
	}

	if cfg.UploadMaxSize != 1048576 {
		t.Errorf("UploadMaxSize = %d, want %d", cfg.UploadMaxSize, 1048576)
	}

	if cfg.ServerPort != "5000" {
		t.Errorf("ServerPort default = %q, want %q", cfg.ServerPort, "5000")
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	os.Unsetenv("JWT_SECRET")

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for missing JWT_SECRET, got nil")
	}
}

func TestLoad_ShortJWTSecret(t *testing.T) {
	os.Setenv("JWT_SECRET", "too_short")
	defer os.Unsetenv("JWT_SECRET")

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for short JWT_SECRET, got nil")
	}
}
