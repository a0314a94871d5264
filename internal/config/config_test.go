package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("LOCK_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.LockTimeout.Seconds() != 3 {
		t.Errorf("LockTimeout = %s, want 3s", cfg.LockTimeout)
	}
	if cfg.MigrationsPath != "migrations" {
		t.Errorf("MigrationsPath = %q", cfg.MigrationsPath)
	}
}

func TestLoadRejectsBadDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "://not-a-url")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed DATABASE_URL")
	}
}

func TestLoadRejectsBadLockTimeout(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/ticketly")
	t.Setenv("LOCK_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unparseable LOCK_TIMEOUT")
	}

	t.Setenv("LOCK_TIMEOUT", "-1s")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative LOCK_TIMEOUT")
	}
}

func TestLoadCustomLockTimeout(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/ticketly")
	t.Setenv("LOCK_TIMEOUT", "750ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LockTimeout.Milliseconds() != 750 {
		t.Errorf("LockTimeout = %s, want 750ms", cfg.LockTimeout)
	}
}
