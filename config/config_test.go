package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultMatchesSpecValues(t *testing.T) {
	c := Default()
	if c.RingCapacity != 8192 {
		t.Errorf("ring capacity: got %d", c.RingCapacity)
	}
	if c.CommandInboxCapacity != 32 {
		t.Errorf("command inbox: got %d", c.CommandInboxCapacity)
	}
	if c.EventOutboxCapacity != 64 {
		t.Errorf("event outbox: got %d", c.EventOutboxCapacity)
	}
	if c.LevelUpdateHz != 60 {
		t.Errorf("level update hz: got %v", c.LevelUpdateHz)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if c != Default() {
		t.Fatalf("expected defaults, got %+v", c)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	if err := os.WriteFile(path, []byte("ring_capacity: 4096\nlevel_update_hz: 30\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.RingCapacity != 4096 {
		t.Errorf("expected overridden ring capacity 4096, got %d", c.RingCapacity)
	}
	if c.LevelUpdateHz != 30 {
		t.Errorf("expected overridden level update hz 30, got %v", c.LevelUpdateHz)
	}
	if c.CommandInboxCapacity != 32 {
		t.Errorf("expected untouched default 32, got %d", c.CommandInboxCapacity)
	}
}

func TestLevelUpdateInterval(t *testing.T) {
	c := Default()
	got := c.LevelUpdateInterval()
	want := time.Second / 60
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
