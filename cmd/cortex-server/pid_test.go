package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestManagePIDFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cortex.pid")

	cleanup, err := managePIDFile(path, true)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if pid, _ := strconv.Atoi(strings.TrimSpace(string(data))); pid != os.Getpid() {
		t.Fatalf("pid file contains %q", data)
	}

	if _, err := managePIDFile(path, true); err == nil {
		t.Fatal("second locked instance should be refused")
	}

	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("pid file not removed: %v", err)
	}
}

func TestManagePIDFileReusesStale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cortex.pid")
	if err := os.WriteFile(path, []byte("not-a-pid\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cleanup, err := managePIDFile(path, true)
	if err != nil {
		t.Fatalf("stale file should be reused: %v", err)
	}
	cleanup()
}
