package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigureFile(t *testing.T) {
	prev := GetGlobalLogger()
	defer SetGlobalLogger(prev)

	path := filepath.Join(t.TempDir(), "engine.log")
	if err := ConfigureFile(Config{Level: "info", Prefix: "test"}, path); err != nil {
		t.Fatalf("ConfigureFile: %v", err)
	}

	Infof("season %d under way", 2024)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "season 2024 under way") {
		t.Errorf("log file contents = %q", data)
	}
	if strings.Contains(string(data), "\x1b[") {
		t.Error("file output contains ANSI escapes")
	}
}

func TestConfigureFileBadPath(t *testing.T) {
	prev := GetGlobalLogger()
	defer SetGlobalLogger(prev)

	err := ConfigureFile(Config{Level: "info"}, filepath.Join(t.TempDir(), "missing", "engine.log"))
	if err == nil {
		t.Fatal("unwritable path should fail")
	}
}
