package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestHelpersAreNoopsBeforeInit(t *testing.T) {
	Logger = nil
	Info("ignored")
	Warn("ignored")
	Error("ignored")
	Debug("ignored")
	if WithPrefix("x") != nil {
		t.Error("WithPrefix before Init should return nil")
	}
}

func TestInitWriter(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	defer func() { Logger = nil }()

	Info("card decided", "candidate", "p1", "decision", "duo")

	out := buf.String()
	if !strings.Contains(out, "card decided") || !strings.Contains(out, "candidate=p1") {
		t.Errorf("unexpected log output: %q", out)
	}
}

func TestInitCreatesDatedFile(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir, "test"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	Close()
	Logger = nil

	name := "duo-" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(dir, "logs", name))
	if err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	if !strings.Contains(string(data), "duo started") || !strings.Contains(string(data), "duo shutting down") {
		t.Errorf("log file missing lifecycle lines:\n%s", data)
	}
}
