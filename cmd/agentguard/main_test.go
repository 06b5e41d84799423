package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	fn()
	_ = w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	_ = r.Close()
	return buf.String()
}

func boolPtr(b bool) *bool { return &b }

func testApp(t *testing.T) func() (*App, error) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("AGENTGUARD_HOME", home)
	return func() (*App, error) {
		return NewApp(filepath.Join(home, "config.json"))
	}
}

func TestNewRootCmdIncludesCoreCommands(t *testing.T) {
	cmd := newRootCmd()
	got := map[string]bool{}
	for _, c := range cmd.Commands() {
		got[c.Name()] = true
	}
	for _, want := range []string{"decide", "scan", "registry", "config", "doctor"} {
		if !got[want] {
			t.Fatalf("expected command %q", want)
		}
	}
}

func TestDoctorCmdReportsHealthyOnFreshState(t *testing.T) {
	newSvc := testApp(t)
	cmd := newDoctorCmd(newSvc, boolPtr(false))
	out := captureStdout(t, func() {
		if err := cmd.Execute(); err != nil {
			t.Fatalf("doctor: %v", err)
		}
	})
	if out != "healthy\n" {
		t.Errorf("expected healthy output, got %q", out)
	}
}

func TestConfigGetDefaultsToBalanced(t *testing.T) {
	newSvc := testApp(t)
	cmd := newConfigCmd(newSvc, boolPtr(false))
	cmd.SetArgs([]string{"get"})
	out := captureStdout(t, func() {
		if err := cmd.Execute(); err != nil {
			t.Fatalf("config get: %v", err)
		}
	})
	if out != "level=balanced autoRegisterScans=false\n" {
		t.Errorf("unexpected config get output: %q", out)
	}
}

func TestConfigSetLevelPersists(t *testing.T) {
	newSvc := testApp(t)
	cmd := newConfigCmd(newSvc, boolPtr(false))
	cmd.SetArgs([]string{"set-level", "strict"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("set-level: %v", err)
	}

	app, err := newSvc()
	if err != nil {
		t.Fatal(err)
	}
	if app.Config.Level != "strict" {
		t.Errorf("expected persisted level strict, got %q", app.Config.Level)
	}
}

func TestRegistryListEmptyByDefault(t *testing.T) {
	newSvc := testApp(t)
	cmd := newRegistryListCmd(newSvc, boolPtr(false))
	out := captureStdout(t, func() {
		if err := cmd.Execute(); err != nil {
			t.Fatalf("registry list: %v", err)
		}
	})
	if out != "no matching records\n" {
		t.Errorf("unexpected list output: %q", out)
	}
}
