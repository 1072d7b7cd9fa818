//go:build !windows

package speech

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func fakeBinaries(t *testing.T, names ...string) {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("PATH", dir)
}

func TestNewPlatformEngineProbeOrder(t *testing.T) {
	fakeBinaries(t, "espeak", "flite")

	e := NewPlatformEngine("", "")
	if !e.Supported() {
		t.Fatal("engine not supported with binaries on PATH")
	}
	// espeak precedes flite in preference order.
	if e.Name() != "espeak" {
		t.Errorf("Name() = %q, want espeak", e.Name())
	}
}

func TestNewPlatformEnginePreferred(t *testing.T) {
	fakeBinaries(t, "espeak", "flite")

	e := NewPlatformEngine("", "flite")
	if e.Name() != "flite" {
		t.Errorf("Name() = %q, want preferred flite", e.Name())
	}
}

func TestNewPlatformEnginePreferredMissing(t *testing.T) {
	fakeBinaries(t, "espeak")

	e := NewPlatformEngine("", "say")
	if e.Name() != "espeak" {
		t.Errorf("Name() = %q, want probe fallback espeak", e.Name())
	}
}

func TestNewPlatformEngineNothingOnPath(t *testing.T) {
	fakeBinaries(t) // empty dir

	e := NewPlatformEngine("", "")
	if e.Supported() {
		t.Error("Supported() = true with empty PATH")
	}
	if e.Name() != "none" {
		t.Errorf("Name() = %q, want none", e.Name())
	}
}

func TestSpeakArgs(t *testing.T) {
	argsFor := func(bin string) speakArgs {
		for _, b := range platformBackends {
			if b.bin == bin {
				return b.args
			}
		}
		t.Fatalf("unknown backend %q", bin)
		return nil
	}

	tests := []struct {
		name     string
		bin      string
		rate     float64
		voice    string
		expected []string
	}{
		{
			name:     "say normal rate",
			bin:      "say",
			rate:     1.0,
			expected: []string{"-r", "175", "hello"},
		},
		{
			name:     "say with voice",
			bin:      "say",
			rate:     2.0,
			voice:    "Daniel",
			expected: []string{"-r", "350", "-v", "Daniel", "hello"},
		},
		{
			name:     "espeak-ng rate scaling",
			bin:      "espeak-ng",
			rate:     0.5,
			expected: []string{"-s", "80", "hello"},
		},
		{
			name:     "flite stretch inverts rate",
			bin:      "flite",
			rate:     2.0,
			expected: []string{"--setf", "duration_stretch=0.50", "-t", "hello"},
		},
		{
			name:     "spd-say clamps rate",
			bin:      "spd-say",
			rate:     5.0,
			expected: []string{"-w", "-r", "100", "hello"},
		},
		{
			name:     "spd-say slow",
			bin:      "spd-say",
			rate:     0.5,
			expected: []string{"-w", "-r", "-50", "hello"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := argsFor(tt.bin)("hello", tt.rate, tt.voice)
			if !slices.Equal(got, tt.expected) {
				t.Errorf("args = %v, want %v", got, tt.expected)
			}
		})
	}
}
