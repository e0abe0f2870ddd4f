package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewRecorder_Disabled(t *testing.T) {
	r, err := NewRecorder("")
	if err != nil || r != nil {
		t.Fatalf("NewRecorder(\"\") = %v, %v; want nil, nil", r, err)
	}
	// nil recorder discards everything
	if err := r.Write(FrameStats{Frame: 1}); err != nil {
		t.Errorf("nil Write() error = %v", err)
	}
	if err := r.WriteConfig(map[string]int{"a": 1}); err != nil {
		t.Errorf("nil WriteConfig() error = %v", err)
	}
	if r.Dir() != "" {
		t.Errorf("nil Dir() = %q; want empty", r.Dir())
	}
	if err := r.Close(); err != nil {
		t.Errorf("nil Close() error = %v", err)
	}
}

func TestRecorder_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	r, err := NewRecorder(dir)
	if err != nil {
		t.Fatalf("NewRecorder() error = %v", err)
	}

	for frame := 1; frame <= 3; frame++ {
		if err := r.Write(FrameStats{Frame: frame, Agents: 64, Polarization: 0.5}); err != nil {
			t.Fatalf("Write(frame %d) error = %v", frame, err)
		}
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "flock.csv"))
	if err != nil {
		t.Fatalf("reading csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("csv has %d lines; want header + 3 rows:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "frame,agents,threatened,centroid_x") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if strings.Count(string(data), "frame,") != 1 {
		t.Errorf("header written more than once:\n%s", data)
	}
	if !strings.HasPrefix(lines[3], "3,64,false") {
		t.Errorf("last row = %q; want frame 3", lines[3])
	}

	if err := r.Write(FrameStats{Frame: 4}); err == nil {
		t.Error("Write() after Close() should fail")
	}
}

func TestRecorder_WriteConfig(t *testing.T) {
	dir := t.TempDir()
	r, err := NewRecorder(dir)
	if err != nil {
		t.Fatalf("NewRecorder() error = %v", err)
	}
	defer r.Close()

	cfg := struct {
		InitialAgents int     `yaml:"initial_agents"`
		MaxSpeed      float64 `yaml:"max_speed"`
	}{InitialAgents: 64, MaxSpeed: 3}

	if err := r.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig() error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("reading config.yaml: %v", err)
	}
	for _, want := range []string{"initial_agents: 64", "max_speed: 3"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("config.yaml missing %q:\n%s", want, data)
		}
	}
	if r.Dir() != dir {
		t.Errorf("Dir() = %q; want %q", r.Dir(), dir)
	}
}
