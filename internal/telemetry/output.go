package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"
)

const (
	statsFileName  = "flock.csv"
	configFileName = "config.yaml"
)

var errClosed = errors.New("telemetry recorder closed")

// Recorder writes telemetry rows to <dir>/flock.csv.
// A nil *Recorder is valid and discards everything.
type Recorder struct {
	dir           string
	statsFile     *os.File
	headerWritten bool
}

// NewRecorder creates dir and the CSV file inside it.
// Returns nil if dir is empty (output disabled).
func NewRecorder(dir string) (*Recorder, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, statsFileName))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", statsFileName, err)
	}
	return &Recorder{dir: dir, statsFile: f}, nil
}

// Write appends one row, emitting the CSV header on the first call.
func (r *Recorder) Write(stats FrameStats) error {
	if r == nil {
		return nil
	}
	if r.statsFile == nil {
		return errClosed
	}

	records := []FrameStats{stats}
	if !r.headerWritten {
		if err := gocsv.Marshal(records, r.statsFile); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		r.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, r.statsFile); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WriteConfig saves cfg as YAML next to the telemetry so a run can be reproduced.
func (r *Recorder) WriteConfig(cfg any) error {
	if r == nil {
		return nil
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(r.dir, configFileName), data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", configFileName, err)
	}
	return nil
}

// Dir returns the output directory path.
func (r *Recorder) Dir() string {
	if r == nil {
		return ""
	}
	return r.dir
}

// Close flushes and closes the CSV file.
func (r *Recorder) Close() error {
	if r == nil || r.statsFile == nil {
		return nil
	}
	err := r.statsFile.Close()
	r.statsFile = nil
	return err
}
