package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LogStore saves per-step output to files under a base directory.
type LogStore struct {
	BaseDir string
}

func NewLogStore(baseDir string) *LogStore {
	return &LogStore{BaseDir: baseDir}
}

// SaveStepLog writes the captured output of one step to a new log file and
// returns its path. Filenames carry a timestamp for uniqueness.
func (s *LogStore) SaveStepLog(pipeline, step, output string) (string, error) {
	if err := os.MkdirAll(s.BaseDir, 0o775); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}

	timestamp := time.Now().UTC().Format("20060102_150405.000000000")
	filename := fmt.Sprintf("%s_%s_%s.log", sanitize(pipeline), sanitize(step), timestamp)
	path := filepath.Join(s.BaseDir, filename)

	if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
		return "", fmt.Errorf("write step log: %w", err)
	}
	return path, nil
}

// sanitize strips characters that are unsafe in filenames.
func sanitize(name string) string {
	clean := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '_':
			clean = append(clean, r)
		}
	}
	if len(clean) == 0 {
		return "step"
	}
	return string(clean)
}
