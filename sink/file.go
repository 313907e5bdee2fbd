// Package sink stores exported reports. FileSink writes them to a directory;
// RemoteSink additionally POSTs the session summary to a collector.
package sink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// ErrEmptyName is returned by Save when no file name is given
var ErrEmptyName = errors.New("sink: empty file name")

// FileSink writes reports under a single directory
type FileSink struct {
	dir string
	log *zap.Logger
}

// NewFileSink returns a sink rooted at dir. An empty dir means the working directory.
func NewFileSink(dir string, log *zap.Logger) *FileSink {
	if dir == "" {
		dir = "."
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &FileSink{dir: dir, log: log}
}

// Dir returns the output directory
func (s *FileSink) Dir() string {
	return s.dir
}

// Path returns where Save(name, ...) writes. Directory components in name are
// stripped so reports always land in Dir.
func (s *FileSink) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// Save writes data to name, replacing any previous file
func (s *FileSink) Save(name string, data []byte) error {
	if name == "" {
		return ErrEmptyName
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("sink: create %s: %w", s.dir, err)
	}
	path := s.Path(name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("sink: write %s: %w", path, err)
	}
	s.log.Info("report saved", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}

// Submit does nothing; file mode keeps results local
func (s *FileSink) Submit(payload []byte) bool {
	s.log.Debug("submission disabled", zap.Int("bytes", len(payload)))
	return false
}

// Wait returns immediately; FileSink never has work in flight
func (s *FileSink) Wait(time.Duration) bool {
	return true
}
