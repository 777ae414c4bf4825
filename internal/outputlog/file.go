package outputlog

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileConfig controls where the log is written and how it rotates.
type FileConfig struct {
	// Path of the active log file
	Path string

	// MaxSizeMB rotates the file once it reaches this size
	MaxSizeMB int

	// MaxBackups is the number of rotated files kept
	MaxBackups int

	// Mirror, when set, receives a copy of every entry
	Mirror io.Writer
}

// FileChannel is a Channel backed by a rotating file.
type FileChannel struct {
	path   string
	rotate *lumberjack.Logger
	logger *log.Logger
	mu     sync.Mutex
}

// OpenFile prepares the log directory and returns a channel writing to it.
// The file itself is created lazily on first write.
func OpenFile(cfg FileConfig) (*FileChannel, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, err
	}

	rotate := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}

	var w io.Writer = rotate
	if cfg.Mirror != nil {
		w = io.MultiWriter(rotate, cfg.Mirror)
	}

	return &FileChannel{
		path:   cfg.Path,
		rotate: rotate,
		logger: log.New(w, "", log.LstdFlags),
	}, nil
}

// AppendLine writes one timestamped entry.
func (c *FileChannel) AppendLine(entry string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger.Print(entry)
}

// Write lets the channel back a *log.Logger. Each write is one entry.
func (c *FileChannel) Write(p []byte) (int, error) {
	c.AppendLine(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// Logger returns a logger whose output lands in this channel.
func (c *FileChannel) Logger(prefix string) *log.Logger {
	return log.New(c, prefix, 0)
}

// Path returns the location of the active log file.
func (c *FileChannel) Path() string {
	return c.path
}

// Close closes the underlying file.
func (c *FileChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rotate.Close()
}
