// Package outputlog is the diagnostic log for git activity: raw git output
// is normalised by a Sink and appended to a Channel.
package outputlog

import (
	"regexp"
	"strings"
)

// Channel receives one log entry per call.
type Channel interface {
	AppendLine(entry string)
}

var lineBreak = regexp.MustCompile(`\r?\n`)

// Sink forwards raw output chunks to a channel.
type Sink struct {
	ch Channel
}

// NewSink returns a sink writing to ch.
func NewSink(ch Channel) *Sink {
	return &Sink{ch: ch}
}

// Append splits raw into lines, drops trailing whitespace-only lines and
// forwards the remainder as a single entry. Interior blank lines are kept.
// A chunk made only of whitespace is dropped.
func (s *Sink) Append(raw string) {
	lines := lineBreak.Split(raw, -1)
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return
	}
	s.ch.AppendLine(strings.Join(lines, "\n"))
}
