package bootstrap

import (
	"context"
	"errors"
	"sync"

	"github.com/steveyegge/gitbridge/internal/settings"
)

type fakePrefs struct {
	ignoreLegacy  bool
	ignoreMissing bool
	dismissed     []string
}

func (f *fakePrefs) IgnoreLegacyWarning() bool     { return f.ignoreLegacy }
func (f *fakePrefs) IgnoreMissingGitWarning() bool { return f.ignoreMissing }

func (f *fakePrefs) Dismiss(key string) error {
	f.dismissed = append(f.dismissed, key)
	switch key {
	case settings.KeyIgnoreLegacy:
		f.ignoreLegacy = true
	case settings.KeyIgnoreMissing:
		f.ignoreMissing = true
	}
	return nil
}

type choosePrompt struct {
	message string
	choices []string
}

type fakePrompter struct {
	mu     sync.Mutex
	choice string
	shown  []choosePrompt
}

func (f *fakePrompter) Choose(_ context.Context, message string, choices ...string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shown = append(f.shown, choosePrompt{message: message, choices: choices})
	return f.choice, nil
}

func (f *fakePrompter) Ask(context.Context, string, bool) (string, bool, error) {
	return "", false, nil
}

type fakeOpener struct {
	opened []string
}

func (f *fakeOpener) OpenURL(_ context.Context, url string) error {
	f.opened = append(f.opened, url)
	return nil
}

type fakeNotifier struct {
	infos  []string
	errors []string
}

func (f *fakeNotifier) Info(message string)  { f.infos = append(f.infos, message) }
func (f *fakeNotifier) Error(message string) { f.errors = append(f.errors, message) }

type write struct {
	key   string
	value string
}

// fakeSetter records writes and fails on the keys in failOn.
type fakeSetter struct {
	failOn map[string]bool
	writes []write
}

func (f *fakeSetter) SetGlobalConfig(_ context.Context, key, value string) bool {
	f.writes = append(f.writes, write{key: key, value: value})
	return !f.failOn[key]
}

func (f *fakeSetter) keys() []string {
	keys := make([]string, 0, len(f.writes))
	for _, w := range f.writes {
		keys = append(keys, w.key)
	}
	return keys
}

type fakeEvents struct {
	mu   sync.Mutex
	subs map[int]func(settings.Change)
	next int
}

func newFakeEvents() *fakeEvents {
	return &fakeEvents{subs: make(map[int]func(settings.Change))}
}

func (f *fakeEvents) Subscribe(fn func(settings.Change)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.next
	f.next++
	f.subs[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}

func (f *fakeEvents) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func (f *fakeEvents) publish(c settings.Change) {
	f.mu.Lock()
	fns := make([]func(settings.Change), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

type recordingChannel struct {
	mu      sync.Mutex
	entries []string
}

func (r *recordingChannel) AppendLine(entry string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func (r *recordingChannel) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.entries...)
}

var errNoExecutable = errors.New("no executable")

