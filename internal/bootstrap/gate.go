// Package bootstrap brings the git integration up: it waits for the
// integration to be enabled, locates and validates git, recovers when git is
// missing, and installs gitbridge as git's editor, difftool and mergetool.
package bootstrap

import (
	"context"
	"sync"

	"github.com/steveyegge/gitbridge/internal/settings"
)

// EventSource publishes settings changes.
type EventSource interface {
	Subscribe(fn func(settings.Change)) (unsubscribe func())
}

// AwaitEnablement returns immediately when initiallyEnabled is true.
// Otherwise it blocks until a change that affects git.enabled arrives while
// enabled() reports true, then unsubscribes. Changes to other keys are
// ignored. There is no timeout; only ctx ends the wait early.
func AwaitEnablement(ctx context.Context, initiallyEnabled bool, events EventSource, enabled func() bool) error {
	if initiallyEnabled {
		return nil
	}

	done := make(chan struct{})
	var once sync.Once

	unsubscribe := events.Subscribe(func(c settings.Change) {
		if !c.Affects(settings.KeyEnabled) || !enabled() {
			return
		}
		once.Do(func() { close(done) })
	})
	defer unsubscribe()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
