package ui

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// URLOpener opens an external link.
type URLOpener interface {
	OpenURL(ctx context.Context, url string) error
}

// Browser opens links with the platform's default handler.
type Browser struct{}

// OpenURL implements URLOpener.
func (Browser) OpenURL(ctx context.Context, url string) error {
	name, args := openCommand(runtime.GOOS, url)
	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	// The handler may outlive us; reap it in the background
	go cmd.Wait()
	return nil
}

func openCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}
