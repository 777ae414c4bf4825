package askpass

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// ErrCancelled is returned when the user dismissed the prompt.
var ErrCancelled = errors.New("askpass: prompt dismissed")

// Ask forwards prompt to the server listening on handle and returns the
// user's answer.
func Ask(ctx context.Context, handle, prompt string) (string, error) {
	client := &http.Client{
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, "unix", handle)
			},
		},
	}

	conn, _, err := websocket.Dial(ctx, "ws://gitbridge"+endpoint, &websocket.DialOptions{HTTPClient: client})
	if err != nil {
		return "", fmt.Errorf("askpass: connect %s: %w", handle, err)
	}
	defer conn.CloseNow()

	if err := wsjson.Write(ctx, conn, Request{Type: MessageTypeAskpass, Prompt: prompt}); err != nil {
		return "", fmt.Errorf("askpass: send: %w", err)
	}

	var resp Response
	if err := wsjson.Read(ctx, conn, &resp); err != nil {
		return "", fmt.Errorf("askpass: receive: %w", err)
	}
	conn.Close(websocket.StatusNormalClosure, "")

	if resp.Error != "" {
		return "", errors.New("askpass: " + resp.Error)
	}
	if !resp.OK {
		return "", ErrCancelled
	}
	return resp.Answer, nil
}
