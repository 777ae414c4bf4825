// Package askpass routes git credential prompts back to the host.
//
// Build starts a websocket endpoint on a private unix socket and writes a
// small script that git runs as GIT_ASKPASS. The script re-enters the
// gitbridge binary (`gitbridge askpass <prompt>`), which forwards the prompt
// over the socket and prints the answer for git.
package askpass

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"github.com/steveyegge/gitbridge/internal/ui"
)

// Environment variables set for every git subprocess.
const (
	EnvHandle = "GITBRIDGE_ASKPASS_HANDLE"

	endpoint = "/askpass"
)

// MessageType identifies a request sent by the askpass client.
type MessageType string

const (
	// MessageTypeAskpass requests an answer to a credential prompt
	MessageTypeAskpass MessageType = "askpass"
)

// Request is sent by the client for each prompt.
type Request struct {
	Type   MessageType `json:"type"`
	Prompt string      `json:"prompt"`
}

// Response carries the user's answer.
type Response struct {
	OK     bool   `json:"ok"`
	Answer string `json:"answer,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Config holds server configuration.
type Config struct {
	// Executable is the gitbridge binary the script re-enters
	Executable string

	// Prompter answers credential prompts
	Prompter ui.Prompter

	// TempDir parents the private socket directory (default: os.TempDir)
	TempDir string

	// Logger for server activity
	Logger *log.Logger
}

// Server answers askpass requests for one activation session.
type Server struct {
	dir    string
	socket string
	script string

	listener net.Listener
	server   *http.Server
	prompter ui.Prompter

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once

	logger *log.Logger
}

// Build allocates the socket and script and starts serving.
func Build(cfg Config) (*Server, error) {
	if cfg.Executable == "" {
		return nil, errors.New("askpass: executable path required")
	}
	if cfg.Prompter == nil {
		return nil, errors.New("askpass: prompter required")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard, "", 0)
	}

	dir, err := os.MkdirTemp(cfg.TempDir, "gitbridge-")
	if err != nil {
		return nil, fmt.Errorf("failed to create askpass dir: %w", err)
	}

	// Socket paths are length-limited; keep the name short
	socket := filepath.Join(dir, "ipc-"+uuid.NewString()[:8]+".sock")

	script, err := writeScript(dir, cfg.Executable)
	if err != nil {
		os.RemoveAll(dir)
		return nil, err
	}

	ln, err := net.Listen("unix", socket)
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to listen on %s: %w", socket, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		dir:      dir,
		socket:   socket,
		script:   script,
		listener: ln,
		prompter: cfg.Prompter,
		ctx:      ctx,
		cancel:   cancel,
		logger:   cfg.Logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc(endpoint, s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Printf("askpass server error: %v", err)
		}
	}()

	s.logger.Printf("askpass listening on %s", socket)
	return s, nil
}

// Env returns the overlay that points git at this server.
func (s *Server) Env() map[string]string {
	return map[string]string{
		"GIT_ASKPASS":         s.script,
		"SSH_ASKPASS":         s.script,
		"SSH_ASKPASS_REQUIRE": "prefer",
		"GIT_TERMINAL_PROMPT": "0",
		EnvHandle:             s.socket,
	}
}

// Handle returns the socket path clients dial.
func (s *Server) Handle() string {
	return s.socket
}

// Script returns the path of the askpass script.
func (s *Server) Script() string {
	return s.script
}

// Close stops the server and removes the socket directory. The overlay
// returned by Env is meaningless afterwards.
func (s *Server) Close() error {
	var err error
	s.once.Do(func() {
		s.cancel()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if serr := s.server.Shutdown(ctx); serr != nil {
			err = fmt.Errorf("askpass shutdown: %w", serr)
		}
		s.wg.Wait()

		if rerr := os.RemoveAll(s.dir); rerr != nil {
			err = errors.Join(err, rerr)
		}
		s.logger.Println("askpass server stopped")
	})
	return err
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Printf("askpass upgrade failed: %v", err)
		return
	}
	defer conn.CloseNow()

	var req Request
	if err := wsjson.Read(s.ctx, conn, &req); err != nil {
		s.logger.Printf("askpass read failed: %v", err)
		return
	}

	resp := s.answer(s.ctx, req)
	if err := wsjson.Write(s.ctx, conn, resp); err != nil {
		s.logger.Printf("askpass write failed: %v", err)
		return
	}

	conn.Close(websocket.StatusNormalClosure, "")
}

func (s *Server) answer(ctx context.Context, req Request) Response {
	if req.Type != MessageTypeAskpass {
		return Response{Error: fmt.Sprintf("unknown request type %q", req.Type)}
	}

	answer, ok, err := s.prompter.Ask(ctx, req.Prompt, isSecret(req.Prompt))
	if err != nil {
		return Response{Error: err.Error()}
	}
	if !ok {
		return Response{}
	}
	return Response{OK: true, Answer: answer}
}

// isSecret reports whether a git or ssh prompt asks for a password.
func isSecret(prompt string) bool {
	p := strings.ToLower(prompt)
	return strings.Contains(p, "password") || strings.Contains(p, "passphrase")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = io.WriteString(w, "ok\n")
}
