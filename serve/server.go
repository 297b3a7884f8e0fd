package main

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"os"

	ghostwriter "github.com/greyskein/ghostwriter"
	"github.com/greyskein/ghostwriter/engine"
	"github.com/greyskein/ghostwriter/prompt"
)

// Completer processes a completion request and returns a response.
type Completer interface {
	Complete(ctx context.Context, req *ghostwriter.Request) *ghostwriter.Response
	Close()
}

// Server listens on a Unix domain socket for completion requests.
type Server struct {
	listener net.Listener
	sockPath string
	engine   Completer
}

// NewServer creates a new IPC server bound to the given socket path.
func NewServer(sockPath string) (*Server, error) {
	return NewServerWithCompleter(sockPath, engine.NewEngine())
}

// NewServerWithCompleter creates a new IPC server with a custom Completer.
func NewServerWithCompleter(sockPath string, completer Completer) (*Server, error) {
	// Remove stale socket file if it exists
	if err := os.Remove(sockPath); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	listener, err := net.Listen("unix", sockPath)
	if err != nil {
		return nil, err
	}

	return &Server{
		listener: listener,
		sockPath: sockPath,
		engine:   completer,
	}, nil
}

// Serve accepts connections and handles requests.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return err
		}
		go s.handleConn(conn)
	}
}

// Close shuts down the server, the engine, and removes the socket file.
func (s *Server) Close() {
	s.engine.Close()
	s.listener.Close()
	os.Remove(s.sockPath)
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	if !scanner.Scan() {
		return
	}

	raw := scanner.Bytes()
	slog.Debug("request", "data", string(raw))

	// Check if this is a config request (has "action" field)
	var cfgReq ghostwriter.ConfigRequest
	if err := json.Unmarshal(raw, &cfgReq); err == nil && cfgReq.Action != "" {
		s.handleConfigRequest(conn, &cfgReq)
		return
	}

	var req ghostwriter.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		slog.Warn("invalid request", "error", err)
		return
	}

	resp := s.engine.Complete(context.Background(), &req)
	resp.RequestID = req.RequestID

	writeResponse(conn, resp)
}

func (s *Server) handleConfigRequest(conn net.Conn, req *ghostwriter.ConfigRequest) {
	var resp ghostwriter.ConfigResponse

	switch req.Action {
	case "get":
		cfg, err := ghostwriter.LoadConfig()
		if err != nil {
			resp.Error = &ghostwriter.Error{
				Code:    "config_error",
				Message: err.Error(),
			}
		} else {
			resp.Config = cfg
		}

	case "defaults":
		resp.Config = ghostwriter.DefaultConfig()

	case "default_instructions":
		resp.Instructions = prompt.DefaultInstructions()

	default:
		resp.Error = &ghostwriter.Error{
			Code:    "unknown_action",
			Message: "unknown config action: " + req.Action,
		}
	}

	writeResponse(conn, resp)
}

func writeResponse(conn net.Conn, resp any) {
	data, err := json.Marshal(resp)
	if err != nil {
		slog.Error("failed to marshal response", "error", err)
		return
	}

	slog.Debug("response", "data", string(data))

	conn.Write(append(data, '\n'))
}
