package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/chyk-ink/gestures-helper/commands"
	"github.com/chyk-ink/gestures-helper/config"
	"github.com/chyk-ink/gestures-helper/desktop"
	"github.com/chyk-ink/gestures-helper/dispatch"
	"github.com/chyk-ink/gestures-helper/utils"
	"github.com/chyk-ink/gestures-helper/window"
)

const (
	// Parse error: Invalid JSON was received by the server
	ErrCodeParseError = -32700

	// Invalid Request: The JSON sent is not a valid Request object
	ErrCodeInvalidRequest = -32600

	// Method not found: The method does not exist / is not available
	ErrCodeMethodNotFound = -32601

	// Server error: Internal JSON-RPC error
	ErrCodeServerError = -32000

	// Invalid params: Invalid method parameters
	ErrCodeInvalidParams = -32602

	// Internal error: Internal JSON-RPC error
	ErrCodeInternalError = -32603
)

// Server timeouts
const (
	ReadTimeout  = 10 * time.Second
	WriteTimeout = 10 * time.Second
	IdleTimeout  = 120 * time.Second
)

var okResponse = map[string]interface{}{"status": "ok"}

type JSONRPCRequest struct {
	// these fields are all omitempty, so we can report back to client if they are missing
	JSONRPC string          `json:"jsonrpc,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      interface{}     `json:"id,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC response
type JSONRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   interface{} `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// Registrar collects cleanup functions run when the process shuts down
type Registrar interface {
	Register(name string, cleanupFn func() error)
}

// Server is a running helper: the D-Bus service plus the optional JSON-RPC
// listener
type Server struct {
	bus        *desktop.SessionBus
	httpServer *http.Server
	done       chan struct{}
	stopOnce   sync.Once
}

// corsMiddleware handles CORS preflight requests and adds CORS headers to responses.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NewHandler returns the HTTP handler serving /rpc and /ws
func NewHandler(enableCORS bool) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", sendBanner)
	mux.HandleFunc("/rpc", handleJSONRPC)
	mux.Handle("/ws", NewWebSocketHandler(enableCORS))

	if enableCORS {
		return corsMiddleware(mux)
	}
	return mux
}

// StartServer connects to the session bus, claims the helper's name and
// serves until Quit, server.shutdown or a signal stops it. Cleanup is
// registered with hooks.
func StartServer(cfg *config.Config, hooks Registrar) error {
	bus, err := desktop.NewSessionBus()
	if err != nil {
		return err
	}

	d, err := dispatch.New(window.NewContext(), desktop.NewSinks(bus, cfg.Ydotool.Path), dispatch.Options{
		CallTimeout:   cfg.Dispatch.CallTimeout,
		Retries:       cfg.Dispatch.Retries,
		RetryInterval: cfg.Dispatch.RetryInterval,
		HistorySize:   cfg.Dispatch.HistorySize,
	})
	if err != nil {
		_ = bus.Close()
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}

	s := &Server{
		bus:  bus,
		done: make(chan struct{}),
	}

	router := commands.NewLocalRouter(d)
	commands.SetRouter(router)
	setShutdownFunc(s.Stop)

	if err := Export(bus.Conn(), NewService(router, s.Stop)); err != nil {
		_ = bus.Close()
		return err
	}
	hooks.Register("dbus", s.closeBus)
	utils.Info("Serving %s at %s", ServiceName, ObjectPath)

	if cfg.HTTP.Listen != "" {
		if err := s.startHTTP(cfg.HTTP.Listen, cfg.HTTP.CORS); err != nil {
			return err
		}
		hooks.Register("http", s.stopHTTP)
	}

	<-s.done
	utils.Info("Server stopped")
	return nil
}

// Stop makes StartServer return. Safe to call more than once.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
}

func (s *Server) closeBus() error {
	err := Unexport(s.bus.Conn())
	if closeErr := s.bus.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

func (s *Server) startHTTP(addr string, enableCORS bool) error {
	addr, err := utils.NormalizeListenAddr(addr)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      NewHandler(enableCORS),
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}

	utils.Info("Starting JSON-RPC server on http://%s...", addr)
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Error("JSON-RPC server failed: %v", err)
			s.Stop()
		}
	}()

	return nil
}

func (s *Server) stopHTTP() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req JSONRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONRPCError(w, nil, ErrCodeParseError, "Parse error", "expecting jsonrpc payload")
		return
	}

	if rpcErr := validateJSONRPCRequest(req); rpcErr != nil {
		sendJSONRPCError(w, rpcErr.id, rpcErr.code, rpcErr.message, rpcErr.data)
		return
	}

	utils.Info("Request ID: %v, Method: %s, Params: %s", req.ID, req.Method, string(req.Params))

	handler, exists := GetMethodRegistry()[req.Method]
	if !exists {
		sendJSONRPCError(w, req.ID, ErrCodeMethodNotFound, "Method not found", fmt.Sprintf("Method '%s' not found", req.Method))
		return
	}

	result, err := handler(r.Context(), req.Params)
	if err != nil {
		utils.Warn("Error executing method %s: %v", req.Method, err)
		code, message := errorCode(err)
		sendJSONRPCError(w, req.ID, code, message, err.Error())
		return
	}

	sendJSONRPCResponse(w, req.ID, result)
}

func sendJSONRPCResponse(w http.ResponseWriter, id interface{}, result interface{}) {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Result:  result,
		ID:      id,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

func sendJSONRPCError(w http.ResponseWriter, id interface{}, code int, message string, data interface{}) {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Error: map[string]interface{}{
			"code":    code,
			"message": message,
			"data":    data,
		},
		ID: id,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

func sendBanner(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(okResponse)
}
