// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package server exposes a dispatcher as an HTTP control-plane file.
//
// Writing (PUT or POST) a command to the control-plane path runs it;
// reading (GET) the path returns the result of the last completed command.
// A small JSON API under /api reports counters and process resources.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/ezrec/hwrw/audit"
	"github.com/ezrec/hwrw/bus"
	"github.com/ezrec/hwrw/dispatch"
)

const (
	DEFAULT_PATH     = "/hwReadWrite/result"
	MAX_BODY         = 64 << 10 // Bytes of a request body read before the dispatcher truncates.
	HEADER_CONSUMED  = "X-Hwrw-Consumed"
	HEADER_TRUNCATED = "X-Hwrw-Truncated"
	HEADER_CLIPPED   = "X-Hwrw-Clipped"
	HEADER_ID        = "X-Hwrw-Id"

	READ_TIMEOUT  = 10 * time.Second
	WRITE_TIMEOUT = (MAX_PROFILE_SECONDS + 30) * time.Second // Outlasts the longest profile.
)

// AuditLog is the readable side of an audit trail.
type AuditLog interface {
	Recent(limit int) ([]audit.Entry, error)
}

// Server serves the control-plane file of a dispatcher.
type Server struct {
	Dispatcher *dispatch.Dispatcher
	Path       string   // Control-plane file path.
	Audit      AuditLog // Optional audit trail.

	router   *mux.Router
	http     *http.Server
	listener net.Listener
}

// NewServer creates a server for the dispatcher, with the control-plane
// file at path.
func NewServer(d *dispatch.Dispatcher, path string) (s *Server) {
	if len(path) == 0 {
		path = DEFAULT_PATH
	}

	s = &Server{
		Dispatcher: d,
		Path:       path,
	}

	r := mux.NewRouter()
	r.HandleFunc(path, s.storeCommand).Methods(http.MethodPut, http.MethodPost)
	r.HandleFunc(path, s.showResult).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/api/status", s.status).Methods(http.MethodGet)
	r.HandleFunc("/api/resource", s.listResources).Methods(http.MethodGet)
	r.HandleFunc("/api/profile", s.collectProfile).Methods(http.MethodGet)
	r.HandleFunc("/api/audit", s.listAudit).Methods(http.MethodGet)
	s.router = r

	return
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Listen binds the listen address. Failure to bind is fatal to startup,
// and is reported here rather than from Serve.
func (s *Server) Listen(addr string) (bound net.Addr, err error) {
	s.listener, err = net.Listen("tcp", addr)
	if err != nil {
		return
	}

	s.http = &http.Server{
		Handler:      s.router,
		ReadTimeout:  READ_TIMEOUT,
		WriteTimeout: WRITE_TIMEOUT,
	}

	bound = s.listener.Addr()
	log.Printf("Control plane on http://%v%v", bound, s.Path)
	return
}

// Serve handles requests until Shutdown.
func (s *Server) Serve() (err error) {
	if s.listener == nil {
		err = errors.New(f("server not listening"))
		return
	}

	err = s.http.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	return
}

// Shutdown stops the server, waiting for requests in flight.
func (s *Server) Shutdown(ctx context.Context) (err error) {
	if s.http == nil {
		return
	}
	return s.http.Shutdown(ctx)
}

// storeCommand runs the command in the request body.
func (s *Server) storeCommand(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MAX_BODY))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	status := s.Dispatcher.HandleCommand(body)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set(HEADER_ID, status.ID.String())
	w.Header().Set(HEADER_CONSUMED, strconv.Itoa(status.Consumed))
	if status.Truncated {
		w.Header().Set(HEADER_TRUNCATED, "true")
	}
	if status.Clipped {
		w.Header().Set(HEADER_CLIPPED, "true")
	}

	switch status.Code {
	case dispatch.STATUS_OK:
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "%d\n", status.Consumed)
	case dispatch.STATUS_REJECTED:
		w.WriteHeader(http.StatusBadRequest)
		diagnostic := status.Diagnostic
		if len(diagnostic) == 0 {
			diagnostic = []string{status.Err.Error()}
		}
		io.WriteString(w, strings.Join(diagnostic, "\n")+"\n")
	default:
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprintf(w, "%v\n", status.Err)
	}
}

// showResult returns the result of the last completed command.
func (s *Server) showResult(w http.ResponseWriter, _ *http.Request) {
	response := s.Dispatcher.Response()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(response)))
	w.WriteHeader(http.StatusOK)
	w.Write(response)
}

type statusRsp struct {
	Dispatcher dispatch.Stats `json:"dispatcher"`
	Bus        *bus.Stats     `json:"bus,omitempty"`
	Windows    string         `json:"windows"`
	MaxInput   int            `json:"max_input"`
	Stride     uint32         `json:"stride"`
}

func (s *Server) status(w http.ResponseWriter, _ *http.Request) {
	rsp := statusRsp{
		Dispatcher: s.Dispatcher.Stats(),
		Windows:    s.Dispatcher.Windows.String(),
		MaxInput:   s.Dispatcher.MaxInput,
		Stride:     s.Dispatcher.Stride,
	}

	if stater, ok := s.Dispatcher.Bus.(bus.Stater); ok {
		stats := stater.Stats()
		rsp.Bus = &stats
	}

	writeJSON(w, rsp)
}

func (s *Server) listAudit(w http.ResponseWriter, r *http.Request) {
	if s.Audit == nil {
		http.Error(w, f("audit trail disabled"), http.StatusNotFound)
		return
	}

	limit := 100
	if text := r.URL.Query().Get("limit"); text != "" {
		var err error
		limit, err = strconv.Atoi(text)
		if err != nil || limit <= 0 {
			http.Error(w, f("invalid limit %q", text), http.StatusBadRequest)
			return
		}
	}

	entries, err := s.Audit.Recent(limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if entries == nil {
		entries = []audit.Entry{}
	}

	writeJSON(w, entries)
}
