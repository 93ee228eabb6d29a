// Package api exposes the HTTP surface consumed by the UI: signal
// generation/retrieval, processing requests, and the trigger monitor.
package api

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"signal-studio/processing"
	"signal-studio/realtime"
	"signal-studio/signalstore"
	"signal-studio/trigger"
)

// Server handles HTTP API requests
type Server struct {
	store     *signalstore.Coordinator
	processor *processing.Processor
	monitor   *trigger.Monitor
	broker    *realtime.Broker
	wsHub     *realtime.WSHub
	httpSrv   *http.Server
}

// NewServer creates a new API server instance
func NewServer(store *signalstore.Coordinator, processor *processing.Processor, monitor *trigger.Monitor, broker *realtime.Broker) *Server {
	return &Server{
		store:     store,
		processor: processor,
		monitor:   monitor,
		broker:    broker,
		wsHub:     realtime.NewWSHub(broker),
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Realtime endpoints
	mux.Handle("GET /api/events/stream", s.broker) // SSE
	mux.Handle("GET /api/events/ws", s.wsHub)

	// Signal routes
	mux.HandleFunc("POST /api/signals", s.handleGenerateSignal)
	mux.HandleFunc("GET /api/signals", s.handleListSignals)
	mux.HandleFunc("GET /api/signals/{id}", s.handleGetSignal)
	mux.HandleFunc("POST /api/signals/{id}/process", s.handleProcessSignal)
	mux.HandleFunc("DELETE /api/signals/{id}", s.handleDeleteSignal)

	// Trigger routes
	mux.HandleFunc("PUT /api/trigger", s.handleConfigureTrigger)
	mux.HandleFunc("GET /api/trigger", s.handleGetTriggerConfig)
	mux.HandleFunc("POST /api/trigger/check", s.handleCheckTrigger)
	mux.HandleFunc("GET /api/trigger/events", s.handleGetTriggerEvents)
	mux.HandleFunc("DELETE /api/trigger/events", s.handleClearTriggerEvents)

	mux.HandleFunc("GET /api/health", s.handleHealth)

	return mux
}

// Start starts the HTTP server on the specified port
func (s *Server) Start(port int) error {
	s.httpSrv = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("🌐 API server listening on :%d", port)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("API server failed: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown() error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Close()
}
