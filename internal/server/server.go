// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"braviactl/internal/bravia"
	"braviactl/internal/config"
	"braviactl/internal/device"
	"braviactl/internal/devices"
	"braviactl/internal/history"
	"braviactl/internal/logger"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// maxActionBody bounds the size of an action request
const maxActionBody = 64 << 10

// Server is the REST bridge in front of the configured TVs
type Server struct {
	devices *devices.Manager
	history *history.Store
	jwt     *JWTService
	logger  zerolog.Logger
	server  *http.Server
	started time.Time
}

// Option configures a Server
type Option func(*Server)

// WithHistory records every action in store
func WithHistory(store *history.Store) Option {
	return func(s *Server) {
		s.history = store
	}
}

// WithJWTSecret protects the device routes with HS256 bearer tokens
func WithJWTSecret(secret string) Option {
	return func(s *Server) {
		if secret != "" {
			s.jwt = NewJWTService(secret, DefaultIssuer, 0)
		}
	}
}

// New creates a bridge over manager
func New(manager *devices.Manager, opts ...Option) *Server {
	s := &Server{
		devices: manager,
		logger:  logger.Component("server"),
		started: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the router
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(s.loggingMiddleware)

	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	apiRouter.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	protected := apiRouter.NewRoute().Subrouter()
	if s.jwt != nil {
		protected.Use(s.jwt.RequireAuth)
	}
	protected.HandleFunc("/devices", s.handleListDevices).Methods(http.MethodGet)
	protected.HandleFunc("/devices/{id}", s.handleGetDevice).Methods(http.MethodGet)
	protected.HandleFunc("/devices/{id}/action", s.handleDeviceAction).Methods(http.MethodPost)
	protected.HandleFunc("/devices/{id}/commands", s.handleDeviceCommands).Methods(http.MethodGet)
	protected.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return router
}

// Start serves the bridge on address until Shutdown is called
func (s *Server) Start(address string) error {
	s.server = &http.Server{
		Addr:         address,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info().
		Str("address", address).
		Bool("auth", s.jwt != nil).
		Bool("history", s.history != nil).
		Msg("Starting bridge")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the bridge, waiting for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()

		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("API request")
	})
}

// Response helpers
func sendJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func sendError(w http.ResponseWriter, status int, message string) {
	sendJSON(w, status, map[string]any{
		"error":     true,
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"devices":   len(s.devices.List()),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]any{
		"devices": s.devices.List(),
	})
}

func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	info, err := s.devices.Info(mux.Vars(r)["id"])
	if err != nil {
		s.sendDeviceError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeviceAction(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	body, err := io.ReadAll(io.LimitReader(r.Body, maxActionBody))
	if err != nil {
		sendError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	request, err := device.ParseActionRequest(body)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	response, err := s.devices.Process(r.Context(), id, body)
	actionDuration.WithLabelValues(string(request.Type)).Observe(time.Since(start).Seconds())
	if err != nil {
		s.sendDeviceError(w, err)
		return
	}

	actionsTotal.WithLabelValues(id, string(request.Type), resultLabel(response.Success)).Inc()
	s.record(r.Context(), id, request, response)

	sendJSON(w, http.StatusOK, response)
}

func (s *Server) handleDeviceCommands(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if r.URL.Query().Get("source") == "builtin" {
		if _, err := s.devices.Info(id); err != nil {
			s.sendDeviceError(w, err)
			return
		}
		sendJSON(w, http.StatusOK, map[string]any{
			"device_id": id,
			"source":    "builtin",
			"commands":  bravia.Commands(),
		})
		return
	}

	action, _ := json.Marshal(device.ActionRequest{
		Type:   device.ActionTypeControl,
		Action: string(device.ControlActionRemoteCommands),
	})
	response, err := s.devices.Process(r.Context(), id, action)
	if err != nil {
		s.sendDeviceError(w, err)
		return
	}
	if !response.Success {
		sendError(w, http.StatusBadGateway, response.Error)
		return
	}

	sendJSON(w, http.StatusOK, map[string]any{
		"device_id": id,
		"source":    "device",
		"commands":  response.Data,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		sendError(w, http.StatusServiceUnavailable, "history is disabled")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			sendError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := s.history.List(r.Context(), r.URL.Query().Get("device"), limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list history")
		sendError(w, http.StatusInternalServerError, "failed to list history")
		return
	}

	sendJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
	})
}

func (s *Server) record(ctx context.Context, id string, request *device.ActionRequest, response *device.ActionResponse) {
	if s.history == nil {
		return
	}

	_, err := s.history.Record(ctx, history.Entry{
		DeviceID: id,
		Type:     string(request.Type),
		Action:   request.Action,
		Success:  response.Success,
		Error:    response.Error,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("device_id", id).Msg("Failed to record action")
	}
}

func (s *Server) sendDeviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, config.ErrDeviceNotFound):
		sendError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		sendError(w, http.StatusGatewayTimeout, err.Error())
	default:
		s.logger.Error().Err(err).Msg("Device request failed")
		sendError(w, http.StatusInternalServerError, err.Error())
	}
}
