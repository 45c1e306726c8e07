package stream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"beach-vision/internal/domain/entity"
	"beach-vision/internal/domain/port"
	"beach-vision/internal/logger"
)

const (
	defaultReportsLimit = 20
	maxReportsLimit     = 500
)

// LatestFunc возвращает последний отчёт живого цикла или nil
type LatestFunc func() *entity.DetectionReport

// Server HTTP-вход: поток отчётов по websocket, здоровье и журнал.
type Server struct {
	hub      *Hub
	journal  port.ReportJournal
	latest   LatestFunc
	logger   *logger.Logger
	upgrader websocket.Upgrader
}

// NewServer journal может быть nil, тогда /reports отвечает 404.
func NewServer(hub *Hub, journal port.ReportJournal, latest LatestFunc, log *logger.Logger) *Server {
	return &Server{
		hub:     hub,
		journal: journal,
		latest:  latest,
		logger:  log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler маршруты сервера
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/reports/latest", s.handleLatest)
	mux.HandleFunc("/reports", s.handleReports)
	return mux
}

// Run слушает addr до отмены ctx.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
		s.hub.Close()
	}()

	s.logger.Info("HTTP server listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	format, err := ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warning("Websocket upgrade failed: %v", err)
		return
	}
	s.hub.Register(conn, format)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleLatest(w http.ResponseWriter, _ *http.Request) {
	var report *entity.DetectionReport
	if s.latest != nil {
		report = s.latest()
	}
	if report == nil {
		http.Error(w, "no report yet", http.StatusNotFound)
		return
	}
	writeJSON(w, report)
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		http.Error(w, "journal is disabled", http.StatusNotFound)
		return
	}

	limit := defaultReportsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxReportsLimit)
	}

	entries, err := s.journal.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("Journal query failed: %v", err)
		http.Error(w, "journal query failed", http.StatusInternalServerError)
		return
	}

	reports := make([]entity.DetectionReport, 0, len(entries))
	for _, e := range entries {
		reports = append(reports, e.Report)
	}
	writeJSON(w, reports)
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
