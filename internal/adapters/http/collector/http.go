// Package collector is a minimal playback collector: it accepts pings,
// assigns session ids and reports what it has seen.
package collector

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"

	"github.com/okian/playpulse/internal/domain/model"
	"github.com/okian/playpulse/pkg/logger"
	"github.com/okian/playpulse/pkg/metrics"
)

const maxPingBytes = 4 << 20

// Server wires the collector routes.
type Server struct {
	registry *Registry
	logger   logger.Logger
}

// NewServer creates a collector with an empty registry.
func NewServer(opts ...Option) *Server {
	s := &Server{
		registry: NewRegistry(),
		logger:   logger.GetOrDiscard().Named("collector"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the session registry.
func (s *Server) Registry() *Registry { return s.registry }

// Register attaches all collector routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/vod", MetricsMiddleware(s.pingHandler(model.OnDemand), "vod"))
	mux.HandleFunc("/live", MetricsMiddleware(s.pingHandler(model.Live), "live"))
	mux.HandleFunc("/sessions", MetricsMiddleware(s.handleSessions, "sessions"))
	mux.HandleFunc("/healthz", MetricsMiddleware(handleHealth, "healthz"))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
}

// Handler returns a mux with all routes registered.
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	s.Register(ctx, mux)
	return mux
}

// pingRequest mirrors the ping body. The session id is a pointer so that
// null and absent are told apart from a real id.
type pingRequest struct {
	EmittedAt model.Timestamp `json:"emittedAt"`
	Session   struct {
		SessionID    *string             `json:"sessionId"`
		VideoID      string              `json:"videoId"`
		LiveStreamID string              `json:"liveStreamId"`
		LoadedAt     model.Timestamp     `json:"loadedAt"`
		Referrer     string              `json:"referrer"`
		Metadata     []map[string]string `json:"metadata"`
	} `json:"session"`
	Events []model.PlaybackEvent `json:"events"`
}

// subject returns the id of the watched video for videoType.
func (p *pingRequest) subject(videoType model.VideoType) (string, error) {
	id, other := p.Session.VideoID, p.Session.LiveStreamID
	field := "videoId"
	if videoType == model.Live {
		id, other = other, id
		field = "liveStreamId"
	}
	switch {
	case strings.TrimSpace(id) == "":
		return "", fmt.Errorf("%w: missing session.%s", ErrInvalidPing, field)
	case other != "":
		return "", fmt.Errorf("%w: session carries both videoId and liveStreamId", ErrInvalidPing)
	}
	return id, nil
}

func (p *pingRequest) validateEvents() error {
	bad, found := lo.Find(p.Events, func(e model.PlaybackEvent) bool {
		switch {
		case !e.Kind.Valid():
			return true
		case e.Kind.IsSeek():
			return e.From == nil || e.To == nil || e.At != nil
		default:
			return e.At == nil || e.From != nil || e.To != nil
		}
	})
	if found {
		return fmt.Errorf("%w: malformed %q event", ErrInvalidPing, bad.Kind)
	}
	return nil
}

type sessionResponse struct {
	Session string `json:"session"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type sessionsResponse struct {
	Count    int            `json:"count"`
	Pings    int            `json:"pings"`
	ByType   map[string]int `json:"byType"`
	Sessions []SessionStats `json:"sessions"`
}

func (s *Server) pingHandler(videoType model.VideoType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}

		var req pingRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPingBytes)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
			return
		}
		subject, err := req.subject(videoType)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_ping", err)
			return
		}
		if err := req.validateEvents(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_ping", err)
			return
		}

		id, err := s.registry.Observe(videoType, subject, req.Session.SessionID, req.Events)
		if err != nil {
			writeError(w, http.StatusConflict, "session_conflict", err)
			return
		}

		metrics.RecordCollectorPing(videoType.Token())
		s.logger.Debug(r.Context(), "ping accepted",
			logger.String("sessionId", id),
			logger.String("videoType", videoType.Token()),
			logger.String("videoId", subject),
			logger.Int("events", len(req.Events)),
		)
		writeJSON(w, http.StatusOK, sessionResponse{Session: id})
	}
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	if id := r.URL.Query().Get("id"); id != "" {
		st, ok := s.registry.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "not_found", fmt.Errorf("session %s not found", id))
			return
		}
		writeJSON(w, http.StatusOK, st)
		return
	}

	all := s.registry.Snapshot()
	writeJSON(w, http.StatusOK, sessionsResponse{
		Count:    len(all),
		Pings:    lo.SumBy(all, func(st SessionStats) int { return st.Pings }),
		ByType:   lo.CountValuesBy(all, func(st SessionStats) string { return st.VideoType }),
		Sessions: all,
	})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
