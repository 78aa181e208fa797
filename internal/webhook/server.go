// internal/webhook/server.go
package webhook

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/user/mindwell/internal/types"
)

// TurnHandler processes one inbound turn and returns the engine's reply.
type TurnHandler func(ctx context.Context, turn *types.InboundTurn) (*types.TurnReply, error)

// RestartHandler archives the active session for a key and starts a new one.
type RestartHandler func(ctx context.Context, key types.SessionKey) (types.SessionID, error)

// Server is a lightweight HTTP handler for the assessment API.
type Server struct {
	turns    TurnHandler
	restart  RestartHandler
	sessions types.SessionStore
	log      types.TurnStore
	reports  types.ReportStore
	mux      *http.ServeMux
}

// NewServer creates a webhook Server with the given handlers and stores.
func NewServer(turns TurnHandler, restart RestartHandler, sessions types.SessionStore, log types.TurnStore, reports types.ReportStore) *Server {
	s := &Server{
		turns:    turns,
		restart:  restart,
		sessions: sessions,
		log:      log,
		reports:  reports,
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /turn", s.handleTurn)
	s.mux.HandleFunc("POST /restart", s.handleRestart)
	s.mux.HandleFunc("GET /api/sessions", s.handleAPISessions)
	s.mux.HandleFunc("GET /api/sessions/", s.handleAPISessionDetail)
	return s
}

// ServeHTTP delegates to the internal mux, implementing http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// turnRequest is the JSON body for POST /turn.
type turnRequest struct {
	SessionKey string               `json:"session_key"`
	UserID     string               `json:"user_id"`
	Text       string               `json:"text"`
	Signal     *types.EmotionSignal `json:"signal,omitempty"`
	Complete   bool                 `json:"complete,omitempty"`
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if req.SessionKey == "" {
		http.Error(w, `{"error":"session_key is required"}`, http.StatusBadRequest)
		return
	}

	reply, err := s.turns(r.Context(), &types.InboundTurn{
		Source:     "webhook",
		SessionKey: types.SessionKey(req.SessionKey),
		UserID:     req.UserID,
		Text:       req.Text,
		Signal:     req.Signal,
		Complete:   req.Complete,
	})
	if err != nil {
		slog.Error("webhook turn failed", "session_key", req.SessionKey, "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reply)
}

// restartRequest is the JSON body for POST /restart.
type restartRequest struct {
	SessionKey string `json:"session_key"`
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	var req restartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionKey == "" {
		http.Error(w, `{"error":"session_key is required"}`, http.StatusBadRequest)
		return
	}

	id, err := s.restart(r.Context(), types.SessionKey(req.SessionKey))
	if err != nil {
		slog.Error("webhook restart failed", "session_key", req.SessionKey, "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"session_id": string(id)})
}

type sessionResponse struct {
	SessionID  string `json:"session_id"`
	SessionKey string `json:"session_key"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
	TurnCount  int64  `json:"turn_count"`
}

func (s *Server) handleAPISessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		slog.Error("list sessions failed", "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	result := make([]sessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		count, err := s.log.Count(ctx, sess.SessionID)
		if err != nil {
			slog.Warn("count turns failed", "session_id", sess.SessionID, "error", err)
		}
		result = append(result, sessionResponse{
			SessionID:  string(sess.SessionID),
			SessionKey: string(sess.SessionKey),
			Status:     sess.Status,
			CreatedAt:  sess.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			UpdatedAt:  sess.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
			TurnCount:  count,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt > result[j].UpdatedAt
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// handleAPISessionDetail serves /api/sessions/{id}/turns and
// /api/sessions/{id}/report.
func (s *Server) handleAPISessionDetail(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	parts := strings.SplitN(path, "/", 2)
	if len(parts) < 2 {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	sessionID := types.SessionID(parts[0])

	switch parts[1] {
	case "turns":
		s.serveTurns(w, r, sessionID)
	case "report":
		s.serveReport(w, r, sessionID)
	default:
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	}
}

func (s *Server) serveTurns(w http.ResponseWriter, r *http.Request, sessionID types.SessionID) {
	limit := 200
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			limit = n
		}
	}

	turns, err := s.log.Tail(r.Context(), sessionID, limit)
	if err != nil {
		slog.Error("tail turns failed", "session_id", sessionID, "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	if turns == nil {
		turns = []*types.Turn{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(turns)
}

func (s *Server) serveReport(w http.ResponseWriter, r *http.Request, sessionID types.SessionID) {
	result, err := s.reports.Get(r.Context(), sessionID)
	if err != nil {
		http.Error(w, `{"error":"report not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
