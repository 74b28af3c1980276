package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"throne/communication"
	"throne/game"
	"throne/gamemaster"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

type attackRequest struct {
	AttackerID int `json:"attackerId"`
	DefenderID int `json:"defenderId"`
	Turns      int `json:"turns"`
}

type simulateRequest struct {
	Attacker game.Combatant `json:"attacker"`
	Defender game.Combatant `json:"defender"`
	Turns    int            `json:"turns"`
	Seed     *uint64        `json:"seed,omitempty"`
}

// Server exposes a battle host over JSON HTTP.
type Server struct {
	host   communication.BattleHost
	router *mux.Router
}

func NewServer(host communication.BattleHost) *Server {
	s := &Server{host: host, router: mux.NewRouter()}
	s.router.HandleFunc("/api/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/api/attack", s.handleAttack).Methods(http.MethodPost)
	s.router.HandleFunc("/api/simulate", s.handleSimulate).Methods(http.MethodPost)
	s.router.HandleFunc("/api/battles/{id}", s.handleGetBattle).Methods(http.MethodGet)
	s.router.HandleFunc("/api/battles/{id}/retest", s.handleRetest).Methods(http.MethodPost)
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, communication.CodeNotFound, "no such route")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, communication.CodeInvalidArgument, r.Method+" not allowed")
	})
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info().Msgf("listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleAttack(w http.ResponseWriter, r *http.Request) {
	var req attackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, communication.CodeInvalidArgument, "invalid JSON")
		return
	}
	entry, err := s.host.Attack(r.Context(), req.AttackerID, req.DefenderID, req.Turns)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, communication.CodeInvalidArgument, "invalid JSON")
		return
	}
	result, err := s.host.Simulate(r.Context(), req.Attacker, req.Defender, req.Turns, req.Seed)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetBattle(w http.ResponseWriter, r *http.Request) {
	id, ok := battleID(w, r)
	if !ok {
		return
	}
	entry, err := s.host.Battle(r.Context(), id)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleRetest(w http.ResponseWriter, r *http.Request) {
	id, ok := battleID(w, r)
	if !ok {
		return
	}
	result, err := s.host.Retest(r.Context(), id)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func battleID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, communication.CodeInvalidArgument, "invalid battle id")
		return uuid.Nil, false
	}
	return id, true
}

// writeFailure maps host errors onto status codes.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gamemaster.ErrSelfAttack):
		writeError(w, http.StatusBadRequest, communication.CodeSelfAttack, err.Error())
	case errors.Is(err, game.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, communication.CodeInvalidArgument, err.Error())
	case errors.Is(err, game.ErrInvalidState):
		writeError(w, http.StatusUnprocessableEntity, communication.CodeInvalidState, err.Error())
	case errors.Is(err, gamemaster.ErrNotFound):
		writeError(w, http.StatusNotFound, communication.CodeNotFound, err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, communication.CodeInternal, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("writing response")
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"error": msg, "code": code})
}
