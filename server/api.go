package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/samber/lo"

	"othello-engine/engine"
	"othello-engine/game"
	mg "othello-engine/othellomg"
)

type moveRequest struct {
	Move string `json:"move"`
}

type settingsRequest struct {
	HumanIsBlack *bool `json:"humanIsBlack"`
	Spectate     *bool `json:"spectate"`
	ThinkMs      *int  `json:"thinkMs"`
}

// positionRequest carries a board in ParseBoard notation. BlackToMove, when
// present, overrides the side token of the board.
type positionRequest struct {
	Board       string `json:"board"`
	BlackToMove *bool  `json:"blackToMove"`
	Move        string `json:"move"`
	ThinkMs     int    `json:"thinkMs"`
	Depth       int    `json:"depth"`
}

type sessionResponse struct {
	Move  string        `json:"move,omitempty"`
	State game.Snapshot `json:"state"`
}

type positionResponse struct {
	Board       string   `json:"board"`
	BlackToMove bool     `json:"blackToMove"`
	Black       int      `json:"black"`
	White       int      `json:"white"`
	Legal       []string `json:"legal"`
	Over        bool     `json:"over"`
	Winner      string   `json:"winner,omitempty"`
}

type evaluateResponse struct {
	Score int `json:"score"`
}

type searchResponse struct {
	Move    string `json:"move"`
	Score   int    `json:"score"`
	Depth   int    `json:"depth"`
	Nodes   uint64 `json:"nodes"`
	Elapsed int64  `json:"elapsedMs"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// requestError marks a malformed request body or field.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(msg string, err error) error {
	if err != nil {
		msg += ": " + err.Error()
	}
	return &requestError{msg: msg}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var invalid *mg.InvalidMoveError
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		status = http.StatusBadRequest
	case errors.As(err, &invalid), errors.Is(err, game.ErrPassNotAllowed):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, game.ErrNotHumansTurn), errors.Is(err, game.ErrGameOver):
		status = http.StatusConflict
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("invalid payload", err)
	}
	return nil
}

func moveStrings(moves mg.Bitboard) []string {
	return lo.Map(mg.MoveList(moves), func(m mg.Move, _ int) string { return m.String() })
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionResponse{State: s.session.Snapshot()})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.session.Reset()
	writeJSON(w, http.StatusOK, sessionResponse{State: s.session.Snapshot()})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	m, err := mg.ParseMove(req.Move)
	if err != nil {
		writeError(w, badRequest("invalid move", err))
		return
	}
	if err := s.session.PlayHuman(m); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Move: m.String(), State: s.session.Snapshot()})
}

func (s *Server) handlePass(w http.ResponseWriter, r *http.Request) {
	passed, err := s.session.AutoPass()
	if err != nil {
		writeError(w, err)
		return
	}
	if !passed {
		writeError(w, game.ErrPassNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Move: mg.PassMove.String(), State: s.session.Snapshot()})
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	settings := s.session.Settings()
	if req.HumanIsBlack != nil {
		settings.HumanIsBlack = *req.HumanIsBlack
	}
	if req.Spectate != nil {
		settings.Spectate = *req.Spectate
	}
	if req.ThinkMs != nil {
		settings.ThinkTime = time.Duration(*req.ThinkMs) * time.Millisecond
	}
	s.session.Configure(settings)
	writeJSON(w, http.StatusOK, sessionResponse{State: s.session.Snapshot()})
}

func (s *Server) handleAIStep(w http.ResponseWriter, r *http.Request) {
	s.engineMove(w, s.session.StepAI)
}

func (s *Server) handleAIMove(w http.ResponseWriter, r *http.Request) {
	s.engineMove(w, s.session.AIMove)
}

func (s *Server) engineMove(w http.ResponseWriter, play func() (mg.Move, error)) {
	m, err := play()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Move: m.String(), State: s.session.Snapshot()})
}

func (s *Server) handleAIRun(w http.ResponseWriter, r *http.Request) {
	if err := s.session.RunToEnd(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{State: s.session.Snapshot()})
}

// readPosition decodes a positionRequest into a game state.
func readPosition(r *http.Request) (positionRequest, game.State, error) {
	var req positionRequest
	if err := decode(r, &req); err != nil {
		return req, game.State{}, err
	}
	p, black, err := mg.ParseBoard(req.Board)
	if err != nil {
		return req, game.State{}, badRequest("invalid board", err)
	}
	st := game.State{Position: p, BlackToMove: black}
	if req.BlackToMove != nil && *req.BlackToMove != black {
		st = game.State{Position: p.Swap(), BlackToMove: *req.BlackToMove}
	}
	return req, st, nil
}

func positionView(st game.State) positionResponse {
	black, white := st.Counts()
	return positionResponse{
		Board:       st.String(),
		BlackToMove: st.BlackToMove,
		Black:       black,
		White:       white,
		Legal:       moveStrings(st.Legal()),
		Over:        st.Over(),
		Winner:      st.Winner().String(),
	}
}

func (s *Server) handleLegal(w http.ResponseWriter, r *http.Request) {
	_, st, err := readPosition(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, positionView(st))
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	req, st, err := readPosition(r)
	if err != nil {
		writeError(w, err)
		return
	}
	m, err := mg.ParseMove(req.Move)
	if err != nil {
		writeError(w, badRequest("invalid move", err))
		return
	}
	if err := st.Play(m); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, positionView(st))
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	_, st, err := readPosition(r)
	if err != nil {
		writeError(w, err)
		return
	}
	score := s.core.Evaluate(st.Position)
	writeJSON(w, http.StatusOK, evaluateResponse{Score: score})
}

// handleSearch always runs under the clamped think time; depth, when set,
// caps the iterative deepening.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, st, err := readPosition(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Depth < 0 {
		writeError(w, badRequest("invalid depth", nil))
		return
	}
	maxDepth := engine.MaxDepth
	if req.Depth > 0 {
		maxDepth = req.Depth
	}
	budget := engine.ClampThinkTime(time.Duration(req.ThinkMs) * time.Millisecond)
	s.coreMu.Lock()
	res := s.core.SearchLimited(st.Position, st.BlackToMove, budget, maxDepth)
	s.coreMu.Unlock()
	writeJSON(w, http.StatusOK, searchResponse{
		Move:    res.Move.String(),
		Score:   res.Score,
		Depth:   res.Depth,
		Nodes:   res.Nodes,
		Elapsed: res.Elapsed.Milliseconds(),
	})
}
