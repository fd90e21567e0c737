package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Proger1298/gaming-server/internal/apperr"
	"github.com/Proger1298/gaming-server/internal/app"
)

const defaultRecordsLimit = 100

func methodAllowed(r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	return false
}

func allowList(methods ...string) string {
	out := methods[0]
	for _, m := range methods[1:] {
		out += ", " + m
	}
	return out
}

func (s *Server) handleMapsList(w http.ResponseWriter, r *http.Request) {
	if !methodAllowed(r, http.MethodGet, http.MethodHead) {
		respondError(w, apperr.InvalidMethod("Invalid method", allowList(http.MethodGet, http.MethodHead)))
		return
	}
	maps := s.app.Maps()
	out := make([]mapSummary, 0, len(maps))
	for _, m := range maps {
		out = append(out, mapSummary{ID: m.ID, Name: m.Name})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleMapDetail(w http.ResponseWriter, r *http.Request) {
	if !methodAllowed(r, http.MethodGet, http.MethodHead) {
		respondError(w, apperr.InvalidMethod("Invalid method", allowList(http.MethodGet, http.MethodHead)))
		return
	}
	id := mux.Vars(r)["id"]
	m, ok := s.app.Map(id)
	if !ok {
		respondError(w, apperr.MapNotFound("Map not found"))
		return
	}
	respondJSON(w, http.StatusOK, buildMapDetail(m))
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	if !methodAllowed(r, http.MethodGet, http.MethodHead) {
		respondError(w, apperr.InvalidMethod("Invalid method", allowList(http.MethodGet, http.MethodHead)))
		return
	}

	start := 0
	maxItems := defaultRecordsLimit

	q := r.URL.Query()
	if v := q.Get("start"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, apperr.InvalidArgument("start must be a non-negative integer"))
			return
		}
		start = n
	}
	if v := q.Get("maxItems"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, apperr.InvalidArgument("maxItems must be a non-negative integer"))
			return
		}
		if n > defaultRecordsLimit {
			respondError(w, apperr.InvalidArgument("maxItems cannot exceed 100"))
			return
		}
		maxItems = n
	}

	records, err := s.app.GetRecords(r.Context(), start, maxItems)
	if err != nil {
		s.logger.Error("records query failed", zap.Error(err))
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error! The server encountered an unexpected condition! Try again later!"))
		return
	}

	out := make([]recordDTO, 0, len(records))
	for _, rec := range records {
		out = append(out, recordDTO{Name: rec.Name, Score: rec.Score, PlayTime: rec.PlayTime})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	if !methodAllowed(r, http.MethodPost) {
		respondError(w, apperr.InvalidMethod("Only POST method is expected", "POST"))
		return
	}

	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.InvalidArgument("Invalid join game JSON: "+err.Error()))
		return
	}

	token, player, err := s.app.Join(req.UserName, req.MapID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, joinResponse{AuthToken: string(token), PlayerID: player.ID})
}

func (s *Server) authenticate(r *http.Request, missingMessage string) (app.Token, error) {
	header := r.Header.Get("Authorization")
	token, ok := app.ParseAuthHeader(header)
	if !ok {
		return "", apperr.InvalidToken(missingMessage)
	}
	return token, nil
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	if !methodAllowed(r, http.MethodGet, http.MethodHead) {
		respondError(w, apperr.InvalidMethod("Invalid method", allowList(http.MethodGet, http.MethodHead)))
		return
	}
	token, err := s.authenticate(r, "Authorization header is missing")
	if err != nil {
		respondError(w, err)
		return
	}

	players, err := s.app.PlayersInSession(token)
	if err != nil {
		respondError(w, err)
		return
	}

	out := make(map[string]playerEntryDTO, len(players))
	for _, p := range players {
		out[strconv.Itoa(p.ID)] = playerEntryDTO{Name: p.Name}
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if !methodAllowed(r, http.MethodGet, http.MethodHead) {
		respondError(w, apperr.InvalidMethod("Invalid method", allowList(http.MethodGet, http.MethodHead)))
		return
	}
	token, err := s.authenticate(r, "Authorization header is missing")
	if err != nil {
		respondError(w, err)
		return
	}

	dogs, lost, err := s.app.GameState(token)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := stateResponse{
		Players:     make(map[string]dogStateDTO, len(dogs)),
		LostObjects: make(map[string]lostObjectDTO, len(lost)),
	}
	for _, d := range dogs {
		bag := make([]bagItemDTO, 0, len(d.BagItems))
		for _, item := range d.BagItems {
			bag = append(bag, bagItemDTO{ID: item.ID, Type: item.Type})
		}
		resp.Players[strconv.Itoa(d.PlayerID)] = dogStateDTO{
			Position:  [2]float64{d.Position.X, d.Position.Y},
			Speed:     [2]float64{d.Speed.X, d.Speed.Y},
			Direction: d.Direction,
			Bag:       bag,
			Score:     d.Score,
		}
	}
	for _, lo := range lost {
		resp.LostObjects[strconv.Itoa(lo.ID)] = lostObjectDTO{
			Type:     lo.Type,
			Position: [2]float64{lo.Position.X, lo.Position.Y},
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	if !methodAllowed(r, http.MethodPost) {
		respondError(w, apperr.InvalidMethod("Only POST method is expected", "POST"))
		return
	}
	token, err := s.authenticate(r, "Authorization header is required")
	if err != nil {
		respondError(w, err)
		return
	}

	if ct := r.Header.Get("Content-Type"); ct != "application/json" {
		respondError(w, apperr.InvalidArgument("Invalid content type"))
		return
	}

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.InvalidArgument("Failed to parse action"))
		return
	}

	if err := s.app.Action(token, req.Move); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	if s.manualTicksDisabled {
		respondError(w, apperr.BadRequest("Tick requests are disabled when tick period is set"))
		return
	}
	if !methodAllowed(r, http.MethodPost) {
		respondError(w, apperr.InvalidMethod("Only POST method is expected", "POST"))
		return
	}

	var req tickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.InvalidArgument("Invalid Tick JSON: "+err.Error()))
		return
	}

	s.app.Tick(float64(req.TimeDelta))
	s.onTick()
	respondJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) handleAPIFallthrough(w http.ResponseWriter, r *http.Request) {
	respondError(w, apperr.BadRequest("Bad request"))
}

func (s *Server) handleSpectate(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		respondError(w, apperr.BadRequest("spectator feed not enabled"))
		return
	}
	s.hub.ServeWS(w, r)
}
