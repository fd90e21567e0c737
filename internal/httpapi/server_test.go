package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Proger1298/gaming-server/internal/app"
	"github.com/Proger1298/gaming-server/internal/game"
	"github.com/Proger1298/gaming-server/internal/geom"
	"github.com/Proger1298/gaming-server/internal/model"
)

func testApplication(t *testing.T) *app.Application {
	t.Helper()
	g := game.New(game.LootGeneratorConfig{PeriodMs: 1000, Probability: 0}, 60000, 1)
	m := model.NewMap("m1", "One", 1.0, 3, false)
	m.AddRoad(model.NewHorizontalRoad(geom.Point{X: 0, Y: 0}, geom.Point{X: 10, Y: 0}))
	m.LootTypes = []model.LootType{{Value: 1}}
	require.NoError(t, g.AddMap(m))
	return app.New(g, nil, nil, false, 1, 2)
}

func testServer(t *testing.T) *Server {
	return NewServer(testApplication(t), nil, "")
}

func TestMapsListReturnsSummaries(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/maps", nil)
	rec := httptest.NewRecorder()

	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var out []mapSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, []mapSummary{{ID: "m1", Name: "One"}}, out)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
}

func TestMapDetailNotFound(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/maps/nope", nil)
	rec := httptest.NewRecorder()

	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "mapNotFound", body.Code)
}

func TestJoinThenStateAndPlayers(t *testing.T) {
	s := testServer(t)

	joinBody, _ := json.Marshal(joinRequest{UserName: "rex", MapID: "m1"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/game/join", bytes.NewReader(joinBody))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var joined joinResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &joined))
	assert.Len(t, joined.AuthToken, 32)

	stateReq := httptest.NewRequest(http.MethodGet, "/api/v1/game/state", nil)
	stateReq.Header.Set("Authorization", "Bearer "+joined.AuthToken)
	stateRec := httptest.NewRecorder()
	s.Router().ServeHTTP(stateRec, stateReq)
	require.Equal(t, http.StatusOK, stateRec.Code)

	var state stateResponse
	require.NoError(t, json.Unmarshal(stateRec.Body.Bytes(), &state))
	assert.Contains(t, state.Players, "0")

	playersReq := httptest.NewRequest(http.MethodGet, "/api/v1/game/players", nil)
	playersReq.Header.Set("Authorization", "Bearer "+joined.AuthToken)
	playersRec := httptest.NewRecorder()
	s.Router().ServeHTTP(playersRec, playersReq)
	assert.Equal(t, http.StatusOK, playersRec.Code)
}

func TestJoinRejectsNonPostWithAllowHeader(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/game/join", nil)
	rec := httptest.NewRecorder()

	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "POST", rec.Header().Get("Allow"))
}

func TestStateRejectsMissingAuthHeader(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/game/state", nil)
	rec := httptest.NewRecorder()

	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invalidToken", body.Code)
}

func TestStateRejectsUnknownToken(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/game/state", nil)
	req.Header.Set("Authorization", "Bearer "+string(make([]byte, 32)))
	rec := httptest.NewRecorder()

	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecordsRejectsMaxItemsOver100(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/game/records?maxItems=101", nil)
	rec := httptest.NewRecorder()

	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invalidArgument", body.Code)
}

func TestUnmatchedAPIPathReturnsBadRequest(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/nonsense", nil)
	rec := httptest.NewRecorder()

	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "badRequest", body.Code)
}

func TestUnmatchedAPIPathOutsideV1ReturnsBadRequest(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v2/maps", nil)
	rec := httptest.NewRecorder()

	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "badRequest", body.Code)
}

func TestActionRejectsUnknownTokenWith401(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/game/player/action", bytes.NewReader([]byte(`{"move":"U"}`)))
	req.Header.Set("Authorization", "Bearer "+string(make([]byte, 32)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unknownToken", body.Code)
}

func TestTickDisabledWhenManualTicksOff(t *testing.T) {
	s := NewServer(testApplication(t), nil, "", WithManualTicksDisabled(true))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/game/tick", bytes.NewReader([]byte(`{"timeDelta":100}`)))
	rec := httptest.NewRecorder()

	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthzAlwaysOK(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/healthz", nil)
	rec := httptest.NewRecorder()

	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
