package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"throne/communication"
	"throne/engine"
	"throne/game"
	"throne/gamemaster"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	store := gamemaster.NewMemoryStore(
		game.Combatant{
			ID: 1, Level: 1, FortLevel: 1, FortHitpoints: 500, Race: game.Human, Class: game.Fighter,
			Units: []game.UnitStack{{Type: game.Offense, Level: 1, Quantity: 100}},
		},
		game.Combatant{
			ID: 2, Level: 1, FortLevel: 1, FortHitpoints: 500, Race: game.Undead, Class: game.Cleric,
			Units: []game.UnitStack{{Type: game.Defense, Level: 1, Quantity: 40}},
		},
		game.Combatant{
			ID: 3, Level: 1, FortLevel: 1, FortHitpoints: 500, Race: game.Elf, Class: game.Cleric,
			Units: []game.UnitStack{{Type: game.Defense, Level: 1, Quantity: -4}},
		},
	)
	service := gamemaster.NewService(engine.New(game.DefaultCatalog()), store, store, store)
	return NewServer(service)
}

func serve(s *Server, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestAttackEndpoint(t *testing.T) {
	s := newTestServer()

	t.Run("resolves and logs", func(t *testing.T) {
		rec := serve(s, http.MethodPost, "/api/attack", `{"attackerId":1,"defenderId":2,"turns":3}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var entry gamemaster.LogEntry
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
		require.Len(t, entry.Result.Turns, 3)

		got := serve(s, http.MethodGet, "/api/battles/"+entry.ID.String(), "")
		require.Equal(t, http.StatusOK, got.Code)

		retest := serve(s, http.MethodPost, "/api/battles/"+entry.ID.String()+"/retest", "")
		require.Equal(t, http.StatusOK, retest.Code)
		var result gamemaster.RetestResult
		require.NoError(t, json.Unmarshal(retest.Body.Bytes(), &result))
		require.True(t, result.Matches)
	})

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"malformed body", http.MethodPost, "/api/attack", `{`, http.StatusBadRequest},
		{"self-attack", http.MethodPost, "/api/attack", `{"attackerId":1,"defenderId":1,"turns":1}`, http.StatusBadRequest},
		{"corrupt defender", http.MethodPost, "/api/attack", `{"attackerId":1,"defenderId":3,"turns":1}`, http.StatusUnprocessableEntity},
		{"unknown defender", http.MethodPost, "/api/attack", `{"attackerId":1,"defenderId":9,"turns":1}`, http.StatusNotFound},
		{"unknown battle", http.MethodGet, "/api/battles/" + uuid.NewString(), "", http.StatusNotFound},
		{"bad battle id", http.MethodGet, "/api/battles/nope", "", http.StatusBadRequest},
		{"wrong method", http.MethodGet, "/api/attack", "", http.StatusMethodNotAllowed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(s, tc.method, tc.path, tc.body)

			require.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}

	t.Run("failure codes", func(t *testing.T) {
		codes := map[string]string{
			`{"attackerId":1,"defenderId":1,"turns":1}`: communication.CodeSelfAttack,
			`{"attackerId":1,"defenderId":3,"turns":1}`: communication.CodeInvalidState,
			`{"attackerId":1,"defenderId":9,"turns":1}`: communication.CodeNotFound,
		}
		for body, code := range codes {
			rec := serve(s, http.MethodPost, "/api/attack", body)

			var failure map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &failure))
			require.Equal(t, code, failure["code"], body)
			require.NotEmpty(t, failure["error"], body)
		}
	})
}

func TestSimulateEndpoint(t *testing.T) {
	s := newTestServer()
	body := `{
		"attacker": {"id": 10, "level": 1, "fortLevel": 1, "fortHitpoints": 500, "race": "HUMAN", "class": "THIEF",
			"units": [{"type": "OFFENSE", "level": 1, "quantity": 10}]},
		"defender": {"id": 11, "level": 1, "fortLevel": 1, "fortHitpoints": 500, "race": "HUMAN", "class": "THIEF"},
		"turns": 2,
		"seed": 5
	}`

	t.Run("what-if battle", func(t *testing.T) {
		rec := serve(s, http.MethodPost, "/api/simulate", body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var result engine.BattleResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		require.Equal(t, uint64(5), result.Seed)
		require.Equal(t, game.AttackerWin, result.Outcome)
	})

	t.Run("turns are validated", func(t *testing.T) {
		rec := serve(s, http.MethodPost, "/api/simulate", strings.Replace(body, `"turns": 2`, `"turns": 12`, 1))

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
