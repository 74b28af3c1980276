package client

import (
	"context"
	"net/http/httptest"
	"testing"

	"throne/communication/server"
	"throne/engine"
	"throne/game"
	"throne/gamemaster"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestClient(t *testing.T) {
	ctx := context.Background()
	store := gamemaster.NewMemoryStore(
		game.Combatant{
			ID: 1, Level: 1, FortLevel: 1, FortHitpoints: 500, Race: game.Goblin, Class: game.Assassin,
			Units: []game.UnitStack{{Type: game.Offense, Level: 2, Quantity: 30}},
		},
		game.Combatant{
			ID: 2, Level: 2, Experience: 100, FortLevel: 2, FortHitpoints: 1000, Race: game.Elf, Class: game.Fighter,
			Units: []game.UnitStack{{Type: game.Defense, Level: 1, Quantity: 30}}, Gold: 5000,
		},
	)
	service := gamemaster.NewService(engine.New(game.DefaultCatalog()), store, store, store)
	ts := httptest.NewServer(server.NewServer(service))
	defer ts.Close()
	c := NewClient(ts.URL)

	entry, err := c.Attack(ctx, 1, 2, 4)
	require.NoError(t, err)
	require.Len(t, entry.Result.Turns, 4)

	logged, err := c.Battle(ctx, entry.ID)
	require.NoError(t, err)
	require.Equal(t, entry.Seed, logged.Seed)

	retest, err := c.Retest(ctx, entry.ID)
	require.NoError(t, err)
	require.True(t, retest.Matches)

	_, err = c.Attack(ctx, 2, 2, 1)
	require.ErrorIs(t, err, gamemaster.ErrSelfAttack)
	require.NotErrorIs(t, err, game.ErrInvalidArgument)

	_, err = c.Simulate(ctx, logged.AttackerBefore, logged.DefenderBefore, 0, nil)
	require.ErrorIs(t, err, game.ErrInvalidArgument)

	_, err = c.Battle(ctx, uuid.New())
	require.ErrorIs(t, err, gamemaster.ErrNotFound)

	seed := uint64(11)
	result, err := c.Simulate(ctx, logged.AttackerBefore, logged.DefenderBefore, 4, &seed)
	require.NoError(t, err)
	require.Equal(t, seed, result.Seed)
}
