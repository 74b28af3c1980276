package gamemaster

import (
	"strings"
	"testing"

	"throne/game"

	"github.com/stretchr/testify/require"
)

func TestLoadCombatants(t *testing.T) {
	t.Run("decodes snapshots", func(t *testing.T) {
		got, err := LoadCombatants(strings.NewReader(`
combatants:
  - id: 7
    level: 3
    race: UNDEAD
    class: CLERIC
    fortLevel: 2
    fortHitpoints: 1000
    gold: 1500
    units:
      - {type: DEFENSE, level: 2, quantity: 40}
    items:
      - {type: SHIELD, level: 1, quantity: 40, usage: DEFENSE}
    bonusPoints: {DEFENSE: 4}
    structures: {ARMORY: 2}
`))
		require.NoError(t, err)
		require.Len(t, got, 1)

		c := got[0]
		require.Equal(t, game.Undead, c.Race)
		require.Equal(t, 4, c.BonusPoints[game.BonusDefense])
		require.Equal(t, 2, c.Structures[game.Armory])
		require.Equal(t, []game.UnitStack{{Type: game.Defense, Level: 2, Quantity: 40}}, c.Units)
		require.NoError(t, c.Validate(game.DefaultCatalog()))
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		_, err := LoadCombatants(strings.NewReader("combatants:\n  - {id: 1}\n  - {id: 1}\n"))

		require.ErrorIs(t, err, game.ErrInvalidArgument)
	})
}
