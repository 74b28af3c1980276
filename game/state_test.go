package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCombatantClone(t *testing.T) {
	c := army(1, stack(Offense, 1, 10))
	c.Items = []ItemStack{{Type: Weapon, Level: 1, Quantity: 1, Usage: UsageOffense}}
	c.BonusPoints[BonusOffense] = 3

	clone := c.Clone()
	clone.Units[0].Quantity = 0
	clone.Items[0].Quantity = 0
	clone.BonusPoints[BonusOffense] = 0

	require.Equal(t, 10, c.Units[0].Quantity, "clone should not share units")
	require.Equal(t, 1, c.Items[0].Quantity, "clone should not share items")
	require.Equal(t, 3, c.BonusPoints[BonusOffense], "clone should not share bonus points")
}

func TestCombatantApplyLosses(t *testing.T) {
	c := army(1, stack(Offense, 1, 10), stack(Offense, 2, 3))
	var losses LossBreakdown
	losses.Add(UnitKey{Offense, 1}, 4)
	losses.Add(UnitKey{Offense, 2}, 5)

	c.ApplyLosses(losses)

	require.Equal(t, []UnitStack{stack(Offense, 1, 6), stack(Offense, 2, 0)}, c.Units)
}

func TestCombatantValidate(t *testing.T) {
	catalog := DefaultCatalog()
	helm := ItemStack{Type: Helm, Level: 1, Quantity: 1, Usage: UsageDefense}

	cases := map[string]func(c *Combatant){
		"non-positive id":      func(c *Combatant) { c.ID = 0 },
		"zero level":           func(c *Combatant) { c.Level = 0 },
		"negative quantity":    func(c *Combatant) { c.Units[0].Quantity = -1 },
		"duplicate stack":      func(c *Combatant) { c.Units = append(c.Units, c.Units[0]) },
		"unknown unit type":    func(c *Combatant) { c.Units[0].Type = "DRAGON" },
		"unknown race":         func(c *Combatant) { c.Race = "ORC" },
		"negative gold":        func(c *Combatant) { c.Gold = -5 },
		"negative bonus":       func(c *Combatant) { c.BonusPoints[BonusDefense] = -1 },
		"fort hp above max":    func(c *Combatant) { c.FortHitpoints = 501 },
		"unknown fort level":   func(c *Combatant) { c.FortLevel = 99 },
		"duplicate item stack": func(c *Combatant) { c.Items = []ItemStack{helm, helm} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := army(1, stack(Defense, 1, 10))
			mutate(&c)

			require.ErrorIs(t, c.Validate(catalog), ErrInvalidState)
		})
	}

	t.Run("valid combatant", func(t *testing.T) {
		c := army(1, stack(Defense, 1, 10), stack(Offense, 9, 1))
		c.Items = []ItemStack{{Type: Helm, Level: 1, Quantity: 1, Usage: UsageDefense}}

		require.NoError(t, c.Validate(catalog), "catalog misses are warnings, not errors")
	})
}

func TestLossBreakdown(t *testing.T) {
	var a LossBreakdown
	a.Add(UnitKey{Defense, 2}, 3)
	a.Add(UnitKey{Citizen, 1}, 1)
	a.Add(UnitKey{Defense, 1}, 0)

	var b LossBreakdown
	b.Add(UnitKey{Defense, 2}, 2)
	b.Add(UnitKey{Worker, 1}, 4)

	a.Merge(b)

	require.Equal(t, 10, a.Total)
	require.Equal(t, []UnitLoss{
		{UnitKey: UnitKey{Citizen, 1}, Quantity: 1},
		{UnitKey: UnitKey{Worker, 1}, Quantity: 4},
		{UnitKey: UnitKey{Defense, 2}, Quantity: 5},
	}, a.Units)
	require.Equal(t, 6, b.Total, "merge should not modify its argument")
}

func TestRaceTheme(t *testing.T) {
	require.Equal(t, "ALLIANCE", Human.Theme())
	require.Equal(t, "UNDEAD", Undead.Theme())
	require.Empty(t, Race("ORC").Theme())
}

func TestRoster(t *testing.T) {
	r := NewRoster([]UnitStack{stack(Defense, 2, 5), stack(Citizen, 1, 10), stack(Offense, 1, 0), stack(Worker, 1, 3)})

	require.Equal(t, []UnitKey{{Citizen, 1}, {Worker, 1}, {Defense, 2}}, r.Keys())
	require.Equal(t, []UnitKey{{Defense, 2}}, r.Keys(Defense, Offense))
	require.Equal(t, 18, r.Headcount())
	require.Equal(t, 15, r.Headcount(Defense, Citizen))

	var losses LossBreakdown
	losses.Add(UnitKey{Defense, 2}, 9)
	losses.Add(UnitKey{Citizen, 1}, 4)
	r.Remove(losses)

	require.Zero(t, r[UnitKey{Defense, 2}])
	require.Equal(t, 6, r[UnitKey{Citizen, 1}])
	require.Equal(t, 9, r.Headcount())
}
