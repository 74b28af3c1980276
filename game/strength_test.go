package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestStrength(t *testing.T) {
	catalog := DefaultCatalog()
	rules := NewStandardRules()

	t.Run("offense counts offense units only", func(t *testing.T) {
		c := army(1, stack(Offense, 1, 100), stack(Defense, 1, 40), stack(Citizen, 1, 500))

		got, warnings := Strength(catalog, rules, c, OffenseCategory)

		require.Equal(t, int64(1000), got)
		require.Empty(t, warnings)
	})

	t.Run("defense counts idle population and the fort bonus", func(t *testing.T) {
		c := army(2, stack(Defense, 1, 50), stack(Worker, 1, 10), stack(Citizen, 1, 30))
		c.FortLevel = 3
		c.FortHitpoints = 2000

		b, warnings := ComputeStrength(catalog, rules, c, DefenseCategory)

		require.Empty(t, warnings)
		require.Equal(t, int64(500+20+30), b.Base)
		require.Equal(t, 20, b.FortPct)
		require.Equal(t, int64(660), b.Total, "550 plus 20 percent")
	})

	t.Run("percentages are additive", func(t *testing.T) {
		c := army(3, stack(Offense, 1, 100))
		c.Class = Fighter
		c.Structures[OffenseStructure] = 2
		c.BonusPoints[BonusOffense] = 5

		b, _ := ComputeStrength(catalog, rules, c, OffenseCategory)

		require.Equal(t, 10, b.StructurePct)
		require.Equal(t, 5, b.RaceClassPct)
		require.Equal(t, 5, b.BonusPointPct)
		require.Equal(t, int64(1200), b.Total)
	})

	t.Run("race bonus of another category does not apply", func(t *testing.T) {
		c := army(4, stack(Defense, 1, 10))
		c.Class = Fighter

		b, _ := ComputeStrength(catalog, rules, c, DefenseCategory)

		require.Zero(t, b.RaceClassPct)
	})

	t.Run("items are capped at headcount, best first", func(t *testing.T) {
		c := army(5, stack(Offense, 1, 10))
		c.Items = []ItemStack{
			{Type: Weapon, Level: 1, Quantity: 10, Usage: UsageOffense},
			{Type: Weapon, Level: 3, Quantity: 4, Usage: UsageOffense},
			{Type: Helm, Level: 1, Quantity: 3, Usage: UsageOffense},
			{Type: Armor, Level: 3, Quantity: 10, Usage: UsageDefense},
		}

		b, _ := ComputeStrength(catalog, rules, c, OffenseCategory)

		require.Equal(t, 13, b.EquippedItems)
		require.Equal(t, int64(4*24+6*4+3*2), b.Items)
		require.Equal(t, int64(100+4*24+6*4+3*2), b.Total)
	})

	t.Run("over-equip lifts the cap", func(t *testing.T) {
		c := army(6, stack(Offense, 1, 2))
		c.Items = []ItemStack{{Type: Weapon, Level: 1, Quantity: 5, Usage: UsageOffense}}
		overEquip := NewStandardRules()
		overEquip.OverEquip = true

		capped, _ := Strength(catalog, rules, c, OffenseCategory)
		uncapped, _ := Strength(catalog, overEquip, c, OffenseCategory)

		require.Equal(t, int64(20+2*4), capped)
		require.Equal(t, int64(20+5*4), uncapped)
	})

	t.Run("catalog misses warn and contribute nothing", func(t *testing.T) {
		c := army(7, stack(Offense, 1, 10), stack(Offense, 9, 10))
		c.Items = []ItemStack{{Type: Boots, Level: 9, Quantity: 1, Usage: UsageOffense}}

		got, warnings := Strength(catalog, rules, c, OffenseCategory)

		require.Equal(t, int64(100), got)
		require.Len(t, warnings, 2)
		for _, w := range warnings {
			require.Equal(t, DataIntegrity, w.Kind)
			require.Equal(t, 7, w.CombatantID)
		}
	})

	t.Run("zero army has zero strength", func(t *testing.T) {
		got, _ := Strength(catalog, rules, army(8), DefenseCategory)
		require.Zero(t, got)
	})
}

func TestStrengthMonotonic(t *testing.T) {
	catalog := DefaultCatalog()
	rules := NewStandardRules()

	rapid.Check(t, func(t *rapid.T) {
		c := army(1,
			stack(Offense, 1, rapid.IntRange(0, 500).Draw(t, "offense1")),
			stack(Offense, 2, rapid.IntRange(0, 500).Draw(t, "offense2")),
			stack(Defense, 1, rapid.IntRange(0, 500).Draw(t, "defense1")),
			stack(Worker, 1, rapid.IntRange(0, 500).Draw(t, "workers")),
			stack(Citizen, 1, rapid.IntRange(0, 500).Draw(t, "citizens")),
		)
		c.Items = []ItemStack{
			{Type: Weapon, Level: 2, Quantity: rapid.IntRange(0, 300).Draw(t, "weapons"), Usage: UsageOffense},
			{Type: Shield, Level: 1, Quantity: rapid.IntRange(0, 300).Draw(t, "shields"), Usage: UsageDefense},
		}
		c.BonusPoints[BonusDefense] = rapid.IntRange(0, 50).Draw(t, "bonus")
		c.FortLevel = rapid.IntRange(1, 6).Draw(t, "fort")
		category := rapid.SampledFrom([]Category{OffenseCategory, DefenseCategory}).Draw(t, "category")

		before, _ := Strength(catalog, rules, c, category)
		require.GreaterOrEqual(t, before, int64(0))

		grown := c.Clone()
		i := rapid.IntRange(0, len(grown.Units)-1).Draw(t, "stack")
		grown.Units[i].Quantity += rapid.IntRange(1, 100).Draw(t, "added")

		after, _ := Strength(catalog, rules, grown, category)
		require.GreaterOrEqual(t, after, before)
	})
}
