package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeExperience(t *testing.T) {
	catalog := DefaultCatalog()
	rules := NewStandardRules()

	even := ExperienceInput{
		AttackerLevel:    5,
		AttackerStrength: 1000,
		DefenderLevel:    5,
		DefenderStrength: 1000,
		Outcome:          AttackerWin,
	}

	t.Run("even win earns the base share", func(t *testing.T) {
		got := ComputeExperience(catalog, rules, even)

		// Level 5 spans 1300..2000.
		require.Equal(t, 70, got.Amount)
		require.Equal(t, Win, got.Result)
		require.Equal(t, 5, got.NewLevel)
		require.False(t, got.LevelUp)
	})

	t.Run("beating a much weaker target earns less", func(t *testing.T) {
		weak := even
		weak.DefenderLevel = 1
		weak.DefenderStrength = 100

		require.Less(t, ComputeExperience(catalog, rules, weak).Amount, ComputeExperience(catalog, rules, even).Amount)
	})

	t.Run("beating a stronger target earns more, up to a cap", func(t *testing.T) {
		strong := even
		strong.DefenderLevel = 8
		strong.DefenderStrength = 1500
		huge := even
		huge.DefenderLevel = 30
		huge.DefenderStrength = 1_000_000

		require.Greater(t, ComputeExperience(catalog, rules, strong).Amount, ComputeExperience(catalog, rules, even).Amount)
		require.Equal(t, 280, ComputeExperience(catalog, rules, huge).Amount, "both factors capped at 2")
	})

	t.Run("a loss earns the consolation", func(t *testing.T) {
		lost := even
		lost.Outcome = DefenderWin

		got := ComputeExperience(catalog, rules, lost)

		require.Equal(t, 7, got.Amount)
		require.Equal(t, Loss, got.Result)
	})

	t.Run("crossing a threshold levels up", func(t *testing.T) {
		in := even
		in.AttackerExperience = 2000

		got := ComputeExperience(catalog, rules, in)

		require.True(t, got.LevelUp)
		require.Equal(t, 6, got.NewLevel)
	})

	t.Run("top level never levels past the curve", func(t *testing.T) {
		in := even
		in.AttackerLevel = catalog.MaxLevel()
		in.AttackerExperience = 1 << 30

		got := ComputeExperience(catalog, rules, in)

		require.Equal(t, catalog.MaxLevel(), got.NewLevel)
		require.False(t, got.LevelUp)
		require.Positive(t, got.Amount)
	})
}
