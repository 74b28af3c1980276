package engine

import (
	"math"

	"throne/game"
	"throne/utils"
)

// TurnOutcome records everything that happened in one attack turn.
type TurnOutcome struct {
	Turn                int                `json:"turn"`
	OffenseStrength     int64              `json:"offenseStrength"`
	DefenseStrength     int64              `json:"defenseStrength"`
	OffenseRoll         float64            `json:"offenseRoll"`
	DefenseRoll         float64            `json:"defenseRoll"`
	Winner              game.Outcome       `json:"winner"`
	Uncontested         bool               `json:"uncontested"`
	AttackerLosses      game.LossBreakdown `json:"attackerLosses"`
	DefenderLosses      game.LossBreakdown `json:"defenderLosses"`
	FortHitpointsBefore int                `json:"fortHitpointsBefore"`
	FortHitpointsAfter  int                `json:"fortHitpointsAfter"`
	FortDamage          int                `json:"fortDamage"`
	GoldPillaged        int64              `json:"goldPillaged"`
}

// battle is the working state of one resolution. Its combatants are clones
// owned by the battle and mutated turn by turn.
type battle struct {
	catalog  *game.Catalog
	rules    game.Rules
	rng      game.Random
	attacker game.Combatant
	defender game.Combatant
	fortMax  int
	warnings []game.Warning
}

func (b *battle) strength(c game.Combatant, category game.Category) int64 {
	s, warnings := game.Strength(b.catalog, b.rules, c, category)
	b.warnings = game.MergeWarnings(b.warnings, warnings...)
	return s
}

// resolveTurn plays one turn against the current, already depleted rosters.
func (b *battle) resolveTurn(n int) TurnOutcome {
	out := TurnOutcome{
		Turn:                n,
		OffenseStrength:     b.strength(b.attacker, game.OffenseCategory),
		DefenseStrength:     b.strength(b.defender, game.DefenseCategory),
		FortHitpointsBefore: b.defender.FortHitpoints,
		Winner:              game.DefenderWin,
	}

	switch {
	case out.OffenseStrength == 0:
		// Nothing to attack with: the defender holds without a fight.
	case out.DefenseStrength == 0:
		out.Uncontested = true
		out.Winner = game.AttackerWin
		out.OffenseRoll = float64(out.OffenseStrength)
	default:
		out.OffenseRoll = b.rules.Roll(b.rng, out.OffenseStrength)
		out.DefenseRoll = b.rules.Roll(b.rng, out.DefenseStrength)
		attackerRoster, defenderRoster := b.attacker.Roster(), b.defender.Roster()
		if out.OffenseRoll > out.DefenseRoll {
			out.Winner = game.AttackerWin
			loser, winner := b.rules.LossFractions(out.OffenseRoll, out.DefenseRoll)
			out.DefenderLosses = game.Allocate(defenderRoster, game.DefenseCategory.UnitTypes(), loser)
			out.AttackerLosses = game.Allocate(attackerRoster, game.OffenseCategory.UnitTypes(), winner)
		} else {
			loser, winner := b.rules.LossFractions(out.DefenseRoll, out.OffenseRoll)
			out.AttackerLosses = game.Allocate(attackerRoster, game.OffenseCategory.UnitTypes(), loser)
			out.DefenderLosses = game.Allocate(defenderRoster, game.DefenseCategory.UnitTypes(), winner)
		}
	}

	if out.Winner == game.AttackerWin {
		damage := b.rules.FortDamage(b.fortMax, out.OffenseRoll, out.DefenseRoll)
		out.FortDamage = utils.Clamp(damage, 0, b.defender.FortHitpoints)
		b.defender.FortHitpoints -= out.FortDamage
		out.GoldPillaged = b.pillage()
	}
	out.FortHitpointsAfter = b.defender.FortHitpoints

	b.attacker.ApplyLosses(out.AttackerLosses)
	b.defender.ApplyLosses(out.DefenderLosses)
	b.defender.Gold -= out.GoldPillaged
	b.attacker.Gold += out.GoldPillaged
	return out
}

// pillage is the defender's on-hand gold at stake, scaled by how much of the
// attacker's population is fighting. A standing fort shields most of it.
func (b *battle) pillage() int64 {
	roster := b.attacker.Roster()
	ratio := utils.Ratio(float64(roster.Headcount(game.OffenseCategory.UnitTypes()...)), float64(roster.Headcount()), 0)
	rate := b.rules.PillageRate(b.defender.FortHitpoints == 0)
	amount := int64(math.Floor(float64(b.defender.Gold) * rate * ratio))
	return utils.Clamp(amount, 0, b.defender.Gold)
}
