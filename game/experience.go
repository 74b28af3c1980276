package game

import (
	"math"

	"throne/utils"
)

type ExperienceResult string

const (
	Win  ExperienceResult = "WIN"
	Loss ExperienceResult = "LOSS"
)

func ResultFor(o Outcome) ExperienceResult {
	if o == AttackerWin {
		return Win
	}
	return Loss
}

type ExperienceInput struct {
	AttackerLevel      int
	AttackerExperience int
	AttackerStrength   int64
	DefenderLevel      int
	DefenderStrength   int64
	Outcome            Outcome
}

type Experience struct {
	Amount   int              `json:"amount"`
	Result   ExperienceResult `json:"result"`
	NewLevel int              `json:"newLevel"`
	LevelUp  bool             `json:"levelUp"`
}

// ComputeExperience awards the attacker a share of its current level span.
// Wins scale with the defender's relative strength and level, both capped, so
// beating a much weaker target is worth little. Losses earn a consolation.
func ComputeExperience(curve LevelCurve, rules Rules, in ExperienceInput) Experience {
	shape := rules.Experience()
	base := float64(levelSpan(curve, in.AttackerLevel)) * shape.Share

	var amount float64
	if in.Outcome == AttackerWin {
		strengthFactor := utils.Clamp(
			utils.Ratio(float64(in.DefenderStrength), float64(in.AttackerStrength), 0),
			0, shape.MaxRewardFactor)
		gap := float64(in.DefenderLevel - in.AttackerLevel)
		levelFactor := utils.Clamp(1+shape.LevelGapWeight*gap, shape.MinLevelFactor, shape.MaxRewardFactor)
		amount = base * strengthFactor * levelFactor
	} else {
		amount = base * shape.ConsolationRate
	}

	xp := Experience{
		Amount: max(0, int(math.Floor(amount))),
		Result: ResultFor(in.Outcome),
	}
	xp.NewLevel = max(in.AttackerLevel, min(curve.MaxLevel(), curve.LevelFor(in.AttackerExperience+xp.Amount)))
	xp.LevelUp = xp.NewLevel > in.AttackerLevel
	return xp
}

// levelSpan is the experience between a level and the next. The top level
// reuses the span below it.
func levelSpan(curve LevelCurve, level int) int {
	level = utils.Clamp(level, 1, curve.MaxLevel()-1)
	lo, _ := curve.ExperienceFor(level)
	hi, _ := curve.ExperienceFor(level + 1)
	return hi - lo
}
