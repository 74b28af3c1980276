package game

import (
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

type Distribution string

const (
	Uniform    Distribution = "uniform"
	Triangular Distribution = "triangular"
)

// Variance is the band around 1.0 that a strength roll is scaled by.
type Variance struct {
	Band         float64      `yaml:"band" json:"band"`
	Distribution Distribution `yaml:"distribution" json:"distribution"`
}

// Factor draws a multiplier in [1-Band, 1+Band].
func (v Variance) Factor(rng Random) float64 {
	switch v.Distribution {
	case Triangular:
		return 1 + v.Band*(rng.Float64()+rng.Float64()-1)
	default:
		return 1 + v.Band*(2*rng.Float64()-1)
	}
}

type StandardRules struct {
	Variance            Variance        `yaml:"variance" json:"variance"`
	LoserLossRate       float64         `yaml:"loserLossRate" json:"loserLossRate"`
	WinnerLossRate      float64         `yaml:"winnerLossRate" json:"winnerLossRate"`
	MaxLossFraction     float64         `yaml:"maxLossFraction" json:"maxLossFraction"`
	FortDamageRate      float64         `yaml:"fortDamageRate" json:"fortDamageRate"`
	FullPillageRate     float64         `yaml:"pillageRate" json:"pillageRate"`
	ShieldedPillageRate float64         `yaml:"shieldedPillageRate" json:"shieldedPillageRate"`
	OverEquip           bool            `yaml:"allowOverEquip" json:"allowOverEquip"`
	ExperienceCurve     ExperienceShape `yaml:"experience" json:"experience"`
}

func NewStandardRules() *StandardRules {
	return &StandardRules{
		Variance:            Variance{Band: 0.1, Distribution: Uniform},
		LoserLossRate:       0.03,
		WinnerLossRate:      0.01,
		MaxLossFraction:     0.1,
		FortDamageRate:      0.5,
		FullPillageRate:     0.1,
		ShieldedPillageRate: 0.02,
		ExperienceCurve: ExperienceShape{
			Share:           0.1,
			LevelGapWeight:  0.1,
			MinLevelFactor:  0.1,
			MaxRewardFactor: 2,
			ConsolationRate: 0.1,
		},
	}
}

// LoadRules decodes rules from YAML over the standard defaults, so a file only
// needs to name the constants it changes.
func LoadRules(r io.Reader) (*StandardRules, error) {
	rules := NewStandardRules()
	if err := yaml.NewDecoder(r).Decode(rules); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: decoding rules: %v", ErrInvalidArgument, err)
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return rules, nil
}

func LoadRulesFile(path string) (*StandardRules, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rules: %w", err)
	}
	defer file.Close()
	return LoadRules(file)
}

func (sr *StandardRules) Validate() error {
	fractions := map[string]float64{
		"variance band":         sr.Variance.Band,
		"max loss fraction":     sr.MaxLossFraction,
		"fort damage rate":      sr.FortDamageRate,
		"pillage rate":          sr.FullPillageRate,
		"shielded pillage rate": sr.ShieldedPillageRate,
	}
	for name, v := range fractions {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%w: %s %v outside [0, 1]", ErrInvalidArgument, name, v)
		}
	}
	if sr.Variance.Distribution != Uniform && sr.Variance.Distribution != Triangular {
		return fmt.Errorf("%w: unknown variance distribution %q", ErrInvalidArgument, sr.Variance.Distribution)
	}
	if sr.LoserLossRate < 0 || sr.WinnerLossRate < 0 {
		return fmt.Errorf("%w: negative loss rate", ErrInvalidArgument)
	}
	if sr.ShieldedPillageRate > sr.FullPillageRate {
		return fmt.Errorf("%w: shielded pillage rate exceeds pillage rate", ErrInvalidArgument)
	}
	xp := sr.ExperienceCurve
	if xp.Share < 0 || xp.ConsolationRate < 0 || xp.MinLevelFactor < 0 || xp.MaxRewardFactor < xp.MinLevelFactor {
		return fmt.Errorf("%w: experience shape %+v", ErrInvalidArgument, xp)
	}
	return nil
}

func (sr *StandardRules) Roll(rng Random, strength int64) float64 {
	return float64(strength) * sr.Variance.Factor(rng)
}

func (sr *StandardRules) LossFractions(winnerRoll, loserRoll float64) (loser, winner float64) {
	// A zero roll on either side is an unopposed turn.
	if loserRoll <= 0 || winnerRoll <= 0 {
		return 0, 0
	}
	loser = min(sr.MaxLossFraction, sr.LoserLossRate*winnerRoll/loserRoll)
	winner = min(sr.MaxLossFraction, sr.WinnerLossRate*loserRoll/winnerRoll)
	return loser, winner
}

func (sr *StandardRules) FortDamage(maxHitpoints int, offenseRoll, defenseRoll float64) int {
	if offenseRoll <= 0 || offenseRoll <= defenseRoll {
		return 0
	}
	margin := (offenseRoll - max(defenseRoll, 0)) / offenseRoll
	return int(math.Ceil(float64(maxHitpoints) * sr.FortDamageRate * margin))
}

func (sr *StandardRules) PillageRate(fortDown bool) float64 {
	if fortDown {
		return sr.FullPillageRate
	}
	return sr.ShieldedPillageRate
}

func (sr *StandardRules) AllowOverEquip() bool {
	return sr.OverEquip
}

func (sr *StandardRules) Experience() ExperienceShape {
	return sr.ExperienceCurve
}
