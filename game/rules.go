package game

// Random is the entropy the rules draw from. *rand.Rand from
// golang.org/x/exp/rand satisfies it.
type Random interface {
	Float64() float64
}

// Rules holds the tunable combat constants. The engine depends only on this
// interface so tuning experiments can swap in alternative rule sets.
type Rules interface {
	// Roll scales a strength by a random variance factor.
	Roll(rng Random, strength int64) float64
	// LossFractions returns the share of the loser's and winner's relevant
	// headcount lost in one turn, given both rolls.
	LossFractions(winnerRoll, loserRoll float64) (loser, winner float64)
	// FortDamage returns the hitpoints removed by a won turn.
	FortDamage(maxHitpoints int, offenseRoll, defenseRoll float64) int
	// PillageRate is the share of on-hand gold at stake for a won turn.
	PillageRate(fortDown bool) float64
	AllowOverEquip() bool
	Experience() ExperienceShape
}

// ExperienceShape parameterises the experience reward curve. Share is the
// fraction of the attacker's current level span awarded for an even win, and
// LevelGapWeight the change in reward per level of gap between the sides.
type ExperienceShape struct {
	Share           float64 `yaml:"share" json:"share"`
	LevelGapWeight  float64 `yaml:"levelGapWeight" json:"levelGapWeight"`
	MinLevelFactor  float64 `yaml:"minLevelFactor" json:"minLevelFactor"`
	MaxRewardFactor float64 `yaml:"maxRewardFactor" json:"maxRewardFactor"`
	ConsolationRate float64 `yaml:"consolationRate" json:"consolationRate"`
}
