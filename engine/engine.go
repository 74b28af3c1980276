package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	"throne/experiments/metrics"
	"throne/game"
	"throne/meta"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
)

type Option func(e *Engine)

// Losses holds both sides' cumulative casualties.
type Losses struct {
	Attacker game.LossBreakdown `json:"attacker"`
	Defender game.LossBreakdown `json:"defender"`
}

// BattleResult is the read-only outcome of one resolution. Attacker and
// Defender are the post-battle snapshots the host persists.
type BattleResult struct {
	Attacker               game.Combatant  `json:"attacker"`
	Defender               game.Combatant  `json:"defender"`
	Losses                 Losses          `json:"losses"`
	PillagedGold           int64           `json:"pillagedGold"`
	FortHitpointsRemaining int             `json:"fortHitpointsRemaining"`
	FortDamage             int             `json:"fortDamage"`
	Outcome                game.Outcome    `json:"outcome"`
	Experience             game.Experience `json:"experience"`
	AttackerStrength       int64           `json:"attackerStrength"`
	DefenderStrength       int64           `json:"defenderStrength"`
	Turns                  []TurnOutcome   `json:"turns"`
	Seed                   uint64          `json:"seed"`
	Warnings               []game.Warning  `json:"warnings,omitempty"`
}

// AttackerTurnWins counts the turns the attacker won.
func (r *BattleResult) AttackerTurnWins() int {
	wins := 0
	for _, t := range r.Turns {
		if t.Winner == game.AttackerWin {
			wins++
		}
	}
	return wins
}

func (r *BattleResult) UncontestedTurns() int {
	n := 0
	for _, t := range r.Turns {
		if t.Uncontested {
			n++
		}
	}
	return n
}

// Metric summarises the battle for tuning statistics.
func (r *BattleResult) Metric(duration time.Duration) metrics.BattleMetric {
	return metrics.BattleMetric{
		Seed:             r.Seed,
		Turns:            len(r.Turns),
		Outcome:          r.Outcome,
		AttackerTurnWins: r.AttackerTurnWins(),
		UncontestedTurns: r.UncontestedTurns(),
		AttackerLosses:   r.Losses.Attacker.Total,
		DefenderLosses:   r.Losses.Defender.Total,
		FortDamage:       r.FortDamage,
		PillagedGold:     r.PillagedGold,
		Experience:       r.Experience.Amount,
		Duration:         duration,
	}
}

// Engine resolves battles against a fixed catalog and rule set. It holds no
// per-battle state, so one Engine may resolve battles concurrently.
type Engine struct {
	catalog *game.Catalog
	rules   game.Rules
	seed    *uint64
	seeds   atomic.Uint64
	logger  zerolog.Logger
	metrics metrics.Collector
}

func WithRules(rules game.Rules) Option {
	return func(e *Engine) {
		if rules != nil {
			e.rules = rules
		}
	}
}

// WithSeed fixes the seed of every Resolve call.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.seed = &seed
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(e *Engine) {
		if collector != nil {
			e.metrics = collector
		}
	}
}

func New(catalog *game.Catalog, options ...Option) *Engine {
	if catalog == nil {
		panic("engine needs a catalog")
	}
	e := &Engine{ // Default values
		catalog: catalog,
		rules:   game.NewStandardRules(),
		logger:  zerolog.Nop(),
		metrics: metrics.NewDummyCollector(),
	}
	e.seeds.Store(uint64(time.Now().UnixNano()))
	for _, option := range options {
		option(e)
	}
	return e
}

func (e *Engine) Catalog() *game.Catalog {
	return e.catalog
}

func (e *Engine) Rules() game.Rules {
	return e.rules
}

// Resolve runs a battle of the given number of turns with a fresh seed.
func (e *Engine) Resolve(attacker, defender game.Combatant, turns int) (*BattleResult, error) {
	seed := e.seeds.Add(1)
	if e.seed != nil {
		seed = *e.seed
	}
	return e.Replay(attacker, defender, turns, seed)
}

// Replay runs a battle with the given seed. Identical inputs and seed give an
// identical result.
func (e *Engine) Replay(attacker, defender game.Combatant, turns int, seed uint64) (*BattleResult, error) {
	if turns < meta.MIN_TURNS || turns > meta.MAX_TURNS {
		return nil, fmt.Errorf("%w: turns %d outside [%d, %d]", game.ErrInvalidArgument, turns, meta.MIN_TURNS, meta.MAX_TURNS)
	}
	if err := attacker.Validate(e.catalog); err != nil {
		return nil, err
	}
	if err := defender.Validate(e.catalog); err != nil {
		return nil, err
	}
	// Validate guarantees the fort row exists.
	fort, _ := e.catalog.Fortification(defender.FortLevel)

	start := time.Now()
	b := &battle{
		catalog:  e.catalog,
		rules:    e.rules,
		rng:      rand.New(rand.NewSource(seed)),
		attacker: attacker.Clone(),
		defender: defender.Clone(),
		fortMax:  fort.Hitpoints,
	}

	result := &BattleResult{
		AttackerStrength: b.strength(b.attacker, game.OffenseCategory),
		DefenderStrength: b.strength(b.defender, game.DefenseCategory),
		Seed:             seed,
		Turns:            make([]TurnOutcome, 0, turns),
	}

	for n := 1; n <= turns; n++ {
		out := b.resolveTurn(n)
		result.Turns = append(result.Turns, out)
		result.Losses.Attacker.Merge(out.AttackerLosses)
		result.Losses.Defender.Merge(out.DefenderLosses)
		result.PillagedGold += out.GoldPillaged
		result.FortDamage += out.FortDamage
		e.metrics.AddTurn(out.Winner == game.AttackerWin, out.Uncontested)
	}

	// Only a fort this battle brought down counts; one already broken does not.
	fortFell := defender.FortHitpoints > 0 && b.defender.FortHitpoints == 0
	result.Outcome = game.DefenderWin
	if wins := result.AttackerTurnWins(); fortFell || wins > turns-wins {
		result.Outcome = game.AttackerWin
	}

	result.Experience = game.ComputeExperience(e.catalog, e.rules, game.ExperienceInput{
		AttackerLevel:      attacker.Level,
		AttackerExperience: attacker.Experience,
		AttackerStrength:   result.AttackerStrength,
		DefenderLevel:      defender.Level,
		DefenderStrength:   result.DefenderStrength,
		Outcome:            result.Outcome,
	})
	b.attacker.Experience += result.Experience.Amount
	b.attacker.Level = result.Experience.NewLevel

	result.Attacker = b.attacker
	result.Defender = b.defender
	result.FortHitpointsRemaining = b.defender.FortHitpoints
	result.Warnings = b.warnings

	e.metrics.AddWarnings(len(b.warnings))
	e.metrics.AddBattle(result.Metric(time.Since(start)))

	e.logger.Debug().
		Int("attacker", attacker.ID).
		Int("defender", defender.ID).
		Int("turns", turns).
		Uint64("seed", seed).
		Str("outcome", string(result.Outcome)).
		Int("warnings", len(result.Warnings)).
		Msg("battle resolved")
	for _, w := range result.Warnings {
		e.logger.Warn().Msg(w.String())
	}
	return result, nil
}
