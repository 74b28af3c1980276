package experiments

import (
	"context"
	"fmt"
	"time"

	"throne/engine"
	"throne/experiments/metrics"
	"throne/game"
	"throne/meta"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Matchup is one attacker/defender pairing resolved many times with
// different seeds.
type Matchup struct {
	Name     string
	Attacker game.Combatant
	Defender game.Combatant
	Turns    int
}

func fixture(id int, fortLevel int, units ...game.UnitStack) game.Combatant {
	c := game.Combatant{
		ID:          id,
		Level:       5,
		Experience:  1300,
		Units:       units,
		BonusPoints: map[game.BonusType]int{},
		Structures:  map[game.StructureType]int{},
		FortLevel:   fortLevel,
		Race:        game.Human,
		Class:       game.Fighter,
		Gold:        20000,
		GoldInBank:  50000,
	}
	return c
}

func stack(t game.UnitType, level, quantity int) game.UnitStack {
	return game.UnitStack{Type: t, Level: level, Quantity: quantity}
}

// DefaultMatchups covers the situations tuning most often has to balance.
func DefaultMatchups(catalog *game.Catalog) []Matchup {
	matchups := []Matchup{
		{
			Name:     "even",
			Attacker: fixture(1, 1, stack(game.Offense, 1, 100), stack(game.Citizen, 1, 50)),
			Defender: fixture(2, 1, stack(game.Defense, 1, 95), stack(game.Worker, 1, 20)),
			Turns:    meta.MAX_TURNS,
		},
		{
			Name:     "outnumbered",
			Attacker: fixture(3, 1, stack(game.Offense, 1, 60)),
			Defender: fixture(4, 2, stack(game.Defense, 1, 80), stack(game.Citizen, 1, 100)),
			Turns:    meta.MAX_TURNS,
		},
		{
			Name:     "fortress",
			Attacker: fixture(5, 1, stack(game.Offense, 2, 80), stack(game.Offense, 1, 40)),
			Defender: fixture(6, 5, stack(game.Defense, 2, 40), stack(game.Worker, 1, 60)),
			Turns:    meta.MAX_TURNS,
		},
		{
			Name:     "raid",
			Attacker: fixture(7, 1, stack(game.Offense, 3, 40)),
			Defender: fixture(8, 1, stack(game.Citizen, 1, 200)),
			Turns:    3,
		},
	}
	// Forts start at full strength.
	for i := range matchups {
		for _, c := range []*game.Combatant{&matchups[i].Attacker, &matchups[i].Defender} {
			fort, _ := catalog.Fortification(c.FortLevel)
			c.FortHitpoints = fort.Hitpoints
		}
	}
	return matchups
}

// VarianceSweep varies the roll band around base, leaving its other
// tunables untouched.
func VarianceSweep(base *game.StandardRules) []metrics.RulesConfig {
	configs := []metrics.RulesConfig{}
	for i, band := range []float64{0.05, 0.1, 0.2, 0.3} {
		rules := *base
		rules.Variance.Band = band
		configs = append(configs, metrics.RulesConfig{ID: i + 1, Rules: &rules})
	}
	triangular := *base
	triangular.Variance = game.Variance{Band: 0.3, Distribution: game.Triangular}
	return append(configs, metrics.RulesConfig{ID: len(configs) + 1, Rules: &triangular})
}

// RunMatchup resolves games battles seeded 1..games on up to goroutines
// workers. Battles are returned in seed order.
func RunMatchup(ctx context.Context, catalog *game.Catalog, rules game.Rules, m Matchup, games, goroutines int) (metrics.MatchupMetric, []metrics.BattleMetric, error) {
	collector := metrics.NewCollector()
	e := engine.New(catalog, engine.WithRules(rules), engine.WithMetrics(collector))

	battles := make([]metrics.BattleMetric, games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, goroutines))
	for i := range games {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			result, err := e.Replay(m.Attacker, m.Defender, m.Turns, uint64(i+1))
			if err != nil {
				return fmt.Errorf("matchup %s seed %d: %w", m.Name, i+1, err)
			}
			battles[i] = result.Metric(time.Since(start))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return metrics.MatchupMetric{}, nil, err
	}
	return collector.Complete(), battles, nil
}

// RunTuningExperiment plays every matchup under every rule set and writes
// the results as CSV under root.
func RunTuningExperiment(ctx context.Context, root, name string, catalog *game.Catalog, configs []metrics.RulesConfig, matchups []Matchup, games int) error {
	log.Info().Msgf("starting %s experiment...", name)

	matchupRecords := []metrics.MatchupRecord{}
	battleRecords := []metrics.BattleRecord{}
	for _, config := range configs {
		for _, m := range matchups {
			id := len(matchupRecords) + 1
			log.Info().Msgf("starting matchup %d: %s under rules %d...", id, m.Name, config.ID)

			summary, battles, err := RunMatchup(ctx, catalog, config.Rules, m, games, meta.GO_ROUTINES)
			if err != nil {
				return err
			}
			matchupRecords = append(matchupRecords, metrics.MatchupRecord{
				ID:            id,
				Rules:         config.ID,
				Name:          m.Name,
				Attacker:      m.Attacker.ID,
				Defender:      m.Defender.ID,
				Games:         games,
				MatchupMetric: summary,
			})
			for _, b := range battles {
				battleRecords = append(battleRecords, metrics.BattleRecord{Matchup: id, BattleMetric: b})
			}

			log.Info().Msgf("completed matchup %d with attacker win rate %.2f", id, summary.WinRate())
		}
	}

	log.Info().Msgf("completed %s experiment", name)

	writer, err := metrics.NewWriter(root, name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteRulesConfigs(configs); err != nil {
		return fmt.Errorf("failed to store rules configs: %w", err)
	}
	if err := writer.WriteMatchupRecords(matchupRecords); err != nil {
		return fmt.Errorf("failed to write matchup records: %w", err)
	}
	if err := writer.WriteBattleRecords(battleRecords); err != nil {
		return fmt.Errorf("failed to write battle records: %w", err)
	}
	log.Info().Msgf("stored records in %s", writer.Dir())
	return nil
}
