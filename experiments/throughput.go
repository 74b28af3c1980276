package experiments

import (
	"context"
	"time"

	"throne/game"

	"github.com/rs/zerolog/log"
)

// ThroughputSample is the battle rate at one level of parallelism.
type ThroughputSample struct {
	Goroutines int
	Battles    int
	Elapsed    time.Duration
}

func (s ThroughputSample) BattlesPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Battles) / s.Elapsed.Seconds()
}

// RunThroughputExperiment measures how battle resolution scales with
// goroutines.
func RunThroughputExperiment(ctx context.Context, catalog *game.Catalog, rules game.Rules, m Matchup, games int, goroutines []int) ([]ThroughputSample, error) {
	samples := make([]ThroughputSample, 0, len(goroutines))
	for _, n := range goroutines {
		start := time.Now()
		summary, _, err := RunMatchup(ctx, catalog, rules, m, games, n)
		if err != nil {
			return nil, err
		}
		sample := ThroughputSample{Goroutines: n, Battles: summary.Battles, Elapsed: time.Since(start)}
		samples = append(samples, sample)
		log.Info().Msgf("%d goroutines: %.0f battles/s", n, sample.BattlesPerSecond())
	}
	return samples, nil
}
