package metrics

import (
	"sync/atomic"
	"time"

	"throne/game"
)

// BattleMetric summarises one resolved battle.
type BattleMetric struct {
	Seed             uint64
	Turns            int
	Outcome          game.Outcome
	AttackerTurnWins int
	UncontestedTurns int
	AttackerLosses   int
	DefenderLosses   int
	FortDamage       int
	PillagedGold     int64
	Experience       int
	Duration         time.Duration
}

// MatchupMetric aggregates every battle recorded by one collector.
type MatchupMetric struct {
	Battles          int
	AttackerWins     int
	Turns            int
	AttackerTurnWins int
	UncontestedTurns int
	AttackerLosses   int
	DefenderLosses   int
	FortDamage       int
	PillagedGold     int64
	Warnings         int
	Duration         time.Duration
}

// WinRate is the share of battles the attacker won.
func (m MatchupMetric) WinRate() float64 {
	if m.Battles == 0 {
		return 0
	}
	return float64(m.AttackerWins) / float64(m.Battles)
}

// Collector accumulates battle statistics. Implementations must be safe for
// concurrent use since one engine resolves battles from many goroutines.
type Collector interface {
	Start()
	AddTurn(attackerWon, uncontested bool)
	AddBattle(metric BattleMetric)
	AddWarnings(n int)
	Complete() MatchupMetric
}

type collector struct {
	startTime        time.Time
	battles          atomic.Int32
	attackerWins     atomic.Int32
	turns            atomic.Int32
	attackerTurnWins atomic.Int32
	uncontested      atomic.Int32
	attackerLosses   atomic.Int64
	defenderLosses   atomic.Int64
	fortDamage       atomic.Int64
	pillagedGold     atomic.Int64
	warnings         atomic.Int32
}

func NewCollector() Collector {
	c := &collector{}
	c.Start()
	return c
}

func (m *collector) Start() {
	m.startTime = time.Now()
}

func (m *collector) AddTurn(attackerWon, uncontested bool) {
	m.turns.Add(1)
	if attackerWon {
		m.attackerTurnWins.Add(1)
	}
	if uncontested {
		m.uncontested.Add(1)
	}
}

func (m *collector) AddBattle(metric BattleMetric) {
	m.battles.Add(1)
	if metric.Outcome == game.AttackerWin {
		m.attackerWins.Add(1)
	}
	m.attackerLosses.Add(int64(metric.AttackerLosses))
	m.defenderLosses.Add(int64(metric.DefenderLosses))
	m.fortDamage.Add(int64(metric.FortDamage))
	m.pillagedGold.Add(metric.PillagedGold)
}

func (m *collector) AddWarnings(n int) {
	m.warnings.Add(int32(n))
}

func (m *collector) Complete() MatchupMetric {
	return MatchupMetric{
		Battles:          int(m.battles.Load()),
		AttackerWins:     int(m.attackerWins.Load()),
		Turns:            int(m.turns.Load()),
		AttackerTurnWins: int(m.attackerTurnWins.Load()),
		UncontestedTurns: int(m.uncontested.Load()),
		AttackerLosses:   int(m.attackerLosses.Load()),
		DefenderLosses:   int(m.defenderLosses.Load()),
		FortDamage:       int(m.fortDamage.Load()),
		PillagedGold:     m.pillagedGold.Load(),
		Warnings:         int(m.warnings.Load()),
		Duration:         time.Since(m.startTime),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                                {}
func (m *dummyCollector) AddTurn(attackerWon, uncontested bool) {}
func (m *dummyCollector) AddBattle(metric BattleMetric)         {}
func (m *dummyCollector) AddWarnings(n int)                     {}
func (m *dummyCollector) Complete() MatchupMetric               { return MatchupMetric{} }
