package gamemaster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"throne/engine"
	"throne/game"
	"throne/meta"
	"throne/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotFound   = errors.New("gamemaster: not found")
	ErrSelfAttack = errors.New("gamemaster: combatant cannot attack itself")
)

// Loader fetches a combatant's current persisted state.
type Loader interface {
	Load(ctx context.Context, id int) (game.Combatant, error)
}

// Recorder persists the post-battle state of both combatants.
type Recorder interface {
	Persist(ctx context.Context, result *engine.BattleResult) error
}

// BattleLog stores immutable battle entries for audit and retest.
type BattleLog interface {
	Append(ctx context.Context, entry LogEntry) error
	// Remove withdraws an entry whose battle could not be persisted.
	Remove(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (LogEntry, error)
	List(ctx context.Context) ([]LogEntry, error)
}

// LogEntry is one resolved battle with the pre-battle snapshots it was
// resolved from, enough to replay it later.
type LogEntry struct {
	ID             uuid.UUID            `json:"id"`
	Time           time.Time            `json:"time"`
	Turns          int                  `json:"turns"`
	Seed           uint64               `json:"seed"`
	AttackerBefore game.Combatant       `json:"attackerBefore"`
	DefenderBefore game.Combatant       `json:"defenderBefore"`
	Result         *engine.BattleResult `json:"result"`
}

// RetestResult compares a stored battle with a fresh replay of it.
type RetestResult struct {
	Original *engine.BattleResult `json:"original"`
	Replayed *engine.BattleResult `json:"replayed"`
	// Matches is false when the rules changed the outcome.
	Matches bool `json:"matches"`
}

// Service is the host around the battle engine: it loads combatants,
// resolves attacks and records the results.
type Service struct {
	engine   *engine.Engine
	loader   Loader
	recorder Recorder
	battles  BattleLog
	clock    func() time.Time
	// mu serialises load-resolve-persist so concurrent attacks on the same
	// combatant never persist from stale snapshots.
	mu sync.Mutex
}

func NewService(e *engine.Engine, loader Loader, recorder Recorder, battles BattleLog) *Service {
	return &Service{
		engine:   e,
		loader:   loader,
		recorder: recorder,
		battles:  battles,
		clock:    time.Now,
	}
}

func (s *Service) WithClock(clock func() time.Time) *Service {
	if clock != nil {
		s.clock = clock
	}
	return s
}

// Attack resolves a live attack. Turns are clamped to the allowed range.
func (s *Service) Attack(ctx context.Context, attackerID, defenderID, turns int) (LogEntry, error) {
	if attackerID == defenderID {
		return LogEntry{}, fmt.Errorf("%w: %d", ErrSelfAttack, attackerID)
	}
	turns = utils.Clamp(turns, meta.MIN_TURNS, meta.MAX_TURNS)

	s.mu.Lock()
	defer s.mu.Unlock()

	attacker, err := s.loader.Load(ctx, attackerID)
	if err != nil {
		return LogEntry{}, fmt.Errorf("loading attacker %d: %w", attackerID, err)
	}
	defender, err := s.loader.Load(ctx, defenderID)
	if err != nil {
		return LogEntry{}, fmt.Errorf("loading defender %d: %w", defenderID, err)
	}

	result, err := s.engine.Resolve(attacker, defender, turns)
	if err != nil {
		return LogEntry{}, err
	}
	entry := LogEntry{
		ID:             uuid.New(),
		Time:           s.clock().UTC(),
		Turns:          turns,
		Seed:           result.Seed,
		AttackerBefore: attacker,
		DefenderBefore: defender,
		Result:         result,
	}
	if err := s.battles.Append(ctx, entry); err != nil {
		return LogEntry{}, fmt.Errorf("logging battle: %w", err)
	}
	if err := s.recorder.Persist(ctx, result); err != nil {
		if rerr := s.battles.Remove(ctx, entry.ID); rerr != nil {
			log.Error().Err(rerr).Str("battle", entry.ID.String()).Msg("withdrawing unpersisted battle")
		}
		return LogEntry{}, fmt.Errorf("persisting battle: %w", err)
	}

	log.Info().Msgf("battle %s: %d attacked %d over %d turns: %s", entry.ID, attackerID, defenderID, turns, result.Outcome)
	for _, w := range result.Warnings {
		log.Warn().Str("battle", entry.ID.String()).Msg(w.String())
	}
	return entry, nil
}

// Retest replays a logged battle from its stored snapshots and seed under the
// current rules. Nothing is persisted.
func (s *Service) Retest(ctx context.Context, id uuid.UUID) (*RetestResult, error) {
	entry, err := s.battles.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	replayed, err := s.engine.Replay(entry.AttackerBefore, entry.DefenderBefore, entry.Turns, entry.Seed)
	if err != nil {
		return nil, err
	}
	matches := entry.Result.Outcome == replayed.Outcome &&
		entry.Result.Losses.Attacker.Total == replayed.Losses.Attacker.Total &&
		entry.Result.Losses.Defender.Total == replayed.Losses.Defender.Total &&
		entry.Result.PillagedGold == replayed.PillagedGold &&
		entry.Result.FortHitpointsRemaining == replayed.FortHitpointsRemaining &&
		entry.Result.Experience == replayed.Experience
	if !matches {
		log.Info().Msgf("retest of battle %s diverged: %s then, %s now", id, entry.Result.Outcome, replayed.Outcome)
	}
	return &RetestResult{Original: entry.Result, Replayed: replayed, Matches: matches}, nil
}

// Simulate resolves a what-if battle between supplied snapshots without
// persisting anything. A nil seed draws a fresh one.
func (s *Service) Simulate(ctx context.Context, attacker, defender game.Combatant, turns int, seed *uint64) (*engine.BattleResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if seed != nil {
		return s.engine.Replay(attacker, defender, turns, *seed)
	}
	return s.engine.Resolve(attacker, defender, turns)
}

// Export writes the whole battle log as a compressed archive.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	entries, err := s.battles.List(ctx)
	if err != nil {
		return err
	}
	return WriteArchive(w, entries, s.clock())
}

// Import appends every entry of an archive to the battle log.
func (s *Service) Import(ctx context.Context, r io.Reader) (int, error) {
	entries, err := ReadArchive(r)
	if err != nil {
		return 0, err
	}
	for i, entry := range entries {
		if err := s.battles.Append(ctx, entry); err != nil {
			return i, fmt.Errorf("importing battle %s: %w", entry.ID, err)
		}
	}
	return len(entries), nil
}

// Battle returns a logged battle.
func (s *Service) Battle(ctx context.Context, id uuid.UUID) (LogEntry, error) {
	return s.battles.Get(ctx, id)
}
