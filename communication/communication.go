package communication

import (
	"context"

	"throne/engine"
	"throne/game"
	"throne/gamemaster"

	"github.com/google/uuid"
)

// BattleHost is the set of battle operations a transport exposes.
type BattleHost interface {
	Attack(ctx context.Context, attackerID, defenderID, turns int) (gamemaster.LogEntry, error)
	Simulate(ctx context.Context, attacker, defender game.Combatant, turns int, seed *uint64) (*engine.BattleResult, error)
	Battle(ctx context.Context, id uuid.UUID) (gamemaster.LogEntry, error)
	Retest(ctx context.Context, id uuid.UUID) (*gamemaster.RetestResult, error)
}

// Failure codes carried in error bodies so a remote caller can recover the
// exact sentinel, not just its status class.
const (
	CodeInvalidArgument = "invalid_argument"
	CodeSelfAttack      = "self_attack"
	CodeInvalidState    = "invalid_state"
	CodeNotFound        = "not_found"
	CodeInternal        = "internal"
)

var _ BattleHost = (*gamemaster.Service)(nil)
