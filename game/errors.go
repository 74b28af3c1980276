package game

import (
	"errors"
	"fmt"

	"throne/utils"
)

var (
	// ErrInvalidArgument rejects a request before any simulation: turn count out
	// of range or required data missing.
	ErrInvalidArgument = errors.New("game: invalid argument")
	// ErrInvalidState rejects persisted combatant data that cannot be simulated.
	ErrInvalidState = errors.New("game: invalid state")
)

func invalidState(id int, format string, args ...any) error {
	return fmt.Errorf("%w: combatant %d: %s", ErrInvalidState, id, fmt.Sprintf(format, args...))
}

// WarningKind classifies non-fatal findings reported alongside a result.
type WarningKind string

const DataIntegrity WarningKind = "DATA_INTEGRITY"

// Warning is a non-fatal issue found while computing strength, such as a unit
// or item that is missing from the catalog. The offending stack contributes
// nothing and the battle still resolves.
type Warning struct {
	Kind        WarningKind `json:"kind" yaml:"kind"`
	CombatantID int         `json:"combatantId" yaml:"combatantId"`
	Detail      string      `json:"detail" yaml:"detail"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: combatant %d: %s", w.Kind, w.CombatantID, w.Detail)
}

// MergeWarnings appends the warnings in add that are not already in dst.
func MergeWarnings(dst []Warning, add ...Warning) []Warning {
	for _, w := range add {
		if utils.FindIndex(dst, w) < 0 {
			dst = append(dst, w)
		}
	}
	return dst
}
