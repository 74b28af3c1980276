package gamemaster

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"throne/engine"
	"throne/game"

	"github.com/google/uuid"
)

// MemoryStore keeps combatants and the battle log in memory. Values are
// copied on the way in and out so callers never share state with the store.
type MemoryStore struct {
	mu         sync.RWMutex
	combatants map[int]game.Combatant
	entries    map[uuid.UUID]LogEntry
	order      []uuid.UUID
}

func NewMemoryStore(combatants ...game.Combatant) *MemoryStore {
	s := &MemoryStore{
		combatants: make(map[int]game.Combatant, len(combatants)),
		entries:    make(map[uuid.UUID]LogEntry),
	}
	for _, c := range combatants {
		s.combatants[c.ID] = c.Clone()
	}
	return s
}

func (s *MemoryStore) Put(c game.Combatant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.combatants[c.ID] = c.Clone()
}

func (s *MemoryStore) Load(ctx context.Context, id int) (game.Combatant, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.combatants[id]
	if !ok {
		return game.Combatant{}, fmt.Errorf("%w: combatant %d", ErrNotFound, id)
	}
	return c.Clone(), nil
}

func (s *MemoryStore) Persist(ctx context.Context, result *engine.BattleResult) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range []game.Combatant{result.Attacker, result.Defender} {
		if _, ok := s.combatants[c.ID]; !ok {
			return fmt.Errorf("%w: combatant %d", ErrNotFound, c.ID)
		}
	}
	s.combatants[result.Attacker.ID] = result.Attacker.Clone()
	s.combatants[result.Defender.ID] = result.Defender.Clone()
	return nil
}

func (s *MemoryStore) Append(ctx context.Context, entry LogEntry) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.entries[entry.ID]; dup {
		return fmt.Errorf("battle %s already logged", entry.ID)
	}
	s.entries[entry.ID] = entry.clone()
	s.order = append(s.order, entry.ID)
	return nil
}

func (s *MemoryStore) Remove(ctx context.Context, id uuid.UUID) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return fmt.Errorf("%w: battle %s", ErrNotFound, id)
	}
	delete(s.entries, id)
	s.order = slices.DeleteFunc(s.order, func(logged uuid.UUID) bool { return logged == id })
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (LogEntry, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	if !ok {
		return LogEntry{}, fmt.Errorf("%w: battle %s", ErrNotFound, id)
	}
	return entry.clone(), nil
}

// List returns every entry in the order they were appended.
func (s *MemoryStore) List(ctx context.Context) ([]LogEntry, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]LogEntry, 0, len(s.order))
	for _, id := range s.order {
		entries = append(entries, s.entries[id].clone())
	}
	return entries, nil
}

func (e LogEntry) clone() LogEntry {
	e.AttackerBefore = e.AttackerBefore.Clone()
	e.DefenderBefore = e.DefenderBefore.Clone()
	if e.Result != nil {
		result := *e.Result
		result.Attacker = result.Attacker.Clone()
		result.Defender = result.Defender.Clone()
		result.Turns = slices.Clone(result.Turns)
		result.Warnings = slices.Clone(result.Warnings)
		e.Result = &result
	}
	return e
}

var (
	_ Loader    = (*MemoryStore)(nil)
	_ Recorder  = (*MemoryStore)(nil)
	_ BattleLog = (*MemoryStore)(nil)
)
