package game

import (
	"maps"
	"slices"
)

// UnitStack is a quantity of units of one type and level.
type UnitStack struct {
	Type     UnitType `json:"type" yaml:"type"`
	Level    int      `json:"level" yaml:"level"`
	Quantity int      `json:"quantity" yaml:"quantity"`
}

func (s UnitStack) Key() UnitKey {
	return UnitKey{Type: s.Type, Level: s.Level}
}

// ItemStack is a quantity of items of one type and level made for one usage.
type ItemStack struct {
	Type     ItemType `json:"type" yaml:"type"`
	Level    int      `json:"level" yaml:"level"`
	Quantity int      `json:"quantity" yaml:"quantity"`
	Usage    Usage    `json:"usage" yaml:"usage"`
}

// Combatant is one side's fightable state as of battle start. Values handed
// to the engine are never mutated; the engine works on clones.
type Combatant struct {
	ID            int                   `json:"id" yaml:"id"`
	Level         int                   `json:"level" yaml:"level"`
	Experience    int                   `json:"experience" yaml:"experience"`
	Units         []UnitStack           `json:"units" yaml:"units"`
	Items         []ItemStack           `json:"items" yaml:"items"`
	BonusPoints   map[BonusType]int     `json:"bonusPoints" yaml:"bonusPoints"`
	Structures    map[StructureType]int `json:"structures" yaml:"structures"`
	FortLevel     int                   `json:"fortLevel" yaml:"fortLevel"`
	FortHitpoints int                   `json:"fortHitpoints" yaml:"fortHitpoints"`
	Race          Race                  `json:"race" yaml:"race"`
	Class         Class                 `json:"class" yaml:"class"`
	Gold          int64                 `json:"gold" yaml:"gold"`
	GoldInBank    int64                 `json:"goldInBank" yaml:"goldInBank"`
}

// Clone returns a deep copy sharing no slices or maps with c.
func (c Combatant) Clone() Combatant {
	clone := c
	clone.Units = slices.Clone(c.Units)
	clone.Items = slices.Clone(c.Items)
	clone.BonusPoints = maps.Clone(c.BonusPoints)
	clone.Structures = maps.Clone(c.Structures)
	return clone
}

func (c Combatant) Roster() Roster {
	return NewRoster(c.Units)
}

// ApplyLosses removes losses from the unit stacks. Stacks are kept at zero
// rather than dropped so callers can persist the new count.
func (c *Combatant) ApplyLosses(losses LossBreakdown) {
	for i := range c.Units {
		lost := losses.Get(c.Units[i].Key())
		c.Units[i].Quantity = max(0, c.Units[i].Quantity-lost)
	}
}

// Validate rejects data that cannot be simulated. Catalog misses for units and
// items are not errors; they surface as warnings during strength computation.
func (c Combatant) Validate(catalog *Catalog) error {
	if c.ID <= 0 {
		return invalidState(c.ID, "id must be positive")
	}
	if c.Level < 1 {
		return invalidState(c.ID, "level %d must be at least 1", c.Level)
	}
	if c.Experience < 0 {
		return invalidState(c.ID, "negative experience %d", c.Experience)
	}
	if !c.Race.Valid() {
		return invalidState(c.ID, "unknown race %q", c.Race)
	}
	if !c.Class.Valid() {
		return invalidState(c.ID, "unknown class %q", c.Class)
	}
	if c.Gold < 0 || c.GoldInBank < 0 {
		return invalidState(c.ID, "negative gold (%d on hand, %d banked)", c.Gold, c.GoldInBank)
	}

	seenUnits := make(map[UnitKey]bool, len(c.Units))
	for _, u := range c.Units {
		if !u.Type.Valid() {
			return invalidState(c.ID, "unknown unit type %q", u.Type)
		}
		if u.Level < 1 {
			return invalidState(c.ID, "unit %s has non-positive level", u.Key())
		}
		if u.Quantity < 0 {
			return invalidState(c.ID, "unit %s has negative quantity %d", u.Key(), u.Quantity)
		}
		if seenUnits[u.Key()] {
			return invalidState(c.ID, "duplicate unit stack %s", u.Key())
		}
		seenUnits[u.Key()] = true
	}

	type itemKey struct {
		t     ItemType
		level int
		usage Usage
	}
	seenItems := make(map[itemKey]bool, len(c.Items))
	for _, it := range c.Items {
		if !it.Type.Valid() || !it.Usage.Valid() {
			return invalidState(c.ID, "unknown item %q/%q", it.Type, it.Usage)
		}
		if it.Level < 1 {
			return invalidState(c.ID, "item %s/%d has non-positive level", it.Type, it.Level)
		}
		if it.Quantity < 0 {
			return invalidState(c.ID, "item %s/%d has negative quantity %d", it.Type, it.Level, it.Quantity)
		}
		key := itemKey{it.Type, it.Level, it.Usage}
		if seenItems[key] {
			return invalidState(c.ID, "duplicate item stack %s/%d/%s", it.Type, it.Level, it.Usage)
		}
		seenItems[key] = true
	}

	for bonus, points := range c.BonusPoints {
		if !bonus.Valid() {
			return invalidState(c.ID, "unknown bonus type %q", bonus)
		}
		if points < 0 {
			return invalidState(c.ID, "negative %s bonus points", bonus)
		}
	}
	for structure, level := range c.Structures {
		if !structure.Valid() {
			return invalidState(c.ID, "unknown structure %q", structure)
		}
		if level < 0 {
			return invalidState(c.ID, "negative %s structure level", structure)
		}
	}

	fort, ok := catalog.Fortification(c.FortLevel)
	if !ok {
		return invalidState(c.ID, "unknown fort level %d", c.FortLevel)
	}
	if c.FortHitpoints < 0 || c.FortHitpoints > fort.Hitpoints {
		return invalidState(c.ID, "fort hitpoints %d outside [0, %d]", c.FortHitpoints, fort.Hitpoints)
	}
	return nil
}
