package game

import (
	"cmp"
	"fmt"
	"slices"
)

// StrengthBreakdown lists every factor that went into a strength value.
type StrengthBreakdown struct {
	Category      Category `json:"category"`
	Base          int64    `json:"base"`
	Items         int64    `json:"items"`
	EquippedItems int      `json:"equippedItems"`
	StructurePct  int      `json:"structurePct"`
	RaceClassPct  int      `json:"raceClassPct"`
	BonusPointPct int      `json:"bonusPointPct"`
	FortPct       int      `json:"fortPct"`
	Total         int64    `json:"total"`
}

// Strength computes a combatant's offense or defense power.
func Strength(catalog *Catalog, rules Rules, c Combatant, category Category) (int64, []Warning) {
	b, warnings := ComputeStrength(catalog, rules, c, category)
	return b.Total, warnings
}

// ComputeStrength is Strength with the per-factor breakdown. Catalog misses
// contribute nothing and are reported as warnings.
func ComputeStrength(catalog *Catalog, rules Rules, c Combatant, category Category) (StrengthBreakdown, []Warning) {
	b := StrengthBreakdown{Category: category}
	var warnings []Warning
	warn := func(format string, args ...any) {
		warnings = MergeWarnings(warnings, Warning{
			Kind:        DataIntegrity,
			CombatantID: c.ID,
			Detail:      fmt.Sprintf(format, args...),
		})
	}

	roster := c.Roster()
	types := category.UnitTypes()
	for _, key := range roster.Keys(types...) {
		def, ok := catalog.Unit(key)
		if !ok {
			warn("unit %s not in catalog", key)
			continue
		}
		b.Base += int64(roster[key]) * int64(def.Value)
	}

	b.Items, b.EquippedItems = equipItems(catalog, c.Items, category.usage(), roster.Headcount(types...), rules.AllowOverEquip(), warn)

	for _, st := range structureOrder {
		level := c.Structures[st]
		if level <= 0 {
			continue
		}
		upgrade, ok := catalog.StructureUpgrade(st, level)
		if !ok {
			warn("structure %s level %d not in catalog", st, level)
			continue
		}
		if category == OffenseCategory {
			b.StructurePct += upgrade.OffenseBonus
		} else {
			b.StructurePct += upgrade.DefenseBonus
		}
	}

	if rc, ok := catalog.RaceClassBonus(c.Race, c.Class); !ok {
		warn("no race/class bonus for %s/%s", c.Race, c.Class)
	} else if rc.BonusType == category.bonus() {
		b.RaceClassPct = rc.BonusAmount
	}

	b.BonusPointPct = c.BonusPoints[category.bonus()]

	pct := int64(100 + b.StructurePct + b.RaceClassPct + b.BonusPointPct)
	total := (b.Base + b.Items) * pct
	divisor := int64(100)
	if category == DefenseCategory {
		if fort, ok := catalog.Fortification(c.FortLevel); ok {
			b.FortPct = fort.DefenseBonusPercentage
		} else {
			warn("fortification level %d not in catalog", c.FortLevel)
		}
		total *= int64(100 + b.FortPct)
		divisor *= 100
	}
	b.Total = max(0, total/divisor)
	return b, warnings
}

// equipItems hands out matching items, best first, one item of each type per
// unit. With overEquip the headcount cap is lifted.
func equipItems(catalog *Catalog, items []ItemStack, usage Usage, headcount int, overEquip bool, warn func(string, ...any)) (power int64, equipped int) {
	matching := make([]ItemStack, 0, len(items))
	for _, it := range items {
		if it.Usage == usage && it.Quantity > 0 {
			matching = append(matching, it)
		}
	}
	slices.SortFunc(matching, func(a, b ItemStack) int {
		if c := cmp.Compare(slices.Index(itemOrder, a.Type), slices.Index(itemOrder, b.Type)); c != 0 {
			return c
		}
		return cmp.Compare(b.Level, a.Level)
	})

	free := make(map[ItemType]int, len(itemOrder))
	for _, t := range itemOrder {
		free[t] = headcount
	}
	for _, it := range matching {
		def, ok := catalog.Item(it.Type, it.Level, it.Usage)
		if !ok {
			warn("item %s/%d/%s not in catalog", it.Type, it.Level, it.Usage)
			continue
		}
		n := it.Quantity
		if !overEquip {
			n = min(n, free[it.Type])
			free[it.Type] -= n
		}
		power += int64(n) * int64(def.Value)
		equipped += n
	}
	return power, equipped
}
