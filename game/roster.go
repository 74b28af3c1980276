package game

import (
	"cmp"
	"fmt"
	"slices"

	"throne/utils"
)

// UnitKey identifies a unit stack. A roster holds at most one stack per key.
type UnitKey struct {
	Type  UnitType `json:"type" yaml:"type"`
	Level int      `json:"level" yaml:"level"`
}

func (k UnitKey) String() string {
	return fmt.Sprintf("%s/%d", k.Type, k.Level)
}

func compareKeys(a, b UnitKey) int {
	if c := cmp.Compare(utils.FindIndex(unitOrder, a.Type), utils.FindIndex(unitOrder, b.Type)); c != 0 {
		return c
	}
	return cmp.Compare(a.Level, b.Level)
}

// Roster is a working copy of unit quantities keyed by (type, level).
type Roster map[UnitKey]int

func NewRoster(stacks []UnitStack) Roster {
	r := make(Roster, len(stacks))
	for _, s := range stacks {
		r[s.Key()] += s.Quantity
	}
	return r
}

// Keys returns the keys of non-empty stacks of the given types in
// deterministic order. With no types, every non-empty stack is returned.
func (r Roster) Keys(types ...UnitType) []UnitKey {
	keys := make([]UnitKey, 0, len(r))
	for key, qty := range r {
		if qty <= 0 {
			continue
		}
		if len(types) > 0 && utils.FindIndex(types, key.Type) < 0 {
			continue
		}
		keys = append(keys, key)
	}
	slices.SortFunc(keys, compareKeys)
	return keys
}

// Headcount sums the quantities of the given types (all types when none given).
func (r Roster) Headcount(types ...UnitType) int {
	total := 0
	for _, key := range r.Keys(types...) {
		total += r[key]
	}
	return total
}

// Remove subtracts losses, never taking a stack below zero.
func (r Roster) Remove(losses LossBreakdown) {
	for _, l := range losses.Units {
		r[l.UnitKey] = max(0, r[l.UnitKey]-l.Quantity)
	}
}

// UnitLoss is the number of units lost from one stack.
type UnitLoss struct {
	UnitKey  `yaml:",inline"`
	Quantity int `json:"quantity" yaml:"quantity"`
}

// LossBreakdown lists losses per unit key in deterministic order. Total is
// always the sum of the entries.
type LossBreakdown struct {
	Units []UnitLoss `json:"units" yaml:"units"`
	Total int        `json:"total" yaml:"total"`
}

func (lb *LossBreakdown) Add(key UnitKey, quantity int) {
	if quantity <= 0 {
		return
	}
	i, found := slices.BinarySearchFunc(lb.Units, key, func(l UnitLoss, k UnitKey) int {
		return compareKeys(l.UnitKey, k)
	})
	if found {
		lb.Units[i].Quantity += quantity
	} else {
		lb.Units = slices.Insert(lb.Units, i, UnitLoss{UnitKey: key, Quantity: quantity})
	}
	lb.Total += quantity
}

// Merge accumulates other into lb, summing entries for the same key.
func (lb *LossBreakdown) Merge(other LossBreakdown) {
	for _, l := range slices.Clone(other.Units) {
		lb.Add(l.UnitKey, l.Quantity)
	}
}

func (lb LossBreakdown) Get(key UnitKey) int {
	for _, l := range lb.Units {
		if l.UnitKey == key {
			return l.Quantity
		}
	}
	return 0
}
