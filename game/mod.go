package game

import "throne/utils"

// UnitType is the kind of population a unit stack holds.
type UnitType string

const (
	Citizen UnitType = "CITIZEN"
	Worker  UnitType = "WORKER"
	Offense UnitType = "OFFENSE"
	Defense UnitType = "DEFENSE"
	Spy     UnitType = "SPY"
	Sentry  UnitType = "SENTRY"
)

// unitOrder fixes the iteration order of unit types so rosters and loss
// breakdowns are deterministic.
var unitOrder = []UnitType{Citizen, Worker, Offense, Defense, Spy, Sentry}

func (t UnitType) Valid() bool {
	return utils.FindIndex(unitOrder, t) >= 0
}

// ItemType is the equipment slot an item occupies. A unit equips at most one
// item of each type.
type ItemType string

const (
	Weapon  ItemType = "WEAPON"
	Armor   ItemType = "ARMOR"
	Helm    ItemType = "HELM"
	Shield  ItemType = "SHIELD"
	Boots   ItemType = "BOOTS"
	Bracers ItemType = "BRACERS"
)

var itemOrder = []ItemType{Weapon, Armor, Helm, Shield, Boots, Bracers}

func (t ItemType) Valid() bool {
	return utils.FindIndex(itemOrder, t) >= 0
}

// Usage names the unit category an item is made for.
type Usage string

const (
	UsageOffense Usage = "OFFENSE"
	UsageDefense Usage = "DEFENSE"
	UsageSpy     Usage = "SPY"
	UsageSentry  Usage = "SENTRY"
)

var usageOrder = []Usage{UsageOffense, UsageDefense, UsageSpy, UsageSentry}

func (u Usage) Valid() bool {
	return utils.FindIndex(usageOrder, u) >= 0
}

// BonusType keys both player proficiency points and race/class bonuses.
type BonusType string

const (
	BonusOffense BonusType = "OFFENSE"
	BonusDefense BonusType = "DEFENSE"
	BonusIncome  BonusType = "INCOME"
	BonusIntel   BonusType = "INTEL"
	BonusPrices  BonusType = "PRICES"
)

var bonusOrder = []BonusType{BonusOffense, BonusDefense, BonusIncome, BonusIntel, BonusPrices}

func (b BonusType) Valid() bool {
	return utils.FindIndex(bonusOrder, b) >= 0
}

// StructureType is an upgradeable building.
type StructureType string

const (
	Armory           StructureType = "ARMORY"
	SpyStructure     StructureType = "SPY"
	SentryStructure  StructureType = "SENTRY"
	OffenseStructure StructureType = "OFFENSE"
	Economy          StructureType = "ECONOMY"
)

var structureOrder = []StructureType{Armory, SpyStructure, SentryStructure, OffenseStructure, Economy}

func (s StructureType) Valid() bool {
	return utils.FindIndex(structureOrder, s) >= 0
}

// Category is the strength being computed.
type Category string

const (
	OffenseCategory Category = "OFFENSE"
	DefenseCategory Category = "DEFENSE"
)

// UnitTypes returns the unit types that fight for the category. Idle
// population garrisons the fort, so defense also counts workers and citizens.
func (c Category) UnitTypes() []UnitType {
	switch c {
	case OffenseCategory:
		return []UnitType{Offense}
	case DefenseCategory:
		return []UnitType{Defense, Worker, Citizen}
	default:
		return nil
	}
}

func (c Category) usage() Usage {
	if c == OffenseCategory {
		return UsageOffense
	}
	return UsageDefense
}

func (c Category) bonus() BonusType {
	if c == OffenseCategory {
		return BonusOffense
	}
	return BonusDefense
}

// Outcome is the overall result of a battle from the attacker's side.
type Outcome string

const (
	AttackerWin Outcome = "ATTACKER_WIN"
	DefenderWin Outcome = "DEFENDER_WIN"
)
