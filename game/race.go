package game

import "throne/utils"

type Race string

const (
	Human  Race = "HUMAN"
	Elf    Race = "ELF"
	Goblin Race = "GOBLIN"
	Undead Race = "UNDEAD"
)

var races = []Race{Human, Elf, Goblin, Undead}

func (r Race) Valid() bool {
	return utils.FindIndex(races, r) >= 0
}

// themes maps each race to the colour scheme its players see.
var themes = map[Race]string{
	Human:  "ALLIANCE",
	Elf:    "ELF",
	Goblin: "GOBLIN",
	Undead: "UNDEAD",
}

// Theme returns the race's colour scheme, or "" for an unknown race.
func (r Race) Theme() string {
	return themes[r]
}

type Class string

const (
	Fighter  Class = "FIGHTER"
	Cleric   Class = "CLERIC"
	Thief    Class = "THIEF"
	Assassin Class = "ASSASSIN"
)

var classes = []Class{Fighter, Cleric, Thief, Assassin}

func (c Class) Valid() bool {
	return utils.FindIndex(classes, c) >= 0
}
