package game

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

type UnitDef struct {
	Type  UnitType `yaml:"type"`
	Level int      `yaml:"level"`
	Name  string   `yaml:"name"`
	Value int      `yaml:"value"`
	Cost  int      `yaml:"cost"`
}

type ItemDef struct {
	Type        ItemType `yaml:"type"`
	Level       int      `yaml:"level"`
	Usage       Usage    `yaml:"usage"`
	Name        string   `yaml:"name"`
	Value       int      `yaml:"value"`
	Cost        int      `yaml:"cost"`
	ArmoryLevel int      `yaml:"armoryLevel"`
}

type Fortification struct {
	Level                  int    `yaml:"level"`
	Name                   string `yaml:"name"`
	LevelRequirement       int    `yaml:"levelRequirement"`
	GoldPerTurn            int    `yaml:"goldPerTurn"`
	DefenseBonusPercentage int    `yaml:"defenseBonusPercentage"`
	Hitpoints              int    `yaml:"hitpoints"`
	Cost                   int    `yaml:"cost"`
}

// StructureUpgrade is the battle bonus unlocked by one level of a structure.
// Bonuses are percentages.
type StructureUpgrade struct {
	Type         StructureType `yaml:"type"`
	Level        int           `yaml:"level"`
	Name         string        `yaml:"name"`
	OffenseBonus int           `yaml:"offenseBonus"`
	DefenseBonus int           `yaml:"defenseBonus"`
}

type RaceClassBonus struct {
	Race        Race      `yaml:"race"`
	Class       Class     `yaml:"class"`
	BonusType   BonusType `yaml:"bonusType"`
	BonusAmount int       `yaml:"bonusAmount"`
}

// LevelRow is the total experience needed to reach a level.
type LevelRow struct {
	Level      int `yaml:"level"`
	Experience int `yaml:"experience"`
}

// LevelCurve maps between levels and cumulative experience.
type LevelCurve interface {
	ExperienceFor(level int) (int, bool)
	LevelFor(experience int) int
	MaxLevel() int
}

type catalogFile struct {
	Units            []UnitDef          `yaml:"units"`
	Items            []ItemDef          `yaml:"items"`
	Fortifications   []Fortification    `yaml:"fortifications"`
	Structures       []StructureUpgrade `yaml:"structures"`
	RaceClassBonuses []RaceClassBonus   `yaml:"raceClassBonuses"`
	Levels           []LevelRow         `yaml:"levels"`
}

type itemDefKey struct {
	t     ItemType
	level int
	usage Usage
}

type structureKey struct {
	t     StructureType
	level int
}

type raceClassKey struct {
	race  Race
	class Class
}

// Catalog holds the static reference tables. It is never modified after
// NewCatalog returns and is safe to share between goroutines.
type Catalog struct {
	units      map[UnitKey]UnitDef
	items      map[itemDefKey]ItemDef
	forts      map[int]Fortification
	structures map[structureKey]StructureUpgrade
	raceClass  map[raceClassKey]RaceClassBonus
	levels     []LevelRow
}

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// DefaultCatalog returns the catalog shipped with the binary.
func DefaultCatalog() *Catalog {
	c, err := LoadCatalog(bytes.NewReader(defaultCatalogYAML))
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

func LoadCatalog(r io.Reader) (*Catalog, error) {
	var f catalogFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: decoding catalog: %v", ErrInvalidArgument, err)
	}
	return NewCatalog(f.Units, f.Items, f.Fortifications, f.Structures, f.RaceClassBonuses, f.Levels)
}

func LoadCatalogFile(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer file.Close()
	return LoadCatalog(file)
}

func NewCatalog(
	units []UnitDef,
	items []ItemDef,
	forts []Fortification,
	structures []StructureUpgrade,
	bonuses []RaceClassBonus,
	levels []LevelRow,
) (*Catalog, error) {
	c := &Catalog{
		units:      make(map[UnitKey]UnitDef, len(units)),
		items:      make(map[itemDefKey]ItemDef, len(items)),
		forts:      make(map[int]Fortification, len(forts)),
		structures: make(map[structureKey]StructureUpgrade, len(structures)),
		raceClass:  make(map[raceClassKey]RaceClassBonus, len(bonuses)),
	}

	for _, u := range units {
		key := UnitKey{Type: u.Type, Level: u.Level}
		if !u.Type.Valid() || u.Value < 0 {
			return nil, fmt.Errorf("%w: catalog unit %s", ErrInvalidArgument, key)
		}
		if _, dup := c.units[key]; dup {
			return nil, fmt.Errorf("%w: duplicate catalog unit %s", ErrInvalidArgument, key)
		}
		c.units[key] = u
	}
	for _, it := range items {
		key := itemDefKey{it.Type, it.Level, it.Usage}
		if !it.Type.Valid() || !it.Usage.Valid() || it.Value < 0 {
			return nil, fmt.Errorf("%w: catalog item %s/%d/%s", ErrInvalidArgument, it.Type, it.Level, it.Usage)
		}
		if _, dup := c.items[key]; dup {
			return nil, fmt.Errorf("%w: duplicate catalog item %s/%d/%s", ErrInvalidArgument, it.Type, it.Level, it.Usage)
		}
		c.items[key] = it
	}
	for _, f := range forts {
		if _, dup := c.forts[f.Level]; dup {
			return nil, fmt.Errorf("%w: duplicate fortification level %d", ErrInvalidArgument, f.Level)
		}
		if f.Hitpoints <= 0 {
			return nil, fmt.Errorf("%w: fortification level %d has no hitpoints", ErrInvalidArgument, f.Level)
		}
		c.forts[f.Level] = f
	}
	if _, ok := c.forts[1]; !ok {
		return nil, fmt.Errorf("%w: catalog has no level 1 fortification", ErrInvalidArgument)
	}
	for _, s := range structures {
		key := structureKey{s.Type, s.Level}
		if !s.Type.Valid() {
			return nil, fmt.Errorf("%w: catalog structure %q", ErrInvalidArgument, s.Type)
		}
		if _, dup := c.structures[key]; dup {
			return nil, fmt.Errorf("%w: duplicate structure upgrade %s/%d", ErrInvalidArgument, s.Type, s.Level)
		}
		c.structures[key] = s
	}
	for _, b := range bonuses {
		key := raceClassKey{b.Race, b.Class}
		if !b.Race.Valid() || !b.Class.Valid() || !b.BonusType.Valid() {
			return nil, fmt.Errorf("%w: race/class bonus %s/%s", ErrInvalidArgument, b.Race, b.Class)
		}
		if _, dup := c.raceClass[key]; dup {
			return nil, fmt.Errorf("%w: duplicate race/class bonus %s/%s", ErrInvalidArgument, b.Race, b.Class)
		}
		c.raceClass[key] = b
	}

	c.levels = slices.Clone(levels)
	slices.SortFunc(c.levels, func(a, b LevelRow) int { return a.Level - b.Level })
	for i, row := range c.levels {
		if row.Level != i+1 {
			return nil, fmt.Errorf("%w: level curve must be contiguous from 1, got level %d", ErrInvalidArgument, row.Level)
		}
		if i > 0 && row.Experience <= c.levels[i-1].Experience {
			return nil, fmt.Errorf("%w: level curve not increasing at level %d", ErrInvalidArgument, row.Level)
		}
	}
	if len(c.levels) < 2 {
		return nil, fmt.Errorf("%w: level curve needs at least two levels", ErrInvalidArgument)
	}

	return c, nil
}

func (c *Catalog) Unit(key UnitKey) (UnitDef, bool) {
	u, ok := c.units[key]
	return u, ok
}

func (c *Catalog) Item(t ItemType, level int, usage Usage) (ItemDef, bool) {
	it, ok := c.items[itemDefKey{t, level, usage}]
	return it, ok
}

func (c *Catalog) Fortification(level int) (Fortification, bool) {
	f, ok := c.forts[level]
	return f, ok
}

// StructureUpgrade returns the row for a structure at its current level.
// Level 0 means unbuilt and has no row.
func (c *Catalog) StructureUpgrade(t StructureType, level int) (StructureUpgrade, bool) {
	s, ok := c.structures[structureKey{t, level}]
	return s, ok
}

func (c *Catalog) RaceClassBonus(race Race, class Class) (RaceClassBonus, bool) {
	b, ok := c.raceClass[raceClassKey{race, class}]
	return b, ok
}

func (c *Catalog) ExperienceFor(level int) (int, bool) {
	if level < 1 || level > len(c.levels) {
		return 0, false
	}
	return c.levels[level-1].Experience, true
}

// LevelFor returns the highest level whose threshold experience has reached.
func (c *Catalog) LevelFor(experience int) int {
	i, found := slices.BinarySearchFunc(c.levels, experience, func(row LevelRow, xp int) int {
		return row.Experience - xp
	})
	if found {
		return c.levels[i].Level
	}
	return max(1, i)
}

func (c *Catalog) MaxLevel() int {
	return len(c.levels)
}
