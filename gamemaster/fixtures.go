package gamemaster

import (
	"fmt"
	"io"
	"os"

	"throne/game"

	"gopkg.in/yaml.v3"
)

type fixtureFile struct {
	Combatants []game.Combatant `yaml:"combatants"`
}

// LoadCombatants reads seed combatants for a MemoryStore from YAML.
func LoadCombatants(r io.Reader) ([]game.Combatant, error) {
	var f fixtureFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding combatants: %w", err)
	}
	seen := make(map[int]bool, len(f.Combatants))
	for _, c := range f.Combatants {
		if seen[c.ID] {
			return nil, fmt.Errorf("%w: duplicate combatant %d", game.ErrInvalidArgument, c.ID)
		}
		seen[c.ID] = true
	}
	return f.Combatants, nil
}

func LoadCombatantsFile(path string) ([]game.Combatant, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening combatants: %w", err)
	}
	defer file.Close()
	return LoadCombatants(file)
}
