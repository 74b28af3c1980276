package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"throne/game"
)

// RulesConfig is one rule set under test.
type RulesConfig struct {
	ID    int
	Rules *game.StandardRules
}

type MatchupRecord struct {
	ID       int
	Rules    int // RulesConfig.ID
	Name     string
	Attacker int // Combatant.ID
	Defender int // Combatant.ID
	Games    int
	MatchupMetric
}

type BattleRecord struct {
	Matchup int // MatchupRecord.ID
	BattleMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates a timestamped folder for one experiment under root.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteRulesConfigs(configs []RulesConfig) error {
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		r := config.Rules
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			formatFloat(r.Variance.Band),
			string(r.Variance.Distribution),
			formatFloat(r.LoserLossRate),
			formatFloat(r.WinnerLossRate),
			formatFloat(r.MaxLossFraction),
			formatFloat(r.FortDamageRate),
			formatFloat(r.FullPillageRate),
			formatFloat(r.ShieldedPillageRate),
			strconv.FormatBool(r.OverEquip),
		})
	}
	header := []string{"id", "variance_band", "variance_distribution", "loser_loss_rate", "winner_loss_rate",
		"max_loss_fraction", "fort_damage_rate", "pillage_rate", "shielded_pillage_rate", "allow_over_equip"}
	return w.write("rules_configs.csv", header, rows)
}

func (w *Writer) WriteMatchupRecords(records []MatchupRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Rules),
			record.Name,
			strconv.Itoa(record.Attacker),
			strconv.Itoa(record.Defender),
			strconv.Itoa(record.Games),
			formatFloat(record.WinRate()),
			strconv.Itoa(record.Turns),
			strconv.Itoa(record.AttackerTurnWins),
			strconv.Itoa(record.UncontestedTurns),
			strconv.Itoa(record.AttackerLosses),
			strconv.Itoa(record.DefenderLosses),
			strconv.Itoa(record.FortDamage),
			strconv.FormatInt(record.PillagedGold, 10),
			strconv.Itoa(record.Warnings),
			record.Duration.String(),
		})
	}
	header := []string{"id", "rules", "name", "attacker", "defender", "games", "win_rate", "turns",
		"attacker_turn_wins", "uncontested_turns", "attacker_losses", "defender_losses", "fort_damage",
		"pillaged_gold", "warnings", "duration"}
	return w.write("matchup_records.csv", header, rows)
}

func (w *Writer) WriteBattleRecords(records []BattleRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Matchup),
			strconv.FormatUint(record.Seed, 10),
			strconv.Itoa(record.Turns),
			string(record.Outcome),
			strconv.Itoa(record.AttackerTurnWins),
			strconv.Itoa(record.UncontestedTurns),
			strconv.Itoa(record.AttackerLosses),
			strconv.Itoa(record.DefenderLosses),
			strconv.Itoa(record.FortDamage),
			strconv.FormatInt(record.PillagedGold, 10),
			strconv.Itoa(record.Experience),
			record.Duration.String(),
		})
	}
	header := []string{"matchup", "seed", "turns", "outcome", "attacker_turn_wins", "uncontested_turns",
		"attacker_losses", "defender_losses", "fort_damage", "pillaged_gold", "experience", "duration"}
	return w.write("battle_records.csv", header, rows)
}

func (w *Writer) write(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s rows: %w", name, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
