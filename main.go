package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"throne/communication"
	"throne/communication/client"
	"throne/communication/server"
	"throne/engine"
	"throne/experiments"
	"throne/game"
	"throne/gamemaster"
	"throne/meta"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type config struct {
	mode       string
	catalog    string
	rules      string
	combatants string
	addr       string
	remote     string
	attacker   int
	defender   int
	turns      int
	seed       uint64
	games      int
	out        string
	archive    string
	restore    string
	debug      bool
}

func parseFlags() config {
	var cfg config
	flag.StringVar(&cfg.mode, "mode", "attack", "attack, serve, tune or throughput")
	flag.StringVar(&cfg.catalog, "catalog", "", "catalog YAML (defaults to the embedded catalog)")
	flag.StringVar(&cfg.rules, "rules", "", "rules YAML overriding the standard rules")
	flag.StringVar(&cfg.combatants, "combatants", "", "YAML file of combatants to seed the store with")
	flag.StringVar(&cfg.addr, "addr", ":8080", "listen address for serve mode")
	flag.StringVar(&cfg.remote, "remote", "", "battle server URL; attack mode resolves remotely when set")
	flag.IntVar(&cfg.attacker, "attacker", 1, "attacker id")
	flag.IntVar(&cfg.defender, "defender", 2, "defender id")
	flag.IntVar(&cfg.turns, "turns", meta.MAX_TURNS, "turns per attack")
	flag.Uint64Var(&cfg.seed, "seed", 0, "fixed seed (0 draws a fresh seed per battle)")
	flag.IntVar(&cfg.games, "games", meta.GAMES, "battles per tuning matchup")
	flag.StringVar(&cfg.out, "out", "experiments", "output folder for tuning records")
	flag.StringVar(&cfg.archive, "archive", "", "write the battle log to this lz4 archive on exit")
	flag.StringVar(&cfg.restore, "import", "", "load a battle log archive into the store before running")
	flag.BoolVar(&cfg.debug, "debug", false, "log every resolved battle")
	flag.Parse()
	return cfg
}

func main() {
	cfg := parseFlags()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg(cfg.mode + " failed")
	}
}

func run(ctx context.Context, cfg config) error {
	catalog := game.DefaultCatalog()
	if cfg.catalog != "" {
		c, err := game.LoadCatalogFile(cfg.catalog)
		if err != nil {
			return err
		}
		catalog = c
	}
	rules := game.NewStandardRules()
	if cfg.rules != "" {
		r, err := game.LoadRulesFile(cfg.rules)
		if err != nil {
			return err
		}
		rules = r
	}

	switch cfg.mode {
	case "tune":
		return experiments.RunTuningExperiment(ctx, cfg.out, "variance", catalog, experiments.VarianceSweep(rules), experiments.DefaultMatchups(catalog), cfg.games)
	case "throughput":
		_, err := experiments.RunThroughputExperiment(ctx, catalog, rules, experiments.DefaultMatchups(catalog)[0], cfg.games, []int{1, 2, 4, 8, 16})
		return err
	}

	if cfg.mode == "attack" && cfg.remote != "" {
		return attack(ctx, client.NewClient(cfg.remote), cfg)
	}

	options := []engine.Option{engine.WithRules(rules), engine.WithLogger(log.Logger)}
	if cfg.seed != 0 {
		options = append(options, engine.WithSeed(cfg.seed))
	}
	e := engine.New(catalog, options...)

	combatants, err := seedCombatants(catalog, cfg.combatants)
	if err != nil {
		return err
	}
	store := gamemaster.NewMemoryStore(combatants...)
	service := gamemaster.NewService(e, store, store, store)
	if cfg.restore != "" {
		if err := importArchive(ctx, service, cfg.restore); err != nil {
			return err
		}
	}
	if cfg.archive != "" {
		defer writeArchive(service, cfg.archive)
	}

	switch cfg.mode {
	case "attack":
		return attack(ctx, service, cfg)
	case "serve":
		return server.NewServer(service).Start(ctx, cfg.addr)
	default:
		return fmt.Errorf("unknown mode %q", cfg.mode)
	}
}

func seedCombatants(catalog *game.Catalog, path string) ([]game.Combatant, error) {
	if path != "" {
		return gamemaster.LoadCombatantsFile(path)
	}
	var combatants []game.Combatant
	for _, m := range experiments.DefaultMatchups(catalog) {
		combatants = append(combatants, m.Attacker, m.Defender)
	}
	return combatants, nil
}

func attack(ctx context.Context, host communication.BattleHost, cfg config) error {
	entry, err := host.Attack(ctx, cfg.attacker, cfg.defender, cfg.turns)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func importArchive(ctx context.Context, service *gamemaster.Service, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()
	n, err := service.Import(ctx, f)
	if err != nil {
		return fmt.Errorf("importing %s: %w", path, err)
	}
	log.Info().Msgf("imported %d battles from %s", n, path)
	return nil
}

func writeArchive(service *gamemaster.Service, path string) {
	f, err := os.Create(path)
	if err != nil {
		log.Error().Err(err).Msg("creating archive")
		return
	}
	defer f.Close()
	if err := service.Export(context.Background(), f); err != nil {
		log.Error().Err(err).Msg("writing archive")
		return
	}
	log.Info().Msgf("battle log archived to %s", path)
}
