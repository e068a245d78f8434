// Package main runs a conquest combat session from the command line: it
// loads the catalog, board and roster, then plays one attacker through a
// number of turns against the combat engine.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/conquest/internal/config"
	"github.com/cory-johannsen/conquest/internal/game/board"
	"github.com/cory-johannsen/conquest/internal/game/catalog"
	"github.com/cory-johannsen/conquest/internal/game/combat"
	"github.com/cory-johannsen/conquest/internal/game/dice"
	"github.com/cory-johannsen/conquest/internal/game/party"
	"github.com/cory-johannsen/conquest/internal/observability"
	"github.com/cory-johannsen/conquest/internal/scripting"
	"github.com/cory-johannsen/conquest/internal/server"
	"github.com/cory-johannsen/conquest/internal/storage/postgres"
	"github.com/cory-johannsen/conquest/internal/storage/redis"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	attackerID := flag.String("attacker", "", "roster id of the attacking player; empty = first player")
	targets := flag.String("targets", "", "comma-separated square indices to attack each turn; empty = every square")
	turns := flag.Int("turns", 1, "number of turns to play")
	fleeBelow := flag.Int("flee-below", 0, "attacker tries to flee under this HP percentage; 0 = never")
	asJSON := flag.Bool("json", false, "print combat log entries as JSON lines")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	squares, err := parseTargets(*targets)
	if err != nil {
		logger.Fatal("parsing targets", zap.Error(err))
	}
	if *turns < 1 {
		logger.Fatal("turns must be >= 1", zap.Int("turns", *turns))
	}

	catStart := time.Now()
	cat, err := catalog.Load(catalog.Dirs{
		Creatures:  cfg.Content.CreaturesDir,
		Spells:     cfg.Content.SpellsDir,
		Lands:      cfg.Content.LandsDir,
		Evolutions: cfg.Content.EvolutionsDir,
	})
	if err != nil {
		logger.Fatal("loading catalog", zap.Error(err))
	}
	logger.Info("catalog loaded", zap.Duration("elapsed", time.Since(catStart)))

	players, err := party.LoadRoster(cfg.Content.PlayersFile, cat)
	if err != nil {
		logger.Fatal("loading roster", zap.Error(err))
	}
	attacker, err := pickAttacker(players, *attackerID)
	if err != nil {
		logger.Fatal("selecting attacker", zap.Error(err))
	}

	lc := server.NewLifecycle(logger)
	run := &runner{
		attacker:  attacker,
		logger:    logger,
		out:       os.Stdout,
		targets:   squares,
		turns:     *turns,
		fleeBelow: *fleeBelow,
		asJSON:    *asJSON,
	}

	var b *board.Board
	if cfg.Database.Enabled {
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		lc.AddCloser("postgres", pool.Close)
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		territories := postgres.NewTerritoryRepository(pool.DB())
		b, err = loadOrSeedBoard(ctx, territories, cfg.Content.BoardFile)
		if err != nil {
			logger.Fatal("loading board", zap.Error(err))
		}
		run.territories = territories
		run.encounters = postgres.NewEncounterRepository(pool.DB())
	} else {
		b, err = board.LoadFromFile(cfg.Content.BoardFile)
		if err != nil {
			logger.Fatal("loading board", zap.Error(err))
		}
	}
	logger.Info("board loaded", zap.Int("squares", b.Len()))

	if cfg.Redis.Enabled {
		client, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal("connecting to redis", zap.Error(err))
		}
		lc.AddCloser("redis", func() { _ = client.Close() })
		run.snapshots = redis.NewEncounterStore(client, cfg.Redis.SnapshotTTL, logger)
		logger.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	}

	var src dice.Source
	if cfg.Combat.Seed != 0 {
		src = dice.NewSeededSource(cfg.Combat.Seed)
		logger.Info("using seeded dice", zap.Uint64("seed", cfg.Combat.Seed))
	} else {
		src = dice.NewCryptoSource()
	}

	opts := []combat.Option{
		combat.WithLogger(logger),
		combat.WithPlayers(players...),
	}
	if cfg.Content.ScriptsDir != "" {
		scripts, err := loadScripts(cfg.Content.ScriptsDir, cfg.Combat.ScriptInstructionLimit, src, logger)
		if err != nil {
			logger.Fatal("loading scripts", zap.Error(err))
		}
		lc.AddCloser("scripts", scripts.Close)
		opts = append(opts, combat.WithScripts(scripts))
	}

	run.engine = combat.NewEngine(cat, b, src, opts...)
	run.board = b
	lc.Add("simulation", run)

	logger.Info("session ready",
		zap.String("attacker", attacker.Name),
		zap.Int("players", len(players)),
		zap.Int("turns", *turns),
		zap.Duration("startup", time.Since(start)),
	)
	if err := lc.Run(ctx); err != nil {
		logger.Fatal("session failed", zap.Error(err))
	}
}

// parseTargets reads a comma-separated list of square indices.
func parseTargets(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid square index %q: %w", part, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("square index must be >= 0, got %d", n)
		}
		out = append(out, n)
	}
	return out, nil
}

func pickAttacker(players []*party.Player, id string) (*party.Player, error) {
	if id == "" {
		return players[0], nil
	}
	for _, p := range players {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("no player with id %q in roster", id)
}

// boardStore is the subset of the territory repository used at startup.
type boardStore interface {
	LoadBoard(ctx context.Context) (*board.Board, error)
	SaveBoard(ctx context.Context, b *board.Board) error
}

// loadOrSeedBoard returns the stored board, seeding the store from path on first run.
func loadOrSeedBoard(ctx context.Context, store boardStore, path string) (*board.Board, error) {
	b, err := store.LoadBoard(ctx)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, postgres.ErrTerritoryNotFound) {
		return nil, err
	}
	b, err = board.LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	if err := store.SaveBoard(ctx, b); err != nil {
		return nil, fmt.Errorf("seeding territories: %w", err)
	}
	return b, nil
}

// loadScripts loads dir as the global scope and each subdirectory as the
// scope of the land type with that name.
func loadScripts(dir string, limit int, src dice.Source, logger *zap.Logger) (*scripting.Manager, error) {
	mgr := scripting.NewManager(dice.NewLoggedRoller(src, logger), logger)
	if err := mgr.LoadGlobal(dir, limit); err != nil {
		mgr.Close()
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		mgr.Close()
		return nil, fmt.Errorf("reading scripts dir %q: %w", dir, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := mgr.LoadScope(e.Name(), filepath.Join(dir, e.Name()), limit); err != nil {
			mgr.Close()
			return nil, err
		}
		logger.Info("loaded land script scope", zap.String("land", e.Name()))
	}
	return mgr, nil
}
