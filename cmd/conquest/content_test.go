package main

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/conquest/internal/config"
	"github.com/cory-johannsen/conquest/internal/game/board"
	"github.com/cory-johannsen/conquest/internal/game/catalog"
	"github.com/cory-johannsen/conquest/internal/game/combat"
	"github.com/cory-johannsen/conquest/internal/game/dice"
	"github.com/cory-johannsen/conquest/internal/game/party"
	"github.com/cory-johannsen/conquest/internal/scripting"
)

// The shipped config and content must load and play out.
func TestShippedContent(t *testing.T) {
	cfg, err := config.Load("../../configs/dev.yaml")
	require.NoError(t, err)
	root := "../../"

	cat, err := catalog.Load(catalog.Dirs{
		Creatures:  root + cfg.Content.CreaturesDir,
		Spells:     root + cfg.Content.SpellsDir,
		Lands:      root + cfg.Content.LandsDir,
		Evolutions: root + cfg.Content.EvolutionsDir,
	})
	require.NoError(t, err)

	b, err := board.LoadFromFile(root + cfg.Content.BoardFile)
	require.NoError(t, err)
	players, err := party.LoadRoster(root+cfg.Content.PlayersFile, cat)
	require.NoError(t, err)
	require.Len(t, players, 2)

	logger := zaptest.NewLogger(t)
	src := dice.NewSeededSource(7)
	scripts, err := loadScripts(root+cfg.Content.ScriptsDir, cfg.Combat.ScriptInstructionLimit, src, logger)
	require.NoError(t, err)
	t.Cleanup(scripts.Close)

	r := &runner{
		engine:   combat.NewEngine(cat, b, src, combat.WithLogger(logger), combat.WithPlayers(players...), combat.WithScripts(scripts)),
		board:    b,
		attacker: players[0],
		logger:   logger,
		out:      io.Discard,
		turns:    2,
	}
	require.NoError(t, r.Run(context.Background()))
	assert.NotEqual(t, combat.PhaseCombat, r.engine.Phase(), "no encounter is left open")
}

func TestShippedScripts_SwampHoldsThenDefers(t *testing.T) {
	scripts, err := loadScripts("../../content/scripts", 0, dice.NewSeededSource(7), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(scripts.Close)

	flee, decided := scripts.ShouldFlee("Swamp", scripting.DefenderInfo{Name: "Bog Troll", HP: 20, MaxHP: 40, Bravery: 2})
	assert.True(t, decided)
	assert.False(t, flee)

	_, decided = scripts.ShouldFlee("Swamp", scripting.DefenderInfo{Name: "Bog Troll", HP: 5, MaxHP: 40, Bravery: 2})
	assert.False(t, decided, "a badly hurt swamp defender falls back to the built-in rule")

	flee, decided = scripts.ShouldFlee("Forest", scripting.DefenderInfo{Name: "Goblin", HP: 5, MaxHP: 40, Bravery: 2})
	assert.True(t, decided)
	assert.True(t, flee)
}
