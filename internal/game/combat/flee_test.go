package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/conquest/internal/game/combat"
)

func TestFleeOdds(t *testing.T) {
	cases := []struct {
		runner, chaser int
		wantR, wantC   int
	}{
		{5, 2, 18, 1},
		{2, 5, 2, 17},
		{3, 3, 2, 1},
		{0, 1, 2, 5},
	}
	for _, tc := range cases {
		r, c := combat.FleeOdds(tc.runner, tc.chaser)
		assert.Equal(t, tc.wantR, r)
		assert.Equal(t, tc.wantC, c)
	}
}

func TestFleeContest_FasterRunner(t *testing.T) {
	caught := combat.FleeContest(5, 2, fixed(0))
	assert.False(t, caught.Success)
	assert.Equal(t, 1, caught.Roll)
	assert.Equal(t, 2, caught.Needed)
	assert.Equal(t, 95, caught.Percent())

	escaped := combat.FleeContest(5, 2, fixed(1))
	assert.True(t, escaped.Success)
	assert.Equal(t, 2, escaped.Roll)
}

func TestFleeContest_EvenOdds(t *testing.T) {
	assert.Equal(t, 67, combat.FleeContest(0, 0, fixed(0)).Percent())
}

func TestFleeContest_ProbabilityMatchesWeights(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		runnerDex := rapid.IntRange(0, 15).Draw(rt, "runnerDex")
		chaserDex := rapid.IntRange(0, 15).Draw(rt, "chaserDex")

		runner, chaser := combat.FleeOdds(runnerDex, chaserDex)
		wins := 0
		for r := 0; r < runner+chaser; r++ {
			res := combat.FleeContest(runnerDex, chaserDex, fixed(r))
			assert.GreaterOrEqual(rt, res.Roll, 1)
			assert.LessOrEqual(rt, res.Roll, runner+chaser)
			if res.Success {
				wins++
			}
		}
		assert.Equal(rt, runner, wins)
	})
}
