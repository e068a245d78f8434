package combat

import "github.com/cory-johannsen/conquest/internal/game/dice"

// FleeResult is the outcome of one flee contest.
type FleeResult struct {
	Success     bool
	Roll        int
	Needed      int
	RunnerBonus int
	ChaserBonus int
}

// Percent returns the runner's success chance rounded to the nearest percent.
func (r FleeResult) Percent() int {
	total := r.RunnerBonus + r.ChaserBonus
	return (r.RunnerBonus*100 + total/2) / total
}

// FleeOdds returns the runner and chaser weights for a flee contest.
// The faster side adds (1+|runnerDex-chaserDex|)^2 to its base.
func FleeOdds(runnerDex, chaserDex int) (runner, chaser int) {
	runner, chaser = 2, 1
	diff := runnerDex - chaserDex
	switch {
	case diff > 0:
		runner += (1 + diff) * (1 + diff)
	case diff < 0:
		chaser += (1 - diff) * (1 - diff)
	}
	return runner, chaser
}

// FleeContest rolls uniform [1, runner+chaser]; the runner escapes on a roll
// above the chaser weight.
//
// Postcondition: success probability is runner/(runner+chaser).
func FleeContest(runnerDex, chaserDex int, src dice.Source) FleeResult {
	runner, chaser := FleeOdds(runnerDex, chaserDex)
	roll := dice.Uniform(src, 1, runner+chaser)
	return FleeResult{
		Success:     roll > chaser,
		Roll:        roll,
		Needed:      chaser + 1,
		RunnerBonus: runner,
		ChaserBonus: chaser,
	}
}
