package logic

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/clanwars/cwl-stats/internal/models"
)

const (
	DefaultTrials = 10000
	DefaultShards = 4

	// MaxJitter bounds the symmetric per-trial noise, in stars
	MaxJitter = 0.5
)

// Estimator runs Monte Carlo replays of the remaining attacks.
type Estimator struct {
	Model  StarModel
	Trials int
	Shards int
	// Jitter adds U(-Jitter, +Jitter) to both totals before comparing.
	// Continuous noise makes exact draws impossible, so leave it at 0
	// unless draws should be resolved like a destruction tiebreak.
	Jitter float64
	// Seed 0 seeds from the clock
	Seed int64
}

type tally struct {
	win, draw, loss int
}

// Estimate validates the state, builds a board and simulates it.
func (e *Estimator) Estimate(ctx context.Context, s *models.MatchState) (models.OutcomeEstimate, error) {
	b, _, err := NewBoard(s)
	if err != nil {
		return models.OutcomeEstimate{}, err
	}
	return e.EstimateBoard(ctx, b)
}

// EstimateBoard shards trials across goroutines, each with its own random
// source seeded Seed+shard, and sums the partial counters.
func (e *Estimator) EstimateBoard(ctx context.Context, b *Board) (models.OutcomeEstimate, error) {
	trials := e.TrialCount()
	shards := e.Shards
	if shards <= 0 {
		shards = DefaultShards
	}
	shards = min(shards, trials)

	seed := e.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	selfSlots := attackSlots(b.SelfAttackers, b.SelfAttacksRemaining)
	oppSlots := attackSlots(b.OpponentAttackers, b.OpponentAttacksRemaining)

	partial := make([]tally, shards)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < shards; i++ {
		i := i
		n := trials / shards
		if i < trials%shards {
			n++
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("shard %d: %w", i, err)
			}
			rng := rand.New(rand.NewSource(seed + int64(i)))
			partial[i] = e.runShard(n, rng, b, selfSlots, oppSlots)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.OutcomeEstimate{}, err
	}

	var total tally
	for _, t := range partial {
		total.win += t.win
		total.draw += t.draw
		total.loss += t.loss
	}
	pct := percentages([3]int{total.win, total.draw, total.loss}, trials)
	return models.OpenResult(pct[0], pct[1], pct[2]), nil
}

// TrialCount is the number of trials EstimateBoard will run.
func (e *Estimator) TrialCount() int {
	if e.Trials <= 0 {
		return DefaultTrials
	}
	return e.Trials
}

func (e *Estimator) runShard(n int, rng *rand.Rand, b *Board, selfSlots, oppSlots []int) tally {
	// Buffers are reset from the board each trial
	selfBases := make([]models.Base, len(b.SelfBases))
	oppBases := make([]models.Base, len(b.OpponentBases))
	jitter := min(max(e.Jitter, 0), MaxJitter)

	var t tally
	for trial := 0; trial < n; trial++ {
		copy(selfBases, b.SelfBases)
		copy(oppBases, b.OpponentBases)

		selfTotal := float64(b.SelfStars + e.playSide(rng, selfSlots, oppBases))
		oppTotal := float64(b.OpponentStars + e.playSide(rng, oppSlots, selfBases))
		if jitter > 0 {
			selfTotal += (rng.Float64()*2 - 1) * jitter
			oppTotal += (rng.Float64()*2 - 1) * jitter
		}

		switch {
		case selfTotal > oppTotal:
			t.win++
		case selfTotal < oppTotal:
			t.loss++
		default:
			t.draw++
		}
	}
	return t
}

// playSide spends every slot against bases, stopping early once no base
// offers a positive expected gain.
func (e *Estimator) playSide(rng *rand.Rand, slots []int, bases []models.Base) int {
	gained := 0
	for _, tier := range slots {
		idx, stars := ApplyAttack(e.Model, rng, tier, bases)
		if idx < 0 {
			break
		}
		gained += stars
	}
	return gained
}

// percentages converts counts to one-decimal percentages that sum to
// exactly 100, handing leftover tenths to the largest remainders.
func percentages(counts [3]int, trials int) [3]float64 {
	var out [3]float64
	if trials <= 0 {
		return out
	}
	var tenths, rem [3]int
	assigned := 0
	for i, c := range counts {
		tenths[i] = c * 1000 / trials
		rem[i] = c * 1000 % trials
		assigned += tenths[i]
	}
	for ; assigned < 1000; assigned++ {
		best := 0
		for i := 1; i < len(rem); i++ {
			if rem[i] > rem[best] {
				best = i
			}
		}
		tenths[best]++
		rem[best] = -1
	}
	for i, t := range tenths {
		out[i] = float64(t) / 10
	}
	return out
}
