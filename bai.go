// bai.go
// Copyright (C) 2026 Kjell Haugen
// This file contains the best-arm-identification controller that
// drives simulation sampling and decides when to stop.

/*

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.

*/

package skrafl

import (
	"math"

	"github.com/op/go-logging"
	"gonum.org/v1/gonum/stat/distuv"
)

var logBAI = logging.MustGetLogger("skrafl/bai")

// SamplingRule selects which arm(s) receive the next batch of simulation
// iterations.
type SamplingRule int

const (
	// RoundRobin gives every non-ignored, non-epigon arm an equal share of
	// iterations, cycling in play order.
	RoundRobin SamplingRule = iota
	// TopTwo samples both the current leader and its closest competitor by
	// win-pct mean on every iteration; it makes no random choice between
	// the two.
	TopTwo
)

// StopReason mirrors ControlStatus's stop-related members, returned by
// BAIController.CheckStop so callers don't need to reach into ThreadControl.
type StopReason = ControlStatus

// BAIControllerConfig bundles the knobs governing when a best-arm-
// identification run halts and how confident its Threshold test must be.
type BAIControllerConfig struct {
	Rule           SamplingRule
	SampleLimit    uint64
	Timeout        float64 // seconds
	Confidence     float64 // e.g. 0.95
	MinSamplesEach uint64  // minimum samples per arm before Threshold applies
}

// BAIController runs the round-robin/top-two sampling loop over a
// SimResults, marking arms ignored or epigon and evaluating the four
// stopping conditions from spec.md §4.10-4.11. There is no teacher
// equivalent for multi-armed bandit control; its shape follows
// ThreadControl's atomic-status design and borrows gonum's normal
// distribution quantile (as used for combinatorial counting via
// gonum.org/v1/gonum/stat/combin elsewhere in the example pack) for the
// Threshold stop's z-test.
type BAIController struct {
	cfg     BAIControllerConfig
	control *ThreadControl
	results *SimResults
	ld      *LetterDistribution

	rrCursor int
}

func NewBAIController(cfg BAIControllerConfig, control *ThreadControl, results *SimResults, ld *LetterDistribution) *BAIController {
	return &BAIController{cfg: cfg, control: control, results: results, ld: ld}
}

// NextArms returns the arm indices that should receive the next iteration's
// simulation, per the configured sampling rule. Ignored and epigon arms are
// skipped; an empty result means no arm currently qualifies.
func (c *BAIController) NextArms() []int {
	c.results.mu.Lock()
	defer c.results.mu.Unlock()

	active := make([]int, 0, len(c.results.Plays))
	for i, p := range c.results.Plays {
		p.mu.Lock()
		skip := p.Ignored || p.Epigon
		p.mu.Unlock()
		if !skip {
			active = append(active, i)
		}
	}
	if len(active) == 0 {
		return nil
	}

	switch c.cfg.Rule {
	case TopTwo:
		if len(active) == 1 {
			return active
		}
		best, second := c.leaderAndRunnerUp(active)
		return []int{best, second}
	default: // RoundRobin
		idx := active[c.rrCursor%len(active)]
		c.rrCursor++
		return []int{idx}
	}
}

func (c *BAIController) leaderAndRunnerUp(active []int) (int, int) {
	best, second := active[0], active[0]
	bestMean, secondMean := math.Inf(-1), math.Inf(-1)
	for _, i := range active {
		p := c.results.Plays[i]
		p.mu.Lock()
		m := p.WinPct.Mean()
		p.mu.Unlock()
		if m > bestMean {
			second, secondMean = best, bestMean
			best, bestMean = i, m
		} else if m > secondMean {
			second, secondMean = i, m
		}
	}
	if second == best && len(active) > 1 {
		for _, i := range active {
			if i != best {
				second = i
				break
			}
		}
	}
	return best, second
}

// MarkEpigons flags every arm that is an "epigon" of a higher-ranked arm
// already seen: same direction, same start square, and the same multiset of
// placed tiles with blanks unblanked (spec.md §4.10's plays-are-similar
// predicate). Epigons are excluded from further sampling but remain in the
// results for reporting.
func (c *BAIController) MarkEpigons() {
	c.results.mu.Lock()
	defer c.results.mu.Unlock()
	marked := 0
	defer func() {
		if marked > 0 {
			logBAI.Debugf("marked %d epigon arm(s)", marked)
		}
	}()
	plays := c.results.Plays
	for i := 1; i < len(plays); i++ {
		for j := 0; j < i; j++ {
			pj := plays[j]
			pj.mu.Lock()
			epigonJ := pj.Epigon
			pj.mu.Unlock()
			if epigonJ {
				continue
			}
			if playsAreSimilar(plays[i].Move, pj.Move) {
				plays[i].mu.Lock()
				plays[i].Epigon = true
				plays[i].mu.Unlock()
				marked++
				break
			}
		}
	}
}

// playsAreSimilar implements the epigon predicate: same move type,
// direction, and anchor position, with identical placed-tile multisets once
// blanks are unblanked to their assigned letter (so "the same tile played
// blank or not" does not count as a distinct play).
func playsAreSimilar(a, b *Move) bool {
	if a.Type != b.Type || a.Dir != b.Dir || a.Row != b.Row || a.Col != b.Col {
		return false
	}
	if len(a.Tiles) != len(b.Tiles) {
		return false
	}
	var ca, cb [256]int
	for _, t := range a.Tiles {
		ca[unblank(t)]++
	}
	for _, t := range b.Tiles {
		cb[unblank(t)]++
	}
	return ca == cb
}

func unblank(t MachineLetter) MachineLetter {
	if t.IsBlanked() {
		return t.Unblank()
	}
	return t
}

// CheckStop evaluates the four stopping conditions in priority order:
// SampleLimit, Timeout, OneArmRemaining, then Threshold. It returns
// StatusStarted if none has fired yet.
func (c *BAIController) CheckStop() StopReason {
	if c.cfg.SampleLimit > 0 && c.control.IterCount() >= c.cfg.SampleLimit {
		logBAI.Debugf("stopping: sample limit %d reached", c.cfg.SampleLimit)
		return StatusSampleLimit
	}
	if c.cfg.Timeout > 0 && c.control.SecondsElapsed() >= c.cfg.Timeout {
		logBAI.Debugf("stopping: time limit reached after %.2fs", c.control.SecondsElapsed())
		return StatusTimeout
	}

	c.results.mu.Lock()
	active := 0
	for _, p := range c.results.Plays {
		p.mu.Lock()
		skip := p.Ignored || p.Epigon
		p.mu.Unlock()
		if !skip {
			active++
		}
	}
	c.results.mu.Unlock()
	if active <= 1 {
		logBAI.Debugf("stopping: %d active arm(s) remaining", active)
		return StatusOneArmRemaining
	}

	if c.thresholdSatisfied() {
		logBAI.Infof("stopping: leader cleared the %.0f%% confidence threshold", c.cfg.Confidence*100)
		return StatusThreshold
	}
	return StatusStarted
}

// thresholdSatisfied runs the confidence test behind the Threshold stop:
// the leader is confirmed once its mean minus z*stderr exceeds every other
// non-ignored arm's mean plus z*stderr, where z is the standard normal
// quantile at the configured confidence level.
func (c *BAIController) thresholdSatisfied() bool {
	// the threshold stop is optional: it only applies when a confidence
	// level strictly inside (0, 1) was configured.
	if c.cfg.Confidence <= 0 || c.cfg.Confidence >= 1 {
		return false
	}
	c.results.mu.Lock()
	active := make([]int, 0, len(c.results.Plays))
	for i, p := range c.results.Plays {
		p.mu.Lock()
		skip := p.Ignored || p.Epigon
		n := p.WinPct.n
		p.mu.Unlock()
		if !skip && uint64(n) >= c.cfg.MinSamplesEach {
			active = append(active, i)
		}
	}
	c.results.mu.Unlock()
	if len(active) < 2 {
		return false
	}

	best, _ := c.leaderAndRunnerUp(active)
	pa := c.results.Plays[best]
	pa.mu.Lock()
	meanA, seA := pa.WinPct.Mean(), pa.WinPct.Stderr()
	pa.mu.Unlock()
	if seA <= 0 {
		return false
	}

	// the leader's lower confidence bound must clear every other active
	// arm's upper confidence bound.
	z := zQuantile(c.cfg.Confidence)
	for _, i := range active {
		if i == best {
			continue
		}
		p := c.results.Plays[i]
		p.mu.Lock()
		mean, se := p.WinPct.Mean(), p.WinPct.Stderr()
		p.mu.Unlock()
		if se <= 0 {
			return false
		}
		if meanA-z*seA <= mean+z*se {
			return false
		}
	}
	return true
}

// zQuantile returns the positive z critical value for a two-sided test at
// the given confidence level (e.g. 0.95 -> ~1.96).
func zQuantile(confidence float64) float64 {
	n := distuv.Normal{Mu: 0, Sigma: 1}
	p := confidence + (1-confidence)/2
	return n.Quantile(p)
}

// IgnoreArm marks an arm as no longer worth sampling (e.g. a move whose
// upper-confidence-bound win-pct has fallen below the leader's lower bound).
func (c *BAIController) IgnoreArm(i int) {
	c.results.mu.Lock()
	p := c.results.Plays[i]
	c.results.mu.Unlock()
	p.mu.Lock()
	p.Ignored = true
	p.mu.Unlock()
}
