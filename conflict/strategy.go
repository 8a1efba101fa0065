package conflict

import (
	"math"
	"math/rand"
	"sort"

	"github.com/simao-eugenio/shypn-sub005/petri"
)

// Strategy selects one maximal set among several, per spec §4.5.
type Strategy string

const (
	StrategyLargest  Strategy = "largest"
	StrategyPriority Strategy = "priority"
	StrategyRandom   Strategy = "random"
	StrategyFirst    Strategy = "first"
)

func prioritySum(s Set) int {
	total := 0
	for _, t := range s {
		total += t.Priority
	}
	return total
}

func lexLess(a, b Set) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i].ID != b[i].ID {
			return a[i].ID < b[i].ID
		}
	}
	return len(a) < len(b)
}

// Select chooses one Set from sets according to strategy. rng is used
// only by StrategyRandom and must be supplied by the caller (normally
// kernel.Controller's run-scoped *rand.Rand).
func Select(strategy Strategy, sets []Set, rng *rand.Rand) (Set, error) {
	if len(sets) == 0 {
		return nil, ErrNoTransitions
	}
	sorted := append([]Set(nil), sets...)
	for _, s := range sorted {
		sortWithinSetByID(s)
	}
	sort.Slice(sorted, func(i, j int) bool { return lexLess(sorted[i], sorted[j]) })

	switch strategy {
	case StrategyFirst:
		return sorted[0], nil
	case StrategyRandom:
		return sorted[rng.Intn(len(sorted))], nil
	case StrategyPriority:
		best := sorted[0]
		for _, s := range sorted[1:] {
			if prioritySum(s) > prioritySum(best) ||
				(prioritySum(s) == prioritySum(best) && len(s) > len(best)) {
				best = s
			}
		}
		return best, nil
	case StrategyLargest:
		fallthrough
	default:
		best := sorted[0]
		for _, s := range sorted[1:] {
			if len(s) > len(best) ||
				(len(s) == len(best) && prioritySum(s) > prioritySum(best)) {
				best = s
			}
		}
		return best, nil
	}
}

func sortWithinSetByID(s Set) {
	sort.Slice(s, func(i, j int) bool { return s[i].ID < s[j].ID })
}

// EnablementTime looks up the time a transition most recently became
// structurally enabled, for Order's age/race policies. ok is false if
// the transition is not currently tracked as enabled. schedule.Tracker's
// EnablementTime method satisfies this type.
type EnablementTime func(transitionID string) (t float64, ok bool)

// Order sorts the transitions within a chosen set into commit order per
// each transition's own FiringPolicy. The ordering only affects the
// sequence transitions are applied in within one atomic step; it never
// splits the set produced by Select.
//
// enablementAt resolves age and race, both of which fire the
// longest-enabled transition first (race is spec'd identically to age:
// the earliest-enabled transition wins the race to fire); it may be nil
// if the set contains neither policy. rng resolves random by shuffling
// only the positions held by PolicyRandom transitions, leaving every
// other transition's relative order untouched; it may be nil if the set
// contains no PolicyRandom transition.
func Order(s Set, enablementAt EnablementTime, rng *rand.Rand) []*petri.Transition {
	out := append([]*petri.Transition(nil), s...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if ka, kb := kindRank(a), kindRank(b); ka != kb {
			return ka < kb
		}
		switch a.FiringPolicy {
		case petri.PolicyPriority, petri.PolicyPreemptivePriority:
			if a.Priority != b.Priority {
				return a.Priority > b.Priority
			}
		case petri.PolicyAge, petri.PolicyRace:
			ta, tb := enablementTimeOf(enablementAt, a.ID), enablementTimeOf(enablementAt, b.ID)
			if ta != tb {
				return ta < tb
			}
		}
		return a.ID < b.ID
	})
	if rng != nil {
		shuffleRandomPolicy(out, rng)
	}
	return out
}

func enablementTimeOf(enablementAt EnablementTime, id string) float64 {
	if enablementAt == nil {
		return math.Inf(1)
	}
	t, ok := enablementAt(id)
	if !ok {
		return math.Inf(1)
	}
	return t
}

// shuffleRandomPolicy permutes only the positions held by
// PolicyRandom transitions, via Fisher-Yates over rng, leaving every
// other transition's position fixed.
func shuffleRandomPolicy(out []*petri.Transition, rng *rand.Rand) {
	var idx []int
	for i, t := range out {
		if t.FiringPolicy == petri.PolicyRandom {
			idx = append(idx, i)
		}
	}
	if len(idx) < 2 {
		return
	}
	rng.Shuffle(len(idx), func(i, j int) {
		out[idx[i]], out[idx[j]] = out[idx[j]], out[idx[i]]
	})
}

// kindRank gives immediate > timed > stochastic precedence, but only for
// a transition whose own firing_policy opts into it
// (preemptive-priority); transitions under any other policy sort as if
// all kinds were equal, falling through to that policy's own ordering.
func kindRank(t *petri.Transition) int {
	if t.FiringPolicy != petri.PolicyPreemptivePriority {
		return 0
	}
	switch t.Kind {
	case petri.Immediate:
		return 0
	case petri.Timed:
		return 1
	case petri.Stochastic:
		return 2
	default:
		return 3
	}
}
