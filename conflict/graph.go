// Package conflict builds the conflict graph over currently-enabled
// discrete transitions and enumerates maximal independent (non-
// conflicting) sets from it, bounded so a pathological net cannot make a
// single step run away enumerating cliques.
package conflict

import (
	"sort"

	"github.com/bits-and-blooms/bitset"

	"github.com/simao-eugenio/shypn-sub005/adapter"
	"github.com/simao-eugenio/shypn-sub005/petri"
)

// MaxMaximalSets bounds Bron-Kerbosch enumeration. Extra sets beyond this
// are discarded in lexicographic id order, per the spec's rationale that
// users benefit from a handful of alternatives, not exhaustive search.
const MaxMaximalSets = 5

// Graph is the conflict relation over a fixed slice of discrete
// transitions: two transitions conflict iff their mandatory input
// places (normal preset arcs plus test arcs, which also require tokens
// to be present) overlap. Shared output places and shared inhibitor
// (absence-gated) places never cause a conflict.
type Graph struct {
	transitions []*petri.Transition
	index       map[string]int
	presets     []*bitset.BitSet // one per transition, indexed like transitions
}

// Build constructs the conflict graph over enabled (already sorted by
// id by the caller, normally schedule.Tracker.Enabled).
func Build(ad *adapter.Adapter, enabled []*petri.Transition) *Graph {
	g := &Graph{
		transitions: enabled,
		index:       make(map[string]int, len(enabled)),
		presets:     make([]*bitset.BitSet, len(enabled)),
	}
	placeIndex := make(map[string]uint)
	nextPlace := uint(0)
	placeID := func(id string) uint {
		if idx, ok := placeIndex[id]; ok {
			return idx
		}
		idx := nextPlace
		placeIndex[id] = idx
		nextPlace++
		return idx
	}

	for i, t := range enabled {
		g.index[t.ID] = i
		bs := bitset.New(0)
		loc := ad.Locality(t)
		for _, a := range loc.Preset {
			place, _ := a.PlaceEnd()
			bs.Set(placeID(place.ID))
		}
		for _, a := range loc.Regulatory {
			if a.Kind == petri.ArcTest {
				place, _ := a.PlaceEnd()
				bs.Set(placeID(place.ID))
			}
		}
		g.presets[i] = bs
	}
	return g
}

// conflicts reports whether two transitions (by index into g.transitions)
// share at least one mandatory input place.
func (g *Graph) conflicts(i, j int) bool {
	return g.presets[i].IntersectionCardinality(g.presets[j]) > 0
}

// Set is a maximal set of pairwise non-conflicting transitions.
type Set []*petri.Transition

// MaximalSets enumerates maximal independent sets of g's conflict
// relation (equivalently, maximal cliques of the complement graph) via a
// bounded recursive Bron-Kerbosch variant, stopping once MaxMaximalSets
// have been found. Candidates are visited in lexicographic transition-id
// order so the sets discarded by the cap are deterministic.
func MaximalSets(g *Graph) []Set {
	n := len(g.transitions)
	if n == 0 {
		return nil
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return g.transitions[order[a]].ID < g.transitions[order[b]].ID
	})

	compAdj := make([][]bool, n)
	for i := 0; i < n; i++ {
		compAdj[i] = make([]bool, n)
		for j := 0; j < n; j++ {
			if i != j && !g.conflicts(i, j) {
				compAdj[i][j] = true
			}
		}
	}

	var found []Set
	var bronKerbosch func(r, p, x []int)
	bronKerbosch = func(r, p, x []int) {
		if len(found) >= MaxMaximalSets {
			return
		}
		if len(p) == 0 && len(x) == 0 {
			set := make(Set, len(r))
			for i, idx := range r {
				set[i] = g.transitions[idx]
			}
			found = append(found, set)
			return
		}
		pCopy := append([]int(nil), p...)
		for _, v := range pCopy {
			if len(found) >= MaxMaximalSets {
				return
			}
			neighbors := compAdj[v]
			newP := intersectWithNeighbors(p, neighbors)
			newX := intersectWithNeighbors(x, neighbors)
			bronKerbosch(append(append([]int(nil), r...), v), newP, newX)
			p = removeValue(p, v)
			x = append(x, v)
		}
	}
	bronKerbosch(nil, order, nil)

	if len(found) > MaxMaximalSets {
		found = found[:MaxMaximalSets]
	}
	return found
}

func intersectWithNeighbors(vs []int, neighbors []bool) []int {
	var out []int
	for _, v := range vs {
		if neighbors[v] {
			out = append(out, v)
		}
	}
	return out
}

func removeValue(vs []int, target int) []int {
	out := make([]int, 0, len(vs))
	for _, v := range vs {
		if v != target {
			out = append(out, v)
		}
	}
	return out
}
