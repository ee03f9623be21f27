// Package goldset tracks the gold piles scattered across the map at game
// start: where they sit, how many nuggets each holds, and whether a player
// has collected them yet.
package goldset

import "sort"

type coord struct{ row, col int }

// Pile is a single gold deposit at one tile.
type Pile struct {
	Row, Col  int
	Nuggets   int
	Collected bool
}

// Set is the collection of piles placed at game start or dropped later by
// a quitting player.
type Set struct {
	piles map[coord]*Pile
}

// New returns an empty Set.
func New() *Set {
	return &Set{piles: make(map[coord]*Pile)}
}

// AddPile places a new, uncollected pile of nuggets at (row,col).
func (s *Set) AddPile(row, col, nuggets int) {
	s.piles[coord{row, col}] = &Pile{Row: row, Col: col, Nuggets: nuggets}
}

// FindAndCollect marks the pile at (row,col) collected and returns its
// nugget count. It returns -1 if there is no pile there, or it was already
// collected.
func (s *Set) FindAndCollect(row, col int) int {
	p, ok := s.piles[coord{row, col}]
	if !ok || p.Collected {
		return -1
	}
	p.Collected = true
	return p.Nuggets
}

// Has reports whether an uncollected pile sits at (row,col).
func (s *Set) Has(row, col int) bool {
	p, ok := s.piles[coord{row, col}]
	return ok && !p.Collected
}

// Len returns the number of piles ever placed, collected or not.
func (s *Set) Len() int { return len(s.piles) }

// Piles returns every pile in a deterministic row-major order.
func (s *Set) Piles() []*Pile {
	out := make([]*Pile, 0, len(s.piles))
	for _, p := range s.piles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}
