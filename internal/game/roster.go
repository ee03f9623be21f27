package game

import (
	"fmt"
	"strings"

	"nuggets/internal/transport"
)

// Roster is the ordered collection of every player who has ever joined.
// World.players in the teacher keeps one map keyed by name; the wire
// protocol here needs two different keys (a peer's address arrives on
// every datagram, a player's id is what the live map stores per tile), so
// this generalizes that single index into two, both over the same
// join-ordered backing list the end-game summary walks.
type Roster struct {
	byAddr map[transport.Addr]*Player
	byID   map[ID]*Player
	order  []*Player
	nextID ID
}

func newRoster() *Roster {
	return &Roster{
		byAddr: make(map[transport.Addr]*Player),
		byID:   make(map[ID]*Player),
		nextID: 'A',
	}
}

// Len reports how many players have ever joined (quit or not).
func (r *Roster) Len() int { return len(r.order) }

// Add assigns the next unused letter id to a new player and indexes them by
// address and id. The caller has already checked roster capacity.
func (r *Roster) Add(addr transport.Addr, name string) *Player {
	p := newPlayer(r.nextID, addr, name)
	r.nextID++
	r.byAddr[addr] = p
	r.byID[p.ID] = p
	r.order = append(r.order, p)
	return p
}

// ByAddress looks up a player by their current network address. A player
// who has quit is not found by this lookup even though their record
// persists in Players().
func (r *Roster) ByAddress(addr transport.Addr) (*Player, bool) {
	p, ok := r.byAddr[addr]
	if !ok || !p.Present {
		return nil, false
	}
	return p, true
}

// ByID looks up a player by their letter id, regardless of whether they
// are still connected.
func (r *Roster) ByID(id ID) (*Player, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// Players returns every player who has ever joined, in join order.
func (r *Roster) Players() []*Player {
	out := make([]*Player, len(r.order))
	copy(out, r.order)
	return out
}

// clearAddress drops a player's address index entry and marks them absent,
// leaving their id, name, and purse in place for the end-game summary.
func (r *Roster) clearAddress(p *Player) {
	delete(r.byAddr, p.Addr)
	p.Addr = transport.None
	p.Present = false
}

// broadcastDisplay recomputes every connected player's visibility against
// the game's current liveMap/goldMap, sends each their personal DISPLAY,
// and sends the spectator (if any) the full map overlaid with the full
// gold map.
func (r *Roster) broadcastDisplay(g *Game) {
	for _, p := range r.order {
		if !p.Present {
			continue
		}
		p.UpdateVisibility(g.liveMap, g.goldMap)
		g.sendDisplay(p.Addr, p.DisplayBytes())
	}
	if g.hasSpectator {
		g.sendTo(g.spectator, "DISPLAY\n"+g.fullDisplay())
	}
}

// broadcastGoldStatus sends every connected player a purse/remaining-gold
// refresh, and the spectator their own zero-purse variant.
func (r *Roster) broadcastGoldStatus(g *Game) {
	for _, p := range r.order {
		if !p.Present {
			continue
		}
		g.sendTo(p.Addr, fmt.Sprintf("GOLD 0 %d %d", p.Purse, g.remainingGold))
	}
	if g.hasSpectator {
		g.sendTo(g.spectator, fmt.Sprintf("GOLD 0 0 %d", g.remainingGold))
	}
}

// buildGameOverSummary renders the end-of-game report: a header followed
// by one line per player who ever joined, in join order, including those
// who quit before the game ended.
func (r *Roster) buildGameOverSummary() string {
	var b strings.Builder
	b.WriteString("QUIT GAME OVER:\n")
	for _, p := range r.order {
		s := p.Stats()
		fmt.Fprintf(&b, "%c %7d %s\n", byte(s.ID), s.Purse, s.Name)
	}
	return b.String()
}

// consoleRoster renders one line per player who has ever joined, marked
// present or quit, for the server operator's WHO command.
func (r *Roster) consoleRoster() string {
	var b strings.Builder
	for _, p := range r.order {
		s := p.Stats()
		status := "present"
		if !s.Present {
			status = "quit"
		}
		fmt.Fprintf(&b, "%c %7d  %-*s  %s\n", byte(s.ID), s.Purse, NameMax, s.Name, status)
	}
	return b.String()
}
