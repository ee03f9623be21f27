package game

import (
	"fmt"
	"math/rand"
	"unicode"

	"nuggets/internal/grid"
	"nuggets/internal/goldset"
	"nuggets/internal/transport"
)

// Game-wide constants (spec §3).
const (
	GoldTotal    = 250
	GoldMinPiles = 10
	GoldMaxPiles = 30
	MaxPlayers   = 26
)

// Game is the orchestrator: it owns the map, the gold, the roster, the
// spectator slot, and the remaining-gold counter, and it is the only thing
// in this module that mutates any of them. It is driven synchronously by
// one caller at a time (internal/protocol's dispatcher, itself driven by a
// single-threaded event loop) — there are no locks here because spec §5
// guarantees there is never a second mutator to race against.
type Game struct {
	originalMap *grid.Grid
	liveMap     *grid.Grid
	goldMap     *grid.Grid
	piles       *goldset.Set
	roster      *Roster

	spectator    transport.Addr
	hasSpectator bool

	remainingGold int
	rows, cols    int

	rng    *rand.Rand
	sender transport.Sender
}

// New constructs a game over mapGrid, seeded deterministically from seed,
// sending replies and broadcasts through sender. mapGrid becomes the
// game's originalMap; the caller must not mutate it afterward.
func New(mapGrid *grid.Grid, seed int64, sender transport.Sender) (*Game, error) {
	if mapGrid == nil {
		return nil, fmt.Errorf("game: map must not be nil")
	}
	if mapGrid.Rows() < grid.MinRows || mapGrid.Cols() < grid.MinCols {
		return nil, fmt.Errorf("game: map is smaller than the minimum %dx%d", grid.MinRows, grid.MinCols)
	}
	if sender == nil {
		return nil, fmt.Errorf("game: sender must not be nil")
	}

	g := &Game{
		originalMap: mapGrid,
		liveMap:     mapGrid.Clone(),
		goldMap:     grid.New(mapGrid.Rows(), mapGrid.Cols()),
		piles:       goldset.New(),
		roster:      newRoster(),
		rows:        mapGrid.Rows(),
		cols:        mapGrid.Cols(),
		rng:         rand.New(rand.NewSource(seed)),
		sender:      sender,
	}
	g.placeGold()
	return g, nil
}

func (g *Game) sendTo(addr transport.Addr, msg string) {
	if addr == transport.None {
		return
	}
	_ = g.sender.Send(addr, []byte(msg))
}

// sendDisplay sends a DISPLAY message built from a grid byte view directly,
// avoiding the string concatenation sendTo's callers otherwise do for every
// broadcast.
func (g *Game) sendDisplay(addr transport.Addr, gridBytes []byte) {
	if addr == transport.None {
		return
	}
	payload := append([]byte("DISPLAY\n"), gridBytes...)
	_ = g.sender.Send(addr, payload)
}

func (g *Game) fullDisplay() string {
	out := grid.New(g.rows, g.cols)
	_ = grid.Overlay(g.liveMap, g.goldMap, g.goldMap, out)
	return out.String()
}

// placeGold chooses a pile count uniformly in [GoldMinPiles, GoldMaxPiles],
// distributes exactly GoldTotal nuggets across the piles so that each gets
// at least one, and drops each pile at a random room spot not already
// holding gold.
func (g *Game) placeGold() {
	n := GoldMinPiles + g.rng.Intn(GoldMaxPiles-GoldMinPiles+1)
	allocated := 0
	for i := 0; i < n; i++ {
		var k int
		if i == n-1 {
			k = GoldTotal - allocated
		} else {
			maxRemaining := GoldTotal - allocated - (n - 1 - i)
			k = 1 + g.rng.Intn(maxRemaining)
		}
		allocated += k

		row, col := g.randomRoomSpot(func(r, c int) bool { return !g.piles.Has(r, c) })
		g.goldMap.Set(row, col, grid.Gold)
		g.piles.AddPile(row, col, k)
	}
	g.remainingGold = GoldTotal
}

// randomRoomSpot performs uniform rejection sampling over the original map
// for a room spot (floor, gold, or a letter — but the original map never
// has letters) satisfying extra. It does not return while no cell
// qualifies, e.g. when a map has fewer room spots than piles to place or
// players to spawn.
func (g *Game) randomRoomSpot(extra func(r, c int) bool) (int, int) {
	for {
		row := g.rng.Intn(g.rows)
		col := g.rng.Intn(g.cols)
		if grid.IsRoomSpot(g.originalMap.Get(row, col)) && extra(row, col) {
			return row, col
		}
	}
}

func (g *Game) inBounds(r, c int) bool {
	return r >= 0 && r < g.rows && c >= 0 && c < g.cols
}

// AddSpectator installs addr as the spectator, replacing and evicting any
// previous one, unless addr is already a player.
func (g *Game) AddSpectator(addr transport.Addr) {
	if _, ok := g.roster.ByAddress(addr); ok {
		g.sendTo(addr, "ERROR You are already a player.")
		return
	}
	if g.hasSpectator && g.spectator != addr {
		g.sendTo(g.spectator, "QUIT You have been replaced by a new spectator.")
	}
	g.spectator = addr
	g.hasSpectator = true

	g.sendTo(addr, fmt.Sprintf("GRID %d %d", g.rows, g.cols))
	g.sendTo(addr, fmt.Sprintf("GOLD 0 0 %d", g.remainingGold))
	g.sendTo(addr, "DISPLAY\n"+g.fullDisplay())
}

// AddPlayer admits addr as a new player named rawName, or replies with the
// appropriate QUIT/ERROR when it cannot.
func (g *Game) AddPlayer(addr transport.Addr, rawName string) {
	if g.roster.Len() >= MaxPlayers {
		g.sendTo(addr, "QUIT Game is full: no more players can join.")
		return
	}
	if g.hasSpectator && addr == g.spectator {
		g.sendTo(addr, "ERROR Invalid key for spectator.")
		return
	}
	if _, ok := g.roster.ByAddress(addr); ok {
		g.sendTo(addr, "ERROR You are already playing.")
		return
	}

	name := sanitizeName(rawName, NameMax)
	if name == "" {
		g.sendTo(addr, "QUIT Sorry - you must provide player's name.")
		return
	}

	p := g.roster.Add(addr, name)
	row, col := g.randomRoomSpot(func(r, c int) bool { return !grid.IsPlayer(g.liveMap.Get(r, c)) })
	g.liveMap.Set(row, col, byte(p.ID))
	p.InitLocation(g.liveMap, g.goldMap, row, col)

	g.sendTo(addr, fmt.Sprintf("OK %c", byte(p.ID)))
	g.sendTo(addr, fmt.Sprintf("GRID %d %d", g.rows, g.cols))

	if g.goldMap.Get(row, col) == grid.Gold {
		if over := g.foundGold(p, row, col); over {
			g.sendTo(addr, "DISPLAY\n"+p.Display())
			return
		}
	} else {
		g.sendTo(addr, fmt.Sprintf("GOLD 0 0 %d", g.remainingGold))
	}

	g.sendTo(addr, "DISPLAY\n"+p.Display())
	g.roster.broadcastDisplay(g)
}

// KeyPress handles one keystroke from addr. It returns true exactly when
// the game has just ended and the whole server event loop should stop.
func (g *Game) KeyPress(addr transport.Addr, key byte) bool {
	if g.hasSpectator && addr == g.spectator {
		return g.spectatorKeyPress(addr, key)
	}

	p, ok := g.roster.ByAddress(addr)
	if !ok {
		g.sendTo(addr, "ERROR Please start PLAY or SPECTATE first.")
		return false
	}

	if key == 'Q' {
		g.quitPlayer(p)
		return false
	}

	dr, dc, ok := directionDelta(key)
	if !ok {
		g.sendTo(addr, "ERROR Command not recognized.")
		return false
	}

	if unicode.IsUpper(rune(key)) {
		for {
			moved, over := g.step(p, dr, dc)
			if over {
				return true
			}
			if !moved {
				return false
			}
		}
	}

	_, over := g.step(p, dr, dc)
	return over
}

func (g *Game) spectatorKeyPress(addr transport.Addr, key byte) bool {
	if key == 'Q' || key == 'q' {
		g.sendTo(addr, "QUIT Thanks for watching!")
		g.hasSpectator = false
		g.spectator = transport.None
		return false
	}
	g.sendTo(addr, "ERROR unknown keystroke for spectator.")
	return false
}

func directionDelta(key byte) (dr, dc int, ok bool) {
	switch unicode.ToLower(rune(key)) {
	case 'h':
		return 0, -1, true
	case 'l':
		return 0, 1, true
	case 'j':
		return 1, 0, true
	case 'k':
		return -1, 0, true
	case 'y':
		return -1, -1, true
	case 'u':
		return -1, 1, true
	case 'b':
		return 1, -1, true
	case 'n':
		return 1, 1, true
	}
	return 0, 0, false
}

// step attempts one move of player p by (dr,dc): pickup, plain move,
// collision swap with steal, or no-op against a wall/blank/out-of-bounds
// cell. moved reports whether state actually changed (the stopping
// condition for the uppercase run variants); over reports the game just
// ended.
func (g *Game) step(p *Player, dr, dc int) (moved, over bool) {
	tr, tc := p.Row+dr, p.Col+dc
	if !g.inBounds(tr, tc) {
		return false, false
	}

	toTile := g.liveMap.Get(tr, tc)
	fromTerrain := g.originalMap.Get(p.Row, p.Col)

	switch {
	case grid.IsSpot(toTile) && !grid.IsPlayer(toTile):
		if g.goldMap.Get(tr, tc) == grid.Gold {
			if g.foundGold(p, tr, tc) {
				return false, true
			}
		}
		g.liveMap.Set(p.Row, p.Col, fromTerrain)
		g.liveMap.Set(tr, tc, byte(p.ID))
		p.RelocateTo(tr, tc, fromTerrain)
		g.roster.broadcastDisplay(g)
		return true, false

	case grid.IsPlayer(toTile):
		victim, ok := g.roster.ByID(ID(toTile))
		if !ok {
			return false, false
		}
		oldRow, oldCol := p.Row, p.Col
		victimFrom := g.originalMap.Get(victim.Row, victim.Col)
		g.stealGold(p, victim)

		g.liveMap.Set(oldRow, oldCol, byte(victim.ID))
		g.liveMap.Set(tr, tc, byte(p.ID))
		p.RelocateTo(tr, tc, fromTerrain)
		victim.RelocateTo(oldRow, oldCol, victimFrom)

		g.roster.broadcastDisplay(g)
		return true, false

	default:
		return false, false
	}
}

// foundGold collects the pile at (r,c) for p. It returns true when this
// pickup emptied the world of gold and end_game has just run. The picker's
// GOLD confirmation is sent either way — spec.md §8's worked example
// requires the winning pickup to report its own purse and the now-zero
// remaining count before the end-game summary follows.
func (g *Game) foundGold(p *Player, r, c int) bool {
	n := g.piles.FindAndCollect(r, c)
	if n < 0 {
		n = 0
	}
	g.remainingGold -= n
	p.FoundGoldNuggets(n)
	g.goldMap.Set(r, c, grid.Blank)

	g.sendTo(p.Addr, fmt.Sprintf("GOLD %d %d %d", n, p.Purse, g.remainingGold))
	for _, other := range g.roster.Players() {
		if other == p || !other.Present {
			continue
		}
		g.sendTo(other.Addr, fmt.Sprintf("GOLD 0 %d %d", other.Purse, g.remainingGold))
	}
	if g.hasSpectator {
		g.sendTo(g.spectator, fmt.Sprintf("GOLD 0 0 %d", g.remainingGold))
	}

	if g.remainingGold == 0 {
		g.endGame()
		return true
	}
	return false
}

// stealGold transfers exactly one nugget from victim to thief when victim
// has any, and always tells the thief the outcome.
func (g *Game) stealGold(thief, victim *Player) {
	if victim.Purse <= 0 {
		g.sendTo(thief.Addr, fmt.Sprintf("GOLDSTEAL 0 %d %d %c", thief.Purse, g.remainingGold, byte(victim.ID)))
		return
	}
	thief.FoundGoldNuggets(1)
	victim.FoundGoldNuggets(-1)
	g.sendTo(thief.Addr, fmt.Sprintf("GOLDSTEAL 1 %d %d %c", thief.Purse, g.remainingGold, byte(victim.ID)))
	g.sendTo(victim.Addr, fmt.Sprintf("GOLDSTEAL -1 %d %d %c", victim.Purse, g.remainingGold, byte(thief.ID)))
}

// quitPlayer removes p from active play: their cell reverts to original
// terrain, any carried gold drops as a fresh pile where they stood, and
// their roster record persists (address cleared) for the end-game summary.
func (g *Game) quitPlayer(p *Player) {
	g.liveMap.Set(p.Row, p.Col, g.originalMap.Get(p.Row, p.Col))

	if p.Purse > 0 {
		g.goldMap.Set(p.Row, p.Col, grid.Gold)
		g.piles.AddPile(p.Row, p.Col, p.Purse)
		g.remainingGold += p.Purse
	}

	g.sendTo(p.Addr, "QUIT Thanks for playing!")
	g.roster.clearAddress(p)

	g.roster.broadcastGoldStatus(g)
	g.roster.broadcastDisplay(g)
}

// endGame sends the final summary to every connected player and the
// spectator, then leaves the game in its terminal state; the caller (the
// server event loop) is responsible for actually shutting down.
func (g *Game) endGame() {
	summary := g.roster.buildGameOverSummary()
	for _, p := range g.roster.Players() {
		if p.Present {
			g.sendTo(p.Addr, summary)
		}
	}
	if g.hasSpectator {
		g.sendTo(g.spectator, summary)
	}
}

// Snapshot is a read-only view of game state for diagnostics and tests.
type Snapshot struct {
	RemainingGold int
	PlayerCount   int
	PileCount     int
}

// Snapshot reports the game's current invariant-relevant counters.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		RemainingGold: g.remainingGold,
		PlayerCount:   g.roster.Len(),
		PileCount:     g.piles.Len(),
	}
}

// ConsoleWho renders the live roster for the server operator's WHO debug
// command: Snapshot's counters followed by one line per player who has
// ever joined. It is driven from stdin by cmd/server's own event loop
// goroutine so it never races the datagram-driven mutations above.
func (g *Game) ConsoleWho() string {
	snap := g.Snapshot()
	return fmt.Sprintf("gold remaining: %d, players: %d, piles: %d\n%s",
		snap.RemainingGold, snap.PlayerCount, snap.PileCount, g.roster.consoleRoster())
}
