// Package game owns the authoritative world: the map, the gold, the
// roster of players, and the single spectator slot. It implements
// everything in spec sections 4.3-4.5 — player state, movement, pickup,
// steal, quit, and end-of-game — as the sole mutator of that state, driven
// synchronously by internal/protocol's dispatcher.
package game

import (
	"strings"
	"unicode"

	"nuggets/internal/grid"
	"nuggets/internal/transport"
)

// NameMax bounds a player's display name. The original implementation this
// was distilled from truncated names to different lengths in different
// files; this is the single constant the redesign standardizes on.
const NameMax = 50

// ID is a player's one-letter identity, assigned in join order starting at
// 'A'.
type ID byte

// Player is one participant's identity, address, location, purse, and the
// two personal grids that record what they have ever seen.
type Player struct {
	ID      ID
	Name    string
	Addr    transport.Addr
	Row     int
	Col     int
	Purse   int
	Present bool // false once the player has quit; the record itself persists

	// VisibleTerrain is the player's once-seen-stays-seen view of the map:
	// an overlay union, never shrinking, refreshed every movement.
	VisibleTerrain *grid.Grid
	// VisibleGold is recomputed from scratch on every movement: gold only
	// shows up where the player currently has line of sight.
	VisibleGold *grid.Grid
}

func newPlayer(id ID, addr transport.Addr, name string) *Player {
	return &Player{ID: id, Addr: addr, Name: name, Present: true}
}

// InitLocation spawns the player at (row,col): computes their first
// visibility grid against liveMap, marks their own cell with grid.Self, and
// seeds visible gold as goldMap masked by that visibility.
func (p *Player) InitLocation(liveMap, goldMap *grid.Grid, row, col int) {
	p.Row, p.Col = row, col
	rows, cols := liveMap.Rows(), liveMap.Cols()

	p.VisibleTerrain = grid.New(rows, cols)
	_ = grid.Visible(liveMap, row, col, p.VisibleTerrain)
	p.VisibleTerrain.Set(row, col, grid.Self)

	p.VisibleGold = grid.New(rows, cols)
	_ = grid.Overlay(grid.New(rows, cols), goldMap, p.VisibleTerrain, p.VisibleGold)
}

// MoveUpDown writes fill at the player's current cell, steps their row by
// delta, and marks the new cell as self — on the player's own persistent
// terrain view only; the caller is responsible for the shared liveMap.
func (p *Player) MoveUpDown(delta int, fill byte) {
	p.VisibleTerrain.Set(p.Row, p.Col, fill)
	p.Row += delta
	p.VisibleTerrain.Set(p.Row, p.Col, grid.Self)
}

// MoveLeftRight is MoveUpDown's column counterpart.
func (p *Player) MoveLeftRight(delta int, fill byte) {
	p.VisibleTerrain.Set(p.Row, p.Col, fill)
	p.Col += delta
	p.VisibleTerrain.Set(p.Row, p.Col, grid.Self)
}

// RelocateTo is the move primitive step uses for every direction, diagonals
// included, and for both sides of a collision swap: it writes fill at the
// old cell and grid.Self at the new cell in one atomic step, rather than two
// sequential half-steps. See DESIGN.md for why this is the deliberate
// resolution of the diagonal-move open question.
func (p *Player) RelocateTo(row, col int, fill byte) {
	p.VisibleTerrain.Set(p.Row, p.Col, fill)
	p.Row, p.Col = row, col
	p.VisibleTerrain.Set(p.Row, p.Col, grid.Self)
}

// FoundGoldNuggets adds (or removes, for a negative delta) nuggets from the
// purse.
func (p *Player) FoundGoldNuggets(delta int) {
	p.Purse += delta
}

// UpdateVisibility recomputes the player's view against the current
// liveMap: terrain visibility is unioned into the persistent
// VisibleTerrain (once seen, always remembered), while VisibleGold is
// replaced outright from the current line of sight (gold visibility is
// instantaneous).
func (p *Player) UpdateVisibility(liveMap, goldMap *grid.Grid) {
	rows, cols := liveMap.Rows(), liveMap.Cols()

	fresh := grid.New(rows, cols)
	_ = grid.Visible(liveMap, p.Row, p.Col, fresh)
	fresh.Set(p.Row, p.Col, grid.Self)

	_ = grid.Overlay(p.VisibleTerrain, fresh, fresh, p.VisibleTerrain)

	newGold := grid.New(rows, cols)
	_ = grid.Overlay(grid.New(rows, cols), goldMap, fresh, newGold)
	p.VisibleGold = newGold
}

// Display renders what the player currently sees: visible gold overlaid
// onto the persistent terrain view.
func (p *Player) Display() string {
	rows, cols := p.VisibleTerrain.Rows(), p.VisibleTerrain.Cols()
	out := grid.New(rows, cols)
	_ = grid.Overlay(p.VisibleTerrain, p.VisibleGold, p.VisibleGold, out)
	return out.String()
}

// DisplayBytes is Display without the intermediate string: it feeds the
// same overlay straight into grid.Grid.Bytes so a DISPLAY broadcast builds
// its payload with one allocation instead of a string and a copy of it.
func (p *Player) DisplayBytes() []byte {
	rows, cols := p.VisibleTerrain.Rows(), p.VisibleTerrain.Cols()
	out := grid.New(rows, cols)
	_ = grid.Overlay(p.VisibleTerrain, p.VisibleGold, p.VisibleGold, out)
	return out.Bytes()
}

// PlayerSummary is the read-only snapshot Stats hands to callers that need
// a player's public state without a reference to the live Player — the
// end-game report and the WHO console command.
type PlayerSummary struct {
	ID      ID
	Name    string
	Purse   int
	Present bool
}

// Stats returns a PlayerSummary for this player.
func (p *Player) Stats() PlayerSummary {
	return PlayerSummary{ID: p.ID, Name: p.Name, Purse: p.Purse, Present: p.Present}
}

// sanitizeName replaces every non-printable byte of a raw join name (the
// wire protocol carries it as the tail of a PLAY line) with '_', so a
// hostile or buggy client can never inject a newline into a broadcast, and
// truncates to max runes so it can never blow past the roster display
// width either.
func sanitizeName(raw string, max int) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsPrint(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	name := strings.TrimSpace(b.String())
	runes := []rune(name)
	if len(runes) > max {
		runes = runes[:max]
	}
	return string(runes)
}
