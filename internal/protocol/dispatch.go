// Package protocol turns inbound datagram text into calls on the game
// core. It owns none of the game's state; it only classifies a line by
// its prefix and routes it, mirroring the teacher's commands/world split
// (a thin dispatcher in front of the thing that actually mutates state).
package protocol

import (
	"strings"

	"nuggets/internal/transport"
)

// GameHandler is the subset of *game.Game the dispatcher drives. It exists
// so this package never imports internal/game directly, keeping the wire
// parsing independently testable against a fake.
type GameHandler interface {
	AddSpectator(addr transport.Addr)
	AddPlayer(addr transport.Addr, name string)
	KeyPress(addr transport.Addr, key byte) bool
}

// Dispatch classifies one inbound datagram (sent by from, containing
// payload as text) and calls the matching GameHandler method. It returns
// true exactly when the game just ended and the caller's event loop should
// stop reading further datagrams.
func Dispatch(h GameHandler, sender transport.Sender, from transport.Addr, payload string) bool {
	line := strings.TrimRight(payload, "\r\n")

	switch {
	case strings.HasPrefix(line, "PLAY "):
		h.AddPlayer(from, strings.TrimPrefix(line, "PLAY "))
		return false

	case line == "SPECTATE":
		h.AddSpectator(from)
		return false

	case strings.HasPrefix(line, "KEY "):
		rest := strings.TrimPrefix(line, "KEY ")
		if len(rest) != 1 {
			sender.Send(from, []byte("ERROR Command not recognized."))
			return false
		}
		return h.KeyPress(from, rest[0])

	default:
		sender.Send(from, []byte("ERROR Command not recognized."))
		return false
	}
}
