// Package transport defines the datagram messenger the game core sends
// through and receives from. The core depends only on the interfaces in
// this file; UDPMessenger is the one concrete implementation, kept separate
// so internal/game and internal/protocol never import "net" directly.
package transport

// Addr is an opaque, copyable handle identifying a peer. Two Addrs compare
// equal exactly when they name the same peer.
type Addr string

// None is the zero Addr, used to mean "no address" (e.g. a player who has
// quit, or a game with no spectator).
const None Addr = ""

// Sender is the narrow send-only view the game core needs to fan out
// replies and broadcasts. Failures are best-effort: a dead peer is simply
// forgotten on the next send.
type Sender interface {
	Send(addr Addr, payload []byte) error
}

// Messenger is the full send/receive substrate the dispatcher's event loop
// drives. One inbound datagram is exactly one message; there is no framing,
// ordering, or delivery guarantee beyond what the underlying transport
// happens to provide.
type Messenger interface {
	Sender
	Recv() (Addr, []byte, error)
	LocalAddr() Addr
	Close() error
}
