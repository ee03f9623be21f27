package protocol

import (
	"testing"

	"nuggets/internal/transport"
)

type fakeHandler struct {
	spectated   []transport.Addr
	played      []string
	keys        []byte
	endGameNext bool
}

func (f *fakeHandler) AddSpectator(addr transport.Addr) { f.spectated = append(f.spectated, addr) }

func (f *fakeHandler) AddPlayer(addr transport.Addr, name string) {
	f.played = append(f.played, name)
}

func (f *fakeHandler) KeyPress(addr transport.Addr, key byte) bool {
	f.keys = append(f.keys, key)
	return f.endGameNext
}

type fakeSender struct {
	sent []string
}

func (s *fakeSender) Send(addr transport.Addr, payload []byte) error {
	s.sent = append(s.sent, string(payload))
	return nil
}

func TestDispatchRoutesPlay(t *testing.T) {
	h := &fakeHandler{}
	Dispatch(h, &fakeSender{}, "a", "PLAY Alice")
	if len(h.played) != 1 || h.played[0] != "Alice" {
		t.Fatalf("played = %v, want [Alice]", h.played)
	}
}

func TestDispatchRoutesSpectate(t *testing.T) {
	h := &fakeHandler{}
	Dispatch(h, &fakeSender{}, "a", "SPECTATE")
	if len(h.spectated) != 1 || h.spectated[0] != "a" {
		t.Fatalf("spectated = %v, want [a]", h.spectated)
	}
}

func TestDispatchRoutesKeyAndPropagatesGameOver(t *testing.T) {
	h := &fakeHandler{endGameNext: true}
	over := Dispatch(h, &fakeSender{}, "a", "KEY h")
	if !over {
		t.Fatal("Dispatch did not propagate game-over from KeyPress")
	}
	if len(h.keys) != 1 || h.keys[0] != 'h' {
		t.Fatalf("keys = %v, want [h]", h.keys)
	}
}

func TestDispatchRejectsMalformedKey(t *testing.T) {
	h := &fakeHandler{}
	sender := &fakeSender{}
	Dispatch(h, sender, "a", "KEY hh")
	if len(h.keys) != 0 {
		t.Fatalf("malformed KEY reached the handler: %v", h.keys)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent = %v, want one ERROR reply", sender.sent)
	}
}

func TestDispatchRejectsUnknownCommand(t *testing.T) {
	h := &fakeHandler{}
	sender := &fakeSender{}
	Dispatch(h, sender, "a", "HELLO there")
	if len(sender.sent) != 1 || sender.sent[0] != "ERROR Command not recognized." {
		t.Fatalf("sent = %v, want the standard error", sender.sent)
	}
	if len(h.played)+len(h.spectated)+len(h.keys) != 0 {
		t.Fatal("unknown command reached the handler")
	}
}

func TestDispatchTrimsTrailingNewline(t *testing.T) {
	h := &fakeHandler{}
	Dispatch(h, &fakeSender{}, "a", "PLAY Bob\r\n")
	if len(h.played) != 1 || h.played[0] != "Bob" {
		t.Fatalf("played = %v, want [Bob]", h.played)
	}
}
