package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nuggets/internal/game"
	"nuggets/internal/grid"
	"nuggets/internal/transport"
)

func TestRunRejectsWrongArgCount(t *testing.T) {
	code := run([]string{}, os.Stdin, os.Stderr)
	if code != exitArgCount {
		t.Fatalf("code = %d, want %d", code, exitArgCount)
	}
	code = run([]string{"a", "b", "c"}, os.Stdin, os.Stderr)
	if code != exitArgCount {
		t.Fatalf("code = %d, want %d", code, exitArgCount)
	}
}

func TestRunRejectsMissingMapFile(t *testing.T) {
	code := run([]string{filepath.Join(t.TempDir(), "nope.txt")}, os.Stdin, os.Stderr)
	if code != exitBadMapOrSeed {
		t.Fatalf("code = %d, want %d", code, exitBadMapOrSeed)
	}
}

func TestRunRejectsNonIntegerSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.txt")
	const m = "+---+\n|...|\n+---+\n"
	if err := os.WriteFile(path, []byte(m), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	code := run([]string{path, "not-a-number"}, os.Stdin, os.Stderr)
	if code != exitBadMapOrSeed {
		t.Fatalf("code = %d, want %d", code, exitBadMapOrSeed)
	}
}

func TestRunRejectsNegativeSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.txt")
	const m = "+---+\n|...|\n+---+\n"
	if err := os.WriteFile(path, []byte(m), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	code := run([]string{path, "-1"}, os.Stdin, os.Stderr)
	if code != exitBadMapOrSeed {
		t.Fatalf("code = %d, want %d", code, exitBadMapOrSeed)
	}
}

// fakeMessenger satisfies transport.Messenger with no real socket: Recv
// returns immediately so the socket-reading goroutine in eventLoop exits at
// once, leaving only the stdin path under test.
type fakeMessenger struct{}

func (fakeMessenger) Send(transport.Addr, []byte) error     { return nil }
func (fakeMessenger) Recv() (transport.Addr, []byte, error) { return transport.None, nil, io.EOF }
func (fakeMessenger) LocalAddr() transport.Addr             { return "" }
func (fakeMessenger) Close() error                          { return nil }

func TestEventLoopWhoPrintsRosterToStdout(t *testing.T) {
	// 32 room spots: game.New places up to GoldMaxPiles piles on distinct spots.
	const m = "+--------+\n" + "|........|\n|........|\n|........|\n|........|\n" + "+--------+\n"
	mapGrid, err := grid.FromReader(strings.NewReader(m))
	if err != nil {
		t.Fatalf("FromReader: %v", err)
	}
	g, err := game.New(mapGrid, 1, fakeMessenger{})
	if err != nil {
		t.Fatalf("game.New: %v", err)
	}

	stdinR, stdinW, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	stdinW.WriteString("WHO\n")
	stdinW.Close()

	outR, outW, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	realStdout := os.Stdout
	os.Stdout = outW
	code := eventLoop(g, fakeMessenger{}, stdinR)
	os.Stdout = realStdout
	outW.Close()

	got, err := io.ReadAll(outR)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if code != exitOK {
		t.Fatalf("code = %d, want %d", code, exitOK)
	}
	if !strings.Contains(string(got), "gold remaining") {
		t.Fatalf("stdout = %q, want the WHO roster output", got)
	}
}
