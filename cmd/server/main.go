// Command server hosts one authoritative nuggets game: it loads a map
// file, opens a datagram socket, and runs the single-threaded event loop
// that multiplexes that socket against standard input until the game ends
// or stdin hits EOF.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/sync/errgroup"

	"nuggets/internal/game"
	"nuggets/internal/grid"
	"nuggets/internal/protocol"
	"nuggets/internal/transport"
)

// Exit codes, per the command-line surface contract.
const (
	exitOK            = 0
	exitArgCount      = 1
	exitBadMapOrSeed  = 2
	exitGameStartFail = 3
)

// inbound is one unit of work handed from either the socket-reading or the
// stdin-reading goroutine to the single mutator goroutine.
type inbound struct {
	from    transport.Addr
	payload string
	console string // non-empty for a line read from stdin (operator input, not wire protocol)
	eof     bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stderr))
}

func run(args []string, stdin *os.File, stderr *os.File) int {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(stderr, "usage: server mapFile [seed]")
		return exitArgCount
	}

	mapGrid, err := grid.FromFile(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "server: %v\n", err)
		return exitBadMapOrSeed
	}

	seed := int64(os.Getpid())
	if len(args) == 2 {
		parsed, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil || parsed < 0 {
			fmt.Fprintf(stderr, "server: seed must be a non-negative integer, got %q\n", args[1])
			return exitBadMapOrSeed
		}
		seed = parsed
	}

	messenger, err := transport.NewUDPMessenger(":4000")
	if err != nil {
		fmt.Fprintf(stderr, "server: %v\n", err)
		return exitBadMapOrSeed
	}
	defer messenger.Close()

	g, err := game.New(mapGrid, seed, messenger)
	if err != nil {
		fmt.Fprintf(stderr, "server: %v\n", err)
		return exitGameStartFail
	}

	fmt.Printf("server: listening on %s, seed %d\n", messenger.LocalAddr(), seed)
	return eventLoop(g, messenger, stdin)
}

// eventLoop runs until the game ends or stdin reaches EOF. Two goroutines
// each block on one blocking source (the socket, stdin) and feed a single
// channel; the main goroutine is the sole reader, so it is the sole
// mutator of game state — matching the cooperative single-threaded model
// the spec requires without hand-rolling a select() over heterogeneous
// file descriptors.
func eventLoop(g *game.Game, messenger transport.Messenger, stdin *os.File) int {
	events := make(chan inbound)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var eg errgroup.Group
	eg.Go(func() error {
		for {
			from, payload, err := messenger.Recv()
			if err != nil {
				return nil
			}
			select {
			case events <- inbound{from: from, payload: string(payload)}:
			case <-ctx.Done():
				return nil
			}
		}
	})
	eg.Go(func() error {
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			select {
			case events <- inbound{console: scanner.Text()}:
			case <-ctx.Done():
				return nil
			}
		}
		select {
		case events <- inbound{eof: true}:
		case <-ctx.Done():
		}
		return nil
	})

	for ev := range events {
		if ev.eof {
			cancel()
			break
		}
		if ev.console != "" {
			if ev.console == "WHO" {
				fmt.Print(g.ConsoleWho())
			}
			continue
		}
		if protocol.Dispatch(g, messenger, ev.from, ev.payload) {
			cancel()
			break
		}
	}
	_ = eg.Wait()
	return exitOK
}
