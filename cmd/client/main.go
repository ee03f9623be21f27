// Command client is the thin terminal renderer: it joins a running
// nuggets server as a player or spectator, forwards raw keystrokes as KEY
// messages, and repaints a two-region terminal (one status line, the grid
// below it) from whatever the server sends back.
package main

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/gookit/color"
	"golang.org/x/term"

	"nuggets/internal/transport"
)

const (
	exitOK        = 0
	exitLoopFail  = 1
	exitBadArgs   = 2
	exitSetupFail = 3
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 2 || len(args) > 3 {
		fmt.Fprintln(os.Stderr, "usage: client hostname port [playerName]")
		return exitBadArgs
	}
	hostname, portStr := args[0], args[1]
	if _, err := strconv.Atoi(portStr); err != nil {
		fmt.Fprintf(os.Stderr, "client: bad port %q\n", portStr)
		return exitBadArgs
	}

	messenger, err := transport.NewUDPMessenger(":0")
	if err != nil {
		fmt.Fprintf(os.Stderr, "client: %v\n", err)
		return exitSetupFail
	}
	defer messenger.Close()

	serverAddr := transport.Addr(net.JoinHostPort(hostname, portStr))

	playing := len(args) == 3
	if playing {
		messenger.Send(serverAddr, []byte("PLAY "+args[2]))
	} else {
		messenger.Send(serverAddr, []byte("SPECTATE"))
	}

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "client: %v\n", err)
		return exitSetupFail
	}
	defer term.Restore(int(os.Stdin.Fd()), oldState)

	ui := newUI(playing)
	return eventLoop(messenger, serverAddr, ui)
}

// ui holds the rendering state a client maintains between server messages:
// the player's own id (spectators never get one), their purse, how much
// gold remains in the world, and a transient trailer shown on the status
// line until the next keystroke.
type ui struct {
	playing  bool
	id       byte
	purse    int
	gold     int
	trailer  string
	lastGrid string
}

func newUI(playing bool) *ui {
	return &ui{playing: playing}
}

func (u *ui) statusLine() string {
	var base string
	if u.playing {
		base = fmt.Sprintf("Player %c has %d nuggets (%d nuggets unclaimed).", u.id, u.purse, u.gold)
	} else {
		base = fmt.Sprintf("Spectator: %d nuggets unclaimed.", u.gold)
	}
	if u.trailer != "" {
		base += " " + u.trailer
	}
	return base
}

func (u *ui) render() {
	fmt.Print("\x1b[2J\x1b[H")
	color.New(color.FgCyan, color.OpBold).Println(u.statusLine())
	fmt.Print(u.lastGrid)
}

// eventLoop reads keystrokes from stdin and datagrams from the server,
// interleaved through a single channel so the terminal is only ever
// touched by one goroutine. It returns the process exit code.
func eventLoop(messenger transport.Messenger, serverAddr transport.Addr, u *ui) int {
	type event struct {
		key     byte
		keyOK   bool
		payload string
		recvErr error
	}
	events := make(chan event)

	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil || n == 0 {
				return
			}
			events <- event{key: buf[0], keyOK: true}
		}
	}()
	go func() {
		for {
			_, payload, err := messenger.Recv()
			if err != nil {
				events <- event{recvErr: err}
				return
			}
			events <- event{payload: string(payload)}
		}
	}()

	for ev := range events {
		switch {
		case ev.recvErr != nil:
			return exitLoopFail

		case ev.keyOK:
			u.trailer = ""
			if ev.key == 'q' || ev.key == 'Q' {
				messenger.Send(serverAddr, []byte("KEY Q"))
			} else {
				messenger.Send(serverAddr, []byte{'K', 'E', 'Y', ' ', ev.key})
			}

		default:
			if quit := u.handleServerMessage(ev.payload); quit {
				return exitOK
			}
		}
	}
	return exitLoopFail
}

// handleServerMessage applies one server->client message to ui state and
// repaints. It returns true when the message was QUIT, signaling the
// caller's loop to stop.
func (u *ui) handleServerMessage(payload string) bool {
	switch {
	case len(payload) >= 2 && payload[:2] == "OK":
		fmt.Sscanf(payload, "OK %c", &u.id)

	case len(payload) >= 4 && payload[:4] == "GRID":
		// Dimensions are informational for a fixed-size terminal client;
		// the DISPLAY payload is authoritative for what actually fits.

	case len(payload) >= 5 && payload[:5] == "GOLD ":
		var n, p, r int
		fmt.Sscanf(payload, "GOLD %d %d %d", &n, &p, &r)
		u.purse, u.gold = p, r
		if n > 0 {
			u.trailer = fmt.Sprintf("You found %d nugget(s)!", n)
		}
		u.render()

	case len(payload) >= 9 && payload[:9] == "GOLDSTEAL":
		var n, p, r int
		var other byte
		fmt.Sscanf(payload, "GOLDSTEAL %d %d %d %c", &n, &p, &r, &other)
		u.purse, u.gold = p, r
		switch {
		case n > 0:
			u.trailer = fmt.Sprintf("You stole %d nugget(s) from %c!", n, other)
		case n < 0:
			u.trailer = fmt.Sprintf("%c stole %d nugget(s) from you!", other, -n)
		default:
			u.trailer = fmt.Sprintf("%c had nothing to steal.", other)
		}
		u.render()

	case len(payload) >= 7 && payload[:7] == "DISPLAY":
		body := payload[7:]
		if len(body) > 0 && body[0] == '\n' {
			body = body[1:]
		}
		u.lastGrid = body
		u.render()

	case len(payload) >= 5 && payload[:5] == "ERROR":
		u.trailer = payload[6:]
		u.render()

	case len(payload) >= 4 && payload[:4] == "QUIT":
		fmt.Print("\x1b[2J\x1b[H")
		color.New(color.FgYellow, color.OpBold).Println(payload[5:])
		return true
	}
	return false
}
