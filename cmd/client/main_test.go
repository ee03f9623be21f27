package main

import (
	"strings"
	"testing"
)

func TestStatusLinePlayer(t *testing.T) {
	u := newUI(true)
	u.id = 'A'
	u.purse = 3
	u.gold = 247
	got := u.statusLine()
	want := "Player A has 3 nuggets (247 nuggets unclaimed)."
	if got != want {
		t.Fatalf("statusLine() = %q, want %q", got, want)
	}
}

func TestStatusLineSpectator(t *testing.T) {
	u := newUI(false)
	u.gold = 250
	got := u.statusLine()
	want := "Spectator: 250 nuggets unclaimed."
	if got != want {
		t.Fatalf("statusLine() = %q, want %q", got, want)
	}
}

func TestStatusLineOmitsClearedTrailer(t *testing.T) {
	u := newUI(true)
	u.trailer = "You found 5 nugget(s)!"
	if !strings.Contains(u.statusLine(), "You found 5") {
		t.Fatal("trailer missing from status line")
	}
	u.trailer = ""
	if strings.Contains(u.statusLine(), "found") {
		t.Fatal("trailer survived being cleared")
	}
}

func TestHandleServerMessageGold(t *testing.T) {
	u := newUI(true)
	u.handleServerMessage("GOLD 5 5 245")
	if u.purse != 5 || u.gold != 245 {
		t.Fatalf("purse=%d gold=%d, want 5,245", u.purse, u.gold)
	}
	if !strings.Contains(u.trailer, "5") {
		t.Fatalf("trailer = %q, want it to mention the pickup", u.trailer)
	}
}

func TestHandleServerMessageGoldStealVictim(t *testing.T) {
	u := newUI(true)
	u.handleServerMessage("GOLDSTEAL -1 2 245 B")
	if u.purse != 2 {
		t.Fatalf("purse = %d, want 2", u.purse)
	}
	if !strings.Contains(u.trailer, "B") {
		t.Fatalf("trailer = %q, want it to name the thief", u.trailer)
	}
}

func TestHandleServerMessageDisplayStripsLeadingNewline(t *testing.T) {
	u := newUI(true)
	u.handleServerMessage("DISPLAY\n+---+\n|...|\n+---+\n")
	if u.lastGrid != "+---+\n|...|\n+---+\n" {
		t.Fatalf("lastGrid = %q", u.lastGrid)
	}
}

func TestHandleServerMessageQuitReportsDone(t *testing.T) {
	u := newUI(true)
	done := u.handleServerMessage("QUIT Thanks for playing!")
	if !done {
		t.Fatal("QUIT did not signal loop termination")
	}
}

func TestHandleServerMessageErrorSetsTrailer(t *testing.T) {
	u := newUI(true)
	u.handleServerMessage("ERROR Command not recognized.")
	if u.trailer != "Command not recognized." {
		t.Fatalf("trailer = %q", u.trailer)
	}
}

func TestRunRejectsWrongArgCount(t *testing.T) {
	if code := run([]string{"host"}); code != exitBadArgs {
		t.Fatalf("code = %d, want %d", code, exitBadArgs)
	}
	if code := run([]string{"host", "4000", "Name", "extra"}); code != exitBadArgs {
		t.Fatalf("code = %d, want %d", code, exitBadArgs)
	}
}

func TestRunRejectsNonNumericPort(t *testing.T) {
	if code := run([]string{"host", "not-a-port"}); code != exitBadArgs {
		t.Fatalf("code = %d, want %d", code, exitBadArgs)
	}
}
