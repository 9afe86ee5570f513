package player

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/Zarux/tictactoe/pkg/tictactoe"
)

func boardOf(t *testing.T, layout string) *tictactoe.Board {
	t.Helper()

	var cells [tictactoe.Cells]tictactoe.Mark
	for i, c := range layout {
		switch c {
		case 'X':
			cells[i] = tictactoe.X
		case 'O':
			cells[i] = tictactoe.O
		}
	}

	return tictactoe.FromCells(cells)
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func TestHardCompletesRow(t *testing.T) {
	b := boardOf(t, "XX.OO....")

	cell, err := SelectMove(b, Computer{Difficulty: Hard, Player: tictactoe.X}, seeded(1))
	if err != nil {
		t.Fatal(err)
	}
	if cell != 2 {
		t.Fatalf("expected 2, got %d", cell)
	}
}

func TestHardDecisionCarriesSearchDetails(t *testing.T) {
	d, err := Decide(boardOf(t, "XX.OO...."), Computer{Difficulty: Hard, Player: tictactoe.X}, seeded(1))
	if err != nil {
		t.Fatal(err)
	}
	if !d.Searched || d.Score != 5 || d.Nodes == 0 {
		t.Fatalf("unexpected decision %+v", d)
	}
}

func TestSoleCellForEveryDifficulty(t *testing.T) {
	for _, diff := range Difficulties {
		for seed := range uint64(20) {
			b := boardOf(t, "XOXXOOOX.")
			cell, err := SelectMove(b, Computer{Difficulty: diff, Player: tictactoe.X}, seeded(seed))
			if err != nil {
				t.Fatalf("%s: %v", diff, err)
			}
			if cell != 8 {
				t.Fatalf("%s: expected the only empty cell 8, got %d", diff, cell)
			}
		}
	}
}

func TestFullBoardIsAnError(t *testing.T) {
	for _, diff := range Difficulties {
		_, err := SelectMove(boardOf(t, "XOXXOOOXX"), Computer{Difficulty: diff, Player: tictactoe.X}, seeded(1))
		if !errors.Is(err, ErrNoAvailableMoves) {
			t.Fatalf("%s: expected ErrNoAvailableMoves, got %v", diff, err)
		}
	}
}

func TestDecidedBoardIsAnError(t *testing.T) {
	_, err := SelectMove(boardOf(t, "XXXOO...."), Computer{Difficulty: Easy, Player: tictactoe.O}, seeded(1))
	if !errors.Is(err, ErrGameDecided) {
		t.Fatalf("expected ErrGameDecided, got %v", err)
	}
}

func TestUnknownDifficulty(t *testing.T) {
	_, err := SelectMove(tictactoe.NewBoard(), Computer{Difficulty: Difficulty(7), Player: tictactoe.X}, seeded(1))
	if !errors.Is(err, ErrUnknownDifficulty) {
		t.Fatalf("expected ErrUnknownDifficulty, got %v", err)
	}
}

func TestEasyIsLegalAndCoversAllCells(t *testing.T) {
	b := boardOf(t, "X...O....")
	legal := b.AvailableMoves()
	r := seeded(42)

	hits := make(map[int]int)
	for range 2000 {
		d, err := Decide(b, Computer{Difficulty: Easy, Player: tictactoe.X}, r)
		if err != nil {
			t.Fatal(err)
		}
		if d.Searched {
			t.Fatalf("easy must never search")
		}
		if !slices.Contains(legal, d.Cell) {
			t.Fatalf("illegal cell %d", d.Cell)
		}
		hits[d.Cell]++
	}

	for _, cell := range legal {
		if hits[cell] < 150 {
			t.Fatalf("cell %d picked %d times out of 2000, expected roughly uniform draws", cell, hits[cell])
		}
	}
}

func TestSameSeedSameMoves(t *testing.T) {
	for _, diff := range []Difficulty{Easy, Medium} {
		a, b := seeded(7), seeded(7)
		for range 50 {
			board := tictactoe.NewBoard()
			ca, err := SelectMove(board, Computer{Difficulty: diff, Player: tictactoe.X}, a)
			if err != nil {
				t.Fatal(err)
			}
			cb, err := SelectMove(board, Computer{Difficulty: diff, Player: tictactoe.X}, b)
			if err != nil {
				t.Fatal(err)
			}
			if ca != cb {
				t.Fatalf("%s: same seed produced %d and %d", diff, ca, cb)
			}
		}
	}
}

func TestMediumMixesRandomAndSearch(t *testing.T) {
	b := boardOf(t, "XX.OO....")
	r := seeded(99)

	var searched, random int
	for range 400 {
		d, err := Decide(b, Computer{Difficulty: Medium, Player: tictactoe.X}, r)
		if err != nil {
			t.Fatal(err)
		}
		if d.Searched {
			searched++
			if d.Cell != 2 {
				t.Fatalf("searched medium move must be optimal, got %d", d.Cell)
			}
			continue
		}
		random++
	}

	if searched < 140 || random < 140 {
		t.Fatalf("expected a rough 50/50 split, got %d searched and %d random", searched, random)
	}
}

// firstThen yields first once, then defers to rest.
type firstThen struct {
	first uint64
	used  bool
	rest  rand.Source
}

func (s *firstThen) Uint64() uint64 {
	if !s.used {
		s.used = true
		return s.first
	}

	return s.rest.Uint64()
}

func TestMediumCoinDirection(t *testing.T) {
	b := boardOf(t, "XX.OO....")
	c := Computer{Difficulty: Medium, Player: tictactoe.X}

	// A zero word gives Float64() == 0, below one half.
	low := rand.New(&firstThen{first: 0, rest: rand.NewPCG(1, 2)})
	d, err := Decide(b, c, low)
	if err != nil {
		t.Fatal(err)
	}
	if d.Searched {
		t.Fatalf("a draw below 0.5 must play the random move, got %+v", d)
	}

	high := rand.New(&firstThen{first: ^uint64(0), rest: rand.NewPCG(1, 2)})
	d, err = Decide(b, c, high)
	if err != nil {
		t.Fatal(err)
	}
	if !d.Searched || d.Cell != 2 {
		t.Fatalf("a draw at or above 0.5 must play the search move, got %+v", d)
	}
}

func TestHardNeverLosesAgainstEasy(t *testing.T) {
	r := seeded(5)
	for game := range 100 {
		b := tictactoe.NewBoard()
		hard := Computer{Difficulty: Hard, Player: tictactoe.O}
		easy := Computer{Difficulty: Easy, Player: tictactoe.X}

		var cur Computer = easy
		for !b.Terminal() {
			cell, err := SelectMove(b, cur, r)
			if err != nil {
				t.Fatal(err)
			}
			if err := b.Place(cell, cur.Player); err != nil {
				t.Fatal(err)
			}

			if cur == easy {
				cur = hard
			} else {
				cur = easy
			}
		}

		if b.Winner() == tictactoe.X {
			t.Fatalf("game %d: hard lost\n%s", game, b)
		}
	}
}

func TestParseDifficulty(t *testing.T) {
	for in, want := range map[string]Difficulty{"easy": Easy, "Medium": Medium, " HARD ": Hard} {
		got, err := ParseDifficulty(in)
		if err != nil || got != want {
			t.Fatalf("ParseDifficulty(%q) = %v, %v", in, got, err)
		}
	}

	if _, err := ParseDifficulty("insane"); !errors.Is(err, ErrUnknownDifficulty) {
		t.Fatalf("expected ErrUnknownDifficulty, got %v", err)
	}
}

func TestDifficultyText(t *testing.T) {
	var d Difficulty
	if err := d.UnmarshalText([]byte("hard")); err != nil || d != Hard {
		t.Fatalf("UnmarshalText: %v, %v", d, err)
	}

	text, err := Medium.MarshalText()
	if err != nil || string(text) != "medium" {
		t.Fatalf("MarshalText: %q, %v", text, err)
	}
}

func TestName(t *testing.T) {
	if got := Name(Human{Name: "Ada", Player: tictactoe.X}); got != "Ada" {
		t.Fatalf("unexpected human name %q", got)
	}
	if got := Name(Computer{Difficulty: Hard, Player: tictactoe.O}); got != "Computer (hard)" {
		t.Fatalf("unexpected computer name %q", got)
	}
}
