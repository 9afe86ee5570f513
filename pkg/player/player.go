package player

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/Zarux/tictactoe/pkg/minimax"
	"github.com/Zarux/tictactoe/pkg/tictactoe"
)

var (
	ErrNoAvailableMoves  = errors.New("no available moves")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrGameDecided       = errors.New("game already decided")
)

type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

var Difficulties = []Difficulty{Easy, Medium, Hard}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	}

	return fmt.Sprintf("difficulty(%d)", int(d))
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}

	return Easy, fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

func (d Difficulty) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Difficulty) UnmarshalText(text []byte) error {
	v, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}

	*d = v
	return nil
}

// Policy is either Human or Computer.
type Policy interface {
	Mark() tictactoe.Mark
	policy()
}

type Human struct {
	Name   string
	Player tictactoe.Mark
}

func (h Human) Mark() tictactoe.Mark { return h.Player }
func (Human) policy()                {}

type Computer struct {
	Difficulty Difficulty
	Player     tictactoe.Mark
}

func (c Computer) Mark() tictactoe.Mark { return c.Player }
func (Computer) policy()                {}

// Name returns the display name for p.
func Name(p Policy) string {
	switch p := p.(type) {
	case Human:
		return p.Name
	case Computer:
		return fmt.Sprintf("Computer (%s)", p.Difficulty)
	}

	return ""
}

// Decision is a selected cell together with how it was found.
type Decision struct {
	Cell     int
	Searched bool
	// Score and Nodes are only set when Searched is.
	Score int
	Nodes int
}

// SelectMove picks a cell for c on b.
func SelectMove(b *tictactoe.Board, c Computer, r *rand.Rand) (int, error) {
	d, err := Decide(b, c, r)
	if err != nil {
		return minimax.NoMove, err
	}

	return d.Cell, nil
}

// Decide applies the difficulty rule. Easy draws a uniform random legal move,
// Hard takes the minimax move, Medium flips a coin between the two per move.
func Decide(b *tictactoe.Board, c Computer, r *rand.Rand) (Decision, error) {
	moves := b.AvailableMoves()
	if len(moves) == 0 {
		return Decision{Cell: minimax.NoMove}, ErrNoAvailableMoves
	}

	if w := b.Winner(); w != tictactoe.Empty {
		return Decision{Cell: minimax.NoMove}, fmt.Errorf("%w: %s has won", ErrGameDecided, w)
	}

	switch c.Difficulty {
	case Easy:
		return randomMove(moves, r), nil
	case Medium:
		if r.Float64() < 0.5 {
			return randomMove(moves, r), nil
		}
		return bestMove(b, c.Player), nil
	case Hard:
		return bestMove(b, c.Player), nil
	}

	return Decision{Cell: minimax.NoMove}, fmt.Errorf("%w: %d", ErrUnknownDifficulty, int(c.Difficulty))
}

func randomMove(moves []int, r *rand.Rand) Decision {
	return Decision{Cell: moves[r.IntN(len(moves))]}
}

func bestMove(b *tictactoe.Board, m tictactoe.Mark) Decision {
	res := minimax.Search(b, m, m)
	return Decision{
		Cell:     res.Move,
		Searched: true,
		Score:    res.Score,
		Nodes:    res.Nodes,
	}
}
