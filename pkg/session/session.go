package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Zarux/tictactoe/pkg/player"
	"github.com/Zarux/tictactoe/pkg/tictactoe"
)

var (
	ErrGameOver    = errors.New("game over")
	ErrNotYourTurn = errors.New("not your turn")
)

type Config struct {
	Name       string
	HumanMark  tictactoe.Mark
	Difficulty player.Difficulty
	// Seats overrides the human/computer pairing, indexed by Mark.Idx().
	Seats *[2]player.Policy
	Rand  *rand.Rand
	Log   *zap.Logger
}

type Outcome struct {
	Over   bool
	Winner tictactoe.Mark
}

func (o Outcome) Draw() bool {
	return o.Over && o.Winner == tictactoe.Empty
}

type Move struct {
	Turn     int
	Cell     int
	Mark     tictactoe.Mark
	Decision *player.Decision
}

// Session alternates two seats on one board, X first.
type Session struct {
	ID    uuid.UUID
	Board *tictactoe.Board

	seats   [2]player.Policy
	toMove  tictactoe.Mark
	history []Move
	outcome Outcome

	rand *rand.Rand
	log  *zap.Logger
}

func New(cfg Config) (*Session, error) {
	var seats [2]player.Policy
	if cfg.Seats != nil {
		seats = *cfg.Seats
	} else {
		human := cfg.HumanMark
		if human != tictactoe.X && human != tictactoe.O {
			return nil, fmt.Errorf("human mark must be X or O, got %q", human)
		}

		seats[human.Idx()] = player.Human{Name: cfg.Name, Player: human}
		seats[human.Opponent().Idx()] = player.Computer{Difficulty: cfg.Difficulty, Player: human.Opponent()}
	}

	for i, m := range []tictactoe.Mark{tictactoe.X, tictactoe.O} {
		if seats[i] == nil || seats[i].Mark() != m {
			return nil, fmt.Errorf("seat %d must be played by %s", i, m)
		}
	}

	r := cfg.Rand
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}

	s := &Session{
		Board: tictactoe.NewBoard(),
		seats: seats,
		rand:  r,
		log:   log,
	}
	s.Reset()

	return s, nil
}

// Reset starts a new game on the same seats.
func (s *Session) Reset() {
	s.ID = uuid.New()
	s.Board.Reset()
	s.toMove = tictactoe.X
	s.history = nil
	s.outcome = Outcome{}
	s.log.Info("new game",
		zap.Stringer("game", s.ID),
		zap.String("x", player.Name(s.seats[0])),
		zap.String("o", player.Name(s.seats[1])),
	)
}

func (s *Session) ToMove() tictactoe.Mark {
	return s.toMove
}

func (s *Session) Current() player.Policy {
	return s.seats[s.toMove.Idx()]
}

func (s *Session) Seat(m tictactoe.Mark) player.Policy {
	return s.seats[m.Idx()]
}

func (s *Session) Outcome() Outcome {
	return s.outcome
}

func (s *Session) History() []Move {
	return slices.Clone(s.history)
}

// SetDifficulty changes every computer seat, effective from the next move.
func (s *Session) SetDifficulty(d player.Difficulty) {
	for i, p := range s.seats {
		if c, ok := p.(player.Computer); ok {
			c.Difficulty = d
			s.seats[i] = c
		}
	}

	s.log.Info("difficulty changed", zap.Stringer("game", s.ID), zap.Stringer("difficulty", d))
}

// Play applies cell for the side to move regardless of seat kind.
func (s *Session) Play(cell int) (Outcome, error) {
	return s.apply(cell, nil)
}

// PlayHuman applies cell when a human is to move. Invalid cells leave the
// session unchanged so the caller can prompt again.
func (s *Session) PlayHuman(cell int) (Outcome, error) {
	if _, ok := s.Current().(player.Human); !ok {
		return s.outcome, fmt.Errorf("%w: %s is a computer", ErrNotYourTurn, s.toMove)
	}

	return s.apply(cell, nil)
}

// NextComputerMove decides on a snapshot of the board, so the live board is
// left untouched while the search runs.
func (s *Session) NextComputerMove() (player.Decision, error) {
	if s.outcome.Over {
		return player.Decision{}, ErrGameOver
	}

	c, ok := s.Current().(player.Computer)
	if !ok {
		return player.Decision{}, fmt.Errorf("%w: %s is a human", ErrNotYourTurn, s.toMove)
	}

	snapshot := s.Board.Clone()
	return player.Decide(snapshot, c, s.rand)
}

// ApplyDecision plays a decision previously returned by NextComputerMove.
func (s *Session) ApplyDecision(d player.Decision) (Outcome, error) {
	if _, ok := s.Current().(player.Computer); !ok {
		return s.outcome, fmt.Errorf("%w: %s is a human", ErrNotYourTurn, s.toMove)
	}

	return s.apply(d.Cell, &d)
}

func (s *Session) PlayComputer() (player.Decision, Outcome, error) {
	d, err := s.NextComputerMove()
	if err != nil {
		return d, s.outcome, err
	}

	o, err := s.ApplyDecision(d)
	return d, o, err
}

func (s *Session) apply(cell int, d *player.Decision) (Outcome, error) {
	if s.outcome.Over {
		return s.outcome, ErrGameOver
	}

	mark := s.toMove
	if err := s.Board.Place(cell, mark); err != nil {
		return s.outcome, err
	}

	mv := Move{
		Turn:     len(s.history),
		Cell:     cell,
		Mark:     mark,
		Decision: d,
	}
	s.history = append(s.history, mv)

	fields := []zap.Field{
		zap.Stringer("game", s.ID),
		zap.Int("turn", mv.Turn),
		zap.Int("cell", cell),
		zap.Stringer("mark", mark),
		zap.Uint64("hash", s.Board.Hash()),
	}
	if d != nil {
		source := "random"
		if d.Searched {
			source = "search"
			fields = append(fields, zap.Int("score", d.Score), zap.Int("nodes", d.Nodes))
		}
		fields = append(fields, zap.String("source", source))
	}
	s.log.Debug("move", fields...)

	switch {
	case s.Board.Winner() != tictactoe.Empty:
		s.outcome = Outcome{Over: true, Winner: s.Board.Winner()}
	case !s.Board.HasEmptyCells():
		s.outcome = Outcome{Over: true}
	default:
		s.toMove = mark.Opponent()
	}

	if s.outcome.Over {
		s.log.Info("game over",
			zap.Stringer("game", s.ID),
			zap.Stringer("winner", s.outcome.Winner),
			zap.Bool("draw", s.outcome.Draw()),
			zap.Int("moves", len(s.history)),
		)
	}

	return s.outcome, nil
}

// HumanInput supplies moves for human seats. Returning an error aborts the
// game.
type HumanInput interface {
	NextMove(ctx context.Context, b *tictactoe.Board, h player.Human) (int, error)
}

// InvalidMoveReporter is optionally implemented by a HumanInput to be told
// about rejected cells before it is asked again.
type InvalidMoveReporter interface {
	InvalidMove(cell int, err error)
}

// Run plays the current game to the end. onMove, when set, is called after
// every applied move.
func (s *Session) Run(ctx context.Context, in HumanInput, onMove func(Move)) (Outcome, error) {
	for !s.outcome.Over {
		if err := ctx.Err(); err != nil {
			return s.outcome, err
		}

		switch p := s.Current().(type) {
		case player.Human:
			cell, err := in.NextMove(ctx, s.Board, p)
			if err != nil {
				return s.outcome, err
			}

			if _, err := s.PlayHuman(cell); err != nil {
				if !errors.Is(err, tictactoe.ErrInvalidMove) && !errors.Is(err, tictactoe.ErrOutOfRange) {
					return s.outcome, err
				}

				if r, ok := in.(InvalidMoveReporter); ok {
					r.InvalidMove(cell, err)
				}
				continue
			}

		case player.Computer:
			if _, _, err := s.PlayComputer(); err != nil {
				return s.outcome, err
			}
		}

		if onMove != nil {
			onMove(s.history[len(s.history)-1])
		}
	}

	return s.outcome, nil
}
