package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Zarux/tictactoe/pkg/player"
	"github.com/Zarux/tictactoe/pkg/session"
	"github.com/Zarux/tictactoe/pkg/tictactoe"
)

// Service runs games on a line based terminal.
type Service struct {
	in  *bufio.Scanner
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Service {
	return &Service{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

func (s *Service) readLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	return strings.TrimSpace(s.in.Text()), nil
}

// Setup asks for the player's name and the difficulty. Empty answers keep
// the given defaults.
func (s *Service) Setup(ctx context.Context, name string, d player.Difficulty) (string, player.Difficulty, error) {
	line, err := s.readLine(ctx, fmt.Sprintf("Enter your name [%s]: ", name))
	if err != nil {
		return "", d, err
	}
	if line != "" {
		name = line
	}

	for {
		line, err := s.readLine(ctx, fmt.Sprintf("Choose AI difficulty: easy, medium, hard [%s]: ", d))
		if err != nil {
			return "", d, err
		}
		if line == "" {
			return name, d, nil
		}

		chosen, err := player.ParseDifficulty(line)
		if err == nil {
			return name, chosen, nil
		}
		fmt.Fprintln(s.out, "Unknown difficulty. Try again.")
	}
}

// NextMove implements session.HumanInput.
func (s *Service) NextMove(ctx context.Context, _ *tictactoe.Board, h player.Human) (int, error) {
	for {
		line, err := s.readLine(ctx, fmt.Sprintf("%s's turn. Input move (0-%d): ", h.Name, tictactoe.Cells-1))
		if err != nil {
			return 0, err
		}

		cell, err := strconv.Atoi(line)
		if err == nil {
			return cell, nil
		}
		fmt.Fprintln(s.out, "Invalid square. Try again.")
	}
}

// InvalidMove implements session.InvalidMoveReporter.
func (s *Service) InvalidMove(int, error) {
	fmt.Fprintln(s.out, "Invalid square. Try again.")
}

// Play runs one game on sess and announces the result.
func (s *Service) Play(ctx context.Context, sess *session.Session) (session.Outcome, error) {
	fmt.Fprint(s.out, tictactoe.NumberedBoard())

	o, err := sess.Run(ctx, s, func(m session.Move) {
		fmt.Fprintf(s.out, "%s makes a move to square %d\n", m.Mark, m.Cell)
		fmt.Fprint(s.out, sess.Board)
	})
	if err != nil {
		return o, err
	}

	if o.Draw() {
		fmt.Fprintln(s.out, "It's a tie!")
	} else {
		fmt.Fprintf(s.out, "%s wins!\n", o.Winner)
	}

	return o, nil
}

// PlayAgain asks whether to start another game. End of input means no.
func (s *Service) PlayAgain(ctx context.Context) (bool, error) {
	line, err := s.readLine(ctx, "Play again? [y/N]: ")
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return strings.EqualFold(line, "y") || strings.EqualFold(line, "yes"), nil
}
