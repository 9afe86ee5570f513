package tictactoe

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/Zarux/tictactoe/pkg/zobrist"
)

const (
	N     = 3
	Cells = N * N
)

var (
	ErrInvalidMove = errors.New("invalid move")
	ErrOutOfRange  = errors.New("cell out of range")
)

type Mark int8

const (
	Empty Mark = 0
	X     Mark = 1
	O     Mark = -1
)

func (m Mark) String() string {
	s := " "
	if m == X {
		s = "X"
	}

	if m == O {
		s = "O"
	}

	return s
}

// Opponent returns the other mark. Empty has no opponent and maps to itself.
func (m Mark) Opponent() Mark {
	return -m
}

func (m Mark) Idx() int {
	if m == X {
		return 0
	}

	if m == O {
		return 1
	}

	return -1
}

func ParseMark(s string) (Mark, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X":
		return X, nil
	case "O":
		return O, nil
	}

	return Empty, fmt.Errorf("unknown mark %q", s)
}

// Fixed seeds keep position hashes stable between runs.
var zobristKeys = zobrist.New(Cells, rand.New(rand.NewPCG(0x7469637461, 0x63746f65)))

type Move struct {
	X int
	Y int
}

// Board is a 3x3 grid indexed row-major from 0. It is a plain value: copying
// a Board yields an independent snapshot.
type Board struct {
	cells    [Cells]Mark
	winner   Mark
	lastMove int
	hash     uint64
}

func NewBoard() *Board {
	return &Board{lastMove: -1}
}

// FromCells builds a board from a row-major layout. The winner is derived
// from the layout; a board with more than one complete line records the
// first mark found.
func FromCells(cells [Cells]Mark) *Board {
	b := NewBoard()
	for i, m := range cells {
		if m == Empty {
			continue
		}

		b.cells[i] = m
		b.hash ^= zobristKeys[i][m.Idx()]
	}

	for i, m := range cells {
		if m != Empty && b.WinningLineThrough(i, m) {
			b.winner = m
			break
		}
	}

	return b
}

func (b *Board) GetIdx(x, y int) int {
	return y*N + x
}

func (b *Board) GetMove(idx int) Move {
	return Move{
		X: idx % N,
		Y: idx / N,
	}
}

func (b *Board) Get(idx int) Mark {
	return b.cells[idx]
}

func (b *Board) Cells() [Cells]Mark {
	return b.cells
}

// Winner reports the mark that completed a line, or Empty.
func (b *Board) Winner() Mark {
	return b.winner
}

func (b *Board) LastMove() int {
	return b.lastMove
}

func (b *Board) Hash() uint64 {
	return b.hash
}

// AvailableMoves lists empty cells in ascending order.
func (b *Board) AvailableMoves() []int {
	moves := make([]int, 0, Cells)
	for i, m := range b.cells {
		if m != Empty {
			continue
		}
		moves = append(moves, i)
	}

	return moves
}

func (b *Board) HasEmptyCells() bool {
	for _, m := range b.cells {
		if m == Empty {
			return true
		}
	}

	return false
}

func (b *Board) EmptyCellCount() int {
	n := 0
	for _, m := range b.cells {
		if m == Empty {
			n++
		}
	}

	return n
}

// Terminal reports whether the board has a winner or is full.
func (b *Board) Terminal() bool {
	return b.winner != Empty || !b.HasEmptyCells()
}

// Place puts m on cell. An occupied cell is rejected with ErrInvalidMove and
// leaves the board untouched.
func (b *Board) Place(cell int, m Mark) error {
	if cell < 0 || cell >= Cells {
		return fmt.Errorf("%w: %d", ErrOutOfRange, cell)
	}

	if m != X && m != O {
		return fmt.Errorf("%w: cannot place %q", ErrInvalidMove, m)
	}

	if b.cells[cell] != Empty {
		return fmt.Errorf("%w: cell %d is taken by %s", ErrInvalidMove, cell, b.cells[cell])
	}

	b.cells[cell] = m
	b.lastMove = cell
	b.hash ^= zobristKeys[cell][m.Idx()]

	if b.WinningLineThrough(cell, m) {
		b.winner = m
	}

	return nil
}

// Undo clears cell and the recorded winner. The winner is not recomputed.
func (b *Board) Undo(cell int) {
	if cell < 0 || cell >= Cells {
		panic(fmt.Sprintf("Undo on cell %d out of range", cell))
	}

	if m := b.cells[cell]; m != Empty {
		b.hash ^= zobristKeys[cell][m.Idx()]
	}

	b.cells[cell] = Empty
	b.winner = Empty
}

// Try places m on cell and returns the function that takes it back. Callers
// defer the release so every path restores the board.
func (b *Board) Try(cell int, m Mark) (release func(), err error) {
	lastMove, winner := b.lastMove, b.winner
	if err := b.Place(cell, m); err != nil {
		return func() {}, err
	}

	return func() {
		b.Undo(cell)
		b.lastMove = lastMove
		b.winner = winner
	}, nil
}

// WinningLineThrough checks the row and column of cell and, for even
// indices, both diagonals. Only corners and the center sit on a diagonal.
func (b *Board) WinningLineThrough(cell int, m Mark) bool {
	row := cell / N
	if b.lineIs(m, row*N, 1) {
		return true
	}

	col := cell % N
	if b.lineIs(m, col, N) {
		return true
	}

	if cell%2 == 0 {
		if b.lineIs(m, 0, N+1) {
			return true
		}

		if b.lineIs(m, N-1, N-1) {
			return true
		}
	}

	return false
}

func (b *Board) lineIs(m Mark, start, step int) bool {
	for i := range N {
		if b.cells[start+i*step] != m {
			return false
		}
	}

	return true
}

// WinningLine returns the cells of a complete line of m, or nil.
func (b *Board) WinningLine(m Mark) []int {
	for _, line := range lines {
		if b.cells[line[0]] == m && b.cells[line[1]] == m && b.cells[line[2]] == m {
			return line[:]
		}
	}

	return nil
}

var lines = [][N]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

// Reset empties the board for a new game.
func (b *Board) Reset() {
	*b = Board{lastMove: -1}
}

func (b *Board) Clone() *Board {
	c := *b
	return &c
}

func (b *Board) String() string {
	s := strings.Builder{}
	for row := range N {
		s.WriteString("|")
		for col := range N {
			fmt.Fprintf(&s, " %s |", b.cells[row*N+col])
		}
		s.WriteString("\n")
	}

	return s.String()
}

// NumberedBoard renders the cell indices in board layout.
func NumberedBoard() string {
	s := strings.Builder{}
	for row := range N {
		s.WriteString("|")
		for col := range N {
			fmt.Fprintf(&s, " %d |", row*N+col)
		}
		s.WriteString("\n")
	}

	return s.String()
}
