package game

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zarux/tictactoe/pkg/player"
	"github.com/Zarux/tictactoe/pkg/session"
	"github.com/Zarux/tictactoe/pkg/tictactoe"
)

type model struct {
	session *session.Session
	cursor  int
	spinner spinner.Model
	header  string

	thinking  bool
	last      *player.Decision
	thinkTime time.Duration
	notice    string
	err       error

	Replay bool
}

var (
	p1Style              = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#007e50ff", Dark: "#6afd76ff"}).Render
	p2Style              = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#0003adff", Dark: "#5f61fcff"}).Render
	cursorStyle          = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#960000ff", Dark: "#fc7e7eff"}).Render
	winningRowStyle      = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#bb0000ff", Dark: "#df1010ff"}).Render
	lastWinningRowStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#f80000ff", Dark: "#f18787ff"}).Render
	bracketStyle         = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#414141ff", Dark: "#8f8f8fff"}).Render
	lastMoveBracketStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000ff", Dark: "#ffffffff"}).Render
	statStyle1           = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#8a880fff", Dark: "#ddda1dff"}).Render
	statStyle2           = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#138a0fff", Dark: "#1ddd37ff"}).Render
)

var thinkingColors = []func(strs ...string) string{
	bracketStyle,
	lastMoveBracketStyle,
}

func InitialModel(header string, sess *session.Session) *model {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := &model{
		session: sess,
		spinner: s,
		header:  header,
	}
	m.cursor = m.firstFree()

	return m
}

func (m *model) Init() tea.Cmd {
	return m.maybeStartBot()
}

func (m *model) botTurn() bool {
	_, ok := m.session.Current().(player.Computer)
	return ok && !m.session.Outcome().Over
}

func (m *model) maybeStartBot() tea.Cmd {
	if !m.botTurn() {
		return nil
	}

	m.thinking = true
	return tea.Batch(m.spinner.Tick, m.botMove())
}

type botDoneMsg struct {
	decision  player.Decision
	thinkTime time.Duration
	err       error
}

// botMove decides off the UI goroutine. The session decides on a board
// snapshot and the decision is applied in Update.
func (m *model) botMove() tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		t := time.Now()
		d, err := sess.NextComputerMove()
		return botDoneMsg{
			decision:  d,
			thinkTime: time.Since(t),
			err:       err,
		}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case botDoneMsg:
		m.thinking = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		if _, err := m.session.ApplyDecision(msg.decision); err != nil {
			m.err = err
			return m, nil
		}

		m.last = &msg.decision
		m.thinkTime = msg.thinkTime
		m.cursor = m.firstFree()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "right":
			m.cursor, _ = m.moveRight()
		case "left":
			m.cursor, _ = m.moveLeft()
		case "up":
			m.cursor = m.moveVertical(-tictactoe.N)
		case "down":
			m.cursor = m.moveVertical(tictactoe.N)

		case "1", "2", "3":
			if m.thinking {
				m.notice = "Wait for the computer to finish its move"
				return m, nil
			}

			n, _ := strconv.Atoi(msg.String())
			d := player.Difficulties[n-1]
			m.session.SetDifficulty(d)
			m.notice = fmt.Sprintf("Difficulty set to %s", d)

		case "enter":
			if m.session.Outcome().Over {
				m.Replay = true
				return m, tea.Quit
			}

			if m.thinking || m.botTurn() {
				return m, nil
			}

			if _, err := m.session.PlayHuman(m.cursor); err != nil {
				m.notice = "Invalid square. Try again."
				return m, nil
			}

			m.notice = ""
			m.cursor = m.firstFree()
			return m, m.maybeStartBot()
		}

	default:
		if !m.thinking {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *model) free(idx int) bool {
	return m.session.Board.Get(idx) == tictactoe.Empty
}

func (m *model) firstFree() int {
	moves := m.session.Board.AvailableMoves()
	if len(moves) == 0 || m.session.Outcome().Over {
		return -1
	}

	return moves[0]
}

func (m *model) moveRight() (int, bool) {
	for c := m.cursor + 1; c >= 0 && c < tictactoe.Cells; c++ {
		if m.free(c) {
			return c, true
		}
	}

	return m.cursor, false
}

func (m *model) moveLeft() (int, bool) {
	for c := m.cursor - 1; c >= 0; c-- {
		if m.free(c) {
			return c, true
		}
	}

	return m.cursor, false
}

func (m *model) moveVertical(step int) int {
	if m.cursor < 0 {
		return m.cursor
	}

	for c := m.cursor + step; c >= 0 && c < tictactoe.Cells; c += step {
		if m.free(c) {
			return c
		}
	}

	return m.cursor
}

func markStyle(p tictactoe.Mark) string {
	switch p {
	case tictactoe.X:
		return p1Style(p.String())
	case tictactoe.O:
		return p2Style(p.String())
	}

	return p.String()
}

func (m *model) View() string {
	outcome := m.session.Outcome()
	if outcome.Over && m.Replay {
		return ""
	}

	board := m.session.Board

	var highlights []int
	if outcome.Over && outcome.Winner != tictactoe.Empty {
		highlights = board.WinningLine(outcome.Winner)
	}

	s := m.header

	current := m.session.Current()
	s += "Current player: " + markStyle(current.Mark())
	s += " " + player.Name(current)
	if m.thinking {
		s += " " + m.spinner.View()
	}
	s += "\n"

	for i, p := range board.Cells() {
		mark := p.String()
		if m.cursor == i && !outcome.Over {
			mark = cursorStyle("*")
		}

		if m.thinking && p == tictactoe.Empty {
			mark = []string{"o", "x", " ", " "}[rand.N(4)]
			mark = thinkingColors[rand.IntN(len(thinkingColors))](mark)
		}

		if p != tictactoe.Empty {
			mark = markStyle(p)
		}

		bStyle := bracketStyle
		winningRow := slices.Contains(highlights, i)

		if winningRow {
			bStyle = winningRowStyle
		}

		if board.LastMove() == i && p != tictactoe.Empty {
			bStyle = lastMoveBracketStyle
			if winningRow {
				bStyle = lastWinningRowStyle
			}
		}

		s += fmt.Sprintf("%s%s%s", bStyle("["), mark, bStyle("]"))
		if (i+1)%tictactoe.N == 0 {
			s += "\n"
		}
	}

	if d := m.last; d != nil && !m.thinking {
		s += "\n"
		mv := board.GetMove(d.Cell)
		found := fmt.Sprintf("(%d, %d)", mv.X+1, mv.Y+1)
		if d.Searched {
			s += fmt.Sprintf(
				"Found move: %s by search in %s\nVisited %s positions - Score: %s\n",
				statStyle1(found),
				statStyle2(m.thinkTime.Round(time.Microsecond).String()),
				statStyle2(strconv.Itoa(d.Nodes)),
				statStyle1(strconv.Itoa(d.Score)),
			)
		} else {
			s += fmt.Sprintf("Found move: %s at random\n", statStyle1(found))
		}
	}

	if m.notice != "" {
		s += "\n" + cursorStyle(m.notice) + "\n"
	}

	if m.err != nil {
		s += "\n" + cursorStyle("ERROR: "+m.err.Error()) + "\n"
	}

	if outcome.Over {
		s += "\n" + gameOverText

		s += "\nTHE WINNER IS: "
		if outcome.Winner == tictactoe.Empty {
			s += cursorStyle("NO ONE\n")
			return s
		}

		s += markStyle(outcome.Winner) + "\n"
		return s
	}

	s += "\n1/2/3: easy/medium/hard  enter: play  q: quit\n"
	return s
}

const gameOverText = `ＧＡＭＥ ＯＶＥＲ`
