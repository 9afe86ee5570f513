package settings

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zarux/tictactoe/pkg/player"
	"github.com/Zarux/tictactoe/pkg/tictactoe"
)

var (
	listSelectorStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}).Render
)

type Settings struct {
	Mark       tictactoe.Mark
	Difficulty player.Difficulty
}

type choiceLevel int

const (
	choiceLevelMark choiceLevel = iota
	choiceLevelDifficulty
)

var markChoices = []tictactoe.Mark{tictactoe.X, tictactoe.O}

type model struct {
	cursor      int
	choiceLevel choiceLevel
	header      string

	settings Settings

	clear     bool
	Cancelled bool
}

func (m *model) GetSettings() Settings {
	return m.settings
}

// InitialModel starts with the cursors on the given defaults.
func InitialModel(header string, defaults Settings) *model {
	cursor := 0
	if defaults.Mark == tictactoe.O {
		cursor = 1
	}

	return &model{
		header:   header,
		settings: defaults,
		cursor:   cursor,
	}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) choices() int {
	if m.choiceLevel == choiceLevelMark {
		return len(markChoices)
	}

	return len(player.Difficulties)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		m.clear = true
		m.Cancelled = true
		return m, tea.Quit

	case "enter":
		if m.choiceLevel == choiceLevelMark {
			m.settings.Mark = markChoices[m.cursor]
			m.choiceLevel++
			m.cursor = 0
			if i := slices.Index(player.Difficulties, m.settings.Difficulty); i >= 0 {
				m.cursor = i
			}
			return m, nil
		}

		m.settings.Difficulty = player.Difficulties[m.cursor]
		m.clear = true
		return m, tea.Quit

	case "down", "j":
		m.cursor++
		if m.cursor >= m.choices() {
			m.cursor = 0
		}

	case "up", "k":
		m.cursor--
		if m.cursor < 0 {
			m.cursor = m.choices() - 1
		}
	}

	return m, nil
}

func (m *model) View() string {
	if m.clear {
		return ""
	}

	s := strings.Builder{}
	s.WriteString(m.header)

	var labels []string
	if m.choiceLevel == choiceLevelMark {
		s.WriteString("Choose mark:\n")
		labels = []string{"X (first)", "O"}
	} else {
		s.WriteString("Choose AI difficulty:\n")
		for _, d := range player.Difficulties {
			labels = append(labels, d.String())
		}
	}

	for i, label := range labels {
		if m.cursor == i {
			s.WriteString(listSelectorStyle("(•) "))
		} else {
			s.WriteString(listSelectorStyle("( ) "))
		}

		s.WriteString(label)
		s.WriteString("\n")
	}

	return s.String()
}
