package game

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/Zarux/tictactoe/pkg/session"
	"github.com/Zarux/tictactoe/services/game/game"
	"github.com/Zarux/tictactoe/services/game/settings"
)

type Service struct {
	cfg session.Config
	log *zap.Logger
}

// New takes the session defaults. Mark and difficulty are confirmed on the
// settings screen before the first game.
func New(cfg session.Config, log *zap.Logger) *Service {
	return &Service{
		cfg: cfg,
		log: log,
	}
}

func (s *Service) Play() error {
	settingsModel := settings.InitialModel(header(), settings.Settings{
		Mark:       s.cfg.HumanMark,
		Difficulty: s.cfg.Difficulty,
	})
	p := tea.NewProgram(settingsModel, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	if settingsModel.Cancelled {
		return nil
	}

	chosen := settingsModel.GetSettings()
	cfg := s.cfg
	cfg.HumanMark = chosen.Mark
	cfg.Difficulty = chosen.Difficulty

	sess, err := session.New(cfg)
	if err != nil {
		return err
	}

	for {
		gameModel := game.InitialModel(header(), sess)

		p = tea.NewProgram(gameModel, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("game ui: %w", err)
		}

		if !gameModel.Replay {
			s.log.Info("player quit", zap.Stringer("game", sess.ID))
			return nil
		}

		sess.Reset()
	}
}

var (
	headerStyle1 = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#4204b5ff", Dark: "#4204b5ff"}).Render
	headerStyle2 = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#19b504ff", Dark: "#19b504ff"}).Render
	headerStyle3 = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#b55404ff", Dark: "#b55404ff"}).Render
)

func header() string {
	return fmt.Sprintf(
		"%s %s %s %s %s\n\n",
		headerStyle2("---"),
		headerStyle1("Tic"),
		headerStyle2("Tac"),
		headerStyle3("Toe"),
		headerStyle2("---"),
	)
}
