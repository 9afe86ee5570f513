package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/Zarux/tictactoe/internal/config"
	"github.com/Zarux/tictactoe/internal/logger"
	"github.com/Zarux/tictactoe/pkg/session"
	"github.com/Zarux/tictactoe/services/game"
	"github.com/Zarux/tictactoe/services/prompt"
)

var (
	configPath = flag.String("config", getEnvOrDefault("TICTACTOE_CONFIG", "tictactoe.yaml"), "Path to the YAML config file")
	mode       = flag.String("mode", os.Getenv("TICTACTOE_MODE"), "Front end: tui or text")
	difficulty = flag.String("difficulty", os.Getenv("TICTACTOE_DIFFICULTY"), "Computer difficulty: easy, medium or hard")
	mark       = flag.String("mark", os.Getenv("TICTACTOE_MARK"), "Your mark: X (moves first) or O")
	seed       = flag.String("seed", os.Getenv("TICTACTOE_SEED"), "Random seed, 0 for a random one")
)

// getEnvOrDefault returns the environment variable or def when unset.
func getEnvOrDefault(key, def string) string {
	if env, ok := os.LookupEnv(key); ok {
		return env
	}

	return def
}

// overrides collects the flags and environment values that were given.
func overrides() map[string]interface{} {
	o := make(map[string]interface{})
	for key, v := range map[string]*string{
		"mode":       mode,
		"difficulty": difficulty,
		"mark":       mark,
		"seed":       seed,
	} {
		if *v != "" {
			o[key] = *v
		}
	}

	return o
}

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configPath, overrides())
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Options{File: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()

	s := cfg.Seed
	if s == 0 {
		s = rand.Uint64()
	}
	log.Info("starting",
		zap.String("mode", cfg.Mode),
		zap.Stringer("difficulty", cfg.Difficulty),
		zap.Stringer("mark", cfg.Mark),
		zap.Uint64("seed", s),
	)

	sessCfg := session.Config{
		Name:       cfg.Name,
		HumanMark:  cfg.Mark,
		Difficulty: cfg.Difficulty,
		Rand:       rand.New(rand.NewPCG(s, s>>1^0x5deece66d)),
		Log:        log,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logger.NewContext(ctx, log)

	if cfg.Mode == config.ModeText {
		return playText(ctx, sessCfg)
	}

	return game.New(sessCfg, log).Play()
}

func playText(ctx context.Context, cfg session.Config) error {
	log := logger.FromContext(ctx)
	p := prompt.New(os.Stdin, os.Stdout)

	name, d, err := p.Setup(ctx, cfg.Name, cfg.Difficulty)
	if err != nil {
		return err
	}
	cfg.Name = name
	cfg.Difficulty = d

	sess, err := session.New(cfg)
	if err != nil {
		return err
	}

	for {
		if _, err := p.Play(ctx, sess); err != nil {
			return err
		}

		again, err := p.PlayAgain(ctx)
		if err != nil || !again {
			log.Info("player quit", zap.Stringer("game", sess.ID))
			return err
		}

		sess.Reset()
	}
}
