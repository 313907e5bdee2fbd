package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/cfart/audio"
	"github.com/lixenwraith/cfart/clock"
	"github.com/lixenwraith/cfart/config"
	"github.com/lixenwraith/cfart/logging"
	"github.com/lixenwraith/cfart/render"
	"github.com/lixenwraith/cfart/session"
	"github.com/lixenwraith/cfart/sink"
	"github.com/lixenwraith/cfart/terminal"
)

const submitDrainTimeout = 3 * time.Second

var (
	configFlag = flag.String("config", "", "Path to config file (default: search for cfart.{toml,yaml,json})")
	debugFlag  = flag.Bool("debug", false, "Enable debug logging to logs/cfart.log")
)

func main() {
	// Panic Recovery: Ensure terminal is reset even if the game crashes
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\n\x1b[31mCFART CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "cfart: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, v, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	if *debugFlag {
		cfg.Logging.Debug = true
	}

	logger, closeLog, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer closeLog()
	logger.Info("starting", zap.String("config", v.ConfigFileUsed()), zap.Int("trials", cfg.Game.Trials))

	if err := terminal.RequireTTY(os.Stdin, os.Stdout); err != nil {
		return err
	}

	out, err := sink.New(cfg.Export, logger.Named("sink"))
	if err != nil {
		return err
	}
	defer func() {
		if !out.Wait(submitDrainTimeout) {
			logger.Warn("summary submission still in flight at exit")
		}
	}()

	sess := session.New(session.Options{
		Game:        cfg.Game.ToGame(),
		Sink:        out,
		Logger:      logger.Named("session"),
		DetailFile:  cfg.Export.DetailFile,
		SummaryFile: cfg.Export.SummaryFile,
	})

	config.Watch(v, logger.Named("config"), func(next *config.Config) {
		sess.UpdateConfig(next.Game.ToGame())
	})

	player := audio.NewPlayer(cfg.Audio, logger.Named("audio"))
	if err := player.Initialize(); err != nil {
		// Non-fatal, the test runs without sound
		logger.Warn("audio initialization failed", zap.Error(err))
	}
	defer player.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	// Normal exit terminal cleanup; also runs before the crash handler in main
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	game := cfg.Game.ToGame()
	a := &app{
		screen:   screen,
		renderer: render.NewTerminalRenderer(screen, game.Width, game.Height),
		sess:     sess,
		player:   player,
		watch:    clock.NewStopwatch(clock.NewMonotonicTimeProvider()),
		log:      logger,
	}
	a.run()

	logger.Info("exiting", zap.Int("trialsDone", sess.State().TrialsDone))
	return nil
}
