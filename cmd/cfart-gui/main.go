// Command cfart-gui runs the clock-face reaction test in a desktop window.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/cfart/audio"
	"github.com/lixenwraith/cfart/clock"
	"github.com/lixenwraith/cfart/config"
	"github.com/lixenwraith/cfart/logging"
	"github.com/lixenwraith/cfart/session"
	"github.com/lixenwraith/cfart/sink"
)

const (
	windowTitle        = "Clock Face Accuracy Reaction Test (CFART)"
	submitDrainTimeout = 3 * time.Second
)

var (
	configFlag = flag.String("config", "", "Path to config file (default: search for cfart.{toml,yaml,json})")
	debugFlag  = flag.Bool("debug", false, "Enable debug logging to logs/cfart.log")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "cfart-gui: %v\n", err)
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
		logger.Warn("audio initialization failed", zap.Error(err))
	}
	defer player.Close()

	g := &Game{
		sess:   sess,
		player: player,
		watch:  clock.NewStopwatch(clock.NewMonotonicTimeProvider()),
		log:    logger,
	}

	ebiten.SetWindowSize(int(cfg.Game.Width), int(cfg.Game.Height))
	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	logger.Info("starting", zap.String("config", v.ConfigFileUsed()), zap.Int("trials", cfg.Game.Trials))
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run game: %w", err)
	}
	logger.Info("exiting", zap.Int("trialsDone", sess.State().TrialsDone))
	return nil
}
