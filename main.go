package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/orbit-visualization/internal/config"
	"github.com/iburimskiy/orbit-visualization/internal/game"
	"github.com/iburimskiy/orbit-visualization/internal/logging"
	"github.com/iburimskiy/orbit-visualization/internal/orbit"
	"github.com/iburimskiy/orbit-visualization/internal/store"
	"github.com/iburimskiy/orbit-visualization/internal/term"
)

type options struct {
	variant    string
	config     string
	terminal   bool
	music      string
	record     string
	state      string
	save       bool
	logDest    string
	dumpConfig string
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.variant, "variant", config.DefaultVariant, fmt.Sprintf("animation variant %v", config.Variants()))
	flag.StringVar(&o.config, "config", "", "JSON config applied over the variant")
	flag.BoolVar(&o.terminal, "terminal", false, "render in the terminal instead of a window")
	flag.StringVar(&o.music, "music", "", "soundtrack to loop (wav, mp3, flac; window mode only)")
	flag.StringVar(&o.record, "record", "", "record every frame to this sqlite file")
	flag.StringVar(&o.state, "state", "", "restore a saved state file at startup")
	flag.BoolVar(&o.save, "save", false, "save the final state on exit")
	flag.StringVar(&o.logDest, "log", "", `log destination: file path, "-" to discard (default stderr, discarded in terminal mode)`)
	flag.StringVar(&o.dumpConfig, "dump-config", "", "write the effective config to this file and exit")
	flag.Parse()
	return o
}

func loadConfig(o options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.config != "" {
		cfg, err = config.Load(o.config, o.variant)
	} else {
		cfg, err = config.Preset(o.variant)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, logging.WrapError(err, "invalid config")
	}
	return cfg, nil
}

func buildScene(cfg *config.Config, width, height int) (*orbit.SceneState, error) {
	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	bodies, err := cfg.OrbitBodies()
	if err != nil {
		return nil, err
	}
	return orbit.NewScene(params, bodies, width, height)
}

func statePath(o options) string {
	if o.state != "" {
		return o.state
	}
	return config.DefaultState
}

func run(o options) (err error) {
	logDest := o.logDest
	if o.terminal && logDest == "" {
		logDest = "-"
	}
	log, logCloser, err := logging.Open(logDest)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	cfg, err := loadConfig(o)
	if err != nil {
		return err
	}
	if o.dumpConfig != "" {
		return config.Save(cfg, o.dumpConfig)
	}

	scene, err := buildScene(cfg, config.WindowWidth, config.WindowHeight)
	if err != nil {
		return err
	}
	log.Info("scene ready",
		"variant", cfg.Variant,
		"bodies", len(scene.Bodies),
		"speed", cfg.Speed,
		"apsis_mode", cfg.ApsisMode,
		"trail", scene.Trail != nil,
		"rings", cfg.Rings)

	if o.state != "" {
		saved, err := store.LoadState(o.state)
		if err != nil {
			return err
		}
		if saved.Variant != cfg.Variant {
			log.Warn("state saved from another variant", "saved", saved.Variant, "current", cfg.Variant)
		}
		if err := scene.Restore(saved.Snapshot); err != nil {
			return logging.WrapError(err, "restore %s", o.state)
		}
		log.Info("state restored", "path", o.state, "frame", saved.Snapshot.Frame)
	}

	saveState := func() error {
		path := statePath(o)
		if err := store.SaveState(path, store.SavedState{Variant: cfg.Variant, Snapshot: scene.Snapshot()}); err != nil {
			log.Failure("state not saved", err, "path", path)
			return err
		}
		log.Info("state saved", "path", path, "frame", scene.Frame)
		return nil
	}

	var recorder *store.Recorder
	if o.record != "" {
		recorder, err = store.OpenRecorder(o.record, log)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := recorder.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		log.Info("recording frames", "path", o.record)
	}

	var driver *orbit.Driver
	if o.terminal {
		screen, serr := tcell.NewScreen()
		if serr != nil {
			return serr
		}
		if serr := screen.Init(); serr != nil {
			return serr
		}
		defer screen.Fini()

		app := term.New(screen, scene, log)
		driver = app.Driver()
		wire(driver, recorder, func() { _ = saveState() })

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err = app.Run(ctx)
	} else {
		g := game.NewGame(scene, log, game.Options{MusicPath: o.music})
		driver = g.Driver()
		wire(driver, recorder, func() {
			if serr := saveState(); serr != nil {
				g.Fail(serr)
			}
		})
		err = g.Run()
	}
	if err != nil {
		return err
	}

	if o.save {
		return saveState()
	}
	return nil
}

func wire(d *orbit.Driver, recorder *store.Recorder, save func()) {
	if recorder != nil {
		d.Observe(recorder)
	}
	d.Bind(map[orbit.Action]func(){orbit.ActionSaveState: save})
}

func main() {
	if err := run(parseFlags()); err != nil {
		fmt.Fprintln(os.Stderr, "orbits:", err)
		os.Exit(1)
	}
}
