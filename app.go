package main

import (
	"context"
	"fmt"
	"io"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/pleimann/sweepd/internal/action"
	"github.com/pleimann/sweepd/internal/config"
	"github.com/pleimann/sweepd/internal/gesture"
	"github.com/pleimann/sweepd/internal/power"
	"github.com/pleimann/sweepd/internal/pty"
	"github.com/pleimann/sweepd/internal/touch"
	"github.com/pleimann/sweepd/internal/uinput"
	"github.com/pleimann/sweepd/internal/utils"
)

type App struct {
	watcher  *config.Watcher
	switches *config.Switches
	device   *touch.Device
	engine   *gesture.Engine
	executor *action.Executor
	lock     *power.Lock
	closers  []io.Closer
}

func newApp(configPath string) (*App, error) {
	watcher, err := config.NewWatcher(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := watcher.Get()

	app := &App{
		watcher:  watcher,
		switches: config.NewSwitches(cfg.Switches),
	}

	device, err := openDevice(cfg.Device)
	if err != nil {
		watcher.Stop()
		return nil, err
	}
	app.device = device

	geometry, err := resolveGeometry(cfg.Screen, device)
	if err != nil {
		app.close()
		return nil, err
	}

	performer, err := app.newPerformer(cfg.Action)
	if err != nil {
		app.close()
		return nil, err
	}
	app.executor = action.NewExecutor(performer)

	app.lock = power.NewLock(app.newInhibitor(cfg.Power))

	recognizer := gesture.NewRecognizer(
		geometry,
		app.executor,
		app.lock,
		time.Duration(cfg.Power.WakelockTimeoutMs)*time.Millisecond,
	)
	app.engine = gesture.NewEngine(recognizer, app.switches, newScreen(cfg.Power))

	watcher.OnReload(func(c *config.Config) {
		app.switches.Apply(c.Switches)
		log.WithFields(log.Fields{
			"sweep2sleep": app.switches.Sleep(),
			"sweep2wake":  app.switches.WakeEnabled(),
		}).Info("Switches updated")
	})

	log.WithFields(log.Fields{
		"device":  device.Path(),
		"name":    device.Name(),
		"width":   geometry.Width,
		"height":  geometry.Height,
		"band":    geometry.BandMin,
		"forward": geometry.Forward,
		"reverse": geometry.Reverse,
	}).Debug("Gesture geometry")

	return app, nil
}

// openDevice opens the configured touchscreen, or the first one found
func openDevice(cfg config.DeviceConfig) (*touch.Device, error) {
	path := cfg.Path
	if path == "" {
		info, err := touch.FindDevice(cfg.Name)
		if err != nil {
			return nil, err
		}
		path = info.Path
	}

	device, err := touch.NewDevice(path, cfg.Grab)
	if err != nil {
		return nil, err
	}
	return device, nil
}

func resolveGeometry(screen config.ScreenConfig, device *touch.Device) (gesture.Geometry, error) {
	w, h := device.Resolution()
	geometry, err := gesture.NewGeometry(screen.ResolveScreen(w, h))
	if err != nil {
		return gesture.Geometry{}, fmt.Errorf("invalid screen geometry: %w", err)
	}
	return geometry, nil
}

func (a *App) newPerformer(cfg config.ActionConfig) (action.Performer, error) {
	switch cfg.Target {
	case config.TargetCommand:
		runner, err := pty.NewRunner(cfg.Command, cfg.Args, "")
		if err != nil {
			return nil, fmt.Errorf("failed to create command action: %w", err)
		}
		return runner, nil
	default:
		key, err := action.ParseKey(cfg.Key)
		if err != nil {
			return nil, fmt.Errorf("invalid action.key: %w", err)
		}
		keyboard, err := uinput.NewKeyboard(key)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, keyboard)
		return action.NewKeyAction(keyboard, key, time.Duration(cfg.HoldMs)*time.Millisecond), nil
	}
}

func (a *App) newInhibitor(cfg config.PowerConfig) power.Inhibitor {
	if !cfg.Inhibit {
		return power.NopInhibitor{}
	}
	logind, err := power.NewLogind(utils.ExecutableName(), "sweep gesture in progress")
	if err != nil {
		log.WithError(err).Warn("Suspend inhibition unavailable")
		return power.NopInhibitor{}
	}
	a.closers = append(a.closers, logind)
	return logind
}

func newScreen(cfg config.PowerConfig) gesture.Screen {
	backlight, err := power.NewBacklight(cfg.Backlight, power.DefaultScreenTTL)
	if err != nil {
		log.WithError(err).Warn("No backlight found, treating the screen as always on")
		return power.Static(true)
	}
	log.WithField("path", backlight.Path()).Debug("Reading screen state")
	return backlight
}

func (a *App) Run(ctx context.Context) error {
	a.watcher.Start()

	events := make(chan touch.Event, 64)
	readErr := make(chan error, 1)
	go func() {
		readErr <- a.device.ReadEvents(ctx, events)
		close(events)
	}()

	log.WithFields(log.Fields{
		"device":      a.device.Path(),
		"sweep2sleep": a.switches.Sleep(),
		"sweep2wake":  a.switches.WakeEnabled(),
	}).Info("Watching for sweeps")

	err := a.engine.Run(ctx, events)
	a.shutdown()

	if ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return err
	}
	if rerr := <-readErr; rerr != nil {
		return fmt.Errorf("touchscreen disconnected: %w", rerr)
	}
	return fmt.Errorf("touchscreen disconnected")
}

func (a *App) shutdown() {
	log.Debug("Shutting down...")
	a.engine.Stop()
	a.executor.Stop()
	a.lock.Release()

	performed, dropped := a.executor.Stats()
	log.WithFields(log.Fields{
		"performed": performed,
		"dropped":   dropped,
	}).Info("Stopped")

	a.close()
}

func (a *App) close() {
	a.watcher.Stop()
	if a.device != nil {
		a.device.Close()
	}
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			log.WithError(err).Debug("Close failed")
		}
	}
}
