package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/pleimann/sweepd/internal/config"
	"github.com/pleimann/sweepd/internal/daemon"
	"github.com/pleimann/sweepd/internal/display"
	"github.com/pleimann/sweepd/internal/gesture"
	"github.com/pleimann/sweepd/internal/power"
	"github.com/pleimann/sweepd/internal/touch"
	"github.com/pleimann/sweepd/internal/ui"
	"github.com/pleimann/sweepd/internal/utils"
)

const Version = "0.1.0"

func main() {
	exitCode := 0
	defer func() {
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	}()

	// Check for subcommands first
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "run":
			os.Args = append(os.Args[:1], os.Args[2:]...)
		case "list-devices":
			runListDevices()
			return
		case "set-device", "select-device":
			runSetDevice(os.Args[2:])
			return
		case "set":
			runSet(os.Args[2:])
			return
		case "status":
			runStatus(os.Args[2:])
			return
		case "monitor":
			runMonitor(os.Args[2:])
			return
		case "version":
			ui.PrintVersion(Version)
			return
		case "help", "-h", "--help":
			printUsage()
			os.Exit(0)
		}
	}

	// Main command flags
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	detach := flag.Bool("detach", false, "run in the background")
	pidFile := flag.String("pidfile", "", "write the daemon pid to this file")
	logFile := flag.String("logfile", "", "daemon log file")
	version := flag.Bool("version", false, "print version and exit")

	flag.Usage = printUsage
	flag.Parse()

	if *version {
		ui.PrintVersion(Version)
		os.Exit(0)
	}

	utils.SetupLogging(os.Stderr, *verbose)

	if *detach {
		d, err := daemon.Daemonize(*pidFile, *logFile)
		if err != nil {
			ui.PrintFatalError("Failed to start daemon", err.Error())
			os.Exit(1)
		}
		if d.IsParent() {
			fmt.Printf("%s running in the background (pid %d)\n", utils.ExecutableName(), d.Child.Pid)
			return
		}
		defer d.Release()
		log.WithField("pid", os.Getpid()).Info("Running detached")
	}

	if err := run(*configPath); err != nil {
		log.WithError(err).Error("Stopped with error")
		exitCode = 1
		return
	}

	log.Debug("Shutdown complete")
}

func run(configPath string) error {
	ctx, cancel := signalContext()
	defer cancel()

	app, err := newApp(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	return app.Run(ctx)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			log.Debug("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

func printUsage() {
	ui.PrintUsage(Version)
}

func toUIDevices(devices []touch.DeviceInfo) []ui.DeviceInfo {
	out := make([]ui.DeviceInfo, len(devices))
	for i, d := range devices {
		out[i] = ui.DeviceInfo{
			Path:        d.Path,
			Name:        d.Name,
			Touchscreen: d.Touchscreen,
			Width:       d.Width,
			Height:      d.Height,
		}
	}
	return out
}

// runListDevices handles the list-devices subcommand
func runListDevices() {
	devices, err := touch.ListDevices()
	if err != nil {
		ui.PrintFatalError("Failed to list devices", err.Error())
		os.Exit(1)
	}
	ui.PrintDeviceList(toUIDevices(devices))
}

// runSetDevice handles the set-device subcommand
func runSetDevice(args []string) {
	fs := flag.NewFlagSet("set-device", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to configuration file")
	fs.Usage = func() {
		ui.PrintSetDeviceUsage()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	var devicePath string

	switch remaining := fs.Args(); len(remaining) {
	case 0:
		devices, err := touch.ListDevices()
		if err != nil {
			ui.PrintFatalError("Device selection failed", err.Error())
			os.Exit(1)
		}
		device, err := ui.SelectDevice(toUIDevices(devices))
		if err != nil {
			ui.PrintFatalError("Device selection failed", err.Error())
			os.Exit(1)
		}
		if device == nil {
			fmt.Println(ui.Muted("No device selected"))
			os.Exit(0)
		}
		devicePath = device.Path
	case 1:
		devicePath = remaining[0]
		if _, err := os.Stat(devicePath); err != nil {
			ui.PrintFatalError("Invalid device path", err.Error())
			os.Exit(1)
		}
	default:
		ui.PrintFatalError("Invalid arguments", "Expected at most one device path")
		os.Exit(1)
	}

	// Update or create config file
	if config.Exists(*configPath) {
		if err := config.UpdateDevicePath(*configPath, devicePath); err != nil {
			ui.PrintFatalError("Failed to update config", err.Error())
			os.Exit(1)
		}
		ui.PrintDeviceUpdated(*configPath, devicePath)
	} else {
		if err := config.CreateDefaultConfig(*configPath, devicePath); err != nil {
			ui.PrintFatalError("Failed to create config", err.Error())
			os.Exit(1)
		}
		ui.PrintDeviceCreated(*configPath, devicePath)
	}
}

// runSet handles the set subcommand. The running daemon applies the change
// when its config watcher sees the write.
func runSet(args []string) {
	fs := flag.NewFlagSet("set", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to configuration file")
	fs.Usage = func() {
		ui.PrintSetUsage()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	remaining := fs.Args()
	if len(remaining) != 2 {
		ui.PrintSetUsage()
		os.Exit(1)
	}
	name, value := remaining[0], remaining[1]

	cfg, err := config.Load(*configPath)
	if err != nil {
		ui.PrintFatalError("Failed to load config", err.Error())
		os.Exit(1)
	}

	switches := config.NewSwitches(cfg.Switches)
	if err := switches.Set(name, value); err != nil {
		if errors.Is(err, config.ErrSwitchLocked) {
			ui.PrintFatalError("Switch is locked", "Edit switches.sweep2sleep in "+*configPath+" to unlock it")
		} else {
			ui.PrintFatalError("Invalid switch", err.Error())
		}
		os.Exit(1)
	}

	if err := config.UpdateSwitch(*configPath, name, value); err != nil {
		ui.PrintFatalError("Failed to update config", err.Error())
		os.Exit(1)
	}
	ui.PrintSwitchUpdated(*configPath, name, value)
}

// runStatus handles the status subcommand
func runStatus(args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to configuration file")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		ui.PrintFatalError("Failed to load config", err.Error())
		os.Exit(1)
	}

	switches := config.NewSwitches(cfg.Switches)
	wake := "off"
	if switches.WakeEnabled() {
		wake = "on"
	}

	status := ui.Status{
		ConfigPath: *configPath,
		Device:     cfg.Device.Path,
		Sleep:      switches.Sleep().String(),
		Wake:       wake,
		Action:     describeAction(cfg.Action),
	}

	if backlight, err := power.NewBacklight(cfg.Power.Backlight, 0); err == nil {
		status.Backlight = backlight.Path()
		status.ScreenOn = backlight.IsOn()
	}

	screen := cfg.Screen
	if screen.Width == 0 {
		status.Geometry = append(status.Geometry, "Panel size is read from the device at startup")
		screen = screen.ResolveScreen(0, 0)
	}
	if geometry, err := gesture.NewGeometry(screen); err == nil {
		status.Geometry = append(status.Geometry,
			fmt.Sprintf("%dx%d, band y > %d", geometry.Width, geometry.Height, geometry.BandMin),
			geometry.Forward.String(),
			geometry.Reverse.String(),
		)
	} else {
		status.Geometry = append(status.Geometry, "Invalid geometry: "+err.Error())
	}

	ui.PrintStatus(status)
}

func describeAction(cfg config.ActionConfig) string {
	if cfg.Target == config.TargetCommand {
		return fmt.Sprintf("run %s %v", cfg.Command, cfg.Args)
	}
	return fmt.Sprintf("press %s for %dms", cfg.Key, cfg.HoldMs)
}

// monitorTrigger logs completed sweeps without acting on them
type monitorTrigger struct{}

func (monitorTrigger) Trigger() {
	log.Debug("Sweep recognised")
}

// runMonitor handles the monitor subcommand
func runMonitor(args []string) {
	fs := flag.NewFlagSet("monitor", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to configuration file")
	pngPath := fs.String("png", "", "write a picture of the gesture to this file")
	screenOff := fs.Bool("off", false, "evaluate as if the screen were off")
	fs.Usage = func() {
		ui.PrintMonitorUsage()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	// keep log lines from tearing the live view
	utils.SetupLogging(os.Stderr, false)
	log.SetLevel(log.WarnLevel)

	cfg, err := config.Load(*configPath)
	if err != nil {
		ui.PrintFatalError("Failed to load config", err.Error())
		os.Exit(1)
	}

	// never grab here, the running daemon may hold the panel
	device, err := openDevice(config.DeviceConfig{Path: cfg.Device.Path, Name: cfg.Device.Name})
	if err != nil {
		ui.PrintFatalError("Failed to open touchscreen", err.Error())
		os.Exit(1)
	}
	defer device.Close()

	geometry, err := resolveGeometry(cfg.Screen, device)
	if err != nil {
		ui.PrintFatalError("Invalid configuration", err.Error())
		os.Exit(1)
	}

	mode := gesture.SleepMode
	if *screenOff {
		mode = gesture.WakeMode
	}

	lock := power.NewLock(power.NopInhibitor{})
	recognizer := gesture.NewRecognizer(geometry, monitorTrigger{}, lock, 0)
	engine := gesture.NewEngine(
		recognizer,
		config.NewSwitches(config.SwitchConfig{Sweep2Sleep: 1, Sweep2Wake: 1}),
		power.Static(!*screenOff),
	)

	ctx, cancel := signalContext()
	defer cancel()

	monitor := ui.NewMonitor(os.Stdout, mode, lock)
	engine.OnSignal(monitor.Observe)

	if *pngPath != "" {
		sketch := display.NewSketch(geometry, 270)
		engine.OnSignal(sketch.Observe)
		sketch.Start(ctx, *pngPath, 200*time.Millisecond)
		defer sketch.Stop()
	}

	monitor.Start(engine.Snapshot())
	defer monitor.Stop()

	events := make(chan touch.Event, 64)
	go func() {
		if err := device.ReadEvents(ctx, events); err != nil && ctx.Err() == nil {
			log.WithError(err).Error("Touchscreen read failed")
		}
		close(events)
	}()

	engine.Run(ctx, events)
	engine.Stop()
}
