package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pleimann/sweepd/internal/utils"
)

type example struct {
	cmd  string
	desc string
}

// PrintUsage displays the styled help/usage text
func PrintUsage(version string) {
	exe := utils.ExecutableName()

	banner := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		Render(exe)

	versionTag := lipgloss.NewStyle().
		Foreground(ColorMuted).
		Render("v" + version)

	fmt.Printf("%s %s\n", banner, versionTag)
	fmt.Println(Muted("Sweep-to-sleep and sweep-to-wake for Linux touchscreens"))
	fmt.Println()

	printSection("Usage", []string{
		exe + " [flags]                  Run the daemon",
		exe + " list-devices             List input devices",
		exe + " set-device [path]        Choose the touchscreen",
		exe + " set <switch> <0|1>       Toggle sweep2sleep or sweep2wake",
		exe + " status                   Show configuration and switch state",
		exe + " monitor [flags]          Watch gesture progress live",
		exe + " version                  Print version",
		exe + " help                     Show this help message",
	})

	printSection("Flags", []string{
		"-config string    Path to configuration file (default \"config.yaml\")",
		"-verbose          Enable verbose logging",
		"-detach           Run in the background",
		"-pidfile string   Daemon pid file (with -detach)",
		"-logfile string   Daemon log file (with -detach)",
		"-version          Print version and exit",
	})

	printCommandSection()

	fmt.Println(Bold("Examples"))
	printExamples([]example{
		{exe, "Run with default config.yaml"},
		{exe + " -config /etc/sweepd.yaml -detach", "Run as a background daemon"},
		{exe + " set-device", "Interactive touchscreen selection"},
		{exe + " set sweep2wake 1", "Enable sweep-to-wake"},
		{exe + " monitor -png /tmp/sweep.png", "Watch gestures and save a picture"},
	})
}

func printSection(title string, items []string) {
	fmt.Println(Bold(title))
	for _, item := range items {
		fmt.Printf("  %s\n", item)
	}
	fmt.Println()
}

func printCommandSection() {
	fmt.Println(Bold("Commands"))

	cmdStyle := lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)

	fmt.Printf("  %s\n", cmdStyle.Render("set-device"))
	fmt.Printf("      Set the touchscreen in the config file\n")
	fmt.Printf("      Run %s for more information\n", Code(utils.ExecutableName()+" set-device --help"))
	fmt.Println()

	fmt.Printf("  %s\n", cmdStyle.Render("set"))
	fmt.Printf("      Change a switch; a running daemon picks it up on reload\n")
	fmt.Printf("      Run %s for more information\n", Code(utils.ExecutableName()+" set --help"))
	fmt.Println()

	fmt.Printf("  %s\n", cmdStyle.Render("monitor"))
	fmt.Printf("      Read the touchscreen and show gate progress without pressing keys\n")
	fmt.Printf("      Run %s for more information\n", Code(utils.ExecutableName()+" monitor --help"))
	fmt.Println()
}

func printExamples(examples []example) {
	cmdStyle := lipgloss.NewStyle().
		Foreground(ColorSecondary)

	maxLen := 0
	for _, ex := range examples {
		if len(ex.cmd) > maxLen {
			maxLen = len(ex.cmd)
		}
	}

	for _, ex := range examples {
		padding := strings.Repeat(" ", maxLen-len(ex.cmd)+2)
		fmt.Printf("  %s%s%s\n", cmdStyle.Render(ex.cmd), padding, Muted(ex.desc))
	}
	fmt.Println()
}

func printConfigOption() {
	fmt.Println(Bold("Options"))
	fmt.Printf("  %s    Path to configuration file (default \"config.yaml\")\n", FlagStyle.Render("-config string"))
}

// PrintSetDeviceUsage displays the styled help text for set-device subcommand
func PrintSetDeviceUsage() {
	exe := utils.ExecutableName()

	fmt.Println(Bold("Usage:"), exe+" set-device [options] [path]")
	fmt.Println()
	fmt.Println("Set the touchscreen in the configuration file.")
	fmt.Println()
	fmt.Println(Muted("If a device path is provided, updates the config directly."))
	fmt.Println(Muted("Otherwise, displays a list of touchscreens to choose from."))
	fmt.Println()

	fmt.Println(Bold("Arguments"))
	fmt.Printf("  %s    Event device node, e.g. /dev/input/event3\n", FlagStyle.Render("path"))
	fmt.Println()

	printConfigOption()
	fmt.Println()

	fmt.Println(Bold("Examples"))
	printExamples([]example{
		{exe + " set-device", "Interactive selection"},
		{exe + " set-device /dev/input/event3", "Use a known device path"},
		{exe + " set-device -config my.yaml", "Use different config"},
	})
}

// PrintSetUsage displays the styled help text for the set subcommand
func PrintSetUsage() {
	exe := utils.ExecutableName()

	fmt.Println(Bold("Usage:"), exe+" set [options] <switch> <0|1>")
	fmt.Println()
	fmt.Println("Change a switch in the configuration file.")
	fmt.Println()
	fmt.Println(Muted("sweep2sleep set to 2 in the file locks it off; set refuses to change it."))
	fmt.Println()

	fmt.Println(Bold("Switches"))
	fmt.Printf("  %s    Sweep while the screen is on to turn it off\n", FlagStyle.Render("sweep2sleep"))
	fmt.Printf("  %s     Sweep while the screen is off to turn it on\n", FlagStyle.Render("sweep2wake"))
	fmt.Println()

	printConfigOption()
	fmt.Println()

	fmt.Println(Bold("Examples"))
	printExamples([]example{
		{exe + " set sweep2sleep 0", "Disable sweep-to-sleep"},
		{exe + " set sweep2wake 1", "Enable sweep-to-wake"},
	})
}

// PrintMonitorUsage displays the styled help text for the monitor subcommand
func PrintMonitorUsage() {
	exe := utils.ExecutableName()

	fmt.Println(Bold("Usage:"), exe+" monitor [options]")
	fmt.Println()
	fmt.Println("Read the touchscreen and show live gate progress. No keys are pressed.")
	fmt.Println()

	fmt.Println(Bold("Options"))
	fmt.Printf("  %s    Path to configuration file (default \"config.yaml\")\n", FlagStyle.Render("-config string"))
	fmt.Printf("  %s       Also write a picture of the gesture to this PNG file\n", FlagStyle.Render("-png string"))
	fmt.Printf("  %s            Evaluate as if the screen were off (wake mode)\n", FlagStyle.Render("-off"))
	fmt.Println()

	fmt.Println(Bold("Examples"))
	printExamples([]example{
		{exe + " monitor", "Watch sleep-mode progress"},
		{exe + " monitor -off", "Watch wake-mode progress"},
		{exe + " monitor -png sweep.png", "Save a picture of each gesture"},
	})
}

// PrintVersion displays the styled version information
func PrintVersion(version string) {
	banner := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		Render(utils.ExecutableName())

	versionTag := lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Render("v" + version)

	fmt.Printf("%s %s\n", banner, versionTag)
}

// PrintError displays a styled error message
func PrintError(message string) {
	fmt.Println(Error(message))
}

// PrintFatalError displays a styled fatal error message with context
func PrintFatalError(context, message string) {
	fmt.Println()
	fmt.Println(Error(context))
	fmt.Printf("  %s\n", Muted(message))
	fmt.Println()
}
