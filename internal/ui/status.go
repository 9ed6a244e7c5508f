package ui

import (
	"fmt"
	"strings"
)

// Status is what the status command reports
type Status struct {
	ConfigPath string
	Device     string
	Sleep      string
	Wake       string
	Action     string
	Backlight  string
	ScreenOn   bool
	Geometry   []string
}

// PrintStatus displays configuration and switch state in a box
func PrintStatus(s Status) {
	device := s.Device
	if device == "" {
		device = Muted("auto-detect")
	}
	backlight := s.Backlight
	if backlight == "" {
		backlight = Muted("not found, screen assumed on")
	} else if s.ScreenOn {
		backlight += " " + SwitchOnStyle.Render("(on)")
	} else {
		backlight += " " + SwitchOffStyle.Render("(off)")
	}

	lines := []string{
		fmt.Sprintf("%s %s", Muted("Config:     "), s.ConfigPath),
		fmt.Sprintf("%s %s", Muted("Device:     "), device),
		fmt.Sprintf("%s %s", Muted("sweep2sleep:"), SwitchState(s.Sleep)),
		fmt.Sprintf("%s %s", Muted("sweep2wake: "), SwitchState(s.Wake)),
		fmt.Sprintf("%s %s", Muted("Action:     "), s.Action),
		fmt.Sprintf("%s %s", Muted("Backlight:  "), backlight),
	}
	for _, g := range s.Geometry {
		lines = append(lines, Muted(g))
	}

	fmt.Println()
	fmt.Println(StatusBoxStyle.Render(strings.Join(lines, "\n")))
	fmt.Println()
}

// PrintSwitchUpdated shows a success message after changing a switch
func PrintSwitchUpdated(configPath, name, value string) {
	fmt.Println()
	fmt.Println(Success(fmt.Sprintf("%s set to %s", name, value)))
	fmt.Printf("  %s %s\n", Muted("Config:"), configPath)
	fmt.Println()
}
