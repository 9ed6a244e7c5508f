package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// DeviceInfo describes an input device for display
type DeviceInfo struct {
	Path        string
	Name        string
	Touchscreen bool
	Width       int
	Height      int
}

// deviceSelectModel wraps huh form in Bubble Tea for proper escape handling
type deviceSelectModel struct {
	form    *huh.Form
	aborted bool
}

func (m deviceSelectModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m deviceSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.aborted = true
			return m, tea.Quit
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, tea.Quit
	}

	return m, cmd
}

func (m deviceSelectModel) View() string {
	if m.form.State == huh.StateCompleted {
		return ""
	}
	return m.form.View()
}

// SelectDevice presents an interactive touchscreen picker. It returns nil
// without error when the user cancels.
func SelectDevice(devices []DeviceInfo) (*DeviceInfo, error) {
	var touch []DeviceInfo
	for _, d := range devices {
		if d.Touchscreen {
			touch = append(touch, d)
		}
	}
	if len(touch) == 0 {
		return nil, fmt.Errorf("no touchscreens to select from")
	}

	options := make([]huh.Option[int], len(touch))
	for i, d := range touch {
		label := fmt.Sprintf("%s  %s  %s",
			DevicePathStyle.Render(d.Path),
			deviceName(d),
			DeviceDetailStyle.Render(resolution(d)),
		)
		options[i] = huh.NewOption(label, i)
	}

	var selectedIndex int

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Select Touchscreen").
				Description("Choose the panel to watch for sweeps (esc to cancel)").
				Options(options...).
				Value(&selectedIndex),
		),
	).WithTheme(customTheme()).WithShowHelp(false)

	p := tea.NewProgram(deviceSelectModel{form: form})
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	if finalModel.(deviceSelectModel).aborted {
		return nil, nil
	}

	return &touch[selectedIndex], nil
}

func deviceName(d DeviceInfo) string {
	if d.Name == "" {
		return "Unknown Device"
	}
	return d.Name
}

func resolution(d DeviceInfo) string {
	if d.Width == 0 || d.Height == 0 {
		return "size unknown"
	}
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// PrintDeviceList displays a styled list of input devices, touchscreens first
func PrintDeviceList(devices []DeviceInfo) {
	if len(devices) == 0 {
		fmt.Println(Warning("No input devices found"))
		return
	}

	var touch, other []DeviceInfo
	for _, d := range devices {
		if d.Touchscreen {
			touch = append(touch, d)
		} else {
			other = append(other, d)
		}
	}

	fmt.Println()
	fmt.Println(Title("Input Devices"))
	fmt.Println(Muted(fmt.Sprintf("Found %d device(s), %d touchscreen(s)", len(devices), len(touch))))
	fmt.Println()

	for _, d := range touch {
		fmt.Printf("  %s  %s %s %s\n",
			DevicePathStyle.Render(d.Path),
			DeviceNameStyle.Render(deviceName(d)),
			TouchTagStyle.Render("touch"),
			DeviceDetailStyle.Render(resolution(d)),
		)
	}
	for _, d := range other {
		fmt.Printf("  %s  %s\n",
			DeviceDetailStyle.Render(d.Path),
			DeviceDetailStyle.Render(deviceName(d)),
		)
	}
	fmt.Println()
}

// PrintDeviceUpdated shows a success message after updating device config
func PrintDeviceUpdated(configPath, devicePath string) {
	printDeviceResult("Device configuration updated", configPath, devicePath)
}

// PrintDeviceCreated shows a success message after creating device config
func PrintDeviceCreated(configPath, devicePath string) {
	printDeviceResult("Device configuration created", configPath, devicePath)
}

func printDeviceResult(message, configPath, devicePath string) {
	fmt.Println()
	fmt.Println(Success(message))
	fmt.Println()
	fmt.Printf("  %s %s\n", Muted("Config:"), configPath)
	fmt.Printf("  %s %s\n", Muted("Device:"), DevicePathStyle.Render(devicePath))
	fmt.Println()
}

// customTheme returns a custom huh theme matching our style palette
func customTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = t.Focused.Title.Foreground(ColorPrimary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(ColorMuted)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(ColorPrimary)
	t.Focused.UnselectedOption = t.Focused.UnselectedOption.Foreground(lipgloss.Color("#F9FAFB"))
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(ColorPrimary)

	return t
}
