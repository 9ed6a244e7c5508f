package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Device   DeviceConfig `yaml:"device"`
	Screen   ScreenConfig `yaml:"screen"`
	Switches SwitchConfig `yaml:"switches"`
	Action   ActionConfig `yaml:"action"`
	Power    PowerConfig  `yaml:"power"`
}

// DeviceConfig selects the touch panel. An empty Path means auto-detect,
// optionally narrowed by a substring of the device name.
type DeviceConfig struct {
	Path string `yaml:"path,omitempty"`
	Name string `yaml:"name,omitempty"`
	Grab bool   `yaml:"grab"`
}

// ScreenConfig holds panel geometry in raw touch units. Width and Height
// may be left at zero to take them from the device's axis ranges.
type ScreenConfig struct {
	Width              int `yaml:"width"`
	Height             int `yaml:"height"`
	BandMargin         int `yaml:"band_margin"`
	EdgeMargin         int `yaml:"edge_margin"`
	ForwardMidOffset   int `yaml:"forward_mid_offset"`
	ForwardInnerOffset int `yaml:"forward_inner_offset"`
	ReverseMidOffset   int `yaml:"reverse_mid_offset"`
	ReverseInnerOffset int `yaml:"reverse_inner_offset"`
}

type SwitchConfig struct {
	Sweep2Sleep int `yaml:"sweep2sleep"`
	Sweep2Wake  int `yaml:"sweep2wake"`
}

type ActionConfig struct {
	Target  string   `yaml:"target"`
	Key     string   `yaml:"key"`
	HoldMs  int      `yaml:"hold_ms"`
	Command string   `yaml:"command,omitempty"`
	Args    []string `yaml:"args,omitempty"`
}

type PowerConfig struct {
	WakelockTimeoutMs int    `yaml:"wakelock_timeout_ms"`
	Backlight         string `yaml:"backlight,omitempty"`
	Inhibit           bool   `yaml:"inhibit"`
}

const (
	TargetKey     = "key"
	TargetCommand = "command"
)

// Panel resolution used when neither the config nor the device reports one.
const (
	DefaultWidth  = 1440
	DefaultHeight = 2560
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes, validates and defaults a YAML document.
func Parse(data []byte) (*Config, error) {
	cfg := Config{Power: PowerConfig{Inhibit: true}}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Screen.Width < 0 || c.Screen.Height < 0 {
		return fmt.Errorf("screen dimensions must not be negative")
	}
	if (c.Screen.Width == 0) != (c.Screen.Height == 0) {
		return fmt.Errorf("screen.width and screen.height must be set together")
	}

	offsets := map[string]int{
		"band_margin":          c.Screen.BandMargin,
		"edge_margin":          c.Screen.EdgeMargin,
		"forward_mid_offset":   c.Screen.ForwardMidOffset,
		"forward_inner_offset": c.Screen.ForwardInnerOffset,
		"reverse_mid_offset":   c.Screen.ReverseMidOffset,
		"reverse_inner_offset": c.Screen.ReverseInnerOffset,
	}
	for name, v := range offsets {
		if v < 0 {
			return fmt.Errorf("screen.%s must not be negative", name)
		}
	}

	if c.Switches.Sweep2Sleep < 0 || c.Switches.Sweep2Sleep > 2 {
		return fmt.Errorf("switches.sweep2sleep must be 0, 1 or 2")
	}
	if c.Switches.Sweep2Wake < 0 || c.Switches.Sweep2Wake > 1 {
		return fmt.Errorf("switches.sweep2wake must be 0 or 1")
	}

	switch c.Action.Target {
	case "", TargetKey:
	case TargetCommand:
		if c.Action.Command == "" {
			return fmt.Errorf("action.command is required for the command target")
		}
	default:
		return fmt.Errorf("unknown action.target: %q", c.Action.Target)
	}
	if c.Action.HoldMs < 0 {
		return fmt.Errorf("action.hold_ms must not be negative")
	}
	if c.Power.WakelockTimeoutMs < 0 {
		return fmt.Errorf("power.wakelock_timeout_ms must not be negative")
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Screen.BandMargin == 0 {
		c.Screen.BandMargin = 160
	}
	if c.Screen.EdgeMargin == 0 {
		c.Screen.EdgeMargin = 250
	}
	if c.Screen.ForwardMidOffset == 0 {
		c.Screen.ForwardMidOffset = 450
	}
	if c.Screen.ForwardInnerOffset == 0 {
		c.Screen.ForwardInnerOffset = 150
	}
	if c.Screen.ReverseMidOffset == 0 {
		c.Screen.ReverseMidOffset = 130
	}
	if c.Screen.ReverseInnerOffset == 0 {
		c.Screen.ReverseInnerOffset = 400
	}
	if c.Action.Target == "" {
		c.Action.Target = TargetKey
	}
	if c.Action.Key == "" {
		c.Action.Key = "power"
	}
	if c.Action.HoldMs == 0 {
		c.Action.HoldMs = 60
	}
	if c.Power.WakelockTimeoutMs == 0 {
		c.Power.WakelockTimeoutMs = 2000
	}
}

// ResolveScreen fills in a zero width/height from the panel's reported
// resolution, falling back to the built-in defaults.
func (s ScreenConfig) ResolveScreen(width, height int) ScreenConfig {
	if s.Width > 0 && s.Height > 0 {
		return s
	}
	if width > 0 && height > 0 {
		s.Width, s.Height = width, height
		return s
	}
	s.Width, s.Height = DefaultWidth, DefaultHeight
	return s
}

// UpdateSwitch rewrites a single switch value in a config file
// while preserving the rest of the file structure and comments
func UpdateSwitch(path, name, value string) error {
	if _, err := switchByName(name); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	content := string(data)
	re := regexp.MustCompile(`(?m)^([ \t]*` + regexp.QuoteMeta(name) + `:[ \t]*)\d+`)
	if re.MatchString(content) {
		content = re.ReplaceAllString(content, "${1}"+value)
	} else {
		content = appendToSection(content, "switches", fmt.Sprintf("%s: %s", name, value))
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// UpdateDevicePath rewrites device.path in a config file
func UpdateDevicePath(path, devicePath string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	content := string(data)
	re := regexp.MustCompile(`(?m)^([ \t]*path:[ \t]*).*$`)
	if re.MatchString(content) {
		content = re.ReplaceAllString(content, "${1}"+devicePath)
	} else {
		content = appendToSection(content, "device", "path: "+devicePath)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// appendToSection inserts an indented line after a top-level section header,
// creating the section at the end of the document when it is missing.
func appendToSection(content, section, line string) string {
	header := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(section) + `:[ \t]*$`)
	loc := header.FindStringIndex(content)
	if loc == nil {
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		return content + section + ":\n  " + line + "\n"
	}
	return content[:loc[1]] + "\n  " + line + content[loc[1]:]
}

// CreateDefaultConfig creates a new config file with default values and the specified device
func CreateDefaultConfig(path, devicePath string) error {
	content := fmt.Sprintf(`# sweepd configuration

device:
  path: %s
  grab: false

# Raw touch units. Leave width/height at 0 to read them from the panel.
screen:
  width: 0
  height: 0
  band_margin: 160
  edge_margin: 250

# sweep2sleep: 0 off, 1 on, 2 locked off
switches:
  sweep2sleep: 1
  sweep2wake: 0

action:
  target: key
  key: power
  hold_ms: 60

power:
  wakelock_timeout_ms: 2000
  inhibit: true
`, devicePath)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// Exists checks if a config file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
