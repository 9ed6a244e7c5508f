package touch

import (
	"fmt"
	"strings"

	evdev "github.com/holoplot/go-evdev"
)

// DeviceInfo contains information about a discovered input device
type DeviceInfo struct {
	Path        string
	Name        string
	Touchscreen bool
	Width       int
	Height      int
}

// ListDevices returns every readable input device, flagging the ones that
// speak the multi-touch protocol
func ListDevices() ([]DeviceInfo, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to list input devices: %w", err)
	}

	result := make([]DeviceInfo, 0, len(paths))
	for _, p := range paths {
		info := DeviceInfo{Path: p.Path, Name: p.Name}

		dev, err := evdev.Open(p.Path)
		if err == nil {
			info.Touchscreen = isTouchscreen(dev)
			if info.Touchscreen {
				d := &Device{path: p.Path, device: dev}
				info.Width, info.Height = d.Resolution()
			}
			dev.Close()
		}

		result = append(result, info)
	}

	return result, nil
}

// FindDevice returns the first touchscreen whose name contains nameFilter
// (case-insensitive). An empty filter matches any touchscreen.
func FindDevice(nameFilter string) (*DeviceInfo, error) {
	devices, err := ListDevices()
	if err != nil {
		return nil, err
	}

	filter := strings.ToLower(nameFilter)
	for _, d := range devices {
		if !d.Touchscreen {
			continue
		}
		if filter != "" && !strings.Contains(strings.ToLower(d.Name), filter) {
			continue
		}
		found := d
		return &found, nil
	}

	if nameFilter != "" {
		return nil, fmt.Errorf("no touchscreen matching %q found", nameFilter)
	}
	return nil, fmt.Errorf("no touchscreen found - check permissions on /dev/input")
}

func isTouchscreen(dev *evdev.InputDevice) bool {
	var hasX, hasY bool
	for _, code := range dev.CapableEvents(evdev.EV_ABS) {
		switch code {
		case evdev.ABS_MT_POSITION_X:
			hasX = true
		case evdev.ABS_MT_POSITION_Y:
			hasY = true
		}
	}
	return hasX && hasY
}
