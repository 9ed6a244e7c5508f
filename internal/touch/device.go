package touch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	evdev "github.com/holoplot/go-evdev"
	log "github.com/sirupsen/logrus"

	"github.com/pleimann/sweepd/internal/utils"
)

// Device represents an open multi-touch panel
type Device struct {
	path    string
	name    string
	grabbed bool
	device  *evdev.InputDevice
	mu      sync.Mutex
	closed  bool
}

// NewDevice opens the touch panel at path. With grab set, the panel is taken
// exclusively so other readers stop seeing its events.
func NewDevice(path string, grab bool) (*Device, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return nil, fmt.Errorf("failed to open %s: %w\n"+
				"  Add your user to the 'input' group or run as root", path, err)
		}
		return nil, fmt.Errorf("failed to open %s: %w\n"+
			"  Run '"+utils.ExecutableName()+" list-devices' to see available devices", path, err)
	}

	if !isTouchscreen(dev) {
		dev.Close()
		return nil, fmt.Errorf("%s does not report multi-touch positions", path)
	}

	name, _ := dev.Name()
	d := &Device{
		path:   path,
		name:   name,
		device: dev,
	}

	if grab {
		if err := dev.Grab(); err != nil {
			dev.Close()
			return nil, fmt.Errorf("failed to grab %s: %w", path, err)
		}
		d.grabbed = true
	}

	return d, nil
}

// Path returns the device node path
func (d *Device) Path() string {
	return d.path
}

// Name returns the kernel-reported device name
func (d *Device) Name() string {
	return d.name
}

// Resolution returns the panel size in raw units, derived from the maxima of
// the multi-touch position axes. Zero means the device did not report one.
func (d *Device) Resolution() (width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0, 0
	}

	infos, err := d.device.AbsInfos()
	if err != nil {
		log.WithError(err).WithField("device", d.path).Debug("Failed to read axis ranges")
		return 0, 0
	}
	if x, ok := infos[evdev.ABS_MT_POSITION_X]; ok && x.Maximum > x.Minimum {
		width = int(x.Maximum-x.Minimum) + 1
	}
	if y, ok := infos[evdev.ABS_MT_POSITION_Y]; ok && y.Maximum > y.Minimum {
		height = int(y.Maximum-y.Minimum) + 1
	}
	return width, height
}

// Close closes the device, releasing any grab
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	if d.grabbed {
		_ = d.device.Ungrab()
	}
	return d.device.Close()
}

// ReadEvents continuously reads events from the device and sends the
// multi-touch axis updates to the channel, in arrival order.
func (d *Device) ReadEvents(ctx context.Context, events chan<- Event) error {
	// ReadOne blocks; closing the device is the only way to interrupt it.
	stop := context.AfterFunc(ctx, func() { d.Close() })
	defer stop()

	for {
		d.mu.Lock()
		if d.closed {
			d.mu.Unlock()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("device closed")
		}
		dev := d.device
		d.mu.Unlock()

		raw, err := dev.ReadOne()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read error: %w", err)
		}

		event, ok := ParseEvent(raw)
		if !ok {
			continue
		}

		select {
		case events <- event:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
