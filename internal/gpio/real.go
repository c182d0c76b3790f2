//go:build linux

package gpio

import (
	"fmt"
	"time"

	"github.com/sweeney/focus-timer/internal/logic"
	"github.com/warthog618/go-gpiocdev"
)

// DefaultChip is the GPIO character device on a Raspberry Pi.
const DefaultChip = "gpiochip0"

// RealDevice drives the button, LEDs and buzzer through the Linux GPIO
// character device. It implements Button, Indicator and Buzzer.
type RealDevice struct {
	*DebouncedButton

	chip   *gpiocdev.Chip
	button *gpiocdev.Line
	buzzer *gpiocdev.Line
	leds   *gpiocdev.Lines
}

// NewRealDevice requests all lines on the given chip.
func NewRealDevice(chipName string, pins Pins, debounce time.Duration) (*RealDevice, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	// Button pulls the line to ground, so active-low gives 1 = pressed.
	button, err := chip.RequestLine(pins.Button, gpiocdev.AsInput, gpiocdev.WithPullUp, gpiocdev.AsActiveLow)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request button pin %d: %w", pins.Button, err)
	}

	buzzer, err := chip.RequestLine(pins.Buzzer, gpiocdev.AsOutput(0))
	if err != nil {
		button.Close()
		chip.Close()
		return nil, fmt.Errorf("request buzzer pin %d: %w", pins.Buzzer, err)
	}

	leds, err := chip.RequestLines(pins.offsets(), gpiocdev.AsOutput(0, 0, 0, 0, 0, 0))
	if err != nil {
		buzzer.Close()
		button.Close()
		chip.Close()
		return nil, fmt.Errorf("request led pins %v: %w", pins.offsets(), err)
	}

	return &RealDevice{
		DebouncedButton: NewDebouncedButton(button, debounce),
		chip:            chip,
		button:          button,
		buzzer:          buzzer,
		leds:            leds,
	}, nil
}

// Raw returns the undebounced button level.
func (d *RealDevice) Raw() (bool, error) {
	v, err := d.button.Value()
	if err != nil {
		return false, fmt.Errorf("read button pin: %w", err)
	}
	return v == 1, nil
}

// Set shows the given colours on the front and back LEDs.
func (d *RealDevice) Set(front, back logic.Color) error {
	if err := d.leds.SetValues(ledValues(front, back)); err != nil {
		return fmt.Errorf("set leds: %w", err)
	}
	return nil
}

// Clear turns both LEDs off.
func (d *RealDevice) Clear() error {
	return d.Set(logic.ColorOff, logic.ColorOff)
}

// On starts the buzzer.
func (d *RealDevice) On() error {
	if err := d.buzzer.SetValue(1); err != nil {
		return fmt.Errorf("buzzer on: %w", err)
	}
	return nil
}

// Off stops the buzzer.
func (d *RealDevice) Off() error {
	if err := d.buzzer.SetValue(0); err != nil {
		return fmt.Errorf("buzzer off: %w", err)
	}
	return nil
}

// Close releases GPIO resources.
// Outputs are driven low and every line is reconfigured to input with
// pull-down (matching Pi boot defaults) before closing.
func (d *RealDevice) Close() error {
	var errs []error

	if d.leds != nil {
		if err := d.leds.SetValues(ledValues(logic.ColorOff, logic.ColorOff)); err != nil {
			errs = append(errs, fmt.Errorf("clear leds: %w", err))
		}
		if err := d.leds.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure led pins: %w", err))
		}
		if err := d.leds.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close led pins: %w", err))
		}
	}
	if d.buzzer != nil {
		if err := d.buzzer.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("silence buzzer: %w", err))
		}
		if err := d.buzzer.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure buzzer pin: %w", err))
		}
		if err := d.buzzer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close buzzer pin: %w", err))
		}
	}
	if d.button != nil {
		if err := d.button.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button pin: %w", err))
		}
	}
	if d.chip != nil {
		if err := d.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
