package fanconfig

import (
	"fmt"

	"golang.org/x/exp/slices"
)

const (
	// PwmPeriod is the PWM timer period of the rpifan driver in its
	// native time base. Duty cycle values are counters in [0, PwmPeriod].
	PwmPeriod uint64 = 50_000_000

	// GpioMin and GpioMax bound the usable GPIO pins, pins 0, 1 and 31
	// are reserved in the driver's pin map.
	GpioMin = 2
	GpioMax = 30

	PwmModeMin = 0
	PwmModeMax = 7

	gpioMask     = 0b00011111
	pwmModeMask  = 0b00000111
	pwmModeShift = 5
)

// pwmCapablePins are the only pins wired to the hardware PWM peripheral.
// All other pins behave as plain on/off outputs regardless of the
// configured PWM mode.
var pwmCapablePins = []uint8{12, 13, 18, 19}

// FanConfig is the in-memory form of the driver's packed config byte:
// the low 5 bits carry the GPIO pin number, the upper 3 bits the PWM mode.
type FanConfig struct {
	GpioNum uint8 `json:"gpioNum"`
	PwmMode uint8 `json:"pwmMode"`
}

// Decode unpacks a config byte. It is total: every byte value decodes,
// callers have to reject out-of-range GPIO numbers via ValidateGpio
// before using the result.
func Decode(b uint8) FanConfig {
	return FanConfig{
		GpioNum: b & gpioMask,
		PwmMode: (b >> pwmModeShift) & pwmModeMask,
	}
}

// Encode packs the two fields back into the wire byte.
// Decode(b).Encode() == b holds for all byte values.
func (c FanConfig) Encode() uint8 {
	return (c.GpioNum & gpioMask) | ((c.PwmMode & pwmModeMask) << pwmModeShift)
}

// WithGpio returns a copy with only the GPIO pin changed.
func (c FanConfig) WithGpio(pin uint8) FanConfig {
	c.GpioNum = pin
	return c
}

// WithPwmMode returns a copy with only the PWM mode changed.
func (c FanConfig) WithPwmMode(mode uint8) FanConfig {
	c.PwmMode = mode
	return c
}

// IsPwmCapable indicates whether the configured pin supports true
// hardware PWM output.
func (c FanConfig) IsPwmCapable() bool {
	return IsPwmCapable(c.GpioNum)
}

func IsPwmCapable(pin uint8) bool {
	return slices.Contains(pwmCapablePins, pin)
}

func ValidateGpio(pin int) error {
	if pin < GpioMin || pin > GpioMax {
		return fmt.Errorf("GPIO value must be between %d and %d, got: %d", GpioMin, GpioMax, pin)
	}
	return nil
}

func ValidatePwmMode(mode int) error {
	if mode < PwmModeMin || mode > PwmModeMax {
		return fmt.Errorf("PWM mode must be between %d and %d, got: %d", PwmModeMin, PwmModeMax, mode)
	}
	return nil
}

func ValidateDutyPercent(percent int) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("duty cycle must be between 0 and 100 percent, got: %d", percent)
	}
	return nil
}

// DutyCycleFromPercent converts a percentage in [0, 100] to a duty cycle
// counter value in [0, PwmPeriod].
func DutyCycleFromPercent(percent int) uint64 {
	return uint64(percent) * PwmPeriod / 100
}
