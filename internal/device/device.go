package device

import (
	"fmt"
	"os"
	"strconv"

	"github.com/markusressel/rpifanctl/internal/fanconfig"
	"github.com/markusressel/rpifanctl/internal/ui"
	"golang.org/x/sys/unix"
)

const (
	DefaultDevicePath = "/dev/rpifan"

	// configRecordSize is the size of the decimal-text record the driver
	// exchanges for the config byte ("255" plus a terminating NUL).
	configRecordSize = 4
)

// Channel is the single point of contact with the rpifan device node.
// It owns the file handle for its entire lifetime; no locking is added
// on top of the driver's own per-descriptor guarantees.
type Channel struct {
	file *os.File
	path string
}

// Open opens the fan device for read-write access. A missing node
// usually means the rpifan driver module is not loaded.
func Open(path string) (*Channel, error) {
	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("unable to open fan device %s (is the rpifan driver loaded?): %w", path, err)
	}
	return &Channel{
		file: os.NewFile(uintptr(fd), path),
		path: path,
	}, nil
}

func (c *Channel) Path() string {
	return c.path
}

func (c *Channel) Close() error {
	return c.file.Close()
}

// ReadConfig reads the current config byte from the driver. The driver
// reports it as a decimal-text record, a non-numeric record decodes to 0.
func (c *Channel) ReadConfig() (uint8, error) {
	buf := make([]byte, configRecordSize)
	if _, err := c.file.Seek(0, 0); err != nil {
		return 0, fmt.Errorf("seeking on fan device %s: %w", c.path, err)
	}
	if _, err := c.file.Read(buf); err != nil {
		return 0, fmt.Errorf("reading from fan device %s: %w", c.path, err)
	}
	return parseConfigRecord(buf), nil
}

// WriteConfig sends a new config byte to the driver. The driver applies
// the GPIO/PWM assignment on its own, there is no confirmation value.
func (c *Channel) WriteConfig(config fanconfig.FanConfig) error {
	record := formatConfigRecord(config.Encode())
	if _, err := c.file.Seek(0, 0); err != nil {
		return fmt.Errorf("seeking on fan device %s: %w", c.path, err)
	}
	if _, err := c.file.Write(record); err != nil {
		return fmt.Errorf("writing to fan device %s: %w", c.path, err)
	}
	ui.Debug("Wrote config byte %d to %s", config.Encode(), c.path)
	return nil
}

// SetDutyCycle applies a new duty cycle counter value via ioctl.
func (c *Channel) SetDutyCycle(duty uint64) error {
	if err := ioctlUint64(c.file.Fd(), iocWritePwmValue, &duty); err != nil {
		return fmt.Errorf("unable to write duty cycle to the driver via ioctl: %w", err)
	}
	return nil
}

// GetDutyCycle reads back the currently applied duty cycle via ioctl.
func (c *Channel) GetDutyCycle() (uint64, error) {
	var duty uint64
	if err := ioctlUint64(c.file.Fd(), iocReadPwmValue, &duty); err != nil {
		return 0, fmt.Errorf("unable to read duty cycle from the driver via ioctl: %w", err)
	}
	return duty, nil
}

// parseConfigRecord decodes the driver's decimal-text record with atoi
// semantics: leading digits are parsed, anything non-numeric yields 0,
// and the value is truncated to a byte.
func parseConfigRecord(buf []byte) uint8 {
	end := 0
	for end < len(buf) && buf[end] >= '0' && buf[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	value, err := strconv.Atoi(string(buf[:end]))
	if err != nil {
		return 0
	}
	return uint8(value)
}

// formatConfigRecord renders the config byte into the fixed-size
// NUL-padded record the driver expects.
func formatConfigRecord(b uint8) []byte {
	record := make([]byte, configRecordSize)
	copy(record, strconv.Itoa(int(b)))
	return record
}
