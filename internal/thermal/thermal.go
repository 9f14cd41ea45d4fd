package thermal

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/asecurityteam/rolling"
)

const (
	DefaultZonePath = "/sys/class/thermal/thermal_zone0/temp"

	// readBufferSize is large enough for any millidegree reading the
	// thermal zone can produce, plus the trailing newline.
	readBufferSize = 16
)

// Sampler reads the CPU temperature from a kernel thermal zone file.
// The handle is opened once and kept for the sampler's lifetime, each
// Read seeks back to the start and parses a fresh value. No caching.
type Sampler struct {
	file      *os.File
	path      string
	window    *rolling.PointPolicy
	movingAvg float64
}

// NewSampler opens the thermal zone file. The caller decides whether a
// failure here is fatal; for the governor it is.
func NewSampler(path string, windowSize int) (*Sampler, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open thermal zone %s: %w", path, err)
	}
	return &Sampler{
		file:   file,
		path:   path,
		window: rolling.NewPointPolicy(rolling.NewWindow(windowSize)),
	}, nil
}

func (s *Sampler) Path() string {
	return s.path
}

func (s *Sampler) Close() error {
	return s.file.Close()
}

// Read returns the current temperature in millidegrees Celsius.
func (s *Sampler) Read() (int, error) {
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("seeking on thermal zone %s: %w", s.path, err)
	}

	buf := make([]byte, readBufferSize)
	n, err := s.file.Read(buf)
	if err != nil {
		return 0, fmt.Errorf("reading from thermal zone %s: %w", s.path, err)
	}

	text := strings.TrimSpace(string(buf[:n]))
	value, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("thermal zone %s yielded a non-numeric value %q: %w", s.path, text, err)
	}

	s.window.Append(float64(value))
	s.movingAvg = s.window.Reduce(rolling.Avg)

	return value, nil
}

// MovingAvg returns the average of the most recent readings. It is used
// for reporting only, the control loop always works on fresh values.
func (s *Sampler) MovingAvg() float64 {
	return s.movingAvg
}
