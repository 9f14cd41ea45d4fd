package governor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/markusressel/rpifanctl/internal/fanconfig"
	"github.com/stretchr/testify/assert"
)

type mockSampler struct {
	values []int
	index  int
	err    error
}

func (s *mockSampler) Read() (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	value := s.values[s.index]
	if s.index < len(s.values)-1 {
		s.index++
	}
	return value, nil
}

type mockDutyWriter struct {
	applied []uint64
	err     error
}

func (w *mockDutyWriter) SetDutyCycle(duty uint64) error {
	w.applied = append(w.applied, duty)
	return w.err
}

func TestDutyCycleFollowsRunningMaximum(t *testing.T) {
	// GIVEN
	sampler := &mockSampler{values: []int{40000, 55000, 30000}}
	writer := &mockDutyWriter{}
	governor := NewGovernor(writer, sampler, "test", time.Second)

	// WHEN
	for i := 0; i < 3; i++ {
		err := governor.step()
		assert.NoError(t, err)
	}

	// THEN
	// the first two samples each tie the running maximum, the third is
	// scaled against the 55000 peak
	assert.Equal(t, []uint64{50000000, 50000000, 27272727}, writer.applied)
	assert.Equal(t, 55000, governor.maxTemp)
}

func TestMaximumTemperatureIsMonotonic(t *testing.T) {
	// GIVEN
	samples := []int{42000, 47000, 39000, 47000, 51000, 20000}
	sampler := &mockSampler{values: samples}
	writer := &mockDutyWriter{}
	governor := NewGovernor(writer, sampler, "test", time.Second)

	var observedMax []int
	governor.SetObservationHook(func(state State) {
		observedMax = append(observedMax, state.MaxTemperature)
	})

	// WHEN
	for range samples {
		err := governor.step()
		assert.NoError(t, err)
	}

	// THEN
	assert.Equal(t, []int{42000, 47000, 47000, 47000, 51000, 51000}, observedMax)
}

func TestFullDutyWhenSampleTiesMaximum(t *testing.T) {
	// GIVEN
	sampler := &mockSampler{values: []int{48000}}
	writer := &mockDutyWriter{}
	governor := NewGovernor(writer, sampler, "test", time.Second)

	// WHEN
	err := governor.step()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []uint64{fanconfig.PwmPeriod}, writer.applied)
}

func TestNonPositiveFirstSample(t *testing.T) {
	// GIVEN
	sampler := &mockSampler{values: []int{0, 45000}}
	writer := &mockDutyWriter{}
	governor := NewGovernor(writer, sampler, "test", time.Second)

	// WHEN
	err := governor.step()

	// THEN
	// a zero first reading must not divide by zero, the fan stays off
	assert.NoError(t, err)
	assert.Equal(t, []uint64{0}, writer.applied)

	// WHEN
	err = governor.step()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []uint64{0, fanconfig.PwmPeriod}, writer.applied)
}

func TestDutyWriteFailureIsNotFatal(t *testing.T) {
	// GIVEN
	sampler := &mockSampler{values: []int{45000}}
	writer := &mockDutyWriter{err: errors.New("ioctl failed")}
	governor := NewGovernor(writer, sampler, "test", time.Second)

	// WHEN
	err := governor.step()

	// THEN
	assert.NoError(t, err)
}

func TestSensorFailureIsFatal(t *testing.T) {
	// GIVEN
	sampler := &mockSampler{err: errors.New("sensor gone")}
	writer := &mockDutyWriter{}
	governor := NewGovernor(writer, sampler, "test", time.Second)

	// WHEN
	err := governor.step()

	// THEN
	assert.Error(t, err)
	assert.Empty(t, writer.applied)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	// GIVEN
	sampler := &mockSampler{values: []int{45000}}
	writer := &mockDutyWriter{}
	governor := NewGovernor(writer, sampler, "test", time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// WHEN
	err := governor.Run(ctx)

	// THEN
	// one iteration runs before the cancellation is observed
	assert.NoError(t, err)
	assert.Equal(t, []uint64{fanconfig.PwmPeriod}, writer.applied)
}

func TestComputeDutyCycle(t *testing.T) {
	// GIVEN
	type input struct {
		temp int
		max  int
	}
	expectedInputOutput := map[input]uint64{
		{temp: 40000, max: 40000}: fanconfig.PwmPeriod,
		{temp: 30000, max: 55000}: 27272727,
		{temp: 0, max: 0}:         0,
		{temp: -100, max: 0}:      0,
	}

	for in, out := range expectedInputOutput {
		// WHEN
		result := computeDutyCycle(in.temp, in.max)

		// THEN
		assert.Equal(t, out, result)
	}
}
