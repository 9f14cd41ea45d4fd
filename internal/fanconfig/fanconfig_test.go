package fanconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for b := 0; b <= 255; b++ {
		// GIVEN
		value := uint8(b)

		// WHEN
		result := Decode(value).Encode()

		// THEN
		assert.Equal(t, value, result)
	}
}

func TestDecodeFieldExtraction(t *testing.T) {
	// GIVEN
	// gpio 18 in the low 5 bits, pwm mode 3 in the upper 3 bits
	value := uint8(18 | 3<<5)

	// WHEN
	config := Decode(value)

	// THEN
	assert.Equal(t, uint8(18), config.GpioNum)
	assert.Equal(t, uint8(3), config.PwmMode)
}

func TestWithGpioPreservesPwmMode(t *testing.T) {
	// GIVEN
	config := FanConfig{GpioNum: 12, PwmMode: 5}

	// WHEN
	result := config.WithGpio(19)

	// THEN
	assert.Equal(t, uint8(19), result.GpioNum)
	assert.Equal(t, uint8(5), result.PwmMode)
}

func TestWithPwmModePreservesGpio(t *testing.T) {
	// GIVEN
	config := FanConfig{GpioNum: 12, PwmMode: 5}

	// WHEN
	result := config.WithPwmMode(2)

	// THEN
	assert.Equal(t, uint8(12), result.GpioNum)
	assert.Equal(t, uint8(2), result.PwmMode)
}

func TestSequentialSingleAxisUpdates(t *testing.T) {
	// GIVEN
	config := Decode(0)

	// WHEN
	config = config.WithGpio(18)
	config = config.WithPwmMode(3)

	// THEN
	assert.Equal(t, FanConfig{GpioNum: 18, PwmMode: 3}, config)
}

func TestValidateGpio(t *testing.T) {
	// GIVEN
	valid := []int{2, 18, 30}
	invalid := []int{-1, 0, 1, 31, 255}

	for _, pin := range valid {
		// WHEN
		err := ValidateGpio(pin)
		// THEN
		assert.NoError(t, err)
	}

	for _, pin := range invalid {
		// WHEN
		err := ValidateGpio(pin)
		// THEN
		assert.Error(t, err)
	}
}

func TestValidatePwmMode(t *testing.T) {
	// GIVEN
	valid := []int{0, 3, 7}
	invalid := []int{-1, 8, 100}

	for _, mode := range valid {
		// WHEN
		err := ValidatePwmMode(mode)
		// THEN
		assert.NoError(t, err)
	}

	for _, mode := range invalid {
		// WHEN
		err := ValidatePwmMode(mode)
		// THEN
		assert.Error(t, err)
	}
}

func TestIsPwmCapable(t *testing.T) {
	// GIVEN
	capable := []uint8{12, 13, 18, 19}
	incapable := []uint8{2, 11, 14, 17, 20, 30}

	for _, pin := range capable {
		// WHEN / THEN
		assert.True(t, IsPwmCapable(pin))
	}

	for _, pin := range incapable {
		// WHEN / THEN
		assert.False(t, IsPwmCapable(pin))
	}
}

func TestDutyCycleFromPercent(t *testing.T) {
	// GIVEN
	expectedInputOutput := map[int]uint64{
		0:   0,
		1:   500_000,
		50:  25_000_000,
		100: PwmPeriod,
	}

	for input, output := range expectedInputOutput {
		// WHEN
		result := DutyCycleFromPercent(input)

		// THEN
		assert.Equal(t, output, result)
	}
}

func TestValidateDutyPercent(t *testing.T) {
	// GIVEN
	valid := []int{0, 50, 100}
	invalid := []int{-1, 101}

	for _, percent := range valid {
		// WHEN
		err := ValidateDutyPercent(percent)
		// THEN
		assert.NoError(t, err)
	}

	for _, percent := range invalid {
		// WHEN
		err := ValidateDutyPercent(percent)
		// THEN
		assert.Error(t, err)
	}
}
