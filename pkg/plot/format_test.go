package plot

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatencyLabel(t *testing.T) {
	assert.Equal(t, "0ms", LatencyLabel(0))
	assert.Equal(t, "500µs", LatencyLabel(0.5))
	assert.Equal(t, "12.3ms", LatencyLabel(12.34))
	assert.Equal(t, "1.50s", LatencyLabel(1500))
	assert.Equal(t, "N/A", LatencyLabel(math.NaN()))
}

func TestScalarFormatter(t *testing.T) {
	plain := ScalarFormatter{PowerLimits: DefaultPowerLimits}
	assert.Equal(t, "12.5", plain.Format(12.5))
	assert.Equal(t, "12345", plain.Format(12345))
	assert.Equal(t, "0.00123", plain.Format(0.001234))
	assert.Equal(t, "0", plain.Format(0))
	assert.Equal(t, "-2", plain.Format(-2))

	sci := ScalarFormatter{Scientific: true, PowerLimits: DefaultPowerLimits}
	assert.Equal(t, "1.2e+04", sci.Format(12345))
	assert.Equal(t, "1.2e-05", sci.Format(0.0000123))
	assert.Equal(t, "250", sci.Format(250))
}

func TestLogFormatter(t *testing.T) {
	f := LogFormatter{Base: 10}
	assert.Equal(t, "10^2", f.Format(100))
	assert.Equal(t, "10^0", f.Format(1))
	assert.Equal(t, "50", f.Format(50))
	assert.Equal(t, "0", f.Format(-1))
}

func TestNewFormatter(t *testing.T) {
	for kind, want := range map[FormatKind]Formatter{
		FormatSci:     ScalarFormatter{Scientific: true, PowerLimits: DefaultPowerLimits},
		FormatPlain:   ScalarFormatter{PowerLimits: DefaultPowerLimits},
		"LOG":         LogFormatter{Base: 10},
		FormatLatency: LatencyFormatter{},
	} {
		got, err := NewFormatter(kind)
		require.NoError(t, err, kind)
		assert.Equal(t, want, got, kind)
	}

	_, err := NewFormatter("bogus")
	assert.Error(t, err)
}

func TestAxisSelector(t *testing.T) {
	for in, want := range map[string]AxisSelector{"": AxisAll, "all": AxisAll, "X": AxisX, "y": AxisY} {
		got, err := ParseAxisSelector(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseAxisSelector("z")
	assert.Error(t, err)

	a, b := LatencyFormatter{}, LogFormatter{Base: 10}
	pair := [2]Formatter{a, a}
	assert.Equal(t, [2]Formatter{b, a}, AxisX.apply(pair, b))
	assert.Equal(t, [2]Formatter{a, b}, AxisY.apply(pair, b))
	assert.Equal(t, [2]Formatter{b, b}, AxisAll.apply(pair, b))
	assert.Equal(t, pair, AxisAll.apply(pair, nil))
}
