package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMissing(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		v    *float64
		want bool
	}{
		{"nil temperature", Temperature, nil, true},
		{"temperature sentinel", Temperature, ptr(9999.9), true},
		{"valid temperature", Temperature, ptr(72.5), false},
		{"temperature equality only", Temperature, ptr(10000), false},
		{"precipitation threshold", Precipitation, ptr(99.99), true},
		{"precipitation above threshold", Precipitation, ptr(120), true},
		{"valid precipitation", Precipitation, ptr(0.25), false},
		{"zero precipitation", Precipitation, ptr(0), false},
		{"wind threshold", WindSpeed, ptr(999.9), true},
		{"valid wind", WindSpeed, ptr(12.3), false},
		{"nil wind", WindSpeed, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMissing(tt.kind, tt.v))
		})
	}
}

func TestFilter(t *testing.T) {
	v := ptr(1.5)
	assert.Same(t, v, Filter(Precipitation, v))
	assert.Nil(t, Filter(Precipitation, ptr(99.99)))
	assert.Nil(t, Filter(Temperature, ptr(TemperatureMissing)))
}
