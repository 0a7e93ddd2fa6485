package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDurationMinutes(t *testing.T) {
	tests := []struct {
		token    string
		expected int
	}{
		{"PT12H30M", 750},
		{"PT2H", 120},
		{"PT45M", 45},
		{"PT0H5M", 5},
		{"P1DT2H", 120},
		{"", 0},
		{"garbage", 0},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseDurationMinutes(tt.token))
		})
	}
}
