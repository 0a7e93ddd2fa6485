package contract

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/farewatch/farewatch/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestValidateIATA(t *testing.T) {
	tests := []struct {
		code  string
		valid bool
	}{
		{"HYD", true},
		{"ARN", true},
		{"hyd", false},
		{"HYDX", false},
		{"HY", false},
		{"H1D", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := ValidateIATA("origin", tt.code)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var vErr *schema.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, "origin", vErr.Field)
			assert.Equal(t, tt.code, vErr.Value)
		})
	}
}

func TestGetPlainDropLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    *int
		expected string
	}{
		{"no drop", nil, NoDropValue},
		{"small drop", intPtr(10), DropValue},
		{"just before big", intPtr(19), DropValue},
		{"exactly big", intPtr(20), BigDropValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainDropLabel(tt.input))
		})
	}
}

func TestGetColorDropLabel(t *testing.T) {
	assert.Contains(t, GetColorDropLabel(intPtr(25)), BigDropValue)
	assert.Contains(t, GetColorDropLabel(intPtr(5)), DropValue)
	assert.Equal(t, NoDropValue, GetColorDropLabel(nil))
}

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.txt")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, path, f.Name())
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 10))
	assert.Equal(t, "Summer ...", TruncateText("Summer in Stockholm", 10))
	assert.Equal(t, "abcdef", TruncateText("abcdef", 3))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v)
	}
	_, err := ParseBoolString("perhaps")
	assert.Error(t, err)
}

func TestGetHistoryDBFilePath(t *testing.T) {
	assert.Contains(t, GetHistoryDBFilePath(), ".farewatch_history.db")
}
