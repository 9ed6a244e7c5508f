package power

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBlPower(t *testing.T, path, value string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(value), 0644))
}

func TestBacklightIsOn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bl_power")

	tests := []struct {
		value string
		want  bool
	}{
		{"0\n", true},
		{"4\n", false},
		{"1", false},
		{"garbage", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			writeBlPower(t, path, tt.value)
			b, err := NewBacklight(path, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.IsOn())
		})
	}
}

func TestBacklightMissingAssumesOn(t *testing.T) {
	b, err := NewBacklight(filepath.Join(t.TempDir(), "missing"), 0)
	require.NoError(t, err)
	assert.True(t, b.IsOn())
}

func TestBacklightCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bl_power")
	writeBlPower(t, path, "0")

	b, err := NewBacklight(path, time.Hour)
	require.NoError(t, err)
	require.True(t, b.IsOn())

	writeBlPower(t, path, "4")
	assert.True(t, b.IsOn(), "cached value is served within the ttl")

	b.ttl = 0
	assert.False(t, b.IsOn())
}

func TestDetectBacklight(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "panel0"), 0755))
	writeBlPower(t, filepath.Join(dir, "panel0", "bl_power"), "0")

	got, err := DetectBacklight(filepath.Join(dir, "*", "bl_power"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "panel0", "bl_power"), got)

	_, err = DetectBacklight(filepath.Join(t.TempDir(), "*", "bl_power"))
	assert.Error(t, err)
}

func TestStatic(t *testing.T) {
	assert.True(t, Static(true).IsOn())
	assert.False(t, Static(false).IsOn())
}
