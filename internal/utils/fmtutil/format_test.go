package fmtutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestFormatBytes tests FormatBytes function
// TestFormatBytes 测试 FormatBytes 函数
func TestFormatBytes(t *testing.T) {
	tests := []struct {
		input    uint64
		expected string
	}{
		{0, "0B"},
		{512, "512B"},
		{1023, "1023B"},
		{1024, "1.00KB"},
		{1536, "1.50KB"},
		{1048576, "1.00MB"},
		{1073741824, "1.00GB"},
	}

	for _, tt := range tests {
		result := FormatBytes(tt.input)
		assert.Equal(t, tt.expected, result, "FormatBytes(%d) = %s, want %s", tt.input, result, tt.expected)
	}
}

// TestFormatDuration tests FormatDuration function
// TestFormatDuration 测试 FormatDuration 函数
func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input    time.Duration
		contains string
	}{
		{time.Millisecond, "ms"},
		{time.Second, "1s"},
		{time.Minute, "1m"},
		{time.Hour, "1h"},
		{24 * time.Hour, "1d"},
		{25 * time.Hour, "1d 1h"},
		{90 * time.Second, "1m 30s"},
	}

	for _, tt := range tests {
		result := FormatDuration(tt.input)
		assert.Contains(t, result, tt.contains, "FormatDuration(%v) = %s, should contain %s", tt.input, result, tt.contains)
	}
}
