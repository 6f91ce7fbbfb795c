package store

import "testing"

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, defaultListLimit},
		{-5, defaultListLimit},
		{1, 1},
		{50, 50},
		{maxListLimit, maxListLimit},
		{maxListLimit + 1, maxListLimit},
	}
	for _, tt := range tests {
		if got := ClampLimit(tt.in); got != tt.want {
			t.Errorf("ClampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
