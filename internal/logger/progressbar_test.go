package logger

import (
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
)

// TestProgressBarRender verifies correct ASCII bar rendering
func TestProgressBarRender(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		total    int
		width    int
		expected string
	}{
		{name: "empty progress", current: 0, total: 10, width: 10, expected: "[          ] 0/10 (0%)"},
		{name: "half progress", current: 5, total: 10, width: 10, expected: "[=====     ] 5/10 (50%)"},
		{name: "full progress", current: 10, total: 10, width: 10, expected: "[==========] 10/10 (100%)"},
		{name: "quarter progress", current: 2, total: 8, width: 8, expected: "[==      ] 2/8 (25%)"},
		{name: "overflow clamps", current: 12, total: 10, width: 10, expected: "[==========] 12/10 (100%)"},
		{name: "zero total", current: 0, total: 0, width: 4, expected: "[    ] 0/0 (0%)"},
		{name: "invalid width", current: 5, total: 10, width: 0, expected: "[=====     ] 5/10 (50%)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pb := NewProgressBar(tt.total, tt.width, false)
			pb.Update(tt.current)
			if got := pb.Render(); got != tt.expected {
				t.Errorf("Render() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestProgressBarPrefixAndColor(t *testing.T) {
	saved := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = saved }()

	pb := NewProgressBar(2, 4, true)
	pb.SetPrefix("Progress: ")
	pb.Increment()

	got := pb.Render()
	if !strings.Contains(got, "Progress: [==  ] 1/2 (50%)") {
		t.Errorf("Render() = %q, missing prefixed bar", got)
	}
	if !strings.Contains(got, "\x1b[36m") {
		t.Errorf("in-progress bar should be cyan, got %q", got)
	}

	pb.Increment()
	if got := pb.Render(); !strings.Contains(got, "\x1b[32m") {
		t.Errorf("complete bar should be green, got %q", got)
	}
}

func TestProgressBarConcurrentIncrement(t *testing.T) {
	pb := NewProgressBar(100, 10, false)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pb.Increment()
		}()
	}
	wg.Wait()

	if got := pb.Percentage(); got != 100 {
		t.Errorf("Percentage() = %d, want 100", got)
	}
}
