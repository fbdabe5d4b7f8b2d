package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsAverageNeedsFullWindow(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < AVG_COUNT-1; i++ {
		m.Update(0.010)
	}
	assert.Zero(t, m.FrameTime())

	m.Update(0.010)
	assert.InDelta(t, 10.0, m.FrameTime(), 1e-9)
}

func TestMetricsFPS(t *testing.T) {
	m := NewMetrics()
	// 101 frames of 10ms crosses the one second boundary once
	for i := 0; i < 101; i++ {
		m.Update(0.010)
	}
	assert.Equal(t, float64(100), m.FPS())
}

func TestMetricsReportInterval(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < 999; i++ {
		m.Update(0.010)
	}
	_, _, ok := m.Report()
	assert.False(t, ok)

	m.Update(0.010)
	m.Update(0.010)
	frames, fps, ok := m.Report()
	assert.True(t, ok)
	assert.Equal(t, int32(1001), frames)
	assert.InDelta(t, 100.0, fps, 0.01)

	_, _, ok = m.Report()
	assert.False(t, ok)
}
