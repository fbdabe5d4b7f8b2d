package core

import "github.com/spaghettifunk/deferred/engine/containers"

const AVG_COUNT int = 30

// Seconds between two frame reports.
const REPORT_INTERVAL float64 = 10.0

// Metrics tracks the frame time rolling average, the frames per second and
// the periodic frame report.
type Metrics struct {
	frameTimes         *containers.RingQueue[float64]
	msAvg              float64
	frames             int32
	accumulatedFrameMS float64
	fps                float64

	reportFrames  int32
	reportElapsed float64
}

func NewMetrics() *Metrics {
	return &Metrics{
		frameTimes: containers.NewRingQueue[float64](AVG_COUNT),
	}
}

// Update records one frame that took frameElapsedTime seconds.
func (m *Metrics) Update(frameElapsedTime float64) {
	// Calculate frame ms average
	frameMS := frameElapsedTime * 1000.0
	m.frameTimes.Push(frameMS)
	if m.frameTimes.IsFull() {
		sum := 0.0
		m.frameTimes.Each(func(v float64) { sum += v })
		m.msAvg = sum / float64(AVG_COUNT)
	}

	// Calculate Frames per second.
	m.accumulatedFrameMS += frameMS
	if m.accumulatedFrameMS > 1000 {
		m.fps = float64(m.frames)
		m.accumulatedFrameMS -= 1000
		m.frames = 0
	}

	// Count all Frames.
	m.frames++
	m.reportFrames++
	m.reportElapsed += frameElapsedTime
}

// Report returns the frames rendered during the last REPORT_INTERVAL seconds
// once the interval has elapsed. ok is false otherwise.
func (m *Metrics) Report() (frames int32, fps float64, ok bool) {
	if m.reportElapsed < REPORT_INTERVAL {
		return 0, 0, false
	}
	frames = m.reportFrames
	fps = float64(frames) / m.reportElapsed
	m.reportFrames = 0
	m.reportElapsed = 0
	return frames, fps, true
}

func (m *Metrics) FPS() float64 {
	return m.fps
}

func (m *Metrics) FrameTime() float64 {
	return m.msAvg
}

func (m *Metrics) Frame() (float64, float64) {
	return m.fps, m.msAvg
}
