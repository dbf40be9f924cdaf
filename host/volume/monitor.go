// Package volume turns audio frames into a haptic trigger using an RMS peak
// follower and a moving average.
package volume

import "math"

type Config struct {
	Attack         float64 // peak rise coefficient, 0..1
	Release        float64 // peak decay coefficient, 0..1
	History        int     // frames in the moving average
	Threshold      float64
	PeakMultiplier float64
}

func DefaultConfig() Config {
	return Config{Attack: 0.8, Release: 0.05, History: 50, Threshold: 0.1, PeakMultiplier: 1.5}
}

// Reading is the monitor state after one frame.
type Reading struct {
	RMS     float64
	Peak    float64
	Average float64
	Trigger bool
}

type Monitor struct {
	cfg     Config
	peak    float64
	hist    []float64
	next    int
	sum     float64
	trigger bool
}

func NewMonitor(cfg Config) *Monitor {
	if cfg.History <= 0 {
		cfg.History = 1
	}
	return &Monitor{cfg: cfg, hist: make([]float64, 0, cfg.History)}
}

// Process folds one frame of samples into the monitor.
func (m *Monitor) Process(samples []float32) Reading {
	rms := RMS(samples)

	if rms > m.peak {
		m.peak = m.peak*(1-m.cfg.Attack) + rms*m.cfg.Attack
	} else {
		m.peak *= 1 - m.cfg.Release
	}

	if len(m.hist) < m.cfg.History {
		m.hist = append(m.hist, rms)
	} else {
		m.sum -= m.hist[m.next]
		m.hist[m.next] = rms
		m.next = (m.next + 1) % m.cfg.History
	}
	m.sum += rms
	avg := m.sum / float64(len(m.hist))

	m.trigger = m.peak > m.cfg.Threshold*m.cfg.PeakMultiplier || avg > m.cfg.Threshold
	return Reading{RMS: rms, Peak: m.peak, Average: avg, Trigger: m.trigger}
}

func (m *Monitor) Triggered() bool { return m.trigger }

// RMS is the root mean square of samples; zero for an empty frame.
func RMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}
