// Package status logs a periodic summary of the render loop from its bus
// telemetry.
package status

import (
	"context"
	"sync"
	"time"

	"arcade-go/bus"
	"arcade-go/services/arcade"
	"arcade-go/services/config"
	"arcade-go/x/logx"
)

var (
	topicConfigStatus = bus.T("config", "status")
	topicArcade       = bus.T("arcade", "#")
)

const defaultInterval = 5 * time.Second

// Snapshot is the latest view assembled from telemetry.
type Snapshot struct {
	State     arcade.StateEvent
	LastFrame arcade.FrameEvent
	Tick      arcade.TickEvent
	Frames    uint32 // frame events seen by this service
}

type Service struct {
	log *logx.Logger

	mu   sync.Mutex
	snap Snapshot
}

func New() *Service { return &Service{log: logx.New("status")} }

// Snapshot returns a copy of the latest view.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func (s *Service) apply(m *bus.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch ev := m.Payload.(type) {
	case arcade.StateEvent:
		s.snap.State = ev
	case arcade.FrameEvent:
		s.snap.LastFrame = ev
		s.snap.Frames++
	case arcade.TickEvent:
		s.snap.Tick = ev
	}
}

func (s *Service) report() {
	snap := s.Snapshot()
	s.log.Info("status",
		"mode", snap.State.Mode,
		"colour", snap.State.Colour,
		"ticks", snap.Tick.Ticks,
		"frames", snap.Frames,
		"drops", snap.Tick.Drops,
	)
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigStatus)
	defer conn.Unsubscribe(cfgSub)
	evSub := conn.Subscribe(topicArcade)
	defer conn.Unsubscribe(evSub)

	tick := time.NewTicker(defaultInterval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("stopping")
			return
		case <-tick.C:
			s.report()
		case m := <-evSub.Channel():
			s.apply(m)
		case m := <-cfgSub.Channel():
			if st, ok := m.Payload.(config.Status); ok && st.Interval > 0 {
				tick.Reset(st.Interval)
				s.log.Debug("interval set", "interval", st.Interval)
			}
		}
	}
}

// Start runs the service until ctx is cancelled.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) {
	go s.serviceLoop(ctx, conn)
}
