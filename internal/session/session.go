package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"careerxr/internal/scene"

	"github.com/google/uuid"
)

// Session is one scene world driven by a single client connection.
type Session struct {
	ID        uuid.UUID
	Layout    string
	CreatedAt time.Time

	world         *scene.World
	inputs        chan scene.Input
	snapshots     chan scene.Snapshot
	tickRate      int
	snapshotEvery int

	lastSeen atomic.Int64
	attached atomic.Bool
	running  atomic.Bool
	done     chan struct{}
	doneOnce sync.Once
}

func newSession(id uuid.UUID, layout scene.Layout, world *scene.World, tickRate, snapshotEvery int, now time.Time) *Session {
	if tickRate <= 0 {
		tickRate = 60
	}
	if snapshotEvery <= 0 {
		snapshotEvery = 1
	}
	s := &Session{
		ID:            id,
		Layout:        layout.Name,
		CreatedAt:     now,
		world:         world,
		inputs:        make(chan scene.Input, 256),
		snapshots:     make(chan scene.Snapshot, 8),
		tickRate:      tickRate,
		snapshotEvery: snapshotEvery,
		done:          make(chan struct{}),
	}
	s.lastSeen.Store(now.UnixNano())
	return s
}

// Send queues an input for the next frame. It reports false when the queue is
// full or the session has ended.
func (s *Session) Send(in scene.Input) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.inputs <- in:
		s.touch(time.Now())
		return true
	default:
		return false
	}
}

// Snapshots delivers world state every snapshotEvery frames. Slow readers
// miss intermediate snapshots.
func (s *Session) Snapshots() <-chan scene.Snapshot {
	return s.snapshots
}

func (s *Session) Done() <-chan struct{} {
	return s.done
}

// KeepAlive marks connection activity without input, such as a pong.
func (s *Session) KeepAlive() {
	s.touch(time.Now())
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Run steps the world at the tick rate until ctx ends. It must be called once.
func (s *Session) Run(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	defer s.close()

	interval := time.Second / time.Duration(s.tickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
			s.frame(interval)
		}
	}
}

func (s *Session) frame(dt time.Duration) {
	s.drain()
	snap := s.world.Step(dt)
	if snap.Tick%uint64(s.snapshotEvery) != 0 {
		return
	}
	select {
	case s.snapshots <- snap:
	default:
		// drop the oldest so the newest state is always delivered
		select {
		case <-s.snapshots:
		default:
		}
		select {
		case s.snapshots <- snap:
		default:
		}
	}
}

func (s *Session) drain() {
	for {
		select {
		case in := <-s.inputs:
			s.world.Enqueue(in)
		default:
			return
		}
	}
}

func (s *Session) close() {
	s.doneOnce.Do(func() { close(s.done) })
}
