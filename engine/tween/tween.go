package tween

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Target is anything with a tweenable position. Implementations must be comparable
// (pointer types) because the sequencer keys active tweens by target.
type Target interface {
	// Position returns the current value.
	Position() mgl32.Vec3

	// SetPosition writes an interpolated value.
	SetPosition(p mgl32.Vec3)

	// Disposed reports whether the target is gone. Tweens on disposed targets are dropped.
	Disposed() bool
}

// Handle identifies a started tween. The zero Handle never refers to a tween.
type Handle uint64

// tween is one running interpolation. Progress comes from a gween scalar tween over [0, 1]
// that the endpoints are lerped by, so easing applies uniformly to every axis.
type tween struct {
	handle     Handle
	name       string
	target     Target
	from       mgl32.Vec3
	to         mgl32.Vec3
	progress   *gween.Tween
	easing     ease.TweenFunc
	onUpdate   func(v mgl32.Vec3)
	onComplete func()
}

type sequencer struct {
	mu *sync.Mutex

	nextHandle Handle
	active     map[Handle]*tween
	byTarget   map[Target]Handle
	order      []Handle
}

// Sequencer defines the interface for frame-driven property tweens.
//
// Tweens advance only when Advance is called, once per frame, with the frame's delta in
// seconds. Callbacks run on the caller's goroutine after the sequencer lock is released, so
// an OnComplete may start the next tween to build a sequence.
type Sequencer interface {
	// Start begins a tween from one value to another on a target. An active tween on the same
	// target is cancelled first without running its OnComplete.
	//
	// Parameters:
	//   - target: the value being animated
	//   - from: the start value
	//   - to: the end value
	//   - duration: length in seconds of the frame clock
	//   - opts: optional name, easing and callbacks
	//
	// Returns:
	//   - Handle: the handle of the new tween
	Start(target Target, from, to mgl32.Vec3, duration float32, opts ...TweenOption) Handle

	// Advance moves every active tween forward. Each tween writes its value, then runs
	// OnUpdate, then runs OnComplete exactly once if it has reached its duration. Tweens whose
	// target is disposed are dropped without callbacks.
	//
	// Parameters:
	//   - dt: elapsed seconds since the last Advance
	Advance(dt float32)

	// Cancel stops a tween without running its OnComplete.
	//
	// Parameters:
	//   - h: the tween handle
	//
	// Returns:
	//   - bool: true if the tween was active
	Cancel(h Handle) bool

	// CancelAll stops every tween without running callbacks.
	CancelAll()

	// IsActive reports whether the tween is still running.
	//
	// Parameters:
	//   - h: the tween handle
	//
	// Returns:
	//   - bool: true if active
	IsActive(h Handle) bool

	// Name returns the name given at Start, or "" for an inactive handle.
	//
	// Parameters:
	//   - h: the tween handle
	//
	// Returns:
	//   - string: the tween name
	Name(h Handle) string

	// Active returns the number of running tweens.
	//
	// Returns:
	//   - int: the active tween count
	Active() int
}

var _ Sequencer = &sequencer{}

// NewSequencer creates an empty Sequencer.
//
// Returns:
//   - Sequencer: the sequencer
func NewSequencer() Sequencer {
	return &sequencer{
		mu:       &sync.Mutex{},
		active:   make(map[Handle]*tween),
		byTarget: make(map[Target]Handle),
	}
}

func (s *sequencer) Start(target Target, from, to mgl32.Vec3, duration float32, opts ...TweenOption) Handle {
	if target == nil {
		panic("tween: Start requires a non-nil Target")
	}
	tw := &tween{
		target: target,
		from:   from,
		to:     to,
		easing: ease.Linear,
	}
	for _, opt := range opts {
		opt(tw)
	}
	tw.progress = gween.New(0, 1, max(duration, 1e-6), tw.easing)

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.byTarget[target]; ok {
		s.removeLocked(prev)
	}
	s.nextHandle++
	tw.handle = s.nextHandle
	s.active[tw.handle] = tw
	s.byTarget[target] = tw.handle
	s.order = append(s.order, tw.handle)
	return tw.handle
}

func (s *sequencer) Advance(dt float32) {
	s.mu.Lock()
	snapshot := make([]Handle, len(s.order))
	copy(snapshot, s.order)
	s.mu.Unlock()

	for _, h := range snapshot {
		s.mu.Lock()
		tw, ok := s.active[h]
		if ok && tw.target.Disposed() {
			s.removeLocked(h)
			ok = false
		}
		s.mu.Unlock()
		if !ok {
			continue
		}

		p, finished := tw.progress.Update(dt)
		if finished {
			p = 1
		}
		v := tw.from.Add(tw.to.Sub(tw.from).Mul(p))
		tw.target.SetPosition(v)

		if tw.onUpdate != nil {
			tw.onUpdate(v)
		}

		if !finished {
			continue
		}
		s.mu.Lock()
		// OnUpdate may have cancelled this tween.
		_, still := s.active[h]
		if still {
			s.removeLocked(h)
		}
		s.mu.Unlock()
		if still && tw.onComplete != nil {
			tw.onComplete()
		}
	}
}

func (s *sequencer) Cancel(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(h)
}

func (s *sequencer) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = make(map[Handle]*tween)
	s.byTarget = make(map[Target]Handle)
	s.order = nil
}

func (s *sequencer) IsActive(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.active[h]
	return ok
}

func (s *sequencer) Name(h Handle) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tw, ok := s.active[h]; ok {
		return tw.name
	}
	return ""
}

func (s *sequencer) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

// removeLocked drops a tween from every index. Caller must hold s.mu.
func (s *sequencer) removeLocked(h Handle) bool {
	tw, ok := s.active[h]
	if !ok {
		return false
	}
	delete(s.active, h)
	if s.byTarget[tw.target] == h {
		delete(s.byTarget, tw.target)
	}
	for i, o := range s.order {
		if o == h {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}
