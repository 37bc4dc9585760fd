package input

import (
	"math"
	"sync"
)

// Button identifies a mouse button.
type Button int

const (
	// ButtonLeft is the primary button. Left clicks pick and left drags orbit.
	ButtonLeft Button = iota

	// ButtonRight is the secondary button. Right drags pan.
	ButtonRight

	// ButtonMiddle is the wheel button.
	ButtonMiddle
)

// DefaultClickThreshold is the pointer travel in pixels below which a press and release
// count as a click rather than a drag.
const DefaultClickThreshold = 4.0

// Handler receives pointer and viewport events. Methods are called on the goroutine that
// feeds the Dispatcher, which is the window's main thread.
type Handler interface {
	// PointerMove reports the pointer position in pixels from the top-left corner.
	PointerMove(x, y float64)

	// Click reports a left press and release that stayed within the click threshold.
	Click(x, y float64)

	// Drag reports pointer travel while a button is held.
	Drag(button Button, dx, dy float64)

	// Scroll reports vertical wheel movement. Positive values scroll away from the user.
	Scroll(delta float64)

	// Resize reports a new framebuffer size in pixels.
	Resize(width, height int)
}

// Source is an event stream a Handler can subscribe to.
type Source interface {
	// Subscribe registers h for every subsequent event.
	//
	// Parameters:
	//   - h: the handler
	//
	// Returns:
	//   - func(): removes the subscription. Safe to call more than once.
	Subscribe(h Handler) func()
}

type pressState struct {
	down   bool
	startX float64
	startY float64
	travel float64
}

type dispatcher struct {
	mu *sync.Mutex

	clickThreshold float64

	nextID   uint64
	handlers map[uint64]Handler
	order    []uint64

	lastX, lastY float64
	havePointer  bool
	presses      map[Button]*pressState
}

// Dispatcher turns raw window callbacks into Handler events and fans them out to subscribers.
type Dispatcher interface {
	Source

	// ButtonDown records a button press at the pointer position.
	//
	// Parameters:
	//   - b: the button
	//   - x, y: the pointer position in pixels
	ButtonDown(b Button, x, y float64)

	// ButtonUp records a button release. A left release within the click threshold of its
	// press emits Click.
	//
	// Parameters:
	//   - b: the button
	//   - x, y: the pointer position in pixels
	ButtonUp(b Button, x, y float64)

	// Move records pointer motion, emitting PointerMove and a Drag for every held button.
	//
	// Parameters:
	//   - x, y: the pointer position in pixels
	Move(x, y float64)

	// Scroll forwards wheel movement.
	//
	// Parameters:
	//   - delta: vertical scroll amount
	Scroll(delta float64)

	// Resize forwards a framebuffer resize.
	//
	// Parameters:
	//   - width, height: the new size in pixels
	Resize(width, height int)

	// Subscribers returns the number of active subscriptions.
	//
	// Returns:
	//   - int: the subscriber count
	Subscribers() int
}

var _ Dispatcher = &dispatcher{}

// NewDispatcher creates a Dispatcher with no subscribers.
//
// Parameters:
//   - options: functional options to configure the dispatcher
//
// Returns:
//   - Dispatcher: the dispatcher
func NewDispatcher(options ...DispatcherOption) Dispatcher {
	d := &dispatcher{
		mu:             &sync.Mutex{},
		clickThreshold: DefaultClickThreshold,
		handlers:       make(map[uint64]Handler),
		presses:        make(map[Button]*pressState),
	}
	for _, option := range options {
		option(d)
	}
	return d
}

func (d *dispatcher) Subscribe(h Handler) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	id := d.nextID
	d.handlers[id] = h
	d.order = append(d.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			delete(d.handlers, id)
			for i, o := range d.order {
				if o == id {
					d.order = append(d.order[:i], d.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (d *dispatcher) Subscribers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.handlers)
}

// snapshot copies the subscriber list so handlers run without the lock held.
// Caller must hold d.mu.
func (d *dispatcher) snapshot() []Handler {
	out := make([]Handler, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.handlers[id])
	}
	return out
}

func (d *dispatcher) ButtonDown(b Button, x, y float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.presses[b] = &pressState{down: true, startX: x, startY: y}
	d.lastX, d.lastY, d.havePointer = x, y, true
}

func (d *dispatcher) ButtonUp(b Button, x, y float64) {
	d.mu.Lock()
	p, ok := d.presses[b]
	delete(d.presses, b)
	click := ok && p.down && b == ButtonLeft &&
		p.travel < d.clickThreshold &&
		math.Hypot(x-p.startX, y-p.startY) < d.clickThreshold
	handlers := d.snapshot()
	d.mu.Unlock()

	if !click {
		return
	}
	for _, h := range handlers {
		h.Click(x, y)
	}
}

func (d *dispatcher) Move(x, y float64) {
	d.mu.Lock()
	dx, dy := 0.0, 0.0
	if d.havePointer {
		dx, dy = x-d.lastX, y-d.lastY
	}
	d.lastX, d.lastY, d.havePointer = x, y, true

	var held []Button
	for _, b := range []Button{ButtonLeft, ButtonRight, ButtonMiddle} {
		if p, ok := d.presses[b]; ok && p.down {
			p.travel += math.Hypot(dx, dy)
			held = append(held, b)
		}
	}
	handlers := d.snapshot()
	d.mu.Unlock()

	for _, h := range handlers {
		h.PointerMove(x, y)
		if dx == 0 && dy == 0 {
			continue
		}
		for _, b := range held {
			h.Drag(b, dx, dy)
		}
	}
}

func (d *dispatcher) Scroll(delta float64) {
	d.mu.Lock()
	handlers := d.snapshot()
	d.mu.Unlock()
	for _, h := range handlers {
		h.Scroll(delta)
	}
}

func (d *dispatcher) Resize(width, height int) {
	d.mu.Lock()
	handlers := d.snapshot()
	d.mu.Unlock()
	for _, h := range handlers {
		h.Resize(width, height)
	}
}
