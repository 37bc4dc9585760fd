package solar

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Observer receives controller events. Calls arrive on the frame thread.
type Observer interface {
	// SelectionChanged reports a completed focus on a body at its final position.
	SelectionChanged(name string, position mgl32.Vec3)

	// SelectionCleared reports a return to free orbit.
	SelectionCleared()

	// AssetDegraded reports a texture that fell back to a flat colour.
	AssetDegraded(asset string, err error)
}

// observers fans events out to every registered Observer.
type observers struct {
	mu *sync.Mutex

	nextID uint64
	byID   map[uint64]Observer
	order  []uint64
}

func newObservers() *observers {
	return &observers{
		mu:   &sync.Mutex{},
		byID: make(map[uint64]Observer),
	}
}

func (o *observers) add(obs Observer) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.nextID++
	id := o.nextID
	o.byID[id] = obs
	o.order = append(o.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			delete(o.byID, id)
			for i, v := range o.order {
				if v == id {
					o.order = append(o.order[:i], o.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (o *observers) clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.byID = make(map[uint64]Observer)
	o.order = nil
}

func (o *observers) snapshot() []Observer {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Observer, 0, len(o.order))
	for _, id := range o.order {
		out = append(out, o.byID[id])
	}
	return out
}

func (o *observers) SelectionChanged(name string, position mgl32.Vec3) {
	for _, obs := range o.snapshot() {
		obs.SelectionChanged(name, position)
	}
}

func (o *observers) SelectionCleared() {
	for _, obs := range o.snapshot() {
		obs.SelectionCleared()
	}
}

func (o *observers) AssetDegraded(asset string, err error) {
	for _, obs := range o.snapshot() {
		obs.AssetDegraded(asset, err)
	}
}
