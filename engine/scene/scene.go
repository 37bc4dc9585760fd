package scene

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-orrery/common"
	"github.com/Carmen-Shannon/oxy-orrery/engine/body"
	"github.com/Carmen-Shannon/oxy-orrery/engine/light"
	"github.com/Carmen-Shannon/oxy-orrery/engine/model"
)

// ErrDuplicateName is returned by AddBody when a body with the same name is already registered.
var ErrDuplicateName = errors.New("scene: duplicate body name")

// Filter selects bodies for ListBodies. A nil Filter selects every body.
type Filter func(b body.Body) bool

// ByKind selects bodies of any of the given kinds.
//
// Parameters:
//   - kinds: the kinds to select
//
// Returns:
//   - Filter: the kind filter
func ByKind(kinds ...body.Kind) Filter {
	return func(b body.Body) bool {
		for _, k := range kinds {
			if b.Kind() == k {
				return true
			}
		}
		return false
	}
}

// Solid selects the bodies that take part in picking.
func Solid() Filter {
	return func(b body.Body) bool {
		return b.Kind().Solid()
	}
}

// Scene defines the interface for the store of renderable bodies and lights.
//
// Bodies are addressed by the ID assigned on AddBody and by their unique name. Orbit paths
// live in the same store as bodies of kind KindOrbitPath and are created lazily, at most one
// per parent.
type Scene interface {
	// Name returns the name of the scene.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// Count returns the number of registered bodies, orbit paths included.
	//
	// Returns:
	//   - int: the body count
	Count() int

	// AddBody registers a body and assigns it an ID if it has none.
	//
	// Parameters:
	//   - b: the body to add
	//
	// Returns:
	//   - uint64: the body ID
	//   - error: ErrDuplicateName if the name is taken
	AddBody(b body.Body) (uint64, error)

	// RemoveBody unregisters a body and marks it disposed so tweens bound to it stop.
	// Removing an unknown ID is a no-op.
	//
	// Parameters:
	//   - id: the body ID
	RemoveBody(id uint64)

	// Body returns the body with the given ID, or nil.
	//
	// Parameters:
	//   - id: the body ID
	//
	// Returns:
	//   - body.Body: the body or nil
	Body(id uint64) body.Body

	// BodyByName returns the body with the given name, or nil.
	//
	// Parameters:
	//   - name: the body name
	//
	// Returns:
	//   - body.Body: the body or nil
	BodyByName(name string) body.Body

	// ListBodies returns the bodies accepted by the filter in ID order.
	//
	// Parameters:
	//   - filter: the selection filter, or nil for every body
	//
	// Returns:
	//   - []body.Body: the selected bodies
	ListBodies(filter Filter) []body.Body

	// FindBodyAt returns the nearest visible solid body hit by the ray, or nil on a miss.
	// Bodies are tested as spheres of their radius.
	//
	// Parameters:
	//   - ray: the world-space ray
	//
	// Returns:
	//   - body.Body: the nearest hit or nil
	FindBodyAt(ray common.Ray) body.Body

	// EnsureOrbitPath returns the orbit path of the parent body, creating it hidden on first use.
	//
	// Parameters:
	//   - parent: the orbiting body
	//   - segments: the number of line segments for a new path
	//
	// Returns:
	//   - body.Body: the orbit path
	//   - bool: true if the path was created by this call
	EnsureOrbitPath(parent body.Body, segments int) (body.Body, bool)

	// OrbitPath returns the orbit path of the named body, or nil if none was created yet.
	//
	// Parameters:
	//   - parent: the parent body name
	//
	// Returns:
	//   - body.Body: the orbit path or nil
	OrbitPath(parent string) body.Body

	// SetPrimaryLight replaces the primary light. The fill light is untouched.
	//
	// Parameters:
	//   - l: the new primary light, or nil to remove it
	SetPrimaryLight(l light.Light)

	// PrimaryLight returns the primary light, or nil.
	//
	// Returns:
	//   - light.Light: the primary light
	PrimaryLight() light.Light

	// FillLight returns the constant ambient fill light.
	//
	// Returns:
	//   - light.Light: the fill light
	FillLight() light.Light

	// Lights returns the fill light followed by the primary light when one is set.
	//
	// Returns:
	//   - []light.Light: the active lights
	Lights() []light.Light

	// Clear disposes and removes every body. Lights are kept.
	Clear()
}

type scene struct {
	mu *sync.RWMutex

	name string

	registry map[uint64]body.Body // bodies by ID
	byName   map[string]uint64
	nextID   uint64

	primary light.Light
	fill    light.Light
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates an empty scene with a white ambient fill light of intensity 0.1.
//
// Parameters:
//   - name: the name of the scene
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:       &sync.RWMutex{},
		name:     name,
		registry: make(map[uint64]body.Body),
		byName:   make(map[string]uint64),
		nextID:   1,
		fill:     light.NewLight(light.LightTypeAmbient, light.WithIntensity(0.1)),
	}

	for _, option := range options {
		option(s)
	}

	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) AddBody(b body.Body) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(b)
}

// addLocked registers b. Caller must hold s.mu write lock.
func (s *scene) addLocked(b body.Body) (uint64, error) {
	if b == nil {
		panic("scene: cannot add a nil Body")
	}
	if _, exists := s.byName[b.Name()]; exists {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateName, b.Name())
	}

	if b.ID() == 0 {
		b.SetID(s.nextID)
		s.nextID++
	} else if b.ID() >= s.nextID {
		s.nextID = b.ID() + 1
	}

	s.registry[b.ID()] = b
	s.byName[b.Name()] = b.ID()
	return b.ID(), nil
}

func (s *scene) RemoveBody(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, exists := s.registry[id]
	if !exists {
		return
	}
	delete(s.registry, id)
	delete(s.byName, b.Name())
	b.Dispose()
}

func (s *scene) Body(id uint64) body.Body {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry[id]
}

func (s *scene) BodyByName(name string) body.Body {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[name]
	if !ok {
		return nil
	}
	return s.registry[id]
}

func (s *scene) ListBodies(filter Filter) []body.Body {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]body.Body, 0, len(s.registry))
	for _, b := range s.registry {
		if filter == nil || filter(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (s *scene) FindBodyAt(ray common.Ray) body.Body {
	var (
		nearest body.Body
		best    float32
	)
	for _, b := range s.ListBodies(Solid()) {
		if !b.Visible() {
			continue
		}
		t, ok := ray.IntersectSphere(b.Position(), b.Radius())
		if !ok {
			continue
		}
		if nearest == nil || t < best {
			nearest, best = b, t
		}
	}
	return nearest
}

func (s *scene) EnsureOrbitPath(parent body.Body, segments int) (body.Body, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := body.OrbitPathName(parent.Name())
	if id, ok := s.byName[name]; ok {
		return s.registry[id], false
	}

	path := body.NewBody(name, body.KindOrbitPath,
		body.WithRadius(parent.Distance()),
		body.WithMesh(model.Circle(segments)),
		body.WithMaterial(model.NewMaterial(model.WithUnlit(true))),
		body.WithParent(parent.Name()),
		body.WithVisible(false),
	)
	if _, err := s.addLocked(path); err != nil {
		// The name check above makes this unreachable.
		panic(fmt.Sprintf("scene: failed to add orbit path: %v", err))
	}
	return path, true
}

func (s *scene) OrbitPath(parent string) body.Body {
	return s.BodyByName(body.OrbitPathName(parent))
}

func (s *scene) SetPrimaryLight(l light.Light) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.primary = l
}

func (s *scene) PrimaryLight() light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.primary
}

func (s *scene) FillLight() light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fill
}

func (s *scene) Lights() []light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lights := []light.Light{s.fill}
	if s.primary != nil {
		lights = append(lights, s.primary)
	}
	return lights
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.registry {
		b.Dispose()
	}
	s.registry = make(map[uint64]body.Body)
	s.byName = make(map[string]uint64)
}
