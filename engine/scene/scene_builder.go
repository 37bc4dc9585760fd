package scene

import (
	"log"

	"github.com/Carmen-Shannon/oxy-orrery/engine/body"
	"github.com/Carmen-Shannon/oxy-orrery/engine/light"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithBodies adds initial bodies to the scene.
// Bodies without IDs will be assigned new IDs. Bodies whose name is already taken are skipped.
//
// Parameters:
//   - bodies: the bodies to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBodies(bodies ...body.Body) SceneBuilderOption {
	return func(s *scene) {
		for _, b := range bodies {
			if _, err := s.addLocked(b); err != nil {
				log.Printf("[Scene] skipping body: %v", err)
			}
		}
	}
}

// WithFillLight replaces the default ambient fill light.
//
// Parameters:
//   - l: the fill light (nil keeps the default)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithFillLight(l light.Light) SceneBuilderOption {
	return func(s *scene) {
		if l != nil {
			s.fill = l
		}
	}
}

// WithPrimaryLight sets the initial primary light.
//
// Parameters:
//   - l: the primary light
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPrimaryLight(l light.Light) SceneBuilderOption {
	return func(s *scene) {
		s.primary = l
	}
}
