package tween

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
)

// TweenOption is a functional option for configuring a tween started via Sequencer.Start.
type TweenOption func(*tween)

// WithName labels the tween, for example with the stage of a sequence it belongs to.
//
// Parameters:
//   - name: the label
//
// Returns:
//   - TweenOption: option function to apply
func WithName(name string) TweenOption {
	return func(t *tween) {
		t.name = name
	}
}

// WithEase sets the easing curve. Defaults to ease.Linear.
//
// Parameters:
//   - fn: a gween easing function
//
// Returns:
//   - TweenOption: option function to apply
func WithEase(fn ease.TweenFunc) TweenOption {
	return func(t *tween) {
		if fn != nil {
			t.easing = fn
		}
	}
}

// WithOnUpdate registers a callback run after every advance with the value just written.
//
// Parameters:
//   - fn: the update callback
//
// Returns:
//   - TweenOption: option function to apply
func WithOnUpdate(fn func(v mgl32.Vec3)) TweenOption {
	return func(t *tween) {
		t.onUpdate = fn
	}
}

// WithOnComplete registers a callback run once when the tween reaches its duration.
//
// Parameters:
//   - fn: the completion callback
//
// Returns:
//   - TweenOption: option function to apply
func WithOnComplete(fn func()) TweenOption {
	return func(t *tween) {
		t.onComplete = fn
	}
}
