package solar

import (
	"github.com/Carmen-Shannon/oxy-orrery/config"
	"github.com/Carmen-Shannon/oxy-orrery/engine/loader"
)

// ControllerOption is a functional option for configuring a Controller via New.
type ControllerOption func(*controller)

// WithConfig sets the runtime settings. Nil keeps the defaults.
//
// Parameters:
//   - cfg: the configuration
//
// Returns:
//   - ControllerOption: a function that applies the config option to a controller
func WithConfig(cfg *config.Config) ControllerOption {
	return func(c *controller) {
		if cfg != nil {
			c.cfg = cfg
		}
	}
}

// WithAssets sets the materials built by the loader. Without it every body is drawn flat.
//
// Parameters:
//   - assets: the loaded materials
//
// Returns:
//   - ControllerOption: a function that applies the assets option to a controller
func WithAssets(assets loader.Assets) ControllerOption {
	return func(c *controller) {
		c.assets = &assets
	}
}

// WithRenderer attaches a renderer that Frame draws through.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - ControllerOption: a function that applies the renderer option to a controller
func WithRenderer(r Renderer) ControllerOption {
	return func(c *controller) {
		c.renderer = r
	}
}

// WithObserver registers an observer before the scene is built, so it also receives the
// AssetDegraded events raised during construction.
//
// Parameters:
//   - o: the observer
//
// Returns:
//   - ControllerOption: a function that applies the observer option to a controller
func WithObserver(o Observer) ControllerOption {
	return func(c *controller) {
		c.observers.add(o)
	}
}
