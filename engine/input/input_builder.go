package input

// DispatcherOption is a functional option for configuring a Dispatcher.
type DispatcherOption func(*dispatcher)

// WithClickThreshold sets the pointer travel in pixels below which a press and release
// count as a click.
//
// Parameters:
//   - pixels: the travel threshold
//
// Returns:
//   - DispatcherOption: option function to apply
func WithClickThreshold(pixels float64) DispatcherOption {
	return func(d *dispatcher) {
		if pixels > 0 {
			d.clickThreshold = pixels
		}
	}
}
