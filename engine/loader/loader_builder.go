package loader

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithWorkers sets how many textures are decoded concurrently.
//
// Parameters:
//   - n: the worker count, values below 1 are treated as 1
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker option to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.workers = max(n, 1)
	}
}

// WithSunTexture sets the image used for the sun.
//
// Parameters:
//   - path: the image path, empty for a flat sun
//
// Returns:
//   - LoaderBuilderOption: a function that applies the sun texture option to a loader
func WithSunTexture(path string) LoaderBuilderOption {
	return func(l *loader) {
		l.sunTexture = path
	}
}

// WithSunColor sets the flat colour the sun falls back to.
//
// Parameters:
//   - hex: the colour in hex notation
//
// Returns:
//   - LoaderBuilderOption: a function that applies the sun colour option to a loader
func WithSunColor(hex string) LoaderBuilderOption {
	return func(l *loader) {
		l.sunColor = hex
	}
}

// WithStarTexture sets the image used for the starfield backdrop.
//
// Parameters:
//   - path: the image path, empty for a flat backdrop
//
// Returns:
//   - LoaderBuilderOption: a function that applies the starfield texture option to a loader
func WithStarTexture(path string) LoaderBuilderOption {
	return func(l *loader) {
		l.starTexture = path
	}
}

// WithTextureDecoding enables or disables image decoding. When disabled every body gets its
// flat colour and nothing is reported as degraded, which suits validation and headless runs.
//
// Parameters:
//   - enabled: false to skip decoding
//
// Returns:
//   - LoaderBuilderOption: a function that applies the decoding option to a loader
func WithTextureDecoding(enabled bool) LoaderBuilderOption {
	return func(l *loader) {
		l.decodeTextures = enabled
	}
}
