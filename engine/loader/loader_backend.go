package loader

import "io"

// LoaderBackendType identifies the data file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeJSON selects the JSON backend.
	BackendTypeJSON LoaderBackendType = iota

	// BackendTypeYAML selects the YAML backend.
	BackendTypeYAML
)

// document is the top-level shape shared by every format:
// {"solarSystem": {"planets": [...]}}.
type document struct {
	SolarSystem struct {
		Planets []PlanetRecord `json:"planets" yaml:"planets"`
	} `json:"solarSystem" yaml:"solarSystem"`
}

// loaderBackend defines the generic interface for decoding planet data from a stream.
// Concrete implementations (e.g., jsonLoaderBackend) handle format-specific details.
// Validation is done by the loader, not the backend.
type loaderBackend interface {
	// Decode reads a whole document from the stream.
	//
	// Parameters:
	//   - r: the reader providing the data
	//
	// Returns:
	//   - *SolarSystem: the decoded, unvalidated data
	//   - error: error if the stream is not a well-formed document
	Decode(r io.Reader) (*SolarSystem, error)
}
