package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-orrery/engine/model"
)

// ErrInvalidRecord is wrapped by every validation failure of a planet record.
var ErrInvalidRecord = errors.New("invalid planet record")

// ErrNoPlanets is returned when the data contains no planet records.
var ErrNoPlanets = errors.New("solar system has no planets")

// Reserved body names used by the scene for bodies that are not loaded from data.
const (
	SunName       = "Sun"
	StarfieldName = "Starfield"
)

// PlanetRecord is one planet as it appears in the data file.
type PlanetRecord struct {
	Name            string  `json:"name" yaml:"name"`
	Radius          float32 `json:"radius" yaml:"radius"`
	OrbitPeriod     float32 `json:"orbitPeriod" yaml:"orbitPeriod"`
	DistanceFromSun float32 `json:"distanceFromSun" yaml:"distanceFromSun"`
	Image           string  `json:"image,omitempty" yaml:"image,omitempty"`
	Color           string  `json:"color,omitempty" yaml:"color,omitempty"`
}

// SolarSystem is the validated content of a data file.
type SolarSystem struct {
	Planets []PlanetRecord

	// BaseDir is the directory planet image paths are relative to.
	BaseDir string
}

// ImagePath resolves a record's image against the data file's directory.
//
// Parameters:
//   - rec: the planet record
//
// Returns:
//   - string: the resolved path, or "" when the record has no image
func (s *SolarSystem) ImagePath(rec PlanetRecord) string {
	if rec.Image == "" {
		return ""
	}
	if filepath.IsAbs(rec.Image) || s.BaseDir == "" {
		return rec.Image
	}
	return filepath.Join(s.BaseDir, rec.Image)
}

// Validate checks every record and returns the first problem found. Names must be present,
// unique and not reserved. Radius, period and distance must be positive. Each record needs an
// image or a colour, and a colour must parse.
//
// Returns:
//   - error: an error wrapping ErrInvalidRecord or ErrNoPlanets, or nil
func (s *SolarSystem) Validate() error {
	if len(s.Planets) == 0 {
		return ErrNoPlanets
	}
	seen := make(map[string]int, len(s.Planets))
	for i, rec := range s.Planets {
		invalid := func(reason string) error {
			return fmt.Errorf("%w: record %d (%q): %s", ErrInvalidRecord, i, rec.Name, reason)
		}
		switch {
		case strings.TrimSpace(rec.Name) == "":
			return invalid("missing name")
		case rec.Name == SunName || rec.Name == StarfieldName:
			return invalid("name is reserved")
		case strings.HasSuffix(rec.Name, "_orbit"):
			return invalid("name may not end in _orbit")
		case rec.Radius <= 0:
			return invalid("radius must be positive")
		case rec.OrbitPeriod <= 0:
			return invalid("orbitPeriod must be positive")
		case rec.DistanceFromSun <= 0:
			return invalid("distanceFromSun must be positive")
		case rec.Image == "" && rec.Color == "":
			return invalid("needs an image or a color")
		}
		if rec.Color != "" {
			if _, err := model.ParseColor(rec.Color); err != nil {
				return invalid(err.Error())
			}
		}
		if first, dup := seen[rec.Name]; dup {
			return invalid(fmt.Sprintf("duplicate of record %d", first))
		}
		seen[rec.Name] = i
	}
	return nil
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	cache    map[string]*SolarSystem
	backends map[LoaderBackendType]loaderBackend

	workers        int
	sunTexture     string
	starTexture    string
	sunColor       string
	decodeTextures bool
}

// Loader defines the public-facing interface for loading planet data and the materials the
// bodies are drawn with. Data files are decoded by a backend chosen from the file extension
// and cached by path.
type Loader interface {
	// Load reads, decodes and validates a data file and caches the result.
	// If the file is already cached, the cached version is returned.
	// The backend is selected based on the file extension (.json, .yaml/.yml).
	//
	// Parameters:
	//   - path: the file path to the data file
	//
	// Returns:
	//   - *SolarSystem: the validated data
	//   - error: error if reading, decoding or validation fails
	Load(path string) (*SolarSystem, error)

	// LoadReader decodes and validates data from a stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the data
	//   - r: the reader providing the data
	//   - backendType: the format of the stream
	//   - baseDir: the directory image paths are relative to
	//
	// Returns:
	//   - *SolarSystem: the validated data
	//   - error: error if decoding or validation fails
	LoadReader(name string, r io.Reader, backendType LoaderBackendType, baseDir string) (*SolarSystem, error)

	// Get retrieves cached data by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - *SolarSystem: the cached data or nil
	Get(name string) *SolarSystem

	// Materials builds the sun, starfield and planet materials. Textures are decoded in
	// parallel. A texture that cannot be decoded degrades to a flat material and is reported
	// in Assets.Degraded instead of failing the load.
	//
	// Parameters:
	//   - sys: the validated data
	//
	// Returns:
	//   - Assets: the materials and any degraded textures
	Materials(sys *SolarSystem) Assets
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the JSON and YAML backends registered and any options applied.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		cache: make(map[string]*SolarSystem),
		backends: map[LoaderBackendType]loaderBackend{
			BackendTypeJSON: newJSONLoaderBackend(),
			BackendTypeYAML: newYAMLLoaderBackend(),
		},
		workers:        4,
		sunColor:       DefaultSunColor,
		decodeTextures: true,
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (*SolarSystem, error) {
	l.mu.RLock()
	if cached, ok := l.cache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backendType, err := resolveBackend(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return l.LoadReader(path, f, backendType, filepath.Dir(path))
}

func (l *loader) LoadReader(name string, r io.Reader, backendType LoaderBackendType, baseDir string) (*SolarSystem, error) {
	l.mu.RLock()
	if cached, ok := l.cache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	backend, ok := l.backends[backendType]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("loader: no backend registered for type %d", backendType)
	}

	sys, err := backend.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to load %q: %w", name, err)
	}
	sys.BaseDir = baseDir
	if err := sys.Validate(); err != nil {
		return nil, fmt.Errorf("failed to load %q: %w", name, err)
	}

	l.mu.Lock()
	l.cache[name] = sys
	l.mu.Unlock()

	return sys, nil
}

func (l *loader) Get(name string) *SolarSystem {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cache[name]
}

// resolveBackend selects an appropriate loader backend based on the file extension.
func resolveBackend(path string) (LoaderBackendType, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return BackendTypeJSON, nil
	case ".yaml", ".yml":
		return BackendTypeYAML, nil
	default:
		return 0, fmt.Errorf("unsupported data file extension %q", ext)
	}
}
