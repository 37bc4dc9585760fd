package loader

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type yamlLoaderBackend struct{}

var _ loaderBackend = &yamlLoaderBackend{}

func newYAMLLoaderBackend() loaderBackend {
	return &yamlLoaderBackend{}
}

func (b *yamlLoaderBackend) Decode(r io.Reader) (*SolarSystem, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("malformed YAML: %w", err)
	}
	return &SolarSystem{Planets: doc.SolarSystem.Planets}, nil
}
