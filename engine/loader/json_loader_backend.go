package loader

import (
	"encoding/json"
	"fmt"
	"io"
)

type jsonLoaderBackend struct{}

var _ loaderBackend = &jsonLoaderBackend{}

func newJSONLoaderBackend() loaderBackend {
	return &jsonLoaderBackend{}
}

func (b *jsonLoaderBackend) Decode(r io.Reader) (*SolarSystem, error) {
	var doc document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}
	return &SolarSystem{Planets: doc.SolarSystem.Planets}, nil
}
