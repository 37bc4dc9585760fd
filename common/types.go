// package common contains plain types and helpers shared across the engine packages. They are not
// interface-wrapped structs, just small value types and maths utilities.
package common

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// Cursor is the pointer affordance shown over the rendering surface.
type Cursor int

const (
	// CursorDefault is the regular arrow cursor.
	CursorDefault Cursor = iota

	// CursorPointer signals that the element under the pointer can be clicked.
	CursorPointer
)

func (c Cursor) String() string {
	switch c {
	case CursorPointer:
		return "pointer"
	default:
		return "default"
	}
}

// TextureStagingData holds RGBA pixel data for a texture pending GPU upload.
type TextureStagingData struct {
	// Pixels is the RGBA pixel data, 4 bytes per pixel, row-major.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// SolidTexture builds a 1x1 texture filled with a single RGBA colour.
// Flat-coloured materials bind one of these so every draw samples the same way.
//
// Parameters:
//   - r, g, b, a: colour channels in [0, 255]
//
// Returns:
//   - TextureStagingData: the staged 1x1 texture
func SolidTexture(r, g, b, a uint8) TextureStagingData {
	return TextureStagingData{
		Pixels: []byte{r, g, b, a},
		Width:  1,
		Height: 1,
	}
}

// TextureSource points at an image either on disk or already in memory.
type TextureSource struct {
	// Path is the file path for on-disk textures.
	Path string

	// Data contains raw PNG/JPEG bytes. Takes precedence over Path when set.
	Data []byte
}

// Decode decodes the source into RGBA staging data.
// Reference: https://pkg.go.dev/image
//
// Returns:
//   - TextureStagingData: RGBA pixels and dimensions
//   - error: error if the source is empty, unreadable or not a supported image
func (t TextureSource) Decode() (TextureStagingData, error) {
	var img image.Image
	var err error

	switch {
	case len(t.Data) > 0:
		img, _, err = image.Decode(bytes.NewReader(t.Data))
		if err != nil {
			return TextureStagingData{}, fmt.Errorf("failed to decode embedded image: %w", err)
		}
	case t.Path != "":
		file, fileErr := os.Open(t.Path)
		if fileErr != nil {
			return TextureStagingData{}, fmt.Errorf("failed to open texture file %s: %w", t.Path, fileErr)
		}
		defer file.Close()

		img, _, err = image.Decode(file)
		if err != nil {
			return TextureStagingData{}, fmt.Errorf("failed to decode texture file %s: %w", t.Path, err)
		}
	default:
		return TextureStagingData{}, fmt.Errorf("texture has neither data nor path")
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}, nil
}
