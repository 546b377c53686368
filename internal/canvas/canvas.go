// Package canvas is the raster the drawing session paints onto. Strokes are
// rendered as round-capped, anti-aliased capsules with golang.org/x/image/vector
// and the surface exports itself as PNG or as a PNG data URI.
package canvas

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strings"

	"golang.org/x/image/vector"

	"github.com/rewired-gh/neurodraw/internal/geom"
	"github.com/rewired-gh/neurodraw/internal/models"
)

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498

// ErrNotDataURI is returned when decoding a string that is not a PNG data URI.
var ErrNotDataURI = errors.New("not a PNG data URI")

// Surface is an RGBA raster with a solid background.
type Surface struct {
	img        *image.RGBA
	background color.RGBA
}

// New creates a blank surface of the given size.
func New(width, height int, background models.RGBHex) *Surface {
	s := &Surface{
		img:        image.NewRGBA(image.Rect(0, 0, width, height)),
		background: background.Color(),
	}
	s.Clear()
	return s
}

// Size returns the surface dimensions in pixels.
func (s *Surface) Size() (width, height int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns a copy of the current raster.
func (s *Surface) Image() *image.RGBA {
	out := image.NewRGBA(s.img.Bounds())
	copy(out.Pix, s.img.Pix)
	return out
}

// Clear fills the surface with the background color.
func (s *Surface) Clear() {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(s.background), image.Point{}, draw.Src)
}

// Dot paints a filled disc of diameter size centered at at.
func (s *Surface) Dot(at geom.Vec, c models.RGBHex, size float64) {
	r := s.radius(size)
	at = s.clamp(at, r)
	s.fill(at, at, r, c, func(z *vector.Rasterizer, o geom.Vec) {
		circle(z, at.Sub(o), r)
	})
}

// Polyline paints path as consecutive round-capped segments of width size.
// Each segment is composited on its own so that painting a path in one call
// and painting it segment by segment give the same pixels.
func (s *Surface) Polyline(path []geom.Vec, c models.RGBHex, size float64) {
	r := s.radius(size)
	for i := 1; i < len(path); i++ {
		a, b := s.clamp(path[i-1], r), s.clamp(path[i], r)
		s.fill(a, b, r, c, func(z *vector.Rasterizer, o geom.Vec) {
			capsule(z, a.Sub(o), b.Sub(o), r)
		})
	}
}

// PNG encodes the current raster.
func (s *Surface) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, s.img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI encodes the current raster as a base64 PNG data URI.
func (s *Surface) DataURI() (string, error) {
	data, err := s.PNG()
	if err != nil {
		return "", err
	}
	return models.RasterPrefix + base64.StdEncoding.EncodeToString(data), nil
}

// DecodeDataURI returns the PNG bytes carried by a data URI produced by DataURI.
func DecodeDataURI(uri string) ([]byte, error) {
	payload, ok := strings.CutPrefix(uri, models.RasterPrefix)
	if !ok {
		return nil, ErrNotDataURI
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode raster: %w", err)
	}
	return data, nil
}

// DecodeImage decodes a PNG data URI into an image.
func DecodeImage(uri string) (image.Image, error) {
	data, err := DecodeDataURI(uri)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode PNG: %w", err)
	}
	return img, nil
}

// radius turns a brush size into a radius no larger than the surface diagonal.
func (s *Surface) radius(size float64) float64 {
	w, h := s.Size()
	return math.Min(size/2, math.Hypot(float64(w), float64(h)))
}

// clamp pulls p into the surface extended by r on every side.
func (s *Surface) clamp(p geom.Vec, r float64) geom.Vec {
	w, h := s.Size()
	return geom.Vec{
		X: math.Max(-r, math.Min(float64(w)+r, p.X)),
		Y: math.Max(-r, math.Min(float64(h)+r, p.Y)),
	}
}

// fill rasterizes a shape covering the box around a and b grown by r, then
// composites it over the surface in color c.
func (s *Surface) fill(a, b geom.Vec, r float64, c models.RGBHex, build func(z *vector.Rasterizer, origin geom.Vec)) {
	box := image.Rect(
		int(math.Floor(math.Min(a.X, b.X)-r))-1,
		int(math.Floor(math.Min(a.Y, b.Y)-r))-1,
		int(math.Ceil(math.Max(a.X, b.X)+r))+1,
		int(math.Ceil(math.Max(a.Y, b.Y)+r))+1,
	)
	if box.Empty() || !box.Overlaps(s.img.Bounds()) {
		return
	}

	z := vector.NewRasterizer(box.Dx(), box.Dy())
	z.DrawOp = draw.Src
	build(z, geom.Vec{X: float64(box.Min.X), Y: float64(box.Min.Y)})

	mask := image.NewAlpha(image.Rect(0, 0, box.Dx(), box.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	draw.DrawMask(s.img, box, image.NewUniform(c.Color()), image.Point{}, mask, image.Point{}, draw.Over)
}

// circle adds a closed circle. All shapes wind the same way so overlapping
// subpaths union instead of cancelling.
func circle(z *vector.Rasterizer, c geom.Vec, r float64) {
	if r <= 0 {
		return
	}
	k := r * kappa
	x, y := float32(c.X), float32(c.Y)
	fr, fk := float32(r), float32(k)

	z.MoveTo(x+fr, y)
	z.CubeTo(x+fr, y+fk, x+fk, y+fr, x, y+fr)
	z.CubeTo(x-fk, y+fr, x-fr, y+fk, x-fr, y)
	z.CubeTo(x-fr, y-fk, x-fk, y-fr, x, y-fr)
	z.CubeTo(x+fk, y-fr, x+fr, y-fk, x+fr, y)
	z.ClosePath()
}

// capsule adds a segment from a to b with round ends of radius r.
func capsule(z *vector.Rasterizer, a, b geom.Vec, r float64) {
	circle(z, a, r)
	d := b.Sub(a)
	l := d.Len()
	if l == 0 || r <= 0 {
		return
	}
	circle(z, b, r)

	n := geom.Vec{X: -d.Y / l * r, Y: d.X / l * r}
	z.MoveTo(float32(a.X-n.X), float32(a.Y-n.Y))
	z.LineTo(float32(b.X-n.X), float32(b.Y-n.Y))
	z.LineTo(float32(b.X+n.X), float32(b.Y+n.Y))
	z.LineTo(float32(a.X+n.X), float32(a.Y+n.Y))
	z.ClosePath()
}
