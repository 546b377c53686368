package models

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    RGBHex
		wantErr bool
	}{
		{"#000000", "#000000", false},
		{"#FFAA00", "#ffaa00", false},
		{"#fa0", "#ffaa00", false},
		{"red", "", true},
		{"#12345", "", true},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrInvalidColor) {
			t.Errorf("ParseColor(%q) error should wrap ErrInvalidColor", tt.in)
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}

func TestRGBHexColor(t *testing.T) {
	c := RGBHex("#102030").Color()
	if c.R != 0x10 || c.G != 0x20 || c.B != 0x30 || c.A != 0xff {
		t.Errorf("Color() = %+v, expected opaque #102030", c)
	}
}

func TestPointSameStyle(t *testing.T) {
	p := Point{X: 1, Y: 1, Color: "#000000", Size: 5}
	tests := []struct {
		name  string
		other Point
		want  bool
	}{
		{"position ignored", Point{X: 9, Y: 9, Color: "#000000", Size: 5}, true},
		{"color differs", Point{X: 1, Y: 1, Color: "#ff0000", Size: 5}, false},
		{"size differs", Point{X: 1, Y: 1, Color: "#000000", Size: 6}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.SameStyle(tt.other); got != tt.want {
				t.Errorf("SameStyle() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestPointValidate(t *testing.T) {
	tests := []struct {
		name    string
		point   Point
		wantErr bool
	}{
		{"valid point", Point{X: 10, Y: 20, Color: "#000000", Size: 5}, false},
		{"negative coordinates accepted", Point{X: -10, Y: -20, Color: "#ffffff", Size: 1}, false},
		{"NaN coordinate", Point{X: math.NaN(), Y: 0, Color: "#000000", Size: 5}, true},
		{"infinite coordinate", Point{X: 0, Y: math.Inf(1), Color: "#000000", Size: 5}, true},
		{"bad color", Point{X: 0, Y: 0, Color: "black", Size: 5}, true},
		{"zero size", Point{X: 0, Y: 0, Color: "#000000", Size: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.point.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Point.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStrokeValidate(t *testing.T) {
	now := time.Now()
	pt := Point{X: 1, Y: 1, Color: "#000000", Size: 5}

	tests := []struct {
		name    string
		stroke  Stroke
		wantErr bool
	}{
		{
			name:    "valid stroke",
			stroke:  Stroke{ID: "s-1", Points: []Point{pt}, StartedAt: now, EndedAt: now},
			wantErr: false,
		},
		{
			name:    "empty ID",
			stroke:  Stroke{Points: []Point{pt}, StartedAt: now, EndedAt: now},
			wantErr: true,
		},
		{
			name:    "no points",
			stroke:  Stroke{ID: "s-1", StartedAt: now, EndedAt: now},
			wantErr: true,
		},
		{
			name:    "ends before it starts",
			stroke:  Stroke{ID: "s-1", Points: []Point{pt}, StartedAt: now, EndedAt: now.Add(-time.Second)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.stroke.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Stroke.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMetricsValidate(t *testing.T) {
	valid := Metrics{LineSpeed: 0, LineSharpness: 100, ColorIntensity: 50, PatternRepetition: 12}
	if err := valid.Validate(); err != nil {
		t.Errorf("Metrics.Validate() unexpected error: %v", err)
	}

	invalid := Metrics{LineSpeed: 101}
	if err := invalid.Validate(); err == nil {
		t.Error("Metrics.Validate() expected error for score above 100")
	}

	negative := Metrics{PatternRepetition: -1}
	if err := negative.Validate(); err == nil {
		t.Error("Metrics.Validate() expected error for negative score")
	}
}

func TestSnapshotValidate(t *testing.T) {
	tests := []struct {
		name     string
		snapshot Snapshot
		wantErr  bool
	}{
		{
			name: "valid snapshot",
			snapshot: Snapshot{
				ID:        "snap-123",
				Timestamp: time.Now(),
				Raster:    RasterPrefix + "iVBORw0KGgo=",
				Metrics:   Metrics{LineSpeed: 10},
			},
			wantErr: false,
		},
		{
			name: "empty ID",
			snapshot: Snapshot{
				Timestamp: time.Now(),
				Raster:    RasterPrefix + "iVBORw0KGgo=",
			},
			wantErr: true,
		},
		{
			name: "empty raster",
			snapshot: Snapshot{
				ID:        "snap-123",
				Timestamp: time.Now(),
				Raster:    RasterPrefix,
			},
			wantErr: true,
		},
		{
			name: "clock ahead of wall time",
			snapshot: Snapshot{
				ID:        "snap-123",
				Timestamp: time.Now().Add(24 * time.Hour),
				Raster:    RasterPrefix + "iVBORw0KGgo=",
			},
			wantErr: false,
		},
		{
			name: "out of range metrics",
			snapshot: Snapshot{
				ID:        "snap-123",
				Timestamp: time.Now(),
				Raster:    RasterPrefix + "iVBORw0KGgo=",
				Metrics:   Metrics{ColorIntensity: 150},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.snapshot.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Snapshot.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
