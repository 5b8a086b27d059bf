// Package camera holds the display settings of the thermal camera that the
// control panel adjusts.
package camera

import (
	"errors"
	"sync"
)

// DefaultColormaps is the colormap cycle used when none is configured.
var DefaultColormaps = []string{
	"jet",
	"bwr",
	"seismic",
	"coolwarm",
	"PiYG_r",
	"tab10",
	"tab20",
	"gnuplot2",
	"brg",
}

// Settings is a point-in-time copy of a Camera's settings.
type Settings struct {
	UseF          bool   `json:"use_f"`
	Filter        bool   `json:"filter"`
	Colormap      string `json:"colormap"`
	Interpolation string `json:"interpolation"`
}

// Options are the initial settings of a Camera.
type Options struct {
	Colormaps []string
	UseF      bool
	Filter    bool
}

// Camera is safe for concurrent use.
type Camera struct {
	mu            sync.Mutex
	colormaps     []string
	colormapIndex int
	interpolation Interpolation
	useF          bool
	filter        bool
}

// New returns a Camera showing the first colormap with cubic interpolation.
func New(opts Options) (*Camera, error) {
	colormaps := opts.Colormaps
	if len(colormaps) == 0 {
		colormaps = DefaultColormaps
	}
	for _, c := range colormaps {
		if c == "" {
			return nil, errors.New("camera: empty colormap name")
		}
	}

	return &Camera{
		colormaps:     append([]string(nil), colormaps...),
		interpolation: Cubic,
		useF:          opts.UseF,
		filter:        opts.Filter,
	}, nil
}

// Colormap returns the current colormap name.
func (c *Camera) Colormap() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.colormaps[c.colormapIndex]
}

// NextColormap advances to the following colormap and returns it.
func (c *Camera) NextColormap() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.colormapIndex = (c.colormapIndex + 1) % len(c.colormaps)
	return c.colormaps[c.colormapIndex]
}

// PrevColormap steps back to the preceding colormap and returns it.
func (c *Camera) PrevColormap() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.colormapIndex--
	if c.colormapIndex < 0 {
		c.colormapIndex = len(c.colormaps) - 1
	}
	return c.colormaps[c.colormapIndex]
}

// Interpolation returns the current interpolation algorithm.
func (c *Camera) Interpolation() Interpolation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interpolation
}

func (c *Camera) NextInterpolation() Interpolation {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.interpolation = c.interpolation.Next()
	return c.interpolation
}

func (c *Camera) PrevInterpolation() Interpolation {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.interpolation = c.interpolation.Prev()
	return c.interpolation
}

// ToggleUnits switches between Fahrenheit and Celsius and reports whether
// Fahrenheit is now in use.
func (c *Camera) ToggleUnits() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.useF = !c.useF
	return c.useF
}

// ToggleFilter switches image filtering and reports whether it is now on.
func (c *Camera) ToggleFilter() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.filter = !c.filter
	return c.filter
}

func (c *Camera) Settings() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Settings{
		UseF:          c.useF,
		Filter:        c.filter,
		Colormap:      c.colormaps[c.colormapIndex],
		Interpolation: c.interpolation.String(),
	}
}

// Unit returns "F" or "C" for the given units setting.
func Unit(useF bool) string {
	if useF {
		return "F"
	}
	return "C"
}

