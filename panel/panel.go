// Package panel wires the thermal camera control panel's buttons to the
// camera server's trigger endpoints.
package panel

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
)

// ErrUnknownElement is returned when an element id has no binding.
var ErrUnknownElement = errors.New("panel: unknown element")

// Binding associates a control panel element with the server path a click
// on it triggers.
type Binding struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

var bindings = []Binding{
	{ID: "save", Path: "/save"},
	{ID: "units", Path: "/units"},
	{ID: "colormap-next", Path: "/colormap/next"},
	// Legacy behavior: the prev button has always cycled forward. Kept so
	// existing panels behave the same; the server still serves /colormap/prev.
	{ID: "colormap-prev", Path: "/colormap/next"},
	{ID: "filter", Path: "/filter"},
	{ID: "interpolation-next", Path: "/interpolation/next"},
	{ID: "interpolation-prev", Path: "/interpolation/prev"},
	{ID: "exit", Path: "/exit"},
}

// Bindings returns a copy of the binding table in display order.
func Bindings() []Binding {
	b := make([]Binding, len(bindings))
	copy(b, bindings)
	return b
}

// Lookup returns the binding for the element with the given id.
func Lookup(id string) (Binding, error) {
	for _, b := range bindings {
		if b.ID == id {
			return b, nil
		}
	}
	return Binding{}, fmt.Errorf("%w: %q", ErrUnknownElement, id)
}

// String renders the binding table as aligned text.
func String() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 1, ' ', 0)

	fmt.Fprintln(w, "Element\tPath\t")
	for _, bd := range bindings {
		fmt.Fprintln(w, strings.Join([]string{bd.ID, bd.Path}, "\t")+"\t")
	}

	w.Flush()
	return b.String()
}
