package dbtune

import (
	"fmt"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RenderGroup is one drawable subset: the core or the boundary points of a
// single label.
type RenderGroup struct {
	Label  int
	Core   bool
	Color  color.RGBA
	IDs    []string
	Coords [][]float64
}

// RenderRequest carries everything a plotting backend needs to draw an
// assignment.
type RenderRequest struct {
	Groups      []RenderGroup
	NumClusters int
	Title       string
}

// Renderer draws a rendering request. Drawing, styling and display are left
// entirely to the implementation.
type Renderer interface {
	Render(groups []RenderGroup, title string) error
}

// RendererFunc adapts a plain function into a Renderer.
type RendererFunc func(groups []RenderGroup, title string) error

func (f RendererFunc) Render(groups []RenderGroup, title string) error { return f(groups, title) }

// NoiseColor is used for points labelled Noise.
var NoiseColor = color.RGBA{A: 0xff}

// NewRenderRequest splits every label of a into its core and boundary
// points. Labels are visited in ascending order (noise first), and empty
// groups are omitted. Colours are spread evenly over a Spectral ramp across
// the distinct labels.
func NewRenderRequest(ps *PointSet, a *Assignment) (*RenderRequest, error) {
	if len(a.Labels) != ps.Len() || len(a.Core) != ps.Len() {
		return nil, invalidParamf("assignment covers %d labels and %d core flags for %d points",
			len(a.Labels), len(a.Core), ps.Len())
	}

	labels := a.SortedLabels()
	colors := Palette(len(labels))

	req := &RenderRequest{NumClusters: a.NumClusters()}
	req.Title = fmt.Sprintf("Estimated number of clusters: %d", req.NumClusters)

	for k, label := range labels {
		col := colors[k]
		if label == Noise {
			col = NoiseColor
		}
		core := RenderGroup{Label: label, Core: true, Color: col}
		boundary := RenderGroup{Label: label, Color: col}
		for _, i := range a.Members(label) {
			g := &boundary
			if a.Core[i] {
				g = &core
			}
			g.IDs = append(g.IDs, ps.ID(i))
			g.Coords = append(g.Coords, ps.Point(i))
		}
		for _, g := range []RenderGroup{core, boundary} {
			if len(g.IDs) > 0 {
				req.Groups = append(req.Groups, g)
			}
		}
	}
	return req, nil
}

// spectral holds the anchor colours of the diverging Spectral colour map,
// red through yellow to violet.
var spectral = []colorful.Color{
	mustHex("#9e0142"), mustHex("#d53e4f"), mustHex("#f46d43"), mustHex("#fdae61"),
	mustHex("#fee08b"), mustHex("#ffffbf"), mustHex("#e6f598"), mustHex("#abdda4"),
	mustHex("#66c2a5"), mustHex("#3288bd"), mustHex("#5e4fa2"),
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Palette returns n colours sampled at evenly spaced positions in [0, 1]
// along the Spectral ramp.
func Palette(n int) []color.RGBA {
	out := make([]color.RGBA, n)
	for k := range out {
		t := 0.0
		if n > 1 {
			t = float64(k) / float64(n-1)
		}
		out[k] = spectralAt(t)
	}
	return out
}

func spectralAt(t float64) color.RGBA {
	pos := t * float64(len(spectral)-1)
	i := int(math.Floor(pos))
	if i >= len(spectral)-1 {
		i = len(spectral) - 2
	}
	c := spectral[i].BlendRgb(spectral[i+1], pos-float64(i))
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
