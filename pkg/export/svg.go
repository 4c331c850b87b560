package export

import (
	"fmt"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/chazu/solidgraph/pkg/geom"
	"github.com/chazu/solidgraph/pkg/kernel"
)

// WriteSVG serializes a 2D polygon set as spec.md §6 describes: a single
// <svg> element whose viewBox is the bounding box of polys, an optional
// <title>/<desc> from metadata, and one <path fill="black"> with one "M
// x,y x,y ..." subpath per contour. Y is flipped relative to the internal
// coordinate system (SVG's Y axis points down; this library's does not).
func WriteSVG(w io.Writer, polys kernel.PolygonSet, opts ModelOptions) error {
	bbox := polygonSetBounds(polys)

	canvas := svg.New(w)
	canvas.Startview(int(bbox.Size().X), int(bbox.Size().Y),
		int(bbox.Min.X), int(-bbox.Max.Y), int(bbox.Size().X), int(bbox.Size().Y))

	if title := opts.Metadata.Title; title != "" {
		canvas.Title(title)
	}
	if desc := opts.Metadata.Description; desc != "" {
		canvas.Desc(desc)
	}

	canvas.Path(polygonSetPathData(polys), "fill:black")
	canvas.End()
	return nil
}

// polygonSetBounds computes the bounding box of every loop in polys,
// since a decomposed PolygonSet carries no kernel.Concrete2 to ask.
func polygonSetBounds(polys kernel.PolygonSet) geom.BoundingBox2 {
	bbox := geom.EmptyBoundingBox2()
	for _, loop := range polys.Loops {
		for i := 0; i+1 < len(loop); i += 2 {
			bbox = bbox.IncludingPoint(geom.Vector2{X: float64(loop[i]), Y: float64(loop[i+1])})
		}
	}
	return bbox
}

// polygonSetPathData renders polys as a single <path> "d" attribute, one
// "M x,y x,y ..." subpath per closed contour loop, flipping Y.
func polygonSetPathData(polys kernel.PolygonSet) string {
	var b strings.Builder
	for _, loop := range polys.Loops {
		if len(loop) < 2 {
			continue
		}
		b.WriteByte('M')
		for i := 0; i+1 < len(loop); i += 2 {
			fmt.Fprintf(&b, " %g,%g", loop[i], -loop[i+1])
		}
		b.WriteByte('Z')
	}
	return b.String()
}
