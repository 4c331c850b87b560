package measure

import (
	"context"

	"github.com/chazu/solidgraph/pkg/elements"
	"github.com/chazu/solidgraph/pkg/eval"
	"github.com/chazu/solidgraph/pkg/geom"
	"github.com/chazu/solidgraph/pkg/geometry"
	"github.com/dhconnelly/rtreego"
)

// partMinLength floors the side length rtreego indexes a part under; a
// flat or degenerate part would otherwise produce a zero-length rect,
// which rtreego rejects.
const partMinLength = 1e-9

// PartEntry pairs a cataloged Part with its own measurements, the unit
// PartIndex indexes and returns from a spatial query.
type PartEntry struct {
	Part         elements.Part
	Measurements geometry.Measurements3
}

func (p *PartEntry) Bounds() rtreego.Rect {
	return boundsToRect(p.Measurements.BoundingBox)
}

// PartIndex is an R-tree over a build's part catalog, keyed by each
// part's own bounding box, so a caller asking "which parts does this
// region touch" does not need to re-measure and linearly rescan the
// whole catalog (spec.md §4.10's allParts/solidParts scope queries,
// accelerated the way a design with many parts needs).
type PartIndex struct {
	tree    *rtreego.Rtree
	entries []*PartEntry
}

// NewPartIndex measures every part in build's catalog once and builds a
// spatial index over the results.
func NewPartIndex(ctx context.Context, engine *eval.Engine, build elements.BuildResult3) (*PartIndex, error) {
	idx := &PartIndex{tree: rtreego.NewTree(3, 4, 16)}
	for _, catalogEntry := range build.Elements.Parts.Entries() {
		var combined geometry.Measurements3
		for _, r := range catalogEntry.Results {
			m, err := measureNode3(ctx, engine, r.Node)
			if err != nil {
				return nil, err
			}
			combined = sumMeasurements3(combined, m)
		}
		entry := &PartEntry{Part: catalogEntry.Part, Measurements: combined}
		idx.entries = append(idx.entries, entry)
		if !combined.BoundingBox.Empty {
			idx.tree.Insert(entry)
		}
	}
	return idx, nil
}

// Overlapping returns every indexed part whose bounding box intersects
// region.
func (idx *PartIndex) Overlapping(region geom.BoundingBox3) []*PartEntry {
	if region.Empty {
		return nil
	}
	results := idx.tree.SearchIntersect(boundsToRect(region))
	out := make([]*PartEntry, 0, len(results))
	for _, r := range results {
		out = append(out, r.(*PartEntry))
	}
	return out
}

// All returns every indexed part regardless of position, including
// empty-bounding-box parts the spatial tree itself never stores.
func (idx *PartIndex) All() []*PartEntry {
	return idx.entries
}

func boundsToRect(b geom.BoundingBox3) rtreego.Rect {
	if b.Empty {
		b = geom.NewBoundingBox3(geom.Vector3{}, geom.Vector3{})
	}
	size := b.Size()
	lengths := []float64{
		maxLength(size.X), maxLength(size.Y), maxLength(size.Z),
	}
	rect, err := rtreego.NewRect(rtreego.Point{b.Min.X, b.Min.Y, b.Min.Z}, lengths)
	if err != nil {
		// NewRect only fails for a non-positive length, which maxLength
		// already rules out.
		panic(err)
	}
	return rect
}

func maxLength(v float64) float64 {
	if v < partMinLength {
		return partMinLength
	}
	return v
}
