package elements

import (
	"github.com/chazu/solidgraph/pkg/geom"
	"github.com/chazu/solidgraph/pkg/scene"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// BuildResult3 is the outcome of building a 3D geometry value: the node
// it lowers to, plus every auxiliary element table gathered along the
// way (spec.md §4.6's BuildResult, merged here with §4.8's element
// tables since the two are mutually recursive — a part catalog holds
// build results, and a build result carries a part catalog).
type BuildResult3 struct {
	Node     scene.Node3
	Elements ResultElementTable
}

type BuildResult2 struct {
	Node     scene.Node2
	Elements ResultElementTable
}

// ResultElementTable is the fixed set of auxiliary element kinds that
// ride through evaluation. The spec describes this as a heterogeneous,
// type-keyed map; in practice exactly three element kinds are ever
// named (PartCatalog, AnchorTable, TagTable), so a closed struct with
// one field per kind gives the same merge semantics without an open
// plugin registry nothing in this codebase would ever populate with a
// fourth kind.
type ResultElementTable struct {
	Parts   PartCatalog
	Anchors AnchorTable
	Tags    TagTable
}

func EmptyElements() ResultElementTable {
	return ResultElementTable{Parts: PartCatalog{}, Anchors: AnchorTable{}, Tags: TagTable{}}
}

// Combine merges a sequence of element tables the way the engine merges
// sibling build results (e.g. two booleaned subtrees's parts are unioned
// by bucket, with list concatenation within a bucket).
func Combine(tables []ResultElementTable) ResultElementTable {
	out := EmptyElements()
	for _, t := range tables {
		out.Parts = out.Parts.Combine(t.Parts)
		out.Anchors = out.Anchors.Combine(t.Anchors)
		out.Tags = out.Tags.Combine(t.Tags)
	}
	return out
}

// ApplyingTransform pushes t through every element that captures node
// references or anchor transforms, mirroring how a parent Transform node
// must also transform anything its children tagged into a part or
// anchor.
func (e ResultElementTable) ApplyingTransform(t geom.Transform3) ResultElementTable {
	return ResultElementTable{
		Parts:   e.Parts.ApplyingTransform(t),
		Anchors: e.Anchors.ApplyingTransform(t),
		Tags:    e.Tags.ApplyingTransform(t),
	}
}

// ModifyingNodes rewraps every captured node through f — used when a
// combinator like GeometryExpressionTransformer rewrites the primary
// node and needs the same rewrite applied to whatever nodes are parked
// in a part catalog or tag table.
func (e ResultElementTable) ModifyingNodes(f func(scene.Node3) scene.Node3) ResultElementTable {
	return ResultElementTable{
		Parts:   e.Parts.ModifyingNodes(f),
		Anchors: e.Anchors,
		Tags:    e.Tags.ModifyingNodes(f),
	}
}

// PartCatalog maps a Part's identity to every 3D build result tagged
// into it.
type PartCatalog map[uuid.UUID]partEntry

type partEntry struct {
	part    Part
	results []BuildResult3
}

func (c PartCatalog) With(p Part, result BuildResult3) PartCatalog {
	out := c.clone()
	e := out[p.identity]
	e.part = p
	e.results = append(append([]BuildResult3(nil), e.results...), result)
	out[p.identity] = e
	return out
}

// PartCatalogEntry pairs a part with every build result tagged into it.
type PartCatalogEntry struct {
	Part    Part
	Results []BuildResult3
}

func (c PartCatalog) Entries() []PartCatalogEntry {
	out := make([]PartCatalogEntry, 0, len(c))
	for _, e := range c {
		out = append(out, PartCatalogEntry{Part: e.part, Results: e.results})
	}
	return out
}

func (c PartCatalog) clone() PartCatalog {
	out := make(PartCatalog, len(c))
	for k, v := range c {
		out[k] = partEntry{part: v.part, results: append([]BuildResult3(nil), v.results...)}
	}
	return out
}

func (c PartCatalog) Combine(o PartCatalog) PartCatalog {
	out := c.clone()
	for k, v := range o {
		e := out[k]
		e.part = v.part
		e.results = append(e.results, v.results...)
		out[k] = e
	}
	return out
}

func (c PartCatalog) ApplyingTransform(t geom.Transform3) PartCatalog {
	out := make(PartCatalog, len(c))
	for k, v := range c {
		out[k] = partEntry{
			part: v.part,
			results: lo.Map(v.results, func(r BuildResult3, _ int) BuildResult3 {
				return BuildResult3{Node: scene.NewTransform3(r.Node, t), Elements: r.Elements.ApplyingTransform(t)}
			}),
		}
	}
	return out
}

func (c PartCatalog) ModifyingNodes(f func(scene.Node3) scene.Node3) PartCatalog {
	out := make(PartCatalog, len(c))
	for k, v := range c {
		out[k] = partEntry{
			part: v.part,
			results: lo.Map(v.results, func(r BuildResult3, _ int) BuildResult3 {
				return BuildResult3{Node: f(r.Node), Elements: r.Elements.ModifyingNodes(f)}
			}),
		}
	}
	return out
}

// AnchorTable maps a user-chosen anchor name to the set of transforms
// marking that anchor's occurrences in the tree.
type AnchorTable map[string][]geom.Transform3

func (t AnchorTable) With(name string, transform geom.Transform3) AnchorTable {
	out := t.clone()
	out[name] = append(out[name], transform)
	return out
}

func (t AnchorTable) clone() AnchorTable {
	out := make(AnchorTable, len(t))
	for k, v := range t {
		out[k] = append([]geom.Transform3(nil), v...)
	}
	return out
}

func (t AnchorTable) Combine(o AnchorTable) AnchorTable {
	out := t.clone()
	for k, v := range o {
		out[k] = append(out[k], v...)
	}
	return out
}

func (t AnchorTable) ApplyingTransform(transform geom.Transform3) AnchorTable {
	out := make(AnchorTable, len(t))
	for k, v := range t {
		out[k] = lo.Map(v, func(x geom.Transform3, _ int) geom.Transform3 { return transform.Concatenated(x) })
	}
	return out
}

// TagTable maps a user-chosen tag name to every 3D build result marked
// with it.
type TagTable map[string][]BuildResult3

func (t TagTable) With(name string, result BuildResult3) TagTable {
	out := t.clone()
	out[name] = append(out[name], result)
	return out
}

func (t TagTable) clone() TagTable {
	out := make(TagTable, len(t))
	for k, v := range t {
		out[k] = append([]BuildResult3(nil), v...)
	}
	return out
}

func (t TagTable) Combine(o TagTable) TagTable {
	out := t.clone()
	for k, v := range o {
		out[k] = append(out[k], v...)
	}
	return out
}

func (t TagTable) ApplyingTransform(transform geom.Transform3) TagTable {
	out := make(TagTable, len(t))
	for k, v := range t {
		out[k] = lo.Map(v, func(r BuildResult3, _ int) BuildResult3 {
			return BuildResult3{Node: scene.NewTransform3(r.Node, transform), Elements: r.Elements.ApplyingTransform(transform)}
		})
	}
	return out
}

func (t TagTable) ModifyingNodes(f func(scene.Node3) scene.Node3) TagTable {
	out := make(TagTable, len(t))
	for k, v := range t {
		out[k] = lo.Map(v, func(r BuildResult3, _ int) BuildResult3 {
			return BuildResult3{Node: f(r.Node), Elements: r.Elements.ModifyingNodes(f)}
		})
	}
	return out
}

// InPart takes a build's node aside into the catalog under part and
// replaces the returned node with Empty, so the subtree is routed to its
// own output bucket instead of appearing inline in the main model.
func InPart(result BuildResult3, part Part) BuildResult3 {
	return BuildResult3{
		Node:     scene.Empty3(),
		Elements: ResultElementTable{Parts: result.Elements.Parts.With(part, result), Anchors: result.Elements.Anchors, Tags: result.Elements.Tags},
	}
}

// MainPart retains the child node inline and additionally catalogs it
// under part, so it is both part of the main model and independently
// exportable.
func MainPart(result BuildResult3, part Part) BuildResult3 {
	return BuildResult3{
		Node:     result.Node,
		Elements: ResultElementTable{Parts: result.Elements.Parts.With(part, result), Anchors: result.Elements.Anchors, Tags: result.Elements.Tags},
	}
}
