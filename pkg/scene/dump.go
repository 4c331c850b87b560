package scene

import goon "github.com/shurcooL/go-goon"

// String names a node kind for debug output.
func (k NodeKind3) String() string {
	switch k {
	case KindEmpty3:
		return "Empty"
	case KindShape3:
		return "Shape"
	case KindTransform3:
		return "Transform"
	case KindBoolean3:
		return "Boolean"
	case KindExtrusion3:
		return "Extrusion"
	case KindRevolution3:
		return "Revolution"
	case KindHull3:
		return "Hull"
	case KindRefine3:
		return "Refine"
	case KindSimplify3:
		return "Simplify"
	case KindWarp3:
		return "Warp"
	case KindSplit3:
		return "Split"
	case KindCached3:
		return "Cached"
	case KindOpaque3:
		return "Opaque"
	case KindMaterial3:
		return "Material"
	default:
		return "unknown"
	}
}

func (k NodeKind2) String() string {
	switch k {
	case KindEmpty2:
		return "Empty"
	case KindShape2:
		return "Shape"
	case KindTransform2:
		return "Transform"
	case KindBoolean2:
		return "Boolean"
	case KindProjection2:
		return "Projection"
	case KindOffset2:
		return "Offset"
	case KindWarp2:
		return "Warp"
	case KindOpaque2:
		return "Opaque"
	default:
		return "unknown"
	}
}

// dumpNode3 is a field-erased, side-by-side description of a node tree
// meant for Dump(), not for round-tripping: goon.Sdump walks ordinary
// Go values, and Node3 keeps its fields unexported so construction stays
// funneled through the New*/Empty3 smart constructors.
type dumpNode3 struct {
	Kind     string
	Fields   map[string]interface{} `json:",omitempty"`
	Children []dumpNode3            `json:",omitempty"`
}

type dumpNode2 struct {
	Kind     string
	Fields   map[string]interface{} `json:",omitempty"`
	Children []dumpNode2            `json:",omitempty"`
}

func describe3(n Node3) dumpNode3 {
	d := dumpNode3{Kind: n.kind.String()}
	switch n.kind {
	case KindShape3:
		d.Fields = map[string]interface{}{"shape": n.shape}
	case KindTransform3:
		child, t, _ := n.Transform()
		d.Fields = map[string]interface{}{"transform": t}
		d.Children = []dumpNode3{describe3(child)}
	case KindBoolean3:
		kind, children, _ := n.Boolean()
		d.Fields = map[string]interface{}{"booleanKind": kind}
		for _, c := range children {
			d.Children = append(d.Children, describe3(c))
		}
	case KindExtrusion3:
		child, spec, _ := n.Extrusion()
		d.Fields = map[string]interface{}{"spec": spec}
		d.Children = []dumpNode3{dumpNode2to3(describe2(child))}
	case KindRevolution3:
		child, spec, _ := n.Revolution()
		d.Fields = map[string]interface{}{"spec": spec}
		d.Children = []dumpNode3{dumpNode2to3(describe2(child))}
	case KindHull3:
		child, points, _ := n.Hull()
		d.Fields = map[string]interface{}{"extraPoints": points}
		d.Children = []dumpNode3{describe3(child)}
	case KindRefine3:
		child, maxEdgeLen, _ := n.Refine()
		d.Fields = map[string]interface{}{"maxEdgeLen": maxEdgeLen}
		d.Children = []dumpNode3{describe3(child)}
	case KindSimplify3:
		child, epsilon, _ := n.Simplify()
		d.Fields = map[string]interface{}{"epsilon": epsilon}
		d.Children = []dumpNode3{describe3(child)}
	case KindWarp3:
		child, warp, _ := n.Warp()
		d.Fields = map[string]interface{}{"opName": warp.OpName}
		d.Children = []dumpNode3{describe3(child)}
	case KindSplit3:
		child, by, side, _ := n.Split()
		d.Fields = map[string]interface{}{"side": side, "plane": by.Plane}
		d.Children = []dumpNode3{describe3(child)}
	case KindCached3:
		spec, _ := n.Cached()
		d.Fields = map[string]interface{}{"opName": spec.OpName, "params": spec.Params}
	case KindOpaque3:
		spec, _ := n.Opaque()
		d.Fields = map[string]interface{}{"fingerprint": spec.Fingerprint}
	case KindMaterial3:
		child, spec, _ := n.Material()
		d.Fields = map[string]interface{}{"materialKey": spec.Key}
		d.Children = []dumpNode3{describe3(child)}
	}
	return d
}

func describe2(n Node2) dumpNode2 {
	d := dumpNode2{Kind: n.kind.String()}
	switch n.kind {
	case KindShape2:
		d.Fields = map[string]interface{}{"shape": n.shape}
	case KindTransform2:
		child, t, _ := n.Transform()
		d.Fields = map[string]interface{}{"transform": t}
		d.Children = []dumpNode2{describe2(child)}
	case KindBoolean2:
		kind, children, _ := n.Boolean()
		d.Fields = map[string]interface{}{"booleanKind": kind}
		for _, c := range children {
			d.Children = append(d.Children, describe2(c))
		}
	case KindProjection2:
		child, spec, _ := n.Projection()
		d.Fields = map[string]interface{}{"spec": spec}
		d.Children = []dumpNode2{dumpNode3to2(describe3(child))}
	case KindOffset2:
		child, spec, _ := n.Offset()
		d.Fields = map[string]interface{}{"spec": spec}
		d.Children = []dumpNode2{describe2(child)}
	case KindWarp2:
		child, warp, _ := n.Warp()
		d.Fields = map[string]interface{}{"opName": warp.OpName}
		d.Children = []dumpNode2{describe2(child)}
	case KindOpaque2:
		spec, _ := n.Opaque()
		d.Fields = map[string]interface{}{"fingerprint": spec.Fingerprint}
	}
	return d
}

func dumpNode2to3(d dumpNode2) dumpNode3 {
	out := dumpNode3{Kind: d.Kind, Fields: d.Fields}
	for _, c := range d.Children {
		out.Children = append(out.Children, dumpNode2to3(c))
	}
	return out
}

func dumpNode3to2(d dumpNode3) dumpNode2 {
	out := dumpNode2{Kind: d.Kind, Fields: d.Fields}
	for _, c := range d.Children {
		out.Children = append(out.Children, dumpNode3to2(c))
	}
	return out
}

// Dump pretty-prints n's tree structure for debugging, via go-goon the
// same way the teacher pulls it in for ad hoc introspection.
func (n Node3) Dump() string { return goon.Sdump(describe3(n)) }

// Dump is Node3.Dump's 2D counterpart.
func (n Node2) Dump() string { return goon.Sdump(describe2(n)) }
