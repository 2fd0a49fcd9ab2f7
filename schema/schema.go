// Package schema supplies ORDB's concrete domain node types: symbols,
// schematics, layer stacks and simulation hierarchies. It is grounded on
// original_source/ordec/core/schema.py, ported to the generic NodeType/
// Cursor machinery in package ordb rather than Python dataclasses with a
// metaclass. Each domain type here is a thin, hand-written wrapper around
// an ordb.Cursor exposing typed accessors — the "offset lookup table"
// SPEC_FULL.md's component design calls for, hand-written per type since
// Go has no decorator/metaclass facility to generate it.
//
// Named children (pins, nets, instances, layers, simulation entries) are
// never addressed by an inline Parent/Name attribute on the domain node
// itself; every name is a separate ordb.NPathType entry pointing at the
// domain node via Ref, inserted alongside it through Updater.InsertNamed.
// This is what lets mkpath-style pure-namespace levels exist (a name with
// no node of its own) and what Cursor.Child/Parent/FullPathStr navigate.
package schema

import (
	"fmt"

	"github.com/ordecgo/ordb/geom"
	"github.com/ordecgo/ordb/ordb"
)

// PinType classifies a Symbol's Pin as seen from outside the symbol.
type PinType int

const (
	PinIn PinType = iota
	PinOut
	PinInout
)

func (t PinType) String() string {
	switch t {
	case PinIn:
		return "in"
	case PinOut:
		return "out"
	case PinInout:
		return "inout"
	default:
		return "unknown"
	}
}

// --- Symbol -----------------------------------------------------------

var (
	// SymbolType is the subgraph-root node type for a symbol view.
	SymbolType = ordb.NewNodeType("Symbol", nil,
		ordb.AttrSpec{Name: "Outline", Kind: ordb.AttrPlain},
		ordb.AttrSpec{Name: "Caption", Kind: ordb.AttrPlain},
	)

	// PinNodeType is a leaf node named directly under a Symbol's root via
	// NPath.
	PinNodeType = ordb.NewNodeType("Pin", nil,
		ordb.AttrSpec{Name: "PinType", Kind: ordb.AttrPlain},
		ordb.AttrSpec{Name: "Pos", Kind: ordb.AttrPlain},
		ordb.AttrSpec{Name: "Align", Kind: ordb.AttrPlain},
	)

	polyVertexOrder = ordb.NewSortedIndex("poly_vertex_order", false,
		func(n *ordb.Node) string { return fmt.Sprintf("%08d", n.Get("Ordinal").(int)) }, "Parent")

	// SymbolPolyType is a polygonal outline decoration on a Symbol,
	// grounded on GenericPoly/SymbolPoly in schema.py. It is an ordinary
	// (unnamed) child of the symbol root, reached by nid rather than NPath.
	SymbolPolyType = ordb.NewNodeType("SymbolPoly", nil,
		ordb.AttrSpec{Name: "Parent", Kind: ordb.AttrLocalRef},
	)

	// PolyVec2RType is one ordered vertex of a SymbolPoly, grounded on
	// PolyVec2R in schema.py — exercises FuncInserter (vertices are
	// appended via ordb.Inserter rather than constructed with a known
	// nid up front) and a sortkey-ordered index (ordinal position).
	PolyVec2RType = ordb.NewNodeType("PolyVec2R", nil,
		ordb.AttrSpec{Name: "Parent", Kind: ordb.AttrLocalRef},
		ordb.AttrSpec{Name: "Ordinal", Kind: ordb.AttrPlain},
		ordb.AttrSpec{Name: "Pos", Kind: ordb.AttrPlain},
	)
)

func init() {
	SymbolType.SubgraphRoot = true
	SymbolType.NonLeaf = true
	PolyVec2RType.AttachIndex(polyVertexOrder)
}

// NewSymbol creates a new, empty symbol subgraph.
func NewSymbol(outline geom.Rect4R, caption string) (*ordb.MutableSubgraph, error) {
	return ordb.NewSubgraph(SymbolType, map[string]any{"Outline": outline, "Caption": caption})
}

// Symbol wraps the root cursor of a symbol subgraph.
type Symbol struct{ ordb.Cursor }

// SymbolAt returns the Symbol view of sg's root.
func SymbolAt(sg ordb.Subgraph) Symbol { return Symbol{ordb.CursorAt(sg, ordb.RootNid)} }

func (s Symbol) Outline() geom.Rect4R { return s.Get("Outline").(geom.Rect4R) }
func (s Symbol) Caption() string      { return s.Get("Caption").(string) }

// Pin finds a symbol's pin by name.
func (s Symbol) Pin(name string) (Pin, error) {
	c, err := s.Cursor.Child(name)
	return Pin{c}, err
}

// AddPin inserts a new pin directly under the symbol root, named via NPath.
func AddPin(u *ordb.Updater, name string, pt PinType, pos geom.Vec2R, align geom.D4) ordb.Nid {
	return u.InsertNamed(ordb.NoNpath, name, PinNodeType, map[string]any{
		"PinType": pt, "Pos": pos, "Align": align,
	})
}

// Pin wraps a cursor at a Pin node.
type Pin struct{ ordb.Cursor }

func (p Pin) Name() string    { return p.Cursor.FullPathStr() }
func (p Pin) PinType() PinType { return p.Get("PinType").(PinType) }
func (p Pin) Pos() geom.Vec2R  { return p.Get("Pos").(geom.Vec2R) }
func (p Pin) Align() geom.D4   { return p.Get("Align").(geom.D4) }

// AddSymbolPoly inserts a SymbolPoly under the symbol root and its
// vertices under the poly, via FuncInserter — grounded on the
// `symbol % SymbolPoly(...)` idiom in ordb.py. SymbolPoly nodes are not
// named (there is no per-poly identifier in the domain), so they are
// inserted directly rather than through InsertNamed.
func AddSymbolPoly(u *ordb.Updater, vertices []geom.Vec2R) ordb.Nid {
	polyNid := u.Insert(SymbolPolyType, map[string]any{"Parent": ordb.RootNid})
	for i, v := range vertices {
		u.InsertChild(polyNid, ordb.FuncInserter(func(u *ordb.Updater, parent ordb.Nid) ordb.Nid {
			return u.Insert(PolyVec2RType, map[string]any{
				"Parent": parent, "Ordinal": i, "Pos": v,
			})
		}))
	}
	return polyNid
}

// SymbolPoly wraps a cursor at a SymbolPoly node.
type SymbolPoly struct{ ordb.Cursor }

// SymbolPolyAt returns the SymbolPoly view of the node at nid.
func SymbolPolyAt(sg ordb.Subgraph, nid ordb.Nid) SymbolPoly {
	return SymbolPoly{ordb.CursorAt(sg, nid)}
}

// Vertices returns the poly's vertices in ordinal order, read directly from
// polyVertexOrder's sortkey-ordered bucket rather than relying on nid
// allocation order to coincide with insertion order.
func (p SymbolPoly) Vertices() []geom.Vec2R {
	nids := p.Cursor.IndexedChildren(polyVertexOrder, p.Nid)
	verts := make([]geom.Vec2R, 0, len(nids))
	for _, nid := range nids {
		n, ok := p.SG.NodeAt(nid)
		if !ok {
			continue
		}
		verts = append(verts, n.Get("Pos").(geom.Vec2R))
	}
	return verts
}

// --- Schematic ----------------------------------------------------------

var (
	connKey = ordb.NewIndex("schem_inst_conn", true, "Ref", "There")

	// SchematicType is the subgraph-root node type for a schematic view.
	// Symbol embeds the symbol this schematic implements as a frozen
	// subgraph, exercising AttrSubgraphRef.
	SchematicType = ordb.NewNodeType("Schematic", nil,
		ordb.AttrSpec{Name: "Symbol", Kind: ordb.AttrSubgraphRef},
		ordb.AttrSpec{Name: "Outline", Kind: ordb.AttrPlain},
	)

	// NetType is a net inside a schematic, named via NPath. Pin is an
	// ExternalRef resolved against the Symbol subgraph embedded on the
	// schematic root, grounded on Net.pin's of_subgraph policy in
	// schema.py.
	NetType = ordb.NewNodeType("Net", nil,
		ordb.AttrSpec{Name: "Pin", Kind: ordb.AttrExternalRef, ExternalRefVia: "Symbol"},
	)

	// SchemInstanceType places an instance of another cell's symbol on
	// this schematic, named via NPath, grounded on SchemInstance in
	// schema.py.
	SchemInstanceType = ordb.NewNodeType("SchemInstance", nil,
		ordb.AttrSpec{Name: "Pos", Kind: ordb.AttrPlain},
		ordb.AttrSpec{Name: "Orientation", Kind: ordb.AttrPlain},
		ordb.AttrSpec{Name: "Symbol", Kind: ordb.AttrSubgraphRef},
	)

	// SchemInstanceConnType wires one pin of a SchemInstance to a net,
	// grounded on SchemInstanceConn in schema.py: Ref is a LocalRef to the
	// SchemInstance, Here a LocalRef to the Net on this schematic, There
	// an ExternalRef to the Pin on the instance's own symbol. The
	// (Ref, There) pair is unique: an instance pin connects to exactly
	// one net.
	SchemInstanceConnType = ordb.NewNodeType("SchemInstanceConn", nil,
		ordb.AttrSpec{Name: "Ref", Kind: ordb.AttrLocalRef},
		ordb.AttrSpec{Name: "Here", Kind: ordb.AttrLocalRef},
		ordb.AttrSpec{Name: "There", Kind: ordb.AttrExternalRef, ExternalRefVia: "Ref"},
	)
)

func init() {
	SchematicType.SubgraphRoot = true
	SchematicType.NonLeaf = true
	SchemInstanceConnType.AttachIndex(connKey)
}

// NewSchematic creates a new schematic subgraph implementing symbol.
func NewSchematic(symbol *ordb.FrozenSubgraph, outline geom.Rect4R) (*ordb.MutableSubgraph, error) {
	return ordb.NewSubgraph(SchematicType, map[string]any{
		"Symbol": ordb.SubgraphRef{Subgraph: symbol}, "Outline": outline,
	})
}

// Schematic wraps the root cursor of a schematic subgraph.
type Schematic struct{ ordb.Cursor }

func SchematicAt(sg ordb.Subgraph) Schematic {
	return Schematic{ordb.CursorAt(sg, ordb.RootNid)}
}

func (s Schematic) Symbol() ordb.SubgraphRef { return s.Get("Symbol").(ordb.SubgraphRef) }

func (s Schematic) Net(name string) (Net, error) {
	c, err := s.Cursor.Child(name)
	return Net{c}, err
}

func (s Schematic) Instance(name string) (SchemInstance, error) {
	c, err := s.Cursor.Child(name)
	return SchemInstance{c}, err
}

// AddNet inserts a net directly under the schematic root, named via NPath
// and wired to pin (a nid in the schematic's embedded Symbol subgraph).
func AddNet(u *ordb.Updater, name string, pin ordb.Nid) ordb.Nid {
	return u.InsertNamed(ordb.NoNpath, name, NetType, map[string]any{
		"Pin": ordb.ExternalRef(pin),
	})
}

// Net wraps a cursor at a Net node.
type Net struct{ ordb.Cursor }

func (n Net) Name() string { return n.Cursor.FullPathStr() }

// Pin resolves the net's external pin reference against symbol, the
// FrozenSubgraph the owning schematic's Symbol attribute points at.
func (n Net) Pin(symbol *ordb.FrozenSubgraph) Pin {
	ref := n.Get("Pin").(ordb.ExternalRef)
	return Pin{ref.Resolve(symbol)}
}

// AddInstance places an instance of childSymbol, embedded as the Symbol
// SubgraphRef and named via NPath directly under the schematic root.
func AddInstance(u *ordb.Updater, name string, pos geom.Vec2R, orient geom.D4, childSymbol *ordb.FrozenSubgraph) ordb.Nid {
	return u.InsertNamed(ordb.NoNpath, name, SchemInstanceType, map[string]any{
		"Pos": pos, "Orientation": orient,
		"Symbol": ordb.SubgraphRef{Subgraph: childSymbol},
	})
}

// SchemInstance wraps a cursor at a SchemInstance node.
type SchemInstance struct{ ordb.Cursor }

func (i SchemInstance) Name() string         { return i.Cursor.FullPathStr() }
func (i SchemInstance) Pos() geom.Vec2R      { return i.Get("Pos").(geom.Vec2R) }
func (i SchemInstance) Orientation() geom.D4 { return i.Get("Orientation").(geom.D4) }
func (i SchemInstance) Symbol() ordb.SubgraphRef {
	return i.Get("Symbol").(ordb.SubgraphRef)
}

// Connect wires instance pin `there` (a nid in the instance's own symbol)
// to net `here` on the schematic, grounded on SchemInstanceConn in
// schema.py.
func Connect(u *ordb.Updater, inst ordb.Nid, here ordb.Nid, there ordb.Nid) ordb.Nid {
	return u.Insert(SchemInstanceConnType, map[string]any{
		"Ref": inst, "Here": here, "There": ordb.ExternalRef(there),
	})
}

// --- Layer stack ---------------------------------------------------------

var (
	// LayerStackType is the subgraph-root node type holding a process's
	// named layers, grounded on LayerStack in schema.py.
	LayerStackType = ordb.NewNodeType("LayerStack", nil)

	// LayerType is a named, non-leaf child of LayerStackType — it can
	// itself have named children (e.g. a "pin" sub-purpose) via NPath,
	// exercising NPath addressing outside of a domain-object tree.
	LayerType = ordb.NewNodeType("Layer", nil,
		ordb.AttrSpec{Name: "GdsLayer", Kind: ordb.AttrPlain},
		ordb.AttrSpec{Name: "Color", Kind: ordb.AttrPlain},
	)
)

func init() {
	LayerStackType.SubgraphRoot = true
	LayerStackType.NonLeaf = true
	LayerType.NonLeaf = true
}

// NewLayerStack creates a new, empty layer stack subgraph.
func NewLayerStack() (*ordb.MutableSubgraph, error) {
	return ordb.NewSubgraph(LayerStackType, nil)
}

// LayerStack wraps the root cursor of a layer stack subgraph.
type LayerStack struct{ ordb.Cursor }

func LayerStackAt(sg ordb.Subgraph) LayerStack {
	return LayerStack{ordb.CursorAt(sg, ordb.RootNid)}
}

func (ls LayerStack) Layer(name string) (Layer, error) {
	c, err := ls.Cursor.Child(name)
	return Layer{c}, err
}

// AddLayer inserts a layer directly under the layer stack root, named via
// NPath.
func AddLayer(u *ordb.Updater, name string, gdsLayer int, color RGBColor) ordb.Nid {
	return u.InsertNamed(ordb.NoNpath, name, LayerType, map[string]any{
		"GdsLayer": gdsLayer, "Color": color,
	})
}

// Layer wraps a cursor at a Layer node.
type Layer struct{ ordb.Cursor }

func (l Layer) Name() string    { return l.Cursor.FullPathStr() }
func (l Layer) GdsLayer() int   { return l.Get("GdsLayer").(int) }
func (l Layer) Color() RGBColor { return l.Get("Color").(RGBColor) }

// Purpose names a pure-namespace level under a layer — e.g. "pin" in
// layerstack.metal1.pin — with no node of its own, grounded on mkpath in
// ordb.py.
func (l Layer) Purpose(u *ordb.Updater, name string) ordb.Nid {
	return u.MkPath(l.Cursor.NpathNid, name)
}

// RGBColor is an 8-bit-per-channel color, grounded on RGBColor/rgb_color
// in schema.py.
type RGBColor struct{ R, G, B uint8 }

// --- Simulation hierarchy -------------------------------------------------

var (
	// SimHierarchyType is the subgraph-root node type for a simulation
	// hierarchy annotating a Schematic, grounded on SimHierarchy in
	// schema.py.
	SimHierarchyType = ordb.NewNodeType("SimHierarchy", nil,
		ordb.AttrSpec{Name: "Schematic", Kind: ordb.AttrSubgraphRef},
	)

	// SimInstanceType mirrors a SchemInstance's position in the
	// simulation hierarchy. Nesting (one SimInstance inside another) is
	// carried entirely by the NPath parent chain now, rather than a
	// dedicated recursive LocalRef — grounded on SimHierarchySubcursor/
	// SimInstance in schema.py. There resolves against the SimHierarchy's
	// own embedded Schematic at every nesting level: a nested SimInstance
	// walks the NPath parent chain up to the top level and uses the same
	// schematic — a policy only the schema layer (not generic ordb) can
	// express (see SimInstance.Schematic and DESIGN.md's note on this Open
	// Question).
	SimInstanceType = ordb.NewNodeType("SimInstance", nil,
		ordb.AttrSpec{Name: "There", Kind: ordb.AttrExternalRef, ExternalRefVia: "Schematic"},
	)

	// SimNetType annotates one net's simulation result (e.g. a solved
	// voltage), grounded on SimNet in schema.py.
	SimNetType = ordb.NewNodeType("SimNet", nil,
		ordb.AttrSpec{Name: "There", Kind: ordb.AttrExternalRef},
		ordb.AttrSpec{Name: "Value", Kind: ordb.AttrPlain},
	)
)

func init() {
	SimHierarchyType.SubgraphRoot = true
	SimHierarchyType.NonLeaf = true
	SimInstanceType.NonLeaf = true
}

// NewSimHierarchy creates a new simulation hierarchy annotating schematic.
func NewSimHierarchy(schematic *ordb.FrozenSubgraph) (*ordb.MutableSubgraph, error) {
	return ordb.NewSubgraph(SimHierarchyType, map[string]any{
		"Schematic": ordb.SubgraphRef{Subgraph: schematic},
	})
}

// SimHierarchy wraps the root cursor of a simulation hierarchy subgraph.
type SimHierarchy struct{ ordb.Cursor }

func SimHierarchyAt(sg ordb.Subgraph) SimHierarchy {
	return SimHierarchy{ordb.CursorAt(sg, ordb.RootNid)}
}

func (h SimHierarchy) Schematic() ordb.SubgraphRef { return h.Get("Schematic").(ordb.SubgraphRef) }

func (h SimHierarchy) Instance(name string) (SimInstance, error) {
	c, err := h.Cursor.Child(name)
	return SimInstance{c}, err
}

// AddSimInstance records a SimInstance, nested under parent (the NPath nid
// of the owning SimInstance, or ordb.NoNpath at the top level) and wired to
// there (a nid in the schematic that resolves its There attribute).
func AddSimInstance(u *ordb.Updater, parent ordb.Nid, name string, there ordb.Nid) ordb.Nid {
	return u.InsertNamed(parent, name, SimInstanceType, map[string]any{
		"There": ordb.ExternalRef(there),
	})
}

// SimInstance wraps a cursor at a SimInstance node.
type SimInstance struct{ ordb.Cursor }

func (i SimInstance) Name() string { return i.Cursor.FullPathStr() }

// Schematic returns the embedded schematic this SimInstance's There
// resolves against.
func (i SimInstance) Schematic() *ordb.FrozenSubgraph {
	p, ok := i.Cursor.Parent()
	if !ok || p.Nid == ordb.RootNid {
		return SimHierarchyAt(i.SG).Schematic().Subgraph
	}
	return SimInstance{p}.Schematic()
}

func (i SimInstance) There() ordb.Cursor {
	ref := i.Get("There").(ordb.ExternalRef)
	return ref.Resolve(i.Schematic())
}

// AddSimNet records a simulated value for the net at `there` (a nid in
// the annotated schematic), named via NPath directly under the hierarchy
// root.
func AddSimNet(u *ordb.Updater, name string, there ordb.Nid, value any) ordb.Nid {
	return u.InsertNamed(ordb.NoNpath, name, SimNetType, map[string]any{
		"There": ordb.ExternalRef(there), "Value": value,
	})
}

// SimNet wraps a cursor at a SimNet node.
type SimNet struct{ ordb.Cursor }

func (n SimNet) Name() string  { return n.Cursor.FullPathStr() }
func (n SimNet) Value() any    { return n.Get("Value") }
