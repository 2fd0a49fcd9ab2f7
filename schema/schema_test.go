package schema_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ordecgo/ordb/geom"
	"github.com/ordecgo/ordb/ordb"
	"github.com/ordecgo/ordb/rat"
	"github.com/ordecgo/ordb/schema"
)

func r(n int64) rat.Rational { return rat.FromInt64(n) }

func vec(x, y int64) geom.Vec2R { return geom.Vec2R{X: r(x), Y: r(y)} }

func rect(lx, ly, ux, uy int64) geom.Rect4R {
	return geom.NewRect4R(r(lx), r(ly), r(ux), r(uy))
}

func buildInverterSymbol(t *testing.T) *ordb.FrozenSubgraph {
	t.Helper()
	sg, err := schema.NewSymbol(rect(0, 0, 4, 4), "inv")
	require.NoError(t, err)

	u := sg.Updater()
	schema.AddPin(u, "a", schema.PinIn, vec(0, 2), geom.West)
	schema.AddPin(u, "y", schema.PinOut, vec(4, 2), geom.East)
	require.NoError(t, u.Commit())

	frozen, err := sg.Freeze()
	require.NoError(t, err)
	return frozen
}

func TestSymbolPinLookup(t *testing.T) {
	symbol := buildInverterSymbol(t)
	s := schema.SymbolAt(symbol)
	require.Equal(t, "inv", s.Caption())

	a, err := s.Pin("a")
	require.NoError(t, err)
	require.Equal(t, schema.PinIn, a.PinType())
	require.Equal(t, vec(0, 2), a.Pos())
	require.Equal(t, "a", a.Name())

	_, err = s.Pin("missing")
	require.Error(t, err)
}

func TestSymbolPolyVerticesOrdered(t *testing.T) {
	sg, err := schema.NewSymbol(rect(0, 0, 10, 10), "poly")
	require.NoError(t, err)
	u := sg.Updater()
	want := []geom.Vec2R{vec(0, 0), vec(10, 0), vec(10, 10)}
	polyNid := schema.AddSymbolPoly(u, want)
	require.NoError(t, u.Commit())

	verts := sg.All(schema.PolyVec2RType)
	require.Len(t, verts, 3)

	poly := schema.SymbolPolyAt(sg, polyNid)
	require.Equal(t, want, poly.Vertices())
}

func TestSchematicNetResolvesExternalPin(t *testing.T) {
	symbol := buildInverterSymbol(t)
	s := schema.SymbolAt(symbol)
	pinA, err := s.Pin("a")
	require.NoError(t, err)

	schem, err := schema.NewSchematic(symbol, rect(0, 0, 20, 20))
	require.NoError(t, err)
	u := schem.Updater()
	schema.AddNet(u, "in", pinA.Nid)
	require.NoError(t, u.Commit())

	sc := schema.SchematicAt(schem)
	net, err := sc.Net("in")
	require.NoError(t, err)
	require.Equal(t, "in", net.Name())
	resolvedPin := net.Pin(symbol)
	require.Equal(t, "a", resolvedPin.Name())
}

func TestSchemInstanceConnUniqueness(t *testing.T) {
	childSymbol := buildInverterSymbol(t)
	childSchem, err := schema.NewSchematic(childSymbol, rect(0, 0, 20, 20))
	require.NoError(t, err)
	childFrozen, err := childSchem.Freeze()
	require.NoError(t, err)
	_ = childFrozen

	topSymbol, err := schema.NewSymbol(rect(0, 0, 40, 40), "top")
	require.NoError(t, err)
	topFrozen, err := topSymbol.Freeze()
	require.NoError(t, err)

	top, err := schema.NewSchematic(topFrozen, rect(0, 0, 40, 40))
	require.NoError(t, err)

	u := top.Updater()
	instNid := schema.AddInstance(u, "x1", vec(0, 0), geom.North, childSymbol)
	netNid := schema.AddNet(u, "n1", 0)
	pinA := schema.SymbolAt(childSymbol)
	a, err := pinA.Pin("a")
	require.NoError(t, err)

	schema.Connect(u, instNid, netNid, a.Nid)
	schema.Connect(u, instNid, netNid, a.Nid) // duplicate (Ref, There) pair
	err = u.Commit()
	require.Error(t, err)
	var uv *ordb.UniqueViolation
	require.ErrorAs(t, err, &uv)
}

func TestLayerStackNPathAddressing(t *testing.T) {
	sg, err := schema.NewLayerStack()
	require.NoError(t, err)
	u := sg.Updater()
	schema.AddLayer(u, "metal1", 10, schema.RGBColor{R: 200, G: 50, B: 50})
	require.NoError(t, u.Commit())

	ls := schema.LayerStackAt(sg)
	l, err := ls.Layer("metal1")
	require.NoError(t, err)
	require.Equal(t, 10, l.GdsLayer())
	require.Equal(t, "metal1", l.Name())
}

func TestLayerPurposeNestsPureNamespaceNode(t *testing.T) {
	sg, err := schema.NewLayerStack()
	require.NoError(t, err)
	u := sg.Updater()
	schema.AddLayer(u, "metal1", 10, schema.RGBColor{R: 200, G: 50, B: 50})
	require.NoError(t, u.Commit())

	ls := schema.LayerStackAt(sg)
	metal1, err := ls.Layer("metal1")
	require.NoError(t, err)

	u2 := sg.Updater()
	metal1.Purpose(u2, "pin")
	require.NoError(t, u2.Commit())

	metal1Again, err := schema.LayerStackAt(sg).Layer("metal1")
	require.NoError(t, err)
	pinLevel, err := metal1Again.Cursor.Child("pin")
	require.NoError(t, err)
	require.Equal(t, "metal1.pin", pinLevel.FullPathStr())
}

func TestSimHierarchyAnnotatesSchematic(t *testing.T) {
	symbol := buildInverterSymbol(t)
	schem, err := schema.NewSchematic(symbol, rect(0, 0, 20, 20))
	require.NoError(t, err)
	frozenSchem, err := schem.Freeze()
	require.NoError(t, err)

	hier, err := schema.NewSimHierarchy(frozenSchem)
	require.NoError(t, err)
	u := hier.Updater()
	schema.AddSimNet(u, "in", 0, "1.8")
	require.NoError(t, u.Commit())

	require.Len(t, hier.All(schema.SimNetType), 1)
}

func TestSimInstanceNestingResolvesAgainstParent(t *testing.T) {
	symbol := buildInverterSymbol(t)
	schem, err := schema.NewSchematic(symbol, rect(0, 0, 20, 20))
	require.NoError(t, err)
	frozenSchem, err := schem.Freeze()
	require.NoError(t, err)

	hier, err := schema.NewSimHierarchy(frozenSchem)
	require.NoError(t, err)
	u := hier.Updater()
	topNid := schema.AddSimInstance(u, ordb.NoNpath, "x1", 0)
	require.NoError(t, u.Commit())

	top, err := schema.SimHierarchyAt(hier).Instance("x1")
	require.NoError(t, err)
	require.Equal(t, topNid, top.Nid)
	require.True(t, top.Schematic().Equal(frozenSchem))

	u2 := hier.Updater()
	schema.AddSimInstance(u2, top.NpathNid, "y1", 0)
	require.NoError(t, u2.Commit())

	nested, err := top.Cursor.Child("y1")
	require.NoError(t, err)
	require.Equal(t, "x1.y1", nested.FullPathStr())
	require.True(t, schema.SimInstance{Cursor: nested}.Schematic().Equal(frozenSchem))
}
