package scene

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func rect(x, y, w, h float64) Element {
	return Element{Bounds: Bounds{X: x, Y: y, Width: w, Height: h}, Attrs: Shape{Fill: "#ff0000"}}
}

func group(children ...Element) Element {
	return Element{Attrs: Group{}, Children: children}
}

func TestInsertAssignsFreshIDs(t *testing.T) {
	s := New(DefaultCanvas, "")

	s1, id1, err := s.Insert(rect(0, 0, 10, 10), -1)
	if err != nil {
		t.Fatalf("Insert() error: %v", err)
	}
	s2, id2, err := s1.Insert(rect(0, 0, 10, 10), -1)
	if err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	if id1 == "" || id1 == id2 {
		t.Errorf("ids = %q, %q, want distinct non-empty", id1, id2)
	}
	if len(s.Elements) != 0 {
		t.Errorf("original scene mutated: %d elements", len(s.Elements))
	}
	if len(s2.Elements) != 2 || s2.Elements[0].ID != id1 {
		t.Errorf("Insert order = %v, want [%s %s]", s2.IDs(), id1, id2)
	}
}

func TestInsertAtIndex(t *testing.T) {
	s := New(DefaultCanvas, "")
	s, a, _ := s.Insert(rect(0, 0, 10, 10), -1)
	s, b, _ := s.Insert(rect(0, 0, 10, 10), -1)
	s, c, err := s.Insert(rect(0, 0, 10, 10), 1)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{a, c, b}
	for i, id := range want {
		if s.Elements[i].ID != id {
			t.Errorf("Elements[%d] = %s, want %s", i, s.Elements[i].ID, id)
		}
	}
}

func TestInsertRejectsInvalidBounds(t *testing.T) {
	tests := []struct {
		name string
		el   Element
	}{
		{"button below minimum", Element{Bounds: Bounds{Width: 49, Height: 40}, Attrs: Button{Label: "Go"}}},
		{"card below minimum height", Element{Bounds: Bounds{Width: 100, Height: 29}, Attrs: Card{}}},
		{"negative width", Element{Bounds: Bounds{Width: -1, Height: 10}, Attrs: Line{}}},
		{"empty group", group()},
		{"group with small child", group(Element{Bounds: Bounds{Width: 10, Height: 10}, Attrs: Image{}})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := New(DefaultCanvas, "").Insert(tt.el, -1)
			if !errors.Is(err, ErrInvalidBounds) {
				t.Errorf("Insert() error = %v, want ErrInvalidBounds", err)
			}
		})
	}

	if _, _, err := New(DefaultCanvas, "").Insert(Element{}, -1); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Insert(no attrs) error = %v, want ErrUnknownKind", err)
	}
}

func TestInsertGroupFitsChildren(t *testing.T) {
	s, id, err := New(DefaultCanvas, "").Insert(group(rect(10, 20, 100, 50), rect(200, 0, 10, 10)), -1)
	if err != nil {
		t.Fatal(err)
	}
	g, err := s.Query(id)
	if err != nil {
		t.Fatal(err)
	}
	want := Bounds{X: 10, Y: 0, Width: 200, Height: 70}
	if g.Bounds != want {
		t.Errorf("group bounds = %+v, want %+v", g.Bounds, want)
	}
	for _, c := range g.Children {
		if c.ID == "" || c.ID == id {
			t.Errorf("child id %q not assigned", c.ID)
		}
	}
}

func TestRemoveCascades(t *testing.T) {
	s, gid, err := New(DefaultCanvas, "").Insert(group(rect(0, 0, 10, 10), rect(20, 0, 10, 10)), -1)
	if err != nil {
		t.Fatal(err)
	}
	g, _ := s.Query(gid)
	childA, childB := g.Children[0].ID, g.Children[1].ID

	s, err = s.Remove(gid)
	if err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	for _, id := range []string{gid, childA, childB} {
		if _, err := s.Query(id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Query(%s) error = %v, want ErrNotFound", id, err)
		}
	}
}

func TestRemoveNested(t *testing.T) {
	s, gid, _ := New(DefaultCanvas, "").Insert(group(rect(0, 0, 10, 10), rect(90, 90, 10, 10)), -1)
	g, _ := s.Query(gid)

	s, err := s.Remove(g.Children[1].ID)
	if err != nil {
		t.Fatal(err)
	}
	g, _ = s.Query(gid)
	if len(g.Children) != 1 {
		t.Fatalf("children = %d, want 1", len(g.Children))
	}
	if want := (Bounds{Width: 10, Height: 10}); g.Bounds != want {
		t.Errorf("group bounds = %+v, want %+v", g.Bounds, want)
	}

	s, err = s.Remove(g.Children[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Elements) != 0 {
		t.Errorf("emptied group kept: %v", s.IDs())
	}
}

func TestRemoveNotFound(t *testing.T) {
	if _, err := New(DefaultCanvas, "").Remove("el_missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove() error = %v, want ErrNotFound", err)
	}
}

func TestUpdateIsPure(t *testing.T) {
	s, id, _ := New(DefaultCanvas, "").Insert(rect(0, 0, 100, 50), -1)

	next, err := s.Update(id, Move(30, 40))
	if err != nil {
		t.Fatal(err)
	}
	before, _ := s.Query(id)
	after, _ := next.Query(id)
	if before.Bounds.X != 0 || before.Bounds.Y != 0 {
		t.Errorf("original element moved to %+v", before.Bounds)
	}
	if after.Bounds.X != 30 || after.Bounds.Y != 40 {
		t.Errorf("updated element at %+v, want (30, 40)", after.Bounds)
	}
}

func TestUpdateRejectsBelowMinimum(t *testing.T) {
	s, id, _ := New(DefaultCanvas, "").Insert(Element{Bounds: Bounds{Width: 120, Height: 40}, Attrs: Button{Label: "Go"}}, -1)

	_, err := s.Update(id, SetSize(20, 40))
	if !errors.Is(err, ErrInvalidBounds) {
		t.Errorf("Update() error = %v, want ErrInvalidBounds", err)
	}
	if _, err := s.Update("el_missing", Move(1, 1)); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrNotFound", err)
	}
}

func TestUpdateStyleMerge(t *testing.T) {
	el := Element{Bounds: Bounds{Width: 100, Height: 50}, Attrs: Shape{Fill: "#ff0000", Stroke: "#000000", StrokeWidth: 2}}
	s, id, _ := New(DefaultCanvas, "").Insert(el, -1)

	s, err := s.Update(id, Patch{Style: json.RawMessage(`{"fill":"#00ff00","bogus":true}`)})
	if err != nil {
		t.Fatal(err)
	}
	got, _ := s.Query(id)
	want := Shape{Fill: "#00ff00", Stroke: "#000000", StrokeWidth: 2}
	if shape, ok := got.Attrs.(Shape); !ok || shape.Fill != want.Fill || shape.Stroke != want.Stroke || shape.StrokeWidth != want.StrokeWidth {
		t.Errorf("attrs = %+v, want %+v", got.Attrs, want)
	}

	if _, err := s.Update(id, Patch{Style: json.RawMessage(`{"fill":3}`)}); !errors.Is(err, ErrInvalidStyle) {
		t.Errorf("Update(bad style) error = %v, want ErrInvalidStyle", err)
	}
}

func TestUpdateGroupMoveTranslatesChildren(t *testing.T) {
	s, gid, _ := New(DefaultCanvas, "").Insert(group(rect(10, 10, 20, 20), rect(50, 10, 20, 20)), -1)

	s, err := s.Update(gid, Move(110, 60))
	if err != nil {
		t.Fatal(err)
	}
	g, _ := s.Query(gid)
	want := []Bounds{{X: 110, Y: 60, Width: 20, Height: 20}, {X: 150, Y: 60, Width: 20, Height: 20}}
	for i, c := range g.Children {
		if c.Bounds != want[i] {
			t.Errorf("child %d bounds = %+v, want %+v", i, c.Bounds, want[i])
		}
	}
}

func TestUpdateGroupResizeScalesChildren(t *testing.T) {
	s, gid, _ := New(DefaultCanvas, "").Insert(group(rect(0, 0, 50, 50), rect(50, 50, 50, 50)), -1)

	s, err := s.Update(gid, SetSize(200, 100))
	if err != nil {
		t.Fatal(err)
	}
	g, _ := s.Query(gid)
	want := []Bounds{{X: 0, Y: 0, Width: 100, Height: 50}, {X: 100, Y: 50, Width: 100, Height: 50}}
	for i, c := range g.Children {
		if c.Bounds != want[i] {
			t.Errorf("child %d bounds = %+v, want %+v", i, c.Bounds, want[i])
		}
	}
	if want := (Bounds{Width: 200, Height: 100}); g.Bounds != want {
		t.Errorf("group bounds = %+v, want %+v", g.Bounds, want)
	}
}

func TestUpdateGroupResizeClampsChildren(t *testing.T) {
	button := Element{Bounds: Bounds{Width: 100, Height: 40}, Attrs: Button{Label: "Go"}}
	s, gid, _ := New(DefaultCanvas, "").Insert(group(button), -1)

	s, err := s.Update(gid, SetSize(10, 10))
	if err != nil {
		t.Fatal(err)
	}
	g, _ := s.Query(gid)
	if b := g.Children[0].Bounds; b.Width != 50 || b.Height != 30 {
		t.Errorf("child size = %vx%v, want 50x30", b.Width, b.Height)
	}
	if g.Bounds.Width != 50 || g.Bounds.Height != 30 {
		t.Errorf("group size = %vx%v, want 50x30", g.Bounds.Width, g.Bounds.Height)
	}
}

func TestUpdateNestedRefitsGroup(t *testing.T) {
	s, gid, _ := New(DefaultCanvas, "").Insert(group(rect(0, 0, 10, 10), rect(20, 20, 10, 10)), -1)
	g, _ := s.Query(gid)

	s, err := s.Update(g.Children[1].ID, Move(90, 90))
	if err != nil {
		t.Fatal(err)
	}
	g, _ = s.Query(gid)
	if want := (Bounds{Width: 100, Height: 100}); g.Bounds != want {
		t.Errorf("group bounds = %+v, want %+v", g.Bounds, want)
	}
}

func TestReorder(t *testing.T) {
	s := New(DefaultCanvas, "")
	var ids []string
	for i := 0; i < 3; i++ {
		var id string
		s, id, _ = s.Insert(rect(0, 0, 10, 10), -1)
		ids = append(ids, id)
	}

	tests := []struct {
		name string
		op   func(Scene) (Scene, error)
		want []string
	}{
		{"to front", func(s Scene) (Scene, error) { return s.BringToFront(ids[0]) }, []string{ids[1], ids[2], ids[0]}},
		{"to back", func(s Scene) (Scene, error) { return s.SendToBack(ids[2]) }, []string{ids[2], ids[0], ids[1]}},
		{"middle", func(s Scene) (Scene, error) { return s.Reorder(ids[0], 1) }, []string{ids[1], ids[0], ids[2]}},
		{"clamped negative", func(s Scene) (Scene, error) { return s.Reorder(ids[1], -5) }, []string{ids[1], ids[0], ids[2]}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op(s)
			if err != nil {
				t.Fatal(err)
			}
			for i, id := range tt.want {
				if got.Elements[i].ID != id {
					t.Errorf("order = %v, want %v", got.IDs(), tt.want)
					break
				}
			}
		})
	}

	if _, err := s.Reorder("el_missing", 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("Reorder(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDuplicate(t *testing.T) {
	s, gid, _ := New(DefaultCanvas, "").Insert(group(rect(0, 0, 10, 10), rect(20, 0, 10, 10)), -1)

	s, dupID, err := s.Duplicate(gid, 20, 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Elements) != 2 || s.Elements[1].ID != dupID {
		t.Fatalf("duplicate not placed above original: %v", s.IDs())
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() after duplicate: %v", err)
	}
	dup, _ := s.Query(dupID)
	if want := (Bounds{X: 20, Y: 20, Width: 30, Height: 10}); dup.Bounds != want {
		t.Errorf("duplicate bounds = %+v, want %+v", dup.Bounds, want)
	}
}

func TestQueryReturnsCopy(t *testing.T) {
	el := Element{Bounds: Bounds{Width: 10, Height: 10}, Attrs: Shape{Dash: []float64{5, 5}}}
	s, id, _ := New(DefaultCanvas, "").Insert(el, -1)

	got, _ := s.Query(id)
	got.Attrs.(Shape).Dash[0] = 99

	again, _ := s.Query(id)
	if again.Attrs.(Shape).Dash[0] != 5 {
		t.Error("Query() result aliases scene state")
	}
}

func TestValidateDuplicateIDs(t *testing.T) {
	s := New(DefaultCanvas, "")
	s.Elements = []Element{
		{ID: "a", Bounds: Bounds{Width: 10, Height: 10}, Attrs: Shape{}},
		{ID: "a", Bounds: Bounds{Width: 10, Height: 10}, Attrs: Shape{}},
	}
	if err := s.Validate(); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Validate() error = %v, want ErrDuplicateID", err)
	}
}

func TestEqualIgnoresEmptyCollections(t *testing.T) {
	a := Scene{Elements: []Element{{ID: "a", Attrs: Shape{Dash: []float64{}}, Extra: map[string]json.RawMessage{}}}}
	b := Scene{Elements: []Element{{ID: "a", Attrs: Shape{}}}}
	if !a.Equal(b) {
		t.Error("Equal() = false for scenes differing only in empty collections")
	}
}

func TestMinSize(t *testing.T) {
	tests := []struct {
		kind Kind
		w, h float64
	}{
		{KindButton, 50, 30},
		{KindCard, 50, 30},
		{KindImage, 50, 30},
		{KindSection, 50, 30},
		{KindText, 10, 10},
		{KindRectangle, 1, 1},
		{KindLine, 0, 0},
		{KindGroup, 0, 0},
	}
	for _, tt := range tests {
		w, h := MinSize(tt.kind)
		if w != tt.w || h != tt.h {
			t.Errorf("MinSize(%s) = %vx%v, want %vx%v", tt.kind, w, h, tt.w, tt.h)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(string(k))
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %q, %v", k, got, err)
		}
		a, err := DefaultAttributes(k)
		if err != nil {
			t.Fatalf("DefaultAttributes(%s) error: %v", k, err)
		}
		if a.Kind() != k {
			t.Errorf("DefaultAttributes(%s).Kind() = %s", k, a.Kind())
		}
	}
	if _, err := ParseKind("circle"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("ParseKind(circle) error = %v, want ErrUnknownKind", err)
	}
}

func TestValidateCanvas(t *testing.T) {
	rect := Element{ID: "a", Bounds: Bounds{X: 10, Y: 20, Width: 100, Height: 50}, Attrs: Shape{}}
	tests := []struct {
		name  string
		scene Scene
	}{
		{"zero canvas", Scene{Elements: []Element{rect}, Background: DefaultBackground}},
		{"negative width", Scene{CanvasSize: Size{Width: -1, Height: 100}, Background: DefaultBackground}},
		{"infinite height", Scene{CanvasSize: Size{Width: 100, Height: math.Inf(1)}, Background: DefaultBackground}},
		{"empty background", Scene{CanvasSize: DefaultCanvas, Elements: []Element{rect}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.scene.Validate(); !errors.Is(err, ErrInvalidCanvas) {
				t.Errorf("Validate() error = %v, want ErrInvalidCanvas", err)
			}
		})
	}

	if err := New(Size{Width: 100, Height: 100}, "").Validate(); err != nil {
		t.Errorf("Validate() on New scene: %v", err)
	}
}
