package core

import "testing"

func TestEmptyRect(t *testing.T) {
	r := EmptyRect()
	if !r.IsEmpty() {
		t.Fatal("canonical empty rect must report empty")
	}
	if r.Contains(Point{0, 0}) {
		t.Fatal("empty rect must not contain any point")
	}
	if s := r.Size(); s.W != 0 || s.H != 0 {
		t.Fatalf("empty rect size = %v, want zero", s)
	}
}

func TestUnionPointOnEmpty(t *testing.T) {
	r := EmptyRect().UnionPoint(Point{3, -2})
	if r.IsEmpty() {
		t.Fatal("union with a point must produce a non-empty rect")
	}
	if r.Min != (Point{3, -2}) || r.Max != (Point{3, -2}) {
		t.Fatalf("expected degenerate single-point rect, got %+v", r)
	}
	if !r.Contains(Point{3, -2}) {
		t.Fatal("single-point rect must contain its point")
	}
	if s := r.Size(); s.W != 1 || s.H != 1 {
		t.Fatalf("single-point rect size = %v, want 1x1", s)
	}
}

func TestUnionWithEmptyIsIdentity(t *testing.T) {
	r := BoundRect{Min: Point{1, 2}, Max: Point{4, 6}}
	if got := r.Union(EmptyRect()); got != r {
		t.Fatalf("union with empty changed rect: %+v", got)
	}
	if got := EmptyRect().Union(r); got != r {
		t.Fatalf("empty union rect changed rect: %+v", got)
	}
}

func TestUnionCovers(t *testing.T) {
	a := BoundRect{Min: Point{0, 0}, Max: Point{2, 2}}
	b := BoundRect{Min: Point{5, -1}, Max: Point{6, 1}}
	u := a.Union(b)
	for _, p := range []Point{{0, 0}, {2, 2}, {5, -1}, {6, 1}, {3, 0}} {
		if !u.Contains(p) {
			t.Fatalf("union must contain %v", p)
		}
	}
	if u.Contains(Point{7, 0}) {
		t.Fatal("union must not stretch past operands")
	}
}

func TestBoundRectFromPoints(t *testing.T) {
	if r := BoundRectFromPoints(nil); !r.IsEmpty() {
		t.Fatal("no points must yield empty rect")
	}
	pts := []Point{{4, 4}, {1, 7}, {2, 2}}
	r := BoundRectFromPoints(pts)
	if r.Min != (Point{1, 2}) || r.Max != (Point{4, 7}) {
		t.Fatalf("bounding box = %+v", r)
	}
	for _, p := range pts {
		if !r.Contains(p) {
			t.Fatalf("bounding box must contain %v", p)
		}
	}
}

func TestCenterAndSize(t *testing.T) {
	r := BoundRect{Min: Point{2, 2}, Max: Point{5, 9}}
	if c := r.Center(); c != (Point{3, 5}) {
		t.Fatalf("center = %v", c)
	}
	if s := r.Size(); s.W != 4 || s.H != 8 {
		t.Fatalf("size = %v", s)
	}
}

func TestFloorDivMod(t *testing.T) {
	cases := []struct {
		a, b, div, mod int
	}{
		{0, 16, 0, 0},
		{15, 16, 0, 15},
		{16, 16, 1, 0},
		{-1, 16, -1, 15},
		{-16, 16, -1, 0},
		{-17, 16, -2, 15},
		{33, 16, 2, 1},
	}
	for _, c := range cases {
		if got := FloorDiv(c.a, c.b); got != c.div {
			t.Errorf("FloorDiv(%d,%d) = %d, want %d", c.a, c.b, got, c.div)
		}
		if got := FloorMod(c.a, c.b); got != c.mod {
			t.Errorf("FloorMod(%d,%d) = %d, want %d", c.a, c.b, got, c.mod)
		}
	}
}

func TestDirectionsLayout(t *testing.T) {
	// The 3x3 neighborhood indexing relies on row-major order with the
	// center at slot 4.
	if Directions[4] != (Point{0, 0}) {
		t.Fatalf("center slot = %v", Directions[4])
	}
	for i, d := range Directions {
		if got := (d.X + 1) + (d.Y+1)*3; got != i {
			t.Fatalf("direction %v maps to slot %d, stored at %d", d, got, i)
		}
	}
}
