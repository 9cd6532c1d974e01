package geometry

import "fmt"

// ElementIndex is the logical address of one transducer element.
type ElementIndex struct {
	Group int // 0..Groups()-1
	Local int // 0..GroupSize()-1
}

func (e ElementIndex) String() string {
	return fmt.Sprintf("g%02d:e%02d", e.Group, e.Local)
}

// Layout describes how groups and elements sit on the face of the array.
// Groups are numbered row-major over (x-group, y-group) and elements
// row-major over (x-element, y-element) inside their group.
type Layout struct {
	XGroups    int     // groups along X
	YGroups    int     // groups along Y
	XElems     int     // elements per group along X
	YElems     int     // elements per group along Y
	Pitch      float64 // element pitch in meters
	GroupPitch float64 // group pitch in meters
}

// DefaultLayout is the 1024-element catheter array: 4×16 groups of 4×4
// elements at 180 µm pitch.
func DefaultLayout() Layout {
	return Layout{
		XGroups:    4,
		YGroups:    16,
		XElems:     4,
		YElems:     4,
		Pitch:      180e-6,
		GroupPitch: 720e-6,
	}
}

// Groups returns the number of groups on the array.
func (l Layout) Groups() int { return l.XGroups * l.YGroups }

// GroupSize returns the number of elements per group.
func (l Layout) GroupSize() int { return l.XElems * l.YElems }

// Elements returns the total number of elements.
func (l Layout) Elements() int { return l.Groups() * l.GroupSize() }

// Columns returns the number of element columns along X.
func (l Layout) Columns() int { return l.XGroups * l.XElems }

// Rows returns the number of element rows along Y.
func (l Layout) Rows() int { return l.YGroups * l.YElems }

// Index returns the flat element index (group-major) used by delay fields.
func (l Layout) Index(e ElementIndex) int {
	return e.Group*l.GroupSize() + e.Local
}

// Element is the inverse of Index.
func (l Layout) Element(i int) ElementIndex {
	n := l.GroupSize()
	return ElementIndex{Group: i / n, Local: i % n}
}

// GroupCoords returns the (x, y) group coordinates of group g.
func (l Layout) GroupCoords(g int) (gx, gy int) {
	return g % l.XGroups, g / l.XGroups
}

// LocalCoords returns the (x, y) in-group coordinates of local element e.
func (l Layout) LocalCoords(e int) (ex, ey int) {
	return e % l.XElems, e / l.XElems
}

// Cell returns the element's (column, row) on the full element grid.
func (l Layout) Cell(e ElementIndex) (col, row int) {
	gx, gy := l.GroupCoords(e.Group)
	ex, ey := l.LocalCoords(e.Local)
	return gx*l.XElems + ex, gy*l.YElems + ey
}

// GroupOffset returns the group's centre offset from the array centre in
// group-pitch units.
func (l Layout) GroupOffset(g int) (x, y float64) {
	gx, gy := l.GroupCoords(g)
	return float64(gx) - float64(l.XGroups-1)/2, float64(gy) - float64(l.YGroups-1)/2
}

// LocalOffset returns the element's offset from its group centre in
// element-pitch units.
func (l Layout) LocalOffset(e int) (x, y float64) {
	ex, ey := l.LocalCoords(e)
	return float64(ex) - float64(l.XElems-1)/2, float64(ey) - float64(l.YElems-1)/2
}

// GroupCentre returns the physical position of a group's centre.
func (l Layout) GroupCentre(g int) RectPoint {
	x, y := l.GroupOffset(g)
	return RectPoint{X: x * l.GroupPitch, Y: y * l.GroupPitch}
}

// Position returns the physical position of element e, with the array
// centred on the origin.
func (l Layout) Position(e ElementIndex) RectPoint {
	gx, gy := l.GroupOffset(e.Group)
	ex, ey := l.LocalOffset(e.Local)
	return RectPoint{
		X: gx*l.GroupPitch + ex*l.Pitch,
		Y: gy*l.GroupPitch + ey*l.Pitch,
	}
}

// Mirror returns the element that sits at the position point-reflected
// through the array centre.
func (l Layout) Mirror(e ElementIndex) ElementIndex {
	gx, gy := l.GroupCoords(e.Group)
	ex, ey := l.LocalCoords(e.Local)
	gx, gy = l.XGroups-1-gx, l.YGroups-1-gy
	ex, ey = l.XElems-1-ex, l.YElems-1-ey
	return ElementIndex{
		Group: gy*l.XGroups + gx,
		Local: ey*l.XElems + ex,
	}
}
