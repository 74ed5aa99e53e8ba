package authoring

// Standard 8-ball table dimensions, in design units.
const (
	AdjustmentScale = 2.3
	PocketRadius    = 2250.0

	// Table geometry base unit, 1380
	N = 600 * AdjustmentScale
)

// StandardTableName is the name the standard layout is stored under.
const StandardTableName = "standard-8ball"

// StandardTable returns the authoring record for the standard 8-ball table.
// Borders are the four cushion noses, clockwise from the top rail. Each
// pocket rim runs jaw to jaw through the back of the pocket.
func StandardTable() *TableRecord {
	n := N
	pr := PocketRadius

	pt := func(x, y float64) Point { return Point{X: x, Y: y} }

	t := &TableRecord{
		Name: StandardTableName,
		Borders: [4]SegmentPair{
			{Start: pt(-46*n, -25*n), End: pt(46*n, -25*n)}, // top
			{Start: pt(50*n, -21*n), End: pt(50*n, 21*n)},   // right
			{Start: pt(46*n, 25*n), End: pt(-46*n, 25*n)},   // bottom
			{Start: pt(-50*n, 21*n), End: pt(-50*n, -21*n)}, // left
		},
	}

	pockets := []struct {
		center     Point
		jawA, jawB Point
		back       Point
	}{
		// Top-left, top-center, top-right
		{pt(-50*n-pr/2, -25*n-pr/4), pt(-54*n, -25*n), pt(-50*n, -29*n), pt(-51*n-pr/2, -26*n-pr/4)},
		{pt(0, -25*n-pr), pt(-2*n, -29*n), pt(2*n, -29*n), pt(0, -25.5*n-pr)},
		{pt(50*n+pr/2, -25*n-pr/4), pt(50*n, -29*n), pt(54*n, -25*n), pt(51*n+pr/2, -26*n-pr/4)},
		// Bottom-left, bottom-center, bottom-right
		{pt(-50*n-pr/2, 25*n+pr/4), pt(-50*n, 29*n), pt(-54*n, 25*n), pt(-51*n-pr/2, 26*n+pr/4)},
		{pt(0, 25*n+pr), pt(2*n, 29*n), pt(-2*n, 29*n), pt(0, 25.5*n+pr)},
		{pt(50*n+pr/2, 25*n+pr/4), pt(54*n, 25*n), pt(50*n, 29*n), pt(51*n+pr/2, 26*n+pr/4)},
	}

	t.Pockets = make([]PocketRecord, len(pockets))
	for i, p := range pockets {
		t.Pockets[i] = PocketRecord{
			Center: p.center,
			Radius: pr,
			Rim: []SegmentRecord{{
				Start:  p.jawA,
				End:    p.jawB,
				Points: []Point{p.back},
			}},
		}
	}
	return t
}
