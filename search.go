package multilinear

// A Bracket locates a coordinate on one axis. Index is the lower node of the
// covering cell. T0 and T1 are the unnormalized weights of the lower and
// upper node respectively.
type Bracket struct {
	Index int
	T0    float64
	T1    float64
}

// Search returns the bracket of z on axis k.
//
// Inside the axis range, T0 and T1 are the distances from z to the upper and
// lower node. Below the range the first cell is used with T0 set to the first
// coordinate and T1 zero. Above the range the last cell is used with T0 zero
// and T1 set to the last coordinate. The raw coordinate is used as the weight,
// so a boundary coordinate of zero yields a degenerate cell.
func (g *Grid) Search(k int, z float64) Bracket {
	axis := g.axes[k]
	a, b := 0, len(axis)-1
	ga, gb := axis[a], axis[b]

	switch {
	case z < ga:
		return Bracket{Index: 0, T0: ga, T1: 0}
	case z > gb:
		return Bracket{Index: b - 1, T0: 0, T1: gb}
	}

	// Binary search. An exact hit on an interior node selects it as the upper
	// edge of the bracket.
	for b > a+1 {
		c := a + (b-a)/2
		gc := axis[c]
		if z <= gc {
			b, gb = c, gc
		} else {
			a, ga = c, gc
		}
	}
	return Bracket{Index: a, T0: gb - z, T1: z - ga}
}
