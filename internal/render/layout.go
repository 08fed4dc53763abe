package render

import (
	"math"
	"math/rand"

	"github.com/xkilldash9x/heronet/api/schemas"
)

// Point is a node position in layout space, where both coordinates fall in
// [-1, 1] once the layout is rescaled.
type Point struct {
	X, Y float64
}

// SpringLayout places nodes with the Fruchterman-Reingold force model.
// Positions start from a seeded random draw, so the same seed, nodes and
// edges always yield the same layout. Edges touching unknown nodes are ignored.
func SpringLayout(nodes []int64, edges []schemas.Link, seed int64, iterations int) map[int64]Point {
	n := len(nodes)
	layout := make(map[int64]Point, n)
	switch n {
	case 0:
		return layout
	case 1:
		layout[nodes[0]] = Point{}
		return layout
	}

	index := make(map[int64]int, n)
	for i, id := range nodes {
		index[id] = i
	}
	adjacent := make([][]bool, n)
	for i := range adjacent {
		adjacent[i] = make([]bool, n)
	}
	for _, e := range edges {
		a, okA := index[e.Source]
		b, okB := index[e.Target]
		if !okA || !okB || a == b {
			continue
		}
		adjacent[a][b], adjacent[b][a] = true, true
	}

	rng := rand.New(rand.NewSource(seed))
	pos := make([]Point, n)
	for i := range pos {
		pos[i] = Point{X: rng.Float64(), Y: rng.Float64()}
	}

	k := math.Sqrt(1.0 / float64(n))
	temperature := 0.1 * spread(pos)
	cooling := temperature / float64(iterations+1)

	disp := make([]Point, n)
	for iter := 0; iter < iterations; iter++ {
		for i := range disp {
			disp[i] = Point{}
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				dx, dy := pos[i].X-pos[j].X, pos[i].Y-pos[j].Y
				dist := math.Max(math.Hypot(dx, dy), 0.01)
				force := k * k / (dist * dist)
				if adjacent[i][j] {
					force -= dist / k
				}
				disp[i].X += dx * force
				disp[i].Y += dy * force
			}
		}
		for i := range pos {
			length := math.Max(math.Hypot(disp[i].X, disp[i].Y), 0.01)
			pos[i].X += disp[i].X * temperature / length
			pos[i].Y += disp[i].Y * temperature / length
		}
		temperature -= cooling
	}

	rescale(pos)
	for i, id := range nodes {
		layout[id] = pos[i]
	}
	return layout
}

// spread returns the widest coordinate range across both axes.
func spread(pos []Point) float64 {
	minX, maxX := pos[0].X, pos[0].X
	minY, maxY := pos[0].Y, pos[0].Y
	for _, p := range pos[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return math.Max(maxX-minX, maxY-minY)
}

// rescale centres the positions on the origin and scales them so the largest
// absolute coordinate is 1.
func rescale(pos []Point) {
	var cx, cy float64
	for _, p := range pos {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(len(pos))
	cy /= float64(len(pos))

	var limit float64
	for i := range pos {
		pos[i].X -= cx
		pos[i].Y -= cy
		limit = math.Max(limit, math.Max(math.Abs(pos[i].X), math.Abs(pos[i].Y)))
	}
	if limit == 0 {
		return
	}
	for i := range pos {
		pos[i].X /= limit
		pos[i].Y /= limit
	}
}
