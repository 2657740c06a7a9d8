// Package raster walks integer lines across 2-D grids.
package raster

import "fmt"

// Point is a grid coordinate.
type Point struct {
	X, Y int
}

// Line returns the cells of the Bresenham line from (x0,y0) to (x1,y1),
// both endpoints included, in traversal order.
func Line(x0, y0, x1, y1 int) []Point {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	pts := make([]Point, 0, max(dx, dy)+1)
	e := dx - dy
	x, y := x0, y0
	for {
		pts = append(pts, Point{X: x, Y: y})
		if x == x1 && y == y1 {
			return pts
		}
		e2 := 2 * e
		if e2 > -dy {
			e -= dy
			x += sx
		}
		if e2 < dx {
			e += dx
			y += sy
		}
	}
}

// Cells returns the grid elements along the line from grid[x0][y0] to
// grid[x1][y1]. Both endpoints must lie inside the grid.
func Cells[T any](grid [][]T, x0, y0, x1, y1 int) []T {
	checkBounds(grid, x0, y0)
	checkBounds(grid, x1, y1)
	pts := Line(x0, y0, x1, y1)
	out := make([]T, len(pts))
	for i, p := range pts {
		out[i] = grid[p.X][p.Y]
	}
	return out
}

func checkBounds[T any](grid [][]T, x, y int) {
	if x < 0 || x >= len(grid) || y < 0 || y >= len(grid[x]) {
		panic(fmt.Sprintf("raster: point (%d,%d) outside grid", x, y))
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
