package pointcloud

import (
	"fmt"

	"github.com/edaniels/lidario"
	"github.com/golang/geo/r3"
)

// ReadLAS reads a LIDAR ".las" file into a Cloud (SPEC_FULL.md §7), using
// github.com/edaniels/lidario — the same library the teacher's go.mod
// carries for LAS ingestion. Only point coordinates are extracted; LAS's
// per-point intensity/classification/color fields have no counterpart in
// this package's Cloud and are dropped, per spec.md's color/intensity
// Non-goal.
func ReadLAS(path string) (*Cloud, error) {
	lf, err := lidario.NewLasFile(path, "r")
	if err != nil {
		return nil, fmt.Errorf("pointcloud: open LAS %s: %w", path, err)
	}
	defer lf.Close()

	n := lf.Header.NumberPoints
	points := make([]r3.Vector, 0, n)
	for i := 0; i < n; i++ {
		p, err := lf.LasPoint(i)
		if err != nil {
			return nil, fmt.Errorf("pointcloud: read LAS point %d of %s: %w", i, path, err)
		}
		d := p.PointData()
		points = append(points, r3.Vector{X: d.X, Y: d.Y, Z: d.Z})
	}
	return NewCloud(points), nil
}
