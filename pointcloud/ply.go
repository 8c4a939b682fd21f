package pointcloud

import (
	"bufio"
	"fmt"
	"os"

	"github.com/chenzhekl/goply"
	"github.com/golang/geo/r3"
)

// ReadPLY reads a mesh/point-cloud ".ply" file's vertex positions into a
// Cloud (SPEC_FULL.md §7), using github.com/chenzhekl/goply — a teacher
// go.mod dependency with no other home in this narrower spec. Only the
// "vertex" element's x/y/z properties are used; faces and any other
// elements are ignored.
func ReadPLY(path string) (*Cloud, error) {
	doc, err := goply.New(path)
	if err != nil {
		return nil, fmt.Errorf("pointcloud: open PLY %s: %w", path, err)
	}

	xs := doc.Elements("vertex")["x"]
	ys := doc.Elements("vertex")["y"]
	zs := doc.Elements("vertex")["z"]
	if len(xs) != len(ys) || len(ys) != len(zs) {
		return nil, fmt.Errorf("pointcloud: PLY %s: mismatched vertex property lengths", path)
	}

	points := make([]r3.Vector, len(xs))
	for i := range xs {
		points[i] = r3.Vector{
			X: toFloat64(xs[i]),
			Y: toFloat64(ys[i]),
			Z: toFloat64(zs[i]),
		}
	}
	return NewCloud(points), nil
}

func toFloat64(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	default:
		return 0
	}
}

// WritePLY writes a cloud's full (unselected) point array as an ASCII PLY
// file with a single "vertex" element (x, y, z float properties), so a
// registration result can be dropped straight into a mesh-viewing tool.
// goply is a reader only (no PLY-writing surface to delegate to, per
// DESIGN.md's standard-library justifications), so this writer is a direct
// bufio.Writer format emission rather than a library call.
func WritePLY(path string, c *Cloud) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pointcloud: create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	points := c.Points()
	fmt.Fprintf(w, "ply\nformat ascii 1.0\n")
	fmt.Fprintf(w, "element vertex %d\n", len(points))
	fmt.Fprintf(w, "property float x\nproperty float y\nproperty float z\n")
	fmt.Fprintf(w, "end_header\n")
	for _, p := range points {
		if _, err := fmt.Fprintf(w, "%.6f %.6f %.6f\n", p.X, p.Y, p.Z); err != nil {
			return fmt.Errorf("pointcloud: write %s: %w", path, err)
		}
	}
	return w.Flush()
}
