package pointcloud

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
)

// ReadXYZ reads a whitespace-separated ASCII ".xyz" point cloud (one point
// per line, "x y z" with any extra trailing columns ignored), grounded on
// original_source/rust/src/pointcloud.rs::read_from_xyz. Blank lines are
// skipped; a line with fewer than three numeric fields is a format error.
func ReadXYZ(path string) (*Cloud, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pointcloud: open %s: %w", path, err)
	}
	defer f.Close()

	points, err := parseXYZ(f)
	if err != nil {
		return nil, fmt.Errorf("pointcloud: parse %s: %w", path, err)
	}
	return NewCloud(points), nil
}

func parseXYZ(r io.Reader) ([]r3.Vector, error) {
	var points []r3.Vector
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("line %d: expected at least 3 fields, got %d", lineNo, len(fields))
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: x: %w", lineNo, err)
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: y: %w", lineNo, err)
		}
		z, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: z: %w", lineNo, err)
		}
		points = append(points, r3.Vector{X: x, Y: y, Z: z})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

// WriteXYZ writes a cloud's full (unselected) point array as whitespace
// separated ASCII ".xyz", grounded on pointcloud.rs::write_to_file.
func WriteXYZ(path string, c *Cloud) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pointcloud: create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, p := range c.Points() {
		if _, err := fmt.Fprintf(w, "%.6f %.6f %.6f\n", p.X, p.Y, p.Z); err != nil {
			return fmt.Errorf("pointcloud: write %s: %w", path, err)
		}
	}
	return w.Flush()
}
