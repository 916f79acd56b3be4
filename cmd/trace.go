package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/goray/scene"
	"github.com/achilleasa/goray/scene/reader"
	"github.com/achilleasa/goray/tracer"
	"github.com/achilleasa/goray/types"
	"github.com/urfave/cli"
)

// Cast rays at a scene and report the nearest intersections. Without the
// grid flag a single probe ray is cast and its trace printed; with it an
// orthographic grid of parallel rays covering the scene bounds is traced
// through the pool and summarized.
func TraceScene(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return fmt.Errorf("trace: expected a single scene file argument")
	}

	sc, err := reader.ReadScene(ctx.Args().First())
	if err != nil {
		logger.Error(err)
		return err
	}
	accel := sc.Accelerate()

	if grid := ctx.Int("grid"); grid > 0 {
		return traceGrid(accel, grid, ctx.Int("workers"))
	}
	return traceProbe(accel, ctx.String("from"), ctx.String("dir"))
}

// Cast a single ray and print the resulting trace.
func traceProbe(accel *scene.BVH, fromArg, dirArg string) error {
	from, err := parseVec3Flag(fromArg)
	if err != nil {
		return fmt.Errorf("trace: invalid --from value: %s", err.Error())
	}
	dir, err := parseVec3Flag(dirArg)
	if err != nil {
		return fmt.Errorf("trace: invalid --dir value: %s", err.Error())
	}

	ray := scene.NewRay(from, dir)
	res := accel.Hit(&ray)
	if !res.Hit {
		logger.Noticef("ray %v -> %v: no intersection", from, dir)
		return nil
	}

	logger.Noticef("ray %v -> %v: hit at distance %.4f, position %v, normal %v",
		from, dir, res.Distance, res.Position, res.Normal)
	return nil
}

// Cast a grid x grid batch of parallel rays down the -Z axis covering the
// scene bounds and summarize the hits.
func traceGrid(accel *scene.BVH, grid, workers int) error {
	bounds := accel.BBox()
	if !bounds.Valid() {
		return fmt.Errorf("trace: scene contains no primitives")
	}

	rays := make([]scene.Ray, 0, grid*grid)
	side := bounds.Max.Sub(bounds.Min)
	for y := 0; y < grid; y++ {
		for x := 0; x < grid; x++ {
			origin := types.Vec3{
				bounds.Min[0] + side[0]*(float32(x)+0.5)/float32(grid),
				bounds.Min[1] + side[1]*(float32(y)+0.5)/float32(grid),
				bounds.Max[2] + 1.0,
			}
			rays = append(rays, scene.NewRay(origin, types.Vec3{0, 0, -1}))
		}
	}
	traces := make([]scene.Trace, len(rays))

	pool := tracer.NewPool(workers, accel)
	start := time.Now()
	pool.Trace(rays, traces)
	elapsed := time.Since(start)

	hits := 0
	minDist, maxDist := float32(0), float32(0)
	for _, res := range traces {
		if !res.Hit {
			continue
		}
		if hits == 0 || res.Distance < minDist {
			minDist = res.Distance
		}
		if hits == 0 || res.Distance > maxDist {
			maxDist = res.Distance
		}
		hits++
	}

	logger.Noticef("traced %d rays in %d ms (%.0f rays/sec): %d hits",
		len(rays), elapsed.Nanoseconds()/1e6,
		float64(len(rays))/elapsed.Seconds(), hits)
	if hits > 0 {
		logger.Noticef("hit distance range [%.4f, %.4f]", minDist, maxDist)
	}
	return nil
}

// Parse a comma-separated vector flag value into a Vec3.
func parseVec3Flag(arg string) (types.Vec3, error) {
	fields := strings.Split(arg, ",")
	if len(fields) != 3 {
		return types.Vec3{}, fmt.Errorf("expected 3 comma-separated components; got %d", len(fields))
	}

	var vals [3]float32
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 32)
		if err != nil {
			return types.Vec3{}, err
		}
		vals[i] = float32(v)
	}
	return types.XYZ(vals[0], vals[1], vals[2]), nil
}
