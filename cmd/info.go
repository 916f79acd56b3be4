package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/achilleasa/goray/scene"
	"github.com/achilleasa/goray/scene/reader"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Print acceleration structure statistics for a scene.
func SceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return fmt.Errorf("info: expected a single scene file argument")
	}

	sc, err := reader.ReadScene(ctx.Args().First())
	if err != nil {
		logger.Error(err)
		return err
	}

	accel := sc.Accelerate()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Tree", "Primitives", "Nodes", "Leafs", "Max leaf", "Max depth", "Root area"})

	for _, mesh := range sc.Meshes {
		appendStatsRow(table, mesh.Name(), mesh.Stats(), mesh.BBox())
	}
	appendStatsRow(table, "<scene>", accel.Stats(), accel.BBox())

	table.Render()
	return nil
}

func appendStatsRow(table *tablewriter.Table, name string, stats scene.TreeStats, bounds scene.BBox) {
	table.Append([]string{
		name,
		strconv.Itoa(stats.Primitives),
		strconv.Itoa(stats.Nodes),
		strconv.Itoa(stats.Leafs),
		strconv.Itoa(stats.MaxLeaf),
		strconv.Itoa(stats.MaxDepth),
		fmt.Sprintf("%.3f", bounds.SurfaceArea()),
	})
}
