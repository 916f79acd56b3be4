package main

import (
	"os"

	"github.com/achilleasa/goray/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "goray"
	app.Usage = "build and query ray intersection acceleration structures"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "compile",
			Usage: "compile text scene representation into a binary compressed format",
			Description: `
Parse a scene definition from a wavefront obj file, build a BVH tree to optimize
ray intersection tests and package the scene geometry into a compressed archive.

The compiled scene can be supplied as an argument to the info and trace commands.`,
			ArgsUsage: "scene_file1.obj scene_file2.obj ...",
			Action:    cmd.CompileScene,
		},
		{
			Name:      "info",
			Usage:     "print acceleration structure statistics for a scene",
			ArgsUsage: "scene_file.obj|scene_file.bvh",
			Action:    cmd.SceneInfo,
		},
		{
			Name:      "trace",
			Usage:     "cast rays at a scene and report intersections",
			ArgsUsage: "scene_file.obj|scene_file.bvh",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "from",
					Value: "0,0,5",
					Usage: "probe ray origin as x,y,z",
				},
				cli.StringFlag{
					Name:  "dir",
					Value: "0,0,-1",
					Usage: "probe ray direction as x,y,z",
				},
				cli.IntFlag{
					Name:  "grid",
					Value: 0,
					Usage: "cast an NxN orthographic ray grid instead of a single probe ray",
				},
				cli.IntFlag{
					Name:  "workers",
					Value: 1,
					Usage: "number of parallel tracers for grid tracing",
				},
			},
			Action: cmd.TraceScene,
		},
	}

	app.Run(os.Args)
}
