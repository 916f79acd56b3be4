package cmd

import (
	"fmt"
	"strings"

	"github.com/achilleasa/goray/scene/reader"
	"github.com/achilleasa/goray/scene/writer"
	"github.com/urfave/cli"
)

// Compile wavefront obj scenes to the binary .bvh archive format.
func CompileScene(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() == 0 {
		return fmt.Errorf("compile: no scene files specified")
	}

	for idx := 0; idx < ctx.NArg(); idx++ {
		sceneFile := ctx.Args().Get(idx)
		if !strings.HasSuffix(sceneFile, ".obj") {
			return fmt.Errorf("compile: unsupported file %s; expected a wavefront obj file", sceneFile)
		}

		sc, err := reader.ReadScene(sceneFile)
		if err != nil {
			logger.Error(err)
			return err
		}

		archiveFile := strings.Replace(sceneFile, ".obj", ".bvh", -1)
		if err = writer.WriteScene(sc, archiveFile); err != nil {
			logger.Error(err)
			return err
		}

		logger.Noticef("compiled %s to %s (%d meshes, %d spheres, %d primitives)",
			sceneFile, archiveFile, len(sc.Meshes), len(sc.Spheres), sc.PrimitiveCount())
	}

	return nil
}
