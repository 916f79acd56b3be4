package writer

import (
	"archive/zip"
	"os"
	"time"

	"github.com/achilleasa/goray/log"
	"github.com/achilleasa/goray/scene"
)

const dataFile = "scene.bin"

type zipSceneWriter struct {
	logger    log.Logger
	sceneFile string
}

// Create a new compiled scene writer.
func newZipSceneWriter(sceneFile string) *zipSceneWriter {
	return &zipSceneWriter{
		logger:    log.New("zip writer"),
		sceneFile: sceneFile,
	}
}

// Write scene definition to a compiled scene archive.
func (w *zipSceneWriter) Write(sc *scene.Scene) error {
	w.logger.Infof("writing compressed scene to %s", w.sceneFile)
	start := time.Now()

	zipFile, err := os.Create(w.sceneFile)
	if err != nil {
		return err
	}
	defer zipFile.Close()

	zw := zip.NewWriter(zipFile)
	defer zw.Close()

	cw, err := zw.Create(dataFile)
	if err != nil {
		return err
	}
	if err = sc.Encode(cw); err != nil {
		return err
	}

	w.logger.Infof("compressed scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return nil
}

// Write a parsed scene to a compiled scene archive at the given path.
func WriteScene(sc *scene.Scene, sceneFile string) error {
	return newZipSceneWriter(sceneFile).Write(sc)
}
