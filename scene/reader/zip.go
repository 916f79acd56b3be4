package reader

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/achilleasa/goray/log"
	"github.com/achilleasa/goray/scene"
)

const dataFile = "scene.bin"

var errMissingSceneData = fmt.Errorf("zipSceneReader: archive does not contain %s", dataFile)

type zipSceneReader struct {
	logger log.Logger
}

// Create a new compiled scene reader.
func newZipSceneReader() *zipSceneReader {
	return &zipSceneReader{
		logger: log.New("zip reader"),
	}
}

// Read scene definition from a compiled scene archive. The per-mesh
// acceleration trees are rebuilt while decoding since the archive only
// stores geometry.
func (p *zipSceneReader) Read(sceneRes *resource) (*scene.Scene, error) {
	p.logger.Infof(`parsing compiled scene from "%s"`, sceneRes.Path())
	start := time.Now()

	// zip package requires a reader implementing ReaderAt. To work around
	// this requirement we read the entire archive into memory and create
	// a reader from the bytes package that implements ReaderAt
	data, err := io.ReadAll(sceneRes)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	var sc *scene.Scene
	for _, f := range zr.File {
		if f.Name != dataFile {
			p.logger.Warningf("unknown file %s in scene archive; skipping", f.Name)
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		sc, err = scene.Decode(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
	}

	if sc == nil {
		return nil, errMissingSceneData
	}

	p.logger.Infof("loaded scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return sc, nil
}
