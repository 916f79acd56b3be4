package reader

import (
	"fmt"
	"strings"

	"github.com/achilleasa/goray/scene"
)

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition.
	Read(res *resource) (*scene.Scene, error)
}

// Read scene from a local file or remote url. Wavefront obj files are
// parsed as text; .bvh files are treated as compiled scene archives.
func ReadScene(filename string) (*scene.Scene, error) {
	res, err := newResource(filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	var r Reader
	switch {
	case strings.HasSuffix(filename, ".obj"):
		r = newWavefrontReader()
	case strings.HasSuffix(filename, ".bvh"):
		r = newZipSceneReader()
	default:
		return nil, fmt.Errorf("reader: unsupported file format")
	}
	return r.Read(res)
}
