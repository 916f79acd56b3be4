package reader

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/goray/log"
	"github.com/achilleasa/goray/scene"
	"github.com/achilleasa/goray/types"
)

// A mesh being accumulated by the reader. Vertices are deduplicated on
// (vertex index, normal index) pairs so shared corners are stored once.
type wavefrontObject struct {
	name      string
	verts     []scene.Vertex
	indices   []uint32
	vertIndex map[[2]int]uint32
}

func newWavefrontObject(name string) *wavefrontObject {
	return &wavefrontObject{
		name:      name,
		vertIndex: make(map[[2]int]uint32),
	}
}

type wavefrontReader struct {
	logger log.Logger

	// List of parsed vertices and normals. Indices are global to the
	// file while each object keeps a compacted local copy.
	vertexList []types.Vec3
	normalList []types.Vec3

	// The list of parsed objects and spheres.
	objects []*wavefrontObject
	spheres []scene.Sphere

	// An error stack that provides additional error information when
	// scene files include other files.
	errStack []string
}

// Create a new wavefront obj reader.
func newWavefrontReader() *wavefrontReader {
	return &wavefrontReader{
		logger: log.New("reader"),
	}
}

// Read scene definition from a wavefront obj resource.
func (r *wavefrontReader) Read(res *resource) (*scene.Scene, error) {
	r.logger.Infof("parsing scene from %s", res.Path())
	start := time.Now()

	if err := r.parse(res); err != nil {
		return nil, err
	}

	sc := &scene.Scene{Spheres: r.spheres}
	for _, obj := range r.objects {
		if len(obj.indices) == 0 {
			continue
		}
		sc.Meshes = append(sc.Meshes, scene.NewMesh(obj.name, obj.verts, obj.indices))
	}

	r.logger.Infof("parsed scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return sc, nil
}

// Generate an error message that also includes any data in the error stack.
func (r *wavefrontReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)

	var errMsg string
	if file != "" {
		errMsg = strings.Trim(
			fmt.Sprintf("[%s: %d] error: %s\n%s", file, line, msg, strings.Join(r.errStack, "\n")),
			"\n",
		)
	} else {
		errMsg = strings.Trim(
			fmt.Sprintf("error: %s\n%s", msg, strings.Join(r.errStack, "\n")),
			"\n",
		)
	}

	return fmt.Errorf("%s", errMsg)
}

// Push a frame to the error stack.
func (r *wavefrontReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// Pop a frame from the error stack.
func (r *wavefrontReader) popFrame() {
	r.errStack = r.errStack[1:]
}

// Get the object new face definitions should be appended to, creating a
// default one if the file defines faces before any 'o' or 'g' statement.
func (r *wavefrontReader) currentObject() *wavefrontObject {
	if len(r.objects) == 0 {
		r.objects = append(r.objects, newWavefrontObject("default"))
	}
	return r.objects[len(r.objects)-1]
}

// Parse wavefront object scene format. Unsupported keywords (materials,
// uv coords, smoothing groups) are skipped.
func (r *wavefrontReader) parse(res *resource) error {
	var lineNum int = 0

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 {
			continue
		}

		switch lineTokens[0] {
		case "#":
			continue
		case "call":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, "unsupported syntax for 'call'; expected 1 argument; got %d", len(lineTokens)-1)
			}

			r.pushFrame(fmt.Sprintf("referenced from %s:%d [call]", res.Path(), lineNum))

			incRes, err := newResource(lineTokens[1], res)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			defer incRes.Close()

			if err = r.parse(incRes); err != nil {
				return err
			}
			r.popFrame()
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.vertexList = append(r.vertexList, v)
		case "vn":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.normalList = append(r.normalList, v)
		case "g", "o":
			if len(lineTokens) < 2 {
				return r.emitError(res.Path(), lineNum, "unsupported syntax for '%s'; expected 1 argument for object name; got %d", lineTokens[0], len(lineTokens)-1)
			}
			r.objects = append(r.objects, newWavefrontObject(lineTokens[1]))
		case "f":
			if err := r.parseFace(lineTokens); err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		case "sphere":
			sphere, err := parseSphere(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.spheres = append(r.spheres, sphere)
		}
	}

	return nil
}

// Parse face definition. Each face definition consists of 3 arguments,
// one for each vertex. Each one of the vertex arguments is comprised of
// 1, 2 or 3 args separated by a slash character. The following formats are
// supported:
// - vertexIndex
// - vertexIndex/uvIndex
// - vertexIndex//normalIndex
// - vertexIndex/uvIndex/normalIndex
//
// Indices start from 1 and may be negative to indicate
// an offset off the end of the vertex list.
//
// This method only works with triangular faces and will return an error if a
// face with more than 3 vertices is encountered. Faces without normal
// indices get a flat normal computed from the face winding.
func (r *wavefrontReader) parseFace(lineTokens []string) error {
	if len(lineTokens) != 4 {
		return fmt.Errorf("unsupported syntax for 'f'; expected 3 arguments for triangular face; got %d. Select the triangulation option in your exporter", len(lineTokens)-1)
	}

	var vIndices, nIndices [3]int
	hasNormals := true
	for arg := 0; arg < 3; arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")

		// Faces must at least define a vertex coord
		if vTokens[0] == "" {
			return fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		vOffset, err := selectFaceCoordIndex(vTokens[0], len(r.vertexList))
		if err != nil {
			return fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}
		vIndices[arg] = vOffset

		// Parse normal index if specified
		if len(vTokens) == 3 && vTokens[2] != "" {
			nOffset, err := selectFaceCoordIndex(vTokens[2], len(r.normalList))
			if err != nil {
				return fmt.Errorf("could not parse normal coord for face argument %d: %s", arg, err.Error())
			}
			nIndices[arg] = nOffset
		} else {
			hasNormals = false
		}
	}

	obj := r.currentObject()

	if !hasNormals {
		// Flat-shade the face; each corner gets its own vertex since
		// the normal is per-face.
		v0 := r.vertexList[vIndices[0]]
		e1 := r.vertexList[vIndices[1]].Sub(v0)
		e2 := r.vertexList[vIndices[2]].Sub(v0)
		normal := e1.Cross(e2).Normalize()

		for arg := 0; arg < 3; arg++ {
			obj.indices = append(obj.indices, uint32(len(obj.verts)))
			obj.verts = append(obj.verts, scene.Vertex{
				Position: r.vertexList[vIndices[arg]],
				Normal:   normal,
			})
		}
		return nil
	}

	for arg := 0; arg < 3; arg++ {
		key := [2]int{vIndices[arg], nIndices[arg]}
		local, exists := obj.vertIndex[key]
		if !exists {
			local = uint32(len(obj.verts))
			obj.verts = append(obj.verts, scene.Vertex{
				Position: r.vertexList[vIndices[arg]],
				Normal:   r.normalList[nIndices[arg]],
			})
			obj.vertIndex[key] = local
		}
		obj.indices = append(obj.indices, local)
	}

	return nil
}

// Parse a face coord index and adjust it based on the coord list length.
// Indices start from 1 and may be negative to indicate an offset off the
// end of the coord list.
func selectFaceCoordIndex(indexToken string, listLen int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var offset int = 0
	if index < 0 {
		offset = listLen + int(index)
	} else {
		offset = int(index - 1)
	}

	if offset < 0 || offset >= listLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return offset, nil
}

// Parse sphere definition. This is a local extension to the wavefront
// format using the following syntax:
// sphere cX cY cZ radius
func parseSphere(lineTokens []string) (scene.Sphere, error) {
	if len(lineTokens) != 5 {
		return scene.Sphere{}, fmt.Errorf("unsupported syntax for 'sphere'; expected 4 arguments: cX cY cZ radius; got %d", len(lineTokens)-1)
	}

	var fields [4]float32
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(lineTokens[i+1], 32)
		if err != nil {
			return scene.Sphere{}, err
		}
		fields[i] = float32(v)
	}

	if fields[3] <= 0 {
		return scene.Sphere{}, fmt.Errorf("sphere radius must be positive; got %f", fields[3])
	}

	return scene.NewSphere(types.Vec3{fields[0], fields[1], fields[2]}, fields[3]), nil
}

// Parse a Vec3 from a line. The line tokens also include the keyword that
// triggered the parse so 4 tokens are expected in total.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf("unsupported syntax for '%s'; expected 3 arguments; got %d", lineTokens[0], len(lineTokens)-1)
	}

	var out types.Vec3
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(lineTokens[i+1], 32)
		if err != nil {
			return types.Vec3{}, err
		}
		out[i] = float32(v)
	}
	return out, nil
}
