// pkg/asset/obj.go
package asset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/opd-ai/go-skyflag/pkg/logging"
)

// ErrMalformed is wrapped by every decoding error.
var ErrMalformed = errors.New("malformed wavefront data")

// MTLResolver opens a material library referenced by an mtllib statement.
type MTLResolver func(name string) (io.ReadCloser, error)

// DirResolver resolves material libraries relative to dir.
func DirResolver(dir string) MTLResolver {
	return func(name string) (io.ReadCloser, error) {
		return os.Open(filepath.Join(dir, name))
	}
}

type faceIndex struct {
	v, vt, vn int // -1 when absent
}

// Decoder decodes Wavefront OBJ files with their MTL libraries into models.
// Every "o" statement starts a new model; faces before the first one belong
// to a model named after the file.
type Decoder struct {
	Warnings []string

	resolve   MTLResolver
	positions []mgl32.Vec3
	normals   []mgl32.Vec3
	uvs       []mgl32.Vec2
	library   map[string]Material
	models    []*Model
	current   *Model
	cache     map[faceIndex]uint32
	unnormal  map[uint32]bool // vertices that need a computed normal
	material  string
	name      string
	kind      string
	line      int
}

// NewDecoder creates a decoder. resolve may be nil, in which case mtllib
// statements only produce a warning.
func NewDecoder(name string, resolve MTLResolver) *Decoder {
	return &Decoder{
		resolve: resolve,
		library: make(map[string]Material),
		name:    name,
	}
}

// DecodeOBJ decodes all models of an OBJ stream.
func DecodeOBJ(r io.Reader, resolve MTLResolver) ([]Model, []string, error) {
	dec := NewDecoder("default", resolve)
	models, err := dec.Decode(r)
	return models, dec.Warnings, err
}

// LoadOBJ reads an OBJ file and the material libraries next to it.
func LoadOBJ(path string) ([]Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	dec := NewDecoder(name, DirResolver(filepath.Dir(path)))
	models, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if len(dec.Warnings) > 0 {
		logger := logging.NewLogger()
		for _, w := range dec.Warnings {
			logger.Warn(logging.Background(), "OBJ decoder warning", "path", path, "warning", w)
		}
	}
	return models, nil
}

// LoadVertices returns the vertices of an OBJ file that holds exactly one
// model, in index order.
func LoadVertices(path string) ([]Vertex, error) {
	models, err := LoadOBJ(path)
	if err != nil {
		return nil, err
	}
	if len(models) != 1 {
		return nil, fmt.Errorf("%s: expected 1 model, found %d", path, len(models))
	}
	return models[0].Vertices, nil
}

// Decode reads r to the end and returns the decoded models.
func (dec *Decoder) Decode(r io.Reader) ([]Model, error) {
	dec.kind = "obj"
	if err := dec.parse(r, dec.objLine); err != nil {
		return nil, err
	}
	dec.finishModel()

	out := make([]Model, 0, len(dec.models))
	for _, m := range dec.models {
		for i := range m.Materials {
			mat := &m.Materials[i]
			lib, ok := dec.library[mat.Name]
			if !ok {
				if mat.Name != "" {
					dec.warn("material %q of %q not found, using default", mat.Name, m.Name)
				}
				mat.Diffuse = defaultDiffuse
				continue
			}
			mat.Diffuse = lib.Diffuse
			mat.Emission = lib.Emission
		}
		out = append(out, *m)
	}
	return out, nil
}

func (dec *Decoder) parse(r io.Reader, parseLine func(keyword string, fields []string) error) error {
	sc := bufio.NewScanner(r)
	dec.line = 0
	for sc.Scan() {
		dec.line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] == '#' {
			continue
		}
		fields := strings.Fields(text)
		if err := parseLine(fields[0], fields[1:]); err != nil {
			return fmt.Errorf("%s line %d: %w", dec.kind, dec.line, err)
		}
	}
	return sc.Err()
}

func (dec *Decoder) objLine(keyword string, fields []string) error {
	switch keyword {
	case "o":
		dec.finishModel()
		dec.startModel(strings.Join(fields, " "))
	case "v":
		v, err := parseVec3(fields)
		if err != nil {
			return err
		}
		dec.positions = append(dec.positions, v)
	case "vn":
		v, err := parseVec3(fields)
		if err != nil {
			return err
		}
		dec.normals = append(dec.normals, v)
	case "vt":
		v, err := parseFloats(fields, 2)
		if err != nil {
			return err
		}
		dec.uvs = append(dec.uvs, mgl32.Vec2{v[0], v[1]})
	case "f":
		return dec.face(fields)
	case "usemtl":
		if len(fields) == 0 {
			return fmt.Errorf("%w: usemtl without name", ErrMalformed)
		}
		dec.material = fields[0]
		if dec.current != nil {
			dec.switchMaterial()
		}
	case "mtllib":
		for _, name := range fields {
			if err := dec.loadLibrary(name); err != nil {
				dec.warn("material library %s: %v", name, err)
			}
		}
	case "s", "g":
	default:
		dec.warn("unsupported statement %q", keyword)
	}
	return nil
}

func (dec *Decoder) mtlLine(keyword string, fields []string) error {
	switch keyword {
	case "newmtl":
		if len(fields) == 0 {
			return fmt.Errorf("%w: newmtl without name", ErrMalformed)
		}
		dec.material = fields[0]
		dec.library[dec.material] = Material{Name: dec.material, Diffuse: defaultDiffuse}
	case "Kd", "Ke":
		mat, ok := dec.library[dec.material]
		if !ok {
			return fmt.Errorf("%w: %s before newmtl", ErrMalformed, keyword)
		}
		c, err := parseVec3(fields)
		if err != nil {
			return err
		}
		if keyword == "Kd" {
			mat.Diffuse = c
		} else {
			mat.Emission = c
		}
		dec.library[dec.material] = mat
	case "Ka", "Ks", "Ns", "Ni", "d", "Tr", "Tf", "illum", "map_Kd":
	default:
		dec.warn("unsupported material statement %q", keyword)
	}
	return nil
}

func (dec *Decoder) loadLibrary(name string) error {
	if dec.resolve == nil {
		return errors.New("no resolver")
	}
	rc, err := dec.resolve(name)
	if err != nil {
		return err
	}
	defer rc.Close()

	// Material state is per file; restore the OBJ cursor afterwards.
	line, kind, material := dec.line, dec.kind, dec.material
	dec.kind = "mtl"
	err = dec.parse(rc, dec.mtlLine)
	dec.line, dec.kind, dec.material = line, kind, material
	return err
}

func (dec *Decoder) startModel(name string) {
	dec.current = &Model{Name: name}
	dec.cache = make(map[faceIndex]uint32)
	dec.unnormal = make(map[uint32]bool)
	dec.switchMaterial()
}

func (dec *Decoder) switchMaterial() {
	m := dec.current
	if n := len(m.Materials); n > 0 {
		last := &m.Materials[n-1]
		last.IndexCount = len(m.Indices) - last.IndexOffset
		if last.IndexCount == 0 {
			m.Materials = m.Materials[:n-1]
		}
	}
	m.Materials = append(m.Materials, Material{Name: dec.material, IndexOffset: len(m.Indices)})
}

func (dec *Decoder) finishModel() {
	m := dec.current
	if m == nil {
		return
	}
	dec.current = nil
	if n := len(m.Materials); n > 0 {
		last := &m.Materials[n-1]
		last.IndexCount = len(m.Indices) - last.IndexOffset
		if last.IndexCount == 0 {
			m.Materials = m.Materials[:n-1]
		}
	}
	if len(m.Indices) == 0 {
		dec.warn("object %q has no faces", m.Name)
		return
	}
	for i := range m.Vertices {
		if dec.unnormal[uint32(i)] && m.Vertices[i].Normal.Len() > 0 {
			m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
		}
	}
	dec.models = append(dec.models, m)
}

func (dec *Decoder) face(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("%w: face with %d vertices", ErrMalformed, len(fields))
	}
	if dec.current == nil {
		dec.startModel(dec.name)
	}

	idx := make([]uint32, len(fields))
	for i, f := range fields {
		fi, err := dec.parseFaceIndex(f)
		if err != nil {
			return err
		}
		idx[i] = dec.vertex(fi)
	}

	m := dec.current
	for i := 2; i < len(idx); i++ {
		a, b, c := idx[0], idx[i-1], idx[i]
		m.Indices = append(m.Indices, a, b, c)

		pa, pb, pc := m.Vertices[a].Position, m.Vertices[b].Position, m.Vertices[c].Position
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		for _, v := range [3]uint32{a, b, c} {
			if dec.unnormal[v] {
				m.Vertices[v].Normal = m.Vertices[v].Normal.Add(n)
			}
		}
	}
	return nil
}

func (dec *Decoder) vertex(fi faceIndex) uint32 {
	m := dec.current
	if i, ok := dec.cache[fi]; ok {
		return i
	}
	v := Vertex{Position: dec.positions[fi.v]}
	if fi.vt >= 0 {
		v.UV = dec.uvs[fi.vt]
	}
	i := uint32(len(m.Vertices))
	if fi.vn >= 0 {
		v.Normal = dec.normals[fi.vn]
	} else {
		dec.unnormal[i] = true
	}
	m.Vertices = append(m.Vertices, v)
	dec.cache[fi] = i
	return i
}

// parseFaceIndex parses v, v/t, v//n and v/t/n references. Negative
// references count back from the last element read.
func (dec *Decoder) parseFaceIndex(s string) (faceIndex, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return faceIndex{}, fmt.Errorf("%w: face index %q", ErrMalformed, s)
	}
	fi := faceIndex{v: -1, vt: -1, vn: -1}
	counts := [3]int{len(dec.positions), len(dec.uvs), len(dec.normals)}
	targets := [3]*int{&fi.v, &fi.vt, &fi.vn}
	for i, p := range parts {
		if p == "" {
			if i == 0 {
				return faceIndex{}, fmt.Errorf("%w: face index %q has no position", ErrMalformed, s)
			}
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return faceIndex{}, fmt.Errorf("%w: face index %q: %v", ErrMalformed, s, err)
		}
		switch {
		case n > 0:
			n--
		case n < 0:
			n += counts[i]
		default:
			return faceIndex{}, fmt.Errorf("%w: zero face index in %q", ErrMalformed, s)
		}
		if n < 0 || n >= counts[i] {
			return faceIndex{}, fmt.Errorf("%w: face index %q out of range", ErrMalformed, s)
		}
		*targets[i] = n
	}
	return fi, nil
}

func (dec *Decoder) warn(format string, args ...any) {
	dec.Warnings = append(dec.Warnings, fmt.Sprintf("%s line %d: ", dec.kind, dec.line)+fmt.Sprintf(format, args...))
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("%w: need %d values, got %d", ErrMalformed, n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		out[i] = float32(f)
	}
	return out, nil
}

func parseVec3(fields []string) (mgl32.Vec3, error) {
	f, err := parseFloats(fields, 3)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	return mgl32.Vec3{f[0], f[1], f[2]}, nil
}
