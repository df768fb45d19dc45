package graphstore

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/easel/errors"
)

// Format identifies a document serialization format.
type Format int

const (
	// FormatJSON is the canonical document format.
	FormatJSON Format = iota
	// FormatYAML round-trips the same fields as JSON.
	FormatYAML
	// FormatDOT is a Graphviz export; it cannot be loaded back.
	FormatDOT
)

// String returns the conventional lowercase name of the format.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatDOT:
		return "dot"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// FormatForPath maps a file extension onto a Format.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".dot", ".gv":
		return FormatDOT, nil
	default:
		return 0, errors.Wrapf(errors.ErrUnsupportedFormat, "extension %q", filepath.Ext(path))
	}
}

// Positions persist as scalar x and y per vertex; the in-memory position
// map is reconstituted from them on load.
type vertexRecord struct {
	ID    string  `json:"id" yaml:"id"`
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
	Label string  `json:"label,omitempty" yaml:"label,omitempty"`
}

type edgeRecord struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Label  string `json:"label,omitempty" yaml:"label,omitempty"`
}

type documentFile struct {
	Vertices []vertexRecord `json:"vertices" yaml:"vertices"`
	Edges    []edgeRecord   `json:"edges" yaml:"edges"`
}

func (d *Document) toFile() documentFile {
	f := documentFile{
		Vertices: make([]vertexRecord, 0, d.Store.Order()),
		Edges:    make([]edgeRecord, 0, d.Store.Size()),
	}
	for _, vid := range d.Store.Vertices() {
		p := d.Pos[vid]
		f.Vertices = append(f.Vertices, vertexRecord{
			ID:    vid,
			X:     p.X,
			Y:     p.Y,
			Label: d.VertexLabels[vid],
		})
	}
	for _, eid := range d.Store.Edges() {
		from, to, err := d.Store.Endpoints(eid)
		if err != nil {
			continue
		}
		f.Edges = append(f.Edges, edgeRecord{
			Source: from,
			Target: to,
			Label:  d.EdgeLabels[eid],
		})
	}
	return f
}

// Edge identities are session-scoped: edges are re-minted in file order on
// load, so labels are re-keyed rather than trusting stored edge ids.
func fromFile(f documentFile) (*Document, error) {
	d := NewDocument()
	for _, v := range f.Vertices {
		if err := d.Store.addVertexID(v.ID); err != nil {
			return nil, err
		}
		d.Pos[v.ID] = r2.Vec{X: v.X, Y: v.Y}
		if v.Label != "" {
			d.VertexLabels[v.ID] = v.Label
		}
	}
	for _, e := range f.Edges {
		eid, err := d.Store.AddEdge(e.Source, e.Target)
		if err != nil {
			return nil, errors.Wrapf(err, "edge %s->%s", e.Source, e.Target)
		}
		if e.Label != "" {
			d.EdgeLabels[eid] = e.Label
		}
	}
	return d, nil
}

// EncodeJSON writes the document as indented JSON.
func EncodeJSON(d *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d.toFile()); err != nil {
		return errors.Wrap(err, "encode document json")
	}
	return nil
}

// DecodeJSON reads a JSON document.
func DecodeJSON(r io.Reader) (*Document, error) {
	var f documentFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(err, "decode document json")
	}
	return fromFile(f)
}

// EncodeYAML writes the document as YAML.
func EncodeYAML(d *Document, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d.toFile()); err != nil {
		return errors.Wrap(err, "encode document yaml")
	}
	return errors.Wrap(enc.Close(), "close yaml encoder")
}

// DecodeYAML reads a YAML document.
func DecodeYAML(r io.Reader) (*Document, error) {
	var f documentFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(err, "decode document yaml")
	}
	return fromFile(f)
}

// WriteDOT writes a Graphviz digraph with node positions. The emitter is
// hand-rolled because the editor permits self-loops, which gonum's DOT
// encoder rejects.
func WriteDOT(d *Document, w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph easel {")
	for _, vid := range d.Store.Vertices() {
		p := d.Pos[vid]
		fmt.Fprintf(bw, "\t%s [pos=\"%g,%g\"", dotID(vid), p.X, p.Y)
		if label, ok := d.VertexLabels[vid]; ok && label != "" {
			fmt.Fprintf(bw, ", label=%s", strconv.Quote(label))
		}
		fmt.Fprintln(bw, "];")
	}
	for _, eid := range d.Store.Edges() {
		from, to, err := d.Store.Endpoints(eid)
		if err != nil {
			continue
		}
		fmt.Fprintf(bw, "\t%s -> %s", dotID(from), dotID(to))
		if label, ok := d.EdgeLabels[eid]; ok && label != "" {
			fmt.Fprintf(bw, " [label=%s]", strconv.Quote(label))
		}
		fmt.Fprintln(bw, ";")
	}
	fmt.Fprintln(bw, "}")
	return errors.Wrap(bw.Flush(), "write dot")
}

// dotID quotes an id unless it is already a valid bare DOT identifier.
func dotID(id string) string {
	if id == "" {
		return `""`
	}
	for i, r := range id {
		alpha := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		digit := r >= '0' && r <= '9'
		if !alpha && !(digit && i > 0) {
			return strconv.Quote(id)
		}
	}
	return id
}

// Save writes the document to path in the format implied by its extension.
func Save(d *Document, path string) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer file.Close()

	switch format {
	case FormatJSON:
		err = EncodeJSON(d, file)
	case FormatYAML:
		err = EncodeYAML(d, file)
	case FormatDOT:
		err = WriteDOT(d, file)
	}
	if err != nil {
		return err
	}
	return errors.Wrapf(file.Sync(), "sync %s", path)
}

// Load reads a document from path. DOT files are export-only.
func Load(path string) (*Document, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	if format == FormatDOT {
		return nil, errors.Wrap(errors.ErrUnsupportedFormat, "dot files are export-only")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer file.Close()

	if format == FormatYAML {
		return DecodeYAML(file)
	}
	return DecodeJSON(file)
}
