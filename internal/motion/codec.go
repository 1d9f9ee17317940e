package motion

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

// Container header values.
const (
	FormatName    = "motionkit"
	FormatVersion = 1
)

type container struct {
	Format  string `json:"format"`
	Version int    `json:"version"`
	Root    *node  `json:"root"`
}

// node is the tagged on-disk form of a Value.
type node struct {
	Kind    string   `json:"kind"`
	Fields  []field  `json:"fields,omitempty"`
	DType   DType    `json:"dtype,omitempty"`
	Shape   []int    `json:"shape,omitempty"`
	Data    []byte   `json:"data,omitempty"`
	Items   []*node  `json:"items,omitempty"`
	Number  *float64 `json:"number,omitempty"`
	Integer bool     `json:"integer,omitempty"`
	String  *string  `json:"string,omitempty"`
}

type field struct {
	Key   string `json:"key"`
	Value *node  `json:"value"`
}

// Load reads a whole container from path.
func Load(path string) (Value, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	v, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// LoadRecord loads path and requires its root to be a Record.
func LoadRecord(path string) (*Record, error) {
	v, err := Load(path)
	if err != nil {
		return nil, err
	}
	rec, ok := v.(*Record)
	if !ok {
		return nil, fmt.Errorf("%w: %s holds a %s, not a record", ErrInvalidFormat, path, v.Kind())
	}
	return rec, nil
}

// Save writes v to path, replacing any existing file. The data is written to a
// temporary file in the same directory and renamed into place, so a failed
// write never leaves a partial output behind.
func Save(path string, v Value) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err := Encode(tmp, v); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move output into %s: %w", path, err)
	}
	committed = true
	return nil
}

// Encode writes v as a container document.
func Encode(w io.Writer, v Value) error {
	root, err := toNode(v)
	if err != nil {
		return err
	}
	b, err := json.Marshal(container{Format: FormatName, Version: FormatVersion, Root: root})
	if err != nil {
		return fmt.Errorf("failed to encode container: %w", err)
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("failed to write container: %w", err)
	}
	return nil
}

// Decode reads a container document from r.
func Decode(r io.Reader) (Value, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read container: %w", err)
	}

	var c container
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptFile, err)
	}
	if c.Format != FormatName {
		return nil, fmt.Errorf("%w: unexpected format %q", ErrCorruptFile, c.Format)
	}
	if c.Version != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptFile, c.Version)
	}
	if c.Root == nil {
		return nil, fmt.Errorf("%w: missing root value", ErrCorruptFile)
	}
	return fromNode(c.Root)
}

func toNode(v Value) (*node, error) {
	switch val := v.(type) {
	case *Record:
		n := &node{Kind: KindRecord.String(), Fields: make([]field, 0, val.Len())}
		var err error
		val.Each(func(key string, fv Value) {
			if err != nil {
				return
			}
			var child *node
			child, err = toNode(fv)
			if err != nil {
				err = fmt.Errorf("field %q: %w", key, err)
				return
			}
			n.Fields = append(n.Fields, field{Key: key, Value: child})
		})
		return n, err

	case *Array:
		return &node{
			Kind:  KindArray.String(),
			DType: val.DType,
			Shape: val.Shape,
			Data:  packFloats(val.DType, val.Data),
		}, nil

	case *Sequence:
		n := &node{Kind: KindSequence.String(), Items: make([]*node, 0, len(val.Items))}
		for i, item := range val.Items {
			child, err := toNode(item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			n.Items = append(n.Items, child)
		}
		return n, nil

	case Number:
		if math.IsNaN(val.Value) || math.IsInf(val.Value, 0) {
			return nil, fmt.Errorf("%w: scalar %v cannot be stored outside an array", ErrInvalidFormat, val.Value)
		}
		f := val.Value
		return &node{Kind: KindNumber.String(), Number: &f, Integer: val.Integer}, nil

	case String:
		s := string(val)
		return &node{Kind: KindString.String(), String: &s}, nil

	default:
		return nil, fmt.Errorf("%w: cannot encode %T", ErrInvalidFormat, v)
	}
}

func fromNode(n *node) (Value, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: null value", ErrCorruptFile)
	}

	switch n.Kind {
	case KindRecord.String():
		rec := NewRecord()
		for _, f := range n.Fields {
			v, err := fromNode(f.Value)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Key, err)
			}
			rec.Set(f.Key, v)
		}
		return rec, nil

	case KindArray.String():
		width := n.DType.Width()
		if width == 0 {
			return nil, fmt.Errorf("%w: unsupported dtype %q", ErrCorruptFile, n.DType)
		}
		size, err := shapeSize(n.Shape)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptFile, err)
		}
		if size > math.MaxInt/width {
			return nil, fmt.Errorf("%w: array %s is too large", ErrCorruptFile, FormatShape(n.Shape))
		}
		if len(n.Data) != size*width {
			return nil, fmt.Errorf("%w: array %s %s needs %d bytes, got %d",
				ErrCorruptFile, n.DType, FormatShape(n.Shape), size*width, len(n.Data))
		}
		shape := n.Shape
		if shape == nil {
			shape = []int{}
		}
		return &Array{DType: n.DType, Shape: shape, Data: unpackFloats(n.DType, n.Data, size)}, nil

	case KindSequence.String():
		seq := &Sequence{Items: make([]Value, 0, len(n.Items))}
		for i, item := range n.Items {
			v, err := fromNode(item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			seq.Items = append(seq.Items, v)
		}
		return seq, nil

	case KindNumber.String():
		if n.Number == nil {
			return nil, fmt.Errorf("%w: number without value", ErrCorruptFile)
		}
		return Number{Value: *n.Number, Integer: n.Integer}, nil

	case KindString.String():
		if n.String == nil {
			return nil, fmt.Errorf("%w: string without value", ErrCorruptFile)
		}
		return String(*n.String), nil

	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrCorruptFile, n.Kind)
	}
}

func packFloats(dtype DType, data []float64) []byte {
	width := dtype.Width()
	buf := make([]byte, len(data)*width)
	for i, v := range data {
		off := i * width
		if dtype == Float32 {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(float32(v)))
		} else {
			binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(v))
		}
	}
	return buf
}

func unpackFloats(dtype DType, buf []byte, size int) []float64 {
	width := dtype.Width()
	data := make([]float64, size)
	for i := range data {
		off := i * width
		if dtype == Float32 {
			data[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])))
		} else {
			data[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[off:]))
		}
	}
	return data
}
