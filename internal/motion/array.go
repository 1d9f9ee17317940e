package motion

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// DType is the element type of an array on disk.
type DType string

const (
	Float32 DType = "float32"
	Float64 DType = "float64"
)

// Width returns the encoded size of one element in bytes, or 0 for unknown dtypes.
func (d DType) Width() int {
	switch d {
	case Float32:
		return 4
	case Float64:
		return 8
	default:
		return 0
	}
}

// Array is a dense row-major floating-point array of arbitrary rank.
// Float32 arrays hold float32-representable values widened to float64.
type Array struct {
	DType DType
	Shape []int
	Data  []float64
}

func (*Array) Kind() Kind { return KindArray }

// NewArray builds an array after checking that data matches shape.
func NewArray(dtype DType, shape []int, data []float64) (*Array, error) {
	if dtype.Width() == 0 {
		return nil, fmt.Errorf("%w: unsupported dtype %q", ErrInvalidFormat, dtype)
	}
	size, err := shapeSize(shape)
	if err != nil {
		return nil, err
	}
	if len(data) != size {
		return nil, fmt.Errorf("%w: shape %s needs %d elements, got %d",
			ErrInvalidFormat, FormatShape(shape), size, len(data))
	}
	if dtype == Float32 {
		for i, v := range data {
			data[i] = float64(float32(v))
		}
	}
	return &Array{DType: dtype, Shape: append([]int(nil), shape...), Data: data}, nil
}

// Zeros returns a zero-filled array.
func Zeros(dtype DType, shape ...int) (*Array, error) {
	size, err := shapeSize(shape)
	if err != nil {
		return nil, err
	}
	return NewArray(dtype, shape, make([]float64, size))
}

func shapeSize(shape []int) (int, error) {
	size := 1
	for _, dim := range shape {
		if dim < 0 {
			return 0, fmt.Errorf("%w: negative dimension in shape %s", ErrInvalidFormat, FormatShape(shape))
		}
		if dim != 0 && size > math.MaxInt/dim {
			return 0, fmt.Errorf("%w: shape %s is too large", ErrInvalidFormat, FormatShape(shape))
		}
		size *= dim
	}
	return size, nil
}

// Size returns the total number of elements.
func (a *Array) Size() int { return len(a.Data) }

// Rank returns the number of dimensions.
func (a *Array) Rank() int { return len(a.Shape) }

// Rows returns the leading dimension, or 0 for a rank-0 array.
func (a *Array) Rows() int {
	if len(a.Shape) == 0 {
		return 0
	}
	return a.Shape[0]
}

// RowSize returns the number of elements in one leading-axis slab.
func (a *Array) RowSize() int {
	size := 1
	for _, dim := range a.Shape[min(1, len(a.Shape)):] {
		size *= dim
	}
	return size
}

// Row returns the i-th leading-axis slab. The slice aliases the array data.
func (a *Array) Row(i int) []float64 {
	n := a.RowSize()
	return a.Data[i*n : (i+1)*n]
}

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	return &Array{
		DType: a.DType,
		Shape: append([]int(nil), a.Shape...),
		Data:  append([]float64(nil), a.Data...),
	}
}

// SameShape reports whether both arrays have identical shapes.
func (a *Array) SameShape(b *Array) bool {
	if len(a.Shape) != len(b.Shape) {
		return false
	}
	for i := range a.Shape {
		if a.Shape[i] != b.Shape[i] {
			return false
		}
	}
	return true
}

// HasNaN reports whether any element is NaN.
func (a *Array) HasNaN() bool {
	return floats.HasNaN(a.Data)
}

// HasInf reports whether any element is +Inf or -Inf.
func (a *Array) HasInf() bool {
	for _, v := range a.Data {
		if math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// Min returns the smallest element. It is NaN if any element is NaN and
// panics on an empty array.
func (a *Array) Min() float64 {
	if a.HasNaN() {
		return math.NaN()
	}
	return floats.Min(a.Data)
}

// Max returns the largest element. It is NaN if any element is NaN and
// panics on an empty array.
func (a *Array) Max() float64 {
	if a.HasNaN() {
		return math.NaN()
	}
	return floats.Max(a.Data)
}

// Mean returns the arithmetic mean of all elements.
func (a *Array) Mean() float64 {
	if len(a.Data) == 0 {
		return math.NaN()
	}
	return floats.Sum(a.Data) / float64(len(a.Data))
}

// RowNorms returns the Euclidean norm of every vector along the last axis.
func (a *Array) RowNorms() []float64 {
	if len(a.Shape) == 0 {
		return []float64{math.Abs(a.Data[0])}
	}
	width := a.Shape[len(a.Shape)-1]
	if width == 0 {
		return nil
	}
	norms := make([]float64, 0, len(a.Data)/width)
	for start := 0; start < len(a.Data); start += width {
		norms = append(norms, floats.Norm(a.Data[start:start+width], 2))
	}
	return norms
}

// ShapeString formats the array shape.
func (a *Array) ShapeString() string {
	return FormatShape(a.Shape)
}

// FormatShape renders a shape as (d0, d1, ...), with a trailing comma for rank 1.
func FormatShape(shape []int) string {
	parts := make([]string, len(shape))
	for i, dim := range shape {
		parts[i] = strconv.Itoa(dim)
	}
	if len(shape) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
