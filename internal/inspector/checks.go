package inspector

import (
	"math"
	"sort"

	"github.com/dbsmedya/motionkit/internal/motion"
)

// FrameCount is the leading dimension of one per-frame array.
type FrameCount struct {
	Field  string
	Frames int
}

// FrameCheck is the result of comparing frame counts across per-frame arrays.
type FrameCheck struct {
	Counts     []FrameCount
	Consistent bool
}

// CheckFrames compares the leading dimension of the array-valued fields among
// motion.FrameFields. Non-array fields are left out. The check is consistent
// only when at least one array was found and all counts agree.
func CheckFrames(rec *motion.Record) FrameCheck {
	var check FrameCheck
	distinct := make(map[int]struct{})
	for _, key := range motion.FrameFields {
		arr, ok := rec.Array(key)
		if !ok {
			continue
		}
		check.Counts = append(check.Counts, FrameCount{Field: key, Frames: arr.Rows()})
		distinct[arr.Rows()] = struct{}{}
	}
	check.Consistent = len(distinct) == 1
	return check
}

// QuaternionCheck is the result of checking unit norms along the last axis.
type QuaternionCheck struct {
	Normalized bool
	MinNorm    float64
	MaxNorm    float64
}

// CheckQuaternions reports whether every vector along the last axis of arr has
// a Euclidean norm within tolerance of 1. NaN norms count as violations.
// arr must not be empty.
func CheckQuaternions(arr *motion.Array, tolerance float64) QuaternionCheck {
	norms := arr.RowNorms()
	normArr := &motion.Array{DType: motion.Float64, Shape: []int{len(norms)}, Data: norms}

	check := QuaternionCheck{Normalized: true}
	if len(norms) == 0 {
		return check
	}
	for _, n := range norms {
		if !(math.Abs(n-1) <= tolerance) {
			check.Normalized = false
			break
		}
	}
	check.MinNorm = normArr.Min()
	check.MaxNorm = normArr.Max()
	return check
}

// ShapeMatch compares one shared array field across two records.
type ShapeMatch struct {
	Key    string
	First  []int
	Second []int
	Match  bool
}

// Comparison is the structural difference between two records.
type Comparison struct {
	Common     []string
	OnlyFirst  []string
	OnlySecond []string
	Shapes     []ShapeMatch
}

// CompareRecords computes key-set differences and, for shared keys holding
// arrays on both sides, whether the shapes match. All key lists are sorted.
func CompareRecords(a, b *motion.Record) Comparison {
	var cmp Comparison
	for _, key := range a.Keys() {
		if b.Has(key) {
			cmp.Common = append(cmp.Common, key)
		} else {
			cmp.OnlyFirst = append(cmp.OnlyFirst, key)
		}
	}
	for _, key := range b.Keys() {
		if !a.Has(key) {
			cmp.OnlySecond = append(cmp.OnlySecond, key)
		}
	}
	sort.Strings(cmp.Common)
	sort.Strings(cmp.OnlyFirst)
	sort.Strings(cmp.OnlySecond)

	for _, key := range cmp.Common {
		arrA, okA := a.Array(key)
		arrB, okB := b.Array(key)
		if !okA || !okB {
			continue
		}
		cmp.Shapes = append(cmp.Shapes, ShapeMatch{
			Key:    key,
			First:  arrA.Shape,
			Second: arrB.Shape,
			Match:  arrA.SameShape(arrB),
		})
	}
	return cmp
}
