package vectorize

import (
	"math"
	"sort"
)

// SparseVector is a term-weighted vector stored as sorted (index, value)
// pairs. Indices are strictly ascending.
type SparseVector struct {
	indices []int
	values  []float64
}

// NewSparse creates a sparse vector from parallel index/value slices.
// The pairs are sorted by index on construction.
func NewSparse(indices []int, values []float64) SparseVector {
	v := SparseVector{indices: indices, values: values}
	sort.Sort(&v)
	return v
}

func sparseFromMap(weights map[int]float64) SparseVector {
	indices := make([]int, 0, len(weights))
	for idx := range weights {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	values := make([]float64, len(indices))
	for i, idx := range indices {
		values[i] = weights[idx]
	}
	return SparseVector{indices: indices, values: values}
}

// Len returns the number of non-zero entries.
func (v SparseVector) Len() int { return len(v.indices) }

// Indices returns the sorted non-zero column indices.
func (v SparseVector) Indices() []int { return v.indices }

// Values returns the weights aligned with Indices.
func (v SparseVector) Values() []float64 { return v.values }

// Dot computes the dot product with another sparse vector via index merge.
func (v SparseVector) Dot(other SparseVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.indices) && j < len(other.indices) {
		switch {
		case v.indices[i] == other.indices[j]:
			sum += v.values[i] * other.values[j]
			i++
			j++
		case v.indices[i] < other.indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Norm returns the Euclidean norm.
func (v SparseVector) Norm() float64 {
	var sum float64
	for _, val := range v.values {
		sum += val * val
	}
	return math.Sqrt(sum)
}

// Normalized returns a unit-length copy of the vector. Zero vectors are
// returned unchanged.
func (v SparseVector) Normalized() SparseVector {
	n := v.Norm()
	if n == 0 {
		return v
	}
	values := make([]float64, len(v.values))
	for i, val := range v.values {
		values[i] = val / n
	}
	return SparseVector{indices: v.indices, values: values}
}

// sort.Interface over index order, used by NewSparse.

func (v *SparseVector) Swap(i, j int) {
	v.indices[i], v.indices[j] = v.indices[j], v.indices[i]
	v.values[i], v.values[j] = v.values[j], v.values[i]
}

func (v *SparseVector) Less(i, j int) bool { return v.indices[i] < v.indices[j] }
