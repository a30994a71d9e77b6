// Package values implements the closed set of property column variants
// (§4.2, §3.4): Long, Double, Float, LongArray, FloatArray, DoubleArray.
// Every column is a fixed-size, random-access, typed container keyed by
// internal node or relationship-slot id, with a missing-value sentinel
// per element. There is no open inheritance here by design — callers
// switch on ValueType and accessors fail with gdserr.ErrPropertyValues
// when the column's actual type does not match the requested accessor.
package values

import (
	"math"

	"github.com/orneryd/gds/pkg/gdserr"
)

// ValueType is the closed set of property value types.
type ValueType int

const (
	Long ValueType = iota
	Double
	Float
	LongArray
	FloatArray
	DoubleArray
)

func (t ValueType) String() string {
	switch t {
	case Long:
		return "Long"
	case Double:
		return "Double"
	case Float:
		return "Float"
	case LongArray:
		return "LongArray"
	case FloatArray:
		return "FloatArray"
	case DoubleArray:
		return "DoubleArray"
	default:
		return "Unknown"
	}
}

// Sentinels used to mark a missing scalar value for a given id.
const (
	LongMissing = math.MinInt64
)

var DoubleMissing = math.NaN()

// Column is the contract every property column variant satisfies,
// regardless of backend (dense slice, huge paged array, future
// columnar-arrow adapter).
type Column interface {
	ValueType() ValueType
	// Dimension is 1 for scalars, N for fixed-size arrays, -1 for ragged
	// (per-element variable length) array columns.
	Dimension() int
	// Size is the element count: node_count for node-property columns,
	// or the flattened edge count for relationship-property columns.
	Size() int
	HasValue(id int) bool

	LongValue(id int) (int64, error)
	DoubleValue(id int) (float64, error)
	FloatValue(id int) (float32, error)
	LongArrayValue(id int) ([]int64, error)
	FloatArrayValue(id int) ([]float32, error)
	DoubleArrayValue(id int) ([]float64, error)

	// MaxLongValue/MaxDoubleValue scan the column for its maximum present
	// value; used by mutate-mode summaries and consecutive-long sizing.
	MaxLongValue() (int64, bool)
	MaxDoubleValue() (float64, bool)
}

func unsupported(have, want ValueType) error {
	return gdserr.PropertyValues("column holds %s, cannot read as %s", have, want)
}

// baseColumn provides the accessor-mismatch plumbing shared by every
// concrete column so each variant only implements its own storage and the
// one accessor that actually applies.
type baseColumn struct {
	vt  ValueType
	dim int
}

func (b baseColumn) ValueType() ValueType { return b.vt }
func (b baseColumn) Dimension() int       { return b.dim }

func (b baseColumn) LongValue(int) (int64, error) {
	return 0, unsupported(b.vt, Long)
}
func (b baseColumn) DoubleValue(int) (float64, error) {
	return 0, unsupported(b.vt, Double)
}
func (b baseColumn) FloatValue(int) (float32, error) {
	return 0, unsupported(b.vt, Float)
}
func (b baseColumn) LongArrayValue(int) ([]int64, error) {
	return nil, unsupported(b.vt, LongArray)
}
func (b baseColumn) FloatArrayValue(int) ([]float32, error) {
	return nil, unsupported(b.vt, FloatArray)
}
func (b baseColumn) DoubleArrayValue(int) ([]float64, error) {
	return nil, unsupported(b.vt, DoubleArray)
}

// --- LongColumn ---

type LongColumn struct {
	baseColumn
	data []int64
}

func NewLongColumn(data []int64) *LongColumn {
	return &LongColumn{baseColumn: baseColumn{vt: Long, dim: 1}, data: data}
}

func (c *LongColumn) Size() int { return len(c.data) }

func (c *LongColumn) HasValue(id int) bool {
	return id >= 0 && id < len(c.data) && c.data[id] != LongMissing
}

func (c *LongColumn) LongValue(id int) (int64, error) {
	if id < 0 || id >= len(c.data) {
		return 0, gdserr.OutOfRange("id %d outside [0,%d)", id, len(c.data))
	}
	return c.data[id], nil
}

// LongValueUnchecked is the fast path for callers that already tested
// HasValue; it skips bounds and sentinel checks.
func (c *LongColumn) LongValueUnchecked(id int) int64 { return c.data[id] }

func (c *LongColumn) MaxLongValue() (int64, bool) {
	found := false
	var max int64
	for _, v := range c.data {
		if v == LongMissing {
			continue
		}
		if !found || v > max {
			max = v
			found = true
		}
	}
	return max, found
}

func (c *LongColumn) MaxDoubleValue() (float64, bool) {
	max, ok := c.MaxLongValue()
	return float64(max), ok
}

// --- DoubleColumn ---

type DoubleColumn struct {
	baseColumn
	data []float64
}

func NewDoubleColumn(data []float64) *DoubleColumn {
	return &DoubleColumn{baseColumn: baseColumn{vt: Double, dim: 1}, data: data}
}

func (c *DoubleColumn) Size() int { return len(c.data) }

func (c *DoubleColumn) HasValue(id int) bool {
	return id >= 0 && id < len(c.data) && !math.IsNaN(c.data[id])
}

func (c *DoubleColumn) DoubleValue(id int) (float64, error) {
	if id < 0 || id >= len(c.data) {
		return 0, gdserr.OutOfRange("id %d outside [0,%d)", id, len(c.data))
	}
	return c.data[id], nil
}

func (c *DoubleColumn) DoubleValueUnchecked(id int) float64 { return c.data[id] }

func (c *DoubleColumn) MaxLongValue() (int64, bool) {
	max, ok := c.MaxDoubleValue()
	return int64(max), ok
}

func (c *DoubleColumn) MaxDoubleValue() (float64, bool) {
	found := false
	max := math.Inf(-1)
	for _, v := range c.data {
		if math.IsNaN(v) {
			continue
		}
		if !found || v > max {
			max = v
			found = true
		}
	}
	return max, found
}

// --- FloatColumn ---

type FloatColumn struct {
	baseColumn
	data []float32
}

func NewFloatColumn(data []float32) *FloatColumn {
	return &FloatColumn{baseColumn: baseColumn{vt: Float, dim: 1}, data: data}
}

func (c *FloatColumn) Size() int { return len(c.data) }

func (c *FloatColumn) HasValue(id int) bool {
	return id >= 0 && id < len(c.data) && !math.IsNaN(float64(c.data[id]))
}

func (c *FloatColumn) FloatValue(id int) (float32, error) {
	if id < 0 || id >= len(c.data) {
		return 0, gdserr.OutOfRange("id %d outside [0,%d)", id, len(c.data))
	}
	return c.data[id], nil
}

func (c *FloatColumn) MaxLongValue() (int64, bool) {
	max, ok := c.MaxDoubleValue()
	return int64(max), ok
}

func (c *FloatColumn) MaxDoubleValue() (float64, bool) {
	found := false
	max := math.Inf(-1)
	for _, v := range c.data {
		if math.IsNaN(float64(v)) {
			continue
		}
		if float64(v) > max {
			max = float64(v)
			found = true
		}
	}
	return max, found
}

// --- Array columns ---

// LongArrayColumn holds fixed- or variable-dimension i64 vectors per id.
// dimension is -1 when rows are ragged; callers must not assume uniform
// length in that case.
type LongArrayColumn struct {
	baseColumn
	data [][]int64
}

func NewLongArrayColumn(data [][]int64, dimension int) *LongArrayColumn {
	return &LongArrayColumn{baseColumn: baseColumn{vt: LongArray, dim: dimension}, data: data}
}

func (c *LongArrayColumn) Size() int { return len(c.data) }

func (c *LongArrayColumn) HasValue(id int) bool {
	return id >= 0 && id < len(c.data) && c.data[id] != nil
}

func (c *LongArrayColumn) LongArrayValue(id int) ([]int64, error) {
	if id < 0 || id >= len(c.data) {
		return nil, gdserr.OutOfRange("id %d outside [0,%d)", id, len(c.data))
	}
	return c.data[id], nil
}

func (c *LongArrayColumn) MaxLongValue() (int64, bool) { return 0, false }
func (c *LongArrayColumn) MaxDoubleValue() (float64, bool) { return 0, false }

type FloatArrayColumn struct {
	baseColumn
	data [][]float32
}

func NewFloatArrayColumn(data [][]float32, dimension int) *FloatArrayColumn {
	return &FloatArrayColumn{baseColumn: baseColumn{vt: FloatArray, dim: dimension}, data: data}
}

func (c *FloatArrayColumn) Size() int { return len(c.data) }

func (c *FloatArrayColumn) HasValue(id int) bool {
	return id >= 0 && id < len(c.data) && c.data[id] != nil
}

func (c *FloatArrayColumn) FloatArrayValue(id int) ([]float32, error) {
	if id < 0 || id >= len(c.data) {
		return nil, gdserr.OutOfRange("id %d outside [0,%d)", id, len(c.data))
	}
	return c.data[id], nil
}

func (c *FloatArrayColumn) MaxLongValue() (int64, bool) { return 0, false }
func (c *FloatArrayColumn) MaxDoubleValue() (float64, bool) { return 0, false }

type DoubleArrayColumn struct {
	baseColumn
	data [][]float64
}

func NewDoubleArrayColumn(data [][]float64, dimension int) *DoubleArrayColumn {
	return &DoubleArrayColumn{baseColumn: baseColumn{vt: DoubleArray, dim: dimension}, data: data}
}

func (c *DoubleArrayColumn) Size() int { return len(c.data) }

func (c *DoubleArrayColumn) HasValue(id int) bool {
	return id >= 0 && id < len(c.data) && c.data[id] != nil
}

func (c *DoubleArrayColumn) DoubleArrayValue(id int) ([]float64, error) {
	if id < 0 || id >= len(c.data) {
		return nil, gdserr.OutOfRange("id %d outside [0,%d)", id, len(c.data))
	}
	return c.data[id], nil
}

func (c *DoubleArrayColumn) MaxLongValue() (int64, bool) { return 0, false }
func (c *DoubleArrayColumn) MaxDoubleValue() (float64, bool) { return 0, false }
