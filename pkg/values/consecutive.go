package values

// ConsecutiveLongColumn wraps a long column and remaps its distinct
// present values to [0, k) in first-seen order. Nodes without a value in
// the source column surface LongMissing. This is the standard shape for
// presenting community-detection output (WCC, label propagation, KMeans)
// under consecutive ids instead of whatever internal labels the kernel
// produced.
type ConsecutiveLongColumn struct {
	baseColumn
	remapped []int64
}

// NewConsecutiveLongColumn builds the remapping eagerly over source.
func NewConsecutiveLongColumn(source Column) (*ConsecutiveLongColumn, error) {
	n := source.Size()
	remapped := make([]int64, n)
	seen := make(map[int64]int64, n)
	var next int64 = -1

	for id := 0; id < n; id++ {
		if !source.HasValue(id) {
			remapped[id] = LongMissing
			continue
		}
		v, err := source.LongValue(id)
		if err != nil {
			return nil, err
		}
		c, ok := seen[v]
		if !ok {
			next++
			c = next
			seen[v] = c
		}
		remapped[id] = c
	}

	return &ConsecutiveLongColumn{
		baseColumn: baseColumn{vt: Long, dim: 1},
		remapped:   remapped,
	}, nil
}

func (c *ConsecutiveLongColumn) Size() int { return len(c.remapped) }

func (c *ConsecutiveLongColumn) HasValue(id int) bool {
	return id >= 0 && id < len(c.remapped) && c.remapped[id] != LongMissing
}

func (c *ConsecutiveLongColumn) LongValue(id int) (int64, error) {
	return c.remapped[id], nil
}

func (c *ConsecutiveLongColumn) LongValueUnchecked(id int) int64 { return c.remapped[id] }

func (c *ConsecutiveLongColumn) MaxLongValue() (int64, bool) {
	found := false
	var max int64
	for _, v := range c.remapped {
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

func (c *ConsecutiveLongColumn) MaxDoubleValue() (float64, bool) {
	max, ok := c.MaxLongValue()
	return float64(max), ok
}
