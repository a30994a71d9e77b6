package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsecutiveLongColumn_RemapsInFirstSeenOrder(t *testing.T) {
	source := NewLongColumn([]int64{10, 20, 10, 30, 20})

	consecutive, err := NewConsecutiveLongColumn(source)
	require.NoError(t, err)

	assert.Equal(t, 5, consecutive.Size())
	assert.Equal(t, Long, consecutive.ValueType())

	want := []int64{0, 1, 0, 2, 1}
	for i, w := range want {
		v, err := consecutive.LongValue(i)
		require.NoError(t, err)
		assert.Equal(t, w, v)
		assert.True(t, consecutive.HasValue(i))
	}
}

func TestConsecutiveLongColumn_MissingValuesPreserved(t *testing.T) {
	source := NewLongColumn([]int64{10, LongMissing, 20, LongMissing, 30})

	consecutive, err := NewConsecutiveLongColumn(source)
	require.NoError(t, err)

	assert.True(t, consecutive.HasValue(0))
	assert.False(t, consecutive.HasValue(1))
	assert.True(t, consecutive.HasValue(2))
	assert.False(t, consecutive.HasValue(3))
	assert.True(t, consecutive.HasValue(4))

	v1, _ := consecutive.LongValue(1)
	assert.Equal(t, int64(LongMissing), v1)
}

func TestConsecutiveLongColumn_SingleCommunity(t *testing.T) {
	source := NewLongColumn([]int64{100, 100, 100, 100})
	consecutive, err := NewConsecutiveLongColumn(source)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		v, err := consecutive.LongValue(i)
		require.NoError(t, err)
		assert.Equal(t, int64(0), v)
	}
}

func TestConsecutiveLongColumn_Empty(t *testing.T) {
	source := NewLongColumn(nil)
	consecutive, err := NewConsecutiveLongColumn(source)
	require.NoError(t, err)
	assert.Equal(t, 0, consecutive.Size())
}

func TestLongColumn_AccessorMismatchFailsWithPropertyValues(t *testing.T) {
	col := NewLongColumn([]int64{1, 2, 3})
	_, err := col.DoubleValue(0)
	require.Error(t, err)

	_, err = col.LongArrayValue(0)
	require.Error(t, err)
}

func TestDoubleColumn_MaxDoubleValueSkipsMissing(t *testing.T) {
	col := NewDoubleColumn([]float64{1.5, DoubleMissing, 3.5, 2.0})
	max, ok := col.MaxDoubleValue()
	require.True(t, ok)
	assert.Equal(t, 3.5, max)
}
