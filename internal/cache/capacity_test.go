package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapacityAddSubUsage(t *testing.T) {
	c := NewCapacity(1000)
	c.Add(400)
	c.Add(200)
	current, max := c.Usage()
	assert.Equal(t, uint64(600), current)
	assert.Equal(t, uint64(1000), max)

	c.Sub(100)
	current, _ = c.Usage()
	assert.Equal(t, uint64(500), current)
}

func TestCapacitySubFloorsAtZero(t *testing.T) {
	c := NewCapacity(1000)
	c.Add(50)
	c.Sub(500)
	current, _ := c.Usage()
	assert.Equal(t, uint64(0), current)
}

func TestCapacitySetMaxClampsToFloor(t *testing.T) {
	c := NewCapacity(1000)
	c.SetMax(10)
	_, max := c.Usage()
	assert.Equal(t, uint64(MinBudgetBytes), max)
}

func TestCapacityOverBudget(t *testing.T) {
	c := NewCapacity(100)
	assert.False(t, c.OverBudget())
	c.Add(100)
	assert.True(t, c.OverBudget())
}

func TestCapacityReset(t *testing.T) {
	c := NewCapacity(100)
	c.Add(80)
	c.Reset()
	current, _ := c.Usage()
	assert.Equal(t, uint64(0), current)
}
