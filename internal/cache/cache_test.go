package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetSet(t *testing.T) {
	c := New[string, int](time.Minute, 10)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", 1)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestExpiry(t *testing.T) {
	c := New[string, int](10*time.Millisecond, 10)
	c.Set("a", 1)

	time.Sleep(20 * time.Millisecond)
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestEvictionWhenFull(t *testing.T) {
	c := New[int, int](time.Minute, 2)
	c.Set(1, 1)
	c.Set(2, 2)
	c.Set(3, 3)

	assert.Equal(t, 1, c.Len())
	v, ok := c.Get(3)
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestDelete(t *testing.T) {
	c := New[string, string](time.Minute, 10)
	c.Set("a", "x")
	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
}
