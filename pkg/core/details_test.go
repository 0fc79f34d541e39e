package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetailsPreservesInsertionOrder(t *testing.T) {
	d := NewDetails()
	d.Set("zebra", 1)
	d.Set("apple", 2)
	d.Set("mango", 3)

	require.Equal(t, []string{"zebra", "apple", "mango"}, d.Keys())

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	require.Equal(t, `{"zebra":1,"apple":2,"mango":3}`, string(raw))
}

func TestDetailsSetOverwritesInPlace(t *testing.T) {
	d := NewDetails()
	d.Set("first", 1)
	d.Set("second", 2)
	d.Set("first", 10)

	require.Equal(t, []string{"first", "second"}, d.Keys())
	require.Equal(t, 2, d.Len())

	v, ok := d.Get("first")
	require.True(t, ok)
	require.Equal(t, 10, v)
}

func TestDetailsFloat(t *testing.T) {
	d := NewDetails()
	d.Set("score", 0.75)
	d.Set("count", 3)
	d.Set("label", "hello")

	f, ok := d.Float("score")
	require.True(t, ok)
	require.Equal(t, 0.75, f)

	_, ok = d.Float("label")
	require.False(t, ok)

	_, ok = d.Float("missing")
	require.False(t, ok)
}

func TestDetailsMarshalNested(t *testing.T) {
	d := NewDetails()
	d.Set("terms", []string{"a", "b"})
	d.Set("flags", map[string]bool{"x": true})

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	require.JSONEq(t, `{"terms":["a","b"],"flags":{"x":true}}`, string(raw))
}
