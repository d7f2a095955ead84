package mapper

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	id   uint
	name string
}

func TestMapSlice(t *testing.T) {
	assert.Nil(t, MapSlice[int, string](nil, strconv.Itoa))
	assert.Equal(t, []string{"1", "2"}, MapSlice([]int{1, 2}, strconv.Itoa))
}

func TestMapSlicePtrWithID(t *testing.T) {
	items := []*record{{id: 1, name: "a"}, nil, {id: 2, name: ""}, {id: 3, name: "c"}}

	t.Run("skips nil input and nil output", func(t *testing.T) {
		got, err := MapSlicePtrWithID(items, func(r *record) (*string, error) {
			if r.name == "" {
				return nil, nil
			}
			return &r.name, nil
		}, func(r *record) uint { return r.id })
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "c", *got[1])
	})

	t.Run("error names the item", func(t *testing.T) {
		_, err := MapSlicePtrWithID(items, func(r *record) (*string, error) {
			if r.id == 3 {
				return nil, errors.New("bad record")
			}
			return &r.name, nil
		}, func(r *record) uint { return r.id })
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to map item ID 3")
	})
}
