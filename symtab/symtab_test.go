package symtab

import (
	"fmt"
	"testing"

	"github.com/magnum-lang/magnum/object"
	"github.com/stretchr/testify/require"
)

func TestInsertGet(t *testing.T) {
	table := New()
	require.True(t, table.Insert("x", object.NewNumberFromInt(1)))
	require.False(t, table.Insert("x", object.NewNumberFromInt(2)))

	value, ok := table.Get("x")
	require.True(t, ok)
	require.Equal(t, "1", value.Inspect())

	value, ok = table.Get("y")
	require.False(t, ok)
	require.Equal(t, object.Void, value)
	require.Equal(t, 1, table.Len())
}

func TestSet(t *testing.T) {
	table := New()
	require.False(t, table.Set("x", object.True))
	require.True(t, table.Insert("x", object.False))
	require.True(t, table.Set("x", object.True))
	value, _ := table.Get("x")
	require.Equal(t, object.True, value)
}

func TestCollisions(t *testing.T) {
	// "ab" and "ba" have the same byte sum and therefore the same hash.
	table := New()
	require.True(t, table.Insert("ab", object.NewString("first")))
	require.True(t, table.Insert("ba", object.NewString("second")))

	value, ok := table.Get("ab")
	require.True(t, ok)
	require.Equal(t, "first", value.Inspect())
	value, ok = table.Get("ba")
	require.True(t, ok)
	require.Equal(t, "second", value.Inspect())
}

func TestRemoveKeepsCollisionChain(t *testing.T) {
	table := New()
	require.True(t, table.Insert("ab", object.NewString("first")))
	require.True(t, table.Insert("ba", object.NewString("second")))
	require.True(t, table.Remove("ab"))
	require.False(t, table.Remove("ab"))

	_, ok := table.Get("ab")
	require.False(t, ok)
	// "ba" sits behind the tombstone and must still be reachable.
	value, ok := table.Get("ba")
	require.True(t, ok)
	require.Equal(t, "second", value.Inspect())
	require.True(t, table.Set("ba", object.NewString("third")))

	// A duplicate insert is detected past the tombstone.
	require.False(t, table.Insert("ba", object.Void))

	// Reinsertion reuses the tombstone.
	require.True(t, table.Insert("ab", object.NewString("again")))
	require.Equal(t, 0, table.tombstones)
	require.Equal(t, 2, table.Len())
}

func TestGrowth(t *testing.T) {
	table := New()
	require.Equal(t, InitialCapacity, table.Cap())
	for i := 0; i < 7; i++ {
		require.True(t, table.Insert(fmt.Sprintf("v%d", i), object.NewNumberFromInt(i)))
	}
	require.Equal(t, 10, table.Cap())

	require.True(t, table.Insert("v7", object.NewNumberFromInt(7)))
	require.Equal(t, 20, table.Cap())

	for i := 8; i < 100; i++ {
		require.True(t, table.Insert(fmt.Sprintf("v%d", i), object.NewNumberFromInt(i)))
	}
	require.Equal(t, 100, table.Len())
	for i := 0; i < 100; i++ {
		value, ok := table.Get(fmt.Sprintf("v%d", i))
		require.True(t, ok)
		require.Equal(t, fmt.Sprint(i), value.Inspect())
	}
}

func TestTombstonesCountTowardsLoad(t *testing.T) {
	table := New()
	for i := 0; i < 7; i++ {
		require.True(t, table.Insert(fmt.Sprintf("k%d", i), object.Void))
	}
	for i := 0; i < 7; i++ {
		require.True(t, table.Remove(fmt.Sprintf("k%d", i)))
	}
	require.Equal(t, 0, table.Len())
	require.Equal(t, 7, table.tombstones)

	// A fresh key lands on a tombstone-free table after growth.
	require.True(t, table.Insert("fresh", object.True))
	require.Equal(t, 20, table.Cap())
	require.Equal(t, 0, table.tombstones)
	require.Equal(t, []string{"fresh"}, table.Keys())
}

func TestManyRemovals(t *testing.T) {
	table := New()
	for round := 0; round < 50; round++ {
		key := fmt.Sprintf("r%d", round)
		require.True(t, table.Insert(key, object.NewNumberFromInt(round)))
		if round%2 == 0 {
			require.True(t, table.Remove(key))
		}
	}
	require.Equal(t, 25, table.Len())
	for round := 0; round < 50; round++ {
		_, ok := table.Get(fmt.Sprintf("r%d", round))
		require.Equal(t, round%2 == 1, ok, "r%d", round)
	}
}

func TestKeysSorted(t *testing.T) {
	table := New()
	for _, k := range []string{"zeta", "alpha", "mid"} {
		table.Insert(k, object.Void)
	}
	require.Equal(t, []string{"alpha", "mid", "zeta"}, table.Keys())
}
