package pattern_test

import (
	"testing"

	"github.com/alanrogers/legofit/pattern"
	"github.com/stretchr/testify/require"
)

func TestAddAndGet(t *testing.T) {
	tbl := pattern.New()
	tbl.Add(0b101, 1.5)
	tbl.Add(0b101, 2.5)
	tbl.Add(0b110, 4.0)

	require.Equal(t, 4.0, tbl.Get(0b101))
	require.Equal(t, 4.0, tbl.Get(0b110))
	require.Equal(t, 0.0, tbl.Get(0b111), "unseen key reads as zero")
	require.Equal(t, 2, tbl.Len())
}

func TestDivideBy(t *testing.T) {
	tbl := pattern.New()
	tbl.Add(1, 10)
	tbl.Add(2, 20)
	tbl.DivideBy(2)

	require.Equal(t, 5.0, tbl.Get(1))
	require.Equal(t, 10.0, tbl.Get(2))
}

func TestNormalizeIsIdempotent(t *testing.T) {
	// Testable Property 2: normalize twice is a no-op within float noise.
	tbl := pattern.New()
	tbl.Add(1, 3)
	tbl.Add(2, 1)
	require.NoError(t, tbl.Normalize())

	_, before := tbl.ToArrays()
	require.NoError(t, tbl.Normalize())
	_, after := tbl.ToArrays()

	require.InDeltaSlice(t, before, after, 1e-12)
	require.InDelta(t, 1.0, before[0]+before[1], 1e-12)
}

func TestNormalizeEmptyTable(t *testing.T) {
	tbl := pattern.New()
	require.ErrorIs(t, tbl.Normalize(), pattern.ErrEmptyTable)
}

func TestMinusEqualsIdentity(t *testing.T) {
	// Testable Property 4: P.MinusEquals(P) zeroes every value.
	tbl := pattern.New()
	tbl.Add(1, 3.2)
	tbl.Add(7, 9.1)

	clone := tbl.Clone()
	tbl.MinusEquals(clone)

	_, vals := tbl.ToArrays()
	for _, v := range vals {
		require.InDelta(t, 0.0, v, 1e-12)
	}
}

func TestMinusEqualsMissingKeyTreatedAsZero(t *testing.T) {
	tbl := pattern.New()
	tbl.Add(1, 5)
	other := pattern.New()
	other.Add(2, 9)

	tbl.MinusEquals(other)
	require.Equal(t, 5.0, tbl.Get(1), "key absent from other is untouched")
	require.Equal(t, 0, func() int {
		ks, _ := other.ToArrays()
		for _, k := range ks {
			if k == 1 {
				return 1
			}
		}
		return 0
	}(), "minusEquals must not mutate the argument")
}

func TestToArraysAscendingOrder(t *testing.T) {
	// Testable Property 6.
	tbl := pattern.New()
	for _, k := range []pattern.TipId{9, 1, 5, 3} {
		tbl.Add(k, float64(k))
	}
	keys, _ := tbl.ToArrays()
	for i := 1; i < len(keys); i++ {
		require.Less(t, keys[i-1], keys[i])
	}
}

func TestCloneIsIndependent(t *testing.T) {
	tbl := pattern.New()
	tbl.Add(1, 1)
	c := tbl.Clone()
	c.Add(1, 1)

	require.Equal(t, 1.0, tbl.Get(1))
	require.Equal(t, 2.0, c.Get(1))
}

func TestIsInformative(t *testing.T) {
	const universe pattern.TipId = 0b1111

	cases := []struct {
		name         string
		tip          pattern.TipId
		doSingletons bool
		want         bool
	}{
		{"empty", 0, false, false},
		{"universe", universe, false, false},
		{"singleton filtered", 0b0001, false, false},
		{"singleton allowed", 0b0001, true, true},
		{"pair", 0b0011, false, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, pattern.IsInformative(c.tip, universe, c.doSingletons))
		})
	}
}
