package coalescent_test

import (
	"math/bits"
	"math/rand"
	"testing"

	"github.com/alanrogers/legofit/coalescent"
	"github.com/alanrogers/legofit/param"
	"github.com/alanrogers/legofit/pattern"
	"github.com/alanrogers/legofit/popnet"
	"github.com/stretchr/testify/require"
)

// buildCaterpillar builds ((A,B),C): A and B coalesce into an internal
// segment, which then coalesces with C at the unbounded root. Three
// samples are the minimum needed to ever see a non-singleton,
// non-universe (i.e. informative) pattern.
func buildCaterpillar(t *testing.T) (*popnet.Network, *param.Store, pattern.TipId) {
	t.Helper()

	store, err := param.NewStore(nil, []param.Spec{
		{Name: "twoN", Value: 1, Low: 0.01, High: 100, Kind: param.TwoN},
		{Name: "t_zero", Value: 0, Low: 0, High: 0, Kind: param.Time},
		{Name: "t1", Value: 0.5, Low: 0, High: 10, Kind: param.Time},
		{Name: "t2", Value: 1.5, Low: 0, High: 10, Kind: param.Time},
		{Name: "t_inf", Value: 1000, Low: 1000, High: 1000, Kind: param.Time},
	}, nil)
	require.NoError(t, err)

	idx := func(name string) param.ParamIndex {
		i, ok := store.Index(name)
		require.True(t, ok)
		return i
	}

	segs := []popnet.Segment{
		popnet.NewLeafSegment(idx("twoN"), idx("t_zero"), idx("t1"), 2), // 0: A
		popnet.NewLeafSegment(idx("twoN"), idx("t_zero"), idx("t1"), 2), // 1: B
		{ // 2: AB
			TwoN: idx("twoN"), StartTime: idx("t1"), EndTime: idx("t2"),
			Parents: [2]int{4, -1}, Children: [2]int{0, 1}, MixFrac: -1,
		},
		popnet.NewLeafSegment(idx("twoN"), idx("t_zero"), idx("t2"), 4), // 3: C
		{ // 4: root
			TwoN: idx("twoN"), StartTime: idx("t2"), EndTime: idx("t_inf"),
			Parents: [2]int{-1, -1}, Children: [2]int{2, 3}, MixFrac: -1,
		},
	}

	net, err := popnet.NewNetwork(segs)
	require.NoError(t, err)

	si := popnet.NewSampleIndex([]string{"A", "B", "C"})
	require.NoError(t, si.Inject(0, "A"))
	require.NoError(t, si.Inject(1, "B"))
	require.NoError(t, si.Inject(3, "C"))
	net.InjectSamples(si)

	return net, store, si.Universe()
}

func TestRunProducesInformativePatternsAndOneRootLineage(t *testing.T) {
	net, store, universe := buildCaterpillar(t)
	table := pattern.New()
	rng := rand.New(rand.NewSource(42))

	sim := coalescent.New()
	stats, err := sim.Run(net, store, universe, table, rng, false)
	require.NoError(t, err)
	require.Equal(t, 1, stats.LineagesAtRoot)
	require.Equal(t, 1, stats.ReplicatesRun)

	require.Greater(t, table.Len(), 0, "at least one informative interval must be credited before the final merge")
	for _, k := range table.Keys() {
		require.NotEqual(t, pattern.TipId(0), k)
		require.NotEqual(t, universe, k)
		require.NotEqual(t, 1, bits.OnesCount64(uint64(k)), "singleton pattern leaked through with doSingletons=false")
		require.Greater(t, table.Get(k), 0.0)
	}
}

func TestRunWithSingletonsEnabledIncludesSingletonPatterns(t *testing.T) {
	net, store, universe := buildCaterpillar(t)
	table := pattern.New()
	rng := rand.New(rand.NewSource(7))

	sim := coalescent.New()
	_, err := sim.Run(net, store, universe, table, rng, true)
	require.NoError(t, err)

	sawSingleton := false
	for _, k := range table.Keys() {
		if bits.OnesCount64(uint64(k)) == 1 {
			sawSingleton = true
		}
	}
	require.True(t, sawSingleton, "doSingletons=true must allow singleton patterns into the table")
}

func TestRunIsDeterministicGivenSameSeed(t *testing.T) {
	net1, store1, universe := buildCaterpillar(t)
	net2, store2, _ := buildCaterpillar(t)

	table1 := pattern.New()
	table2 := pattern.New()

	coalescent.New().Run(net1, store1, universe, table1, rand.New(rand.NewSource(99)), false)
	coalescent.New().Run(net2, store2, universe, table2, rand.New(rand.NewSource(99)), false)

	require.Equal(t, table1.Keys(), table2.Keys())
	for _, k := range table1.Keys() {
		require.InDelta(t, table1.Get(k), table2.Get(k), 1e-12)
	}
}
