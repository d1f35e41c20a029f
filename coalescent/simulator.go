package coalescent

import (
	"errors"
	"math/rand"

	"github.com/alanrogers/legofit/param"
	"github.com/alanrogers/legofit/popnet"
	"github.com/alanrogers/legofit/pattern"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrCycle is returned if the network's parent/child links cannot be
// ordered leaves-to-root. popnet.NewNetwork checks arity, root count
// and edge time indices but does not search for cycles, so a cycle
// reachable from the root through Children links surfaces here, from
// Run.
var ErrCycle = errors.New("coalescent: network segments do not form a DAG rooted at the unique root")

type visitState int

const (
	white visitState = iota
	gray
	black
)

// Stats reports run-level bookkeeping not required by the pattern
// table itself, useful to callers that want a diagnostic on how many
// lineages survived to the root of a given replicate.
type Stats struct {
	LineagesAtRoot int
	ReplicatesRun  int
}

// Simulator runs one coalescent replicate at a time. It carries no
// per-run state, so a single Simulator value may be reused (but not
// shared concurrently, since Run mutates the Network it is given).
type Simulator struct{}

// New returns a ready-to-use Simulator.
func New() *Simulator { return &Simulator{} }

// Run walks net from its leaves to its root, consuming the active
// lineages InjectSamples placed at each leaf segment and accumulating
// branch lengths into table as lineages coalesce. universe is the
// bitwise-OR of every sampled lineage's TipId (popnet.SampleIndex.Universe),
// needed to decide which patterns are informative; Run does not take a
// *popnet.SampleIndex directly so that sample bookkeeping stays fully
// owned by the caller across replicates.
//
// Run never fails on the random draws it makes; it only returns an
// error if net's segments cannot be topologically ordered, which
// indicates a Network that slipped past popnet.NewNetwork's validation.
func (sim *Simulator) Run(net *popnet.Network, store *param.Store, universe pattern.TipId, table *pattern.Table, rng *rand.Rand, doSingletons bool) (Stats, error) {
	order, root, err := topoOrder(net)
	if err != nil {
		return Stats{}, err
	}

	var rootLineages int
	for _, idx := range order {
		seg := net.Segments[idx]
		lineages := append([]pattern.TipId(nil), net.Lineages(idx)...)
		isRoot := idx == root

		twoN := store.Value(seg.TwoN)
		t := store.Value(seg.StartTime)
		endTime := store.Value(seg.EndTime)

		for {
			k := len(lineages)
			if isRoot {
				if k <= 1 {
					break
				}
			} else {
				if k < 2 || t >= endTime {
					break
				}
			}

			rate := float64(k*(k-1)) / (2 * twoN)
			delta := distuv.Exponential{Rate: rate, Src: rng}.Rand()

			if !isRoot && t+delta >= endTime {
				credit(table, lineages, endTime-t, universe, doSingletons)
				t = endTime
				break
			}

			t += delta
			credit(table, lineages, delta, universe, doSingletons)

			i := rng.Intn(k)
			j := rng.Intn(k - 1)
			if j >= i {
				j++
			}
			if i > j {
				i, j = j, i
			}
			lineages[i] = lineages[i] | lineages[j]
			lineages = append(lineages[:j], lineages[j+1:]...)
		}

		if isRoot {
			rootLineages = len(lineages)
			net.SetLineages(idx, lineages)
			continue
		}

		net.SetLineages(idx, nil)
		for _, tid := range lineages {
			net.AppendLineage(route(rng, seg, store, tid), tid)
		}
	}

	return Stats{LineagesAtRoot: rootLineages, ReplicatesRun: 1}, nil
}

// route picks the index of the parent segment a surviving lineage
// moves into: for a normal boundary (one parent) that is always
// Parents[0]; for an admixture segment (two parents) each lineage
// independently draws rng.Float64() < mixFrac to decide whether it
// ascends to Parents[1] rather than Parents[0].
func route(rng *rand.Rand, seg popnet.Segment, store *param.Store, tid pattern.TipId) int {
	if seg.MixFrac == -1 {
		return seg.Parents[0]
	}
	if rng.Float64() < store.Value(seg.MixFrac) {
		return seg.Parents[1]
	}

	return seg.Parents[0]
}

// credit adds delta to table's entry for every lineage's TipId,
// skipping uninformative patterns.
func credit(table *pattern.Table, lineages []pattern.TipId, delta float64, universe pattern.TipId, doSingletons bool) {
	for _, tid := range lineages {
		if pattern.IsInformative(tid, universe, doSingletons) {
			table.Add(tid, delta)
		}
	}
}

// topoOrder returns net's segment indices ordered leaves-first, and
// the index of the root segment, via a post-order DFS from the root
// following Children links. The white/gray/black coloring mirrors
// param.Store.topoSortConstrained and catches any back-edge that would
// otherwise recurse forever.
func topoOrder(net *popnet.Network) ([]int, int, error) {
	root, err := net.Root()
	if err != nil {
		return nil, 0, err
	}

	n := len(net.Segments)
	state := make([]visitState, n)
	order := make([]int, 0, n)

	var visit func(i int) error
	visit = func(i int) error {
		switch state[i] {
		case black:
			return nil
		case gray:
			return ErrCycle
		}
		state[i] = gray
		for _, c := range net.Segments[i].Children {
			if c < 0 {
				continue
			}
			if err := visit(c); err != nil {
				return err
			}
		}
		state[i] = black
		order = append(order, i)

		return nil
	}

	if err := visit(root); err != nil {
		return nil, 0, err
	}

	return order, root, nil
}
