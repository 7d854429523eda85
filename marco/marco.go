package marco

import (
	"io"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"graphclass/graph"
)

type IntSet mapset.Set[int]

// Conflict is one connected group of minimal unsatisfiable subsets, with the
// correction sets restricted to the rules involved.
type Conflict struct {
	MCSs          []IntSet
	MSSs          []IntSet
	MUSs          []IntSet
	CriticalNodes []int
}

func NewIntSet(vals ...int) IntSet {
	return IntSet(mapset.NewSet[int](vals...))
}

// SatFunc reports whether the given subset of rule ids is satisfiable.
type SatFunc func(rules []int) (bool, error)

// Marco enumerates the maximal satisfiable (MSS) and minimal unsatisfiable
// (MUS) subsets of a set of rule ids. Ids must be non-zero.
type Marco struct {
	Rules       IntSet
	MUSs        []IntSet
	MCSs        []IntSet
	MSSs        []IntSet
	MaxLoop     int
	LoopCounter int
	SatFunc     SatFunc
	Solver      MapSolver
	Logger      logrus.FieldLogger
}

func NewMarco(rules []int, satFunc SatFunc) *Marco {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	marco := Marco{
		Rules:       NewIntSet(rules...),
		MUSs:        []IntSet{},
		MCSs:        []IntSet{},
		MSSs:        []IntSet{},
		MaxLoop:     1000,
		LoopCounter: 0,
		SatFunc:     satFunc,
		Solver:      NewMaxsatSolver(NewIntSet(rules...)),
		Logger:      logger,
	}
	return &marco
}

func (m *Marco) Grow(seed IntSet) (IntSet, error) {
	for _, elem := range sorted(m.Rules.Difference(seed)) {
		newSet := seed.Clone()
		newSet.Add(elem)
		sat, err := m.Sat(newSet)
		if err != nil {
			return nil, err
		}
		if sat {
			seed.Add(elem)
		}
	}
	return seed, nil
}

func (m *Marco) Shrink(seed IntSet) (IntSet, error) {
	for _, elem := range sorted(seed.Clone()) {
		newSet := seed.Difference(NewIntSet(elem))
		sat, err := m.Sat(newSet)
		if err != nil {
			return nil, err
		}
		if !sat {
			seed.Remove(elem)
		}
	}
	return seed, nil
}

func (m *Marco) Sat(rules IntSet) (bool, error) {
	return m.SatFunc(sorted(rules))
}

func (m *Marco) Run() error {
	if m.Rules.IsEmpty() {
		return nil
	}
	successful := m.Solver.Solve()
	for successful {
		if m.LoopCounter >= m.MaxLoop {
			return errors.Errorf("no fixpoint after %d iterations", m.MaxLoop)
		}

		seed := m.Solver.Model()
		m.Logger.WithField("seed", sorted(seed)).Debug("marco iteration")

		sat, err := m.Sat(seed)
		if err != nil {
			return err
		}
		if sat {
			mss, err := m.Grow(seed)
			if err != nil {
				return err
			}
			m.MSSs = append(m.MSSs, mss)

			mcs := m.Rules.Difference(mss)
			if mcs.IsEmpty() {
				// Every rule holds together: there is nothing left to find.
				break
			}
			m.Solver.AddClause(mcs)
		} else {
			mus, err := m.Shrink(seed)
			if err != nil {
				return err
			}
			if mus.IsEmpty() {
				return errors.New("the empty rule set is unsatisfiable")
			}
			m.MUSs = append(m.MUSs, mus)
			var negs IntSet = NewIntSet()
			for v := range mus.Iter() {
				negs.Add(-v)
			}
			m.Solver.AddClause(negs)
		}
		successful = m.Solver.Solve()
		m.LoopCounter = m.LoopCounter + 1
	}
	return nil
}

func combinations(input []int) [][]int {
	var results [][]int
	for i := 0; i < len(input); i++ {
		for j := i + 1; j < len(input); j++ {
			results = append(results, []int{input[i], input[j]})
		}
	}
	return results
}

func (m *Marco) Analysis() []Conflict {
	m.MCSs = m.MCSs[:0]
	for _, mss := range m.MSSs {
		m.MCSs = append(m.MCSs, m.Rules.Difference(mss))
	}

	musIndexList := make([]int, len(m.MUSs))
	for i := range musIndexList {
		musIndexList[i] = i
	}
	musGraph := graph.NewGraph(len(musIndexList))
	for _, combination := range combinations(musIndexList) {
		index1 := combination[0]
		mus1 := m.MUSs[index1]

		index2 := combination[1]
		mus2 := m.MUSs[index2]

		if !mus1.Intersect(mus2).IsEmpty() {
			musGraph.AddEdge(index1, index2)
		}
	}

	count, components := musGraph.CountAndGetConnectedComponents()
	m.Logger.WithField("components", count).Debug("grouped unsatisfiable subsets")

	conflicts := make([]Conflict, 0, count)
	for i := 1; i <= count; i++ {
		component := components[i]
		musList := make([]IntSet, 0)
		mssList := make([]IntSet, 0)
		mcsList := make([]IntSet, 0)
		for _, musId := range component {
			musList = append(musList, m.MUSs[musId])
		}

		criticalNodes := NewIntSet()
		for _, mus := range musList {
			criticalNodes = criticalNodes.Union(mus)
		}
		for _, mcs := range m.MCSs {
			reduced := mcs.Intersect(criticalNodes)
			if reduced.IsEmpty() {
				continue
			}
			exist := false
			for _, included := range mcsList {
				if reduced.Equal(included) {
					exist = true
					break
				}
			}
			if !exist {
				mcsList = append(mcsList, reduced)
			}
		}

		for _, mcs := range mcsList {
			mssList = append(mssList, criticalNodes.Difference(mcs))
		}

		conflicts = append(conflicts, Conflict{
			MCSs:          mcsList,
			MSSs:          mssList,
			MUSs:          musList,
			CriticalNodes: sorted(criticalNodes),
		})
	}
	return conflicts
}

func sorted(s IntSet) []int {
	out := s.ToSlice()
	slices.Sort(out)
	return out
}
