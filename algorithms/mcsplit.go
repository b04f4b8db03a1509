package algorithms

// Branch-and-bound search for a maximum common induced subgraph, using
// bidomain partition refinement and near-root work sharing.

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	. "github.com/mcsplit/SubgraphGo/lib"
)

// Options configures a McSplit run.
type Options struct {
	Quiet          bool
	Connected      bool
	Directed       bool
	EdgeLabelled   bool
	VertexLabelled bool
	BigFirst       bool
	Heuristic      Heuristic
	Threads        int
	Timeout        time.Duration
}

// A Solution is the result of a search: the best mapping found, the
// number of search nodes visited across all workers, the elapsed wall
// time, and whether the search was cut short by the timeout.
type Solution struct {
	Mapping []VtxPair
	Nodes   uint64
	Elapsed time.Duration
	Aborted bool
}

// McSplit finds a maximum common induced subgraph of G0 and G1, or a
// maximum common connected subgraph under Options.Connected. Both graphs
// must already be in search order (see the preorder in the driver).
type McSplit struct {
	G0   Graph
	G1   Graph
	Opts Options

	aborted int32
}

// Name returns the name of the algorithm.
func (m *McSplit) Name() string {
	return "McSplit"
}

func (m *McSplit) multiway() bool {
	return m.Opts.Directed || m.Opts.EdgeLabelled
}

// solveNopar is the purely sequential search below the work-sharing
// depth. It mutates left and right in place; the refinement only
// reorders vertices within their parent slices, so the caller's view
// stays consistent on return.
func (m *McSplit) solveNopar(depth int, gi *AtomicIncumbent, ws *workerState,
	current []VtxPair, domains []Bidomain, left, right []int, goal int) {
	if atomic.LoadInt32(&m.aborted) != 0 {
		return
	}

	ws.nodes++

	if len(ws.incumbent) < len(current) {
		ws.incumbent = append([]VtxPair(nil), current...)
		gi.Update(len(current))
	}

	bound := len(current) + CalcBound(domains)
	if bound <= gi.Get() || bound < goal {
		return
	}

	if m.Opts.BigFirst && gi.Get() == goal {
		return
	}

	bdIdx := SelectBidomain(domains, left, m.Opts.Heuristic, m.Opts.Connected, len(current))
	if bdIdx == -1 { // in the connected case there may be nothing left to branch on
		return
	}
	bd := &domains[bdIdx]

	bd.RightLen--
	v := FindMinValue(left, bd.L, bd.LeftLen)
	RemoveVtxFromLeftDomain(left, bd, v)
	w := -1
	iEnd := bd.RightLen + 2 // including the null assignment

	for i := 0; i < iEnd; i++ {
		if i != iEnd-1 {
			idx := IndexOfNextSmallest(right, bd.R, bd.RightLen+1, w)
			w = right[bd.R+idx]

			// swap w to the end of its colour class
			right[bd.R+idx] = right[bd.R+bd.RightLen]
			right[bd.R+bd.RightLen] = w

			newDomains := FilterDomains(domains, left, right, &m.G0, &m.G1, v, w, m.multiway())
			m.solveNopar(depth+1, gi, ws, append(current, VtxPair{V: v, W: w}), newDomains, left, right, goal)
		} else {
			// The last assignment is the null one, rejecting v. Keeping
			// it inside the loop keeps branch indexing uniform with the
			// parallel version.
			bd.RightLen++
			if bd.LeftLen == 0 {
				domains = RemoveBidomain(domains, bdIdx)
			}
			m.solveNopar(depth+1, gi, ws, current, domains, left, right, goal)
		}
	}
}

// solve is the work-sharing search used near the root. At depth at most
// SplitLevels the frame advertises itself under its Position; helpers
// replay the frame from a snapshot and claim sibling branches through a
// shared atomic counter, so no branch runs twice and none is skipped.
func (m *McSplit) solve(depth int, gi *AtomicIncumbent, ws *workerState,
	current []VtxPair, domains []Bidomain, left, right []int, goal int,
	pos Position, help *HelpMe) {
	if atomic.LoadInt32(&m.aborted) != 0 {
		return
	}

	ws.nodes++

	if len(ws.incumbent) < len(current) {
		ws.incumbent = append([]VtxPair(nil), current...)
		gi.Update(len(current))
	}

	bound := len(current) + CalcBound(domains)
	if bound <= gi.Get() || bound < goal {
		return
	}

	if m.Opts.BigFirst && gi.Get() == goal {
		return
	}

	bdIdx := SelectBidomain(domains, left, m.Opts.Heuristic, m.Opts.Connected, len(current))
	if bdIdx == -1 { // in the connected case there may be nothing left to branch on
		return
	}
	bd := &domains[bdIdx]

	bd.RightLen--
	var sharedI int32
	iEnd := bd.RightLen + 2 // including the null assignment

	// Snapshot the frame before the main loop mutates it. Helpers replay
	// from the snapshot, so no traversal state is shared.
	snapCurrent := append([]VtxPair(nil), current...)
	snapDomains := append([]Bidomain(nil), domains...)
	snapLeft := append([]int(nil), left...)
	snapRight := append([]int(nil), right...)

	helperFn := func(hws *workerState) {
		whichI := int(atomic.AddInt32(&sharedI, 1)) - 1
		if whichI >= iEnd {
			return // don't waste time recomputing
		}

		// recalculate to this point
		helpCurrent := append([]VtxPair(nil), snapCurrent...)
		helpDomains := append([]Bidomain(nil), snapDomains...)
		helpLeft := append([]int(nil), snapLeft...)
		helpRight := append([]int(nil), snapRight...)

		// rerun the frame setup from before the loop
		helpBdIdx := SelectBidomain(helpDomains, helpLeft, m.Opts.Heuristic, m.Opts.Connected, len(helpCurrent))
		if helpBdIdx == -1 {
			return
		}
		helpBd := &helpDomains[helpBdIdx]

		helpV := FindMinValue(helpLeft, helpBd.L, helpBd.LeftLen)
		RemoveVtxFromLeftDomain(helpLeft, helpBd, helpV)
		helpW := -1

		for i := 0; i < iEnd; i++ {
			if i != iEnd-1 {
				idx := IndexOfNextSmallest(helpRight, helpBd.R, helpBd.RightLen+1, helpW)
				helpW = helpRight[helpBd.R+idx]

				helpRight[helpBd.R+idx] = helpRight[helpBd.R+helpBd.RightLen]
				helpRight[helpBd.R+helpBd.RightLen] = helpW

				if i == whichI {
					whichI = int(atomic.AddInt32(&sharedI, 1)) - 1
					newDomains := FilterDomains(helpDomains, helpLeft, helpRight, &m.G0, &m.G1, helpV, helpW, m.multiway())
					next := append(helpCurrent, VtxPair{V: helpV, W: helpW})
					if depth > SplitLevels {
						m.solveNopar(depth+1, gi, hws, next, newDomains, helpLeft, helpRight, goal)
					} else {
						newPos := pos
						newPos.Add(depth, i+1)
						m.solve(depth+1, gi, hws, next, newDomains, helpLeft, helpRight, goal, newPos, help)
					}
				}
			} else {
				helpBd.RightLen++
				if helpBd.LeftLen == 0 {
					helpDomains = RemoveBidomain(helpDomains, helpBdIdx)
				}

				if i == whichI {
					whichI = int(atomic.AddInt32(&sharedI, 1)) - 1
					if depth > SplitLevels {
						m.solveNopar(depth+1, gi, hws, helpCurrent, helpDomains, helpLeft, helpRight, goal)
					} else {
						newPos := pos
						newPos.Add(depth, i+1)
						m.solve(depth+1, gi, hws, helpCurrent, helpDomains, helpLeft, helpRight, goal, newPos, help)
					}
				}
			}
		}
	}

	// Grab the first branch before advertising that we can get help.
	whichI := int(atomic.AddInt32(&sharedI, 1)) - 1

	mainFn := func(mws *workerState) {
		v := FindMinValue(left, bd.L, bd.LeftLen)
		RemoveVtxFromLeftDomain(left, bd, v)
		w := -1

		for i := 0; i < iEnd; i++ {
			if i != iEnd-1 {
				idx := IndexOfNextSmallest(right, bd.R, bd.RightLen+1, w)
				w = right[bd.R+idx]

				// swap w to the end of its colour class
				right[bd.R+idx] = right[bd.R+bd.RightLen]
				right[bd.R+bd.RightLen] = w

				if i == whichI {
					whichI = int(atomic.AddInt32(&sharedI, 1)) - 1
					newDomains := FilterDomains(domains, left, right, &m.G0, &m.G1, v, w, m.multiway())
					next := append(current, VtxPair{V: v, W: w})
					if depth > SplitLevels {
						m.solveNopar(depth+1, gi, mws, next, newDomains, left, right, goal)
					} else {
						newPos := pos
						newPos.Add(depth, i+1)
						m.solve(depth+1, gi, mws, next, newDomains, left, right, goal, newPos, help)
					}
				}
			} else {
				bd.RightLen++
				if bd.LeftLen == 0 {
					domains = RemoveBidomain(domains, bdIdx)
				}

				if i == whichI {
					whichI = int(atomic.AddInt32(&sharedI, 1)) - 1
					if depth > SplitLevels {
						m.solveNopar(depth+1, gi, mws, current, domains, left, right, goal)
					} else {
						newPos := pos
						newPos.Add(depth, i+1)
						m.solve(depth+1, gi, mws, current, domains, left, right, goal, newPos, help)
					}
				}
			}
		}
	}

	if depth <= SplitLevels {
		help.GetHelpWith(pos, mainFn, helperFn, ws)
	} else {
		mainFn(ws)
	}
}

// FindMCS runs the search and returns the best mapping. In big-first
// mode the target size starts at the full size of G0 and decrements until
// the incumbent reaches it, which finds induced subgraph isomorphisms
// without exploring the full search space.
func (m *McSplit) FindMCS() Solution {
	start := time.Now()
	atomic.StoreInt32(&m.aborted, 0)

	threads := m.Opts.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	var timerDone chan struct{}
	if m.Opts.Timeout > 0 {
		timerDone = make(chan struct{})
		go func() {
			select {
			case <-time.After(m.Opts.Timeout):
				atomic.StoreInt32(&m.aborted, 1)
			case <-timerDone:
			}
		}()
	}

	domains, left, right := NewBidomains(&m.G0, &m.G1)

	var globalIncumbent AtomicIncumbent
	var incumbent []VtxPair
	var globalNodes uint64

	runPass := func(goal int, domains []Bidomain, left, right []int) {
		mainWS := &workerState{}
		help := NewHelpMe(threads - 1)
		m.solve(0, &globalIncumbent, mainWS, nil, domains, left, right, goal, Position{}, help)
		help.KillWorkers()

		globalNodes += mainWS.nodes
		if len(mainWS.incumbent) > len(incumbent) {
			incumbent = mainWS.incumbent
		}
		for _, hws := range help.workers {
			globalNodes += hws.nodes
			if len(hws.incumbent) > len(incumbent) {
				incumbent = hws.incumbent
			}
		}
	}

	if m.Opts.BigFirst {
		for k := 0; k < m.G0.N; k++ {
			goal := m.G0.N - k
			leftCopy := append([]int(nil), left...)
			rightCopy := append([]int(nil), right...)
			domainsCopy := append([]Bidomain(nil), domains...)
			runPass(goal, domainsCopy, leftCopy, rightCopy)
			if globalIncumbent.Get() == goal || atomic.LoadInt32(&m.aborted) != 0 {
				break
			}
			if !m.Opts.Quiet {
				fmt.Println("Upper bound:", goal-1)
			}
		}
	} else {
		runPass(1, domains, left, right)
	}

	if timerDone != nil {
		close(timerDone)
	}

	return Solution{
		Mapping: incumbent,
		Nodes:   globalNodes,
		Elapsed: time.Since(start),
		Aborted: atomic.LoadInt32(&m.aborted) != 0,
	}
}
