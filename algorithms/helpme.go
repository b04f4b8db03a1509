package algorithms

import (
	"sync"

	. "github.com/mcsplit/SubgraphGo/lib"
)

// A workerState is the private search state of one participant: its best
// mapping so far and its node counter. States are never shared between
// goroutines; they are merged after the pool shuts down.
type workerState struct {
	incumbent []VtxPair
	nodes     uint64
}

type taskFunc func(ws *workerState)

// A task is one donating frame: helpers that claim it replay the frame
// from the captured buffers and race through its branches. fn is cleared
// once a claimant returns; pending counts claimants still inside.
type task struct {
	pos     Position
	fn      taskFunc
	pending int
}

// HelpMe runs the helper side of the donor protocol: idle workers block
// on one condition variable and claim advertised tasks in Position order.
type HelpMe struct {
	mu      sync.Mutex
	cv      *sync.Cond
	tasks   []*task
	finish  bool
	wg      sync.WaitGroup
	workers []*workerState
}

// NewHelpMe starts nThreads helper goroutines.
func NewHelpMe(nThreads int) *HelpMe {
	h := &HelpMe{}
	h.cv = sync.NewCond(&h.mu)
	for t := 0; t < nThreads; t++ {
		ws := &workerState{}
		h.workers = append(h.workers, ws)
		h.wg.Add(1)
		go h.helperLoop(ws)
	}

	return h
}

func (h *HelpMe) helperLoop(ws *workerState) {
	defer h.wg.Done()

	h.mu.Lock()
	for !h.finish {
		didSomething := false
		for _, t := range h.tasks {
			if t.fn != nil {
				fn := t.fn
				t.pending++
				h.mu.Unlock()

				fn(ws)

				h.mu.Lock()
				t.fn = nil
				t.pending--
				if t.pending == 0 {
					h.cv.Broadcast()
				}
				didSomething = true
				break
			}
		}

		if !didSomething && !h.finish {
			h.cv.Wait()
		}
	}
	h.mu.Unlock()
}

// GetHelpWith advertises a donating frame at the given position, runs the
// main branch loop in the calling goroutine, then blocks until every
// helper that claimed the task has returned.
func (h *HelpMe) GetHelpWith(pos Position, mainFn, helperFn taskFunc, ws *workerState) {
	t := &task{pos: pos, fn: helperFn}

	h.mu.Lock()
	idx := len(h.tasks)
	for i, other := range h.tasks {
		if pos.Less(other.pos) {
			idx = i
			break
		}
	}
	h.tasks = append(h.tasks, nil)
	copy(h.tasks[idx+1:], h.tasks[idx:])
	h.tasks[idx] = t
	h.cv.Broadcast()
	h.mu.Unlock()

	mainFn(ws)

	h.mu.Lock()
	for t.pending != 0 {
		h.cv.Wait()
	}
	for i, other := range h.tasks {
		if other == t {
			h.tasks = append(h.tasks[:i], h.tasks[i+1:]...)
			break
		}
	}
	h.mu.Unlock()
}

// KillWorkers signals the helpers to exit and waits for them. The
// per-helper states stay readable afterwards for reconciliation.
func (h *HelpMe) KillWorkers() {
	h.mu.Lock()
	h.finish = true
	h.cv.Broadcast()
	h.mu.Unlock()

	h.wg.Wait()
}
