package lib

import (
	"math"
	"sort"
)

// A Bidomain is a compatible pair of candidate vertex sets: any v from
// left[L:L+LeftLen] may be matched with any w from right[R:R+RightLen]
// without violating the mapping built so far. IsAdjacent marks bidomains
// produced by an edge split, i.e. whose left vertices are adjacent to at
// least one already-matched vertex.
type Bidomain struct {
	L          int
	R          int
	LeftLen    int
	RightLen   int
	IsAdjacent bool
}

// Heuristic selects how the brancher scores bidomains.
type Heuristic int

const (
	// HeuristicMinMax scores a bidomain by max(LeftLen, RightLen).
	HeuristicMinMax Heuristic = iota
	// HeuristicMinProduct scores a bidomain by LeftLen * RightLen.
	HeuristicMinProduct
)

// NewBidomains builds the initial bidomain list, one per vertex label
// that occurs in both graphs, in ascending label order. The flat left and
// right buffers are returned alongside the descriptors.
func NewBidomains(g0, g1 *Graph) ([]Bidomain, []int, []int) {
	leftLabels := make(map[uint32]bool)
	rightLabels := make(map[uint32]bool)
	for _, l := range g0.Label {
		leftLabels[l] = true
	}
	for _, l := range g1.Label {
		rightLabels[l] = true
	}

	var labels []uint32
	for l := range leftLabels {
		if rightLabels[l] {
			labels = append(labels, l)
		}
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })

	var domains []Bidomain
	var left, right []int

	for _, label := range labels {
		startL := len(left)
		startR := len(right)

		for i := 0; i < g0.N; i++ {
			if g0.Label[i] == label {
				left = append(left, i)
			}
		}
		for i := 0; i < g1.N; i++ {
			if g1.Label[i] == label {
				right = append(right, i)
			}
		}

		domains = append(domains, Bidomain{startL, startR, len(left) - startL, len(right) - startR, false})
	}

	return domains, left, right
}

// CalcBound returns the upper bound on additional matchable pairs: each
// bidomain contributes at most min of its two lengths.
func CalcBound(domains []Bidomain) int {
	bound := 0
	for i := range domains {
		bound += min(domains[i].LeftLen, domains[i].RightLen)
	}

	return bound
}

// FindMinValue returns the smallest value in arr[startIdx : startIdx+length].
func FindMinValue(arr []int, startIdx, length int) int {
	minV := math.MaxInt
	for i := 0; i < length; i++ {
		if arr[startIdx+i] < minV {
			minV = arr[startIdx+i]
		}
	}

	return minV
}

// SelectBidomain picks the branching bidomain: smallest heuristic score,
// ties broken on the smallest vertex index in the left set. Under the
// connected restriction only adjacent bidomains are eligible once the
// mapping is non-empty; -1 means nothing can be branched on.
func SelectBidomain(domains []Bidomain, left []int, h Heuristic, connected bool, currentMatchingSize int) int {
	minSize := math.MaxInt
	minTieBreaker := math.MaxInt
	best := -1
	for i := range domains {
		bd := &domains[i]
		if connected && currentMatchingSize > 0 && !bd.IsAdjacent {
			continue
		}
		var score int
		if h == HeuristicMinMax {
			score = max(bd.LeftLen, bd.RightLen)
		} else {
			score = bd.LeftLen * bd.RightLen
		}
		if score < minSize {
			minSize = score
			minTieBreaker = FindMinValue(left, bd.L, bd.LeftLen)
			best = i
		} else if score == minSize {
			tieBreaker := FindMinValue(left, bd.L, bd.LeftLen)
			if tieBreaker < minTieBreaker {
				minTieBreaker = tieBreaker
				best = i
			}
		}
	}

	return best
}

// partition moves the vertices of allVv[start : start+length] with a
// non-zero entry in adjrow to the front and returns how many there are.
func partition(allVv []int, start, length int, adjrow []uint32) int {
	i := 0
	for j := 0; j < length; j++ {
		if adjrow[allVv[start+j]] != 0 {
			allVv[start+i], allVv[start+j] = allVv[start+j], allVv[start+i]
			i++
		}
	}

	return i
}

// FilterDomains derives the next-level bidomain list after matching v
// with w. Every current bidomain is split into its non-edge part and its
// edge part; in multiway mode (directed and/or edge labelled graphs) the
// edge part is further split into runs of equal arc key. The left and
// right buffers are partitioned in place.
func FilterDomains(d []Bidomain, left, right []int, g0, g1 *Graph, v, w int, multiway bool) []Bidomain {
	newD := make([]Bidomain, 0, len(d))
	for k := range d {
		oldBd := &d[k]
		l := oldBd.L
		r := oldBd.R
		// After the two partitions, leftLen and rightLen count the
		// vertices with edges from v or w (in the directed case, edges
		// either from or to v or w).
		leftLen := partition(left, l, oldBd.LeftLen, g0.AdjMat[v])
		rightLen := partition(right, r, oldBd.RightLen, g1.AdjMat[w])
		leftLenNoedge := oldBd.LeftLen - leftLen
		rightLenNoedge := oldBd.RightLen - rightLen
		if leftLenNoedge > 0 && rightLenNoedge > 0 {
			newD = append(newD, Bidomain{l + leftLen, r + rightLen, leftLenNoedge, rightLenNoedge, oldBd.IsAdjacent})
		}
		if multiway && leftLen > 0 && rightLen > 0 {
			adjrowV := g0.AdjMat[v]
			adjrowW := g1.AdjMat[w]
			sort.SliceStable(left[l:l+leftLen], func(a, b int) bool {
				return adjrowV[left[l+a]] < adjrowV[left[l+b]]
			})
			sort.SliceStable(right[r:r+rightLen], func(a, b int) bool {
				return adjrowW[right[r+a]] < adjrowW[right[r+b]]
			})
			lTop := l + leftLen
			rTop := r + rightLen
			for l < lTop && r < rTop {
				leftLabel := adjrowV[left[l]]
				rightLabel := adjrowW[right[r]]
				if leftLabel < rightLabel {
					l++
				} else if leftLabel > rightLabel {
					r++
				} else {
					lMin := l
					rMin := r
					for l++; l < lTop && adjrowV[left[l]] == leftLabel; l++ {
					}
					for r++; r < rTop && adjrowW[right[r]] == leftLabel; r++ {
					}
					newD = append(newD, Bidomain{lMin, rMin, l - lMin, r - rMin, true})
				}
			}
		} else if leftLen > 0 && rightLen > 0 {
			newD = append(newD, Bidomain{l, r, leftLen, rightLen, true})
		}
	}

	return newD
}

// IndexOfNextSmallest returns the offset of the smallest value greater
// than w within arr[startIdx : startIdx+length]. The caller guarantees
// such a value exists.
func IndexOfNextSmallest(arr []int, startIdx, length, w int) int {
	idx := -1
	smallest := math.MaxInt
	for i := 0; i < length; i++ {
		if arr[startIdx+i] > w && arr[startIdx+i] < smallest {
			smallest = arr[startIdx+i]
			idx = i
		}
	}

	return idx
}

// RemoveVtxFromLeftDomain swaps v to the end of the bidomain's left slice
// and shrinks the slice by one.
func RemoveVtxFromLeftDomain(left []int, bd *Bidomain, v int) {
	i := 0
	for left[bd.L+i] != v {
		i++
	}
	left[bd.L+i], left[bd.L+bd.LeftLen-1] = left[bd.L+bd.LeftLen-1], left[bd.L+i]
	bd.LeftLen--
}

// RemoveBidomain drops the bidomain at idx, moving the last one into its
// place.
func RemoveBidomain(domains []Bidomain, idx int) []Bidomain {
	domains[idx] = domains[len(domains)-1]

	return domains[:len(domains)-1]
}
