package lib

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/alecthomas/participle"
)

// Format selects one of the supported graph file formats.
type Format byte

const (
	FormatDimacs Format = 'D'
	FormatLad    Format = 'L'
	FormatVf     Format = 'B'
)

type ParseProblem struct {
	N int `"p" "edge" @Int`
	M int `@Int`
}

type ParseEdge struct {
	V int `"e" @Int`
	W int `@Int`
}

type ParseVtxLabel struct {
	V int `"n" @Int`
	L int `@Int`
}

type ParseLine struct {
	Problem  *ParseProblem  `  @@`
	Edge     *ParseEdge     `| @@`
	VtxLabel *ParseVtxLabel `| @@`
}

type ParseDimacs struct {
	Lines []ParseLine `( @@ )*`
}

var dimacsParser = participle.MustBuild(&ParseDimacs{}, participle.UseLookahead(1))

// stripComments drops DIMACS comment lines; their free text would not
// survive the lexer.
func stripComments(s string) string {
	lines := strings.Split(s, "\n")
	var kept []string
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if trimmed == "" || trimmed[0] == 'c' {
			continue
		}
		kept = append(kept, l)
	}

	return strings.Join(kept, "\n")
}

// GetDimacsGraph parses the ASCII DIMACS format: one "p edge N M" header,
// "e A B" edge lines (1-indexed, loops forbidden) and optional "n V L"
// vertex label lines.
func GetDimacsGraph(s string, directed, vertexLabelled bool) (Graph, error) {
	pgraph := ParseDimacs{}
	if err := dimacsParser.ParseString(stripComments(s), &pgraph); err != nil {
		return Graph{}, fmt.Errorf("%w: %v", ErrBadLine, err)
	}

	g := NewGraph(0)
	seenHeader := false
	medges := 0
	edgesRead := 0

	for _, line := range pgraph.Lines {
		switch {
		case line.Problem != nil:
			if seenHeader {
				return Graph{}, fmt.Errorf("%w: multiple 'p' lines", ErrBadHeader)
			}
			seenHeader = true
			medges = line.Problem.M
			g = NewGraph(line.Problem.N)
		case line.Edge != nil:
			v, w := line.Edge.V, line.Edge.W
			if !seenHeader {
				return Graph{}, fmt.Errorf("%w: edge before 'p' line", ErrBadHeader)
			}
			if v < 1 || w < 1 || v > g.N || w > g.N {
				return Graph{}, fmt.Errorf("%w: edge %d %d", ErrVertexRange, v, w)
			}
			if v == w {
				return Graph{}, fmt.Errorf("%w: edge %d %d", ErrLoop, v, w)
			}
			if directed && g.AdjMat[v-1][w-1]&0xFFFF != 0 {
				return Graph{}, fmt.Errorf("%w: edge %d %d", ErrDuplicateEdge, v, w)
			}
			g.AddEdge(v-1, w-1, directed, 1)
			edgesRead++
		case line.VtxLabel != nil:
			v := line.VtxLabel.V
			if !seenHeader || v < 1 || v > g.N {
				return Graph{}, fmt.Errorf("%w: label for vertex %d", ErrVertexRange, v)
			}
			if vertexLabelled {
				g.Label[v-1] |= uint32(line.VtxLabel.L)
			}
		}
	}

	if !seenHeader {
		return Graph{}, ErrBadHeader
	}
	if medges > 0 && edgesRead != medges {
		return Graph{}, fmt.Errorf("%w: header declares %d, read %d", ErrEdgeCount, medges, edgesRead)
	}

	return g, nil
}

// GetLadGraph parses the LAD format: vertex count, then for each vertex
// its neighbour count followed by that many 0-indexed neighbours.
func GetLadGraph(s string, directed bool) (Graph, error) {
	r := strings.NewReader(s)

	var nvertices int
	if _, err := fmt.Fscan(r, &nvertices); err != nil {
		return Graph{}, fmt.Errorf("%w: vertex count: %v", ErrBadHeader, err)
	}
	if nvertices < 0 {
		return Graph{}, fmt.Errorf("%w: negative vertex count %d", ErrBadHeader, nvertices)
	}
	g := NewGraph(nvertices)

	for i := 0; i < nvertices; i++ {
		var edgeCount int
		if _, err := fmt.Fscan(r, &edgeCount); err != nil {
			return Graph{}, fmt.Errorf("%w: neighbour count of vertex %d: %v", ErrTruncated, i, err)
		}
		for j := 0; j < edgeCount; j++ {
			var w int
			if _, err := fmt.Fscan(r, &w); err != nil {
				return Graph{}, fmt.Errorf("%w: neighbour %d of vertex %d: %v", ErrTruncated, j, i, err)
			}
			if w < 0 || w >= nvertices {
				return Graph{}, fmt.Errorf("%w: neighbour %d of vertex %d", ErrVertexRange, w, i)
			}
			g.AddEdge(i, w, directed, 1)
		}
	}

	var rest string
	if _, err := fmt.Fscan(r, &rest); err == nil {
		return Graph{}, fmt.Errorf("%w: %q", ErrTrailingData, rest)
	}

	return g, nil
}

// labelBits derives the label bit-width for a VF binary file on n
// vertices. The width trails the doubling by one step: the step that
// reaches the 33% threshold keeps the previous exponent.
func labelBits(n int) uint {
	m := n * 33 / 100
	p := 1
	k1 := uint(0)
	k2 := uint(0)
	for p < m && k1 < 16 {
		p *= 2
		k1 = k2
		k2++
	}

	return k1
}

// GetVfGraph parses the VF binary format: little-endian 16-bit words
// holding the vertex count, one label word per vertex, then per vertex a
// length word followed by (target, label) word pairs.
func GetVfGraph(dat []byte, directed, edgeLabelled, vertexLabelled bool) (Graph, error) {
	pos := 0
	readWord := func() (uint32, error) {
		if pos+2 > len(dat) {
			return 0, ErrTruncated
		}
		w := uint32(binary.LittleEndian.Uint16(dat[pos:]))
		pos += 2
		return w, nil
	}

	nword, err := readWord()
	if err != nil {
		return Graph{}, fmt.Errorf("%w: vertex count", ErrTruncated)
	}
	g := NewGraph(int(nword))
	k := labelBits(g.N)

	for i := 0; i < g.N; i++ {
		raw, err := readWord()
		if err != nil {
			return Graph{}, fmt.Errorf("%w: label of vertex %d", ErrTruncated, i)
		}
		if vertexLabelled {
			g.Label[i] |= raw >> (16 - k)
		}
	}

	for i := 0; i < g.N; i++ {
		length, err := readWord()
		if err != nil {
			return Graph{}, fmt.Errorf("%w: neighbour count of vertex %d", ErrTruncated, i)
		}
		for j := uint32(0); j < length; j++ {
			target, err := readWord()
			if err != nil {
				return Graph{}, fmt.Errorf("%w: neighbour %d of vertex %d", ErrTruncated, j, i)
			}
			raw, err := readWord()
			if err != nil {
				return Graph{}, fmt.Errorf("%w: label of arc %d -> %d", ErrTruncated, i, target)
			}
			if int(target) >= g.N {
				return Graph{}, fmt.Errorf("%w: neighbour %d of vertex %d", ErrVertexRange, target, i)
			}
			label := uint32(1)
			if edgeLabelled {
				label = raw>>(16-k) + 1
			}
			g.AddEdge(i, int(target), directed, label)
		}
	}

	return g, nil
}

// GetGraph reads a graph in the given format from raw file contents.
func GetGraph(dat []byte, format Format, directed, edgeLabelled, vertexLabelled bool) (Graph, error) {
	switch format {
	case FormatDimacs:
		return GetDimacsGraph(string(dat), directed, vertexLabelled)
	case FormatLad:
		return GetLadGraph(string(dat), directed)
	case FormatVf:
		return GetVfGraph(dat, directed, edgeLabelled, vertexLabelled)
	}

	return Graph{}, ErrUnknownFormat
}
