package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcsplit/SubgraphGo/algorithms"
	"github.com/mcsplit/SubgraphGo/lib"
)

func logActive(b bool) {
	log.SetFlags(0)
	if b {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(ioutil.Discard)
	}
}

var (
	flagQuiet          bool
	flagVerbose        bool
	flagDimacs         bool
	flagLad            bool
	flagConnected      bool
	flagDirected       bool
	flagLabelled       bool
	flagVertexLabelled bool
	flagBigFirst       bool
	flagTimeout        int
	flagThreads        int
)

var rootCmd = &cobra.Command{
	Use:   "subgraph HEURISTIC FILENAME1 FILENAME2",
	Short: "Find a maximum common induced subgraph of two graphs",
	Long: `subgraph finds a maximum common induced subgraph of two graphs with a
branch-and-bound search over compatibility bidomains.

HEURISTIC can be min_max or min_product. Graphs are read in the VF binary
format unless -d (DIMACS) or -l (LAD) is given.`,
	Args:          cobra.ExactArgs(3),
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          run,
}

func init() {
	flags := rootCmd.Flags()
	flags.BoolVarP(&flagQuiet, "quiet", "q", false, "Quiet output")
	flags.BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose output")
	flags.BoolVarP(&flagDimacs, "dimacs", "d", false, "Read DIMACS format")
	flags.BoolVarP(&flagLad, "lad", "l", false, "Read LAD format")
	flags.BoolVarP(&flagConnected, "connected", "c", false, "Solve max common CONNECTED subgraph problem")
	flags.BoolVarP(&flagDirected, "directed", "i", false, "Use directed graphs")
	flags.BoolVarP(&flagLabelled, "labelled", "a", false, "Use edge and vertex labels")
	flags.BoolVarP(&flagVertexLabelled, "vertex-labelled-only", "x", false, "Use vertex labels, but not edge labels")
	flags.BoolVarP(&flagBigFirst, "big-first", "b", false,
		"First try to find an induced subgraph isomorphism, then decrement the target size")
	flags.IntVarP(&flagTimeout, "timeout", "t", 0, "Specify a timeout (seconds)")
	flags.IntVarP(&flagThreads, "threads", "T", runtime.NumCPU(), "Specify how many threads to use")

	rootCmd.MarkFlagsMutuallyExclusive("dimacs", "lad")
	rootCmd.MarkFlagsMutuallyExclusive("connected", "directed")
	rootCmd.MarkFlagsMutuallyExclusive("labelled", "vertex-labelled-only")
}

func run(cmd *cobra.Command, args []string) error {
	logActive(flagVerbose)

	var heuristic lib.Heuristic
	switch args[0] {
	case "min_max":
		heuristic = lib.HeuristicMinMax
	case "min_product":
		heuristic = lib.HeuristicMinProduct
	default:
		return fmt.Errorf("unknown heuristic %q (try min_max or min_product)", args[0])
	}

	opts := algorithms.Options{
		Quiet:          flagQuiet,
		Connected:      flagConnected,
		Directed:       flagDirected,
		EdgeLabelled:   flagLabelled,
		VertexLabelled: flagLabelled || flagVertexLabelled,
		BigFirst:       flagBigFirst,
		Heuristic:      heuristic,
		Threads:        flagThreads,
		Timeout:        time.Duration(flagTimeout) * time.Second,
	}

	format := lib.FormatVf
	if flagDimacs {
		format = lib.FormatDimacs
	} else if flagLad {
		format = lib.FormatLad
	}

	g0, err := readGraph(args[1], format, opts)
	if err != nil {
		return err
	}
	g1, err := readGraph(args[2], format, opts)
	if err != nil {
		return err
	}

	start := time.Now()

	// Sort the vertices of each graph by degree before searching.
	// Branching on high-degree vertices of the sparser side first
	// maximises early pruning; the order flips when the other graph is
	// dense so that behaviour stays symmetric.
	g0Deg := g0.Degrees()
	g1Deg := g1.Degrees()

	vv0 := vertexOrder(g0.N, g0Deg, lib.Dense(g1Deg, g1.N))
	vv1 := vertexOrder(g1.N, g1Deg, lib.Dense(g0Deg, g0.N))

	g0Sorted := g0.InducedSubgraph(vv0)
	g1Sorted := g1.InducedSubgraph(vv1)

	m := &algorithms.McSplit{G0: g0Sorted, G1: g1Sorted, Opts: opts}
	log.Println("Running", m.Name(), "on", args[1], "and", args[2])
	solution := m.FindMCS()

	// Convert back to indices of the original, unsorted graphs.
	for i := range solution.Mapping {
		solution.Mapping[i].V = vv0[solution.Mapping[i].V]
		solution.Mapping[i].W = vv1[solution.Mapping[i].W]
	}

	elapsed := time.Now().Sub(start)

	if !lib.CheckSol(&g0, &g1, solution.Mapping) {
		return fmt.Errorf("invalid solution produced for %s and %s", args[1], args[2])
	}
	if flagConnected && !lib.CheckConnected(&g1, solution.Mapping) {
		return fmt.Errorf("disconnected solution produced for %s and %s", args[1], args[2])
	}

	fmt.Println("Solution size", len(solution.Mapping))
	for i := 0; i < g0.N; i++ {
		for _, p := range solution.Mapping {
			if p.V == i {
				fmt.Printf("(%d -> %d) ", p.V, p.W)
			}
		}
	}
	fmt.Println()

	fmt.Println("Nodes:                     ", solution.Nodes)
	fmt.Println("CPU time (ms):             ", elapsed.Milliseconds())
	if solution.Aborted {
		fmt.Println("TIMEOUT")
	}

	return nil
}

// vertexOrder returns the identity permutation of n vertices, stably
// sorted ascending by degree if the other graph is dense and descending
// otherwise.
func vertexOrder(n int, deg []int, otherDense bool) []int {
	vv := make([]int, n)
	for i := range vv {
		vv[i] = i
	}
	sort.SliceStable(vv, func(a, b int) bool {
		if otherDense {
			return deg[vv[a]] < deg[vv[b]]
		}
		return deg[vv[a]] > deg[vv[b]]
	})

	return vv
}

func readGraph(filename string, format lib.Format, opts algorithms.Options) (lib.Graph, error) {
	dat, err := ioutil.ReadFile(filename)
	if err != nil {
		return lib.Graph{}, err
	}

	g, err := lib.GetGraph(dat, format, opts.Directed, opts.EdgeLabelled, opts.VertexLabelled)
	if err != nil {
		return lib.Graph{}, fmt.Errorf("%s: %w", filename, err)
	}

	return g, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
