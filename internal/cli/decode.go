package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/treeproj/arborescence"
	"github.com/katalvlaran/treeproj/conll"
	"github.com/katalvlaran/treeproj/internal/config"
	"github.com/katalvlaran/treeproj/normalize"
	"github.com/katalvlaran/treeproj/pipeline"
)

var decodeBindings = binding{
	"norm":             "decode.norm",
	"minimize":         "decode.minimize",
	"greedy-root":      "decode.greedy_root",
	"path-compression": "decode.path_compression",
	"low-confidence":   "decode.low_confidence",
	"workers":          "decode.workers",
}

func newDecodeCommand() *cobra.Command {
	var input, output string
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode the best tree of every graph in a head:confidence CoNLL file",
		Long: `decode reads sentences whose columns 9 onward hold "head:confidence"
pairs, finds the best spanning tree rooted at 0 for each, and writes
CoNLL-2006 with the decoded heads. Sentences without a tree get "_" heads.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd, decodeBindings)
			if err != nil {
				return err
			}
			return runDecode(cmd, e, input, output)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&input, "input", "i", "-", "graph CoNLL file")
	f.StringVarP(&output, "output", "o", "-", "output file")
	f.String("norm", "", "policy applied to each graph before decoding")
	f.Bool("minimize", false, "find the minimum instead of the maximum tree")
	f.Bool("greedy-root", false, "keep only the strongest root attachment")
	f.Bool("path-compression", false, "compress union-find paths during contraction")
	f.Float64("low-confidence", 0, "warn about chosen arcs weaker than this")
	f.Int("workers", 0, "sentences decoded in parallel (0: GOMAXPROCS)")

	return cmd
}

func buildDecodePipeline(cfg config.DecodeConfig) (pipeline.Pipeline, error) {
	policy, err := normalize.ByName(cfg.Norm, normalize.Params{})
	if err != nil {
		return pipeline.Pipeline{}, err
	}
	var opts []arborescence.Option
	if cfg.Minimize {
		opts = append(opts, arborescence.WithMinimize())
	}
	if cfg.GreedyRoot {
		opts = append(opts, arborescence.WithGreedyRoot())
	}
	if cfg.PathCompression {
		opts = append(opts, arborescence.WithPathCompression())
	}
	if cfg.LowConfidence != 0 {
		opts = append(opts, arborescence.WithLowConfidence(cfg.LowConfidence))
	}

	return pipeline.Pipeline{After: policy, Decoder: arborescence.New(opts...)}, nil
}

func runDecode(cmd *cobra.Command, e *env, input, output string) error {
	pl, err := buildDecodePipeline(e.cfg.Decode)
	if err != nil {
		return err
	}
	sents, err := readConll(cmd, input, conll.Graph)
	if err != nil {
		return err
	}

	items := make([]pipeline.Item, len(sents))
	for i, s := range sents {
		items[i] = pipeline.Item{ID: i, Source: s.Graph}
	}
	outcomes := pipeline.NewRunner(pl, pipeline.WithWorkers(e.cfg.Decode.Workers), pipeline.WithLogger(e.log)).
		RunBatch(cmd.Context(), items)

	out, err := openOutput(cmd, output)
	if err != nil {
		return err
	}
	defer out.Close()
	cw := conll.NewWriter(out)
	var warnings int
	for i, s := range sents {
		var heads []int
		if res := outcomes[i].Result; res != nil && res.Tree != nil {
			heads = res.Tree.Heads
			warnings += len(res.Tree.Warnings)
		}
		if err = cw.WriteSentence(s.Tokens, heads, nil); err != nil {
			return fmt.Errorf("sentence %d: %w", i, err)
		}
	}
	e.log.Info("decode written", "sentences", len(sents), "warnings", warnings)

	return cw.Flush()
}
