package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/treeproj/align"
	"github.com/katalvlaran/treeproj/arborescence"
	"github.com/katalvlaran/treeproj/conll"
	"github.com/katalvlaran/treeproj/digraph"
	"github.com/katalvlaran/treeproj/internal/config"
	"github.com/katalvlaran/treeproj/normalize"
	"github.com/katalvlaran/treeproj/pipeline"
	"github.com/katalvlaran/treeproj/project"
	"github.com/katalvlaran/treeproj/vocab"
)

var projectBindings = binding{
	"norm-before":       "project.norm_before",
	"norm-after":        "project.norm_after",
	"temperature":       "project.temperature",
	"cutoff":            "project.cutoff",
	"binary":            "project.binary",
	"trees":             "project.trees",
	"greedy-root":       "project.greedy_root",
	"use-similarity":    "project.use_similarity",
	"weighted-pos":      "project.weighted_pos",
	"reverse-alignment": "project.reverse_alignment",
	"strategy":          "project.strategy",
	"workers":           "project.workers",
}

type projectPaths struct {
	source, target, wordAlign, sentAlign, output string
}

func newProjectCommand() *cobra.Command {
	var p projectPaths
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project source dependency graphs onto target sentences",
		Long: `project reads source sentences with weighted head candidates (or trees
with --trees), target sentences, fast_align posteriors and an optional
sentence alignment. Every target sentence is written back with its
projected POS tag, decoded head and the projected head candidates as
"head:confidence" pairs, the input format of the decode command.

Target sentences without a usable source keep empty candidate lists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd, projectBindings)
			if err != nil {
				return err
			}
			return runProject(cmd, e, p)
		},
	}
	f := cmd.Flags()
	f.StringVar(&p.source, "source", "", "source CoNLL file with head:confidence columns")
	f.StringVar(&p.target, "target", "", "target CoNLL file")
	f.StringVar(&p.wordAlign, "word-alignment", "", "fast_align posterior file, one line per target sentence")
	f.StringVar(&p.sentAlign, "sentence-alignment", "", `sentence alignment "src trg conf" lines (default: pair sentences by position)`)
	f.StringVarP(&p.output, "output", "o", "-", "output file")
	f.String("norm-before", "", "policy applied to source graphs (ignored with --trees)")
	f.String("norm-after", "", "policy applied to projected graphs")
	f.Float64("temperature", 0, "softmax temperature")
	f.Float64("cutoff", 0, "threshold cutoff")
	f.Bool("binary", false, "treat every alignment link as certain")
	f.Bool("trees", false, "read source HEAD columns instead of head:confidence pairs")
	f.Bool("greedy-root", false, "keep only the strongest root attachment before decoding")
	f.Bool("use-similarity", false, "scale projected graphs by the mean alignment probability")
	f.Bool("weighted-pos", false, "weight POS votes by alignment probability")
	f.Bool("reverse-alignment", false, "alignment pairs are target-source")
	f.String("strategy", "", "projection strategy (sparse, dense)")
	f.Int("workers", 0, "sentences processed in parallel (0: GOMAXPROCS)")
	for _, name := range []string{"source", "target", "word-alignment"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

// projectInputs is everything read from disk before projection starts.
type projectInputs struct {
	sources []*conll.Sentence
	targets []*conll.Sentence
	words   *align.WordAlignments
	pairs   map[int]align.SentencePair
	byPos   bool
}

func readProjectInputs(cmd *cobra.Command, cfg config.ProjectConfig, p projectPaths) (*projectInputs, error) {
	in := &projectInputs{}
	mode := conll.Graph
	if cfg.Trees {
		mode = conll.Tree
	}
	var err error
	if in.sources, err = readConll(cmd, p.source, mode); err != nil {
		return nil, err
	}
	if in.targets, err = readConll(cmd, p.target, conll.Plain); err != nil {
		return nil, err
	}

	var popts []align.ParseOption
	if cfg.ReverseAlignment {
		popts = append(popts, align.WithReverse())
	}
	r, err := openInput(cmd, p.wordAlign)
	if err != nil {
		return nil, err
	}
	in.words, err = align.ReadWordAlignments(r, popts...)
	r.Close()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.wordAlign, err)
	}

	if p.sentAlign == "" {
		in.byPos = true
		return in, nil
	}
	if r, err = openInput(cmd, p.sentAlign); err != nil {
		return nil, err
	}
	in.pairs, err = align.ReadSentenceAlignments(r)
	r.Close()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.sentAlign, err)
	}

	return in, nil
}

func readConll(cmd *cobra.Command, path string, mode conll.Mode) ([]*conll.Sentence, error) {
	r, err := openInput(cmd, path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	sents, err := conll.ReadAll(r, mode)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return sents, nil
}

// pairing returns the source sentence and links for target k, or ok=false
// when the target has no usable source.
func (in *projectInputs) pairing(k int) (src *conll.Sentence, links []align.Link, ok bool) {
	si := k
	if !in.byPos {
		pair, found := in.pairs[k]
		if !found {
			return nil, nil, false
		}
		si = pair.Source
	}
	if si < 0 || si >= len(in.sources) || k >= len(in.words.Sentences) {
		return nil, nil, false
	}
	links = in.words.Sentences[k]
	if links == nil {
		return nil, nil, false
	}

	return in.sources[si], links, true
}

func buildProjectPipeline(cfg config.ProjectConfig, similarity float64) (pipeline.Pipeline, error) {
	params := normalize.Params{Temperature: cfg.Temperature, Cutoff: cfg.Cutoff}
	before, err := normalize.ByName(cfg.NormBefore, params)
	if err != nil {
		return pipeline.Pipeline{}, err
	}
	if cfg.Trees {
		// one-hot source trees carry no confidence to rescale
		before = normalize.Identity()
	}
	after, err := normalize.ByName(cfg.NormAfter, params)
	if err != nil {
		return pipeline.Pipeline{}, err
	}
	strategy := project.Sparse
	if cfg.Strategy == config.StrategyDense {
		strategy = project.Dense
	}
	var dopts []arborescence.Option
	if cfg.GreedyRoot {
		dopts = append(dopts, arborescence.WithGreedyRoot())
	}
	p := pipeline.Pipeline{
		Before:  before,
		After:   after,
		Project: []project.Option{project.WithStrategy(strategy)},
		Decoder: arborescence.New(dopts...),
	}
	if cfg.UseSimilarity {
		p.Scale = similarity
	}

	return p, nil
}

func runProject(cmd *cobra.Command, e *env, paths projectPaths) error {
	cfg := e.cfg.Project
	in, err := readProjectInputs(cmd, cfg, paths)
	if err != nil {
		return err
	}
	pl, err := buildProjectPipeline(cfg, in.words.Similarity)
	if err != nil {
		return err
	}
	e.log.Info("inputs read",
		"sources", len(in.sources),
		"targets", len(in.targets),
		"similarity", in.words.Similarity,
		"norm_before", pl.Before.Name(),
		"norm_after", pl.After.Name())

	var aopts []align.Option
	if cfg.Binary {
		aopts = append(aopts, align.WithBinary())
	}
	voc := vocab.New()
	tags := make([][]string, len(in.targets))
	slot := make([]int, len(in.targets)) // index into items, -1 when skipped
	var items []pipeline.Item
	for k, tgt := range in.targets {
		slot[k] = -1
		src, links, ok := in.pairing(k)
		if !ok {
			continue
		}
		A, err := align.New(src.Len(), tgt.Len(), links, aopts...)
		if err != nil {
			e.log.Warn("alignment rejected", "sentence", k, "error", err)
			continue
		}
		if tags[k], err = projectTags(src, tgt.Len(), links, voc, cfg.WeightedPOS); err != nil {
			e.log.Warn("tag projection failed", "sentence", k, "error", err)
		}
		slot[k] = len(items)
		items = append(items, pipeline.Item{ID: k, Source: src.Graph, Align: A})
	}

	runner := pipeline.NewRunner(pl, pipeline.WithWorkers(cfg.Workers), pipeline.WithLogger(e.log))
	outcomes := runner.RunBatch(cmd.Context(), items)

	out, err := openOutput(cmd, paths.output)
	if err != nil {
		return err
	}
	defer out.Close()

	return writeProjections(out, in.targets, tags, slot, outcomes, e.log)
}

// projectTags returns the winning projected POS per target token; tokens
// without a vote get the placeholder.
func projectTags(src *conll.Sentence, n int, links []align.Link, voc *vocab.Vocab, weighted bool) ([]string, error) {
	votes, err := align.ProjectLabels(src.POS(), links, voc, weighted)
	if err != nil {
		return nil, err
	}
	tags := placeholders(n)
	for i := range tags {
		if id, _, ok := votes[i+1].Best(); ok {
			tags[i], _ = voc.Label(id)
		}
	}

	return tags, nil
}

func writeProjections(w io.Writer, targets []*conll.Sentence, tags [][]string, slot []int, outcomes []pipeline.Outcome, log *slog.Logger) error {
	cw := conll.NewWriter(w)
	var decoded, skipped int
	for k, tgt := range targets {
		var (
			g     *digraph.Graph
			heads []int
		)
		if s := slot[k]; s >= 0 && outcomes[s].Result != nil {
			res := outcomes[s].Result
			g = res.Target
			if res.Tree != nil {
				heads = res.Tree.Heads
				decoded++
			}
		}
		if g == nil {
			skipped++
			var err error
			if g, err = digraph.New(tgt.Len()); err != nil {
				return err
			}
		}
		pos := tags[k]
		if pos == nil {
			pos = placeholders(tgt.Len())
		}
		if err := cw.WriteGraph(tgt.Tokens, heads, pos, g); err != nil {
			return fmt.Errorf("sentence %d: %w", k, err)
		}
	}
	if err := cw.Flush(); err != nil {
		return err
	}
	log.Info("projection written", "sentences", len(targets), "decoded", decoded, "without_source", skipped)

	return nil
}

func placeholders(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = conll.Placeholder
	}

	return out
}
