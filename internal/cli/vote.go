package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/treeproj/arborescence"
	"github.com/katalvlaran/treeproj/conll"
	"github.com/katalvlaran/treeproj/digraph"
	"github.com/katalvlaran/treeproj/eval"
	"github.com/katalvlaran/treeproj/internal/config"
	"github.com/katalvlaran/treeproj/normalize"
	"github.com/katalvlaran/treeproj/pipeline"
	"github.com/katalvlaran/treeproj/vocab"
	"github.com/katalvlaran/treeproj/vote"
)

var voteBindings = binding{
	"norm":             "vote.norm",
	"trees":            "vote.trees",
	"fill-empty":       "vote.fill_empty",
	"punct":            "vote.punct",
	"greedy-root":      "vote.greedy_root",
	"path-compression": "vote.path_compression",
	"workers":          "vote.workers",
}

type votePaths struct {
	projections  []string
	gold, output string
}

func newVoteCommand() *cobra.Command {
	var p votePaths
	cmd := &cobra.Command{
		Use:   "vote",
		Short: "Merge projections from several sources and decode one tree per sentence",
		Long: `vote reads the output of project for the same target corpus from
several source languages. Per sentence it sums the projected graphs (or,
with --trees, the projected one-hot trees), normalizes the sum, decodes the
best tree and picks the majority POS tag of every token.

Sentences no source contributed to are written with "_" heads. With --gold,
the result is scored and the scores are logged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd, voteBindings)
			if err != nil {
				return err
			}
			return runVote(cmd, e, p)
		},
	}
	f := cmd.Flags()
	f.StringSliceVarP(&p.projections, "projection", "p", nil, "projected CoNLL file, one per source (repeatable)")
	f.StringVar(&p.gold, "gold", "", "gold CoNLL file to score against")
	f.StringVarP(&p.output, "output", "o", "-", "output file")
	f.String("norm", "", "policy applied to each summed graph")
	f.Bool("trees", false, "vote over HEAD columns instead of head:confidence pairs")
	f.Bool("fill-empty", false, "give tokens no source reached every head at the lowest weight")
	f.Bool("punct", false, `tag punctuation-only forms as "PUNCT"`)
	f.Bool("greedy-root", false, "keep only the strongest root attachment")
	f.Bool("path-compression", false, "compress union-find paths during contraction")
	f.Int("workers", 0, "sentences decoded in parallel (0: GOMAXPROCS)")
	_ = cmd.MarkFlagRequired("projection")

	return cmd
}

func buildVotePipeline(cfg config.VoteConfig) (pipeline.Pipeline, error) {
	policy, err := normalize.ByName(cfg.Norm, normalize.Params{})
	if err != nil {
		return pipeline.Pipeline{}, err
	}
	var opts []arborescence.Option
	if cfg.GreedyRoot {
		opts = append(opts, arborescence.WithGreedyRoot())
	}
	if cfg.PathCompression {
		opts = append(opts, arborescence.WithPathCompression())
	}

	return pipeline.Pipeline{After: policy, Decoder: arborescence.New(opts...)}, nil
}

// readProjections reads every projection file and checks that they cover
// the same sentences.
func readProjections(cmd *cobra.Command, paths []string, mode conll.Mode) ([][]*conll.Sentence, error) {
	out := make([][]*conll.Sentence, len(paths))
	for i, path := range paths {
		sents, err := readConll(cmd, path, mode)
		if err != nil {
			return nil, err
		}
		if i > 0 && len(sents) != len(out[0]) {
			return nil, fmt.Errorf("%s: %d sentences, %s has %d: %w", path, len(sents), paths[0], len(out[0]), vote.ErrLengthMismatch)
		}
		for k, s := range sents {
			if i > 0 && s.Len() != out[0][k].Len() {
				return nil, fmt.Errorf("%s: sentence %d: %d tokens, %s has %d: %w", path, k, s.Len(), paths[0], out[0][k].Len(), vote.ErrLengthMismatch)
			}
		}
		out[i] = sents
	}

	return out, nil
}

func runVote(cmd *cobra.Command, e *env, paths votePaths) error {
	cfg := e.cfg.Vote
	pl, err := buildVotePipeline(cfg)
	if err != nil {
		return err
	}
	mode := conll.Graph
	if cfg.Trees {
		mode = conll.Tree
	}
	files, err := readProjections(cmd, paths.projections, mode)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("vote: no projection files")
	}
	sents := files[0]

	voc := vocab.New()
	tags := make([][]string, len(sents))
	slot := make([]int, len(sents))
	var items []pipeline.Item
	for k, s := range sents {
		slot[k] = -1
		graphs := make([]*digraph.Graph, len(files))
		sourceTags := make([][]string, len(files))
		for i, f := range files {
			graphs[i] = f[k].Graph
			sourceTags[i] = f[k].POS()
		}
		if tags[k], err = vote.POS(sourceTags, voc); err != nil {
			return fmt.Errorf("sentence %d: %w", k, err)
		}
		if cfg.Punct {
			for i, tok := range s.Tokens {
				if vote.Punct(tok.Form) {
					tags[k][i] = vote.PunctTag
				}
			}
		}

		sum, used, err := vote.Sum(graphs)
		if errors.Is(err, vote.ErrNoSources) {
			continue
		}
		if err != nil {
			return fmt.Errorf("sentence %d: %w", k, err)
		}
		if cfg.FillEmpty {
			if sum, err = vote.FillEmpty(sum); err != nil {
				return fmt.Errorf("sentence %d: %w", k, err)
			}
		}
		e.log.Debug("sentence summed", "sentence", k, "sources", used)
		slot[k] = len(items)
		items = append(items, pipeline.Item{ID: k, Source: sum})
	}

	outcomes := pipeline.NewRunner(pl, pipeline.WithWorkers(cfg.Workers), pipeline.WithLogger(e.log)).
		RunBatch(cmd.Context(), items)

	out, err := openOutput(cmd, paths.output)
	if err != nil {
		return err
	}
	defer out.Close()
	system, err := writeVotes(out, sents, tags, slot, outcomes, e.log)
	if err != nil {
		return err
	}
	if paths.gold == "" {
		return nil
	}

	gold, err := readConll(cmd, paths.gold, conll.Plain)
	if err != nil {
		return err
	}
	scores, ok, err := eval.ScoreSentences(gold, system)
	if err != nil {
		return err
	}
	if ok {
		e.log.Info("vote scores", "scores", scores.String())
	}

	return nil
}

// writeVotes writes every sentence with its voted heads and tags and returns
// the written sentences for scoring.
func writeVotes(w io.Writer, sents []*conll.Sentence, tags [][]string, slot []int, outcomes []pipeline.Outcome, log *slog.Logger) ([]*conll.Sentence, error) {
	cw := conll.NewWriter(w)
	system := make([]*conll.Sentence, len(sents))
	var decoded int
	for k, s := range sents {
		var heads []int
		if i := slot[k]; i >= 0 {
			if res := outcomes[i].Result; res != nil && res.Tree != nil {
				heads = res.Tree.Heads
				decoded++
			}
		}
		if err := cw.WriteSentence(s.Tokens, heads, tags[k]); err != nil {
			return nil, fmt.Errorf("sentence %d: %w", k, err)
		}

		toks := make([]conll.Token, len(s.Tokens))
		for i, tok := range s.Tokens {
			tok.Head = arborescence.NoHead
			if heads != nil {
				tok.Head = heads[i+1]
			}
			tok.CPOS, tok.FPOS = tags[k][i], tags[k][i]
			toks[i] = tok
		}
		system[k] = &conll.Sentence{Tokens: toks}
	}
	if err := cw.Flush(); err != nil {
		return nil, err
	}
	log.Info("votes written", "sentences", len(sents), "decoded", decoded)

	return system, nil
}
