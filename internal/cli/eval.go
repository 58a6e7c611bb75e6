package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/treeproj/conll"
	"github.com/katalvlaran/treeproj/eval"
)

func newEvalCommand() *cobra.Command {
	var gold, system string
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Score system CoNLL output against a gold file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd, nil)
			if err != nil {
				return err
			}
			g, err := readConll(cmd, gold, conll.Plain)
			if err != nil {
				return err
			}
			// graph mode also accepts decode and project output
			s, err := readConll(cmd, system, conll.Graph)
			if err != nil {
				return err
			}
			scores, ok, err := eval.ScoreSentences(g, s)
			if err != nil {
				return err
			}
			if !ok {
				e.log.Warn("no tokens to score", "gold", gold)
				fmt.Fprintln(cmd.OutOrStdout(), "no tokens")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), scores)
			return nil
		},
	}
	cmd.Flags().StringVar(&gold, "gold", "", "gold CoNLL file")
	cmd.Flags().StringVar(&system, "system", "", "system CoNLL file")
	_ = cmd.MarkFlagRequired("gold")
	_ = cmd.MarkFlagRequired("system")

	return cmd
}
