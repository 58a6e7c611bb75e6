// Package cli wires the treeproj commands.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/katalvlaran/treeproj/internal/config"
	"github.com/katalvlaran/treeproj/internal/logging"
)

// binding maps a flag name to its configuration key.
type binding map[string]string

var globalBindings = binding{
	"log-level":  "log.level",
	"log-format": "log.format",
}

// NewRootCommand builds a fresh command tree. Each call owns its own viper
// instance, so trees can run side by side in tests.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "treeproj",
		Short: "Cross-lingual dependency tree projection",
		Long: `treeproj projects weighted dependency graphs from source-language
sentences onto their translations through word alignments, decodes the
best spanning tree of the projected graphs, and scores the result.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "YAML config file")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "", "log format (text, json)")

	root.AddCommand(newProjectCommand(), newDecodeCommand(), newVoteCommand(), newEvalCommand())

	return root
}

// env is what every command needs once flags are parsed.
type env struct {
	cfg *config.Config
	log *slog.Logger
}

// setup layers config file, environment and explicitly set flags, then
// builds the logger on stderr.
func setup(cmd *cobra.Command, local binding) (*env, error) {
	cfgFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	v, err := config.New(cfgFile)
	if err != nil {
		return nil, err
	}
	if err = bind(v, cmd.Flags(), globalBindings); err != nil {
		return nil, err
	}
	if err = bind(v, cmd.Flags(), local); err != nil {
		return nil, err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, log: log}, nil
}

// bind attaches flags to keys; an unset flag leaves lower layers in effect.
func bind(v *viper.Viper, flags *pflag.FlagSet, b binding) error {
	for name, key := range b {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind --%s: %w", name, err)
		}
	}

	return nil
}

// openInput opens a named file; "-" is stdin.
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}

	return os.Open(path)
}

// openOutput creates a named file; "" or "-" is the command's stdout.
func openOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{cmd.OutOrStdout()}, nil
	}

	return os.Create(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
