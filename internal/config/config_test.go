package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/treeproj/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	v, err := config.New("")
	require.NoError(t, err)
	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treeproj.yaml")
	yaml := "log:\n  format: json\nproject:\n  norm_after: rank\n  workers: 4\ndecode:\n  minimize: true\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("TREEPROJ_PROJECT_WORKERS", "8")
	t.Setenv("TREEPROJ_LOG_LEVEL", "debug")

	v, err := config.New(path)
	require.NoError(t, err)
	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "rank", cfg.Project.NormAfter)
	assert.Equal(t, 8, cfg.Project.Workers)
	assert.True(t, cfg.Decode.Minimize)
	assert.Equal(t, "identity", cfg.Project.NormBefore)
	assert.Equal(t, "softmax", cfg.Vote.Norm)
	assert.True(t, cfg.Vote.FillEmpty)
}

func TestNew_MissingFile(t *testing.T) {
	_, err := config.New(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	assert.Empty(t, cfg.Validate())

	cfg.Log.Level = "loud"
	cfg.Project.NormAfter = "zscore"
	cfg.Project.Temperature = 0
	cfg.Project.Strategy = "fast"
	cfg.Decode.Workers = -1
	errs := cfg.Validate()
	require.Len(t, errs, 5)
	assert.Equal(t, "decode.workers", errs[0].Field)
	assert.Equal(t, "log.level", errs[1].Field)

	cfg = config.Default()
	cfg.Vote.Norm = "majority"
	cfg.Vote.Workers = -2
	errs = cfg.Validate()
	require.Len(t, errs, 2)
	assert.Equal(t, "vote.norm", errs[0].Field)
	assert.Equal(t, "vote.workers", errs[1].Field)

	v, err := config.New("")
	require.NoError(t, err)
	v.Set("project.strategy", "fast")
	_, err = config.Load(v)
	var verrs config.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 1)
	assert.Contains(t, err.Error(), "project.strategy")
}
