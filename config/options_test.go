package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidate_RejectsOutOfRangeFields(t *testing.T) {
	cases := []struct {
		name string
		mut  func(o *Options)
	}{
		{"num_bases too high", func(o *Options) { o.NumBases = 99 }},
		{"num_bases zero", func(o *Options) { o.NumBases = 0 }},
		{"max_iter zero", func(o *Options) { o.MaxIter = 0 }},
		{"learning_rate zero", func(o *Options) { o.LearningRate = 0 }},
		{"lambda1 negative", func(o *Options) { o.Lambda1 = -1 }},
		{"lambda2 negative", func(o *Options) { o.Lambda2 = -1 }},
		{"min_strength negative", func(o *Options) { o.MinStrength = -0.1 }},
		{"min_strength at 1", func(o *Options) { o.MinStrength = 1 }},
		{"max_insights negative", func(o *Options) { o.MaxInsights = -1 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			o := Default()
			c.mut(&o)
			assert.Error(t, o.Validate())
		})
	}
}

func TestLoad_StrictRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "opts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("num_bases: 4\ntypo_field: 1\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_OverridesDefaultsPartially(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "opts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("num_bases: 3\nmax_iter: 200\n"), 0o644))

	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, opts.NumBases)
	assert.Equal(t, 200, opts.MaxIter)

	want := Default()
	assert.Equal(t, want.LearningRate, opts.LearningRate)
	assert.Equal(t, want.Lambda1, opts.Lambda1)
}
