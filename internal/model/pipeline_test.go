package model

import (
	"context"
	"testing"

	"github.com/specialistvlad/nfcompose/internal/config"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hclPipeline = `
name = "single_fork"

connection {
  input {
    process = "__init__"
    lane    = 1
  }
  output {
    process = "integrity_coverage"
    lane    = 1
  }
}

connection {
  input {
    process = "integrity_coverage"
    lane    = 1
  }
  output {
    process = "spades"
    lane    = 2
  }
}
`

func TestParsePipelineHCL(t *testing.T) {
	t.Run("connection blocks keep order", func(t *testing.T) {
		p, diags := ParsePipelineHCL(context.Background(), []byte(hclPipeline), "pipeline.hcl")
		require.False(t, diags.HasErrors(), diags.Error())

		assert.Equal(t, "single_fork", p.Name)
		assert.Equal(t, []config.Connection{
			conn("__init__", 1, "integrity_coverage", 1),
			conn("integrity_coverage", 1, "spades", 2),
		}, p.Connections)
	})

	t.Run("recipe attribute", func(t *testing.T) {
		p, diags := ParsePipelineHCL(context.Background(), []byte(`recipe = "a b"`), "pipeline.hcl")
		require.False(t, diags.HasErrors(), diags.Error())
		assert.Equal(t, []config.Connection{conn("__init__", 1, "a", 1), conn("a", 1, "b", 1)}, p.Connections)
	})

	t.Run("recipe and connections conflict", func(t *testing.T) {
		src := hclPipeline + "\nrecipe = \"a\"\n"
		_, diags := ParsePipelineHCL(context.Background(), []byte(src), "pipeline.hcl")
		require.True(t, diags.HasErrors())
		assert.Contains(t, diags.Error(), "Conflicting pipeline definitions")
	})

	t.Run("missing output block", func(t *testing.T) {
		src := `connection {
  input {
    process = "__init__"
    lane    = 1
  }
}`
		_, diags := ParsePipelineHCL(context.Background(), []byte(src), "pipeline.hcl")
		require.True(t, diags.HasErrors())
	})
}

func TestParsePipelineYAML(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		want []config.Connection
	}{
		{
			name: "bare list",
			src: `
- input: {process: __init__, lane: 1}
  output: {process: integrity_coverage, lane: 1}
- input: {process: integrity_coverage, lane: 1}
  output: {process: fastqc, lane: 1}
`,
			want: []config.Connection{
				conn("__init__", 1, "integrity_coverage", 1),
				conn("integrity_coverage", 1, "fastqc", 1),
			},
		},
		{
			name: "json document",
			src:  `[{"input": {"process": "__init__", "lane": 0}, "output": {"process": "seq_typing", "lane": 1}}]`,
			want: []config.Connection{conn("__init__", 0, "seq_typing", 1)},
		},
		{
			name: "mapping with recipe",
			src:  "name: quick\nrecipe: a (b | c)\n",
			want: []config.Connection{
				conn("__init__", 1, "a", 1),
				conn("a", 1, "b", 2),
				conn("a", 1, "c", 3),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := ParsePipelineYAML([]byte(tc.src), "pipeline.yaml")
			require.NoError(t, err)
			assert.Equal(t, tc.want, p.Connections)
		})
	}
}

func TestParsePipelineYAML_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		contains string
	}{
		{name: "empty", src: "", contains: "document is empty"},
		{name: "scalar", src: "hello", contains: "expected a list of connections"},
		{name: "missing process", src: "- input: {lane: 1}\n  output: {process: a, lane: 1}\n", contains: "input process is empty"},
		{name: "both forms", src: "recipe: a\nconnections: [{input: {process: x, lane: 1}, output: {process: y, lane: 1}}]\n", contains: "not both"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParsePipelineYAML([]byte(tc.src), "pipeline.yaml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.contains)
		})
	}
}

func TestLoader_Load(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/work/fork.hcl", []byte(hclPipeline), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/work/chain.yml", []byte("recipe: a b\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/work/notes.txt", []byte("a b"), 0o644))

	loader := NewLoader(fs)
	ctx := context.Background()

	p, err := loader.Load(ctx, "/work/fork.hcl")
	require.NoError(t, err)
	assert.Equal(t, "single_fork", p.Name)
	assert.Len(t, p.Connections, 2)

	p, err = loader.Load(ctx, "/work/chain.yml")
	require.NoError(t, err)
	assert.Equal(t, "chain", p.Name, "name defaults to the file stem")
	assert.Equal(t, "/work/chain.yml", p.Source)

	_, err = loader.Load(ctx, "/work/notes.txt")
	assert.ErrorContains(t, err, "unsupported pipeline format")

	_, err = loader.Load(ctx, "/work/missing.hcl")
	assert.ErrorContains(t, err, "failed to read pipeline")
}
