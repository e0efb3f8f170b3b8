package nfconfig

import (
	"context"
	"testing"

	"github.com/specialistvlad/nfcompose/internal/process"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestGroovyLiteral(t *testing.T) {
	testCases := []struct {
		name string
		in   cty.Value
		want string
	}{
		{"string", cty.StringVal(`say "hi"`), `"say \"hi\""`},
		{"integer", cty.NumberIntVal(15), "15"},
		{"float", cty.NumberFloatVal(2.5), "2.5"},
		{"bool", cty.True, "true"},
		{"null", cty.NullVal(cty.DynamicPseudoType), "null"},
		{"tuple", cty.TupleVal([]cty.Value{cty.StringVal("card"), cty.StringVal("vfdb")}), `["card", "vfdb"]`},
		{"object", cty.ObjectVal(map[string]cty.Value{"b": cty.NumberIntVal(2), "a": cty.True}), `["a": true, "b": 2]`},
		{"empty map", cty.MapValEmpty(cty.String), "[:]"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := groovyLiteral(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("unknown value", func(t *testing.T) {
		_, err := groovyLiteral(cty.UnknownVal(cty.String))
		require.Error(t, err)
	})
}

func pipelineNodes() []*process.Node {
	return []*process.Node{
		process.NewRoot(),
		{
			Template: "integrity_coverage",
			PID:      1,
			Params: []process.Param{
				{Name: "genomeSize", Default: cty.NumberFloatVal(2.1), Description: "Expected genome size in megabases."},
				{Name: "minCoverage", Default: cty.NumberIntVal(15)},
			},
			Directives: []process.Directive{
				{Process: "integrity_coverage", CPUs: 1, Memory: "{ 1.GB * task.attempt }", Container: "flowcraft/integrity_coverage", Version: "1.0-1"},
			},
		},
		{
			Template: "check_coverage",
			PID:      2,
			Params: []process.Param{
				{Name: "genomeSize", Default: cty.NumberIntVal(5)},
			},
			Directives: []process.Directive{
				{Process: "check_coverage", Memory: "4 GB"},
			},
		},
	}
}

func TestGenerate(t *testing.T) {
	raw := []process.Param{{Name: "fastq", Default: cty.StringVal("fastq/*_{1,2}.*")}}

	files, err := Generate(pipelineNodes(), raw)
	require.NoError(t, err)

	t.Run("params", func(t *testing.T) {
		assert.Equal(t, `params {

    /*
    Raw inputs
    ----------
    */
    fastq = "fastq/*_{1,2}.*"

    /*
    Component 'integrity_coverage_1'
    --------------------------------
    */
    // Expected genome size in megabases.
    genomeSize = 2.1
    minCoverage = 15

}
`, files.Params)
	})

	t.Run("resources", func(t *testing.T) {
		assert.Equal(t, `process {

    withName:integrity_coverage_1 {
        cpus = 1
        memory = { 1.GB * task.attempt }
    }

    withName:check_coverage_2 {
        memory = "4 GB"
    }

}
`, files.Resources)
	})

	t.Run("containers", func(t *testing.T) {
		assert.Equal(t, `process {

    withName:integrity_coverage_1 {
        container = "flowcraft/integrity_coverage:1.0-1"
    }

}
`, files.Containers)
	})
}

func TestWrite(t *testing.T) {
	fsys := afero.NewMemMapFs()
	files := &Files{Params: "p", Resources: "r", Containers: "c"}

	require.NoError(t, Write(context.Background(), fsys, "/out", files))

	for name, want := range map[string]string{
		"/out/params.config":     "p",
		"/out/resources.config":  "r",
		"/out/containers.config": "c",
	} {
		got, err := afero.ReadFile(fsys, name)
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
	}
}
