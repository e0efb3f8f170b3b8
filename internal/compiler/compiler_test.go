package compiler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/nfcompose/internal/catalog"
	"github.com/specialistvlad/nfcompose/internal/config"
	"github.com/specialistvlad/nfcompose/internal/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const root = config.RootProcess

func con(inProc string, inLane int, outProc string, outLane int) config.Connection {
	return config.Connection{
		Input:  config.Endpoint{Process: inProc, Lane: inLane},
		Output: config.Endpoint{Process: outProc, Lane: outLane},
	}
}

var (
	singleCon = []config.Connection{
		con(root, 1, "integrity_coverage", 1),
		con("integrity_coverage", 1, "fastqc", 1),
	}
	singleFork = []config.Connection{
		con(root, 1, "integrity_coverage", 1),
		con("integrity_coverage", 1, "spades", 2),
		con("integrity_coverage", 1, "skesa", 3),
	}
	rawForks = []config.Connection{
		con(root, 0, "integrity_coverage", 1),
		con("integrity_coverage", 1, "fastqc", 1),
		con(root, 0, "patho_typing", 2),
		con(root, 0, "seq_typing", 3),
	}
	multiForks = []config.Connection{
		con(root, 0, "integrity_coverage", 1),
		con(root, 0, "seq_typing", 2),
		con(root, 0, "trimmomatic", 3),
		con("trimmomatic", 3, "check_coverage", 3),
		con("integrity_coverage", 1, "spades", 4),
		con("integrity_coverage", 1, "skesa", 5),
		con("check_coverage", 3, "spades", 6),
		con("check_coverage", 3, "skesa", 7),
	}
	implicitLink = []config.Connection{
		con(root, 1, "integrity_coverage", 1),
		con("integrity_coverage", 1, "fastqc", 1),
		con("fastqc", 1, "spades", 1),
		con("spades", 1, "assembly_mapping", 1),
	}
	implicitLink2 = []config.Connection{
		con(root, 1, "integrity_coverage", 1),
		con("integrity_coverage", 1, "spades", 1),
		con("spades", 1, "assembly_mapping", 1),
	}
)

func builtin(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Builtin(context.Background())
	require.NoError(t, err)
	return cat
}

func compile(t *testing.T, conns []config.Connection) (*Compilation, *Result) {
	t.Helper()
	c := New(builtin(t), Options{})
	res, err := c.Compile(context.Background(), conns)
	require.NoError(t, err)
	return c, res
}

func templates(nodes []*process.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Template)
	}
	return out
}

func TestCompile_CreatesOneNodePerConnection(t *testing.T) {
	_, res := compile(t, multiForks)

	require.Len(t, res.Nodes, len(multiForks)+1)
	for i, n := range res.Nodes {
		assert.Equal(t, i, n.PID)
	}
	assert.True(t, res.Nodes[0].IsRoot())
	assert.Equal(t, []string{
		process.RootTemplate, "integrity_coverage", "seq_typing", "trimmomatic", "check_coverage",
		"spades", "skesa", "spades", "skesa",
	}, templates(res.Nodes))
}

func TestCompile_ForkTree(t *testing.T) {
	testCases := []struct {
		name  string
		conns []config.Connection
		want  map[int][]int
	}{
		{
			name:  "single lane",
			conns: singleCon,
			want:  map[int][]int{},
		},
		{
			name: "chain across lanes",
			conns: []config.Connection{
				con(root, 1, "integrity_coverage", 1),
				con("integrity_coverage", 1, "fastqc", 2),
				con("fastqc", 2, "trimmomatic", 3),
			},
			want: map[int][]int{1: {2}, 2: {3}},
		},
		{
			name:  "single fork",
			conns: singleFork,
			want:  map[int][]int{1: {2, 3}},
		},
		{
			name:  "raw forks",
			conns: rawForks,
			want:  map[int][]int{0: {1, 2, 3}},
		},
		{
			name:  "multiple forks",
			conns: multiForks,
			want:  map[int][]int{0: {1, 2, 3}, 1: {4, 5}, 3: {6, 7}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, res := compile(t, tc.conns)
			if diff := cmp.Diff(tc.want, res.ForkTree.Map()); diff != "" {
				t.Errorf("fork tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompile_ChannelNames(t *testing.T) {
	_, res := compile(t, singleCon)

	ic, fastqc := res.Nodes[1], res.Nodes[2]
	assert.Equal(t, "integrity_coverage_in_1_0", ic.InputChannel)
	assert.Equal(t, "integrity_coverage_out_1_0", ic.OutputChannel)
	assert.Equal(t, ic.OutputChannel, fastqc.InputChannel)
	assert.Equal(t, "fastqc_out_1_1", fastqc.OutputChannel)
	assert.Nil(t, ic.ParentLane)
	require.NotNil(t, fastqc.ParentLane)
	assert.Equal(t, 1, *fastqc.ParentLane)
}

func TestCompile_ForkBroadcastsInOrder(t *testing.T) {
	_, res := compile(t, singleFork)

	ic := res.Nodes[1]
	assert.Equal(t, []string{"integrity_coverage_out_1_0", "spades_in_1_1", "skesa_in_1_2"}, ic.MainForks)
	assert.Equal(t, "_integrity_coverage_out_1_0", ic.OutputChannel)
	assert.Equal(t, "\n_integrity_coverage_out_1_0.into{ integrity_coverage_out_1_0;spades_in_1_1;skesa_in_1_2 }\n", ic.Forks[0])
	assert.Equal(t, 2, res.Nodes[2].Lane)
	assert.Equal(t, 3, res.Nodes[3].Lane)
}

func TestCompile_RawInputs(t *testing.T) {
	t.Run("same type shares one entry", func(t *testing.T) {
		_, res := compile(t, rawForks)

		require.Len(t, res.RawInputs, 1)
		assert.Equal(t, "fastq", res.RawInputs[0].Type)
		assert.Equal(t, []string{"integrity_coverage_in_0_0", "patho_typing_in_0_2", "seq_typing_in_0_3"}, res.RawInputs[0].Forks)
		assert.Equal(t, []string{"\nIN_fastq_raw.into{ integrity_coverage_in_0_0;patho_typing_in_0_2;seq_typing_in_0_3 }\n"}, res.Nodes[0].Forks)
		assert.Equal(t, "IN_fastq_raw = Channel.fromFilePairs(params.fastq)", res.Nodes[0].MainInputs())
	})

	t.Run("different types get separate entries", func(t *testing.T) {
		_, res := compile(t, []config.Connection{
			con(root, 0, "integrity_coverage", 1),
			con(root, 0, "abricate", 2),
		})

		require.Len(t, res.RawInputs, 2)
		assert.Equal(t, "fastq", res.RawInputs[0].Type)
		assert.Equal(t, []string{"integrity_coverage_in_0_0"}, res.RawInputs[0].Forks)
		assert.Equal(t, "fasta", res.RawInputs[1].Type)
		assert.Equal(t, []string{"abricate_in_0_1"}, res.RawInputs[1].Forks)
		assert.Equal(t, []string{
			"\nIN_fastq_raw.set{ integrity_coverage_in_0_0 }\n",
			"\nIN_fasta_raw.set{ abricate_in_0_1 }\n",
		}, res.Nodes[0].Forks)
	})
}

func TestCompile_SecondaryInputs(t *testing.T) {
	t.Run("declared once in encounter order", func(t *testing.T) {
		_, res := compile(t, singleCon)

		var params []string
		for _, in := range res.SecondaryInputs {
			params = append(params, in.Param)
		}
		assert.Equal(t, []string{"genomeSize", "minCoverage", "adapters"}, params)
		assert.Equal(t, strings.Join([]string{
			"IN_genome_size = Channel.value(params.genomeSize)",
			"IN_min_coverage = Channel.value(params.minCoverage)",
			"IN_adapters = Channel.value(params.adapters)",
		}, "\n"), res.Nodes[0].SecondaryInputDefs())
	})

	t.Run("first declaration wins", func(t *testing.T) {
		_, res := compile(t, []config.Connection{
			con(root, 1, "integrity_coverage", 1),
			con("integrity_coverage", 1, "check_coverage", 1),
		})

		require.Len(t, res.SecondaryInputs, 2)
		assert.Equal(t, "genomeSize", res.SecondaryInputs[0].Param)
		assert.Equal(t, "minCoverage", res.SecondaryInputs[1].Param)
	})
}

func TestCompile_SecondaryChannels(t *testing.T) {
	t.Run("no consumer renders nothing", func(t *testing.T) {
		c, res := compile(t, singleCon)

		assert.Empty(t, c.secondary.endsOf("SIDE_phred", 1))
		assert.Empty(t, res.Nodes[1].Forks)
	})

	t.Run("ends restricted to ancestor lanes", func(t *testing.T) {
		c, res := compile(t, multiForks)

		assert.Empty(t, c.secondary.endsOf("SIDE_phred", 1))
		assert.Equal(t, []string{"SIDE_max_len_5"}, c.secondary.endsOf("SIDE_max_len", 1))
		assert.Equal(t, []string{"SIDE_max_len_7"}, c.secondary.endsOf("SIDE_max_len", 3))

		ic := res.Nodes[1]
		assert.Equal(t,
			"\n_integrity_coverage_out_1_0.into{ integrity_coverage_out_1_0;spades_in_1_4;skesa_in_1_5 }\n\n\nSIDE_max_len_1.set{ SIDE_max_len_5 }\n",
			strings.Join(ic.Forks, "\n"))
	})

	t.Run("later start on the same lane wins", func(t *testing.T) {
		c, res := compile(t, []config.Connection{
			con(root, 1, "integrity_coverage", 1),
			con("integrity_coverage", 1, "check_coverage", 1),
			con("check_coverage", 1, "spades", 1),
		})

		assert.Equal(t, []string{"SIDE_max_len_3"}, c.secondary.endsOf("SIDE_max_len", 1))
		assert.Empty(t, res.Nodes[1].Forks)
		assert.Equal(t, []string{"\nSIDE_max_len_2.set{ SIDE_max_len_3 }\n"}, res.Nodes[2].Forks)
	})

	t.Run("start on a descendant lane shadows the ancestor start", func(t *testing.T) {
		cat := newFakeCatalog()
		cat.add(&process.Node{Template: "a", InputType: "fastq", OutputType: "fastq", LinkStart: []string{"SIDE_x"}})
		cat.add(&process.Node{Template: "b", InputType: "fastq", OutputType: "fastq", LinkStart: []string{"SIDE_x"}})
		cat.add(&process.Node{Template: "c", InputType: "fastq", OutputType: "fastq", LinkEnd: []process.LinkEnd{{Link: "SIDE_x", Alias: "SIDE_x"}}})

		c := New(cat, Options{})
		res, err := c.Compile(context.Background(), []config.Connection{
			con(root, 1, "a", 1),
			con("a", 1, "b", 2),
			con("b", 2, "c", 2),
		})
		require.NoError(t, err)

		assert.Empty(t, c.secondary.endsOf("SIDE_x", 1))
		assert.Equal(t, []string{"SIDE_x_3"}, c.secondary.endsOf("SIDE_x", 2))
		assert.Equal(t, []string{"\nSIDE_x_2.set{ SIDE_x_3 }\n"}, res.Nodes[2].Forks)
		for _, stmt := range res.Nodes[1].Forks {
			assert.NotContains(t, stmt, "SIDE_x_1")
		}
	})

	t.Run("ancestor start feeds every branch without its own", func(t *testing.T) {
		cat := newFakeCatalog()
		cat.add(&process.Node{Template: "a", InputType: "fastq", OutputType: "fastq", LinkStart: []string{"SIDE_x"}})
		cat.add(&process.Node{Template: "b", InputType: "fastq", OutputType: "fastq", LinkStart: []string{"SIDE_x"}})
		cat.add(&process.Node{Template: "c", InputType: "fastq", OutputType: "fastq", LinkEnd: []process.LinkEnd{{Link: "SIDE_x", Alias: "SIDE_x"}}})

		c := New(cat, Options{})
		_, err := c.Compile(context.Background(), []config.Connection{
			con(root, 1, "a", 1),
			con("a", 1, "b", 2),
			con("b", 2, "c", 2),
			con("a", 1, "c", 3),
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"SIDE_x_4"}, c.secondary.endsOf("SIDE_x", 1))
		assert.Equal(t, []string{"SIDE_x_3"}, c.secondary.endsOf("SIDE_x", 2))
	})
}

func TestCompile_ImplicitLinks(t *testing.T) {
	t.Run("binds to nearest upstream output type", func(t *testing.T) {
		_, res := compile(t, implicitLink)

		fastqc := res.Nodes[2]
		assert.Equal(t, []string{"fastqc_out_1_1", "_LAST_fastq_4"}, fastqc.MainForks)
		assert.Equal(t, "fastqc_out_1_1", res.Nodes[3].InputChannel)
		assert.Empty(t, res.Nodes[1].MainForks)
	})

	t.Run("skips nodes of other types", func(t *testing.T) {
		_, res := compile(t, implicitLink2)

		assert.Equal(t, []string{"integrity_coverage_out_1_0", "_LAST_fastq_3"}, res.Nodes[1].MainForks)
	})

	t.Run("scans the whole pipeline on ancestor lanes", func(t *testing.T) {
		cat := newFakeCatalog()
		cat.add(&process.Node{Template: "a", InputType: "fastq", OutputType: "fastq"})
		cat.add(&process.Node{Template: "c", InputType: "fastq", OutputType: "assembly", LinkEnd: []process.LinkEnd{{Link: "__fastq", Alias: "_LAST_fastq"}}})
		cat.add(&process.Node{Template: "d", InputType: "assembly", OutputType: "fastq"})

		res, err := New(cat, Options{}).Compile(context.Background(), []config.Connection{
			con(root, 1, "a", 1),
			con("a", 1, "c", 1),
			con("c", 1, "d", 1),
		})
		require.NoError(t, err)

		assert.Empty(t, res.Nodes[1].MainForks)
		assert.Equal(t, []string{"d_out_1_2", "_LAST_fastq_2"}, res.Nodes[3].MainForks)
	})

	t.Run("bare underscores stay unwired", func(t *testing.T) {
		cat := newFakeCatalog()
		cat.add(&process.Node{Template: "a", InputType: "fastq", OutputType: "fastq"})
		cat.add(&process.Node{Template: "sink", InputType: "fastq", LinkEnd: []process.LinkEnd{{Link: "__", Alias: "ANY"}}})

		c := New(cat, Options{})
		res, err := c.Compile(context.Background(), []config.Connection{
			con(root, 1, "a", 1),
			con("a", 1, "sink", 1),
		})
		require.NoError(t, err)

		for _, n := range res.Nodes {
			assert.Empty(t, n.MainForks, n.String())
		}
		assert.Empty(t, c.secondary.endsOf("__", 1))
	})

	t.Run("unmatched link is not fatal", func(t *testing.T) {
		_, res := compile(t, []config.Connection{
			con(root, 0, "abricate", 1),
			con(root, 0, "assembly_mapping", 2),
		})

		for _, n := range res.Nodes {
			assert.Empty(t, n.MainForks, n.String())
		}
	})
}

func TestCompile_StatusChannels(t *testing.T) {
	t.Run("delivered in encounter order", func(t *testing.T) {
		_, res := compile(t, append(append([]config.Connection{}, singleCon...),
			con("fastqc", 1, "status_compiler", 1)))

		status := res.Nodes[3]
		assert.Equal(t, "STATUS_integrity_coverage_1.mix(STATUS_fastqc2_2,STATUS_fastqc2_report_2)", status.StatusMix())
		assert.Contains(t, res.Text, "from STATUS_integrity_coverage_1.mix(STATUS_fastqc2_2,STATUS_fastqc2_report_2)")
	})

	t.Run("automatic status compiler", func(t *testing.T) {
		res, err := New(builtin(t), Options{AutoStatus: true}).Compile(context.Background(), singleCon)
		require.NoError(t, err)

		require.Len(t, res.Nodes, 4)
		last := res.Nodes[3]
		assert.Equal(t, StatusCompilerTemplate, last.Template)
		assert.Equal(t, 3, last.PID)
		assert.Equal(t, "STATUS_integrity_coverage_1.mix(STATUS_fastqc2_2,STATUS_fastqc2_report_2)", last.StatusMix())
	})

	t.Run("automatic status compiler keeps an explicit one", func(t *testing.T) {
		conns := append(append([]config.Connection{}, singleCon...), con("fastqc", 1, "trace_compiler", 1))
		res, err := New(builtin(t), Options{AutoStatus: true}).Compile(context.Background(), conns)
		require.NoError(t, err)

		assert.Len(t, res.Nodes, 4)
		assert.Equal(t, "trace_compiler", res.Nodes[3].Template)
	})

	t.Run("duplicates fail", func(t *testing.T) {
		cat := newFakeCatalog()
		cat.add(&process.Node{Template: "twice", InputType: "fastq", OutputType: "fastq", StatusChannels: []string{"dup", "dup"}})

		_, err := New(cat, Options{}).Compile(context.Background(), []config.Connection{con(root, 1, "twice", 1)})

		var procErr *ProcessError
		require.ErrorAs(t, err, &procErr)
		assert.Equal(t, []string{"STATUS_dup_1", "STATUS_dup_1"}, procErr.Channels)
		assert.Contains(t, err.Error(), "STATUS_dup_1, STATUS_dup_1")
	})
}

func TestCompile_Errors(t *testing.T) {
	testCases := []struct {
		name      string
		catalog   func(t *testing.T) Catalog
		conns     []config.Connection
		target    any
		errSubstr string
	}{
		{
			name:      "no connections",
			conns:     nil,
			target:    new(*ConfigurationError),
			errSubstr: "pipeline has no connections",
		},
		{
			name: "unknown template",
			conns: []config.Connection{
				con(root, 1, "integrity_coverage", 1),
				con("integrity_coverage", 1, "not_a_process", 1),
			},
			target:    new(*ConfigurationError),
			errSubstr: "unknown process template(s): not_a_process",
		},
		{
			name: "type mismatch",
			conns: []config.Connection{
				con(root, 1, "integrity_coverage", 1),
				con("integrity_coverage", 1, "spades", 1),
				con("spades", 1, "fastqc", 1),
			},
			target:    new(*ConfigurationError),
			errSubstr: `the output of the "spades" process (fasta) cannot link with the input of the "fastqc" process (fastq)`,
		},
		{
			name: "missing dependency",
			conns: []config.Connection{
				con(root, 1, "integrity_coverage", 1),
				con("integrity_coverage", 1, "spades", 1),
				con("spades", 1, "pilon", 1),
			},
			target:    new(*ConfigurationError),
			errSubstr: "pilon[pid=3 lane=1] requires assembly_mapping",
		},
		{
			name:      "no raw input",
			conns:     []config.Connection{con(root, 1, "status_compiler", 1)},
			target:    new(*ProcessError),
			errSubstr: "at least one process with a raw input type",
		},
		{
			name: "cyclic forks",
			conns: []config.Connection{
				con(root, 1, "integrity_coverage", 1),
				con("integrity_coverage", 1, "fastqc", 2),
				con("fastqc", 2, "trimmomatic", 1),
			},
			target:    new(*ConfigurationError),
			errSubstr: "invalid fork tree",
		},
		{
			name: "origin without raw input definition",
			catalog: func(t *testing.T) Catalog {
				cat := newFakeCatalog()
				cat.add(&process.Node{Template: "reads", InputType: "fastq", OutputType: "fastq"})
				cat.add(&process.Node{Template: "aligned", InputType: "bam", OutputType: "bam"})
				return cat
			},
			conns: []config.Connection{
				con(root, 0, "reads", 1),
				con(root, 0, "aligned", 2),
			},
			target:    new(*ConfigurationError),
			errSubstr: `raw input of type "bam"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var cat Catalog
			if tc.catalog != nil {
				cat = tc.catalog(t)
			} else {
				cat = builtin(t)
			}

			res, err := New(cat, Options{}).Compile(context.Background(), tc.conns)

			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, errors.As(err, tc.target), "unexpected error type %T", err)
			assert.Contains(t, err.Error(), tc.errSubstr)
		})
	}
}

func TestCompile_IgnoreTypeSkipsCheck(t *testing.T) {
	_, res := compile(t, []config.Connection{
		con(root, 1, "integrity_coverage", 1),
		con("integrity_coverage", 1, "spades", 1),
		con("spades", 1, "patho_typing", 1),
	})
	assert.Equal(t, "spades_out_1_1", res.Nodes[3].InputChannel)
}

func TestCompile_Render(t *testing.T) {
	_, res := compile(t, singleCon)

	assert.True(t, strings.HasPrefix(res.Text, DefaultHeader))
	assert.True(t, strings.HasSuffix(res.Text, DefaultFooter))
	assert.Contains(t, res.Text, "IN_fastq_raw = Channel.fromFilePairs(params.fastq)")
	assert.Contains(t, res.Text, "IN_fastq_raw.set{ integrity_coverage_in_1_0 }")
	assert.Contains(t, res.Text, "process integrity_coverage_1 {")
	assert.Contains(t, res.Text, "set sample_id, file(fastq_pair) from integrity_coverage_out_1_0")
	assert.NotContains(t, res.Text, "{{")

	ic := strings.Index(res.Text, "process integrity_coverage_1 {")
	fastqc := strings.Index(res.Text, "process fastqc2_2 {")
	assert.Less(t, ic, fastqc)
}

func TestCompile_CustomBoilerplate(t *testing.T) {
	res, err := New(builtin(t), Options{Header: "// head\n", Footer: "// foot\n"}).
		Compile(context.Background(), singleCon)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.Text, "// head\n"))
	assert.True(t, strings.HasSuffix(res.Text, "// foot\n"))
}

func TestCompile_IsDeterministic(t *testing.T) {
	cat := builtin(t)
	for _, conns := range [][]config.Connection{singleCon, multiForks, implicitLink, rawForks} {
		first, err := Compile(context.Background(), cat, Options{AutoStatus: true}, conns)
		require.NoError(t, err)
		second, err := Compile(context.Background(), cat, Options{AutoStatus: true}, conns)
		require.NoError(t, err)
		assert.Equal(t, first.Text, second.Text)
	}
}

// fakeCatalog is a minimal Catalog with a fixed fragment per template.
type fakeCatalog struct {
	nodes map[string]*process.Node
	raw   map[string]string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		nodes: make(map[string]*process.Node),
		raw:   map[string]string{"fastq": "Channel.fromFilePairs(params.fastq)"},
	}
}

func (f *fakeCatalog) add(n *process.Node) {
	if n.Fragment == "" {
		n.Fragment = fmt.Sprintf("// %s {{.PID}} {{.InputChannel}} {{.OutputChannel}}\n", n.Template)
	}
	f.nodes[n.Template] = n
}

func (f *fakeCatalog) Lookup(name string) (*process.Node, error) {
	n, ok := f.nodes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", catalog.ErrUnknownProcess, name)
	}
	cp := *n
	cp.StatusChannels = append([]string(nil), n.StatusChannels...)
	return &cp, nil
}

func (f *fakeCatalog) RawChannel(inputType string) (string, bool) {
	ch, ok := f.raw[inputType]
	return ch, ok
}
