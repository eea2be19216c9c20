package tlcd

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParse(t *testing.T) {
	text := `# Equations for "ex" written by tlgen on today

tlg 5 2 0 2 3
a
b
y
k
p 1 1 2 a * b
y -1 2 1 p * !a
k 0 1
`
	f, err := Parse(strings.NewReader(text))
	require.NoError(t, err)

	want := &File{
		Comment: `Equations for "ex" written by tlgen on today`,
		Header:  Header{MaxVar: 5, Inputs: 2, Latches: 0, Outputs: 2, Gates: 3},
		Inputs:  []string{"a", "b"},
		Outputs: []string{"y", "k"},
		Gates: []Gate{
			{Name: "p", Weights: []int{1, 1}, Threshold: 2, Formula: "a * b"},
			// File order is last fanin first.
			{Name: "y", Weights: []int{2, -1}, Threshold: 1, Formula: "p * !a"},
			{Name: "k", Weights: []int{}, Threshold: 0, Formula: "1"},
		},
	}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParseConstantWithInputs(t *testing.T) {
	f, err := Parse(strings.NewReader("tlg 2 1 0 1 1\na\nz\nz 0 1 0\n"))
	require.NoError(t, err)
	require.Len(t, f.Gates, 1)
	assert.Equal(t, Gate{Name: "z", Weights: []int{0}, Threshold: 1, Formula: "0"}, f.Gates[0])
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty", "", "missing tlg header"},
		{"bad keyword", "tl 1 1 0 1 0\na\na\n", "malformed header"},
		{"short header", "tlg 1 1 0 1\n", "malformed header"},
		{"negative count", "tlg 1 1 0 -1 0\n", "malformed header count"},
		{"max var", "tlg 4 1 0 1 1\na\ny\ny 1 1 a\n", "max variable"},
		{"missing input", "tlg 2 2 0 0 0\na\n", "expected 2 inputs"},
		{"spaced name", "tlg 1 1 0 1 0\na b\na\n", "contains whitespace"},
		{"missing gate", "tlg 2 1 0 1 1\na\ny\n", "expected 1 gates"},
		{"short gate", "tlg 2 1 0 1 1\na\ny\ny a\n", "too short"},
		{"no threshold", "tlg 2 1 0 1 1\na\ny\ny a * b\n", "no threshold"},
		{"trailing", "tlg 1 1 0 1 0\na\na\nextra\n", "unexpected content"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.text))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestFileYAML(t *testing.T) {
	f := &File{
		Header:  Header{MaxVar: 3, Inputs: 2, Outputs: 1, Gates: 1},
		Inputs:  []string{"a", "b"},
		Outputs: []string{"y"},
		Gates:   []Gate{{Name: "y", Weights: []int{1, 1}, Threshold: 2, Formula: "a * b"}},
	}
	data, err := yaml.Marshal(f)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "max_var: 3")
	assert.Contains(t, out, "weights: [1, 1]")
	assert.NotContains(t, out, "comment:")
}
