package jsontree

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("Preserves order and duplicates", func(t *testing.T) {
		n, err := Parse([]byte(`{"z": 1, "a": 2, "z": 3}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"z", "a", "z"}, n.Keys())
	})

	t.Run("Preserves number text", func(t *testing.T) {
		n, err := Parse([]byte(`[9223372036854775807, 1.0, -0, 1E+2]`))
		require.NoError(t, err)
		require.Len(t, n.Items, 4)
		assert.Equal(t, "9223372036854775807", n.Items[0].Num)
		assert.Equal(t, "1.0", n.Items[1].Num)
		assert.Equal(t, "-0", n.Items[2].Num)
		assert.Equal(t, "1E+2", n.Items[3].Num)

		i, err := n.Items[0].Int64()
		require.NoError(t, err)
		assert.Equal(t, int64(9223372036854775807), i)
	})

	t.Run("Scalars", func(t *testing.T) {
		tests := []struct {
			in   string
			want *Node
		}{
			{`null`, Null()},
			{`true`, Bool(true)},
			{` false `, Bool(false)},
			{`"hi"`, String("hi")},
			{`"a\"b\\cé\n"`, String("a\"b\\cé\n")},
			{`"日本"`, String("日本")},
			{`-12`, Int(-12)},
			{`[]`, Array()},
			{`{}`, Object()},
		}
		for _, tc := range tests {
			t.Run(tc.in, func(t *testing.T) {
				n, err := Parse([]byte(tc.in))
				require.NoError(t, err)
				assert.True(t, tc.want.Equal(n), "got %s", n)
			})
		}
	})

	t.Run("Nested", func(t *testing.T) {
		n, err := Parse([]byte(`{"a": [1, {"b": null}], "c": {"d": [true]}}`))
		require.NoError(t, err)
		want := Object(
			M("a", Array(Int(1), Object(M("b", Null())))),
			M("c", Object(M("d", Array(Bool(true))))),
		)
		assert.True(t, want.Equal(n), "got %s", n)
	})
}

func TestParseErrors(t *testing.T) {
	inputs := []string{
		``,
		`{`,
		`[1,]`,
		`{"a" 1}`,
		`{"a": 1,}`,
		`{1: 2}`,
		`01`,
		`1.`,
		`-`,
		`1e`,
		`tru`,
		`"unterminated`,
		"\"ctrl\x01\"",
		`{} {}`,
		`// comment`,
		`{'a': 1}`,
		`NaN`,
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := Parse([]byte(in))
			require.Error(t, err)
			var se *SyntaxError
			assert.True(t, errors.As(err, &se), "want *SyntaxError, got %T", err)
		})
	}
}

func TestParseMaxDepth(t *testing.T) {
	deep := strings.Repeat("[", MaxDepth+1) + strings.Repeat("]", MaxDepth+1)
	_, err := Parse([]byte(deep))
	assert.ErrorContains(t, err, "max depth")

	ok := strings.Repeat("[", 100) + strings.Repeat("]", 100)
	_, err = Parse([]byte(ok))
	assert.NoError(t, err)
}

func TestValidNumber(t *testing.T) {
	for _, s := range []string{"0", "-0", "12", "1.5", "1e9", "-1.5E-3"} {
		assert.True(t, ValidNumber(s), s)
	}
	for _, s := range []string{"", "+1", "01", ".5", "1.", "NaN", "Infinity", "1e", "0x10"} {
		assert.False(t, ValidNumber(s), s)
	}
}
