package textutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uimorph/uimorph/pkg/textutil"
)

func TestBalancedSimple(t *testing.T) {
	t.Parallel()

	src := "(a + (b * c)) rest"

	end, err := textutil.Balanced(src, 0)
	require.NoError(t, err)
	assert.Equal(t, "(a + (b * c))", src[:end])
}

func TestBalancedSkipsStrings(t *testing.T) {
	t.Parallel()

	src := `{ label: "closing } inside" }`

	end, err := textutil.Balanced(src, 0)
	require.NoError(t, err)
	assert.Equal(t, src, src[:end])
}

func TestBalancedUnclosed(t *testing.T) {
	t.Parallel()

	_, err := textutil.Balanced("(a + b", 0)
	require.ErrorIs(t, err, textutil.ErrUnbalanced)
}

func TestLineCol(t *testing.T) {
	t.Parallel()

	src := "ab\ncd\nef"

	line, col := textutil.LineCol(src, 4)
	assert.Equal(t, 2, line)
	assert.Equal(t, 2, col)
}

func TestCamelJoin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		parts []string
		want  string
	}{
		{"single", []string{"users"}, "users"},
		{"two", []string{"users", "detail"}, "usersDetail"},
		{"cleans", []string{"user-profile", "edit"}, "userprofileEdit"},
		{"empty", nil, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, textutil.CamelJoin(tc.parts))
		})
	}
}

func TestIndentWriter(t *testing.T) {
	t.Parallel()

	w := textutil.NewIndentWriter("  ")
	w.Line("a(")
	w.In()
	w.Line("b,")
	w.Out()
	w.Line(")")

	assert.Equal(t, "a(\n  b,\n)\n", w.String())
}
