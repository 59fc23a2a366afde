package goldmath

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdmath/pkg/mathspan"
)

func TestLookahead_ReadsOnlyTheBlock(t *testing.T) {
	t.Parallel()

	source := []byte("$$\nx\n$$\n" + strings.Repeat("paragraph\n", 1000))
	lines := lookahead(source, 0)

	match, ok := mathspan.ScanBlock(lines, 0, math.MaxInt, mathspan.DefaultDelimiter)
	require.True(t, ok)
	assert.Equal(t, "x", match.Content)
	assert.Equal(t, 3, lines.Len())
}

func TestLookahead_NotAFence(t *testing.T) {
	t.Parallel()

	source := []byte("$x\n\n" + strings.Repeat("$x\n\n", 1000))
	lines := lookahead(source, 0)

	_, ok := mathspan.ScanBlock(lines, 0, math.MaxInt, mathspan.DefaultDelimiter)
	assert.False(t, ok)
	assert.Equal(t, 1, lines.Len())
}

func TestLookahead_Blockquote(t *testing.T) {
	t.Parallel()

	source := []byte("> $$\n> x\n> $$\nafter\n")
	lines := lookahead(source, 2)

	match, ok := mathspan.ScanBlock(lines, 0, math.MaxInt, mathspan.DefaultDelimiter)
	require.True(t, ok)
	assert.Equal(t, "x", match.Content)
	assert.Equal(t, 3, lines.Len())

	lines = lookahead([]byte("> $$\n> x\noutside\n> $$\n"), 2)
	_, ok = mathspan.ScanBlock(lines, 0, math.MaxInt, mathspan.DefaultDelimiter)
	assert.False(t, ok)
	assert.Equal(t, 3, lines.Len())
}

func TestLookahead_LastLineWithoutNewline(t *testing.T) {
	t.Parallel()

	lines := lookahead([]byte("$$\nx\n$$"), 0)
	match, ok := mathspan.ScanBlock(lines, 0, math.MaxInt, mathspan.DefaultDelimiter)
	require.True(t, ok)
	assert.Equal(t, 3, match.Next)

	lines = lookahead([]byte("$$\nx\n"), 0)
	_, ok = mathspan.ScanBlock(lines, 0, math.MaxInt, mathspan.DefaultDelimiter)
	assert.False(t, ok)
	assert.Equal(t, 2, lines.Len())
}
