package skillkit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConstraintKinds(t *testing.T) {
	tests := []struct {
		spec string
		kind ConstraintKind
	}{
		{"", ConstraintAny},
		{"1.2.3", ConstraintExact},
		{"^1.2.3", ConstraintCaret},
		{"~1.2.3", ConstraintTilde},
		{">=1.2.3", ConstraintAtLeast},
		{">=1.2.3 <2.0.0", ConstraintRange},
	}
	for _, tt := range tests {
		c, err := ParseConstraint(tt.spec)
		require.NoError(t, err, tt.spec)
		assert.Equal(t, tt.kind, c.Kind, tt.spec)
	}
}

func TestParseConstraintErrors(t *testing.T) {
	for _, spec := range []string{"abc", "^x.y.z", "~1", ">=1.0.0 <abc", ">=2.0.0 <1.0.0", "1.2.3.4"} {
		_, err := ParseConstraint(spec)
		require.Error(t, err, spec)
		var invalid *InvalidConstraintError
		assert.True(t, errors.As(err, &invalid), spec)
		assert.True(t, errors.Is(err, ErrInvalidConstraint), spec)
	}
}

func TestCaretSemantics(t *testing.T) {
	c, err := ParseConstraint("^1.2.3")
	require.NoError(t, err)
	assert.True(t, c.Satisfies("1.2.3"))
	assert.True(t, c.Satisfies("1.9.0"))
	assert.False(t, c.Satisfies("1.2.2"))
	assert.False(t, c.Satisfies("2.0.0"))
}

func TestTildeSemantics(t *testing.T) {
	c, err := ParseConstraint("~1.2.3")
	require.NoError(t, err)
	assert.True(t, c.Satisfies("1.2.3"))
	assert.True(t, c.Satisfies("1.2.9"))
	assert.False(t, c.Satisfies("1.3.0"))
	assert.False(t, c.Satisfies("1.2.2"))
}

func TestExactSemantics(t *testing.T) {
	c, err := ParseConstraint("1.0.0")
	require.NoError(t, err)
	assert.True(t, c.Satisfies("1.0.0"))
	assert.False(t, c.Satisfies("1.0.1"))
}

func TestAtLeastSemantics(t *testing.T) {
	c, err := ParseConstraint(">=1.5.0")
	require.NoError(t, err)
	assert.True(t, c.Satisfies("1.5.0"))
	assert.True(t, c.Satisfies("3.0.0"))
	assert.False(t, c.Satisfies("1.4.9"))
}

func TestRangeIsHalfOpen(t *testing.T) {
	c, err := ParseConstraint(">=1.0.0 <2.0.0")
	require.NoError(t, err)
	assert.True(t, c.Satisfies("1.0.0"))
	assert.True(t, c.Satisfies("1.9.9"))
	assert.False(t, c.Satisfies("2.0.0"))
	assert.False(t, c.Satisfies("0.9.9"))
}

func TestAnyConstraint(t *testing.T) {
	c, err := ParseConstraint("  ")
	require.NoError(t, err)
	assert.Equal(t, ConstraintAny, c.Kind)
	assert.True(t, c.Satisfies("0.0.1"))
	assert.Equal(t, "*", c.String())
}

func TestUnparseableVersionNeverSatisfies(t *testing.T) {
	c, err := ParseConstraint("^1.0.0")
	require.NoError(t, err)
	assert.False(t, c.Satisfies("not-a-version"))
}
