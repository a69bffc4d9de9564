package skillkit

import (
	"context"

	"github.com/deepnoodle-ai/skillkit/slogger"
)

func testLogger() slogger.Logger {
	return slogger.NewDiscardLogger()
}

// staticSimilarity returns fixed scores keyed by skill name, defaulting to
// zero for unknown names.
type staticSimilarity map[string]float64

func (s staticSimilarity) Similarity(_ context.Context, _ *InvocationContext, def *SkillDefinition) (float64, error) {
	return s[def.Name], nil
}
