package skillkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsToolAllowed(t *testing.T) {
	def := &SkillDefinition{AllowedTools: []string{"Read", "Grep"}}
	assert.True(t, def.IsToolAllowed("Read"))
	assert.True(t, def.IsToolAllowed("read"))
	assert.False(t, def.IsToolAllowed("Write"))

	unrestricted := &SkillDefinition{}
	assert.True(t, unrestricted.IsToolAllowed("AnyTool"))
}

func TestPrecedenceValid(t *testing.T) {
	assert.True(t, PrecedenceOrganization.Valid())
	assert.True(t, PrecedenceLocal.Valid())
	assert.False(t, Precedence("galactic").Valid())
}

func TestScopeRuleEmpty(t *testing.T) {
	assert.True(t, (*ScopeRule)(nil).Empty())
	assert.True(t, (&ScopeRule{}).Empty())
	assert.False(t, (&ScopeRule{Triggers: []string{"debug"}}).Empty())
}

func TestSkillKey(t *testing.T) {
	def := &SkillDefinition{Name: "a", Version: "1.2.0"}
	assert.Equal(t, "a@1.2.0", def.Key())
}
