package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ats-match-go/internal/types"
)

var pythonPriority = types.JobPriority{
	RoleName:  "Python Developer",
	Rank:      1,
	KeySkills: []string{"python", "django", "flask", "fastapi", "pandas", "numpy"},
	Weight:    1.0,
}

func TestRoleKeywords(t *testing.T) {
	keywords := RoleKeywords([]types.JobPriority{
		pythonPriority,
		{RoleName: "Senior Java Developer", Rank: 2},
	})

	// 通用词被剔除，只保留判别性关键词
	assert.Contains(t, keywords, "python")
	assert.Contains(t, keywords, "java")
	assert.NotContains(t, keywords, "developer")
	assert.NotContains(t, keywords, "senior")
}

func TestRelevanceGateByRoleTitle(t *testing.T) {
	g := NewRelevanceGate(NewSkillMatcher(DefaultCatalog(), nil))
	timeline := []types.Engagement{
		{RoleTitle: "Python Engineer", Years: 3},
	}

	// 职位名命中角色关键词即达到门槛，技术栈证据不是必需的
	years, matches := g.Evaluate([]types.JobPriority{pythonPriority}, timeline)
	assert.InDelta(t, 3.0, years, 0.001)
	require.Len(t, matches, 1)
	assert.Contains(t, matches[0].MatchedKeywords, "python")
}

func TestRelevanceGateBySkills(t *testing.T) {
	g := NewRelevanceGate(NewSkillMatcher(DefaultCatalog(), nil))
	timeline := []types.Engagement{
		// 职位名无关键词，但技术栈命中两个以上优先技能
		{RoleTitle: "Backend Engineer", Years: 2, Technologies: []string{"python", "django"}},
	}

	years, matches := g.Evaluate([]types.JobPriority{pythonPriority}, timeline)
	assert.InDelta(t, 2.0, years, 0.001)
	require.Len(t, matches, 1)
	assert.GreaterOrEqual(t, len(matches[0].MatchedSkills), 2)
}

func TestRelevanceGateSingleSkillNotEnough(t *testing.T) {
	g := NewRelevanceGate(NewSkillMatcher(DefaultCatalog(), nil))
	timeline := []types.Engagement{
		// 只有一个技能命中且职位名无关，不足以通过门槛
		{RoleTitle: "Accountant", Years: 5, Technologies: []string{"excel"}},
	}

	years, matches := g.Evaluate([]types.JobPriority{pythonPriority}, timeline)
	assert.Zero(t, years)
	assert.Empty(t, matches)
}

func TestRelevanceGateUnweightedYears(t *testing.T) {
	g := NewRelevanceGate(NewSkillMatcher(DefaultCatalog(), nil))
	timeline := []types.Engagement{
		{RoleTitle: "Python Developer", Years: 2},
		{RoleTitle: "Sales Manager", Years: 10},
		{RoleTitle: "Django Backend Developer", Years: 1.5, Technologies: []string{"python", "flask"}},
	}

	// 相关年限是通过门槛的任职年限的原值累加，不相关的任职不计入
	years, matches := g.Evaluate([]types.JobPriority{pythonPriority}, timeline)
	assert.InDelta(t, 3.5, years, 0.001)
	assert.Len(t, matches, 2)
}
