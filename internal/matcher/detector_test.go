package matcher

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ats-match-go/internal/constants"
	"ats-match-go/internal/types"
)

func newTestDetector() *Detector {
	catalog := DefaultCatalog()
	m := NewSkillMatcher(catalog, nil)
	return NewDetector(catalog, m, zerolog.Nop())
}

func TestDetectPrimaryRole(t *testing.T) {
	d := newTestDetector()
	job := &types.JobRequirement{
		Title:         "Senior Python Developer",
		RawText:       "We need a Python developer with Django experience.",
		PrimarySkills: []string{"Python", "Django"},
	}

	priorities := d.Detect(job, nil)
	require.NotEmpty(t, priorities)
	assert.Equal(t, "Python Developer", priorities[0].RoleName)
	assert.Equal(t, 1, priorities[0].Rank)
	assert.Equal(t, constants.PriorityWeight1, priorities[0].Weight)
	assert.NotEmpty(t, priorities[0].KeySkills)
}

func TestDetectSecondaryRoles(t *testing.T) {
	d := newTestDetector()
	job := &types.JobRequirement{
		Title:           "Python Developer",
		RawText:         "Python backend role. DevOps experience with Docker and Kubernetes is a plus.",
		PrimarySkills:   []string{"Python"},
		SecondarySkills: []string{"Docker", "Kubernetes"},
	}

	priorities := d.Detect(job, nil)
	require.GreaterOrEqual(t, len(priorities), 2)
	assert.Equal(t, "Python Developer", priorities[0].RoleName)

	// DevOps角色有独立证据（模式命中+次要技能命中），应进入第二优先级
	assert.Equal(t, "DevOps Engineer", priorities[1].RoleName)
	assert.Equal(t, 2, priorities[1].Rank)
	assert.Equal(t, constants.PriorityWeight2, priorities[1].Weight)
	assert.LessOrEqual(t, len(priorities), 3)
}

func TestDetectNoSpuriousSecondaries(t *testing.T) {
	d := newTestDetector()
	// 纯Python岗位：其他角色不应仅凭主技能溢出入选
	job := &types.JobRequirement{
		Title:         "Python Developer",
		RawText:       "Looking for a Python developer with 3+ years of Django experience.",
		PrimarySkills: []string{"Python", "Django"},
	}

	priorities := d.Detect(job, nil)
	require.Len(t, priorities, 1)
	assert.Equal(t, "Python Developer", priorities[0].RoleName)
}

func TestDetectManualOverride(t *testing.T) {
	d := newTestDetector()
	manual := []types.JobPriority{
		{RoleName: "Platform Engineer", Rank: 1, KeySkills: []string{"go", "kubernetes"}, Weight: 1.0},
	}
	job := &types.JobRequirement{
		Title:         "Python Developer",
		PrimarySkills: []string{"Python"},
	}

	// 人工优先级整体覆盖自动检测，原样返回
	priorities := d.Detect(job, manual)
	require.Len(t, priorities, 1)
	assert.Equal(t, "Platform Engineer", priorities[0].RoleName)
}

func TestDetectTieBreakByCatalogOrder(t *testing.T) {
	d := newTestDetector()
	// 无任何模式与技能差异证据时不产生角色命中，走兜底
	// 有同分证据时目录中靠前的条目胜出：python与java同时各命中一个模式
	job := &types.JobRequirement{
		Title:   "Developer",
		RawText: "python java",
	}

	priorities := d.Detect(job, nil)
	require.NotEmpty(t, priorities)
	assert.Equal(t, "Python Developer", priorities[0].RoleName)
}

func TestClusterFallback(t *testing.T) {
	d := newTestDetector()

	// 主技能可聚簇时映射到对应角色
	p := d.clusterFallback([]string{"pandas", "django"})
	assert.Equal(t, "Python Developer", p.RoleName)
	assert.Equal(t, 1, p.Rank)

	// 无簇命中时主技能本身成为通用角色的关键技能
	p = d.clusterFallback([]string{"cobol", "jcl"})
	assert.Equal(t, "Software Developer", p.RoleName)
	assert.Contains(t, p.KeySkills, "cobol")
}

func TestDetectGenericFallback(t *testing.T) {
	d := newTestDetector()
	// 完全无技术证据时返回通用兜底角色，结果保证非空
	job := &types.JobRequirement{
		Title:   "Team Member",
		RawText: "Join our amazing workplace.",
	}

	priorities := d.Detect(job, nil)
	require.Len(t, priorities, 1)
	assert.Equal(t, "Software Developer", priorities[0].RoleName)
	assert.NotEmpty(t, priorities[0].KeySkills)
}
