package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog(t *testing.T) {
	catalog, err := LoadCatalog()
	require.NoError(t, err)

	// 角色目录非空且每个条目结构完整
	require.NotEmpty(t, catalog.Roles)
	for _, role := range catalog.Roles {
		assert.NotEmpty(t, role.Role)
		assert.NotEmpty(t, role.KeySkills, "角色 %s 缺少关键技能", role.Role)
		assert.NotEmpty(t, role.Patterns, "角色 %s 缺少检测模式", role.Role)
	}

	assert.NotEmpty(t, catalog.SynonymGroups)
	assert.NotEmpty(t, catalog.TitlePatterns)
	assert.NotEmpty(t, catalog.Vocabulary)
	assert.NotEmpty(t, catalog.FallbackClusters)

	// 兜底角色必须存在，这是检测结果非空的最后保证
	assert.Equal(t, "Software Developer", catalog.GenericFallback.Role)
	assert.NotEmpty(t, catalog.GenericFallback.KeySkills)
}

func TestDefaultCatalogSingleton(t *testing.T) {
	c1 := DefaultCatalog()
	c2 := DefaultCatalog()
	assert.Same(t, c1, c2)
}

func TestCatalogRoleOrder(t *testing.T) {
	catalog := DefaultCatalog()
	// 条目顺序承载平分时的优先语义，第一个条目固定为Python Developer
	require.NotEmpty(t, catalog.Roles)
	assert.Equal(t, "Python Developer", catalog.Roles[0].Role)
}
