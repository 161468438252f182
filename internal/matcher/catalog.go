package matcher

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// RoleEntry 岗位角色检测目录中的一条声明式条目
type RoleEntry struct {
	Role      string   `yaml:"role"`
	KeySkills []string `yaml:"key_skills"`
	Patterns  []string `yaml:"patterns"`
}

// FallbackCluster 主技能聚簇到角色的兜底映射
type FallbackCluster struct {
	Triggers  []string `yaml:"triggers"`
	Role      string   `yaml:"role"`
	KeySkills []string `yaml:"key_skills"`
}

// GenericFallback 最终兜底角色
type GenericFallback struct {
	Role      string   `yaml:"role"`
	KeySkills []string `yaml:"key_skills"`
}

// Catalog 聚合三份词表数据：角色目录、同义词组、技术关键词
// 启动时加载一次，之后进程内只读，可被任意数量的协程并发使用
type Catalog struct {
	Roles            []RoleEntry
	SynonymGroups    [][]string
	TitlePatterns    map[string][]string
	Vocabulary       map[string][]string
	FallbackClusters []FallbackCluster
	GenericFallback  GenericFallback
}

type roleCatalogFile struct {
	Version int         `yaml:"version"`
	Roles   []RoleEntry `yaml:"roles"`
}

type synonymsFile struct {
	Version int        `yaml:"version"`
	Groups  [][]string `yaml:"groups"`
}

type techKeywordsFile struct {
	Version          int                 `yaml:"version"`
	TitlePatterns    map[string][]string `yaml:"title_patterns"`
	Vocabulary       map[string][]string `yaml:"vocabulary"`
	FallbackClusters []FallbackCluster   `yaml:"fallback_clusters"`
	GenericFallback  GenericFallback     `yaml:"generic_fallback"`
}

// LoadCatalog 从内嵌数据文件加载完整目录
func LoadCatalog() (*Catalog, error) {
	var roles roleCatalogFile
	if err := loadYAML("data/role_catalog.yaml", &roles); err != nil {
		return nil, err
	}
	var synonyms synonymsFile
	if err := loadYAML("data/skill_synonyms.yaml", &synonyms); err != nil {
		return nil, err
	}
	var keywords techKeywordsFile
	if err := loadYAML("data/tech_keywords.yaml", &keywords); err != nil {
		return nil, err
	}

	if len(roles.Roles) == 0 {
		return nil, fmt.Errorf("角色目录为空")
	}
	if keywords.GenericFallback.Role == "" {
		return nil, fmt.Errorf("缺少兜底角色配置")
	}

	return &Catalog{
		Roles:            roles.Roles,
		SynonymGroups:    synonyms.Groups,
		TitlePatterns:    keywords.TitlePatterns,
		Vocabulary:       keywords.Vocabulary,
		FallbackClusters: keywords.FallbackClusters,
		GenericFallback:  keywords.GenericFallback,
	}, nil
}

func loadYAML(name string, out interface{}) error {
	data, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("读取内嵌数据文件 %s 失败: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("解析数据文件 %s 失败: %w", name, err)
	}
	return nil
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// DefaultCatalog 返回进程级默认目录单例
// 数据为内嵌文件，加载失败属于构建错误，直接panic
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		c, err := LoadCatalog()
		if err != nil {
			panic(fmt.Sprintf("加载默认目录失败: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}
