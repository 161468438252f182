package matcher

import (
	"regexp"
	"strings"

	"ats-match-go/internal/constants"
)

var (
	// 保留技能名中有意义的符号：+ # . -
	reSkillStrip  = regexp.MustCompile(`[^a-z0-9+#.\-\s]`)
	reSkillSuffix = regexp.MustCompile(`\s+(framework|js|developer|development)$`)
	reSpaces      = regexp.MustCompile(`\s+`)
)

// NormalizeSkill 技能名归一化：小写、去噪音字符、合并空白、去冗余后缀
// 所有技能比较的唯一入口，保证 "React.JS" 与 "react" 走同一条路径
func NormalizeSkill(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = reSkillStrip.ReplaceAllString(s, "")
	s = reSpaces.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = reSkillSuffix.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// NormalizeSkills 批量归一化并按首次出现顺序去重，空串被丢弃
func NormalizeSkills(raws []string) []string {
	seen := make(map[string]struct{}, len(raws))
	out := make([]string, 0, len(raws))
	for _, raw := range raws {
		n := NormalizeSkill(raw)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// SkillMatcher 分层技能匹配器
// 匹配层级从严到宽：归一化相等、同义词组、子串包含、字符集模糊、语义相似
// 构造后只读，可并发使用
type SkillMatcher struct {
	groups   map[string][]int
	provider SimilarityProvider
}

// NewSkillMatcher 基于目录的同义词组构建匹配器
// provider 为 nil 时语义层永不命中
func NewSkillMatcher(catalog *Catalog, provider SimilarityProvider) *SkillMatcher {
	if provider == nil {
		provider = NoopSimilarityProvider{}
	}
	m := &SkillMatcher{
		groups:   make(map[string][]int),
		provider: provider,
	}
	for i, group := range catalog.SynonymGroups {
		for _, word := range group {
			n := NormalizeSkill(word)
			if n == "" {
				continue
			}
			m.groups[n] = append(m.groups[n], i)
		}
	}
	return m
}

// Matches 判定两个技能名是否视为同一技能
func (m *SkillMatcher) Matches(a, b string) bool {
	na, nb := NormalizeSkill(a), NormalizeSkill(b)
	if na == "" || nb == "" {
		return false
	}
	// 第一层：归一化后相等
	if na == nb {
		return true
	}
	// 第二层：共享同义词组
	if m.sameSynonymGroup(na, nb) {
		return true
	}
	// 第三层：任一方向的子串包含
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}
	// 第四层：字符集重叠模糊匹配
	if charOverlapRatio(na, nb) > constants.FuzzyOverlapThreshold {
		return true
	}
	// 第五层：可插拔的语义相似度
	if sim, ok := m.provider.Similarity(na, nb); ok && sim > constants.SemanticSimilarityThreshold {
		return true
	}
	return false
}

// HasSkill 候选技能列表中是否存在与目标技能匹配的项
func (m *SkillMatcher) HasSkill(target string, skills []string) bool {
	for _, s := range skills {
		if m.Matches(target, s) {
			return true
		}
	}
	return false
}

// CountMatches 目标技能集中被候选技能列表覆盖的数量
func (m *SkillMatcher) CountMatches(targets, skills []string) int {
	count := 0
	for _, t := range targets {
		if m.HasSkill(t, skills) {
			count++
		}
	}
	return count
}

func (m *SkillMatcher) sameSynonymGroup(na, nb string) bool {
	ga, ok := m.groups[na]
	if !ok {
		return false
	}
	gb, ok := m.groups[nb]
	if !ok {
		return false
	}
	for _, i := range ga {
		for _, j := range gb {
			if i == j {
				return true
			}
		}
	}
	return false
}

// charOverlapRatio 字符集交集占较短字符串长度（非字符集大小）的比例，双方长度均需>=3
func charOverlapRatio(a, b string) float64 {
	if len(a) < 3 || len(b) < 3 {
		return 0
	}
	setA := make(map[rune]struct{}, len(a))
	for _, r := range a {
		setA[r] = struct{}{}
	}
	setB := make(map[rune]struct{}, len(b))
	for _, r := range b {
		setB[r] = struct{}{}
	}
	inter := 0
	for r := range setA {
		if _, ok := setB[r]; ok {
			inter++
		}
	}
	smaller := len(a)
	if len(b) < smaller {
		smaller = len(b)
	}
	return float64(inter) / float64(smaller)
}
