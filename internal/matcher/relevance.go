package matcher

import (
	"strings"

	"ats-match-go/internal/constants"
	"ats-match-go/internal/types"
)

// EngagementMatch 通过相关性评估的任职条目及其证据
type EngagementMatch struct {
	Engagement      types.Engagement
	RelevanceScore  float64
	MatchedKeywords []string
	MatchedSkills   []string
}

// RelevanceGate 硬性相关性门槛
// 候选人与任何优先岗位均无经历重叠时，整体匹配直接判零
type RelevanceGate struct {
	matcher *SkillMatcher
}

// NewRelevanceGate 构造门槛评估器
func NewRelevanceGate(matcher *SkillMatcher) *RelevanceGate {
	return &RelevanceGate{matcher: matcher}
}

// RoleKeywords 从优先岗位名提取判别性关键词，剔除通用词
func RoleKeywords(priorities []types.JobPriority) []string {
	seen := make(map[string]struct{})
	var keywords []string
	for _, p := range priorities {
		for _, token := range strings.Fields(strings.ToLower(p.RoleName)) {
			if isGenericRoleWord(token) {
				continue
			}
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			keywords = append(keywords, token)
		}
	}
	return keywords
}

// PrioritySkillUnion 所有优先岗位关键技能的去重并集
func PrioritySkillUnion(priorities []types.JobPriority) []string {
	seen := make(map[string]struct{})
	var skills []string
	for _, p := range priorities {
		for _, s := range p.KeySkills {
			n := NormalizeSkill(s)
			if n == "" {
				continue
			}
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			skills = append(skills, n)
		}
	}
	return skills
}

// Evaluate 逐条评估任职相关性，返回相关年限总和与命中明细
// 单条任职得分：职位名含任一角色关键词 +0.5，技术栈命中>=2个优先技能 +0.5
// 得分达到门槛视为相关，年限原值累加，不做权重折算
func (g *RelevanceGate) Evaluate(priorities []types.JobPriority, timeline []types.Engagement) (float64, []EngagementMatch) {
	keywords := RoleKeywords(priorities)
	prioritySkills := PrioritySkillUnion(priorities)

	var relevantYears float64
	var matches []EngagementMatch
	for _, eng := range timeline {
		score := 0.0
		roleLower := strings.ToLower(eng.RoleTitle)

		var hitKeywords []string
		for _, kw := range keywords {
			if strings.Contains(roleLower, kw) {
				hitKeywords = append(hitKeywords, kw)
			}
		}
		if len(hitKeywords) > 0 {
			score += 0.5
		}

		var hitSkills []string
		for _, s := range prioritySkills {
			if g.matcher.HasSkill(s, eng.Technologies) {
				hitSkills = append(hitSkills, s)
			}
		}
		if len(hitSkills) >= 2 {
			score += 0.5
		}

		if score >= constants.EngagementRelevanceThreshold {
			relevantYears += eng.Years
			matches = append(matches, EngagementMatch{
				Engagement:      eng,
				RelevanceScore:  score,
				MatchedKeywords: hitKeywords,
				MatchedSkills:   hitSkills,
			})
		}
	}
	return relevantYears, matches
}

func isGenericRoleWord(token string) bool {
	for _, w := range constants.GenericRoleWords {
		if token == w {
			return true
		}
	}
	return false
}
