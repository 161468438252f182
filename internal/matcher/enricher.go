package matcher

import (
	"regexp"
	"strings"

	"ats-match-go/internal/types"
)

// Enricher 为技术标签贫乏的任职条目补充技术栈
// 从职位名和描述文本中提取技术词，只增不删，不修改年限与时长
type Enricher struct {
	catalog  *Catalog
	vocabREs map[string]*regexp.Regexp
}

// NewEnricher 构造富化器，词表正则在此一次性编译
func NewEnricher(catalog *Catalog) *Enricher {
	e := &Enricher{
		catalog:  catalog,
		vocabREs: make(map[string]*regexp.Regexp),
	}
	for _, terms := range catalog.Vocabulary {
		for _, term := range terms {
			n := NormalizeSkill(term)
			if n == "" {
				continue
			}
			if _, ok := e.vocabREs[n]; ok {
				continue
			}
			e.vocabREs[n] = wordBoundaryRE(n)
		}
	}
	return e
}

// Enrich 返回补充过技术标签的任职副本，原始时间线不被修改
// prioritySkills 为优先岗位关键技能并集，也参与描述文本扫描
func (e *Enricher) Enrich(timeline []types.Engagement, prioritySkills []string) []types.Engagement {
	enriched := make([]types.Engagement, 0, len(timeline))
	for _, eng := range timeline {
		out := eng
		out.Technologies = e.collectTechnologies(eng, prioritySkills)
		enriched = append(enriched, out)
	}
	return enriched
}

func (e *Enricher) collectTechnologies(eng types.Engagement, prioritySkills []string) []string {
	seen := make(map[string]struct{})
	var techs []string
	add := func(raw string) {
		n := NormalizeSkill(raw)
		if n == "" {
			return
		}
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		techs = append(techs, n)
	}

	// 既有标签永不丢失
	for _, t := range eng.Technologies {
		add(t)
	}

	// 职位名中的技术指征
	titleLower := strings.ToLower(eng.RoleTitle)
	for tech, phrases := range e.catalog.TitlePatterns {
		for _, phrase := range phrases {
			if strings.Contains(titleLower, strings.ToLower(phrase)) {
				add(tech)
				break
			}
		}
	}

	// 描述与职责文本中的词表命中
	text := strings.ToLower(strings.TrimSpace(eng.Description + " " + eng.Responsibilities))
	if text != "" {
		for term, re := range e.vocabREs {
			if re.MatchString(text) {
				add(term)
			}
		}
		for _, skill := range prioritySkills {
			n := NormalizeSkill(skill)
			if n == "" {
				continue
			}
			if _, ok := seen[n]; ok {
				continue
			}
			if wordBoundaryRE(n).MatchString(text) {
				add(n)
			}
		}
	}
	return techs
}

// wordBoundaryRE 词边界匹配，避免 "java" 误命中 "javascript"
func wordBoundaryRE(term string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)
}
