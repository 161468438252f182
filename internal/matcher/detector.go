package matcher

import (
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"ats-match-go/internal/constants"
	"ats-match-go/internal/types"
)

// Detector 从岗位需求推断优先岗位列表
type Detector struct {
	catalog    *Catalog
	matcher    *SkillMatcher
	logger     zerolog.Logger
	patternREs map[string]*regexp.Regexp
}

// NewDetector 构造检测器，角色检测模式在此一次性编译
func NewDetector(catalog *Catalog, matcher *SkillMatcher, logger zerolog.Logger) *Detector {
	d := &Detector{
		catalog:    catalog,
		matcher:    matcher,
		logger:     logger,
		patternREs: make(map[string]*regexp.Regexp),
	}
	for i := range catalog.Roles {
		for _, p := range catalog.Roles[i].Patterns {
			key := strings.ToLower(strings.TrimSpace(p))
			if key == "" {
				continue
			}
			if _, ok := d.patternREs[key]; ok {
				continue
			}
			// 边界感知匹配：短模式（如go）不允许命中在更长词的内部
			d.patternREs[key] = regexp.MustCompile(`(?:^|\W)` + regexp.QuoteMeta(key) + `(?:\W|$)`)
		}
	}
	return d
}

// Detect 推断最多三个带权重的优先岗位，结果保证非空
// manual 非空时整体覆盖自动检测，原样返回
func (d *Detector) Detect(job *types.JobRequirement, manual []types.JobPriority) []types.JobPriority {
	if len(manual) > 0 {
		out := make([]types.JobPriority, len(manual))
		copy(out, manual)
		return out
	}

	allText := strings.ToLower(job.Title + " " + job.RawText)
	priorities := make([]types.JobPriority, 0, 3)

	// 第一优先级：模式命中按2倍计权，平分时目录中靠前的条目胜出
	var best *RoleEntry
	bestScore := 0.0
	for i := range d.catalog.Roles {
		entry := &d.catalog.Roles[i]
		score := float64(2*d.countPatternHits(entry.Patterns, allText)) +
			float64(d.matcher.CountMatches(entry.KeySkills, job.PrimarySkills))
		if score > bestScore {
			bestScore = score
			best = entry
		}
	}
	if best != nil {
		priorities = append(priorities, types.JobPriority{
			RoleName:  best.Role,
			Rank:      1,
			KeySkills: append([]string(nil), best.KeySkills...),
			Weight:    constants.PriorityWeight1,
		})
		d.logger.Debug().
			Str("role", best.Role).
			Float64("score", bestScore).
			Msg("检测到第一优先级岗位")

		// 第二三优先级：排除已选角色后按次级证据打分，稳定排序取前两名
		type scoredEntry struct {
			entry *RoleEntry
			score float64
		}
		var candidates []scoredEntry
		for i := range d.catalog.Roles {
			entry := &d.catalog.Roles[i]
			if entry == best {
				continue
			}
			patternHits := d.countPatternHits(entry.Patterns, allText)
			secondaryHits := d.matcher.CountMatches(entry.KeySkills, job.SecondarySkills)
			// 主技能的0.5分溢出只参与排序，不能单独让角色入选：
			// 同义词分组会让生态相邻角色在纯主技能证据下大量误报
			if patternHits == 0 && secondaryHits == 0 {
				continue
			}
			score := float64(patternHits) + float64(secondaryHits) +
				0.5*float64(d.matcher.CountMatches(entry.KeySkills, job.PrimarySkills))
			candidates = append(candidates, scoredEntry{entry: entry, score: score})
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].score > candidates[j].score
		})
		secondaryWeights := []float64{constants.PriorityWeight2, constants.PriorityWeight3}
		for i, c := range candidates {
			if i >= 2 {
				break
			}
			priorities = append(priorities, types.JobPriority{
				RoleName:  c.entry.Role,
				Rank:      i + 2,
				KeySkills: append([]string(nil), c.entry.KeySkills...),
				Weight:    secondaryWeights[i],
			})
		}
	}

	// 兜底1：任何角色都未命中时，按主技能聚簇映射角色
	if len(priorities) == 0 && len(job.PrimarySkills) > 0 {
		priorities = append(priorities, d.clusterFallback(job.PrimarySkills))
	}

	// 最终兜底：保证返回非空
	if len(priorities) == 0 {
		d.logger.Debug().Msg("无任何角色证据，使用通用兜底角色")
		priorities = append(priorities, types.JobPriority{
			RoleName:  d.catalog.GenericFallback.Role,
			Rank:      1,
			KeySkills: append([]string(nil), d.catalog.GenericFallback.KeySkills...),
			Weight:    constants.PriorityWeight1,
		})
	}
	return priorities
}

// clusterFallback 按触发词聚簇主技能，命中最多的簇决定角色；
// 无簇命中时把主技能本身作为通用开发角色的关键技能
func (d *Detector) clusterFallback(primarySkills []string) types.JobPriority {
	var best *FallbackCluster
	bestHits := 0
	for i := range d.catalog.FallbackClusters {
		cluster := &d.catalog.FallbackClusters[i]
		hits := d.matcher.CountMatches(cluster.Triggers, primarySkills)
		if hits > bestHits {
			bestHits = hits
			best = cluster
		}
	}
	if best != nil {
		return types.JobPriority{
			RoleName:  best.Role,
			Rank:      1,
			KeySkills: append([]string(nil), best.KeySkills...),
			Weight:    constants.PriorityWeight1,
		}
	}
	skills := NormalizeSkills(primarySkills)
	if len(skills) > 8 {
		skills = skills[:8]
	}
	return types.JobPriority{
		RoleName:  d.catalog.GenericFallback.Role,
		Rank:      1,
		KeySkills: skills,
		Weight:    constants.PriorityWeight1,
	}
}

func (d *Detector) countPatternHits(patterns []string, text string) int {
	count := 0
	for _, p := range patterns {
		re, ok := d.patternREs[strings.ToLower(strings.TrimSpace(p))]
		if ok && re.MatchString(text) {
			count++
		}
	}
	return count
}
