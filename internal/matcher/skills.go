package matcher

import (
	"math"

	"github.com/rs/zerolog"

	"ats-match-go/internal/constants"
	"ats-match-go/internal/types"
)

// SkillsScorer 加权技能覆盖评分
type SkillsScorer struct {
	matcher *SkillMatcher
	logger  zerolog.Logger
}

// NewSkillsScorer 构造技能评分器
func NewSkillsScorer(matcher *SkillMatcher, logger zerolog.Logger) *SkillsScorer {
	return &SkillsScorer{matcher: matcher, logger: logger}
}

type requiredSkill struct {
	name string
	rank int
}

// Score 计算加权技能覆盖分及命中/缺失清单
// 同一技能出现在多个优先岗位时，按首次出现的优先级计权
// 简历技能为空或必需技能为空时显式返回0，不产生除零
func (s *SkillsScorer) Score(resumeSkills []string, priorities []types.JobPriority, weights map[string]int) (float64, []string, []string) {
	if len(resumeSkills) == 0 {
		return 0, nil, nil
	}
	required := collectRequired(priorities)
	if len(required) == 0 {
		return 0, nil, nil
	}
	normWeights := normalizeWeightKeys(weights)

	var totalPossible, totalMatched float64
	var matched, missing []string
	for _, rs := range required {
		base := constants.DefaultSkillWeight
		if w, ok := normWeights[rs.name]; ok {
			base = w
		}
		finalWeight := float64(base) / 100.0 * rankMultiplier(rs.rank)
		totalPossible += finalWeight
		if s.matcher.HasSkill(rs.name, resumeSkills) {
			totalMatched += finalWeight
			matched = append(matched, rs.name)
		} else {
			missing = append(missing, rs.name)
		}
	}
	if totalPossible == 0 {
		return 0, matched, missing
	}

	score := totalMatched / totalPossible * 100
	coverage := float64(len(matched)) / float64(len(required))

	// 覆盖率阶梯奖励
	switch {
	case coverage >= constants.CoverageBonusHighRatio:
		score += constants.CoverageBonusHigh
	case coverage >= constants.CoverageBonusMidRatio:
		score += constants.CoverageBonusMid
	case coverage >= constants.CoverageBonusLowRatio:
		score += constants.CoverageBonusLow
	}

	// 第一优先级岗位的技能覆盖单独奖励
	if p1Coverage, ok := s.priorityCoverage(resumeSkills, priorities, 1); ok {
		if p1Coverage >= 1.0 {
			score += constants.Priority1FullCoverageBonus
		} else if p1Coverage >= constants.Priority1HighCoverageRatio {
			score += constants.Priority1HighCoverageBonus
		}
	}

	score = clampScore(score)
	s.logger.Debug().
		Float64("score", score).
		Int("matched", len(matched)).
		Int("missing", len(missing)).
		Msg("技能覆盖评分完成")
	return score, matched, missing
}

// Breakdown 构建逐优先级的技能覆盖明细
func (s *SkillsScorer) Breakdown(resumeSkills []string, priorities []types.JobPriority, matched, missing []string) *types.SkillsAnalysis {
	analysis := &types.SkillsAnalysis{
		TotalResumeSkills: len(resumeSkills),
		TotalRequired:     len(matched) + len(missing),
		TotalMatched:      len(matched),
	}
	if analysis.TotalRequired > 0 {
		analysis.OverallCoverage = round2(float64(len(matched)) / float64(analysis.TotalRequired) * 100)
	}
	for _, p := range priorities {
		var hit, miss []string
		for _, ks := range p.KeySkills {
			n := NormalizeSkill(ks)
			if s.matcher.HasSkill(ks, resumeSkills) {
				hit = append(hit, n)
			} else {
				miss = append(miss, n)
			}
		}
		coverage := 0.0
		if len(p.KeySkills) > 0 {
			coverage = float64(len(hit)) / float64(len(p.KeySkills))
		}
		analysis.Priorities = append(analysis.Priorities, types.PrioritySkillsBreakdown{
			Rank:        p.Rank,
			RoleName:    p.RoleName,
			TotalSkills: len(p.KeySkills),
			Matched:     hit,
			Missing:     miss,
			Coverage:    round2(coverage * 100),
		})
	}
	return analysis
}

func (s *SkillsScorer) priorityCoverage(resumeSkills []string, priorities []types.JobPriority, rank int) (float64, bool) {
	for _, p := range priorities {
		if p.Rank != rank || len(p.KeySkills) == 0 {
			continue
		}
		hits := s.matcher.CountMatches(p.KeySkills, resumeSkills)
		return float64(hits) / float64(len(p.KeySkills)), true
	}
	return 0, false
}

func collectRequired(priorities []types.JobPriority) []requiredSkill {
	seen := make(map[string]struct{})
	var required []requiredSkill
	for _, p := range priorities {
		for _, ks := range p.KeySkills {
			n := NormalizeSkill(ks)
			if n == "" {
				continue
			}
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			required = append(required, requiredSkill{name: n, rank: p.Rank})
		}
	}
	return required
}

func normalizeWeightKeys(weights map[string]int) map[string]int {
	if len(weights) == 0 {
		return nil
	}
	out := make(map[string]int, len(weights))
	for k, v := range weights {
		n := NormalizeSkill(k)
		if n == "" {
			continue
		}
		out[n] = v
	}
	return out
}

func rankMultiplier(rank int) float64 {
	switch rank {
	case 1:
		return constants.SkillMultiplierP1
	case 2:
		return constants.SkillMultiplierP2
	default:
		return constants.SkillMultiplierP3
	}
}

func clampScore(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
