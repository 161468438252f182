package matcher

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ats-match-go/internal/constants"
	"ats-match-go/internal/types"
)

// ExperienceScorer 经验维度评分
// 由年限要求匹配、相关经验质量、近期性三个子分按 0.4/0.4/0.2 加权合成
type ExperienceScorer struct {
	matcher *SkillMatcher
	logger  zerolog.Logger
	now     func() time.Time
}

// NewExperienceScorer 构造经验评分器，now 可注入以保证测试可复现
func NewExperienceScorer(matcher *SkillMatcher, logger zerolog.Logger, now func() time.Time) *ExperienceScorer {
	if now == nil {
		now = time.Now
	}
	return &ExperienceScorer{matcher: matcher, logger: logger, now: now}
}

// Score 计算经验总分，范围 [0,100]
func (s *ExperienceScorer) Score(priorities []types.JobPriority, timeline []types.Engagement, requiredYears, relevantYears float64) float64 {
	requirement := RequirementScore(relevantYears, requiredYears)
	relevant := s.relevantExperienceScore(priorities, timeline)
	recency := s.recencyBonus(priorities, timeline)

	score := requirement*constants.ExpWeightRequirement +
		relevant*constants.ExpWeightRelevant +
		recency*constants.ExpWeightRecency
	score = clampScore(score)

	s.logger.Debug().
		Float64("requirement", requirement).
		Float64("relevant", relevant).
		Float64("recency", recency).
		Float64("score", score).
		Msg("经验评分完成")
	return score
}

// RequirementScore 分段线性的年限要求匹配分
// 年限比较基于相关年限而非简历总年限
func RequirementScore(candidateYears, requiredYears float64) float64 {
	// 岗位无明确年限要求时给中性基线，不奖不罚
	if requiredYears <= 0 {
		return constants.NeutralRequirementScore
	}
	if candidateYears <= 0 {
		return constants.MinRequirementScore
	}
	ratio := candidateYears / requiredYears
	switch {
	case ratio >= 1.5:
		return 100
	case ratio >= 1.0:
		return 85 + (ratio-1.0)/0.5*15
	case ratio >= 0.8:
		return 60 + (ratio-0.8)/0.2*25
	case ratio >= 0.5:
		return 30 + (ratio-0.5)/0.3*30
	default:
		return math.Max(constants.MinRequirementScore, ratio*60)
	}
}

// relevantExperienceScore 前两个优先岗位的相关经验质量分
// 第一优先级占70%，第二优先级占30%，双岗位经验另有复合奖励
func (s *ExperienceScorer) relevantExperienceScore(priorities []types.JobPriority, timeline []types.Engagement) float64 {
	top := topPriorities(priorities, 2)
	if len(top) == 0 {
		return 0
	}

	var total float64
	var subScores []float64
	for _, p := range top {
		weightedYears, matchedCount := s.weightedRelevantYears(p, timeline)
		var base float64
		if p.Rank == 1 {
			base = primaryYearsBand(weightedYears)
			// 多段第一优先级相关任职的广度奖励
			if matchedCount >= 2 {
				base += 10
			}
			base = math.Min(100, base)
			subScores = append(subScores, base*0.7)
			total += base * 0.7
		} else {
			base = secondaryYearsBand(weightedYears)
			subScores = append(subScores, base*0.3)
			total += base * 0.3
		}
	}

	// 同时具备两个优先岗位经验的复合奖励
	if len(subScores) == 2 && subScores[0] > 5 && subScores[1] > 5 {
		total += math.Min(15, subScores[0]*0.1+subScores[1]*0.2)
	}
	return math.Min(100, total)
}

// weightedRelevantYears 单个优先岗位下，按相关度和质量折算的年限累计
func (s *ExperienceScorer) weightedRelevantYears(p types.JobPriority, timeline []types.Engagement) (float64, int) {
	var weightedYears float64
	matchedCount := 0
	for _, eng := range timeline {
		techRel := 0.0
		if len(p.KeySkills) > 0 {
			techRel = float64(s.matcher.CountMatches(p.KeySkills, eng.Technologies)) / float64(len(p.KeySkills))
		}
		roleRel := math.Min(1.0, float64(roleTitleScore(p.RoleName, eng.RoleTitle))*0.25)
		descRel := math.Min(0.3, float64(s.descriptionHits(p.KeySkills, eng))*0.1)
		overall := techRel + roleRel + descRel
		if overall <= 0.05 {
			continue
		}
		quality := 1.0
		if eng.IsCurrent {
			quality += 0.3
		}
		if overall > 0.8 {
			quality += 0.2
		} else if overall > 0.5 {
			quality += 0.1
		}
		weightedYears += eng.Years * math.Min(constants.MaxQualityMultiplier, overall*quality)
		matchedCount++
	}
	return weightedYears, matchedCount
}

func (s *ExperienceScorer) descriptionHits(keySkills []string, eng types.Engagement) int {
	text := strings.ToLower(eng.Description + " " + eng.Responsibilities)
	if strings.TrimSpace(text) == "" {
		return 0
	}
	hits := 0
	for _, ks := range keySkills {
		n := NormalizeSkill(ks)
		if n != "" && strings.Contains(text, n) {
			hits++
		}
	}
	return hits
}

// roleTitleScore 职位名与优先岗位名的关键词重合度
// 技术特定词（python、java等）计2分，其余非通用词计1分
func roleTitleScore(priorityRole, engagementRole string) int {
	roleLower := strings.ToLower(engagementRole)
	score := 0
	for _, token := range strings.Fields(strings.ToLower(priorityRole)) {
		if !strings.Contains(roleLower, token) {
			continue
		}
		if isTechSpecificWord(token) {
			score += 2
		} else if !isGenericRoleWord(token) {
			score++
		}
	}
	return score
}

func isTechSpecificWord(token string) bool {
	for _, w := range constants.TechSpecificRoleWords {
		if token == w {
			return true
		}
	}
	return false
}

// primaryYearsBand 第一优先级岗位的年限分段
func primaryYearsBand(years float64) float64 {
	switch {
	case years >= 7:
		return 100
	case years >= 5:
		return 90 + (years-5)*5
	case years >= 3:
		return 75 + (years-3)*7.5
	case years >= 2:
		return 60 + (years-2)*15
	case years >= 1:
		return 40 + (years-1)*20
	case years > 0:
		return 20 + years*20
	default:
		return 5
	}
}

// secondaryYearsBand 第二优先级岗位的年限分段
func secondaryYearsBand(years float64) float64 {
	switch {
	case years >= 5:
		return 95
	case years >= 3:
		return 80 + (years-3)*7.5
	case years >= 2:
		return 65 + (years-2)*15
	case years >= 1:
		return 45 + (years-1)*20
	case years > 0:
		return 25 + years*20
	default:
		return 3
	}
}

// recencyBonus 近期性奖励：取所有(任职,优先岗位)组合中的最高值
// 在职任职对第一优先级岗位的满覆盖可得满分100
func (s *ExperienceScorer) recencyBonus(priorities []types.JobPriority, timeline []types.Engagement) float64 {
	now := s.now()
	currentYear := strconv.Itoa(now.Year())
	previousYear := strconv.Itoa(now.Year() - 1)

	var maxBonus float64
	for _, eng := range timeline {
		durLower := strings.ToLower(eng.DurationText)
		isCurrent := eng.IsCurrent || IsCurrentEngagement(eng.DurationText)
		isRecent := strings.Contains(durLower, currentYear) || strings.Contains(durLower, previousYear)
		if !isCurrent && !isRecent {
			continue
		}
		for _, p := range priorities {
			if len(p.KeySkills) == 0 {
				continue
			}
			matched := s.matcher.CountMatches(p.KeySkills, eng.Technologies)
			if matched == 0 {
				continue
			}
			ratio := float64(matched) / float64(len(p.KeySkills))
			var bonus float64
			switch {
			case isCurrent && p.Rank == 1:
				bonus = 100 * ratio
			case isCurrent:
				bonus = 70 * ratio
			case p.Rank == 1:
				bonus = 70 * ratio
			default:
				bonus = 50 * ratio
			}
			if bonus > maxBonus {
				maxBonus = bonus
			}
		}
	}
	return maxBonus
}

// Analysis 构建经验维度的完整分析
func (s *ExperienceScorer) Analysis(priorities []types.JobPriority, timeline []types.Engagement, totalYears, requiredYears float64, fresh bool) *types.ExperienceAnalysis {
	analysis := &types.ExperienceAnalysis{
		TotalYears:       totalYears,
		RequiredYears:    requiredYears,
		MeetsRequirement: totalYears >= requiredYears,
		TotalEngagements: len(timeline),
		FreshGraduate:    fresh,
	}
	if totalYears < requiredYears {
		analysis.Gap = round2(requiredYears - totalYears)
	} else {
		analysis.Excess = round2(totalYears - requiredYears)
	}
	for _, p := range topPriorities(priorities, 2) {
		var years float64
		var currentRole string
		for _, eng := range timeline {
			if s.matcher.CountMatches(p.KeySkills, eng.Technologies) == 0 {
				continue
			}
			years += eng.Years
			if eng.IsCurrent || IsCurrentEngagement(eng.DurationText) {
				currentRole = eng.RoleTitle
			}
		}
		analysis.Priorities = append(analysis.Priorities, types.PriorityExperience{
			Rank:          p.Rank,
			RoleName:      p.RoleName,
			RelevantYears: round2(years),
			Strength:      experienceStrength(years, p.Rank),
			CurrentRole:   currentRole,
		})
	}
	return analysis
}

func experienceStrength(years float64, rank int) string {
	if rank == 1 {
		switch {
		case years >= 5:
			return "Excellent"
		case years >= 3:
			return "Very Good"
		case years >= 2:
			return "Good"
		case years >= 1:
			return "Moderate"
		default:
			return "Limited"
		}
	}
	switch {
	case years >= 3:
		return "Very Good"
	case years >= 2:
		return "Good"
	case years >= 1:
		return "Moderate"
	default:
		return "Limited"
	}
}

func topPriorities(priorities []types.JobPriority, n int) []types.JobPriority {
	sorted := make([]types.JobPriority, len(priorities))
	copy(sorted, priorities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rank < sorted[j].Rank
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
