package matcher

import (
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"ats-match-go/internal/constants"
	"ats-match-go/internal/logger"
	"ats-match-go/internal/types"
)

// Engine 匹配引擎：对 (岗位需求, 候选人档案) 的确定性纯函数
// 构造后只读，可被任意数量的会话协程并发调用
type Engine struct {
	catalog  *Catalog
	provider SimilarityProvider
	logger   zerolog.Logger
	now      func() time.Time

	matcher    *SkillMatcher
	detector   *Detector
	enricher   *Enricher
	gate       *RelevanceGate
	skills     *SkillsScorer
	experience *ExperienceScorer
}

// Option 引擎构造选项
type Option func(*Engine)

// WithCatalog 替换默认内嵌目录，用于测试或词表热更新场景
func WithCatalog(c *Catalog) Option {
	return func(e *Engine) { e.catalog = c }
}

// WithSimilarityProvider 注入语义相似度实现
func WithSimilarityProvider(p SimilarityProvider) Option {
	return func(e *Engine) { e.provider = p }
}

// WithLogger 替换默认日志器
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithClock 注入时钟，近期性判定依赖当前年份，测试需要固定时间
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine 构造引擎及其全部内部组件
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger: logger.Logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.catalog == nil {
		e.catalog = DefaultCatalog()
	}
	e.matcher = NewSkillMatcher(e.catalog, e.provider)
	e.detector = NewDetector(e.catalog, e.matcher, e.logger)
	e.enricher = NewEnricher(e.catalog)
	e.gate = NewRelevanceGate(e.matcher)
	e.skills = NewSkillsScorer(e.matcher, e.logger)
	e.experience = NewExperienceScorer(e.matcher, e.logger, e.now)
	return e
}

// Score 为单个候选人计算匹配分
// 相同输入永远产生相同输出；manual 非空时覆盖自动岗位检测
func (e *Engine) Score(job *types.JobRequirement, resume *types.ResumeProfile, manual []types.JobPriority) *types.MatchScore {
	if job == nil || resume == nil {
		return diagnosticScore("岗位需求或候选人档案缺失")
	}
	if job.Title == "" && job.RawText == "" && len(job.PrimarySkills) == 0 {
		return diagnosticScore("岗位需求不含任何可用字段")
	}
	if len(resume.Skills) == 0 && len(resume.Timeline) == 0 {
		return diagnosticScore("候选人档案不含技能与工作经历")
	}

	requiredYears := job.RequiredYears
	if requiredYears <= 0 && job.RequiredExperience != "" {
		requiredYears = ParseRequiredYears(job.RequiredExperience)
		if requiredYears == 0 {
			// 软校验：解析失败按无要求处理，不中断打分
			e.logger.Warn().
				Str("required_experience", job.RequiredExperience).
				Msg("年限要求文本无法解析，按无明确要求处理")
		}
	}

	priorities := e.detector.Detect(job, manual)
	timeline := e.deriveTimeline(resume.Timeline)
	prioritySkills := PrioritySkillUnion(priorities)
	timeline = e.enricher.Enrich(timeline, prioritySkills)
	resumeSkills := collectResumeSkills(resume.Skills, timeline)

	// 应届生分支：不走相关性门槛，仅按技能打分
	if resume.TotalYears == 0 || len(timeline) == 0 {
		return e.scoreFreshGraduate(job, resumeSkills, priorities, timeline, requiredYears)
	}

	relevantYears, matches := e.gate.Evaluate(priorities, timeline)
	if relevantYears == 0 {
		e.logger.Info().
			Str("job", job.Title).
			Msg("候选人无任何相关岗位经历，相关性门槛拒绝")
		return e.rejectedScore(priorities, resume.Timeline)
	}
	relevantYears = round2(relevantYears)

	skillScore, matched, missing := e.skills.Score(resumeSkills, priorities, job.SkillWeights)
	expScore := e.experience.Score(priorities, timeline, requiredYears, relevantYears)
	overall := clampScore((skillScore + expScore) / 2)

	e.logger.Debug().
		Float64("overall", overall).
		Float64("skills", skillScore).
		Float64("experience", expScore).
		Int("relevant_engagements", len(matches)).
		Msg("候选人打分完成")

	return &types.MatchScore{
		OverallScore:       round2(overall),
		SkillScore:         round2(skillScore),
		ExperienceScore:    round2(expScore),
		RelevantYears:      relevantYears,
		MatchedSkills:      matched,
		MissingSkills:      missing,
		ScoringMethod:      constants.MethodAverage,
		Priorities:         priorities,
		SkillsAnalysis:     e.skills.Breakdown(resumeSkills, priorities, matched, missing),
		ExperienceAnalysis: e.experience.Analysis(priorities, timeline, resume.TotalYears, requiredYears, false),
	}
}

// scoreFreshGraduate 应届生仅按技能覆盖评分
// 岗位有年限要求时按每年10分扣减，封顶30分
func (e *Engine) scoreFreshGraduate(job *types.JobRequirement, resumeSkills []string, priorities []types.JobPriority, timeline []types.Engagement, requiredYears float64) *types.MatchScore {
	skillScore, matched, missing := e.skills.Score(resumeSkills, priorities, job.SkillWeights)
	overall := skillScore
	method := constants.MethodSkillsOnly
	if requiredYears > 0 {
		penalty := math.Min(constants.FreshGraduatePenaltyCap, requiredYears*10)
		overall = clampScore(skillScore - penalty)
		method = constants.MethodSkillsPenalty
	}
	return &types.MatchScore{
		OverallScore:       round2(overall),
		SkillScore:         round2(skillScore),
		ExperienceScore:    0,
		MatchedSkills:      matched,
		MissingSkills:      missing,
		ScoringMethod:      method,
		FreshGraduate:      true,
		Priorities:         priorities,
		SkillsAnalysis:     e.skills.Breakdown(resumeSkills, priorities, matched, missing),
		ExperienceAnalysis: e.experience.Analysis(priorities, timeline, 0, requiredYears, true),
	}
}

// rejectedScore 相关性门槛拒绝结果：所有分数为0并携带解释
func (e *Engine) rejectedScore(priorities []types.JobPriority, rawTimeline []types.Engagement) *types.MatchScore {
	roles := make([]string, 0, len(priorities))
	for _, p := range priorities {
		roles = append(roles, p.RoleName)
	}
	return &types.MatchScore{
		RejectionReason: constants.RejectionNoRelevantExperience,
		ScoringMethod:   constants.MethodRelevanceGate,
		Priorities:      priorities,
		RequiredRoles:   roles,
		RawEngagements:  rawTimeline,
	}
}

func diagnosticScore(reason string) *types.MatchScore {
	return &types.MatchScore{
		Diagnostic:    reason,
		ScoringMethod: constants.MethodInvalidInput,
	}
}

// deriveTimeline 补全任职条目的派生字段：年限与在职标记
func (e *Engine) deriveTimeline(timeline []types.Engagement) []types.Engagement {
	now := e.now()
	out := make([]types.Engagement, 0, len(timeline))
	for _, eng := range timeline {
		derived := eng
		if derived.Years <= 0 {
			derived.Years = YearsFromDuration(derived.DurationText, now)
		}
		if !derived.IsCurrent && IsCurrentEngagement(derived.DurationText) {
			derived.IsCurrent = true
		}
		out = append(out, derived)
	}
	return out
}

// collectResumeSkills 简历技能与时间线技术标签的归一化并集
func collectResumeSkills(skills []string, timeline []types.Engagement) []string {
	all := make([]string, 0, len(skills))
	all = append(all, skills...)
	for _, eng := range timeline {
		all = append(all, eng.Technologies...)
	}
	return NormalizeSkills(all)
}

// Rank 会话级排名：按总分降序稳定排序并为未被拒绝的结果编号
// 总分相同的结果保持提交顺序；被拒绝的结果 RankPosition 保持0
func Rank(scores []*types.MatchScore) []*types.MatchScore {
	ranked := make([]*types.MatchScore, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].OverallScore > ranked[j].OverallScore
	})
	pos := 0
	for _, s := range ranked {
		if s.Rejected() {
			s.RankPosition = 0
			continue
		}
		pos++
		s.RankPosition = pos
	}
	return ranked
}

// Rank 同包级 Rank，便于通过接口使用引擎
func (e *Engine) Rank(scores []*types.MatchScore) []*types.MatchScore {
	return Rank(scores)
}
