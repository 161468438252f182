package types

// JobRequirement 结构化的岗位需求，由上游结构化服务（LLM或人工录入）产出
type JobRequirement struct {
	// 岗位标题
	Title string `json:"title"`

	// 岗位原始文本（JD全文）
	RawText string `json:"raw_text"`

	// 要求的工作年限（已结构化），0表示无明确要求
	RequiredYears float64 `json:"required_experience_years"`

	// 要求的工作年限原始文本，例如 "3+ years"、"2-5 yrs"
	// 当 RequiredYears 为0时引擎会尝试从该字段解析
	RequiredExperience string `json:"required_experience,omitempty"`

	// 主要技能列表（扁平字符串数组）
	PrimarySkills []string `json:"primary_skills"`

	// 次要技能列表
	SecondarySkills []string `json:"secondary_skills"`

	// 技能权重配置 (0-100)，缺失的技能默认权重50
	SkillWeights map[string]int `json:"skill_weights,omitempty"`
}

// JobPriority 从JD推断出的优先岗位解释（最多三个）
type JobPriority struct {
	RoleName  string   `json:"role"`
	Rank      int      `json:"priority"` // 1..3
	KeySkills []string `json:"key_skills"`
	Weight    float64  `json:"weight"` // 按Rank为 1.0 / 0.8 / 0.6
}

// Engagement 候选人工作经历时间线中的一段任职
type Engagement struct {
	Company          string   `json:"company"`
	RoleTitle        string   `json:"role"`
	DurationText     string   `json:"duration"`
	Years            float64  `json:"years,omitempty"` // 从DurationText推导
	IsCurrent        bool     `json:"is_current,omitempty"`
	Description      string   `json:"description,omitempty"`
	Responsibilities string   `json:"responsibilities,omitempty"`
	Technologies     []string `json:"technologies_used,omitempty"` // 原始标签 ∪ 推断标签
}

// ResumeProfile 结构化的候选人档案
type ResumeProfile struct {
	// 技能列表（已归一化的扁平字符串数组）
	Skills []string `json:"skills"`

	// 总工作年限
	TotalYears float64 `json:"total_experience_years"`

	// 工作经历时间线，插入顺序即提交顺序，顺序不影响打分
	Timeline []Engagement `json:"experience_timeline"`
}

// MatchScore 单个候选人对单个岗位的匹配结果，创建后不可变
type MatchScore struct {
	OverallScore    float64 `json:"overall_score"`
	SkillScore      float64 `json:"skill_score"`
	ExperienceScore float64 `json:"experience_score"`

	// 与优先岗位相关的工作年限
	RelevantYears float64 `json:"relevant_experience_years"`

	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`

	// 会话内排名，1..N；0表示未参与编号（被拒绝或缺失输入）
	RankPosition int `json:"rank_position,omitempty"`

	// 相关性门槛拒绝原因；非空时 OverallScore 必为0
	RejectionReason string `json:"rejection_reason,omitempty"`

	// 缺失/无效输入的诊断信息（结果类别1，区别于拒绝）
	Diagnostic string `json:"diagnostic,omitempty"`

	// 打分方式说明，例如 "Skills + Experience Average"
	ScoringMethod string `json:"scoring_method,omitempty"`

	// 是否走了应届生分支
	FreshGraduate bool `json:"is_fresh_graduate,omitempty"`

	// 本次打分实际使用的岗位优先级
	Priorities []JobPriority `json:"job_priorities,omitempty"`

	// 拒绝时记录：要求的岗位角色名，以及候选人的原始任职列表
	RequiredRoles  []string     `json:"required_roles,omitempty"`
	RawEngagements []Engagement `json:"raw_engagements,omitempty"`

	SkillsAnalysis     *SkillsAnalysis     `json:"skills_analysis,omitempty"`
	ExperienceAnalysis *ExperienceAnalysis `json:"experience_analysis,omitempty"`
}

// Rejected 返回该结果是否为相关性门槛拒绝
func (m *MatchScore) Rejected() bool {
	return m.RejectionReason != ""
}

// PrioritySkillsBreakdown 单个优先岗位的技能覆盖明细
type PrioritySkillsBreakdown struct {
	Rank        int      `json:"priority_level"`
	RoleName    string   `json:"role_name"`
	TotalSkills int      `json:"total_skills"`
	Matched     []string `json:"matched_skills"`
	Missing     []string `json:"missing_skills"`
	Coverage    float64  `json:"coverage_percentage"`
}

// SkillsAnalysis 技能维度的完整分析
type SkillsAnalysis struct {
	TotalResumeSkills int                       `json:"total_resume_skills"`
	Priorities        []PrioritySkillsBreakdown `json:"priorities"`
	TotalRequired     int                       `json:"total_skills_required"`
	TotalMatched      int                       `json:"total_skills_matched"`
	OverallCoverage   float64                   `json:"overall_coverage"`
}

// PriorityExperience 单个优先岗位的相关经验明细
type PriorityExperience struct {
	Rank          int     `json:"priority_level"`
	RoleName      string  `json:"role_name"`
	RelevantYears float64 `json:"total_years"`
	Strength      string  `json:"experience_strength"` // Excellent / Very Good / Good / Moderate / Limited
	CurrentRole   string  `json:"current_role,omitempty"`
}

// ExperienceAnalysis 经验维度的完整分析
type ExperienceAnalysis struct {
	TotalYears       float64              `json:"total_experience"`
	RequiredYears    float64              `json:"jd_experience_required"`
	MeetsRequirement bool                 `json:"meets_requirement"`
	Gap              float64              `json:"experience_gap"`
	Excess           float64              `json:"experience_excess"`
	TotalEngagements int                  `json:"total_jobs"`
	FreshGraduate    bool                 `json:"is_fresh_graduate"`
	Priorities       []PriorityExperience `json:"top_priorities"`
}

// CandidateInput 批处理会话中的单个候选人输入
type CandidateInput struct {
	CandidateID string        `json:"candidate_id"`
	Resume      ResumeProfile `json:"resume"`
}

// CandidateResult 批处理会话中单个候选人的处理结果
// Err 非空时表示该候选人打分过程失败（结果被错误标记，不含任何分数字段）
type CandidateResult struct {
	CandidateID string      `json:"candidate_id"`
	ResultID    string      `json:"result_id"`
	Score       *MatchScore `json:"score,omitempty"`
	Err         string      `json:"error,omitempty"`
}

// SessionResult 一个招聘会话的批量打分结果
type SessionResult struct {
	// 参与编号排名的结果，按 OverallScore 降序，RankPosition 为 1..N
	Ranking []*CandidateResult `json:"ranking"`

	// 被相关性门槛拒绝的候选人（分数为0，不参与编号）
	Rejected []*CandidateResult `json:"rejected,omitempty"`

	// 打分失败的候选人
	Failed []*CandidateResult `json:"failed,omitempty"`
}

// SessionInput 会话输入：一个岗位对一组候选人
type SessionInput struct {
	Job              JobRequirement   `json:"job"`
	ManualPriorities []JobPriority    `json:"manual_priorities,omitempty"`
	Candidates       []CandidateInput `json:"candidates"`
}
