package constants

// 打分策略常量。历史版本中部分取值不一致，此处固定为统一策略：
// 无要求年限时的中性基线为60，相关性门槛为硬拒绝。
const (
	// 优先级权重（按Rank 1/2/3）
	PriorityWeight1 = 1.0
	PriorityWeight2 = 0.8
	PriorityWeight3 = 0.6

	// 技能打分中各优先级的乘数
	SkillMultiplierP1 = 1.0
	SkillMultiplierP2 = 0.85
	SkillMultiplierP3 = 0.70

	// 未配置权重的技能默认权重 (0-100)
	DefaultSkillWeight = 50

	// 覆盖率奖励分档
	CoverageBonusHighRatio = 0.95
	CoverageBonusHigh      = 15.0
	CoverageBonusMidRatio  = 0.90
	CoverageBonusMid       = 10.0
	CoverageBonusLowRatio  = 0.80
	CoverageBonusLow       = 5.0

	// 一级优先岗位技能全覆盖/高覆盖奖励
	Priority1FullCoverageBonus = 10.0
	Priority1HighCoverageRatio = 0.8
	Priority1HighCoverageBonus = 5.0

	// 经验总分的三个子项权重
	ExpWeightRequirement = 0.4
	ExpWeightRelevant    = 0.4
	ExpWeightRecency     = 0.2

	// 无明确年限要求时的中性基线分
	NeutralRequirementScore = 60.0

	// 有年限要求但候选人无经验时的保底分
	MinRequirementScore = 10.0

	// 应届生经验惩罚上限（百分点），惩罚 = min(上限, 要求年限*10)
	FreshGraduatePenaltyCap = 30.0

	// 相关经验加权年限的质量乘数上限
	MaxQualityMultiplier = 2.0

	// 单段任职判定为相关的最低相关性得分
	EngagementRelevanceThreshold = 0.5

	// 模糊匹配的字符重合率阈值
	FuzzyOverlapThreshold = 0.8

	// 语义相似度匹配阈值（可选的第四层匹配）
	SemanticSimilarityThreshold = 0.85
)

// RejectionNoRelevantExperience 相关性门槛的固定拒绝原因
const RejectionNoRelevantExperience = "no relevant job role experience"

// 打分方式说明
const (
	MethodAverage       = "Skills + Experience Average"
	MethodSkillsOnly    = "Skills-Based (No experience required)"
	MethodSkillsPenalty = "Skills-Based with experience penalty"
	MethodRelevanceGate = "Rejected by relevance gate"
	MethodInvalidInput  = "Invalid input"
)

// GenericRoleWords 构造岗位关键词时需要剔除的通用词
var GenericRoleWords = []string{"developer", "engineer", "software", "senior", "junior"}

// TechSpecificRoleWords 岗位标题中出现即视为强技术信号的词
var TechSpecificRoleWords = []string{"python", "java", "javascript", "react", "angular", ".net", "php", "go", "golang"}
