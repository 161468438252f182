package processor

import (
	"context"

	"ats-match-go/internal/types"
)

// ScoreEngine 打分引擎能力接口
type ScoreEngine interface {
	// Score 为单个候选人计算匹配分，确定性纯函数
	Score(job *types.JobRequirement, resume *types.ResumeProfile, manual []types.JobPriority) *types.MatchScore

	// Rank 按总分降序稳定排序并编号
	Rank(scores []*types.MatchScore) []*types.MatchScore
}

// Rescorer 可选的外部复评器（例如基于LLM的二次评估）
// 复评失败时处理器降级使用引擎原始分，不影响会话其余候选人
type Rescorer interface {
	// Rescore 基于引擎结果给出调整后的总分 [0,100]
	Rescore(ctx context.Context, job *types.JobRequirement, resume *types.ResumeProfile, base *types.MatchScore) (float64, error)
}
