package processor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"ats-match-go/internal/logger"
	"ats-match-go/internal/types"
	"ats-match-go/pkg/ratelimit"
)

var (
	// ErrMissingJob 会话缺少岗位需求
	ErrMissingJob = errors.New("会话缺少岗位需求")

	// ErrNoCandidates 会话没有任何候选人
	ErrNoCandidates = errors.New("会话没有任何候选人")
)

const (
	defaultWorkers          = 4
	defaultCandidateTimeout = 30 * time.Second
)

// SessionProcessor 会话级批量打分驱动
// 用有界协程池并发为候选人打分，单个候选人的失败被隔离为错误标记结果
type SessionProcessor struct {
	engine   ScoreEngine
	rescorer Rescorer
	limiter  *ratelimit.TokenBucket
	workers  int
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewSessionProcessor 构造处理器
func NewSessionProcessor(engine ScoreEngine, opts ...Option) *SessionProcessor {
	p := &SessionProcessor{
		engine:  engine,
		workers: defaultWorkers,
		timeout: defaultCandidateTimeout,
		logger:  logger.Logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ScoreSession 并发为会话中的全部候选人打分并排名
// ctx 取消后停止提交新候选人，已提交的照常完成；
// 未及提交的候选人以取消错误标记，保证每个输入都有对应结果
func (p *SessionProcessor) ScoreSession(ctx context.Context, job *types.JobRequirement, manual []types.JobPriority, candidates []types.CandidateInput) (*types.SessionResult, error) {
	if job == nil {
		return nil, ErrMissingJob
	}
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	start := time.Now()
	results := make([]*types.CandidateResult, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := range candidates {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			// 单候选人的失败不上抛，避免中断整个批次
			results[i] = p.scoreOne(gctx, job, manual, candidates[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range results {
		if results[i] == nil {
			results[i] = &types.CandidateResult{
				CandidateID: candidates[i].CandidateID,
				ResultID:    uuid.NewString(),
				Err:         context.Canceled.Error(),
			}
		}
	}

	result := p.assemble(results)
	p.logger.Info().
		Int("candidates", len(candidates)).
		Int("ranked", len(result.Ranking)).
		Int("rejected", len(result.Rejected)).
		Int("failed", len(result.Failed)).
		Dur("elapsed", time.Since(start)).
		Msg("会话批量打分完成")
	return result, nil
}

// scoreOne 为单个候选人打分，panic 被捕获并转为错误标记结果
func (p *SessionProcessor) scoreOne(ctx context.Context, job *types.JobRequirement, manual []types.JobPriority, cand types.CandidateInput) (res *types.CandidateResult) {
	res = &types.CandidateResult{
		CandidateID: cand.CandidateID,
		ResultID:    uuid.NewString(),
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().
				Str("candidate_id", cand.CandidateID).
				Interface("panic", r).
				Msg("候选人打分协程panic，已隔离")
			res.Score = nil
			res.Err = fmt.Sprintf("scoring panic: %v", r)
		}
	}()

	resume := cand.Resume
	score := p.engine.Score(job, &resume, manual)

	// 可选的外部复评：限流+超时，任何失败都只降级为引擎原始分
	if p.rescorer != nil && score != nil && !score.Rejected() && score.Diagnostic == "" {
		if adjusted, ok := p.rescore(ctx, job, &resume, score); ok {
			rescored := *score
			rescored.OverallScore = adjusted
			score = &rescored
		}
	}
	res.Score = score
	return res
}

func (p *SessionProcessor) rescore(ctx context.Context, job *types.JobRequirement, resume *types.ResumeProfile, base *types.MatchScore) (float64, bool) {
	rctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if p.limiter != nil {
		if err := p.limiter.Wait(rctx); err != nil {
			p.logger.Warn().Err(err).Msg("复评限流等待失败，使用引擎原始分")
			return 0, false
		}
	}
	adjusted, err := p.rescorer.Rescore(rctx, job, resume, base)
	if err != nil {
		p.logger.Warn().Err(err).Msg("外部复评失败，使用引擎原始分")
		return 0, false
	}
	return math.Max(0, math.Min(100, adjusted)), true
}

// assemble 把逐候选人结果切分为 排名/拒绝/失败 三组并完成编号
func (p *SessionProcessor) assemble(results []*types.CandidateResult) *types.SessionResult {
	var ranked, rejected, failed []*types.CandidateResult
	for _, r := range results {
		switch {
		case r.Err != "":
			failed = append(failed, r)
		case r.Score.Rejected():
			rejected = append(rejected, r)
		default:
			ranked = append(ranked, r)
		}
	}

	scores := make([]*types.MatchScore, len(ranked))
	for i, r := range ranked {
		scores[i] = r.Score
	}
	p.engine.Rank(scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score.RankPosition < ranked[j].Score.RankPosition
	})

	return &types.SessionResult{
		Ranking:  ranked,
		Rejected: rejected,
		Failed:   failed,
	}
}
