package processor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ats-match-go/internal/constants"
	"ats-match-go/internal/matcher"
	"ats-match-go/internal/types"
)

// stubEngine 手写的引擎桩：以 TotalYears 作为分数，技能首项为 "boom" 时panic
type stubEngine struct {
	panicOnBoom bool
}

func (s *stubEngine) Score(job *types.JobRequirement, resume *types.ResumeProfile, manual []types.JobPriority) *types.MatchScore {
	if s.panicOnBoom && len(resume.Skills) > 0 && resume.Skills[0] == "boom" {
		panic("simulated scoring failure")
	}
	if resume.TotalYears < 0 {
		return &types.MatchScore{RejectionReason: constants.RejectionNoRelevantExperience}
	}
	return &types.MatchScore{
		OverallScore:  resume.TotalYears,
		SkillScore:    resume.TotalYears,
		ScoringMethod: constants.MethodAverage,
	}
}

func (s *stubEngine) Rank(scores []*types.MatchScore) []*types.MatchScore {
	return matcher.Rank(scores)
}

// stubRescorer 手写的复评桩
type stubRescorer struct {
	adjusted float64
	err      error
	calls    int
}

func (r *stubRescorer) Rescore(ctx context.Context, job *types.JobRequirement, resume *types.ResumeProfile, base *types.MatchScore) (float64, error) {
	r.calls++
	if r.err != nil {
		return 0, r.err
	}
	return r.adjusted, nil
}

func testJob() *types.JobRequirement {
	return &types.JobRequirement{Title: "Go Developer", PrimarySkills: []string{"go"}}
}

func candidate(id string, years float64) types.CandidateInput {
	return types.CandidateInput{
		CandidateID: id,
		Resume:      types.ResumeProfile{Skills: []string{"go"}, TotalYears: years},
	}
}

func TestScoreSessionRanking(t *testing.T) {
	p := NewSessionProcessor(&stubEngine{}, WithLogger(zerolog.Nop()), WithWorkers(3))
	candidates := []types.CandidateInput{
		candidate("c-low", 20),
		candidate("c-high", 90),
		candidate("c-mid", 55),
	}

	result, err := p.ScoreSession(context.Background(), testJob(), nil, candidates)
	require.NoError(t, err)
	require.Len(t, result.Ranking, 3)
	assert.Empty(t, result.Rejected)
	assert.Empty(t, result.Failed)

	// 排名按总分降序，名次从1开始连续编号
	assert.Equal(t, "c-high", result.Ranking[0].CandidateID)
	assert.Equal(t, 1, result.Ranking[0].Score.RankPosition)
	assert.Equal(t, "c-mid", result.Ranking[1].CandidateID)
	assert.Equal(t, 2, result.Ranking[1].Score.RankPosition)
	assert.Equal(t, "c-low", result.Ranking[2].CandidateID)
	assert.Equal(t, 3, result.Ranking[2].Score.RankPosition)
}

func TestScoreSessionRejectedSeparated(t *testing.T) {
	p := NewSessionProcessor(&stubEngine{}, WithLogger(zerolog.Nop()))
	candidates := []types.CandidateInput{
		candidate("c-ok", 70),
		candidate("c-rejected", -1), // 桩引擎对负年限返回拒绝
	}

	result, err := p.ScoreSession(context.Background(), testJob(), nil, candidates)
	require.NoError(t, err)
	require.Len(t, result.Ranking, 1)
	require.Len(t, result.Rejected, 1)

	// 被拒绝的候选人不占用名次编号
	assert.Equal(t, "c-rejected", result.Rejected[0].CandidateID)
	assert.Zero(t, result.Rejected[0].Score.RankPosition)
	assert.Equal(t, 1, result.Ranking[0].Score.RankPosition)
}

func TestScoreSessionPanicIsolation(t *testing.T) {
	p := NewSessionProcessor(&stubEngine{panicOnBoom: true}, WithLogger(zerolog.Nop()), WithWorkers(2))
	boom := types.CandidateInput{
		CandidateID: "c-boom",
		Resume:      types.ResumeProfile{Skills: []string{"boom"}, TotalYears: 50},
	}
	candidates := []types.CandidateInput{candidate("c-1", 80), boom, candidate("c-2", 60)}

	result, err := p.ScoreSession(context.Background(), testJob(), nil, candidates)
	require.NoError(t, err)

	// 单候选人panic被隔离为错误标记结果，其余候选人照常打分排名
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "c-boom", result.Failed[0].CandidateID)
	assert.Contains(t, result.Failed[0].Err, "panic")
	assert.Nil(t, result.Failed[0].Score)
	require.Len(t, result.Ranking, 2)
	assert.Equal(t, "c-1", result.Ranking[0].CandidateID)
}

func TestScoreSessionInputValidation(t *testing.T) {
	p := NewSessionProcessor(&stubEngine{}, WithLogger(zerolog.Nop()))

	_, err := p.ScoreSession(context.Background(), nil, nil, []types.CandidateInput{candidate("c", 1)})
	assert.ErrorIs(t, err, ErrMissingJob)

	_, err = p.ScoreSession(context.Background(), testJob(), nil, nil)
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestScoreSessionRescorerAdjusts(t *testing.T) {
	rescorer := &stubRescorer{adjusted: 88}
	p := NewSessionProcessor(&stubEngine{},
		WithLogger(zerolog.Nop()),
		WithRescorer(rescorer, nil),
		WithCandidateTimeout(time.Second),
	)

	result, err := p.ScoreSession(context.Background(), testJob(), nil, []types.CandidateInput{candidate("c", 40)})
	require.NoError(t, err)
	require.Len(t, result.Ranking, 1)
	assert.Equal(t, 1, rescorer.calls)
	assert.InDelta(t, 88.0, result.Ranking[0].Score.OverallScore, 0.001)
	// 复评只调整总分，其余字段保持引擎输出
	assert.InDelta(t, 40.0, result.Ranking[0].Score.SkillScore, 0.001)
}

func TestScoreSessionRescorerFailureDegrades(t *testing.T) {
	rescorer := &stubRescorer{err: errors.New("model overloaded")}
	p := NewSessionProcessor(&stubEngine{},
		WithLogger(zerolog.Nop()),
		WithRescorer(rescorer, nil),
		WithCandidateTimeout(time.Second),
	)

	// 复评失败仅降级为引擎原始分，不把候选人标记为失败
	result, err := p.ScoreSession(context.Background(), testJob(), nil, []types.CandidateInput{candidate("c", 40)})
	require.NoError(t, err)
	require.Len(t, result.Ranking, 1)
	assert.Empty(t, result.Failed)
	assert.InDelta(t, 40.0, result.Ranking[0].Score.OverallScore, 0.001)
}

func TestScoreSessionRescorerSkipsRejected(t *testing.T) {
	rescorer := &stubRescorer{adjusted: 99}
	p := NewSessionProcessor(&stubEngine{},
		WithLogger(zerolog.Nop()),
		WithRescorer(rescorer, nil),
	)

	// 被拒绝的候选人不触发外部复评
	_, err := p.ScoreSession(context.Background(), testJob(), nil, []types.CandidateInput{candidate("c", -1)})
	require.NoError(t, err)
	assert.Zero(t, rescorer.calls)
}

func TestScoreSessionBoundedConcurrency(t *testing.T) {
	p := NewSessionProcessor(&stubEngine{}, WithLogger(zerolog.Nop()), WithWorkers(2))
	var candidates []types.CandidateInput
	for i := 0; i < 20; i++ {
		candidates = append(candidates, candidate(fmt.Sprintf("c-%02d", i), float64(i)))
	}

	result, err := p.ScoreSession(context.Background(), testJob(), nil, candidates)
	require.NoError(t, err)
	require.Len(t, result.Ranking, 20)

	// 每个结果携带唯一的ResultID，名次连续
	seen := make(map[string]struct{})
	for i, r := range result.Ranking {
		assert.Equal(t, i+1, r.Score.RankPosition)
		_, dup := seen[r.ResultID]
		assert.False(t, dup, "ResultID重复: %s", r.ResultID)
		seen[r.ResultID] = struct{}{}
	}
}

func TestScoreSessionWithRealEngine(t *testing.T) {
	engine := matcher.NewEngine(matcher.WithLogger(zerolog.Nop()))
	p := NewSessionProcessor(engine, WithLogger(zerolog.Nop()))

	job := &types.JobRequirement{
		Title:         "Python Developer",
		RawText:       "Python developer with Django experience.",
		RequiredYears: 2,
		PrimarySkills: []string{"Python", "Django"},
	}
	candidates := []types.CandidateInput{
		{
			CandidateID: "strong",
			Resume: types.ResumeProfile{
				Skills:     []string{"Python", "Django"},
				TotalYears: 4,
				Timeline: []types.Engagement{
					{RoleTitle: "Python Developer", DurationText: "2022 - Present", Years: 4, IsCurrent: true, Technologies: []string{"python", "django"}},
				},
			},
		},
		{
			CandidateID: "unrelated",
			Resume: types.ResumeProfile{
				Skills:     []string{"Sales"},
				TotalYears: 9,
				Timeline: []types.Engagement{
					{RoleTitle: "Sales Manager", DurationText: "2017 - Present", Years: 9},
				},
			},
		},
	}

	result, err := p.ScoreSession(context.Background(), job, nil, candidates)
	require.NoError(t, err)
	require.Len(t, result.Ranking, 1)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, "strong", result.Ranking[0].CandidateID)
	assert.Equal(t, "unrelated", result.Rejected[0].CandidateID)
	assert.True(t, result.Rejected[0].Score.Rejected())
}
