package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"ats-match-go/internal/config"
	"ats-match-go/internal/logger"
	"ats-match-go/internal/matcher"
	"ats-match-go/internal/processor"
	"ats-match-go/internal/types"
)

func main() {
	var (
		configPath = pflag.StringP("config", "c", "", "配置文件路径")
		inputPath  = pflag.StringP("input", "i", "", "会话输入JSON文件（岗位+候选人列表）")
		outputPath = pflag.StringP("output", "o", "", "结果输出文件，缺省输出到stdout")
		workers    = pflag.Int("workers", 0, "并发打分协程数，覆盖配置文件取值")
	)
	pflag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Logger)

	if *inputPath == "" {
		logger.Fatal().Msg("必须通过 --input 指定会话输入文件")
	}
	data, err := os.ReadFile(*inputPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", *inputPath).Msg("读取会话输入文件失败")
	}
	var session types.SessionInput
	if err := json.Unmarshal(data, &session); err != nil {
		logger.Fatal().Err(err).Msg("解析会话输入失败")
	}
	// 岗位未携带技能权重时回落到配置文件的全局权重
	if len(session.Job.SkillWeights) == 0 {
		session.Job.SkillWeights = cfg.Engine.SkillWeights
	}

	var engineOpts []matcher.Option
	if cfg.Engine.EnableSemanticMatch && cfg.Engine.SimilarityVectorFile != "" {
		provider, perr := matcher.LoadVectorSimilarityProvider(cfg.Engine.SimilarityVectorFile)
		if perr != nil {
			logger.Warn().Err(perr).Msg("加载语义向量失败，降级为纯词法匹配")
		} else {
			engineOpts = append(engineOpts, matcher.WithSimilarityProvider(provider))
			logger.Info().Str("file", cfg.Engine.SimilarityVectorFile).Msg("语义相似度匹配已启用")
		}
	}
	engine := matcher.NewEngine(engineOpts...)

	// 复评器是注入式协作方，二进制本身不内置网络实现
	if cfg.Rescorer.Enabled {
		logger.Warn().Msg("配置启用了外部复评，但当前进程未注册复评实现，复评配置被忽略")
	}

	workerCount := cfg.Processor.Workers
	if *workers > 0 {
		workerCount = *workers
	}
	proc := processor.NewSessionProcessor(engine,
		processor.WithWorkers(workerCount),
		processor.WithCandidateTimeout(config.GetDuration(cfg.Processor.CandidateTimeout, 30*time.Second)),
	)

	result, err := proc.ScoreSession(context.Background(), &session.Job, session.ManualPriorities, session.Candidates)
	if err != nil {
		logger.Fatal().Err(err).Msg("会话打分失败")
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Fatal().Err(err).Msg("序列化结果失败")
	}
	if *outputPath == "" {
		fmt.Println(string(out))
	} else if err := os.WriteFile(*outputPath, out, 0644); err != nil {
		logger.Fatal().Err(err).Str("path", *outputPath).Msg("写出结果文件失败")
	}

	logger.Info().
		Int("ranked", len(result.Ranking)).
		Int("rejected", len(result.Rejected)).
		Int("failed", len(result.Failed)).
		Msg("会话打分完成")
}
