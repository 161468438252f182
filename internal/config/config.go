package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"ats-match-go/internal/logger"
)

// Config 应用程序配置
type Config struct {
	// 引擎配置
	Engine EngineConfig `yaml:"engine"`

	// 批处理配置
	Processor ProcessorConfig `yaml:"processor"`

	// 可选的外部再评估器配置
	Rescorer RescorerConfig `yaml:"rescorer"`

	// 日志配置
	Logger logger.Config `yaml:"logger"`
}

// EngineConfig 匹配引擎配置
type EngineConfig struct {
	// 技能权重配置 (0-100)，缺失的技能默认50
	SkillWeights map[string]int `yaml:"skill_weights"`

	// 是否启用语义相似度匹配（第四层技能匹配）
	EnableSemanticMatch bool `yaml:"enable_semantic_match"`

	// 预计算的技能向量文件路径（yaml: 词 -> 向量），启用语义匹配时加载一次
	SimilarityVectorFile string `yaml:"similarity_vector_file"`
}

// ProcessorConfig 批处理会话配置
type ProcessorConfig struct {
	// 并发打分的工作协程数
	Workers int `yaml:"workers"`

	// 单个候选人的处理超时，例如 "30s"，仅约束外部协作方调用
	CandidateTimeout string `yaml:"candidate_timeout"`
}

// RescorerConfig 外部LLM再评估器配置（可选协作方，引擎本身不发起网络调用）
type RescorerConfig struct {
	Enabled          bool   `yaml:"enabled"`
	QPM              int    `yaml:"qpm"`                // 每分钟调用上限
	Burst            int    `yaml:"burst"`              // 令牌桶容量
	Timeout          string `yaml:"timeout"`            // 单次调用超时
	MaxRetries       int    `yaml:"max_retries"`        // 最大重试次数
	RetryWaitSeconds int    `yaml:"retry_wait_seconds"` // 重试等待时间(秒)
}

// LoadConfig 从文件加载配置
// 未指定路径时在常见位置查找；测试环境下找不到文件会回退到默认配置
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		searchPaths := []string{
			"config.yaml",
			"./config.yaml",
			"../config.yaml",
			"../../config.yaml",
			filepath.Join(os.Getenv("HOME"), ".ats-match", "config.yaml"),
		}

		if execPath, err := os.Executable(); err == nil {
			execDir := filepath.Dir(execPath)
			searchPaths = append(searchPaths, filepath.Join(execDir, "config.yaml"))
		}

		for _, path := range searchPaths {
			if _, err := os.Stat(path); err == nil {
				configPath = path
				break
			}
		}

		if configPath == "" {
			if inTestEnv() {
				return DefaultConfig(), nil
			}
			configPath = "config.yaml"
		}
	}

	if _, err := os.Stat(configPath); err != nil {
		if inTestEnv() {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("配置文件不存在: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 从环境变量覆盖（如果存在）
	if v := os.Getenv("ATS_MATCH_VECTOR_FILE"); v != "" {
		config.Engine.SimilarityVectorFile = v
	}

	applyDefaults(&config)
	return &config, nil
}

// DefaultConfig 返回默认配置，用于测试环境或无配置文件运行
func DefaultConfig() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}

func applyDefaults(config *Config) {
	if config.Processor.Workers <= 0 {
		config.Processor.Workers = 4
	}
	if config.Processor.CandidateTimeout == "" {
		config.Processor.CandidateTimeout = "30s"
	}
	if config.Rescorer.QPM <= 0 {
		config.Rescorer.QPM = 60
	}
	if config.Rescorer.Timeout == "" {
		config.Rescorer.Timeout = "20s"
	}
	if config.Rescorer.MaxRetries <= 0 {
		config.Rescorer.MaxRetries = 3
	}
	if config.Rescorer.RetryWaitSeconds <= 0 {
		config.Rescorer.RetryWaitSeconds = 1
	}
	if config.Logger.Level == "" {
		config.Logger.Level = "info"
	}
	if config.Logger.Format == "" {
		config.Logger.Format = "pretty"
	}
	if config.Logger.TimeFormat == "" {
		config.Logger.TimeFormat = "2006-01-02 15:04:05"
	}
}

// CreateSampleConfig 创建一个示例配置文件
func CreateSampleConfig(filePath string) error {
	if _, err := os.Stat(filePath); err == nil {
		return fmt.Errorf("文件 '%s' 已存在，不会覆盖", filePath)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("写入示例配置文件 '%s' 失败: %w", filePath, err)
	}
	return nil
}

// GetDuration 解析配置中的时长字符串，失败时返回默认值
func GetDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	if durationStr == "" {
		return defaultDuration
	}
	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return defaultDuration
	}
	return d
}

// inTestEnv 检测是否运行在 go test 环境下
func inTestEnv() bool {
	for _, arg := range os.Args {
		if strings.Contains(arg, "test") {
			return true
		}
	}
	return false
}
