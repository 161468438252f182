package processor

import (
	"time"

	"github.com/rs/zerolog"

	"ats-match-go/pkg/ratelimit"
)

// Option 处理器构造选项
type Option func(*SessionProcessor)

// WithRescorer 启用外部复评器，limiter 控制对外部服务的调用频率
func WithRescorer(r Rescorer, limiter *ratelimit.TokenBucket) Option {
	return func(p *SessionProcessor) {
		p.rescorer = r
		p.limiter = limiter
	}
}

// WithWorkers 设置并发打分的协程数上限
func WithWorkers(n int) Option {
	return func(p *SessionProcessor) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithCandidateTimeout 单个候选人复评调用的超时时间
func WithCandidateTimeout(d time.Duration) Option {
	return func(p *SessionProcessor) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithLogger 替换默认日志器
func WithLogger(l zerolog.Logger) Option {
	return func(p *SessionProcessor) {
		p.logger = l
	}
}
