package matcher

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// SimilarityProvider 语义相似度能力接口，作为技能匹配的最后一层
// 实现必须支持多协程并发只读调用
type SimilarityProvider interface {
	// Similarity 返回两个归一化技能名的相似度 [0,1]
	// 第二个返回值为 false 表示实现无法对这对词做出判定
	Similarity(a, b string) (float64, bool)
}

// NoopSimilarityProvider 默认实现，对任何词对均不做判定
type NoopSimilarityProvider struct{}

func (NoopSimilarityProvider) Similarity(a, b string) (float64, bool) {
	return 0, false
}

// VectorSimilarityProvider 基于预计算词向量的余弦相似度实现
// 向量表在构造期一次性加载，之后只读
type VectorSimilarityProvider struct {
	vectors map[string][]float64
}

// NewVectorSimilarityProvider 从内存向量表构造
func NewVectorSimilarityProvider(vectors map[string][]float64) *VectorSimilarityProvider {
	normalized := make(map[string][]float64, len(vectors))
	for word, vec := range vectors {
		n := NormalizeSkill(word)
		if n == "" || len(vec) == 0 {
			continue
		}
		normalized[n] = vec
	}
	return &VectorSimilarityProvider{vectors: normalized}
}

// LoadVectorSimilarityProvider 从YAML向量文件加载
// 文件格式：顶层为 词 -> 浮点向量 的映射
func LoadVectorSimilarityProvider(path string) (*VectorSimilarityProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取向量文件失败: %w", err)
	}
	var vectors map[string][]float64
	if err := yaml.Unmarshal(data, &vectors); err != nil {
		return nil, fmt.Errorf("解析向量文件失败: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("向量文件 %s 为空", path)
	}
	return NewVectorSimilarityProvider(vectors), nil
}

func (p *VectorSimilarityProvider) Similarity(a, b string) (float64, bool) {
	va, ok := p.vectors[NormalizeSkill(a)]
	if !ok {
		return 0, false
	}
	vb, ok := p.vectors[NormalizeSkill(b)]
	if !ok {
		return 0, false
	}
	return CosineSimilarity(va, vb), true
}

// CosineSimilarity 计算两个向量的余弦相似度
// 维度不一致或任一向量为零向量时返回0
func CosineSimilarity(v1, v2 []float64) float64 {
	if len(v1) != len(v2) || len(v1) == 0 {
		return 0
	}
	var dot, norm1, norm2 float64
	for i := range v1 {
		dot += v1[i] * v2[i]
		norm1 += v1[i] * v1[i]
		norm2 += v2[i] * v2[i]
	}
	if norm1 == 0 || norm2 == 0 {
		return 0
	}
	return dot / (math.Sqrt(norm1) * math.Sqrt(norm2))
}
