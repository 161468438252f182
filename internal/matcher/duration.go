package matcher

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	rePresentMonthYear = regexp.MustCompile(`([a-z]+)\s+(\d{4})\s*[-–—]\s*(?:present|current|now)`)
	rePresentYear      = regexp.MustCompile(`(\d{4})\s*[-–—]\s*(?:present|current|now)`)
	reMonthSlashRange  = regexp.MustCompile(`\d{1,2}/(\d{4})\s*[-–—]\s*\d{1,2}/(\d{4})`)
	reYearRange        = regexp.MustCompile(`(\d{4})\s*[-–—]\s*(\d{4})`)
	reExplicitYears    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:years?|yrs?)`)
	reExplicitMonths   = regexp.MustCompile(`(\d+)\s*months?`)

	reReqRange  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:to|[-–—])\s*(\d+(?:\.\d+)?)\s*\+?\s*(?:years?|yrs?)`)
	reReqSingle = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*\+?\s*(?:years?|yrs?)`)
)

// YearsFromDuration 从任职时长文本推导年限
// 支持 "2020 - Present"、"Mar 2022 - Present"、"2019-2021"、
// "03/2020 - 06/2023"、"2.5 years"、"18 months" 等写法
// 空文本默认0.5年，完全无法解析默认1年
func YearsFromDuration(durationText string, now time.Time) float64 {
	s := strings.ToLower(strings.TrimSpace(durationText))
	if s == "" {
		return 0.5
	}
	currentYear := float64(now.Year())

	if m := rePresentMonthYear.FindStringSubmatch(s); m != nil {
		if start, err := strconv.ParseFloat(m[2], 64); err == nil {
			return math.Max(0.1, currentYear-start)
		}
	}
	if m := rePresentYear.FindStringSubmatch(s); m != nil {
		if start, err := strconv.ParseFloat(m[1], 64); err == nil {
			return math.Max(0.1, currentYear-start)
		}
	}
	if m := reMonthSlashRange.FindStringSubmatch(s); m != nil {
		start, err1 := strconv.ParseFloat(m[1], 64)
		end, err2 := strconv.ParseFloat(m[2], 64)
		if err1 == nil && err2 == nil {
			return math.Max(0.1, end-start+1)
		}
	}
	if m := reYearRange.FindStringSubmatch(s); m != nil {
		start, err1 := strconv.ParseFloat(m[1], 64)
		end, err2 := strconv.ParseFloat(m[2], 64)
		if err1 == nil && err2 == nil {
			return math.Max(0.1, end-start+1)
		}
	}
	if m := reExplicitYears.FindStringSubmatch(s); m != nil {
		if years, err := strconv.ParseFloat(m[1], 64); err == nil {
			return years
		}
	}
	if m := reExplicitMonths.FindStringSubmatch(s); m != nil {
		if months, err := strconv.ParseFloat(m[1], 64); err == nil {
			return months / 12
		}
	}
	return 1.0
}

// IsCurrentEngagement 时长文本是否表示该任职仍在进行
func IsCurrentEngagement(durationText string) bool {
	s := strings.ToLower(durationText)
	return strings.Contains(s, "present") || strings.Contains(s, "current")
}

// ParseRequiredYears 从岗位描述的自由文本中解析经验年限要求
// 区间写法（如 "2-5 years"、"3 to 5 yrs"）取下限，解析不出返回0
func ParseRequiredYears(text string) float64 {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return 0
	}
	if m := reReqRange.FindStringSubmatch(s); m != nil {
		low, err1 := strconv.ParseFloat(m[1], 64)
		high, err2 := strconv.ParseFloat(m[2], 64)
		if err1 == nil && err2 == nil {
			return math.Min(low, high)
		}
	}
	if m := reReqSingle.FindStringSubmatch(s); m != nil {
		if years, err := strconv.ParseFloat(m[1], 64); err == nil {
			return years
		}
	}
	return 0
}
