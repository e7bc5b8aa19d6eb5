package models

import "github.com/shopspring/decimal"

// NormalizeAmount 金额归一化：负数钳为 0，四舍五入保留 2 位小数
// 用 decimal 做舍入，避免浮点累积误差导致 10.005 这类边界值舍错方向
func NormalizeAmount(v float64) float64 {
	if v < 0 {
		return 0
	}
	normalized, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return normalized
}
