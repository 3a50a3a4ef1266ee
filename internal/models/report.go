package models

import "time"

// DashboardStats: сводка главного экрана.
type DashboardStats struct {
	TotalMembers    int `json:"total_members"`
	ActiveMembers   int `json:"active_members"`
	TodayAttendance int `json:"today_attendance"`
	ExpiringSoon    int `json:"expiring_soon"`
}

// DailyRevenue: сумма подписок, начавшихся в один календарный день.
type DailyRevenue struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// DateRange: период отчёта, обе границы включительно.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// RevenueReport: выручка по дням за период и её итог.
type RevenueReport struct {
	StartDate time.Time      `json:"start_date"`
	EndDate   time.Time      `json:"end_date"`
	Days      []DailyRevenue `json:"days"`
	Total     float64        `json:"total"`
}

// NewRevenueReport суммирует дневную выручку.
func NewRevenueReport(r DateRange, days []DailyRevenue) RevenueReport {
	report := RevenueReport{StartDate: r.Start, EndDate: r.End, Days: days}
	if report.Days == nil {
		report.Days = []DailyRevenue{}
	}
	for _, d := range days {
		report.Total += d.Amount
	}
	return report
}
