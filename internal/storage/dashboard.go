package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/alqaqa03/gym1/internal/models"
)

// DashboardStats считает сводку главного экрана на момент now.
// Посещения считаются с dayStart, истекающими считаются активные участники
// с окончанием в [now, soon].
func (s *Storage) DashboardStats(ctx context.Context, now, dayStart, soon time.Time) (models.DashboardStats, error) {
	const op = "storage.DashboardStats"

	select {
	case <-ctx.Done():
		return models.DashboardStats{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var stats models.DashboardStats
	err := s.DB.QueryRowContext(ctx, `SELECT
			(SELECT COUNT(*) FROM members),
			(SELECT COUNT(*) FROM members WHERE is_active AND end_date >= $1),
			(SELECT COUNT(*) FROM attendance_records WHERE check_in >= $2),
			(SELECT COUNT(*) FROM members WHERE is_active AND end_date BETWEEN $1 AND $3)`,
		now, dayStart, soon,
	).Scan(&stats.TotalMembers, &stats.ActiveMembers, &stats.TodayAttendance, &stats.ExpiringSoon)
	if err != nil {
		return models.DashboardStats{}, mapError(op, "dashboard", nil, err)
	}
	return stats, nil
}
