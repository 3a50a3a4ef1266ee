// Package attendance содержит отметки входа и выхода участников.
package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alqaqa03/gym1/internal/biometric"
	"github.com/alqaqa03/gym1/internal/lib/apperr"
	"github.com/alqaqa03/gym1/internal/lib/sl"
	"github.com/alqaqa03/gym1/internal/metrics"
	"github.com/alqaqa03/gym1/internal/models"
)

// Repository определяет методы хранилища, нужные сервису посещений.
type Repository interface {
	GetMember(ctx context.Context, id int64) (models.Member, error)
	// CheckIn открывает запись. Повторный вход при открытой записи даёт ConflictError.
	CheckIn(ctx context.Context, rec models.AttendanceRecord) (models.AttendanceRecord, error)
	// CheckOut закрывает самую свежую открытую запись. Если её нет, NotFoundError.
	CheckOut(ctx context.Context, memberID int64, at time.Time) (models.AttendanceRecord, error)
	ListAttendanceSince(ctx context.Context, since time.Time) ([]models.AttendanceView, error)
	ListMemberAttendance(ctx context.Context, memberID int64, from, to time.Time) ([]models.AttendanceView, error)
}

// Service отмечает приход и уход участников.
type Service struct {
	repo    Repository
	oracle  biometric.Oracle
	log     *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewService создает новый экземпляр Service. oracle и m могут быть nil.
func NewService(repo Repository, oracle biometric.Oracle, log *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		repo:    repo,
		oracle:  oracle,
		log:     log,
		metrics: m,
		now:     time.Now,
	}
}

// CheckIn отмечает вход участника текущим временем. Отпечаток сверяется
// с шаблоном участника, но сбой сверки не мешает отметке.
func (s *Service) CheckIn(ctx context.Context, recordedBy *int64, req models.CheckInRequest) (models.AttendanceRecord, error) {
	const op = "services.attendance.CheckIn"
	log := s.log.With(sl.Op(op), slog.Int64("member_id", req.MemberID))

	m, err := s.repo.GetMember(ctx, req.MemberID)
	if err != nil {
		return models.AttendanceRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	if !m.IsMembershipValid(now) {
		log.Warn("member checked in without a valid membership")
	}

	rec := models.AttendanceRecord{
		MemberID:            m.ID,
		CheckIn:             now,
		FingerprintVerified: biometric.Verify(ctx, log, s.oracle, m.BiometricTemplate, req.Candidate),
		RecordedBy:          recordedBy,
		Notes:               req.Notes,
	}
	rec, err = s.repo.CheckIn(ctx, rec)
	if err != nil {
		return models.AttendanceRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.CheckedIn(rec.FingerprintVerified)
	log.Info("member checked in", slog.Int64("record_id", rec.ID), slog.Bool("verified", rec.FingerprintVerified))
	return rec, nil
}

// CheckOut закрывает открытую запись участника текущим временем.
func (s *Service) CheckOut(ctx context.Context, req models.CheckOutRequest) (models.AttendanceView, error) {
	const op = "services.attendance.CheckOut"

	rec, err := s.repo.CheckOut(ctx, req.MemberID, s.now())
	if err != nil {
		return models.AttendanceView{}, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.CheckedOut()
	s.log.Info("member checked out", sl.Op(op), slog.Int64("member_id", req.MemberID), slog.Int64("record_id", rec.ID))
	return models.NewAttendanceView(rec, ""), nil
}

// List возвращает посещения за окно today, week или month, новые первыми.
func (s *Service) List(ctx context.Context, window string) ([]models.AttendanceView, error) {
	const op = "services.attendance.List"

	w, err := models.ParseAttendanceWindow(window)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	views, err := s.repo.ListAttendanceSince(ctx, w.Since(s.now()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return views, nil
}

// ListForMember возвращает посещения участника за период.
func (s *Service) ListForMember(ctx context.Context, memberID int64, r models.DateRange) ([]models.AttendanceView, error) {
	const op = "services.attendance.ListForMember"

	if r.End.Before(r.Start) {
		return nil, fmt.Errorf("%s: %w", op, apperr.Validation("to", "must not be before from"))
	}
	if _, err := s.repo.GetMember(ctx, memberID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	views, err := s.repo.ListMemberAttendance(ctx, memberID, r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return views, nil
}
