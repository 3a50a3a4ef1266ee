package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alqaqa03/gym1/internal/lib/apperr"
	"github.com/alqaqa03/gym1/internal/models"
)

const (
	attendanceColumns = `a.id, a.member_id, a.check_in, a.check_out, a.fingerprint_verified, a.recorded_by, a.notes`

	// Частичный уникальный индекс: не больше одной открытой записи на участника.
	openAttendanceIndex = "idx_attendance_open_per_member"
)

func scanAttendance(row rowScanner, extra ...any) (models.AttendanceRecord, error) {
	var (
		rec        models.AttendanceRecord
		checkOut   sql.NullTime
		recordedBy sql.NullInt64
		notes      sql.NullString
	)
	dest := []any{&rec.ID, &rec.MemberID, &rec.CheckIn, &checkOut, &rec.FingerprintVerified, &recordedBy, &notes}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return models.AttendanceRecord{}, err
	}
	if checkOut.Valid {
		t := checkOut.Time
		rec.CheckOut = &t
	}
	rec.RecordedBy = int64Ptr(recordedBy)
	rec.Notes = notes.String
	return rec, nil
}

// CheckIn открывает запись посещения. Если у участника уже есть открытая запись,
// возвращается ConflictError, если участника нет, NotFoundError.
func (s *Storage) CheckIn(ctx context.Context, rec models.AttendanceRecord) (models.AttendanceRecord, error) {
	const op = "storage.CheckIn"

	select {
	case <-ctx.Done():
		return models.AttendanceRecord{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	err := s.DB.QueryRowContext(ctx, `INSERT INTO attendance_records
			(member_id, check_in, fingerprint_verified, recorded_by, notes)
		SELECT m.id, $2, $3, $4, $5 FROM members m WHERE m.id = $1
		RETURNING id`,
		rec.MemberID, rec.CheckIn, rec.FingerprintVerified, nullInt64(rec.RecordedBy), nullString(rec.Notes),
	).Scan(&rec.ID)
	switch {
	case err == nil:
		rec.CheckOut = nil
		return rec, nil
	case isUniqueViolation(err, openAttendanceIndex):
		return models.AttendanceRecord{}, fmt.Errorf("%s: %w", op,
			apperr.Conflict("attendance", "member %d is already checked in", rec.MemberID))
	default:
		return models.AttendanceRecord{}, mapError(op, "member", rec.MemberID, err)
	}
}

// CheckOut закрывает самую свежую открытую запись участника временем at.
// Если открытой записи нет, возвращается NotFoundError.
func (s *Storage) CheckOut(ctx context.Context, memberID int64, at time.Time) (models.AttendanceRecord, error) {
	const op = "storage.CheckOut"

	select {
	case <-ctx.Done():
		return models.AttendanceRecord{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx, `UPDATE attendance_records a SET check_out = $2
		WHERE a.id = (
			SELECT id FROM attendance_records
			WHERE member_id = $1 AND check_out IS NULL
			ORDER BY check_in DESC, id DESC
			LIMIT 1
		)
		RETURNING `+attendanceColumns, memberID, at)
	rec, err := scanAttendance(row)
	if err != nil {
		return models.AttendanceRecord{}, mapError(op, "open attendance record for member", memberID, err)
	}
	return rec, nil
}

// ListAttendanceSince возвращает посещения с check_in не раньше since, новые первыми.
func (s *Storage) ListAttendanceSince(ctx context.Context, since time.Time) ([]models.AttendanceView, error) {
	const op = "storage.ListAttendanceSince"

	return s.queryAttendanceViews(ctx, op, `SELECT `+attendanceColumns+`, m.full_name
		FROM attendance_records a JOIN members m ON m.id = a.member_id
		WHERE a.check_in >= $1
		ORDER BY a.check_in DESC, a.id DESC`, since)
}

// ListAttendanceBetween возвращает посещения с check_in в [from, to].
func (s *Storage) ListAttendanceBetween(ctx context.Context, from, to time.Time) ([]models.AttendanceView, error) {
	const op = "storage.ListAttendanceBetween"

	return s.queryAttendanceViews(ctx, op, `SELECT `+attendanceColumns+`, m.full_name
		FROM attendance_records a JOIN members m ON m.id = a.member_id
		WHERE a.check_in BETWEEN $1 AND $2
		ORDER BY a.check_in DESC, a.id DESC`, from, to)
}

// ListMemberAttendance возвращает посещения одного участника с check_in в [from, to].
func (s *Storage) ListMemberAttendance(ctx context.Context, memberID int64, from, to time.Time) ([]models.AttendanceView, error) {
	const op = "storage.ListMemberAttendance"

	return s.queryAttendanceViews(ctx, op, `SELECT `+attendanceColumns+`, m.full_name
		FROM attendance_records a JOIN members m ON m.id = a.member_id
		WHERE a.member_id = $1 AND a.check_in BETWEEN $2 AND $3
		ORDER BY a.check_in DESC, a.id DESC`, memberID, from, to)
}

func (s *Storage) queryAttendanceViews(ctx context.Context, op, query string, args ...any) ([]models.AttendanceView, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, "attendance", nil, err)
	}
	defer rows.Close()

	views := []models.AttendanceView{}
	for rows.Next() {
		var name string
		rec, err := scanAttendance(rows, &name)
		if err != nil {
			return nil, mapError(op, "attendance", nil, err)
		}
		views = append(views, models.NewAttendanceView(rec, name))
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, "attendance", nil, err)
	}
	return views, nil
}
