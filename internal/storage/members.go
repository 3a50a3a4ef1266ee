package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alqaqa03/gym1/internal/models"
)

const memberColumns = `id, full_name, phone, email, biometric_template, membership_type,
	start_date, end_date, emergency_contact, medical_notes, is_active, created_at, created_by`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (models.Member, error) {
	var (
		m                              models.Member
		email, emergency, medical, typ sql.NullString
		createdBy                      sql.NullInt64
	)
	err := row.Scan(&m.ID, &m.FullName, &m.Phone, &email, &m.BiometricTemplate, &typ,
		&m.StartDate, &m.EndDate, &emergency, &medical, &m.Active, &m.CreatedAt, &createdBy)
	if err != nil {
		return models.Member{}, err
	}
	m.Email = email.String
	m.MembershipType = models.MembershipType(typ.String)
	m.EmergencyContact = emergency.String
	m.MedicalNotes = medical.String
	m.CreatedBy = int64Ptr(createdBy)
	return m, nil
}

// CreateMember вставляет участника и возвращает его с присвоенными ID и CreatedAt.
func (s *Storage) CreateMember(ctx context.Context, m models.Member) (models.Member, error) {
	const op = "storage.CreateMember"

	select {
	case <-ctx.Done():
		return models.Member{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO members (full_name, phone, email, biometric_template, membership_type,
			start_date, end_date, emergency_contact, medical_notes, is_active, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`
	err := s.DB.QueryRowContext(ctx, query,
		m.FullName, m.Phone, nullString(m.Email), m.BiometricTemplate, string(m.MembershipType),
		m.StartDate, m.EndDate, nullString(m.EmergencyContact), nullString(m.MedicalNotes),
		m.Active, nullInt64(m.CreatedBy),
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return models.Member{}, mapError(op, "member", nil, err)
	}
	return m, nil
}

// GetMember возвращает участника по ID.
func (s *Storage) GetMember(ctx context.Context, id int64) (models.Member, error) {
	const op = "storage.GetMember"

	select {
	case <-ctx.Done():
		return models.Member{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id)
	m, err := scanMember(row)
	if err != nil {
		return models.Member{}, mapError(op, "member", id, err)
	}
	return m, nil
}

// ListMembers возвращает участников по фильтру, отсортированных по имени.
func (s *Storage) ListMembers(ctx context.Context, filter models.MemberFilter) ([]models.Member, error) {
	const op = "storage.ListMembers"

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + memberColumns + ` FROM members
		WHERE ($1 = '' OR full_name ILIKE '%' || $1 || '%'
			OR phone ILIKE '%' || $1 || '%'
			OR email ILIKE '%' || $1 || '%')
		AND (NOT $2 OR is_active)
		ORDER BY full_name, id
		LIMIT $3 OFFSET $4`
	rows, err := s.DB.QueryContext(ctx, query, filter.Search, filter.ActiveOnly, nullLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, mapError(op, "member", nil, err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, mapError(op, "member", nil, err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, "member", nil, err)
	}
	return members, nil
}

// UpdateMember обновляет контактные данные и категорию участника.
// Окно членства здесь не меняется: его двигает только создание подписки.
func (s *Storage) UpdateMember(ctx context.Context, m models.Member) error {
	const op = "storage.UpdateMember"

	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE members
		SET full_name = $2, phone = $3, email = $4, membership_type = $5,
			emergency_contact = $6, medical_notes = $7
		WHERE id = $1`,
		m.ID, m.FullName, m.Phone, nullString(m.Email), string(m.MembershipType),
		nullString(m.EmergencyContact), nullString(m.MedicalNotes))
	if err != nil {
		return mapError(op, "member", m.ID, err)
	}
	return expectAffected(op, "member", m.ID, res)
}

// SetMemberActive включает или выключает флаг активности участника.
func (s *Storage) SetMemberActive(ctx context.Context, id int64, active bool) error {
	const op = "storage.SetMemberActive"

	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE members SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return mapError(op, "member", id, err)
	}
	return expectAffected(op, "member", id, res)
}

// SetBiometricTemplate сохраняет шаблон отпечатка. nil удаляет шаблон.
func (s *Storage) SetBiometricTemplate(ctx context.Context, id int64, template []byte) error {
	const op = "storage.SetBiometricTemplate"

	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE members SET biometric_template = $2 WHERE id = $1`, id, template)
	if err != nil {
		return mapError(op, "member", id, err)
	}
	return expectAffected(op, "member", id, res)
}

// DeleteMember удаляет участника вместе с его подписками и посещениями.
func (s *Storage) DeleteMember(ctx context.Context, id int64) error {
	const op = "storage.DeleteMember"

	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return mapError(op, "member", id, err)
	}
	return expectAffected(op, "member", id, res)
}
