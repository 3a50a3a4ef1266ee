// Package member содержит бизнес-логику учёта участников зала.
package member

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alqaqa03/gym1/internal/lib/apperr"
	"github.com/alqaqa03/gym1/internal/lib/sl"
	"github.com/alqaqa03/gym1/internal/models"
)

// Repository определяет методы хранилища, нужные сервису участников.
type Repository interface {
	CreateMember(ctx context.Context, m models.Member) (models.Member, error)
	GetMember(ctx context.Context, id int64) (models.Member, error)
	ListMembers(ctx context.Context, filter models.MemberFilter) ([]models.Member, error)
	UpdateMember(ctx context.Context, m models.Member) error
	SetMemberActive(ctx context.Context, id int64, active bool) error
	SetBiometricTemplate(ctx context.Context, id int64, template []byte) error
	DeleteMember(ctx context.Context, id int64) error
}

// Service управляет карточками участников. Окно членства задаётся при создании
// и дальше меняется только через создание подписки.
type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// Create регистрирует участника. Если дата окончания не указана, она
// вычисляется по длительности категории членства.
func (s *Service) Create(ctx context.Context, createdBy *int64, req models.DummyMember) (models.MemberStatus, error) {
	const op = "services.member.Create"

	m, err := s.fromRequest(req)
	if err != nil {
		return models.MemberStatus{}, fmt.Errorf("%s: %w", op, err)
	}
	m.Active = true
	m.CreatedBy = createdBy

	created, err := s.repo.CreateMember(ctx, m)
	if err != nil {
		s.log.Error("failed to create member", sl.Op(op), sl.Err(err))
		return models.MemberStatus{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("member created", sl.Op(op), slog.Int64("member_id", created.ID))
	return created.StatusAt(s.now()), nil
}

// Get возвращает участника с производным состоянием на текущий момент.
func (s *Service) Get(ctx context.Context, id int64) (models.MemberStatus, error) {
	const op = "services.member.Get"

	m, err := s.repo.GetMember(ctx, id)
	if err != nil {
		return models.MemberStatus{}, fmt.Errorf("%s: %w", op, err)
	}
	return m.StatusAt(s.now()), nil
}

// List ищет участников по фильтру.
func (s *Service) List(ctx context.Context, filter models.MemberFilter) ([]models.MemberStatus, error) {
	const op = "services.member.List"

	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, fmt.Errorf("%s: %w", op, apperr.Validation("limit", "limit and offset must not be negative"))
	}
	filter.Search = strings.TrimSpace(filter.Search)

	members, err := s.repo.ListMembers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	now := s.now()
	result := make([]models.MemberStatus, 0, len(members))
	for i := range members {
		result = append(result, members[i].StatusAt(now))
	}
	return result, nil
}

// Update меняет контактные данные и категорию участника. Даты из запроса игнорируются.
func (s *Service) Update(ctx context.Context, id int64, req models.DummyMember) (models.MemberStatus, error) {
	const op = "services.member.Update"

	m, err := s.repo.GetMember(ctx, id)
	if err != nil {
		return models.MemberStatus{}, fmt.Errorf("%s: %w", op, err)
	}
	typ, err := models.ParseMembershipType(req.MembershipType)
	if err != nil {
		return models.MemberStatus{}, fmt.Errorf("%s: %w", op, err)
	}

	m.FullName = req.FullName
	m.Phone = req.Phone
	m.Email = req.Email
	m.MembershipType = typ
	m.EmergencyContact = req.EmergencyContact
	m.MedicalNotes = req.MedicalNotes

	if err := s.repo.UpdateMember(ctx, m); err != nil {
		return models.MemberStatus{}, fmt.Errorf("%s: %w", op, err)
	}
	return m.StatusAt(s.now()), nil
}

// SetActive включает или выключает участника независимо от дат.
func (s *Service) SetActive(ctx context.Context, id int64, active bool) error {
	const op = "services.member.SetActive"

	if err := s.repo.SetMemberActive(ctx, id, active); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("member activity changed", sl.Op(op), slog.Int64("member_id", id), slog.Bool("active", active))
	return nil
}

// EnrollBiometric сохраняет шаблон отпечатка участника.
func (s *Service) EnrollBiometric(ctx context.Context, id int64, template []byte) error {
	const op = "services.member.EnrollBiometric"

	if len(template) == 0 {
		return fmt.Errorf("%s: %w", op, apperr.Validation("template", "must not be empty"))
	}
	if err := s.repo.SetBiometricTemplate(ctx, id, template); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete удаляет участника вместе с историей подписок и посещений.
func (s *Service) Delete(ctx context.Context, id int64) error {
	const op = "services.member.Delete"

	if err := s.repo.DeleteMember(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("member deleted", sl.Op(op), slog.Int64("member_id", id))
	return nil
}

func (s *Service) fromRequest(req models.DummyMember) (models.Member, error) {
	typ, err := models.ParseMembershipType(req.MembershipType)
	if err != nil {
		return models.Member{}, err
	}
	loc := s.now().Location()
	start, err := models.ParseDate("start_date", req.StartDate, loc)
	if err != nil {
		return models.Member{}, err
	}
	end := typ.DefaultEnd(start)
	if req.EndDate != "" {
		if end, err = models.ParseDate("end_date", req.EndDate, loc); err != nil {
			return models.Member{}, err
		}
	}
	return models.Member{
		FullName:          req.FullName,
		Phone:             req.Phone,
		Email:             req.Email,
		BiometricTemplate: req.BiometricTemplate,
		MembershipType:    typ,
		StartDate:         start,
		EndDate:           end,
		EmergencyContact:  req.EmergencyContact,
		MedicalNotes:      req.MedicalNotes,
	}, nil
}
