package member

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/alqaqa03/gym1/internal/lib/apperr"
	"github.com/alqaqa03/gym1/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateMember(ctx context.Context, member models.Member) (models.Member, error) {
	args := m.Called(ctx, member)
	return args.Get(0).(models.Member), args.Error(1)
}
func (m *RepoMock) GetMember(ctx context.Context, id int64) (models.Member, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Member), args.Error(1)
}
func (m *RepoMock) ListMembers(ctx context.Context, filter models.MemberFilter) ([]models.Member, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Member), args.Error(1)
}
func (m *RepoMock) UpdateMember(ctx context.Context, member models.Member) error {
	return m.Called(ctx, member).Error(0)
}
func (m *RepoMock) SetMemberActive(ctx context.Context, id int64, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}
func (m *RepoMock) SetBiometricTemplate(ctx context.Context, id int64, template []byte) error {
	return m.Called(ctx, id, template).Error(0)
}
func (m *RepoMock) DeleteMember(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestService(repo Repository) *Service {
	s := NewService(repo, newNoopLogger())
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestService_Create(t *testing.T) {
	adminID := int64(1)

	tests := []struct {
		name       string
		req        models.DummyMember
		setupMocks func(r *RepoMock)
		wantErr    func(error) bool
		wantEnd    time.Time
	}{
		{
			name: "end date defaults to category span",
			req: models.DummyMember{
				FullName: "Ivan Petrov", Phone: "+79990001122",
				MembershipType: "monthly", StartDate: "2024-03-01",
			},
			setupMocks: func(r *RepoMock) {
				r.On("CreateMember", mock.Anything, mock.MatchedBy(func(m models.Member) bool {
					return m.Active && m.EndDate.Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)) &&
						m.CreatedBy != nil && *m.CreatedBy == adminID
				})).Return(models.Member{
					ID: 10, FullName: "Ivan Petrov", Active: true, MembershipType: models.MembershipMonthly,
					StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
					EndDate:   time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
				}, nil).Once()
			},
			wantEnd: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "explicit end date",
			req: models.DummyMember{
				FullName: "Ivan Petrov", Phone: "+79990001122",
				MembershipType: "annual", StartDate: "2024-03-01", EndDate: "2024-03-10",
			},
			setupMocks: func(r *RepoMock) {
				r.On("CreateMember", mock.Anything, mock.MatchedBy(func(m models.Member) bool {
					return m.EndDate.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
				})).Return(models.Member{ID: 11, EndDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)}, nil).Once()
			},
			wantEnd: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:       "unknown membership type",
			req:        models.DummyMember{FullName: "X", Phone: "1", MembershipType: "lifetime", StartDate: "2024-03-01"},
			setupMocks: func(_ *RepoMock) {},
			wantErr:    apperr.IsValidation,
		},
		{
			name:       "bad start date",
			req:        models.DummyMember{FullName: "X", Phone: "1", MembershipType: "daily", StartDate: "01.03.2024"},
			setupMocks: func(_ *RepoMock) {},
			wantErr:    apperr.IsValidation,
		},
		{
			name: "storage failure",
			req:  models.DummyMember{FullName: "X", Phone: "1", MembershipType: "daily", StartDate: "2024-03-01"},
			setupMocks: func(r *RepoMock) {
				r.On("CreateMember", mock.Anything, mock.Anything).
					Return(models.Member{}, apperr.Storage("storage.CreateMember", errors.New("db down"))).Once()
			},
			wantErr: apperr.IsStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)
			svc := newTestService(repo)

			got, err := svc.Create(context.Background(), &adminID, tt.req)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err), "unexpected error kind: %v", err)
			} else {
				require.NoError(t, err)
				assert.True(t, tt.wantEnd.Equal(got.EndDate))
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_GetDerivesValidity(t *testing.T) {
	repo := new(RepoMock)
	svc := newTestService(repo)

	repo.On("GetMember", mock.Anything, int64(5)).Return(models.Member{
		ID: 5, Active: true,
		StartDate: fixedNow.AddDate(0, 0, -10),
		EndDate:   fixedNow.Add(3*24*time.Hour + time.Hour),
	}, nil).Once()
	repo.On("GetMember", mock.Anything, int64(6)).Return(models.Member{
		ID: 6, Active: false,
		StartDate: fixedNow.AddDate(0, 0, -10),
		EndDate:   fixedNow.AddDate(0, 0, 10),
	}, nil).Once()
	repo.On("GetMember", mock.Anything, int64(7)).Return(models.Member{}, apperr.NotFound("member", int64(7))).Once()

	active, err := svc.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, active.Valid)
	assert.Equal(t, 3, active.DaysUntilExpiry)

	inactive, err := svc.Get(context.Background(), 6)
	require.NoError(t, err)
	assert.False(t, inactive.Valid, "inactive member is never valid")

	_, err = svc.Get(context.Background(), 7)
	assert.True(t, apperr.IsNotFound(err))

	repo.AssertExpectations(t)
}

func TestService_List(t *testing.T) {
	repo := new(RepoMock)
	svc := newTestService(repo)

	repo.On("ListMembers", mock.Anything, models.MemberFilter{Search: "ivan", Limit: 10}).
		Return([]models.Member{{ID: 1, FullName: "Ivan"}}, nil).Once()

	got, err := svc.List(context.Background(), models.MemberFilter{Search: "  ivan ", Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ivan", got[0].FullName)

	_, err = svc.List(context.Background(), models.MemberFilter{Limit: -1})
	assert.True(t, apperr.IsValidation(err))

	repo.AssertExpectations(t)
}

func TestService_UpdateKeepsWindow(t *testing.T) {
	repo := new(RepoMock)
	svc := newTestService(repo)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	repo.On("GetMember", mock.Anything, int64(3)).
		Return(models.Member{ID: 3, FullName: "Old", StartDate: start, EndDate: end}, nil).Once()
	repo.On("UpdateMember", mock.Anything, mock.MatchedBy(func(m models.Member) bool {
		return m.FullName == "New" && m.StartDate.Equal(start) && m.EndDate.Equal(end)
	})).Return(nil).Once()

	got, err := svc.Update(context.Background(), 3, models.DummyMember{
		FullName: "New", Phone: "1", MembershipType: "weekly",
		StartDate: "2030-01-01", EndDate: "2030-12-31",
	})
	require.NoError(t, err)
	assert.Equal(t, models.MembershipWeekly, got.MembershipType)
	repo.AssertExpectations(t)
}

func TestService_EnrollBiometric(t *testing.T) {
	repo := new(RepoMock)
	svc := newTestService(repo)

	err := svc.EnrollBiometric(context.Background(), 1, nil)
	assert.True(t, apperr.IsValidation(err))

	repo.On("SetBiometricTemplate", mock.Anything, int64(1), []byte{0xAB}).Return(nil).Once()
	require.NoError(t, svc.EnrollBiometric(context.Background(), 1, []byte{0xAB}))

	repo.AssertExpectations(t)
}

func TestService_SetActiveAndDelete(t *testing.T) {
	repo := new(RepoMock)
	svc := newTestService(repo)

	repo.On("SetMemberActive", mock.Anything, int64(2), false).Return(nil).Once()
	repo.On("DeleteMember", mock.Anything, int64(9)).Return(apperr.NotFound("member", int64(9))).Once()

	require.NoError(t, svc.SetActive(context.Background(), 2, false))
	assert.True(t, apperr.IsNotFound(svc.Delete(context.Background(), 9)))

	repo.AssertExpectations(t)
}
