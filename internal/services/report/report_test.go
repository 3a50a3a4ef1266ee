package report

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

func (m *RepoMock) CreateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(models.Transaction), args.Error(1)
}
func (m *RepoMock) ListTransactionsBetween(ctx context.Context, from, to time.Time) ([]models.Transaction, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}
func (m *RepoMock) DashboardStats(ctx context.Context, now, dayStart, soon time.Time) (models.DashboardStats, error) {
	args := m.Called(ctx, now, dayStart, soon)
	return args.Get(0).(models.DashboardStats), args.Error(1)
}
func (m *RepoMock) ListAttendanceBetween(ctx context.Context, from, to time.Time) ([]models.AttendanceView, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AttendanceView), args.Error(1)
}
func (m *RepoMock) ListSubscriptionsStartedBetween(ctx context.Context, from, to time.Time) ([]models.SubscriptionView, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SubscriptionView), args.Error(1)
}
func (m *RepoMock) RevenueByDay(ctx context.Context, from, to time.Time) ([]models.DailyRevenue, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DailyRevenue), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var fixedNow = time.Date(2024, 5, 20, 15, 0, 0, 0, time.UTC)

func newTestService(repo Repository) *Service {
	s := NewService(repo, newNoopLogger())
	s.now = func() time.Time { return fixedNow }
	return s
}

func may() models.DateRange {
	return models.DateRange{
		Start: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC),
	}
}

func TestService_BalanceSheet(t *testing.T) {
	repo := new(RepoMock)
	svc := newTestService(repo)
	r := may()

	income, err := models.NewTransaction("income", "subscription", 100, "fees", time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	expense, err := models.NewTransaction("expense", "maintenance", 40, "repairs", time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	repo.On("ListTransactionsBetween", mock.Anything, r.Start, r.End).
		Return([]models.Transaction{income, expense}, nil).Once()

	sheet, err := svc.BalanceSheet(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, 100.0, sheet.TotalIncome)
	assert.Equal(t, 40.0, sheet.TotalExpense)
	assert.Equal(t, 60.0, sheet.NetProfit)
	assert.Len(t, sheet.Transactions, 2)

	_, err = svc.BalanceSheet(context.Background(), models.DateRange{Start: r.End, End: r.Start})
	assert.True(t, apperr.IsValidation(err))

	repo.AssertExpectations(t)
}

func TestService_RecordTransaction(t *testing.T) {
	clerk := int64(2)

	tests := []struct {
		name       string
		req        models.DummyTransaction
		setupMocks func(r *RepoMock)
		wantErr    func(error) bool
	}{
		{
			name: "valid expense",
			req:  models.DummyTransaction{Type: "expense", Category: "salary", Amount: 300, Description: "May", Date: "2024-05-31", ReferenceID: "payroll-5"},
			setupMocks: func(r *RepoMock) {
				r.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(tx models.Transaction) bool {
					return tx.Type == models.TransactionExpense && tx.Category == models.CategorySalary &&
						tx.CreatedBy != nil && *tx.CreatedBy == clerk && tx.ReferenceID == "payroll-5" &&
						tx.Date.Equal(time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC))
				})).Return(models.Transaction{ID: 1, Type: models.TransactionExpense}, nil).Once()
			},
		},
		{
			name:       "unknown type",
			req:        models.DummyTransaction{Type: "refund", Category: "other", Amount: 1, Description: "x", Date: "2024-05-31"},
			setupMocks: func(_ *RepoMock) {},
			wantErr:    apperr.IsValidation,
		},
		{
			name:       "unknown category",
			req:        models.DummyTransaction{Type: "income", Category: "donations", Amount: 1, Description: "x", Date: "2024-05-31"},
			setupMocks: func(_ *RepoMock) {},
			wantErr:    apperr.IsValidation,
		},
		{
			name:       "bad date",
			req:        models.DummyTransaction{Type: "income", Category: "other", Amount: 1, Description: "x", Date: "yesterday"},
			setupMocks: func(_ *RepoMock) {},
			wantErr:    apperr.IsValidation,
		},
		{
			name: "storage failure",
			req:  models.DummyTransaction{Type: "income", Category: "other", Amount: 1, Description: "x", Date: "2024-05-31"},
			setupMocks: func(r *RepoMock) {
				r.On("CreateTransaction", mock.Anything, mock.Anything).
					Return(models.Transaction{}, apperr.Storage("storage.CreateTransaction", errors.New("db down"))).Once()
			},
			wantErr: apperr.IsStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)
			svc := newTestService(repo)

			_, err := svc.RecordTransaction(context.Background(), &clerk, tt.req)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err), "unexpected error kind: %v", err)
			} else {
				require.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Dashboard(t *testing.T) {
	repo := new(RepoMock)
	svc := newTestService(repo)

	want := models.DashboardStats{TotalMembers: 10, ActiveMembers: 7, TodayAttendance: 3, ExpiringSoon: 2}
	repo.On("DashboardStats", mock.Anything,
		fixedNow,
		time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 27, 15, 0, 0, 0, time.UTC),
	).Return(want, nil).Once()

	got, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
	repo.AssertExpectations(t)
}

func TestService_Reports(t *testing.T) {
	repo := new(RepoMock)
	svc := newTestService(repo)
	r := may()

	repo.On("ListAttendanceBetween", mock.Anything, r.Start, r.End).
		Return([]models.AttendanceView{{MemberName: "Ivan"}}, nil).Once()
	repo.On("ListSubscriptionsStartedBetween", mock.Anything, r.Start, r.End).
		Return([]models.SubscriptionView{{
			Subscription: models.Subscription{
				StartDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
				PaymentStatus: models.PaymentPaid,
			},
			MemberName: "Ivan",
		}}, nil).Once()
	repo.On("RevenueByDay", mock.Anything, r.Start, r.End).
		Return([]models.DailyRevenue{{Amount: 1500}, {Amount: 500}}, nil).Once()

	att, err := svc.Attendance(context.Background(), r)
	require.NoError(t, err)
	assert.Len(t, att, 1)

	subs, err := svc.Subscriptions(context.Background(), r)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.True(t, subs[0].Active)
	assert.Equal(t, "Ivan", subs[0].MemberName)

	rev, err := svc.Revenue(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, rev.Total)

	_, err = svc.Revenue(context.Background(), models.DateRange{})
	assert.True(t, apperr.IsValidation(err))

	repo.AssertExpectations(t)
}
