package subscription

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/calendar"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, sub *Subscription) (*Subscription, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Subscription), args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, id int64) (*Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Subscription), args.Error(1)
}

func (m *MockRepository) ListByOwnerAndStatus(ctx context.Context, ownerID int64, status Status) ([]*Subscription, error) {
	args := m.Called(ctx, ownerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Subscription), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, id int64, updates ...FieldUpdate) (*Subscription, error) {
	args := m.Called(ctx, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Subscription), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) ListDueForNotificationAtTime(ctx context.Context, hhmm string) ([]*Subscription, error) {
	args := m.Called(ctx, hhmm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Subscription), args.Error(1)
}

func (m *MockRepository) SumActivePrice(ctx context.Context, ownerID int64, scope string) (decimal.Decimal, error) {
	args := m.Called(ctx, ownerID, scope)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRepository) SumByPeriodGroupedForOwner(ctx context.Context, ownerID int64) ([]PeriodSum, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]PeriodSum), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, kind EventKind, sub *Subscription) error {
	args := m.Called(ctx, kind, sub)
	return args.Error(0)
}

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) TotalPaid(ctx context.Context, ownerID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func date(s string) time.Time {
	t, _ := calendar.ParseDate(s)
	return t
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name        string
		input       CreateInput
		setupMock   func(*MockRepository, *MockPublisher)
		expectError bool
		validation  bool
	}{
		{
			name: "successful creation",
			input: CreateInput{
				OwnerID:   100,
				Name:      "  Netflix ",
				Price:     decimal.NewFromInt(599),
				StartDate: date("2024-06-01"),
				Period:    calendar.Monthly,
			},
			setupMock: func(r *MockRepository, p *MockPublisher) {
				r.On("Create", mock.Anything, mock.MatchedBy(func(s *Subscription) bool {
					return s.Name == "Netflix" && s.Status == StatusActive &&
						s.NotificationsEnabled && s.NotificationTime == DefaultNotificationTime
				})).Return(&Subscription{ID: 1, OwnerID: 100, Name: "Netflix", Period: calendar.Monthly}, nil)
				p.On("Publish", mock.Anything, EventCreated, mock.Anything).Return(nil)
			},
		},
		{
			name: "short name",
			input: CreateInput{
				OwnerID:   100,
				Name:      " N ",
				Price:     decimal.NewFromInt(1),
				StartDate: date("2024-06-01"),
				Period:    calendar.Monthly,
			},
			setupMock:   func(*MockRepository, *MockPublisher) {},
			expectError: true,
			validation:  true,
		},
		{
			name: "negative price",
			input: CreateInput{
				OwnerID:   100,
				Name:      "Spotify",
				Price:     decimal.NewFromInt(-5),
				StartDate: date("2024-06-01"),
				Period:    calendar.Monthly,
			},
			setupMock:   func(*MockRepository, *MockPublisher) {},
			expectError: true,
			validation:  true,
		},
		{
			name: "unknown period",
			input: CreateInput{
				OwnerID:   100,
				Name:      "Spotify",
				Price:     decimal.NewFromInt(5),
				StartDate: date("2024-06-01"),
				Period:    calendar.Period("biweekly"),
			},
			setupMock:   func(*MockRepository, *MockPublisher) {},
			expectError: true,
			validation:  true,
		},
		{
			name: "storage failure",
			input: CreateInput{
				OwnerID:   100,
				Name:      "Spotify",
				Price:     decimal.NewFromInt(5),
				StartDate: date("2024-06-01"),
				Period:    calendar.Yearly,
			},
			setupMock: func(r *MockRepository, _ *MockPublisher) {
				r.On("Create", mock.Anything, mock.Anything).
					Return(nil, &PersistenceError{Op: "create", Err: errors.New("db down")})
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			pub := new(MockPublisher)
			tt.setupMock(repo, pub)

			svc := NewService(repo, nil, pub)
			sub, err := svc.Create(context.Background(), tt.input)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, sub)
				assert.Equal(t, tt.validation, IsValidation(err))
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, sub)
			}

			repo.AssertExpectations(t)
			pub.AssertExpectations(t)
		})
	}
}

func TestService_Create_PublishFailureIsIgnored(t *testing.T) {
	repo := new(MockRepository)
	pub := new(MockPublisher)

	repo.On("Create", mock.Anything, mock.Anything).Return(&Subscription{ID: 7, OwnerID: 1}, nil)
	pub.On("Publish", mock.Anything, EventCreated, mock.Anything).Return(errors.New("broker down"))

	svc := NewService(repo, nil, pub)
	sub, err := svc.Create(context.Background(), CreateInput{
		OwnerID: 1, Name: "iCloud", Price: decimal.NewFromInt(99), StartDate: date("2024-01-01"), Period: calendar.Monthly,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), sub.ID)
}

func TestService_Get_OtherOwner(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Get", mock.Anything, int64(5)).Return(&Subscription{ID: 5, OwnerID: 2}, nil)

	svc := NewService(repo, nil, nil)
	sub, err := svc.Get(context.Background(), 1, 5)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, sub)
}

func TestService_Update(t *testing.T) {
	repo := new(MockRepository)
	pub := new(MockPublisher)

	updates := []FieldUpdate{SetPrice{Price: decimal.NewFromInt(799)}}
	repo.On("Get", mock.Anything, int64(3)).Return(&Subscription{ID: 3, OwnerID: 1}, nil)
	repo.On("Update", mock.Anything, int64(3), updates).
		Return(&Subscription{ID: 3, OwnerID: 1, Price: decimal.NewFromInt(799)}, nil)
	pub.On("Publish", mock.Anything, EventUpdated, mock.Anything).Return(nil)

	svc := NewService(repo, nil, pub)
	sub, err := svc.Update(context.Background(), 1, 3, updates...)

	require.NoError(t, err)
	assert.True(t, sub.Price.Equal(decimal.NewFromInt(799)))
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestService_Update_NotFound(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Get", mock.Anything, int64(3)).Return(nil, ErrNotFound)

	svc := NewService(repo, nil, nil)
	_, err := svc.Update(context.Background(), 1, 3, SetName{Name: "x"})

	assert.ErrorIs(t, err, ErrNotFound)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Delete(t *testing.T) {
	repo := new(MockRepository)
	pub := new(MockPublisher)

	existing := &Subscription{ID: 9, OwnerID: 1, Name: "YouTube"}
	repo.On("Get", mock.Anything, int64(9)).Return(existing, nil)
	repo.On("Delete", mock.Anything, int64(9)).Return(nil)
	pub.On("Publish", mock.Anything, EventDeleted, existing).Return(nil)

	svc := NewService(repo, nil, pub)
	deleted, err := svc.Delete(context.Background(), 1, 9)

	require.NoError(t, err)
	assert.Equal(t, "YouTube", deleted.Name)
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestService_ToggleNotifications(t *testing.T) {
	repo := new(MockRepository)

	repo.On("Get", mock.Anything, int64(4)).Return(&Subscription{ID: 4, OwnerID: 1, NotificationsEnabled: true}, nil)
	repo.On("Update", mock.Anything, int64(4), []FieldUpdate{SetNotificationsEnabled{Enabled: false}}).
		Return(&Subscription{ID: 4, OwnerID: 1, NotificationsEnabled: false}, nil)

	svc := NewService(repo, nil, nil)
	sub, err := svc.ToggleNotifications(context.Background(), 1, 4)

	require.NoError(t, err)
	assert.False(t, sub.NotificationsEnabled)
	repo.AssertExpectations(t)
}

func TestService_ListInactive(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListByOwnerAndStatus", mock.Anything, int64(1), StatusPaused).Return([]*Subscription{{ID: 1}}, nil)
	repo.On("ListByOwnerAndStatus", mock.Anything, int64(1), StatusCancelled).Return([]*Subscription{{ID: 2}, {ID: 3}}, nil)

	svc := NewService(repo, nil, nil)
	subs, err := svc.ListInactive(context.Background(), 1)

	require.NoError(t, err)
	assert.Len(t, subs, 3)
}

func TestService_Analytics(t *testing.T) {
	repo := new(MockRepository)
	ledger := new(MockLedger)

	active := []*Subscription{
		{ID: 1, OwnerID: 1, Price: decimal.NewFromInt(100), StartDate: date("2024-01-15"), Period: calendar.Monthly},
		{ID: 2, OwnerID: 1, Price: decimal.NewFromInt(1000), StartDate: date("2023-03-01"), Period: calendar.Yearly},
	}
	repo.On("ListByOwnerAndStatus", mock.Anything, int64(1), StatusActive).Return(active, nil)
	repo.On("SumActivePrice", mock.Anything, int64(1), "monthly").Return(decimal.NewFromInt(100), nil)
	repo.On("SumActivePrice", mock.Anything, int64(1), "yearly").Return(decimal.NewFromInt(1000), nil)
	repo.On("SumActivePrice", mock.Anything, int64(1), ScopeTotal).Return(decimal.NewFromInt(1100), nil)
	repo.On("SumByPeriodGroupedForOwner", mock.Anything, int64(1)).Return([]PeriodSum{
		{Period: calendar.Monthly, Total: decimal.NewFromInt(100)},
		{Period: calendar.Yearly, Total: decimal.NewFromInt(1000)},
	}, nil)
	ledger.On("TotalPaid", mock.Anything, int64(1)).Return(decimal.NewFromInt(300), nil)

	svc := NewService(repo, ledger, nil)
	a, err := svc.Analytics(context.Background(), 1, date("2024-03-20"))

	require.NoError(t, err)
	assert.Equal(t, 2, a.ActiveCount)
	assert.True(t, a.Total.Equal(decimal.NewFromInt(1100)))
	// monthly: Jan 15, Feb 15, Mar 15 -> 3 x 100; yearly: 2023-03-01, 2024-03-01 -> 2 x 1000
	assert.True(t, a.SpentEstimate.Equal(decimal.NewFromInt(2300)), a.SpentEstimate.String())
	assert.True(t, a.PaidTotal.Equal(decimal.NewFromInt(300)))
	assert.Len(t, a.ByPeriod, 2)
	repo.AssertExpectations(t)
	ledger.AssertExpectations(t)
}

func TestService_Analytics_RepositoryError(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListByOwnerAndStatus", mock.Anything, int64(1), StatusActive).
		Return(nil, &PersistenceError{Op: "list", Err: errors.New("timeout")})

	svc := NewService(repo, nil, nil)
	a, err := svc.Analytics(context.Background(), 1, date("2024-03-20"))

	assert.Nil(t, a)
	assert.True(t, IsPersistence(err))
}
