package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"

	"github.com/Domenick1991/travelease/internal/auth"
	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/Domenick1991/travelease/internal/service/account"
	"github.com/Domenick1991/travelease/internal/service/admin"
	"github.com/Domenick1991/travelease/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, user *domain.User, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, user, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListMyBookings(ctx context.Context, user *domain.User) ([]domain.Booking, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, id int64, user *domain.User) (*domain.Booking, error) {
	args := m.Called(ctx, id, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, admin *domain.User) (*domain.Booking, error) {
	args := m.Called(ctx, id, status, admin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

type MockAccountUseCase struct {
	mock.Mock
}

func (m *MockAccountUseCase) Register(ctx context.Context, input account.RegisterInput) (*account.RegisterResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.RegisterResult), args.Error(1)
}

func (m *MockAccountUseCase) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return "", nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*domain.User), args.Error(2)
}

func (m *MockAccountUseCase) IssueVerificationCode(ctx context.Context, user *domain.User) (account.Status, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(account.Status), args.Error(1)
}

func (m *MockAccountUseCase) VerifyEmail(ctx context.Context, email, code string) (account.Status, error) {
	args := m.Called(ctx, email, code)
	return args.Get(0).(account.Status), args.Error(1)
}

func (m *MockAccountUseCase) IssuePasswordResetCode(ctx context.Context, email string) account.Status {
	args := m.Called(ctx, email)
	return args.Get(0).(account.Status)
}

func (m *MockAccountUseCase) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	return m.Called(ctx, email, code, newPassword).Error(0)
}

func (m *MockAccountUseCase) RequestAccountDeletion(ctx context.Context, user *domain.User) (account.Status, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(account.Status), args.Error(1)
}

func (m *MockAccountUseCase) ConfirmAccountDeletion(ctx context.Context, user *domain.User, code string) error {
	return m.Called(ctx, user, code).Error(0)
}

func (m *MockAccountUseCase) ApplyForHost(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockAdminUseCase struct {
	mock.Mock
}

func (m *MockAdminUseCase) UpdateUserRole(ctx context.Context, adminUser *domain.User, input admin.UpdateRoleInput) (*domain.User, error) {
	args := m.Called(ctx, adminUser, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAdminUseCase) DecideHostApplication(ctx context.Context, adminUser *domain.User, userID int64, approve bool) (*domain.User, error) {
	args := m.Called(ctx, adminUser, userID, approve)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAdminUseCase) ListActivity(ctx context.Context, limit, offset int) ([]domain.ActivityLog, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActivityLog), args.Error(1)
}

func (m *MockAdminUseCase) Stats(ctx context.Context) (*domain.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stats), args.Error(1)
}

type MockTokenParser struct {
	mock.Mock
}

func (m *MockTokenParser) ParseToken(token string) (*auth.Claims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Claims), args.Error(1)
}

type MockUserLoader struct {
	mock.Mock
}

func (m *MockUserLoader) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// newTestContext builds a gin context with an optional JSON body and an
// already authenticated user.
func newTestContext(method, target string, body any, user *domain.User) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		r = bytes.NewReader(raw)
	}
	c.Request = httptest.NewRequest(method, target, r)
	c.Request.Header.Set("Content-Type", "application/json")
	if user != nil {
		c.Set(userKey, user)
	}
	return c, w
}

func withID(c *gin.Context, id string) {
	c.Params = gin.Params{{Key: "id", Value: id}}
}

type envelope struct {
	Data   json.RawMessage   `json:"data"`
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
	Status string            `json:"status"`
}

func decode(w *httptest.ResponseRecorder) envelope {
	var e envelope
	_ = json.Unmarshal(w.Body.Bytes(), &e)
	return e
}

var (
	traveler = &domain.User{ID: 7, Name: "Ann", Email: "ann@example.com", Role: domain.RoleTraveler, HostStatus: domain.HostStatusNotRegistered}
	adminUsr = &domain.User{ID: 1, Name: "Root", Email: "root@example.com", Role: domain.RoleAdmin, HostStatus: domain.HostStatusNotRegistered}
)
