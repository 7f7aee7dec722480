package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/djmax1976/nuvana-backoffice/pkg/auth"
	"github.com/djmax1976/nuvana-backoffice/pkg/auth/session"
	"github.com/djmax1976/nuvana-backoffice/pkg/config"
	"github.com/djmax1976/nuvana-backoffice/pkg/db/models"
	"github.com/djmax1976/nuvana-backoffice/pkg/enums"
	pkgerrors "github.com/djmax1976/nuvana-backoffice/pkg/errors"
	"github.com/djmax1976/nuvana-backoffice/pkg/security"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "nuvana-test",
	ExpirationMinutes: 15,
}

var testPasswordConfig = config.PasswordConfig{
	ArgonMemoryKB:    8192,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

type stubUserRepo struct {
	user      *models.User
	emailUsed bool
	created   *models.User
	lastLogin *time.Time
}

func (r *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.New()
	r.created = user
	return nil
}

func (r *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if r.user == nil || r.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return r.user, nil
}

func (r *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if r.user == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.user, nil
}

func (r *stubUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.emailUsed, nil
}

func (r *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.lastLogin = &at
	return nil
}

type stubCompanyRepo struct {
	company *models.Company
}

func (r *stubCompanyRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	if r.company == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.company, nil
}

type stubSession struct {
	revoked   []string
	rotateErr error
}

func (s *stubSession) Generate(ctx context.Context, accessID string) (string, error) {
	return "refresh-" + accessID, nil
}

func (s *stubSession) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	next := session.NewAccessID()
	return next, "refresh-" + next, nil
}

func (s *stubSession) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func activeCompany() *models.Company {
	return &models.Company{ID: uuid.New(), Name: "Nuvana Retail", Status: enums.TenantStatusActive}
}

func testUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		ID:           uuid.New(),
		CompanyID:    uuid.New(),
		Email:        "dana@nuvana.example",
		FirstName:    "Dana",
		LastName:     "Reyes",
		PasswordHash: hash,
		Role:         enums.UserRoleManager,
	}
}

func newAuthService(t *testing.T, users *stubUserRepo, companies *stubCompanyRepo, sessions *stubSession) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       users,
		CompanyRepo:    companies,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig,
		PasswordConfig: testPasswordConfig,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestLoginIssuesTokenPair(t *testing.T) {
	user := testUser(t, "correct horse battery")
	repo := &stubUserRepo{user: user}
	svc := newAuthService(t, repo, &stubCompanyRepo{}, &stubSession{})

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    " Dana@Nuvana.example ",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected token pair")
	}
	if repo.lastLogin == nil {
		t.Fatal("expected last login stamped")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.UserID != user.ID || claims.CompanyID != user.CompanyID {
		t.Fatal("expected identity carried into claims")
	}
	if claims.Role != enums.UserRoleManager {
		t.Fatalf("expected manager role, got %s", claims.Role)
	}
}

func TestLoginUniformFailureMessage(t *testing.T) {
	user := testUser(t, "correct horse battery")
	svc := newAuthService(t, &stubUserRepo{user: user}, &stubCompanyRepo{}, &stubSession{})

	cases := []LoginRequest{
		{Email: "nobody@nuvana.example", Password: "correct horse battery"},
		{Email: "dana@nuvana.example", Password: "wrong"},
		{Email: "", Password: "correct horse battery"},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), req)
		if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
			t.Fatalf("expected unauthorized for %q, got %v", req.Email, err)
		}
		if typed := pkgerrors.As(err); typed.Message() != invalidCredentialsMessage {
			t.Fatalf("expected uniform message, got %q", typed.Message())
		}
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	svc := newAuthService(t, &stubUserRepo{}, &stubCompanyRepo{}, &stubSession{})

	storeID := uuid.New()
	claims := &pkgAuth.AccessTokenClaims{
		UserID:        uuid.New(),
		CompanyID:     uuid.New(),
		ActiveStoreID: &storeID,
		Role:          enums.UserRoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID: session.NewAccessID(),
		},
	}
	resp, err := svc.Refresh(context.Background(), claims, "refresh-token")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	fresh, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse refreshed token: %v", err)
	}
	if fresh.UserID != claims.UserID || fresh.Role != claims.Role {
		t.Fatal("expected identity preserved across refresh")
	}
	if fresh.ActiveStoreID == nil || *fresh.ActiveStoreID != storeID {
		t.Fatal("expected active store preserved across refresh")
	}
	if fresh.ID == claims.ID {
		t.Fatal("expected a new access id after rotation")
	}
}

func TestRefreshRejectsInvalidToken(t *testing.T) {
	sessions := &stubSession{rotateErr: session.ErrInvalidRefreshToken}
	svc := newAuthService(t, &stubUserRepo{}, &stubCompanyRepo{}, sessions)

	claims := &pkgAuth.AccessTokenClaims{
		UserID: uuid.New(),
		Role:   enums.UserRoleManager,
		RegisteredClaims: jwt.RegisteredClaims{
			ID: session.NewAccessID(),
		},
	}
	_, err := svc.Refresh(context.Background(), claims, "stolen")
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &stubSession{}
	svc := newAuthService(t, &stubUserRepo{}, &stubCompanyRepo{}, sessions)

	accessID := session.NewAccessID()
	if err := svc.Logout(context.Background(), accessID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != accessID {
		t.Fatalf("expected session revoked, got %v", sessions.revoked)
	}
}

func TestRegisterCreatesUser(t *testing.T) {
	repo := &stubUserRepo{}
	svc := newAuthService(t, repo, &stubCompanyRepo{company: activeCompany()}, &stubSession{})

	dto, err := svc.Register(context.Background(), RegisterInput{
		CompanyID: uuid.New(),
		Email:     " New.Manager@Nuvana.example ",
		FirstName: "Ari",
		LastName:  "Okafor",
		Password:  "long enough secret",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if dto.Email != "new.manager@nuvana.example" {
		t.Fatalf("expected normalized email, got %q", dto.Email)
	}
	if dto.Role != enums.UserRoleManager {
		t.Fatalf("expected default manager role, got %s", dto.Role)
	}
	if repo.created == nil || repo.created.PasswordHash == "" {
		t.Fatal("expected user persisted with a password hash")
	}
	if repo.created.PasswordHash == "long enough secret" {
		t.Fatal("expected password hashed, not stored raw")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(t, &stubUserRepo{}, &stubCompanyRepo{company: activeCompany()}, &stubSession{})

	cases := []RegisterInput{
		{CompanyID: uuid.Nil, Email: "a@b.c", FirstName: "A", LastName: "B", Password: "longpassword"},
		{CompanyID: uuid.New(), Email: "not-an-email", FirstName: "A", LastName: "B", Password: "longpassword"},
		{CompanyID: uuid.New(), Email: "a@b.c", FirstName: "", LastName: "B", Password: "longpassword"},
		{CompanyID: uuid.New(), Email: "a@b.c", FirstName: "A", LastName: "B", Password: "short"},
		{CompanyID: uuid.New(), Email: "a@b.c", FirstName: "A", LastName: "B", Password: "longpassword", Role: "owner"},
	}
	for i, input := range cases {
		if _, err := svc.Register(context.Background(), input); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestRegisterConflicts(t *testing.T) {
	taken := &stubUserRepo{emailUsed: true}
	svc := newAuthService(t, taken, &stubCompanyRepo{company: activeCompany()}, &stubSession{})
	input := RegisterInput{CompanyID: uuid.New(), Email: "a@b.c", FirstName: "A", LastName: "B", Password: "longpassword"}
	if _, err := svc.Register(context.Background(), input); !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict for taken email, got %v", err)
	}

	inactive := activeCompany()
	inactive.Status = enums.TenantStatusInactive
	svc = newAuthService(t, &stubUserRepo{}, &stubCompanyRepo{company: inactive}, &stubSession{})
	if _, err := svc.Register(context.Background(), input); !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict for inactive company, got %v", err)
	}

	svc = newAuthService(t, &stubUserRepo{}, &stubCompanyRepo{}, &stubSession{})
	if _, err := svc.Register(context.Background(), input); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for missing company, got %v", err)
	}
}
