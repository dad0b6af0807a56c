package auth

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgauth "github.com/saikganesh/navajothi-jewels-backend/pkg/auth"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/config"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/db/models"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/enums"
	pkgerrors "github.com/saikganesh/navajothi-jewels-backend/pkg/errors"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/logger"
)

type fakeSessions struct {
	created []string
	revoked []string
	err     error
}

func (f *fakeSessions) Create(ctx context.Context, accessID, userID string) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, accessID)
	return nil
}

func (f *fakeSessions) Revoke(ctx context.Context, accessID string) error {
	if f.err != nil {
		return f.err
	}
	f.revoked = append(f.revoked, accessID)
	return nil
}

var testJWTConfig = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "navajothi-test",
	ExpirationMinutes: 15,
}

type fixture struct {
	svc      Service
	conn     *gorm.DB
	sessions *fakeSessions
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:auth_%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "auth-test", Level: zerolog.Disabled, Output: io.Discard})
	sessions := &fakeSessions{}
	svc, err := NewService(NewRepository(conn), sessions, testJWTConfig, config.PasswordConfig{}, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &fixture{svc: svc, conn: conn, sessions: sessions}
}

func registerInput() RegisterInput {
	return RegisterInput{
		Email:    "meena@example.com",
		Password: "s3cret-enough",
		FullName: "Meena Kumari",
	}
}

func codeOf(t *testing.T, err error) pkgerrors.Code {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	return typed.Code()
}

func TestRegisterIssuesCustomerToken(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if result.User.Role != enums.RoleCustomer || result.User.Email != "meena@example.com" {
		t.Fatalf("unexpected account %+v", result.User)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig, result.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != result.User.ID || claims.Role != enums.RoleCustomer {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if len(f.sessions.created) != 1 || f.sessions.created[0] != claims.ID {
		t.Fatalf("session must be keyed by the token jti")
	}

	// The stored hash must not be the password itself.
	var stored models.User
	if err := f.conn.First(&stored, "email = ?", "meena@example.com").Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if stored.PasswordHash == registerInput().Password {
		t.Fatal("password stored in the clear")
	}
}

func TestRegisterNormalizesEmailAndRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	input := registerInput()
	input.Email = "  Meena@Example.COM "
	if _, err := f.svc.Register(ctx, input); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := f.svc.Register(ctx, registerInput()); codeOf(t, err) != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bad := registerInput()
	bad.Email = "not-an-address"
	if _, err := f.svc.Register(ctx, bad); codeOf(t, err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for email, got %v", err)
	}

	bad = registerInput()
	bad.Password = "short"
	if _, err := f.svc.Register(ctx, bad); codeOf(t, err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for password, got %v", err)
	}

	bad = registerInput()
	bad.FullName = "   "
	if _, err := f.svc.Register(ctx, bad); codeOf(t, err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for name, got %v", err)
	}
}

func TestLoginVerifiesPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, registerInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	result, err := f.svc.Login(ctx, "meena@example.com", registerInput().Password)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected access token")
	}

	if _, err := f.svc.Login(ctx, "meena@example.com", "wrong-password"); codeOf(t, err) != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for bad password, got %v", err)
	}
	// Unknown accounts answer identically to bad passwords.
	if _, err := f.svc.Login(ctx, "nobody@example.com", "whatever-pass"); codeOf(t, err) != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for unknown email, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.Logout(ctx, "access-123"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(f.sessions.revoked) != 1 || f.sessions.revoked[0] != "access-123" {
		t.Fatalf("expected revoked session, got %v", f.sessions.revoked)
	}

	if err := f.svc.Logout(ctx, "  "); codeOf(t, err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for blank access id, got %v", err)
	}
}

func TestProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.svc.Register(ctx, registerInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	view, err := f.svc.Profile(ctx, result.User.ID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if view.Email != "meena@example.com" {
		t.Fatalf("unexpected profile %+v", view)
	}

	if _, err := f.svc.Profile(ctx, uuid.New()); codeOf(t, err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
