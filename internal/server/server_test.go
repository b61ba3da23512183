package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"kinship/internal/bootstrap"
	"kinship/internal/config"
	"kinship/internal/models"
	"kinship/internal/otp"
	"kinship/internal/repository"
	"kinship/internal/service"
	"kinship/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

type fixedCodeMailer struct {
	sent []string
}

func (m *fixedCodeMailer) SendCode(_ context.Context, email, _ string) error {
	m.sent = append(m.sent, email)
	return nil
}

type testServer struct {
	app    *fiber.App
	srv    *Server
	rt     *bootstrap.Runtime
	db     *gorm.DB
	mailer *fixedCodeMailer
}

// newTestServer wires the full runtime over in-memory sqlite without Redis.
// Issued codes are always "123456".
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.NewSQLiteDB(t)
	cfg := &config.Config{
		JWTSecret:      testSecret,
		OTPTTLSeconds:  120,
		OTPMaxEntries:  100,
		TrendingLimit:  10,
		TrendingCacheS: 30,
		SuggestLimit:   10,
		EventBuffer:    16,
	}
	rt := bootstrap.Wire(db, nil, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = rt.Bus.Close() })

	mailer := &fixedCodeMailer{}
	codes := otp.NewService(otp.NewCache(100, 2*time.Minute), repository.NewUserRepository(db), mailer,
		func() (string, error) { return "123456", nil })
	rt.OTP = codes
	rt.Users = service.NewUserService(rt.UoW, codes)

	srv := NewServer(cfg, rt)
	return &testServer{app: srv.NewApp(), srv: srv, rt: rt, db: db, mailer: mailer}
}

func token(t *testing.T, email string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": email,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

// do sends a request as user (nil for anonymous) and returns the status and
// raw body.
func (ts *testServer) do(t *testing.T, method, path string, user *models.User, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		req.Header.Set("Authorization", "Bearer "+token(t, user.Email))
	}

	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func errorCode(t *testing.T, raw []byte) string {
	t.Helper()
	return decode[models.ErrorResponse](t, raw).Code
}

