package inbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/goauthn/internal/auth/usecase"
	"github.com/shandysiswandi/goauthn/internal/pkg/config"
	"github.com/shandysiswandi/goauthn/internal/pkg/goerror"
	"github.com/shandysiswandi/goauthn/internal/pkg/instrument"
	"github.com/shandysiswandi/goauthn/internal/pkg/router"
	"github.com/shandysiswandi/goauthn/internal/pkg/uid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUC struct {
	loginOut *usecase.LoginOutput
	err      error

	gotLogin        *usecase.LoginInput
	gotLoginVerify  *usecase.LoginVerifyInput
	gotForgot       *usecase.PasswordForgotInput
	gotForgotVerify *usecase.PasswordForgotVerifyInput
	gotReset        *usecase.PasswordResetInput
}

func (f *fakeUC) Login(_ context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error) {
	f.gotLogin = &in
	return f.loginOut, f.err
}

func (f *fakeUC) LoginVerify(_ context.Context, in usecase.LoginVerifyInput) error {
	f.gotLoginVerify = &in
	return f.err
}

func (f *fakeUC) PasswordForgot(_ context.Context, in usecase.PasswordForgotInput) error {
	f.gotForgot = &in
	return f.err
}

func (f *fakeUC) PasswordForgotVerify(_ context.Context, in usecase.PasswordForgotVerifyInput) error {
	f.gotForgotVerify = &in
	return f.err
}

func (f *fakeUC) PasswordReset(_ context.Context, in usecase.PasswordResetInput) error {
	f.gotReset = &in
	return f.err
}

type successEnvelope struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

type errorEnvelope struct {
	Message string            `json:"message"`
	Error   map[string]string `json:"error"`
}

func newTestRouter(t *testing.T, uc uc) *router.Router {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  maintenance:\n    enabled: false\n"))
	require.NoError(t, err)
	t.Cleanup(func() { cfg.Close() })

	r := router.NewRouter(router.Config{
		Config:     cfg,
		UUID:       uid.NewUUID(),
		Instrument: instrument.NewNoop(),
	})
	RegisterHTTPEndpoint(r, uc)

	return r
}

func doPost(t *testing.T, r *router.Router, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func TestHTTPLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		uc := &fakeUC{loginOut: &usecase.LoginOutput{Email: "user@example.com"}}
		r := newTestRouter(t, uc)

		rec := doPost(t, r, "/api/v1/auth/login", `{"identifier":"user@example.com","password":"secret-pass"}`)
		assert.Equal(t, http.StatusOK, rec.Code)

		var env successEnvelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.Contains(t, env.Message, "one-time code")
		assert.Equal(t, "user@example.com", env.Data["email"])

		require.NotNil(t, uc.gotLogin)
		assert.Equal(t, "user@example.com", uc.gotLogin.Identifier)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		uc := &fakeUC{err: goerror.NewBusiness("invalid email/phone or password", goerror.CodeUnauthorized)}
		r := newTestRouter(t, uc)

		rec := doPost(t, r, "/api/v1/auth/login", `{"identifier":"user@example.com","password":"bad-password"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var env errorEnvelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.Equal(t, "invalid email/phone or password", env.Message)
	})

	t.Run("malformed body", func(t *testing.T) {
		r := newTestRouter(t, &fakeUC{})

		rec := doPost(t, r, "/api/v1/auth/login", `{"identifier":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHTTPLoginVerify(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		uc := &fakeUC{}
		r := newTestRouter(t, uc)

		rec := doPost(t, r, "/api/v1/auth/login/verify", `{"email":"user@example.com","otp":"654321"}`)
		assert.Equal(t, http.StatusOK, rec.Code)

		require.NotNil(t, uc.gotLoginVerify)
		assert.Equal(t, "654321", uc.gotLoginVerify.OTP)
	})

	t.Run("invalid code", func(t *testing.T) {
		uc := &fakeUC{err: goerror.NewBusiness("invalid or expired code", goerror.CodeUnauthorized)}
		r := newTestRouter(t, uc)

		rec := doPost(t, r, "/api/v1/auth/login/verify", `{"email":"user@example.com","otp":"111111"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHTTPPasswordFlows(t *testing.T) {
	t.Run("forgot unknown email", func(t *testing.T) {
		uc := &fakeUC{err: goerror.NewBusiness("account not found", goerror.CodeNotFound)}
		r := newTestRouter(t, uc)

		rec := doPost(t, r, "/api/v1/auth/password/forgot", `{"email":"missing@example.com"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("forgot verify success", func(t *testing.T) {
		uc := &fakeUC{}
		r := newTestRouter(t, uc)

		rec := doPost(t, r, "/api/v1/auth/password/forgot/verify", `{"email":"user@example.com","otp":"654321"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, uc.gotForgotVerify)
	})

	t.Run("reset success", func(t *testing.T) {
		uc := &fakeUC{}
		r := newTestRouter(t, uc)

		rec := doPost(t, r, "/api/v1/auth/password/reset", `{"email":"user@example.com","new_password":"brand-new-pass"}`)
		assert.Equal(t, http.StatusOK, rec.Code)

		var env successEnvelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.Contains(t, env.Message, "password has been updated")

		require.NotNil(t, uc.gotReset)
		assert.Equal(t, "brand-new-pass", uc.gotReset.NewPassword)
	})

	t.Run("otp is never echoed back", func(t *testing.T) {
		uc := &fakeUC{}
		r := newTestRouter(t, uc)

		rec := doPost(t, r, "/api/v1/auth/password/forgot/verify", `{"email":"user@example.com","otp":"654321"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "654321")
	})
}
