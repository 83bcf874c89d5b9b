package inbound

import (
	"github.com/shandysiswandi/goauthn/internal/auth/usecase"
	"github.com/shandysiswandi/goauthn/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the login and password reset flows.
type HTTPEndpoint struct {
	uc uc
}

// Login checks identifier+password and emails an OTP challenge on success.
// @Summary Start login
// @Description Validates credentials and sends a one-time code to the account email.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login payload"
// @Success 200 {object} router.successResponse{data=LoginResponse} "Challenge issued"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid credentials"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "Too many attempts"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/login [post]
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Identifier: req.Identifier,
		Password:   req.Password,
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{Email: resp.Email}, nil
}

// LoginVerify completes the OTP challenge and authenticates the call.
// @Summary Verify login code
// @Description Checks the submitted one-time code; a matching code is consumed.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginVerifyRequest true "Verification payload"
// @Success 200 {object} router.successResponse "Authenticated"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid or expired code"
// @Failure 404 {object} router.errorResponse "Account not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "Too many attempts"
// @Router /api/v1/auth/login/verify [post]
func (h *HTTPEndpoint) LoginVerify(r *router.Request) (any, error) {
	var req LoginVerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.LoginVerify(r.Context(), usecase.LoginVerifyInput{
		Email: req.Email,
		OTP:   req.OTP,
	}); err != nil {
		return nil, err
	}

	return LoginVerifyResponse{}, nil
}

// PasswordForgot starts the reset flow by emailing a one-time code.
// @Summary Request password reset code
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body PasswordForgotRequest true "Reset request payload"
// @Success 200 {object} router.successResponse "Code sent"
// @Failure 404 {object} router.errorResponse "Account not found"
// @Failure 429 {object} router.errorResponse "Too many attempts"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/password/forgot [post]
func (h *HTTPEndpoint) PasswordForgot(r *router.Request) (any, error) {
	var req PasswordForgotRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.PasswordForgot(r.Context(), usecase.PasswordForgotInput{
		Email: req.Email,
	}); err != nil {
		return nil, err
	}

	return PasswordForgotResponse{}, nil
}

// PasswordForgotVerify reports whether a reset code is currently valid.
// @Summary Check password reset code
// @Description Validates the code without consuming it; the reset commit re-checks nothing, the code pair itself authorizes it.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body PasswordForgotVerifyRequest true "Verification payload"
// @Success 200 {object} router.successResponse "Code valid"
// @Failure 401 {object} router.errorResponse "Invalid or expired code"
// @Failure 404 {object} router.errorResponse "Account not found"
// @Failure 429 {object} router.errorResponse "Too many attempts"
// @Router /api/v1/auth/password/forgot/verify [post]
func (h *HTTPEndpoint) PasswordForgotVerify(r *router.Request) (any, error) {
	var req PasswordForgotVerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.PasswordForgotVerify(r.Context(), usecase.PasswordForgotVerifyInput{
		Email: req.Email,
		OTP:   req.OTP,
	}); err != nil {
		return nil, err
	}

	return PasswordForgotVerifyResponse{}, nil
}

// PasswordReset sets a new password and clears any outstanding code.
// @Summary Commit new password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body PasswordResetRequest true "Reset payload"
// @Success 200 {object} router.successResponse "Password updated"
// @Failure 404 {object} router.errorResponse "Account not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/password/reset [post]
func (h *HTTPEndpoint) PasswordReset(r *router.Request) (any, error) {
	var req PasswordResetRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.PasswordReset(r.Context(), usecase.PasswordResetInput{
		Email:       req.Email,
		NewPassword: req.NewPassword,
	}); err != nil {
		return nil, err
	}

	return PasswordResetResponse{}, nil
}
