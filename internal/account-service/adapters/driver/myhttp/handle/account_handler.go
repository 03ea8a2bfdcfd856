package handle

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ride-hail-accounts/internal/account-service/core/domain/dto"
	"ride-hail-accounts/internal/account-service/core/ports/driver"
	"ride-hail-accounts/internal/account-service/core/service"
	"ride-hail-accounts/internal/config"
	"ride-hail-accounts/internal/mylogger"
)

// AccountHandler serves one account kind; the same handler code backs the
// /riders and /drivers route trees.
type AccountHandler struct {
	accounts driver.IAccountService
	cfg      *config.Config
	kind     string
	mylog    mylogger.Logger
}

func NewAccountHandler(accounts driver.IAccountService, cfg *config.Config, kind string, mylog mylogger.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		cfg:      cfg,
		kind:     kind,
		mylog:    mylog.With("kind", kind),
	}
}

func (ah *AccountHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var regReq dto.RegistrationRequest

		mylog := ah.mylog.Action("Register")

		if err := decodeBody(r, &regReq); err != nil {
			mylog.Warn("Failed to parse registration body")
			JsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		acc, token, err := ah.accounts.Register(ctx, ah.kind, regReq)
		if err != nil {
			ah.writeServiceError(w, mylog, err)
			return
		}

		ah.setTokenCookie(w, token)
		JsonResponse(w, http.StatusCreated, dto.AuthResponse{Account: acc, Token: token})
		mylog.Info("Successfully registered!")
	}
}

func (ah *AccountHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var authReq dto.LoginRequest

		mylog := ah.mylog.Action("Login")

		if err := decodeBody(r, &authReq); err != nil {
			mylog.Warn("Failed to parse login body")
			JsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		acc, token, err := ah.accounts.Login(ctx, ah.kind, authReq)
		if err != nil {
			ah.writeServiceError(w, mylog, err)
			return
		}

		ah.setTokenCookie(w, token)
		JsonResponse(w, http.StatusOK, dto.AuthResponse{Account: acc, Token: token})
		mylog.Info("Successfully login!")
	}
}

func (ah *AccountHandler) Profile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, ok := AccountFromContext(r.Context())
		if !ok {
			JsonError(w, http.StatusUnauthorized, ErrUnauthorized)
			return
		}

		JsonResponse(w, http.StatusOK, dto.ProfileResponse{Account: acc})
	}
}

// Logout clears the cookie and blacklists whatever token the request
// carried. It deliberately skips the gate: logging out twice, or with an
// already-dead token, still succeeds.
func (ah *AccountHandler) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := ah.mylog.Action("Logout")

		ah.clearTokenCookie(w)

		token := ExtractToken(r)

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		if err := ah.accounts.Logout(ctx, token); err != nil {
			mylog.Error("Failed to logout", err)
			JsonError(w, http.StatusInternalServerError, errors.New("internal server error"))
			return
		}

		JsonResponse(w, http.StatusOK, map[string]string{
			"message": "Logged out successfully",
		})
		mylog.Info("Successfully logout!")
	}
}

func (ah *AccountHandler) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Now().Add(ah.cfg.App.TokenTTL),
	})
}

func (ah *AccountHandler) clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// writeServiceError maps service failures onto the response taxonomy:
// 422 aggregated validation errors, 400 missing fields / duplicate email,
// 401 bad credentials, 500 for everything internal.
func (ah *AccountHandler) writeServiceError(w http.ResponseWriter, mylog mylogger.Logger, err error) {
	var verrs service.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		JsonResponse(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"errors": verrs,
		})
	case errors.Is(err, service.ErrMissingFields):
		JsonError(w, http.StatusBadRequest, err)
	case errors.Is(err, service.ErrEmailRegistered):
		JsonError(w, http.StatusBadRequest, err)
	case errors.Is(err, service.ErrInvalidCredentials):
		JsonError(w, http.StatusUnauthorized, err)
	default:
		mylog.Error("request failed", err)
		JsonError(w, http.StatusInternalServerError, errors.New("internal server error"))
	}
}
