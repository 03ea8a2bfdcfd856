package middleware

import (
	"errors"
	"net/http"

	"ride-hail-accounts/internal/account-service/adapters/driver/myhttp/handle"
	"ride-hail-accounts/internal/account-service/core/ports/driver"
	"ride-hail-accounts/internal/account-service/core/service"
	"ride-hail-accounts/internal/mylogger"
)

type AuthMiddleware struct {
	auth  driver.IAccountService
	mylog mylogger.Logger
}

func NewAuthMiddleware(auth driver.IAccountService, mylog mylogger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		auth:  auth,
		mylog: mylog,
	}
}

// Gate admits only requests carrying a valid, unrevoked token that resolves
// to an account of the given kind. Every rejection gets the same 401 body so
// a caller cannot tell a missing token from a revoked, forged, expired or
// orphaned one.
func (am *AuthMiddleware) Gate(kind string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mylog := am.mylog.Action("Gate")

		token := handle.ExtractToken(r)
		if token == "" {
			handle.JsonError(w, http.StatusUnauthorized, handle.ErrUnauthorized)
			return
		}

		acc, err := am.auth.ResolveToken(r.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrTokenRejected) {
				handle.JsonError(w, http.StatusUnauthorized, handle.ErrUnauthorized)
				return
			}
			mylog.Error("gate failed on store access", err)
			handle.JsonError(w, http.StatusInternalServerError, errors.New("internal server error"))
			return
		}

		if acc.Kind != kind {
			mylog.Debug("Rejected token of wrong account kind")
			handle.JsonError(w, http.StatusUnauthorized, handle.ErrUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(handle.ContextWithAccount(r.Context(), acc)))
	})
}
