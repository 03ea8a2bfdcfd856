package myhttp

import (
	"net/http"

	"ride-hail-accounts/internal/account-service/adapters/driver/myhttp/handle"
	"ride-hail-accounts/internal/account-service/adapters/driver/myhttp/middleware"
	"ride-hail-accounts/internal/account-service/core/domain/models"
)

// Router mounts the two parallel account trees plus the driver presence
// channel. Logout stays outside the gate on purpose: it only needs token
// extraction and must succeed even for tokens the gate would reject.
func Router(riders, drivers *handle.AccountHandler, wsHandler *handle.WebSocketHandler, mdl *middleware.AuthMiddleware) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /riders/register", riders.Register())
	mux.Handle("POST /riders/login", riders.Login())
	mux.Handle("GET /riders/profile", mdl.Gate(models.KindRider, riders.Profile()))
	mux.Handle("GET /riders/logout", riders.Logout())

	mux.Handle("POST /drivers/register", drivers.Register())
	mux.Handle("POST /drivers/login", drivers.Login())
	mux.Handle("GET /drivers/profile", mdl.Gate(models.KindDriver, drivers.Profile()))
	mux.Handle("GET /drivers/logout", drivers.Logout())

	mux.Handle("GET /ws/drivers", mdl.Gate(models.KindDriver, wsHandler.DriverChannel()))

	return mux
}
