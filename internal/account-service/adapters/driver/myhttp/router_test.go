package myhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ride-hail-accounts/internal/account-service/adapters/driven/inmem"
	"ride-hail-accounts/internal/account-service/adapters/driven/ws"
	"ride-hail-accounts/internal/account-service/adapters/driver/myhttp/handle"
	"ride-hail-accounts/internal/account-service/adapters/driver/myhttp/middleware"
	"ride-hail-accounts/internal/account-service/core/domain/models"
	"ride-hail-accounts/internal/account-service/core/service"
	"ride-hail-accounts/internal/config"
	"ride-hail-accounts/internal/mylogger"

	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (http.Handler, *inmem.AccountRepo, *inmem.BlacklistRepo) {
	t.Helper()

	cfg := &config.Config{
		App: &config.Appconfig{
			JwtSecret:    "test-secret",
			TokenTTL:     7 * 24 * time.Hour,
			BlacklistTTL: 24 * time.Hour,
		},
	}

	mylog, err := mylogger.New(mylogger.LevelError)
	require.NoError(t, err)

	repo := inmem.NewAccountRepo()
	ledger := inmem.NewBlacklistRepo()
	svc := service.NewAccountService(context.Background(), cfg, repo, ledger, nil, mylog)

	riders := handle.NewAccountHandler(svc, cfg, models.KindRider, mylog)
	drivers := handle.NewAccountHandler(svc, cfg, models.KindDriver, mylog)
	wsHandler := handle.NewWebSocketHandler(ws.NewWebSocketManager(), svc, mylog)
	mdl := middleware.NewAuthMiddleware(svc, mylog)

	return Router(riders, drivers, wsHandler, mdl), repo, ledger
}

func doJSON(t *testing.T, router http.Handler, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func bearer(token string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	return h
}

const annBody = `{"fullName":{"firstName":"Ann"},"email":"a@x.com","password":"secret1"}`

func TestRegisterProfileLogoutProfile(t *testing.T) {
	router, _, _ := newTestRouter(t)

	// Register Ann.
	rec := doJSON(t, router, http.MethodPost, "/riders/register", annBody, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var authResp struct {
		Account models.Account `json:"account"`
		Token   string         `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &authResp))
	require.NotEmpty(t, authResp.Token)
	assert.Equal(t, "Ann", authResp.Account.FullName.FirstName)
	assert.NotContains(t, rec.Body.String(), "password", "no password material in the response")

	// The response also sets the token cookie.
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Equal(t, authResp.Token, cookies[0].Value)

	// Profile with Authorization: Bearer T.
	rec = doJSON(t, router, http.MethodGet, "/riders/profile", "", bearer(authResp.Token))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"Ann"`)
	assert.NotContains(t, rec.Body.String(), "password")

	// Logout with T.
	rec = doJSON(t, router, http.MethodGet, "/riders/logout", "", bearer(authResp.Token))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Logged out successfully")

	// Profile with T again: the token is still signed and unexpired, but the
	// ledger kills it.
	rec = doJSON(t, router, http.MethodGet, "/riders/profile", "", bearer(authResp.Token))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unauthorized")
}

func TestProfile_TokenFromCookie(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/riders/register", annBody, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	cookie := rec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/riders/profile", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestProfile_Rejections(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/riders/register", annBody, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var authResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &authResp))

	tests := []struct {
		name   string
		path   string
		header http.Header
	}{
		{name: "no token", path: "/riders/profile"},
		{name: "garbage token", path: "/riders/profile", header: bearer("not.a.jwt")},
		{name: "rider token on driver route", path: "/drivers/profile", header: bearer(authResp.Token)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodGet, tt.path, "", tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			// Identical body no matter why the gate said no.
			assert.JSONEq(t, `{"message":"Unauthorized","code":401}`, rec.Body.String())
		})
	}
}

func TestRegister_ValidationErrors(t *testing.T) {
	router, repo, _ := newTestRouter(t)

	body := `{"fullName":{"firstName":"An"},"email":"nope","password":"123"}`
	rec := doJSON(t, router, http.MethodPost, "/riders/register", body, nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	var resp struct {
		Errors []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Errors, 3)
	assert.Equal(t, 0, repo.Len())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	router, repo, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/riders/register", annBody, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/riders/register", annBody, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, repo.Len())
}

func TestRegister_MalformedBody(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/riders/register", `{"fullName":`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_DriverWithoutVehicle(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/drivers/register", annBody, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	router, _, ledger := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/riders/register", annBody, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/riders/login", `{"email":"a@x.com","password":"secret2"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"token"`)
	assert.Equal(t, 0, ledger.Len())
}

func TestLogout_WithoutToken(t *testing.T) {
	router, _, ledger := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/riders/logout", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, ledger.Len())

	// The cookie is cleared either way.
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
}

const driverBody = `{
	"fullName":{"firstName":"Bob","lastName":"Marsh"},
	"email":"b@x.com",
	"password":"secret1",
	"vehicle":{"color":"black","plateNo":"KA-01-1234","capacity":4,"vehicleType":"car"}
}`

func TestDriverPresenceChannel(t *testing.T) {
	router, repo, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/drivers/register", driverBody, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var authResp struct {
		Account models.Account `json:"account"`
		Token   string         `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &authResp))

	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/drivers"
	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL, bearer(authResp.Token))
	require.NoError(t, err)
	defer conn.Close()

	// First frame assigns the socket id.
	var assigned struct {
		Type     string `json:"type"`
		SocketID string `json:"socket_id"`
	}
	require.NoError(t, conn.ReadJSON(&assigned))
	assert.Equal(t, "socket_assigned", assigned.Type)
	require.NotEmpty(t, assigned.SocketID)

	acc, err := repo.GetByID(context.Background(), authResp.Account.ID)
	require.NoError(t, err)
	require.NotNil(t, acc.SocketID)
	assert.Equal(t, assigned.SocketID, *acc.SocketID)

	// Status update flows into the store.
	require.NoError(t, conn.WriteJSON(map[string]string{"type": "status", "status": "available"}))
	var ack struct {
		Type string `json:"type"`
		Ok   bool   `json:"ok"`
	}
	require.NoError(t, conn.ReadJSON(&ack))
	assert.True(t, ack.Ok)

	acc, err = repo.GetByID(context.Background(), authResp.Account.ID)
	require.NoError(t, err)
	require.NotNil(t, acc.Status)
	assert.Equal(t, models.StatusAvailable, *acc.Status)

	// Location update too.
	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":     "location",
		"location": map[string]float64{"lat": 43.23, "lng": 76.88},
	}))
	require.NoError(t, conn.ReadJSON(&ack))
	assert.True(t, ack.Ok)

	// A frame that is not JSON still gets a well-formed nack.
	require.NoError(t, conn.WriteMessage(gorillaws.TextMessage, []byte("not json")))
	require.NoError(t, conn.ReadJSON(&ack))
	assert.Equal(t, "ack", ack.Type)
	assert.False(t, ack.Ok)

	// Disconnect clears the socket id.
	conn.Close()
	assert.Eventually(t, func() bool {
		acc, err := repo.GetByID(context.Background(), authResp.Account.ID)
		return err == nil && acc.SocketID == nil
	}, 2*time.Second, 10*time.Millisecond)

	// The channel is gate-protected like any other route.
	_, resp, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
