package handle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"ride-hail-accounts/internal/account-service/adapters/driven/ws"
	websocketdto "ride-hail-accounts/internal/account-service/core/domain/websocket_dto"
	"ride-hail-accounts/internal/account-service/core/ports/driver"
	"ride-hail-accounts/internal/account-service/core/service"
	"ride-hail-accounts/internal/mylogger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WebSocketHandler runs the driver presence channel: each connected driver
// gets a socket id stored on its account and streams status/location updates
// through the connection.
type WebSocketHandler struct {
	wsManager *ws.WebSocketManager
	upgrader  websocket.Upgrader
	accounts  driver.IAccountService
	mylog     mylogger.Logger
}

func NewWebSocketHandler(wsManager *ws.WebSocketManager, accounts driver.IAccountService, mylog mylogger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager: wsManager,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		accounts: accounts,
		mylog:    mylog,
	}
}

// DriverChannel upgrades the request. The auth gate runs before this
// handler, so the context already carries a resolved driver account.
func (h *WebSocketHandler) DriverChannel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := h.mylog.Action("DriverChannel")

		acc, ok := AccountFromContext(r.Context())
		if !ok {
			JsonError(w, http.StatusUnauthorized, ErrUnauthorized)
			return
		}

		socketID := uuid.NewString()
		if err := h.accounts.SetDriverSocket(r.Context(), acc.ID, &socketID); err != nil {
			mylog.Error("Failed to assign socket id", err)
			JsonError(w, http.StatusInternalServerError, errors.New("internal server error"))
			return
		}

		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		h.wsManager.RegisterDriver(acc.ID, socketID, conn)
		mylog = mylog.With("driver_id", acc.ID, "socket_id", socketID)
		mylog.Info("Driver connected")

		defer func() {
			h.wsManager.UnregisterDriver(acc.ID, socketID)
			// The request context is gone once the connection drops.
			ctx, cancel := context.WithTimeout(context.Background(), WaitTime*time.Second)
			defer cancel()
			if err := h.accounts.SetDriverSocket(ctx, acc.ID, nil); err != nil {
				mylog.Warn("Failed to clear socket id")
			}
			mylog.Info("Driver disconnected")
		}()

		assigned, _ := json.Marshal(websocketdto.SocketAssigned{
			Type:     "socket_assigned",
			SocketID: socketID,
		})
		if err := h.wsManager.SendToDriver(acc.ID, assigned); err != nil {
			return
		}

		h.readLoop(r.Context(), acc.ID, conn, mylog)
	}
}

func (h *WebSocketHandler) readLoop(ctx context.Context, driverID string, conn *websocket.Conn, mylog mylogger.Logger) {
	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg websocketdto.DriverMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			h.ack(driverID, errors.New("failed to parse JSON"))
			continue
		}

		h.ack(driverID, h.apply(ctx, driverID, msg))
	}
}

func (h *WebSocketHandler) apply(ctx context.Context, driverID string, msg websocketdto.DriverMessage) error {
	switch msg.Type {
	case websocketdto.MessageTypeStatus:
		return h.accounts.SetDriverStatus(ctx, driverID, msg.Status)
	case websocketdto.MessageTypeLocation:
		if msg.Location == nil {
			return service.ValidationErrors{{Field: "location", Message: "Location is required"}}
		}
		return h.accounts.SetDriverLocation(ctx, driverID, *msg.Location)
	default:
		return errors.New("unknown message type")
	}
}

func (h *WebSocketHandler) ack(driverID string, err error) {
	ack := websocketdto.Ack{Type: "ack", Ok: err == nil}
	if err != nil {
		ack.Error = err.Error()
	}
	body, _ := json.Marshal(ack)
	_ = h.wsManager.SendToDriver(driverID, body)
}
