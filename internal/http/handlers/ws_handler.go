// README: Websocket ingest for streaming driver location updates.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"gocab/internal/modules/location"
	"gocab/internal/types"
)

type WSHandler struct {
	locations *location.Service
	upgrader  websocket.Upgrader
	log       *slog.Logger
}

func NewWSHandler(svc *location.Service, log *slog.Logger) *WSHandler {
	if log == nil {
		log = slog.Default()
	}
	return &WSHandler{
		locations: svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

type wsLocationMsg struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Status string  `json:"status"`
}

type wsAck struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// DriverLocation handles GET /ws/drivers/:id/location. Each text frame is a
// JSON position update; the driver is dropped from the live index when the
// connection closes.
func (h *WSHandler) DriverLocation(c *gin.Context) {
	driverID := types.ID(c.Param("id"))
	if driverID == "" {
		writeError(c, http.StatusBadRequest, "missing driver id")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "driver_id", driverID, "err", err)
		return
	}
	defer conn.Close()
	defer func() {
		// The request context is often already canceled at disconnect.
		if err := h.locations.RemoveDriver(context.Background(), driverID); err != nil {
			h.log.Warn("removing driver from index", "driver_id", driverID, "err", err)
		}
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Warn("websocket read failed", "driver_id", driverID, "err", err)
			}
			return
		}

		var msg wsLocationMsg
		if err := json.Unmarshal(payload, &msg); err != nil {
			h.writeAck(conn, wsAck{OK: false, Error: "invalid json"})
			continue
		}

		pos := types.Point{Lat: msg.Lat, Lng: msg.Lng}
		if err := h.locations.UpdateLocation(c.Request.Context(), driverID, pos, msg.Status); err != nil {
			// Unknown drivers get one rejection and the connection closes.
			if errors.Is(err, location.ErrDriverNotFound) {
				h.writeAck(conn, wsAck{OK: false, Error: "driver not found"})
				return
			}
			h.writeAck(conn, wsAck{OK: false, Error: err.Error()})
			continue
		}
		h.writeAck(conn, wsAck{OK: true})
	}
}

func (h *WSHandler) writeAck(conn *websocket.Conn, ack wsAck) {
	if err := conn.WriteJSON(ack); err != nil {
		h.log.Warn("websocket write failed", "err", err)
	}
}
