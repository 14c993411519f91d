package ws

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handler expone el hub por websocket.
type Handler struct {
	hub                 *Hub
	pollIntervalSeconds int
}

// NewHandler construye el handler. pollIntervalSeconds es la sugerencia de
// refresco completo que se comunica al cliente en el frame de bienvenida.
func NewHandler(hub *Hub, pollIntervalSeconds int) *Handler {
	if pollIntervalSeconds <= 0 {
		pollIntervalSeconds = 30
	}
	return &Handler{hub: hub, pollIntervalSeconds: pollIntervalSeconds}
}

// Upgrade rechaza peticiones que no sean de upgrade websocket.
func (h *Handler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Stream atiende una conexión: envía el frame de bienvenida con el intervalo
// de poll sugerido y después cada evento publicado mientras la conexión viva.
func (h *Handler) Stream() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		frames, unsubscribe := h.hub.Subscribe()
		defer unsubscribe()

		hello := Frame{
			Event: "hello",
			Payload: fiber.Map{
				"poll_interval_seconds": h.pollIntervalSeconds,
			},
			TS: time.Now(),
		}
		if err := conn.WriteJSON(hello); err != nil {
			return
		}

		// Lector: solo para detectar el cierre del cliente.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case frame, ok := <-frames:
				if !ok {
					return
				}
				if err := conn.WriteJSON(frame); err != nil {
					log.Debug().Err(err).Msg("escritura websocket fallida, cerrando conexión")
					return
				}
			case <-closed:
				return
			}
		}
	})
}
