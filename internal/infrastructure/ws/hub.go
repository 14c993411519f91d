// Package ws implementa el canal de eventos en tiempo real sobre websockets.
// La entrega es at-most-once y best-effort: sin cola persistente, sin replay,
// sin reintentos. Un suscriptor lento pierde eventos (se descartan cuando su
// buffer se llena) y lo compensa con el poll de reconciliación que el frame
// de bienvenida le sugiere.
package ws

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/taller-api/internal/application/events"
)

var _ events.Broadcaster = (*Hub)(nil)

// Frame es el sobre que viaja por el websocket: nombre de evento, payload y
// timestamp de emisión.
type Frame struct {
	Event   string    `json:"event"`
	Payload any       `json:"payload,omitempty"`
	TS      time.Time `json:"ts"`
}

// Hub mantiene el conjunto de suscriptores vivos y les difunde eventos.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan Frame]struct{}
	buffer      int
}

// NewHub construye el hub. buffer es la capacidad del canal de cada
// suscriptor antes de empezar a descartar eventos.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 32
	}
	return &Hub{
		subscribers: make(map[chan Frame]struct{}),
		buffer:      buffer,
	}
}

// Subscribe registra un nuevo suscriptor y devuelve su canal de frames junto
// con la función de baja. El canal se cierra al darse de baja.
func (h *Hub) Subscribe() (<-chan Frame, func()) {
	ch := make(chan Frame, h.buffer)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, unsubscribe
}

// Publish difunde un evento a todos los suscriptores vivos. El envío es no
// bloqueante: si el buffer de un suscriptor está lleno el evento se descarta
// para ese suscriptor y se registra en el log.
func (h *Hub) Publish(event string, payload any) {
	frame := Frame{Event: event, Payload: payload, TS: time.Now()}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subscribers {
		select {
		case ch <- frame:
		default:
			log.Debug().Str("event", event).Msg("suscriptor lento, evento descartado")
		}
	}
}

// Count devuelve el número de suscriptores vivos.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
