package ws_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/infrastructure/ws"
)

func receive(t *testing.T, ch <-chan ws.Frame) ws.Frame {
	t.Helper()
	select {
	case f := <-ch:
		return f
	case <-time.After(time.Second):
		t.Fatal("no llegó ningún frame")
		return ws.Frame{}
	}
}

func TestPublish_EntregaATodosLosSuscriptores(t *testing.T) {
	hub := ws.NewHub(4)
	ch1, unsub1 := hub.Subscribe()
	ch2, unsub2 := hub.Subscribe()
	defer unsub1()
	defer unsub2()

	assert.Equal(t, 2, hub.Count())

	hub.Publish("stock_updated", map[string]string{"product_id": "prod-1"})

	f1 := receive(t, ch1)
	f2 := receive(t, ch2)
	assert.Equal(t, "stock_updated", f1.Event)
	assert.Equal(t, "stock_updated", f2.Event)
	assert.False(t, f1.TS.IsZero())
}

// Un suscriptor con el buffer lleno pierde eventos sin bloquear al publicador
// ni afectar a los demás suscriptores.
func TestPublish_SuscriptorLentoDescartaSinBloquear(t *testing.T) {
	hub := ws.NewHub(2)
	slow, unsubSlow := hub.Subscribe()
	defer unsubSlow()

	// Nadie lee: los dos primeros llenan el buffer, el resto se descarta
	for i := 0; i < 5; i++ {
		hub.Publish("workorder_updated", i)
	}

	assert.Len(t, slow, 2)
	first := receive(t, slow)
	assert.Equal(t, 0, first.Payload)
}

func TestSubscribe_BajaCierraElCanalYEsIdempotente(t *testing.T) {
	hub := ws.NewHub(1)
	ch, unsub := hub.Subscribe()

	unsub()
	unsub() // segunda baja no debe entrar en pánico
	assert.Equal(t, 0, hub.Count())

	_, open := <-ch
	assert.False(t, open)

	// Publicar sin suscriptores es un no-op
	hub.Publish("shopfloor_update", nil)
}

func TestNewHub_BufferPorDefecto(t *testing.T) {
	hub := ws.NewHub(0)
	ch, unsub := hub.Subscribe()
	defer unsub()

	for i := 0; i < 32; i++ {
		hub.Publish("stock_updated", i)
	}
	require.Len(t, ch, 32)
}
