package events

// Catálogo de eventos de dominio publicados al canal en tiempo real.
// La entrega es at-most-once a las conexiones vivas al momento de publicar:
// sin cola, sin replay, sin orden entre eventos distintos. Los clientes
// complementan con el poll de reconciliación (refetch completo periódico).
const (
	ManufacturingOrderCreated = "manufacturing_order_created"
	ManufacturingOrderUpdated = "manufacturing_order_updated"
	WorkOrderUpdated          = "workorder_updated"
	ShopFloorUpdate           = "shopfloor_update"
	StockUpdated              = "stock_updated"
	BOMCreated                = "bom_created"
	BOMUpdated                = "bom_updated"
	BOMDeleted                = "bom_deleted"
	ProductCreated            = "product_created"
	ProductUpdated            = "product_updated"
	ProductDeleted            = "product_deleted"
	WorkCenterCreated         = "work_center_created"
)

// Broadcaster es el puerto de publicación de eventos. Publish es
// fire-and-forget: no retorna error porque un fallo de difusión jamás debe
// fallar ni revertir la operación que lo origina (la implementación lo
// registra en el log y lo descarta).
type Broadcaster interface {
	Publish(event string, payload any)
}

// Nop es un Broadcaster que descarta todo. Útil para tests y para arrancar
// componentes sin canal de eventos.
type Nop struct{}

// Publish descarta el evento.
func (Nop) Publish(string, any) {}
