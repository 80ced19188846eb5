package enums

// OrderStatus is the lifecycle state of an order. Pending is transient during
// checkout; confirmed and failed are terminal.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusFailed    OrderStatus = "failed"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusFailed:
		return true
	}
	return false
}
