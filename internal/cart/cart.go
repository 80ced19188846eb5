package cart

import "github.com/google/uuid"

// Line is one product-quantity pair within a cart. Quantity is always
// positive; a zero-quantity mutation removes the line instead.
type Line struct {
	ProductID uuid.UUID `json:"product_id"`
	Qty       int       `json:"qty"`
}

// Snapshot is an ordered, immutable copy of cart lines. Insertion order is
// preserved for display only and carries no semantic meaning.
type Snapshot []Line

// Qty returns the quantity for the product, zero when absent.
func (s Snapshot) Qty(productID uuid.UUID) int {
	for _, line := range s {
		if line.ProductID == productID {
			return line.Qty
		}
	}
	return 0
}

// Empty reports whether the snapshot holds no lines.
func (s Snapshot) Empty() bool {
	return len(s) == 0
}

// Clone returns an independent copy.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	copy(out, s)
	return out
}
