package cart

import "github.com/google/uuid"

// Merge combines two carts into one: quantities are summed for products
// present in both, lines present in only one carry over unchanged. The
// result preserves a's insertion order followed by b's additions.
//
// Merge is pure and total, and commutative in the resulting quantities.
// Merging a cart with itself (or with a cart holding the exact same
// quantities) is treated as re-merging the same state and returns it
// unchanged, so the operation is idempotent across repeated session
// transitions.
func Merge(a, b Snapshot) Snapshot {
	if sameQuantities(a, b) {
		return a.Clone()
	}

	merged := make(Snapshot, 0, len(a)+len(b))
	index := make(map[uuid.UUID]int, len(a)+len(b))

	for _, line := range a {
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}
	for _, line := range b {
		if pos, ok := index[line.ProductID]; ok {
			merged[pos].Qty += line.Qty
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}
	return merged
}

// sameQuantities compares the product-to-quantity mappings, ignoring line
// order.
func sameQuantities(a, b Snapshot) bool {
	if len(a) != len(b) {
		return false
	}
	for _, line := range a {
		if b.Qty(line.ProductID) != line.Qty {
			return false
		}
	}
	return true
}
