package enums

// ProductSort selects the catalog result ordering. Every key tie-breaks on id
// so equal-key ordering is stable.
type ProductSort string

const (
	// ProductSortNewest is the default: most recently added first.
	ProductSortNewest    ProductSort = "newest"
	ProductSortPriceAsc  ProductSort = "price_asc"
	ProductSortPriceDesc ProductSort = "price_desc"
	ProductSortName      ProductSort = "name"
)

func (s ProductSort) Valid() bool {
	switch s {
	case ProductSortNewest, ProductSortPriceAsc, ProductSortPriceDesc, ProductSortName:
		return true
	}
	return false
}
