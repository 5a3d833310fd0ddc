package travel

type PriceCategory string

const (
	CategoryBudget   PriceCategory = "budget"
	CategoryMidRange PriceCategory = "mid-range"
	CategoryLuxury   PriceCategory = "luxury"
)

// Price thresholds in rupees, shared with the catalog filters.
const (
	BudgetPriceLimit   = 125000
	MidRangePriceLimit = 250000
)

func (c PriceCategory) Valid() bool {
	switch c {
	case CategoryBudget, CategoryMidRange, CategoryLuxury:
		return true
	default:
		return false
	}
}

// PriceCategoryOf classifies a price. Total over all inputs; negative prices
// fall into budget, the catalog rejects them at load time.
func PriceCategoryOf(price float64) PriceCategory {
	switch {
	case price < BudgetPriceLimit:
		return CategoryBudget
	case price < MidRangePriceLimit:
		return CategoryMidRange
	default:
		return CategoryLuxury
	}
}
