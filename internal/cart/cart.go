package cart

// Line is one cart entry. UnitPrice is the price cached when the line was
// added; it is a display hint only and is recomputed server-side at checkout.
type Line struct {
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	Unit      string  `json:"unit"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"qty"`
}

// Count sums the quantities of all lines.
func Count(lines []Line) int {
	total := 0
	for _, l := range lines {
		total += l.Quantity
	}
	return total
}

// Subtotal sums quantity * cached unit price over all lines. Derived on every
// read, never stored, so it cannot drift from the lines themselves.
func Subtotal(lines []Line) float64 {
	total := 0.0
	for _, l := range lines {
		total += float64(l.Quantity) * l.UnitPrice
	}
	return total
}
