package cart

import (
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/shopspring/decimal"
)

// UnitPrice is the product price plus every selected option.
func UnitPrice(line models.CartLine) decimal.Decimal {
	price := line.Product.Price
	for _, opt := range line.SelectedOptions {
		price = price.Add(opt.Price)
	}

	return price
}

func Subtotal(line models.CartLine) decimal.Decimal {
	return UnitPrice(line).Mul(decimal.NewFromInt(int64(line.Quantity)))
}

func Total(lines []models.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(Subtotal(line))
	}

	return total
}

func Count(lines []models.CartLine) int {
	count := 0
	for _, line := range lines {
		count += line.Quantity
	}

	return count
}

// View renders lines with their derived prices.
func View(lines []models.CartLine) models.CartView {
	view := models.CartView{
		Lines: make([]models.CartLineView, 0, len(lines)),
		Total: Total(lines),
		Count: Count(lines),
	}

	for i, line := range lines {
		view.Lines = append(view.Lines, models.CartLineView{
			CartLine:  line,
			Index:     i,
			UnitPrice: UnitPrice(line),
			Subtotal:  Subtotal(line),
		})
	}

	return view
}
