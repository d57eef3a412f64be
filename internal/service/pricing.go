package service

import (
	"github.com/guttosm/cart-service/config"
	"github.com/guttosm/cart-service/internal/domain/model"
)

// FreeShippingLabel is shown instead of an amount when shipping is waived.
const FreeShippingLabel = "FREE"

// Pricer computes order summaries. It is pure and safe for concurrent use.
type Pricer struct {
	cfg config.CartConfig
}

// NewPricer creates a Pricer for the given cart rules.
func NewPricer(cfg config.CartConfig) *Pricer {
	return &Pricer{cfg: cfg}
}

// Compute returns the summary of cart. Amounts are not rounded; only the
// Formatted strings are. An empty cart has all amounts at zero.
func (p *Pricer) Compute(cart model.Cart) model.Summary {
	var s model.Summary
	for _, item := range cart.Items {
		s.Subtotal += item.LineTotal()
		s.ItemCount += item.Quantity
	}

	if !cart.IsEmpty() {
		if s.Subtotal > p.cfg.FreeShippingThreshold {
			s.FreeShipping = true
		} else {
			s.Shipping = p.cfg.FlatShipping
		}
	}
	s.Tax = s.Subtotal * p.cfg.TaxRate
	s.Total = s.Subtotal + s.Shipping + s.Tax

	s.Formatted = model.FormattedSummary{
		Subtotal: p.Format(s.Subtotal),
		Shipping: p.Format(s.Shipping),
		Tax:      p.Format(s.Tax),
		Total:    p.Format(s.Total),
	}
	if s.FreeShipping {
		s.Formatted.Shipping = FreeShippingLabel
	}
	return s
}

// Format renders v with the configured currency symbol.
func (p *Pricer) Format(v float64) string {
	return model.FormatMoney(p.cfg.CurrencySymbol, v)
}
