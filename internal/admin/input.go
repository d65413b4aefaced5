package admin

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// PriceField accepts a price sent either as a JSON number or as a numeric
// string, the way the inventory form submits it.
type PriceField string

func (p *PriceField) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*p = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = PriceField(s)
		return nil
	}
	*p = PriceField(raw)
	return nil
}

func (p PriceField) Decimal() (decimal.Decimal, error) {
	s := strings.TrimSpace(string(p))
	if s == "" {
		return decimal.Zero, invalid("price", "is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, invalid("price", "must be a number")
	}
	if d.IsNegative() {
		return decimal.Zero, invalid("price", "must not be negative")
	}
	return d, nil
}

type ProductInput struct {
	Name     string     `json:"name"`
	Category string     `json:"category"`
	Price    PriceField `json:"price"`
	ImageURL string     `json:"imageUrl"`
}

// ProductPatchInput carries only the fields being edited.
type ProductPatchInput struct {
	Name     *string     `json:"name"`
	Category *string     `json:"category"`
	Price    *PriceField `json:"price"`
	ImageURL *string     `json:"imageUrl"`
}
