package cart

// Direction selects how UpdateQuantity moves a quantity.
type Direction string

const (
	Increment Direction = "increment"
	Decrement Direction = "decrement"
)

// Entry is a product reference and a quantity in kilograms.
type Entry struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Cart holds at most one entry per product, each with quantity >= 1.
// Entries keep insertion order. The zero value is an empty cart.
type Cart struct {
	entries []Entry
}

func New() *Cart {
	return &Cart{}
}

// FromEntries rebuilds a cart, merging duplicate products and raising
// quantities below 1 to 1.
func FromEntries(entries []Entry) *Cart {
	c := New()
	for _, e := range entries {
		if e.ProductID == "" {
			continue
		}
		q := e.Quantity
		if q < 1 {
			q = 1
		}
		if i := c.index(e.ProductID); i >= 0 {
			c.entries[i].Quantity += q
			continue
		}
		c.entries = append(c.entries, Entry{ProductID: e.ProductID, Quantity: q})
	}
	return c
}

// AddItem inserts productID with quantity 1. Adding a product already in
// the cart does nothing.
func (c *Cart) AddItem(productID string) {
	if c.index(productID) >= 0 {
		return
	}
	c.entries = append(c.entries, Entry{ProductID: productID, Quantity: 1})
}

// UpdateQuantity moves the quantity of productID by one. Decrement stops at 1.
// Unknown products and directions are ignored.
func (c *Cart) UpdateQuantity(productID string, d Direction) {
	i := c.index(productID)
	if i < 0 {
		return
	}
	switch d {
	case Increment:
		c.entries[i].Quantity++
	case Decrement:
		if c.entries[i].Quantity > 1 {
			c.entries[i].Quantity--
		}
	}
}

// RemoveItem drops productID regardless of its quantity.
func (c *Cart) RemoveItem(productID string) {
	i := c.index(productID)
	if i < 0 {
		return
	}
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
}

func (c *Cart) Clear() {
	c.entries = nil
}

// TotalUnits sums all quantities; it backs the checkout badge.
func (c *Cart) TotalUnits() int {
	total := 0
	for _, e := range c.entries {
		total += e.Quantity
	}
	return total
}

func (c *Cart) Quantity(productID string) int {
	if i := c.index(productID); i >= 0 {
		return c.entries[i].Quantity
	}
	return 0
}

func (c *Cart) Len() int {
	return len(c.entries)
}

func (c *Cart) IsEmpty() bool {
	return len(c.entries) == 0
}

// Entries returns a copy of the cart contents.
func (c *Cart) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Cart) index(productID string) int {
	for i, e := range c.entries {
		if e.ProductID == productID {
			return i
		}
	}
	return -1
}
