package cart

// Line is one (item, quantity) pair in a user's cart. Price is the unit price
// in smallest currency units, snapshotted when the item is added.
type Line struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Image    string `json:"image,omitempty"`
	StoreID  string `json:"store_id"`
	Quantity int    `json:"quantity"`
}

// Cart is the assembled view of a user's cart. All lines belong to one store.
type Cart struct {
	StoreID   string  `json:"store_id,omitempty"`
	Lines     []*Line `json:"lines"`
	Total     int64   `json:"total"`
	ItemCount int     `json:"item_count"`
}

// compute fills Total and ItemCount from the lines.
func (c *Cart) compute() {
	c.Total = 0
	c.ItemCount = 0
	for _, l := range c.Lines {
		c.Total += l.Price * int64(l.Quantity)
		c.ItemCount += l.Quantity
	}
	if len(c.Lines) > 0 {
		c.StoreID = c.Lines[0].StoreID
	} else {
		c.StoreID = ""
	}
}

// AddItemRequest is the payload for adding an item to the cart.
// Force clears a cart holding another store's items before adding.
type AddItemRequest struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=0"`
	Force    bool   `json:"force"`
}

// SetQuantityRequest is the payload for changing a line's quantity.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}
