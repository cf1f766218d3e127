// Package state holds the client side state shared by the storefront
// screens: the shopping cart and the signed in user.
package state

import (
	"context"
	"encoding/gob"
	"math"
	"slices"
	"sync"

	"github.com/bluescreen10/reqx"
)

// CartKey is the storage key the cart is persisted under.
const CartKey = "CART"

func init() {
	gob.Register([]CartItem{})
}

// CartItem is a product line in the cart.
type CartItem struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	CartNum int     `json:"cart_num"`
	Checked bool    `json:"checked"`
}

// Cart is the shopping cart. It is safe for concurrent use.
type Cart struct {
	mu    sync.RWMutex
	items []CartItem
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// LoadCart returns the cart persisted in storage, or an empty cart when
// there is none.
func LoadCart(ctx context.Context, storage *reqx.Storage) (*Cart, error) {
	v, found, err := storage.Get(ctx, CartKey)
	if err != nil {
		return nil, err
	}

	c := NewCart()
	if items, ok := v.([]CartItem); found && ok {
		c.items = items
	}
	return c, nil
}

// Save persists the cart in storage without expiry.
func (c *Cart) Save(ctx context.Context, storage *reqx.Storage) error {
	return storage.Set(ctx, CartKey, c.Items(), 0)
}

// Items returns a copy of the cart lines.
func (c *Cart) Items() []CartItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// TotalPrice returns the price of the checked lines in cents.
func (c *Cart) TotalPrice() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var total int64
	for _, item := range c.items {
		if item.Checked {
			total += int64(math.Round(item.Price*100)) * int64(item.CartNum)
		}
	}
	return total
}

// AddToCart adds item to the cart. A line with the same ID gets its
// quantity increased instead. A non positive CartNum counts as one.
func (c *Cart) AddToCart(item CartItem) {
	if item.CartNum < 1 {
		item.CartNum = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == item.ID {
			c.items[i].CartNum += item.CartNum
			return
		}
	}
	c.items = append(c.items, item)
}

// Remove deletes the line with the given id. It reports whether a line
// was removed.
func (c *Cart) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := slices.IndexFunc(c.items, func(item CartItem) bool { return item.ID == id })
	if i < 0 {
		return false
	}
	c.items = slices.Delete(c.items, i, i+1)
	return true
}

// Toggle flips the checked flag of the line with the given id.
func (c *Cart) Toggle(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Checked = !c.items[i].Checked
			return true
		}
	}
	return false
}

// Reset empties the cart.
func (c *Cart) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}
