package model

import "time"

// Order is a store purchase transaction.  Store orders are member-only and
// carry no seat-level discounts; their discount is a flat percentage band
// applied at generation time.
type Order struct {
	ID        uint64    // order.order_id
	UserID    uint64    // order.user_id
	Price     Money     // order.price
	Status    uint8     // order.status
	CreatedAt time.Time // order.created_at
}

// StoreItem is a purchasable concession item, loaded as reference data.
type StoreItem struct {
	ID    uint64 // store_item.store_item_id
	Price Money  // store_item.price
}
