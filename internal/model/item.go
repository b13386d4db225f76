package model

import "time"

// Item represents a catalog entry identified by brand and item numbers.
type Item struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	BrandNumber int64  `json:"brand_number"`
	ItemNumber  int64  `json:"item_number"`
	ImageMime   string `json:"image_mime,omitempty"`
}

// Data represents a dated quantity/promotion record belonging to one item.
type Data struct {
	ID        int64     `json:"id"`
	Date      time.Time `json:"date"`
	Quantity  int       `json:"quantity"`
	Promotion bool      `json:"promotion"`
	ItemID    int64     `json:"item_id"`
}

// ItemDetail is an item together with its data records in insertion order.
type ItemDetail struct {
	Item
	Data []Data `json:"data"`
}
