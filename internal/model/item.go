package model

// Item is a read-only catalog record served by the /item routes.
type Item struct {
	ID   uint32 `json:"id"`
	Name string `json:"name"`
}
