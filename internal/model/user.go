package model

// User is a read-only account record served by the /user routes.
// It carries no persistence tags so every backend maps rows into it explicitly.
type User struct {
	ID   uint32 `json:"id"`
	Name string `json:"name"`
}
