package model

import "encoding/gob"

// AdminUserID is the id of the single configured admin identity.
const AdminUserID = 1

// User is the identity held by an authenticated session. It is never persisted.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

func init() {
	// session values are gob encoded
	gob.Register(User{})
}
