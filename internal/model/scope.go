package model

// Scope carries the authenticated caller's identity through the request.
type Scope struct {
	UserID      string
	DisplayName string
}
