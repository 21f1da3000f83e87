package models

// Principal is the authenticated caller extracted from the request token.
type Principal struct {
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
}
