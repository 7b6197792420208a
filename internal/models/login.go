package models

// Credentials come from the admin login form. Values are left untyped so a
// non-string username simply fails to match instead of failing to decode.
type Credentials struct {
	Username any `json:"username"`
	Password any `json:"password"`
}
