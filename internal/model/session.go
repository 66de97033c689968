package model

// Session is the ephemeral authenticated identity established after a
// successful login. It is the sole authorization signal: a request either
// carries a valid Session (via the signed token cookie) or it is anonymous.
//
// The server stores nothing — the session travels with the client inside a
// signed JWT and vanishes when the cookie does. Username and FirstName are
// display caches so pages can greet the user without a database lookup.
type Session struct {
	UserID    int64  `json:"userId"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
}
