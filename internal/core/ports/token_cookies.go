package ports

import "net/http"

// TokenCookies keeps a browser client's access token between requests.
type TokenCookies interface {
	Token(r *http.Request) string
	Save(w http.ResponseWriter, r *http.Request, token string) error
	Clear(w http.ResponseWriter, r *http.Request) error
}
