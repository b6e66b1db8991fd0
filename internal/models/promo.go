package models

// Promo is a promotional banner: text plus a reference to stored media.
// The media bytes themselves are served statically, outside this backend.
type Promo struct {
	ID      int    `json:"id" db:"id"`
	Text    string `json:"text" db:"text"`
	Content string `json:"content" db:"content"`
}

// PromoRequest represents the request to add or edit a promo
type PromoRequest struct {
	Text    string `json:"text"`
	Content string `json:"content"`
}
