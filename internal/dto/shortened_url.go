package dto

import (
	"time"

	"shorturl-go/internal/model"
)

// CreateShortenedURLForm is the HTML form posted to /urls.
type CreateShortenedURLForm struct {
	Original string `form:"url[original]"`
}

// CreateShortenedURLRequest is the JSON body of POST /api/urls. Blank and
// malformed values are rejected by the service with a field message.
type CreateShortenedURLRequest struct {
	Original string `json:"original"`
}

type ShortenedURLResponse struct {
	ID        uint      `json:"id"`
	Original  string    `json:"original"`
	Shortened string    `json:"shortened"`
	ShortURL  string    `json:"shortUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewShortenedURLResponse(u *model.ShortenedURL, shortURL string) ShortenedURLResponse {
	return ShortenedURLResponse{
		ID:        u.ID,
		Original:  u.Original,
		Shortened: u.Shortened,
		ShortURL:  shortURL,
		CreatedAt: u.CreatedAt,
	}
}
