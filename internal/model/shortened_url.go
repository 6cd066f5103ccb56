package model

// ShortenedURL maps an original URL to its generated short code.
// Both columns carry named unique indexes; the repository relies on the
// names to tell which one a failed insert violated. Original is capped at
// 768 characters so the index fits MySQL's 3072-byte key limit under utf8mb4.
type ShortenedURL struct {
	BaseModel
	Original  string `gorm:"uniqueIndex:idx_urls_original;size:768;not null" json:"original"`
	Shortened string `gorm:"uniqueIndex:idx_urls_shortened;size:8;not null" json:"shortened"`
}

func (ShortenedURL) TableName() string {
	return "urls"
}
