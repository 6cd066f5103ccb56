package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"shorturl-go/internal/model"
)

var (
	ErrNotFound       = errors.New("shortened url not found")
	ErrOriginalTaken  = errors.New("original url already shortened")
	ErrShortenedTaken = errors.New("short code already exists")
)

// ShortenedURLRepository persists ShortenedURL records through gorm.
type ShortenedURLRepository struct {
	db *gorm.DB
}

func NewShortenedURLRepository(db *gorm.DB) *ShortenedURLRepository {
	return &ShortenedURLRepository{db: db}
}

// Create inserts u and fills its ID and timestamps. A clash on either unique
// column comes back as ErrOriginalTaken or ErrShortenedTaken.
func (r *ShortenedURLRepository) Create(ctx context.Context, u *model.ShortenedURL) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return translateCreateError(err)
	}
	return nil
}

// FindAll returns every record, newest first.
func (r *ShortenedURLRepository) FindAll(ctx context.Context) ([]model.ShortenedURL, error) {
	var urls []model.ShortenedURL
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&urls).Error; err != nil {
		return nil, err
	}
	return urls, nil
}

func (r *ShortenedURLRepository) FindByID(ctx context.Context, id uint) (*model.ShortenedURL, error) {
	var u model.ShortenedURL
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *ShortenedURLRepository) FindByShortened(ctx context.Context, code string) (*model.ShortenedURL, error) {
	var u model.ShortenedURL
	if err := r.db.WithContext(ctx).Where("shortened = ?", code).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Delete removes the record with id and reports whether one existed.
func (r *ShortenedURLRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.ShortenedURL{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ShortenedURLRepository) Ping(ctx context.Context) error {
	return Ping(ctx, r.db)
}
