package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"shorturl-go/internal/model"
	"shorturl-go/internal/repository"
	"shorturl-go/pkg/utils"
)

var (
	ErrNotFound      = repository.ErrNotFound
	ErrOriginalTaken = repository.ErrOriginalTaken
	// ErrRetryExhausted means every attempt produced a code that was already taken.
	ErrRetryExhausted = errors.New("no free short code after retries")
)

// TakenError reports that the normalized original already has a short code.
// It matches ErrOriginalTaken under errors.Is.
type TakenError struct {
	Original string
}

func (e *TakenError) Error() string {
	return fmt.Sprintf("Url %s has already been shortened.", e.Original)
}

func (e *TakenError) Is(target error) bool {
	return target == ErrOriginalTaken
}

// ShortenedURLStore is the persistence the service needs.
type ShortenedURLStore interface {
	Create(ctx context.Context, u *model.ShortenedURL) error
	FindAll(ctx context.Context) ([]model.ShortenedURL, error)
	FindByID(ctx context.Context, id uint) (*model.ShortenedURL, error)
	FindByShortened(ctx context.Context, code string) (*model.ShortenedURL, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

// CodeGenerator yields candidate short codes.
type CodeGenerator interface {
	Generate() string
}

// Options tunes the code allocation retry.
type Options struct {
	// MaxAttempts bounds how many codes Create tries before ErrRetryExhausted.
	MaxAttempts int
	// RetryInterval is the first pause after a collision; later pauses grow exponentially.
	RetryInterval time.Duration
}

// ShortenerService creates, resolves and deletes shortened URLs.
type ShortenerService struct {
	store   ShortenedURLStore
	gen     CodeGenerator
	opts    Options
	metrics *Metrics
	logger  *zap.Logger
}

func NewShortenerService(store ShortenedURLStore, gen CodeGenerator, opts Options, metrics *Metrics, logger *zap.Logger) *ShortenerService {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShortenerService{
		store:   store,
		gen:     gen,
		opts:    opts,
		metrics: metrics,
		logger:  logger,
	}
}

// Create validates, normalizes, picks a code and persists. A collision on the
// code is retried with a fresh one; a collision on the original is not.
func (s *ShortenerService) Create(ctx context.Context, original string) (*model.ShortenedURL, error) {
	if err := utils.ValidateOriginalURL(original); err != nil {
		return nil, err
	}

	normalized, err := NormalizeURL(original)
	if err != nil {
		return nil, &utils.ValidationError{Field: "original", MessageID: utils.MsgInvalidURL, Message: "is not a valid HTTP or HTTPS URL"}
	}
	if err := utils.ValidateOriginalLength(normalized); err != nil {
		return nil, err
	}

	var (
		created  *model.ShortenedURL
		attempts int
	)
	persist := func() error {
		attempts++
		u := &model.ShortenedURL{Original: normalized, Shortened: s.generateCode()}

		err := s.store.Create(ctx, u)
		switch {
		case err == nil:
			created = u
			return nil
		case errors.Is(err, repository.ErrShortenedTaken):
			s.metrics.Collisions.Inc()
			s.logger.Debug("Short code collision",
				zap.String("shortened", u.Shortened),
				zap.Int("attempt", attempts),
			)
			return err
		case errors.Is(err, repository.ErrOriginalTaken):
			return backoff.Permanent(&TakenError{Original: normalized})
		default:
			return backoff.Permanent(err)
		}
	}

	if err := backoff.Retry(persist, s.retryPolicy(ctx)); err != nil {
		if errors.Is(err, repository.ErrShortenedTaken) {
			s.metrics.RetryExhausted.Inc()
			s.logger.Warn("Short code retries exhausted",
				zap.String("original", normalized),
				zap.Int("attempts", attempts),
			)
			return nil, fmt.Errorf("%w (%d attempts)", ErrRetryExhausted, attempts)
		}
		return nil, err
	}

	s.metrics.Created.Inc()
	s.logger.Info("URL shortened",
		zap.Uint("id", created.ID),
		zap.String("shortened", created.Shortened),
	)
	return created, nil
}

func (s *ShortenerService) retryPolicy(ctx context.Context) backoff.BackOffContext {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = s.opts.RetryInterval
	exp.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(s.opts.MaxAttempts-1)), ctx)
}

func (s *ShortenerService) generateCode() string {
	return s.gen.Generate()
}

// Lookup resolves a short code. Codes that cannot have been generated are
// reported as not found without touching the store.
func (s *ShortenerService) Lookup(ctx context.Context, code string) (*model.ShortenedURL, error) {
	if err := utils.ValidateShortCode(code); err != nil {
		return nil, ErrNotFound
	}
	return s.store.FindByShortened(ctx, code)
}

func (s *ShortenerService) Get(ctx context.Context, id uint) (*model.ShortenedURL, error) {
	return s.store.FindByID(ctx, id)
}

func (s *ShortenerService) List(ctx context.Context) ([]model.ShortenedURL, error) {
	return s.store.FindAll(ctx)
}

// Delete removes the record if present. Deleting an unknown id is not an error.
func (s *ShortenerService) Delete(ctx context.Context, id uint) error {
	removed, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if removed {
		s.logger.Info("Shortened URL deleted", zap.Uint("id", id))
	}
	return nil
}
