package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"fullscope-site-backend/internal/domain"
	"fullscope-site-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type portfolioUsecase struct {
	repo     domain.PortfolioRepository
	validate *validator.Validate
	mu       sync.Mutex
}

func NewPortfolioUsecase(repo domain.PortfolioRepository, validate *validator.Validate) domain.PortfolioUsecase {
	if validate == nil {
		validate = validation.New()
	}
	return &portfolioUsecase{repo: repo, validate: validate}
}

// ParseTag maps a filter value to a tag. Empty means all.
func ParseTag(raw string) (domain.PhotoTag, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return domain.TagAll, nil
	}
	for _, t := range domain.PhotoTags {
		if string(t) == raw {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownTag, raw)
}

// ListPhotos returns the catalog in stored order, filtered by tag
func (uc *portfolioUsecase) ListPhotos(ctx context.Context, tag string) ([]domain.PhotoItem, error) {
	t, err := ParseTag(tag)
	if err != nil {
		return nil, err
	}

	items, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if t == domain.TagAll {
		return items, nil
	}

	filtered := make([]domain.PhotoItem, 0, len(items))
	for _, it := range items {
		if it.Tag == t {
			filtered = append(filtered, it)
		}
	}
	return filtered, nil
}

func (uc *portfolioUsecase) AddPhoto(ctx context.Context, item domain.PhotoItem) error {
	item.Src = strings.TrimSpace(item.Src)
	item.Alt = strings.TrimSpace(item.Alt)
	if err := uc.validate.Struct(item); err != nil {
		return fmt.Errorf("invalid photo: %s", strings.Join(validation.FormatValidationErrors(err), "; "))
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	items, err := uc.repo.List(ctx)
	if err != nil {
		return err
	}
	for _, it := range items {
		if it.Src == item.Src {
			return fmt.Errorf("%w: %s", domain.ErrPhotoExists, item.Src)
		}
	}
	return uc.repo.Save(ctx, append(items, item))
}

func (uc *portfolioUsecase) RemovePhoto(ctx context.Context, src string) error {
	src = strings.TrimSpace(src)

	uc.mu.Lock()
	defer uc.mu.Unlock()

	items, err := uc.repo.List(ctx)
	if err != nil {
		return err
	}
	kept := make([]domain.PhotoItem, 0, len(items))
	for _, it := range items {
		if it.Src != src {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(items) {
		return fmt.Errorf("%w: %s", domain.ErrPhotoNotFound, src)
	}
	return uc.repo.Save(ctx, kept)
}
