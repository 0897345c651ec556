package domain

import (
	"context"
	"errors"
)

type PhotoTag string

const (
	TagAll        PhotoTag = "all"
	TagInterior   PhotoTag = "interior"
	TagExterior   PhotoTag = "exterior"
	TagCommercial PhotoTag = "commercial"
	TagDetail     PhotoTag = "detail"
)

// PhotoTags is the filter list shown by the gallery, "all" first.
var PhotoTags = []PhotoTag{TagAll, TagInterior, TagExterior, TagCommercial, TagDetail}

var (
	ErrPhotoExists   = errors.New("photo already in portfolio")
	ErrPhotoNotFound = errors.New("photo not found in portfolio")
	ErrUnknownTag    = errors.New("unknown photo tag")
)

// PhotoItem is one gallery image served from the site's public assets.
type PhotoItem struct {
	Src string   `json:"src" yaml:"src" validate:"required,startswith=/"`
	Alt string   `json:"alt" yaml:"alt" validate:"required"`
	W   int      `json:"w,omitempty" yaml:"w,omitempty" validate:"gte=0"`
	H   int      `json:"h,omitempty" yaml:"h,omitempty" validate:"gte=0"`
	Tag PhotoTag `json:"tag,omitempty" yaml:"tag,omitempty" validate:"omitempty,oneof=interior exterior commercial detail"`
}

type PortfolioRepository interface {
	List(ctx context.Context) ([]PhotoItem, error)
	Save(ctx context.Context, items []PhotoItem) error
}

type PortfolioUsecase interface {
	ListPhotos(ctx context.Context, tag string) ([]PhotoItem, error)
	AddPhoto(ctx context.Context, item PhotoItem) error
	RemovePhoto(ctx context.Context, src string) error
}
