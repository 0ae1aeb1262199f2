package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"tolet.dev/backend/internal/model"
	"tolet.dev/backend/internal/pkg/ident"
	"tolet.dev/backend/internal/pkg/observability"
	"tolet.dev/backend/internal/pkg/visibility"
	"tolet.dev/backend/internal/repo"
)

type Favorite struct {
	FavoriteRepo    *repo.Favorite
	PropertyService *Property
}

func NewFavorite(favoriteRepo *repo.Favorite, propertyService *Property) *Favorite {
	return &Favorite{
		FavoriteRepo:    favoriteRepo,
		PropertyService: propertyService,
	}
}

// List returns the favorited properties still visible to r, most recently
// favorited first.
func (s *Favorite) List(ctx context.Context, r visibility.Requester) ([]*model.Property, error) {
	ids, err := s.FavoriteRepo.GetFavoritePropertyIDs(ctx, r.UserID)
	if err != nil {
		return nil, err
	}
	return s.PropertyService.VisibleByIDs(ctx, r, ids)
}

// Add favorites a property visible to r. Adding twice is a no-op.
func (s *Favorite) Add(ctx context.Context, r visibility.Requester, propertyID string) error {
	if _, err := s.PropertyService.GetVisible(ctx, r, propertyID); err != nil {
		return err
	}

	err := s.FavoriteRepo.AddFavorite(ctx, &model.Favorite{
		FavoriteID: ident.New(),
		UserID:     r.UserID,
		PropertyID: propertyID,
	})
	if err != nil {
		return err
	}

	observability.DomainEvents.WithLabelValues("favorite.added").Inc()
	return nil
}

func (s *Favorite) Remove(ctx context.Context, r visibility.Requester, propertyID string) error {
	removed, err := s.FavoriteRepo.RemoveFavorite(ctx, r.UserID, propertyID)
	if err != nil {
		return err
	}
	if removed {
		log.Ctx(ctx).Debug().
			Str("evt.name", "favorite.removed").
			Str("property_id", propertyID).
			Msg("favorite removed")
	}
	return nil
}
