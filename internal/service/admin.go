package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"tolet.dev/backend/internal/model"
	modelcache "tolet.dev/backend/internal/model/cache"
	"tolet.dev/backend/internal/model/types"
	"tolet.dev/backend/internal/pkg/apperr"
	"tolet.dev/backend/internal/repo"
)

type Admin struct {
	PropertyRepo *repo.Property
	Events       *Events
}

func NewAdmin(propertyRepo *repo.Property, events *Events) *Admin {
	return &Admin{
		PropertyRepo: propertyRepo,
		Events:       events,
	}
}

func (s *Admin) PendingProperties(ctx context.Context) ([]*model.Property, error) {
	return s.PropertyRepo.GetPendingProperties(ctx)
}

func (s *Admin) Approve(ctx context.Context, propertyID string) (*model.Property, error) {
	property, err := s.PropertyRepo.GetPropertyByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property.Approved {
		return property, nil
	}

	property.Approved = true
	if err := s.PropertyRepo.UpdateProperty(ctx, property, "approved"); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Str("evt.name", "admin.property.approved").
		Str("property_id", propertyID).
		Msg("property approved")
	s.Events.PropertyChanged(ctx, property.PropertyID, property.OwnerID, PropertyApproved)
	return property, nil
}

// Reject removes a pending listing. Approved listings must be deleted
// through the regular property endpoint instead.
func (s *Admin) Reject(ctx context.Context, propertyID string) error {
	property, err := s.PropertyRepo.GetPropertyByID(ctx, propertyID)
	if err != nil {
		return err
	}
	if property.Approved {
		return apperr.ErrConflict.Msg("property is already approved")
	}

	if err := s.PropertyRepo.DeleteProperty(ctx, propertyID); err != nil {
		return err
	}

	log.Ctx(ctx).Info().
		Str("evt.name", "admin.property.rejected").
		Str("property_id", propertyID).
		Msg("property rejected")
	s.Events.PropertyChanged(ctx, property.PropertyID, property.OwnerID, PropertyRejected)
	return nil
}

func (s *Admin) PurgeCache(ctx context.Context, pairs []types.PurgeCachePair) error {
	for _, pair := range pairs {
		if err := modelcache.Delete(pair.Name, pair.Key); err != nil {
			return err
		}
		log.Ctx(ctx).Info().
			Str("evt.name", "admin.cache.purged").
			Str("name", pair.Name).
			Str("key", pair.Key.String).
			Msg("cache purged")
	}
	return nil
}
