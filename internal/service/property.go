package service

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"tolet.dev/backend/internal/app/appconfig"
	"tolet.dev/backend/internal/model"
	modelcache "tolet.dev/backend/internal/model/cache"
	"tolet.dev/backend/internal/model/types"
	"tolet.dev/backend/internal/pkg/apperr"
	"tolet.dev/backend/internal/pkg/ident"
	"tolet.dev/backend/internal/pkg/observability"
	"tolet.dev/backend/internal/pkg/visibility"
	"tolet.dev/backend/internal/repo"
	"tolet.dev/backend/internal/util/rekuest"
)

// PropertyStore is the persistence the property service needs.
type PropertyStore interface {
	GetProperties(ctx context.Context) ([]*model.Property, error)
	GetPropertyByID(ctx context.Context, propertyID string) (*model.Property, error)
	GetPropertiesByOwner(ctx context.Context, ownerID string) ([]*model.Property, error)
	GetPropertiesByIDs(ctx context.Context, ids []string) ([]*model.Property, error)
	CreateProperty(ctx context.Context, property *model.Property) error
	UpdateProperty(ctx context.Context, property *model.Property, columns ...string) error
	DeleteProperty(ctx context.Context, propertyID string) error
}

var _ PropertyStore = (*repo.Property)(nil)

type Property struct {
	PropertyRepo PropertyStore
	Events       *Events
	Config       *appconfig.Config
}

func NewProperty(propertyRepo *repo.Property, events *Events, conf *appconfig.Config) *Property {
	return &Property{
		PropertyRepo: propertyRepo,
		Events:       events,
		Config:       conf,
	}
}

// Cache: propertySnapshot, ListingSnapshotTTL
func (s *Property) snapshot(ctx context.Context) ([]*model.Property, error) {
	var properties []*model.Property
	err := modelcache.PropertySnapshot.MutexGetSet(&properties, func() ([]*model.Property, error) {
		properties, err := s.PropertyRepo.GetProperties(ctx)
		if err != nil {
			observability.ListingSnapshotRefresh.WithLabelValues("error").Inc()
			return nil, err
		}
		observability.ListingSnapshotRefresh.WithLabelValues("ok").Inc()
		return properties, nil
	}, s.Config.ListingSnapshotTTL)
	return properties, err
}

// ListVisible resolves the listing for r. A persistence failure yields an
// empty listing; it is logged and reported but never surfaced to the caller.
func (s *Property) ListVisible(ctx context.Context, r visibility.Requester, c visibility.Criteria) []*model.Property {
	start := time.Now()

	all, err := s.snapshot(ctx)
	if err != nil {
		log.Ctx(ctx).Error().
			Err(err).
			Str("evt.name", "property.list.snapshot.failed").
			Msg("failed to load property snapshot, answering with an empty listing")
		sentry.CaptureException(err)
		return []*model.Property{}
	}

	result := visibility.Resolve(all, r, c)

	role := string(r.Role)
	observability.ListingResolveDuration.WithLabelValues(role).Observe(time.Since(start).Seconds())
	filtered := "false"
	if !c.Empty() {
		filtered = "true"
	}
	observability.ListingResultSize.WithLabelValues(role, filtered).Observe(float64(len(result)))

	return result
}

// GetVisible returns a property only if r may see it. Invisible properties
// are reported as not found so their existence does not leak.
func (s *Property) GetVisible(ctx context.Context, r visibility.Requester, propertyID string) (*model.Property, error) {
	property, err := s.PropertyRepo.GetPropertyByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !visibility.IsVisible(property, r) {
		return nil, apperr.ErrNotFound
	}
	return property, nil
}

// VisibleByIDs returns the properties among ids that r may see, in the
// order of ids.
func (s *Property) VisibleByIDs(ctx context.Context, r visibility.Requester, ids []string) ([]*model.Property, error) {
	properties, err := s.PropertyRepo.GetPropertiesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*model.Property, len(properties))
	for _, p := range properties {
		byID[p.PropertyID] = p
	}
	ordered := make([]*model.Property, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return visibility.Resolve(ordered, r, visibility.Criteria{}), nil
}

func (s *Property) ListOwned(ctx context.Context, r visibility.Requester) ([]*model.Property, error) {
	return s.PropertyRepo.GetPropertiesByOwner(ctx, r.UserID)
}

// Create stores a new listing owned by r. Listings by admins skip review.
func (s *Property) Create(ctx context.Context, r visibility.Requester, req *types.CreatePropertyRequest) (*model.Property, error) {
	var property model.Property
	if err := copier.Copy(&property, req); err != nil {
		return nil, errors.Wrap(err, "service: copy create request")
	}
	property.PropertyID = ident.New()
	property.OwnerID = r.UserID
	property.FamilyType = model.FamilyType(req.FamilyType)
	property.Approved = r.IsAdmin()
	property.Available = true
	if property.Images == nil {
		property.Images = []string{}
	}

	if err := s.PropertyRepo.CreateProperty(ctx, &property); err != nil {
		return nil, err
	}

	s.Events.PropertyChanged(ctx, property.PropertyID, property.OwnerID, PropertyCreated)
	return &property, nil
}

// editable loads a property that r may modify: its owner or an admin.
func (s *Property) editable(ctx context.Context, r visibility.Requester, propertyID string) (*model.Property, error) {
	property, err := s.PropertyRepo.GetPropertyByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if r.IsAdmin() {
		return property, nil
	}
	if r.Role == model.RoleOwner && r.Owns(property) {
		return property, nil
	}
	if !visibility.IsVisible(property, r) {
		return nil, apperr.ErrNotFound
	}
	return nil, apperr.ErrForbidden.Msg("only the owner of this property can modify it")
}

// Update applies a partial update. An owner changing the content of an
// approved listing sends it back to review; admins edit in place.
func (s *Property) Update(ctx context.Context, r visibility.Requester, propertyID string, req *types.UpdatePropertyRequest) (*model.Property, error) {
	// present fields must still satisfy the listing rules whoever the caller is
	if err := rekuest.Validate.Struct(req); err != nil {
		return nil, apperr.ErrInvalidReq.Msg("invalid property update: %s", err)
	}

	property, err := s.editable(ctx, r, propertyID)
	if err != nil {
		return nil, err
	}

	columns := applyUpdate(property, req)
	if len(columns) == 0 {
		return property, nil
	}
	if !r.IsAdmin() && property.Approved {
		property.Approved = false
		columns = append(columns, "approved")
	}

	if err := s.PropertyRepo.UpdateProperty(ctx, property, columns...); err != nil {
		return nil, err
	}

	s.Events.PropertyChanged(ctx, property.PropertyID, property.OwnerID, PropertyUpdated)
	return property, nil
}

func applyUpdate(p *model.Property, req *types.UpdatePropertyRequest) []string {
	var columns []string
	if req.Title.Valid {
		p.Title = req.Title.String
		columns = append(columns, "title")
	}
	if req.Description.Valid {
		p.Description = req.Description.String
		columns = append(columns, "description")
	}
	if req.Location.Valid {
		p.Location = req.Location.String
		columns = append(columns, "location")
	}
	if req.FamilyType.Valid {
		p.FamilyType = model.FamilyType(req.FamilyType.String)
		columns = append(columns, "family_type")
	}
	if req.Price.Valid {
		p.Price = req.Price.Float64
		columns = append(columns, "price")
	}
	if req.Rooms.Valid {
		p.Rooms = int(req.Rooms.Int64)
		columns = append(columns, "rooms")
	}
	if req.Bathrooms.Valid {
		p.Bathrooms = int(req.Bathrooms.Int64)
		columns = append(columns, "bathrooms")
	}
	if req.Images != nil {
		p.Images = req.Images
		columns = append(columns, "images")
	}
	return columns
}

// SetAvailability toggles whether renters may send inquiries. It never
// changes visibility.
func (s *Property) SetAvailability(ctx context.Context, r visibility.Requester, propertyID string, available bool) (*model.Property, error) {
	property, err := s.editable(ctx, r, propertyID)
	if err != nil {
		return nil, err
	}
	if property.Available == available {
		return property, nil
	}

	property.Available = available
	if err := s.PropertyRepo.UpdateProperty(ctx, property, "available"); err != nil {
		return nil, err
	}

	s.Events.PropertyChanged(ctx, property.PropertyID, property.OwnerID, PropertyAvailability)
	return property, nil
}

func (s *Property) Delete(ctx context.Context, r visibility.Requester, propertyID string) error {
	property, err := s.editable(ctx, r, propertyID)
	if err != nil {
		return err
	}
	if err := s.PropertyRepo.DeleteProperty(ctx, property.PropertyID); err != nil {
		return err
	}

	s.Events.PropertyChanged(ctx, property.PropertyID, property.OwnerID, PropertyDeleted)
	return nil
}
