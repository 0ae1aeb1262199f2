package service

import (
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"tolet.dev/backend/internal/app/appconfig"
	"tolet.dev/backend/internal/model"
	modelcache "tolet.dev/backend/internal/model/cache"
	"tolet.dev/backend/internal/model/types"
	"tolet.dev/backend/internal/pkg/apperr"
	"tolet.dev/backend/internal/pkg/visibility"
)

type memoryStore struct {
	properties []*model.Property
	failList   bool
	listCalls  int

	// when set, GetProperties reads its rows, signals listed and waits for
	// release before returning them
	listed  chan struct{}
	release chan struct{}
}

func (m *memoryStore) GetProperties(ctx context.Context) ([]*model.Property, error) {
	m.listCalls++
	if m.failList {
		return nil, errors.New("connection refused")
	}
	rows := append([]*model.Property(nil), m.properties...)
	if m.listed != nil {
		listed, release := m.listed, m.release
		m.listed, m.release = nil, nil
		close(listed)
		<-release
	}
	return rows, nil
}

func (m *memoryStore) GetPropertyByID(ctx context.Context, propertyID string) (*model.Property, error) {
	p, ok := lo.Find(m.properties, func(p *model.Property) bool { return p.PropertyID == propertyID })
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memoryStore) GetPropertiesByOwner(ctx context.Context, ownerID string) ([]*model.Property, error) {
	return lo.Filter(m.properties, func(p *model.Property, _ int) bool { return p.OwnerID == ownerID }), nil
}

func (m *memoryStore) GetPropertiesByIDs(ctx context.Context, ids []string) ([]*model.Property, error) {
	return lo.Filter(m.properties, func(p *model.Property, _ int) bool { return lo.Contains(ids, p.PropertyID) }), nil
}

func (m *memoryStore) CreateProperty(ctx context.Context, property *model.Property) error {
	m.properties = append(m.properties, property)
	return nil
}

func (m *memoryStore) UpdateProperty(ctx context.Context, property *model.Property, columns ...string) error {
	for i, p := range m.properties {
		if p.PropertyID == property.PropertyID {
			cp := *property
			m.properties[i] = &cp
			return nil
		}
	}
	return apperr.ErrNotFound
}

func (m *memoryStore) DeleteProperty(ctx context.Context, propertyID string) error {
	m.properties = lo.Reject(m.properties, func(p *model.Property, _ int) bool { return p.PropertyID == propertyID })
	return nil
}

var (
	testAdmin  = visibility.Requester{Role: model.RoleAdmin, UserID: "A1"}
	testOwner  = visibility.Requester{Role: model.RoleOwner, UserID: "U1"}
	testOther  = visibility.Requester{Role: model.RoleOwner, UserID: "U2"}
	testRenter = visibility.Requester{Role: model.RoleRenter, UserID: "R1"}
)

func newPropertyService(t *testing.T, store *memoryStore) *Property {
	t.Helper()
	modelcache.Initialize()
	require.NoError(t, modelcache.PropertySnapshot.Delete())

	conf := &appconfig.Config{}
	conf.ListingSnapshotTTL = time.Minute
	return &Property{
		PropertyRepo: store,
		Events:       NewEvents(nil),
		Config:       conf,
	}
}

func seed() *memoryStore {
	return &memoryStore{properties: []*model.Property{
		{PropertyID: "p1", OwnerID: "U1", Approved: false, Available: true, Location: "Dhaka, Gulshan", Price: 5000, Rooms: 3},
		{PropertyID: "p2", OwnerID: "U2", Approved: true, Available: true, Location: "Dhaka, Mirpur", Price: 3000, Rooms: 2},
		{PropertyID: "p3", OwnerID: "U2", Approved: false, Available: true, Location: "Sylhet, Sylhet Sadar", Price: 4000, Rooms: 2},
	}}
}

func propertyIDs(ps []*model.Property) []string {
	return lo.Map(ps, func(p *model.Property, _ int) string { return p.PropertyID })
}

func TestPropertyListVisible(t *testing.T) {
	ctx := context.Background()

	t.Run("PerRole", func(t *testing.T) {
		s := newPropertyService(t, seed())
		assert.Equal(t, []string{"p2"}, propertyIDs(s.ListVisible(ctx, visibility.Anonymous, visibility.Criteria{})))
		assert.Equal(t, []string{"p1", "p2"}, propertyIDs(s.ListVisible(ctx, testOwner, visibility.Criteria{})))
		assert.Equal(t, []string{"p1", "p2", "p3"}, propertyIDs(s.ListVisible(ctx, testAdmin, visibility.Criteria{})))
	})

	t.Run("FiltersApplyAfterVisibility", func(t *testing.T) {
		s := newPropertyService(t, seed())
		got := s.ListVisible(ctx, testRenter, visibility.Criteria{Rooms: lo.ToPtr(2)})
		assert.Equal(t, []string{"p2"}, propertyIDs(got))
	})

	t.Run("SnapshotIsReused", func(t *testing.T) {
		store := seed()
		s := newPropertyService(t, store)
		s.ListVisible(ctx, visibility.Anonymous, visibility.Criteria{})
		s.ListVisible(ctx, testAdmin, visibility.Criteria{})
		assert.Equal(t, 1, store.listCalls)
	})

	t.Run("RefreshRacingAWriteIsNotCached", func(t *testing.T) {
		store := seed()
		store.listed = make(chan struct{})
		store.release = make(chan struct{})
		listed, release := store.listed, store.release
		s := newPropertyService(t, store)

		done := make(chan []*model.Property)
		go func() {
			done <- s.ListVisible(ctx, visibility.Anonymous, visibility.Criteria{})
		}()

		<-listed
		created, err := s.Create(ctx, testAdmin, &types.CreatePropertyRequest{
			Title:      "Fresh listing",
			Location:   "Dhaka, Banani",
			FamilyType: string(model.FamilySmall),
			Price:      9000,
			Rooms:      2,
		})
		require.NoError(t, err)
		close(release)
		assert.Equal(t, []string{"p2"}, propertyIDs(<-done))

		got := s.ListVisible(ctx, visibility.Anonymous, visibility.Criteria{})
		assert.Equal(t, []string{"p2", created.PropertyID}, propertyIDs(got), "expect the listing computed before the write to be dropped")
		assert.Equal(t, 2, store.listCalls)
	})

	t.Run("PersistenceFailureYieldsEmpty", func(t *testing.T) {
		store := seed()
		store.failList = true
		s := newPropertyService(t, store)
		got := s.ListVisible(ctx, testAdmin, visibility.Criteria{})
		require.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestPropertyGetVisible(t *testing.T) {
	ctx := context.Background()
	s := newPropertyService(t, seed())

	_, err := s.GetVisible(ctx, testRenter, "p1")
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "expect unapproved listing hidden as not found")

	p, err := s.GetVisible(ctx, testOwner, "p1")
	require.NoError(t, err)
	assert.Equal(t, "U1", p.OwnerID)

	_, err = s.GetVisible(ctx, testAdmin, "nope")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestPropertyCreate(t *testing.T) {
	ctx := context.Background()
	req := &types.CreatePropertyRequest{
		Title:      "Sunny flat",
		Location:   "Dhaka, Gulshan",
		FamilyType: string(model.FamilySmall),
		Price:      12000,
		Rooms:      3,
	}

	t.Run("OwnerListingNeedsReview", func(t *testing.T) {
		s := newPropertyService(t, &memoryStore{})
		p, err := s.Create(ctx, testOwner, req)
		require.NoError(t, err)
		assert.False(t, p.Approved)
		assert.True(t, p.Available)
		assert.Equal(t, "U1", p.OwnerID)
		assert.Len(t, p.PropertyID, 26)
		assert.NotNil(t, p.Images)
		assert.Empty(t, s.ListVisible(ctx, visibility.Anonymous, visibility.Criteria{}))
	})

	t.Run("AdminListingIsApproved", func(t *testing.T) {
		s := newPropertyService(t, &memoryStore{})
		p, err := s.Create(ctx, testAdmin, req)
		require.NoError(t, err)
		assert.True(t, p.Approved)
	})

	t.Run("WriteInvalidatesSnapshot", func(t *testing.T) {
		store := &memoryStore{}
		s := newPropertyService(t, store)
		assert.Empty(t, s.ListVisible(ctx, testAdmin, visibility.Criteria{}))
		_, err := s.Create(ctx, testAdmin, req)
		require.NoError(t, err)
		assert.Len(t, s.ListVisible(ctx, visibility.Anonymous, visibility.Criteria{}), 1)
	})
}

func TestPropertyUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("OwnerEditSendsBackToReview", func(t *testing.T) {
		store := seed()
		s := newPropertyService(t, store)
		p, err := s.Update(ctx, testOther, "p2", &types.UpdatePropertyRequest{Price: null.FloatFrom(3500)})
		require.NoError(t, err)
		assert.Equal(t, 3500.0, p.Price)
		assert.False(t, p.Approved)
	})

	t.Run("AdminEditKeepsApproval", func(t *testing.T) {
		s := newPropertyService(t, seed())
		p, err := s.Update(ctx, testAdmin, "p2", &types.UpdatePropertyRequest{Title: null.StringFrom("Renamed")})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", p.Title)
		assert.True(t, p.Approved)
	})

	t.Run("EmptyUpdateIsNoop", func(t *testing.T) {
		s := newPropertyService(t, seed())
		p, err := s.Update(ctx, testOther, "p2", &types.UpdatePropertyRequest{})
		require.NoError(t, err)
		assert.True(t, p.Approved)
	})

	t.Run("ExplicitZeroValuesAreRejected", func(t *testing.T) {
		store := seed()
		s := newPropertyService(t, store)

		var req types.UpdatePropertyRequest
		require.NoError(t, json.Unmarshal([]byte(`{"price":0,"rooms":0,"familyType":"","location":"","title":""}`), &req))

		_, err := s.Update(ctx, testAdmin, "p2", &req)
		assert.True(t, errors.Is(err, apperr.ErrInvalidReq), "expect explicit zero values to fail validation")

		stored, err := store.GetPropertyByID(ctx, "p2")
		require.NoError(t, err)
		assert.Equal(t, 3000.0, stored.Price)
		assert.Equal(t, 2, stored.Rooms)
		assert.Equal(t, "Dhaka, Mirpur", stored.Location)
	})

	t.Run("EachInvalidFieldIsRejected", func(t *testing.T) {
		bodies := []string{
			`{"price":0}`,
			`{"price":-10}`,
			`{"rooms":0}`,
			`{"familyType":""}`,
			`{"familyType":"COUPLE"}`,
			`{"location":""}`,
			`{"location":"Dhaka"}`,
			`{"title":""}`,
		}
		for _, body := range bodies {
			s := newPropertyService(t, seed())
			var req types.UpdatePropertyRequest
			require.NoError(t, json.Unmarshal([]byte(body), &req))
			_, err := s.Update(ctx, testAdmin, "p2", &req)
			assert.True(t, errors.Is(err, apperr.ErrInvalidReq), "expect %s to be rejected", body)
		}
	})

	t.Run("NullFieldsAreSkipped", func(t *testing.T) {
		s := newPropertyService(t, seed())
		var req types.UpdatePropertyRequest
		require.NoError(t, json.Unmarshal([]byte(`{"price":null,"rooms":4,"description":""}`), &req))
		p, err := s.Update(ctx, testAdmin, "p2", &req)
		require.NoError(t, err)
		assert.Equal(t, 3000.0, p.Price)
		assert.Equal(t, 4, p.Rooms)
	})

	t.Run("StrangerOnVisibleListingIsForbidden", func(t *testing.T) {
		s := newPropertyService(t, seed())
		_, err := s.Update(ctx, testOwner, "p2", &types.UpdatePropertyRequest{Title: null.StringFrom("Mine now")})
		assert.True(t, errors.Is(err, apperr.ErrForbidden))
	})

	t.Run("StrangerOnHiddenListingIsNotFound", func(t *testing.T) {
		s := newPropertyService(t, seed())
		_, err := s.Update(ctx, testOwner, "p3", &types.UpdatePropertyRequest{Title: null.StringFrom("Mine now")})
		assert.True(t, errors.Is(err, apperr.ErrNotFound))
	})
}

func TestPropertyAvailabilityAndDelete(t *testing.T) {
	ctx := context.Background()
	store := seed()
	s := newPropertyService(t, store)

	p, err := s.SetAvailability(ctx, testOther, "p2", false)
	require.NoError(t, err)
	assert.False(t, p.Available)
	assert.True(t, p.Approved, "expect availability to leave approval alone")
	assert.Equal(t, []string{"p2"}, propertyIDs(s.ListVisible(ctx, visibility.Anonymous, visibility.Criteria{})))

	_, err = s.SetAvailability(ctx, testRenter, "p2", true)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	require.NoError(t, s.Delete(ctx, testOther, "p2"))
	assert.Empty(t, s.ListVisible(ctx, visibility.Anonymous, visibility.Criteria{}))
}

func TestVisibleByIDsKeepsOrder(t *testing.T) {
	s := newPropertyService(t, seed())
	got, err := s.VisibleByIDs(context.Background(), testOwner, []string{"p2", "p3", "p1", "missing"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p1"}, propertyIDs(got))
}

func TestCheckMessagePermission(t *testing.T) {
	available := &model.Property{PropertyID: "p", OwnerID: "U1", Approved: true, Available: true}
	rented := &model.Property{PropertyID: "p", OwnerID: "U1", Approved: true, Available: false}

	assert.NoError(t, checkMessagePermission(available, testRenter, "U1"))
	assert.True(t, errors.Is(checkMessagePermission(rented, testRenter, "U1"), apperr.ErrConflict))
	assert.True(t, errors.Is(checkMessagePermission(available, testRenter, "U9"), apperr.ErrForbidden))
	// owners may reply regardless of availability
	assert.NoError(t, checkMessagePermission(rented, testOwner, "R1"))
	// other owners asking about a listing are not renters
	assert.NoError(t, checkMessagePermission(rented, testOther, "U1"))
}
