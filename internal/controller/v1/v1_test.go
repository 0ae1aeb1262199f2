package v1

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"tolet.dev/backend/internal/app/appconfig"
	"tolet.dev/backend/internal/model"
	modelcache "tolet.dev/backend/internal/model/cache"
	"tolet.dev/backend/internal/pkg/apperr"
	"tolet.dev/backend/internal/pkg/ident"
	"tolet.dev/backend/internal/pkg/session"
	"tolet.dev/backend/internal/server/httpserver"
	"tolet.dev/backend/internal/server/svr"
	"tolet.dev/backend/internal/service"
)

type readOnlyStore struct {
	service.PropertyStore
	properties []*model.Property
}

func (s *readOnlyStore) GetProperties(ctx context.Context) ([]*model.Property, error) {
	return s.properties, nil
}

func (s *readOnlyStore) GetPropertyByID(ctx context.Context, propertyID string) (*model.Property, error) {
	p, ok := lo.Find(s.properties, func(p *model.Property) bool { return p.PropertyID == propertyID })
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return p, nil
}

type fixture struct {
	app      *fiber.App
	sessions *session.Manager
	pending  string
	approved string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	modelcache.Initialize()
	require.NoError(t, modelcache.PropertySnapshot.Delete())

	conf := &appconfig.Config{}
	conf.CORSAllowOrigins = "http://localhost:3000"
	conf.SessionCookieName = "tolet_session"
	conf.ListingSnapshotTTL = time.Minute

	f := &fixture{
		sessions: session.New([]byte("test-secret"), time.Hour),
		pending:  ident.New(),
		approved: ident.New(),
	}

	store := &readOnlyStore{properties: []*model.Property{
		{PropertyID: f.pending, OwnerID: "U1", Location: "Dhaka, Gulshan", FamilyType: model.FamilySmall, Price: 5000, Rooms: 3, Available: true, Images: []string{}},
		{PropertyID: f.approved, OwnerID: "U2", Approved: true, Location: "Dhaka, Mirpur", FamilyType: model.FamilyBachelor, Price: 3000, Rooms: 2, Available: true, Images: []string{}},
	}}

	f.app = httpserver.Create(conf, nil, f.sessions)
	v1, _, _ := svr.CreateEndpointGroups(f.app)

	RegisterProperty(v1, Property{
		PropertyService: &service.Property{PropertyRepo: store, Events: service.NewEvents(nil), Config: conf},
	})
	locations, err := service.NewLocation()
	require.NoError(t, err)
	RegisterLocation(v1, Location{LocationService: locations})

	return f
}

func (f *fixture) do(t *testing.T, req *http.Request, as *model.User) (int, string, http.Header) {
	t.Helper()
	if as != nil {
		token, _, err := f.sessions.Issue(as)
		require.NoError(t, err)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b), resp.Header
}

func TestGetProperties(t *testing.T) {
	f := newFixture(t)
	owner := &model.User{UserID: "U1", Role: model.RoleOwner}

	t.Run("AnonymousSeesApproved", func(t *testing.T) {
		status, body, header := f.do(t, httptest.NewRequest(fiber.MethodGet, "/api/v1/properties", nil), nil)
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, int64(1), gjson.Get(body, "#").Int())
		assert.Equal(t, f.approved, gjson.Get(body, "0.id").String())
		assert.Contains(t, header.Get(fiber.HeaderCacheControl), "no-store")
	})

	t.Run("OwnerSeesOwnPending", func(t *testing.T) {
		_, body, _ := f.do(t, httptest.NewRequest(fiber.MethodGet, "/api/v1/properties", nil), owner)
		assert.Equal(t, int64(2), gjson.Get(body, "#").Int())
	})

	t.Run("EncodedLocation", func(t *testing.T) {
		_, body, _ := f.do(t, httptest.NewRequest(fiber.MethodGet, "/api/v1/properties?location=Dhaka%2C%20Mirpur", nil), nil)
		assert.Equal(t, f.approved, gjson.Get(body, "0.id").String())
	})

	t.Run("NoMatchIsEmptyArray", func(t *testing.T) {
		status, body, _ := f.do(t, httptest.NewRequest(fiber.MethodGet, "/api/v1/properties?location=Sylhet", nil), nil)
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "[]", body)
	})

	t.Run("InvalidFilters", func(t *testing.T) {
		for _, q := range []string{"minPrice=abc", "rooms=two", "familyType=MANSION", "minPrice=10&maxPrice=5"} {
			status, body, _ := f.do(t, httptest.NewRequest(fiber.MethodGet, "/api/v1/properties?"+q, nil), nil)
			assert.Equal(t, fiber.StatusBadRequest, status, q)
			assert.Equal(t, apperr.CodeInvalidRequest, gjson.Get(body, "code").String(), q)
		}
	})
}

func TestGetPropertyByID(t *testing.T) {
	f := newFixture(t)

	status, _, _ := f.do(t, httptest.NewRequest(fiber.MethodGet, "/api/v1/properties/"+f.pending, nil), nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body, _ := f.do(t, httptest.NewRequest(fiber.MethodGet, "/api/v1/properties/"+f.pending, nil), &model.User{UserID: "A1", Role: model.RoleAdmin})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, f.pending, gjson.Get(body, "id").String())

	status, _, _ = f.do(t, httptest.NewRequest(fiber.MethodGet, "/api/v1/properties/not-an-id", nil), nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestWriteGuards(t *testing.T) {
	f := newFixture(t)

	status, _, _ := f.do(t, httptest.NewRequest(fiber.MethodPost, "/api/v1/properties", nil), nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _, _ = f.do(t, httptest.NewRequest(fiber.MethodPost, "/api/v1/properties", nil), &model.User{UserID: "R1", Role: model.RoleRenter})
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestLocations(t *testing.T) {
	f := newFixture(t)

	status, body, header := f.do(t, httptest.NewRequest(fiber.MethodGet, "/api/v1/locations/districts", nil), nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, int64(64), gjson.Get(body, "#").Int())
	assert.Contains(t, header.Get(fiber.HeaderCacheControl), "public")

	status, body, _ = f.do(t, httptest.NewRequest(fiber.MethodGet, "/api/v1/locations/districts/Cox's%20Bazar/upazilas", nil), nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "Teknaf")

	status, _, _ = f.do(t, httptest.NewRequest(fiber.MethodGet, "/api/v1/locations/districts/Gotham/upazilas", nil), nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}
