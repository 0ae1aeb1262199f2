package visibility

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tolet.dev/backend/internal/model"
)

func prop(id, owner string, approved bool) *model.Property {
	return &model.Property{
		PropertyID: id,
		OwnerID:    owner,
		Approved:   approved,
		Available:  true,
		Location:   "Dhaka, Gulshan",
		FamilyType: model.FamilySmall,
		Price:      5000,
		Rooms:      3,
	}
}

func ids(ps []*model.Property) []string {
	return lo.Map(ps, func(p *model.Property, _ int) string { return p.PropertyID })
}

var (
	admin   = Requester{Role: model.RoleAdmin, UserID: "A1"}
	ownerU1 = Requester{Role: model.RoleOwner, UserID: "U1"}
	renter  = Requester{Role: model.RoleRenter, UserID: "R1"}
)

func corpus() []*model.Property {
	return []*model.Property{
		prop("p1", "U1", false),
		prop("p2", "U2", true),
		prop("p3", "U2", false),
		{PropertyID: "p4", OwnerID: "U3", Approved: true, Available: false, Location: "Dhaka, Mirpur", FamilyType: model.FamilyBachelor, Price: 3500, Rooms: 2},
		{PropertyID: "p5", OwnerID: "U1", Approved: true, Location: "Chattogram, Panchlaish", FamilyType: model.FamilyBig, Price: 12000, Rooms: 4},
	}
}

func TestIsVisible(t *testing.T) {
	t.Run("AdminSeesEverything", func(t *testing.T) {
		for _, p := range corpus() {
			assert.True(t, IsVisible(p, admin), "expect admin to see %s", p.PropertyID)
		}
	})

	t.Run("UnapprovedHiddenFromStrangers", func(t *testing.T) {
		strangers := []Requester{
			Anonymous,
			renter,
			{Role: model.RoleOwner, UserID: "U9"},
			// a renter account is never treated as the owner, even with a matching id
			{Role: model.RoleRenter, UserID: "U2"},
		}
		for _, p := range corpus() {
			if p.Approved {
				continue
			}
			for _, r := range strangers {
				if r.Role == model.RoleOwner && r.UserID == p.OwnerID {
					continue
				}
				assert.False(t, IsVisible(p, r), "expect %s hidden from %+v", p.PropertyID, r)
			}
		}
	})

	t.Run("ApprovedVisibleToAnyone", func(t *testing.T) {
		for _, p := range corpus() {
			if !p.Approved {
				continue
			}
			for _, r := range []Requester{Anonymous, renter, ownerU1, admin} {
				assert.True(t, IsVisible(p, r), "expect %s visible to %+v", p.PropertyID, r)
			}
		}
	})

	t.Run("OwnerSeesOwnUnapproved", func(t *testing.T) {
		assert.True(t, IsVisible(prop("x", "U1", false), ownerU1))
	})

	t.Run("AvailabilityDoesNotGateVisibility", func(t *testing.T) {
		p := prop("x", "U2", true)
		p.Available = false
		assert.True(t, IsVisible(p, Anonymous))
	})

	t.Run("AdminRoleWithoutIdentityIsNotTrusted", func(t *testing.T) {
		assert.False(t, IsVisible(prop("x", "U2", false), Requester{Role: model.RoleAdmin}))
	})
}

func TestResolveEndToEnd(t *testing.T) {
	all := []*model.Property{
		prop("1", "U1", false),
		prop("2", "U2", true),
		prop("3", "U2", false),
	}

	tests := []struct {
		name string
		r    Requester
		want []string
	}{
		{"OwnerU1", ownerU1, []string{"1", "2"}},
		{"Admin", admin, []string{"1", "2", "3"}},
		{"Anonymous", Anonymous, []string{"2"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, ids(Resolve(all, test.r, Criteria{})))
		})
	}

	t.Run("DoesNotMutateInput", func(t *testing.T) {
		before := ids(all)
		_ = Resolve(all, Anonymous, Criteria{Rooms: lo.ToPtr(1)})
		assert.Equal(t, before, ids(all))
		assert.False(t, all[0].Approved)
	})
}

func TestLocationPolicy(t *testing.T) {
	gulshan := &model.Property{PropertyID: "g", Location: "Dhaka, Gulshan"}
	mirpur := &model.Property{PropertyID: "m", Location: "Dhaka, Mirpur"}
	all := []*model.Property{gulshan, mirpur}

	t.Run("DistrictPrefix", func(t *testing.T) {
		got := ApplyFilters(all, Criteria{Location: lo.ToPtr("Dhaka")})
		assert.Equal(t, []string{"g", "m"}, ids(got))
	})

	t.Run("FullPathExact", func(t *testing.T) {
		got := ApplyFilters(all, Criteria{Location: lo.ToPtr("Dhaka, Gulshan")})
		assert.Equal(t, []string{"g"}, ids(got))
	})

	t.Run("FullPathAlsoPrefixesFinerAreas", func(t *testing.T) {
		area := &model.Property{PropertyID: "a", Location: "Dhaka, Gulshan, Road 11"}
		assert.True(t, MatchLocation(area.Location, "Dhaka, Gulshan"))
	})

	t.Run("CaseSensitive", func(t *testing.T) {
		assert.Empty(t, ApplyFilters(all, Criteria{Location: lo.ToPtr("dhaka")}))
	})

	t.Run("UnmatchedYieldsEmpty", func(t *testing.T) {
		got := ApplyFilters(all, Criteria{Location: lo.ToPtr("Sylhet")})
		require.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("IsFullPath", func(t *testing.T) {
		assert.False(t, IsFullPath("Dhaka"))
		assert.True(t, IsFullPath("Dhaka, Gulshan"))
	})
}

func TestPriceAndRooms(t *testing.T) {
	p := &model.Property{PropertyID: "p", Price: 5000, Rooms: 3}
	all := []*model.Property{p}

	tests := []struct {
		name string
		c    Criteria
		keep bool
	}{
		{"WithinRange", Criteria{MinPrice: lo.ToPtr(4000.0), MaxPrice: lo.ToPtr(6000.0)}, true},
		{"InclusiveLower", Criteria{MinPrice: lo.ToPtr(5000.0)}, true},
		{"InclusiveUpper", Criteria{MaxPrice: lo.ToPtr(5000.0)}, true},
		{"AboveMin", Criteria{MinPrice: lo.ToPtr(5001.0)}, false},
		{"BelowMax", Criteria{MaxPrice: lo.ToPtr(4999.0)}, false},
		{"RoomsExact", Criteria{Rooms: lo.ToPtr(3)}, true},
		{"RoomsIsNotAMinimum", Criteria{Rooms: lo.ToPtr(2)}, false},
		{"FamilyTypeMismatch", Criteria{FamilyType: lo.ToPtr(model.FamilyBachelor)}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := ApplyFilters(all, test.c)
			if test.keep {
				assert.Len(t, got, 1)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestFilterAlgebra(t *testing.T) {
	all := corpus()
	criteria := []Criteria{
		{},
		{Location: lo.ToPtr("Dhaka")},
		{Location: lo.ToPtr("Dhaka"), FamilyType: lo.ToPtr(model.FamilySmall)},
		{MinPrice: lo.ToPtr(3000.0), MaxPrice: lo.ToPtr(6000.0)},
		{Rooms: lo.ToPtr(2)},
	}

	t.Run("Idempotent", func(t *testing.T) {
		for _, c := range criteria {
			once := ApplyFilters(all, c)
			assert.Equal(t, ids(once), ids(ApplyFilters(once, c)))
		}
	})

	t.Run("Monotone", func(t *testing.T) {
		base := Criteria{Location: lo.ToPtr("Dhaka")}
		narrowed := base
		narrowed.Rooms = lo.ToPtr(3)
		assert.LessOrEqual(t, len(ApplyFilters(all, narrowed)), len(ApplyFilters(all, base)))

		assert.LessOrEqual(t, len(ApplyFilters(all, base)), len(ApplyFilters(all, Criteria{})))
	})

	t.Run("StableOrder", func(t *testing.T) {
		got := ApplyFilters(all, Criteria{MinPrice: lo.ToPtr(1.0)})
		assert.Equal(t, ids(all), ids(got))
	})

	t.Run("FusedEqualsTwoStep", func(t *testing.T) {
		for _, r := range []Requester{Anonymous, renter, ownerU1, admin} {
			for _, c := range criteria {
				visible := lo.Filter(all, func(p *model.Property, _ int) bool { return IsVisible(p, r) })
				assert.Equal(t, ids(ApplyFilters(visible, c)), ids(Resolve(all, r, c)))
			}
		}
	})

	t.Run("EmptyCriteria", func(t *testing.T) {
		assert.True(t, Criteria{}.Empty())
		assert.False(t, Criteria{Rooms: lo.ToPtr(1)}.Empty())
	})
}
