// Package visibility decides which properties a requester may see and narrows
// them down by the attribute filters of a listing search.
//
// Everything in here is pure: no I/O, no shared state. Callers hand in a
// snapshot of properties together with the requester and the criteria.
package visibility

import (
	"strings"

	"tolet.dev/backend/internal/model"
)

// Requester is the identity a listing is resolved for. UserID is empty for
// anonymous visitors.
type Requester struct {
	Role   model.Role
	UserID string
}

// Anonymous is the requester used when no valid session is present.
var Anonymous = Requester{Role: model.RoleAnonymous}

func (r Requester) Authenticated() bool {
	return r.UserID != "" && r.Role != model.RoleAnonymous
}

func (r Requester) IsAdmin() bool {
	return r.Role == model.RoleAdmin && r.Authenticated()
}

// Owns reports whether r is the authenticated owner of p.
func (r Requester) Owns(p *model.Property) bool {
	return r.Authenticated() && p.OwnerID == r.UserID
}

// Criteria holds the optional attribute filters of a listing search. A nil
// field imposes no constraint.
type Criteria struct {
	Location   *string
	FamilyType *model.FamilyType
	MinPrice   *float64
	MaxPrice   *float64
	Rooms      *int
}

// Empty reports whether no criterion is set.
func (c Criteria) Empty() bool {
	return c.Location == nil && c.FamilyType == nil && c.MinPrice == nil && c.MaxPrice == nil && c.Rooms == nil
}

// IsVisible reports whether p appears in r's result set. Availability never
// affects visibility.
func IsVisible(p *model.Property, r Requester) bool {
	switch {
	case r.IsAdmin():
		return true
	case r.Role == model.RoleOwner && r.Owns(p):
		return true
	default:
		return p.Approved
	}
}

// Matches reports whether p satisfies every criterion set in c.
func (c Criteria) Matches(p *model.Property) bool {
	if c.Location != nil && !MatchLocation(p.Location, *c.Location) {
		return false
	}
	if c.FamilyType != nil && p.FamilyType != *c.FamilyType {
		return false
	}
	if c.MinPrice != nil && p.Price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && p.Price > *c.MaxPrice {
		return false
	}
	// rooms is an exact match, not a lower bound
	if c.Rooms != nil && p.Rooms != *c.Rooms {
		return false
	}
	return true
}

// ApplyFilters keeps the properties matching c, preserving input order.
func ApplyFilters(properties []*model.Property, c Criteria) []*model.Property {
	out := make([]*model.Property, 0, len(properties))
	for _, p := range properties {
		if c.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// Resolve returns the properties visible to r that also match c, in input
// order. The input slice and its elements are left untouched.
func Resolve(all []*model.Property, r Requester, c Criteria) []*model.Property {
	out := make([]*model.Property, 0, len(all))
	for _, p := range all {
		if IsVisible(p, r) && c.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// MatchLocation implements the "district-level prefix match, full-path exact
// alternative" policy. A needle without a comma is a district-level search and
// matches every location starting with it. A needle with a comma names a full
// path, which also matches on exact equality.
func MatchLocation(location, needle string) bool {
	if IsFullPath(needle) && location == needle {
		return true
	}
	return matchDistrictPrefix(location, needle)
}

// IsFullPath reports whether needle names a "District, Upazila[, Area]" path
// rather than a bare district.
func IsFullPath(needle string) bool {
	return strings.Contains(needle, ",")
}

func matchDistrictPrefix(location, needle string) bool {
	return location == needle || strings.HasPrefix(location, needle)
}
