package types

import (
	"net/url"
	"strconv"
	"strings"

	"gopkg.in/guregu/null.v3"

	"tolet.dev/backend/internal/model"
	"tolet.dev/backend/internal/pkg/apperr"
	"tolet.dev/backend/internal/pkg/visibility"
)

// PropertyListQuery is the raw query string of a listing search. Numbers are
// kept as strings so that malformed input is reported as a violation rather
// than silently dropped.
type PropertyListQuery struct {
	Location   string `query:"location" validate:"omitempty,max=160"`
	FamilyType string `query:"familyType" validate:"omitempty,familytype"`
	MinPrice   string `query:"minPrice" validate:"omitempty,numeric"`
	MaxPrice   string `query:"maxPrice" validate:"omitempty,numeric"`
	Rooms      string `query:"rooms" validate:"omitempty,number"`
}

// Criteria converts a validated query into resolver criteria. Empty values
// are treated as absent.
func (q PropertyListQuery) Criteria() (visibility.Criteria, error) {
	var c visibility.Criteria

	if loc := NormalizeLocation(q.Location); loc != "" {
		c.Location = &loc
	}

	if q.FamilyType != "" {
		ft := model.FamilyType(q.FamilyType)
		c.FamilyType = &ft
	}

	if q.MinPrice != "" {
		v, err := strconv.ParseFloat(q.MinPrice, 64)
		if err != nil || v < 0 {
			return c, apperr.ErrInvalidReq.Msg("invalid minPrice: expected a non-negative number")
		}
		c.MinPrice = &v
	}

	if q.MaxPrice != "" {
		v, err := strconv.ParseFloat(q.MaxPrice, 64)
		if err != nil || v < 0 {
			return c, apperr.ErrInvalidReq.Msg("invalid maxPrice: expected a non-negative number")
		}
		c.MaxPrice = &v
	}

	if c.MinPrice != nil && c.MaxPrice != nil && *c.MinPrice > *c.MaxPrice {
		return c, apperr.ErrInvalidReq.Msg("invalid price range: minPrice is greater than maxPrice")
	}

	if q.Rooms != "" {
		v, err := strconv.Atoi(q.Rooms)
		if err != nil || v <= 0 {
			return c, apperr.ErrInvalidReq.Msg("invalid rooms: expected a positive integer")
		}
		c.Rooms = &v
	}

	return c, nil
}

// NormalizeLocation trims the needle and decodes percent-escapes left over
// by clients that encode twice. The query parser has already decoded the
// value once, so a literal '+' is kept and only %XX sequences are decoded.
// Undecodable input is kept verbatim.
func NormalizeLocation(s string) string {
	s = strings.TrimSpace(s)
	if !hasPercentEscape(s) {
		return s
	}
	if decoded, err := url.PathUnescape(s); err == nil {
		s = strings.TrimSpace(decoded)
	}
	return s
}

func hasPercentEscape(s string) bool {
	for i := 0; i+2 < len(s); i++ {
		if s[i] == '%' && isHex(s[i+1]) && isHex(s[i+2]) {
			return true
		}
	}
	return false
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

type CreatePropertyRequest struct {
	Title       string   `json:"title" validate:"required,min=4,max=120"`
	Description string   `json:"description" validate:"max=4000"`
	Location    string   `json:"location" validate:"required,location"`
	FamilyType  string   `json:"familyType" validate:"required,familytype"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Rooms       int      `json:"rooms" validate:"required,gt=0"`
	Bathrooms   int      `json:"bathrooms" validate:"gte=0"`
	Images      []string `json:"images" validate:"max=12,dive,url"`
}

// UpdatePropertyRequest is a partial update; null fields are left untouched.
// Fields that are present are held to the same rules as on create.
type UpdatePropertyRequest struct {
	Title       null.String `json:"title" validate:"omitnil,min=4,max=120"`
	Description null.String `json:"description" validate:"omitnil,max=4000"`
	Location    null.String `json:"location" validate:"omitnil,location"`
	FamilyType  null.String `json:"familyType" validate:"omitnil,familytype"`
	Price       null.Float  `json:"price" validate:"omitnil,gt=0"`
	Rooms       null.Int    `json:"rooms" validate:"omitnil,gt=0"`
	Bathrooms   null.Int    `json:"bathrooms" validate:"omitnil,gte=0"`
	Images      []string    `json:"images" validate:"omitnil,max=12,dive,url"`
}

type AvailabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}
