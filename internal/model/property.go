package model

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/uptrace/bun"
)

type FamilyType string

const (
	FamilySmall    FamilyType = "SMALL_FAMILY"
	FamilyBig      FamilyType = "BIG_FAMILY"
	FamilyBachelor FamilyType = "BACHELOR"
)

var FamilyTypes = []FamilyType{FamilySmall, FamilyBig, FamilyBachelor}

func (f FamilyType) Valid() bool {
	switch f {
	case FamilySmall, FamilyBig, FamilyBachelor:
		return true
	}
	return false
}

type Property struct {
	bun.BaseModel `bun:"properties,alias:p"`

	PropertyID  string     `bun:",pk" json:"id"`
	OwnerID     string     `bun:",notnull" json:"ownerId"`
	Title       string     `bun:",notnull" json:"title"`
	Description string     `json:"description"`
	Location    string     `bun:",notnull" json:"location"`
	FamilyType  FamilyType `bun:",notnull" json:"familyType"`
	Price       float64    `bun:",notnull" json:"price"`
	Rooms       int        `bun:",notnull" json:"rooms"`
	Bathrooms   int        `json:"bathrooms"`
	Approved    bool       `bun:",notnull,default:false" json:"approved"`
	Available   bool       `bun:",notnull,default:true" json:"available"`
	// ImagesRaw is the stored JSON array of image URLs. Images is its decoded
	// form and is what leaves the repository layer.
	ImagesRaw string    `bun:"images" json:"-"`
	Images    []string  `bun:"-" json:"images"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"updatedAt"`

	Owner *User `bun:"rel:belongs-to,join:owner_id=user_id" json:"owner,omitempty"`
}

var _ bun.AfterScanRowHook = (*Property)(nil)

// AfterScanRow decodes the stored image list.
func (p *Property) AfterScanRow(ctx context.Context) error {
	return p.DecodeImages()
}

func (p *Property) DecodeImages() error {
	p.Images = []string{}
	if p.ImagesRaw == "" {
		return nil
	}
	return json.Unmarshal([]byte(p.ImagesRaw), &p.Images)
}

func (p *Property) EncodeImages() error {
	if p.Images == nil {
		p.Images = []string{}
	}
	b, err := json.Marshal(p.Images)
	if err != nil {
		return err
	}
	p.ImagesRaw = string(b)
	return nil
}
