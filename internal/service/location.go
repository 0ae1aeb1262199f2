package service

import (
	_ "embed"
	"sort"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"tolet.dev/backend/internal/model"
	"tolet.dev/backend/internal/pkg/apperr"
)

//go:embed data/locations.json
var locationsJSON []byte

// Location serves the district and upazila names clients build their
// "District, Upazila" location strings from.
type Location struct {
	districts []model.District
	byName    map[string]*model.District
}

func NewLocation() (*Location, error) {
	var districts []model.District
	if err := json.Unmarshal(locationsJSON, &districts); err != nil {
		return nil, errors.Wrap(err, "failed to decode embedded locations")
	}

	sort.Slice(districts, func(i, j int) bool {
		return districts[i].Name < districts[j].Name
	})

	byName := make(map[string]*model.District, len(districts))
	for i := range districts {
		sort.Strings(districts[i].Upazilas)
		byName[districts[i].Name] = &districts[i]
	}

	return &Location{districts: districts, byName: byName}, nil
}

// Districts returns every district sorted by name, optionally narrowed to
// one division.
func (s *Location) Districts(division string) []model.District {
	if division == "" {
		return s.districts
	}
	return lo.Filter(s.districts, func(d model.District, _ int) bool {
		return d.Division == division
	})
}

func (s *Location) Divisions() []string {
	divisions := lo.Uniq(lo.Map(s.districts, func(d model.District, _ int) string {
		return d.Division
	}))
	sort.Strings(divisions)
	return divisions
}

func (s *Location) Upazilas(district string) ([]string, error) {
	d, ok := s.byName[district]
	if !ok {
		return nil, apperr.ErrNotFound.Msg("unknown district %q", district)
	}
	return d.Upazilas, nil
}
