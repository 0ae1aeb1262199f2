package service

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tolet.dev/backend/internal/pkg/apperr"
)

func TestLocation(t *testing.T) {
	s, err := NewLocation()
	require.NoError(t, err)

	t.Run("AllDistricts", func(t *testing.T) {
		districts := s.Districts("")
		assert.Len(t, districts, 64)
		for i := 1; i < len(districts); i++ {
			assert.Less(t, districts[i-1].Name, districts[i].Name)
		}
	})

	t.Run("ByDivision", func(t *testing.T) {
		for _, d := range s.Districts("Sylhet") {
			assert.Equal(t, "Sylhet", d.Division)
		}
		assert.Len(t, s.Districts("Sylhet"), 4)
		assert.Empty(t, s.Districts("Atlantis"))
	})

	t.Run("Divisions", func(t *testing.T) {
		assert.Equal(t, []string{"Barishal", "Chattogram", "Dhaka", "Khulna", "Mymensingh", "Rajshahi", "Rangpur", "Sylhet"}, s.Divisions())
	})

	t.Run("Upazilas", func(t *testing.T) {
		upazilas, err := s.Upazilas("Dhaka")
		require.NoError(t, err)
		assert.Contains(t, upazilas, "Gulshan")
		assert.Contains(t, upazilas, "Mirpur")
	})

	t.Run("UnknownDistrict", func(t *testing.T) {
		_, err := s.Upazilas("dhaka")
		assert.True(t, errors.Is(err, apperr.ErrNotFound))
	})
}

func TestImageKey(t *testing.T) {
	key := ImageKey("01HZX", "png")
	assert.Regexp(t, `^properties/01HZX/[a-z0-9]{20}\.png$`, key)
	assert.NotEqual(t, key, ImageKey("01HZX", "png"))
}

func TestUploadDisabled(t *testing.T) {
	s := &Upload{}
	_, err := s.PresignImage(context.Background(), "u", "image/png")
	assert.True(t, errors.Is(err, apperr.ErrServiceDisabled))
}
