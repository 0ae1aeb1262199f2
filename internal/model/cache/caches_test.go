package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"tolet.dev/backend/internal/model"
)

func TestDeleteFlushesSnapshot(t *testing.T) {
	Initialize()

	PropertySnapshot.Set([]*model.Property{{PropertyID: "p1"}}, time.Minute)

	var got []*model.Property
	require.NoError(t, PropertySnapshot.Get(&got))
	require.Len(t, got, 1)

	require.NoError(t, Delete("propertySnapshot", null.String{}))
	assert.Error(t, PropertySnapshot.Get(&got))
}

func TestDeleteUnknownIsNoop(t *testing.T) {
	Initialize()
	assert.NoError(t, Delete("nope", null.StringFrom("k")))
	assert.NoError(t, Delete("nope", null.String{}))
	assert.ElementsMatch(t, []string{"user#userId", "propertySnapshot"}, Names())
}
