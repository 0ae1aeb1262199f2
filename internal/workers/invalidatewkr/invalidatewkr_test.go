package invalidatewkr

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tolet.dev/backend/internal/model"
	modelcache "tolet.dev/backend/internal/model/cache"
	"tolet.dev/backend/internal/pkg/cache"
	"tolet.dev/backend/internal/service"
)

func event(t *testing.T, origin string) []byte {
	t.Helper()
	b, err := json.Marshal(service.PropertyChanged{
		PropertyID: "p1",
		OwnerID:    "U1",
		Kind:       service.PropertyApproved,
		Origin:     origin,
		At:         time.Now(),
	})
	require.NoError(t, err)
	return b
}

func TestHandle(t *testing.T) {
	modelcache.Initialize()
	w := &Worker{WorkerDeps: WorkerDeps{Events: service.NewEvents(nil)}}

	warm := func() {
		modelcache.PropertySnapshot.Set([]*model.Property{{PropertyID: "p1"}}, time.Minute)
	}
	cached := func() bool {
		var dest []*model.Property
		return modelcache.PropertySnapshot.Get(&dest) != cache.ErrNotFound
	}

	t.Run("RemoteChangeFlushes", func(t *testing.T) {
		warm()
		assert.True(t, w.Handle(event(t, "other-instance")))
		assert.False(t, cached())
	})

	t.Run("OwnChangeIsSkipped", func(t *testing.T) {
		warm()
		assert.False(t, w.Handle(event(t, w.Events.InstanceID)))
		assert.True(t, cached())
	})

	t.Run("MalformedIsIgnored", func(t *testing.T) {
		warm()
		assert.False(t, w.Handle([]byte("{")))
		assert.True(t, cached())
	})
}
