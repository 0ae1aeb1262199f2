package cache

import (
	"context"
	"sort"
	"sync"

	"gopkg.in/guregu/null.v3"

	"tolet.dev/backend/internal/model"
	"tolet.dev/backend/internal/pkg/cache"
)

type Flusher func() error

type Deleter func(ctx context.Context, key string) error

var (
	UserByID *cache.Set[model.User]

	// PropertySnapshot holds every property, newest first. Listings are
	// resolved against it per request.
	PropertySnapshot *cache.Singular[[]*model.Property]

	once sync.Once

	SetMap             map[string]Flusher
	SetDeleterMap      map[string]Deleter
	SingularFlusherMap map[string]Flusher
)

func Initialize() {
	once.Do(initializeCaches)
}

// Delete purges a single key of a set when key is given, otherwise the whole
// named cache.
func Delete(name string, key null.String) error {
	if key.Valid {
		if del, ok := SetDeleterMap[name]; ok {
			return del(context.Background(), key.String)
		}
		return nil
	}
	if flush, ok := SingularFlusherMap[name]; ok {
		return flush()
	}
	if flush, ok := SetMap[name]; ok {
		return flush()
	}
	return nil
}

// Names lists every registered cache, sorted.
func Names() []string {
	names := make([]string, 0, len(SetMap)+len(SingularFlusherMap))
	for name := range SetMap {
		names = append(names, name)
	}
	for name := range SingularFlusherMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func initializeCaches() {
	SetMap = make(map[string]Flusher)
	SetDeleterMap = make(map[string]Deleter)
	SingularFlusherMap = make(map[string]Flusher)

	// user
	UserByID = cache.NewSet[model.User]("user#userId")

	SetMap["user#userId"] = UserByID.Flush
	SetDeleterMap["user#userId"] = UserByID.Delete

	// property
	PropertySnapshot = cache.NewSingular[[]*model.Property]("propertySnapshot")

	SingularFlusherMap["propertySnapshot"] = PropertySnapshot.Delete
}
