package snapshot

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoscope/geoscope/internal/models"
)

func TestStoreLifecycle(t *testing.T) {
	store := NewStore()
	assert.Nil(t, store.Get())

	snap := &models.AnalyticsSnapshot{ID: "s1", BrandName: "Acme"}
	store.Set(snap)
	require.NotNil(t, store.Get())
	assert.Equal(t, "s1", store.Get().ID)

	// replacement is whole-object
	store.Set(&models.AnalyticsSnapshot{ID: "s2", BrandName: "Acme"})
	assert.Equal(t, "s2", store.Get().ID)

	store.Clear()
	assert.Nil(t, store.Get())
}

func TestStoreNeverServesTornSnapshot(t *testing.T) {
	store := NewStore()

	// every snapshot has ID == BrandName; a torn read would mix them
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for n := 0; n < 500; n++ {
				store.Set(&models.AnalyticsSnapshot{ID: id, BrandName: id})
			}
		}(string(rune('a' + i)))
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for n := 0; n < 2000; n++ {
			if snap := store.Get(); snap != nil {
				assert.Equal(t, snap.ID, snap.BrandName)
			}
		}
	}()

	wg.Wait()
}
