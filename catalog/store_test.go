package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wardrobe-stylist/models"
)

type memoryPersister struct {
	mu      sync.Mutex
	items   []models.WardrobeItem
	saves   int
	failErr error
}

func (p *memoryPersister) LoadCatalog(ctx context.Context) ([]models.WardrobeItem, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.WardrobeItem(nil), p.items...), nil
}

func (p *memoryPersister) SaveCatalog(ctx context.Context, items []models.WardrobeItem) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failErr != nil {
		return p.failErr
	}
	p.saves++
	p.items = append([]models.WardrobeItem(nil), items...)
	return nil
}

func shirt(tags ...string) models.WardrobeItem {
	return models.WardrobeItem{Category: models.CategoryShirt, ImageRef: "shirt.png", Tags: tags}
}

func TestStore_AddAssignsIDAndNormalizesTags(t *testing.T) {
	p := &memoryPersister{}
	store, err := New(context.Background(), p)
	require.NoError(t, err)

	id, err := store.Add(context.Background(), shirt(" Casual", "SUMMER", "casual", ""))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"casual", "summer"}, got.Tags)
	assert.False(t, got.CreatedAt.IsZero())

	assert.Equal(t, 1, p.saves)
	require.Len(t, p.items, 1)
	assert.Equal(t, id, p.items[0].ID)
}

func TestStore_AddRejectsUnknownCategory(t *testing.T) {
	store := NewInMemory()

	_, err := store.Add(context.Background(), models.WardrobeItem{Category: "Hat", Tags: []string{"sun"}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = store.Add(context.Background(), models.WardrobeItem{Category: "shirt"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 0, store.Len())
}

func TestStore_AddAllowsEmptyTags(t *testing.T) {
	store := NewInMemory()
	id, err := store.Add(context.Background(), models.WardrobeItem{Category: models.CategoryShoes})
	require.NoError(t, err)

	got, err := store.Get(id)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
}

func TestStore_UpdateByID(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	id, err := store.Add(ctx, shirt("casual"))
	require.NoError(t, err)

	pants := models.CategoryPants
	tags := []string{"Formal", "office"}
	require.NoError(t, store.Update(ctx, id, models.ItemUpdate{Category: &pants, Tags: &tags}))

	got, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryPants, got.Category)
	assert.Equal(t, []string{"formal", "office"}, got.Tags)
	assert.Equal(t, "shirt.png", got.ImageRef)

	assert.Empty(t, store.ListByCategory(models.CategoryShirt))
	assert.Len(t, store.ListByCategory(models.CategoryPants), 1)
}

func TestStore_UpdateErrors(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	err := store.Update(ctx, "missing", models.ItemUpdate{})
	assert.ErrorIs(t, err, ErrNotFound)

	id, err := store.Add(ctx, shirt("casual"))
	require.NoError(t, err)

	bad := models.Category("Hat")
	err = store.Update(ctx, id, models.ItemUpdate{Category: &bad})
	assert.ErrorIs(t, err, ErrValidation)

	got, _ := store.Get(id)
	assert.Equal(t, models.CategoryShirt, got.Category)
}

func TestStore_DeleteKeepsOtherIdentities(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	var ids []string
	for i := 0; i < 4; i++ {
		id, err := store.Add(ctx, shirt(fmt.Sprintf("tag%d", i)))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	removed, err := store.Delete(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, []string{"tag1"}, removed.Tags)

	// every surviving id still addresses the same item after the shift
	for i, id := range []string{ids[0], ids[2], ids[3]} {
		got, err := store.Get(id)
		require.NoError(t, err, "item %d", i)
		assert.Equal(t, id, got.ID)
	}
	got, _ := store.Get(ids[3])
	assert.Equal(t, []string{"tag3"}, got.Tags)

	tags := []string{"edited"}
	require.NoError(t, store.Update(ctx, ids[2], models.ItemUpdate{Tags: &tags}))
	got, _ = store.Get(ids[2])
	assert.Equal(t, []string{"edited"}, got.Tags)
	got, _ = store.Get(ids[3])
	assert.Equal(t, []string{"tag3"}, got.Tags)

	_, err = store.Delete(ctx, ids[1])
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_DeleteOfAddRestoresState(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	_, err := store.Add(ctx, shirt("casual"))
	require.NoError(t, err)
	_, err = store.Add(ctx, models.WardrobeItem{Category: models.CategoryPants, Tags: []string{"denim"}})
	require.NoError(t, err)

	before := store.List()
	beforeTags := store.AllTags()

	id, err := store.Add(ctx, models.WardrobeItem{Category: models.CategoryShoes, Tags: []string{"running"}})
	require.NoError(t, err)
	_, err = store.Delete(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, before, store.List())
	assert.Equal(t, beforeTags, store.AllTags())
}

func TestStore_IDsAreNotReused(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	ids := []string{"a", "a", "b"}
	store.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	first, err := store.Add(ctx, shirt())
	require.NoError(t, err)
	_, err = store.Delete(ctx, first)
	require.NoError(t, err)

	second, err := store.Add(ctx, shirt())
	require.NoError(t, err)
	assert.Equal(t, "a", first)
	assert.Equal(t, "b", second)
}

func TestStore_ListByCategoryInsertionOrder(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	a, _ := store.Add(ctx, shirt("a"))
	_, _ = store.Add(ctx, models.WardrobeItem{Category: models.CategoryShoes})
	b, _ := store.Add(ctx, shirt("b"))

	shirts := store.ListByCategory(models.CategoryShirt)
	require.Len(t, shirts, 2)
	assert.Equal(t, a, shirts[0].ID)
	assert.Equal(t, b, shirts[1].ID)
}

func TestStore_ReadsAreCopies(t *testing.T) {
	store := NewInMemory()
	id, err := store.Add(context.Background(), shirt("casual"))
	require.NoError(t, err)

	list := store.ListByCategory(models.CategoryShirt)
	list[0].Tags[0] = "mutated"

	got, _ := store.Get(id)
	assert.Equal(t, []string{"casual"}, got.Tags)
}

func TestStore_AllTagsSortedUnion(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	_, _ = store.Add(ctx, shirt("summer", "casual"))
	_, _ = store.Add(ctx, models.WardrobeItem{Category: models.CategoryPants, Tags: []string{"Casual", "denim"}})

	assert.Equal(t, []string{"casual", "denim", "summer"}, store.AllTags())
	assert.Empty(t, NewInMemory().AllTags())
}

func TestStore_FlushFailureRollsBack(t *testing.T) {
	p := &memoryPersister{}
	store, err := New(context.Background(), p)
	require.NoError(t, err)
	ctx := context.Background()

	id, err := store.Add(ctx, shirt("casual"))
	require.NoError(t, err)

	p.failErr = errors.New("disk full")

	_, err = store.Add(ctx, shirt("formal"))
	assert.Error(t, err)
	assert.Equal(t, 1, store.Len())

	tags := []string{"changed"}
	assert.Error(t, store.Update(ctx, id, models.ItemUpdate{Tags: &tags}))
	got, _ := store.Get(id)
	assert.Equal(t, []string{"casual"}, got.Tags)

	_, err = store.Delete(ctx, id)
	assert.Error(t, err)
	_, err = store.Get(id)
	assert.NoError(t, err)
}

func TestNew_LoadsPersistedCatalog(t *testing.T) {
	p := &memoryPersister{items: []models.WardrobeItem{
		{ID: "1", Category: models.CategoryShirt, Tags: []string{" Casual "}},
		{ID: "2", Category: models.CategoryShoes},
	}}

	store, err := New(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())

	got, err := store.Get("1")
	require.NoError(t, err)
	assert.Equal(t, []string{"casual"}, got.Tags)
}

func TestNew_RejectsBrokenCatalog(t *testing.T) {
	tests := map[string][]models.WardrobeItem{
		"bad category": {{ID: "1", Category: "Hat"}},
		"missing id":   {{Category: models.CategoryShirt}},
		"duplicate id": {{ID: "1", Category: models.CategoryShirt}, {ID: "1", Category: models.CategoryPants}},
	}

	for name, items := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := New(context.Background(), &memoryPersister{items: items})
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestStore_ConcurrentMutationAndReads(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	var ids []string
	for i := 0; i < 50; i++ {
		id, err := store.Add(ctx, shirt("casual"))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for _, id := range ids {
			_, _ = store.Delete(ctx, id)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			seen := make(map[string]bool)
			for _, item := range store.ListByCategory(models.CategoryShirt) {
				assert.False(t, seen[item.ID], "duplicate id in snapshot")
				seen[item.ID] = true
			}
		}
	}()
	wg.Wait()

	assert.Equal(t, 0, store.Len())
}
