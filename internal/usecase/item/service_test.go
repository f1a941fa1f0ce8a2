package item

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itemkeeper/internal/domain/entity"
	"itemkeeper/internal/observability/metrics"
)

// fakeRepo is an in-memory ItemRepository for tests.
type fakeRepo struct {
	items  map[int64]*entity.Item
	nextID int64
	err    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[int64]*entity.Item{}, nextID: 1}
}

func (f *fakeRepo) Get(_ context.Context, id int64) (*entity.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	it, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	copied := *it
	return &copied, nil
}

func (f *fakeRepo) List(_ context.Context) ([]*entity.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*entity.Item, 0, len(f.items))
	for _, it := range f.items {
		copied := *it
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeRepo) Create(_ context.Context, it *entity.Item) error {
	if f.err != nil {
		return f.err
	}
	it.ID = f.nextID
	f.nextID++
	copied := *it
	f.items[it.ID] = &copied
	return nil
}

func (f *fakeRepo) Update(_ context.Context, it *entity.Item) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.items[it.ID]; !ok {
		return entity.ErrNotFound
	}
	copied := *it
	f.items[it.ID] = &copied
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.items[id]; !ok {
		return entity.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeRepo) Count(_ context.Context) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(f.items)), nil
}

func newService(repo *fakeRepo) (*Service, *metrics.Registry) {
	reg := metrics.NewRegistry()
	return &Service{Repo: repo, Metrics: reg}, reg
}

func TestService_Create(t *testing.T) {
	svc, reg := newService(newFakeRepo())

	it, err := svc.Create(context.Background(), CreateInput{Name: "widget"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), it.ID)
	assert.Equal(t, "widget", it.Name)

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.ItemsCreatedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.ItemsInDatabase))
}

func TestService_Create_ValidationError(t *testing.T) {
	svc, reg := newService(newFakeRepo())

	_, err := svc.Create(context.Background(), CreateInput{Name: ""})
	require.Error(t, err)

	var vErr *entity.ValidationError
	assert.ErrorAs(t, err, &vErr)
	// No metrics recorded for rejected input.
	assert.Equal(t, 0.0, testutil.ToFloat64(reg.ItemsCreatedTotal))
}

func TestService_Get(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newService(repo)

	created, err := svc.Create(context.Background(), CreateInput{Name: "widget"})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "widget", got.Name)

	_, err = svc.Get(context.Background(), 999)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestService_List_RefreshesGauge(t *testing.T) {
	repo := newFakeRepo()
	svc, reg := newService(repo)

	for _, name := range []string{"a", "b", "c"} {
		_, err := svc.Create(context.Background(), CreateInput{Name: name})
		require.NoError(t, err)
	}

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, 3.0, testutil.ToFloat64(reg.ItemsInDatabase))
}

func TestService_Update(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newService(repo)

	created, err := svc.Create(context.Background(), CreateInput{Name: "widget"})
	require.NoError(t, err)

	require.NoError(t, svc.Update(context.Background(), UpdateInput{ID: created.ID, Name: "gadget"}))

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "gadget", got.Name)

	err = svc.Update(context.Background(), UpdateInput{ID: 999, Name: "gadget"})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestService_Delete(t *testing.T) {
	repo := newFakeRepo()
	svc, reg := newService(repo)

	created, err := svc.Create(context.Background(), CreateInput{Name: "widget"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.Equal(t, 0.0, testutil.ToFloat64(reg.ItemsInDatabase))

	assert.ErrorIs(t, svc.Delete(context.Background(), created.ID), ErrItemNotFound)
}

func TestService_RefreshCount(t *testing.T) {
	repo := newFakeRepo()
	svc, reg := newService(repo)

	for _, name := range []string{"a", "b"} {
		_, err := svc.Create(context.Background(), CreateInput{Name: name})
		require.NoError(t, err)
	}
	// Drift the gauge; RefreshCount must restore it from the repository.
	reg.SetItemsInDatabase(42)

	require.NoError(t, svc.RefreshCount(context.Background()))
	assert.Equal(t, 2.0, testutil.ToFloat64(reg.ItemsInDatabase))
}

func TestService_RepositoryFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.err = errors.New("connection refused")
	svc, _ := newService(repo)

	_, err := svc.List(context.Background())
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), CreateInput{Name: "widget"})
	assert.Error(t, err)
}
