package surface

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tota/internal/gateway/repository/document"
)

func TestInstallSupersedesAndReleases(t *testing.T) {
	ctx := context.Background()
	store := document.NewMemoryStore()
	r := NewRegistry(store, "http://localhost:8080/", nil)

	first, err := r.Install(ctx, "p1", []byte("one"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), first.Sequence)
	assert.Equal(t, "http://localhost:8080/preview/p1/"+first.Handle, first.URL)

	second, err := r.Install(ctx, "p1", []byte("two"))
	require.NoError(t, err)
	assert.NotEqual(t, first.Handle, second.Handle)

	cur, ok := r.Current("p1")
	require.True(t, ok)
	assert.Equal(t, second.Handle, cur.Handle)

	_, err = r.Document(ctx, "p1", first.Handle)
	assert.ErrorIs(t, err, document.ErrNotFound)
	_, err = store.Get(ctx, "p1", first.Handle)
	assert.ErrorIs(t, err, document.ErrNotFound)

	got, err := r.Document(ctx, "p1", second.Handle)
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))

	handles, err := store.List(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{second.Handle}, handles)
}

func TestLateInstallIsDiscarded(t *testing.T) {
	ctx := context.Background()
	store := document.NewMemoryStore()
	r := NewRegistry(store, "", nil)

	older := r.Begin("p")
	newer := r.Begin("p")

	inst, err := r.InstallAt(ctx, "p", newer, []byte("new"))
	require.NoError(t, err)
	assert.Equal(t, "/preview/p/"+inst.Handle, inst.URL)

	_, err = r.InstallAt(ctx, "p", older, []byte("old"))
	assert.ErrorIs(t, err, ErrSuperseded)

	cur, _ := r.Current("p")
	assert.Equal(t, inst.Handle, cur.Handle)
	handles, _ := store.List(ctx, "p")
	assert.Len(t, handles, 1)
}

func TestProjectsAreIndependent(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(nil, "", nil)
	a, err := r.Install(ctx, "a", []byte("a"))
	require.NoError(t, err)
	b, err := r.Install(ctx, "b", []byte("b"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), a.Sequence)
	assert.Equal(t, uint64(1), b.Sequence)

	_, err = r.Document(ctx, "a", a.Handle)
	assert.NoError(t, err)
	_, err = r.Document(ctx, "a", b.Handle)
	assert.ErrorIs(t, err, document.ErrNotFound)
}

func TestReleaseDropsSurface(t *testing.T) {
	ctx := context.Background()
	store := document.NewMemoryStore()
	r := NewRegistry(store, "", nil)
	inst, err := r.Install(ctx, "p", []byte("x"))
	require.NoError(t, err)

	r.Release("p")
	_, ok := r.Current("p")
	assert.False(t, ok)
	_, err = store.Get(ctx, "p", inst.Handle)
	assert.ErrorIs(t, err, document.ErrNotFound)
}

func TestInstallRequiresProject(t *testing.T) {
	_, err := NewRegistry(nil, "", nil).Install(context.Background(), " ", []byte("x"))
	assert.Error(t, err)
}

func TestSubscribeReceivesInstalls(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(nil, "", nil)
	events, cancel := r.Subscribe("p")

	inst, err := r.Install(ctx, "p", []byte("x"))
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, inst.Handle, ev.Handle)
		assert.Equal(t, inst.Sequence, ev.Sequence)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}

	cancel()
	cancel()
	_, open := <-events
	assert.False(t, open)

	_, err = r.Install(ctx, "p", []byte("y"))
	require.NoError(t, err)
}

func TestConcurrentInstallsKeepHighestSequence(t *testing.T) {
	ctx := context.Background()
	store := document.NewMemoryStore()
	r := NewRegistry(store, "", nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.Install(ctx, "p", []byte("doc"))
		}()
	}
	wg.Wait()

	cur, ok := r.Current("p")
	require.True(t, ok)
	assert.Equal(t, uint64(20), cur.Sequence)
	handles, err := store.List(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, []string{cur.Handle}, handles)
}

func TestPaddedProjectIDSharesSequence(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(document.NewMemoryStore(), "", nil)

	_, err := r.Install(ctx, "p1", []byte("one"))
	require.NoError(t, err)
	_, err = r.Install(ctx, "p1", []byte("two"))
	require.NoError(t, err)

	seq := r.Begin(" p1 ")
	assert.Equal(t, uint64(3), seq)
	inst, err := r.InstallAt(ctx, " p1", seq, []byte("three"))
	require.NoError(t, err)
	assert.Equal(t, "p1", inst.ProjectID)

	cur, ok := r.Current("p1")
	require.True(t, ok)
	assert.Equal(t, inst.Handle, cur.Handle)
}
