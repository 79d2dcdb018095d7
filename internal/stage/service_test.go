package stage

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	stages []Stage
	calls  int
}

func (r *fakeRepo) List(ctx context.Context) ([]Stage, error) {
	r.calls++
	return r.stages, nil
}

func (r *fakeRepo) Get(ctx context.Context, id int64) (*Stage, error) {
	for _, st := range r.stages {
		if st.ID == id {
			return &st, nil
		}
	}
	return nil, ErrNotFound
}

func pipelineStages() []Stage {
	return []Stage{
		{ID: 1, Name: "1st Dry"},
		{ID: 2, Name: "Unwash"},
		{ID: 3, Name: "1st Wash"},
		{ID: 4, Name: "2nd Dry"},
		{ID: 5, Name: "Final Wash"},
	}
}

func TestListCachesInRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	repo := &fakeRepo{stages: pipelineStages()}
	svc := NewService(repo, client, time.Minute)
	ctx := context.Background()

	first, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 5)
	require.Equal(t, 1, repo.calls)

	second, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, repo.calls, "second call must be served from cache")

	require.NoError(t, svc.Invalidate(ctx))
	_, err = svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, repo.calls)
}

func TestGetResolvesByID(t *testing.T) {
	repo := &fakeRepo{stages: pipelineStages()}
	svc := NewService(repo, nil, 0)

	st, err := svc.Get(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, "Final Wash", st.Name)

	_, err = svc.Get(context.Background(), 99)
	require.ErrorIs(t, err, ErrNotFound)
}
