package intake

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewStore(client), mr
}

func TestStoreStartAndGet(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	draft, err := store.Start(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, draft.SessionID)
	assert.Equal(t, 1, draft.Step)

	loaded, err := store.Get(ctx, draft.SessionID)
	require.NoError(t, err)
	assert.Equal(t, draft.SessionID, loaded.SessionID)
	assert.Nil(t, loaded.Contact)
}

func TestStoreSaveSteps(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	draft, err := store.Start(ctx)
	require.NoError(t, err)

	draft.Contact = &ContactStep{Name: "Ada", Email: "ada@example.com", Company: "Ada & Co"}
	draft.Step = 2
	require.NoError(t, store.Save(ctx, draft))

	draft.Project = &ProjectStep{Description: "portfolio site", Complexity: "simple"}
	draft.Step = 3
	require.NoError(t, store.Save(ctx, draft))

	loaded, err := store.Get(ctx, draft.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Step)
	require.NotNil(t, loaded.Contact)
	assert.Equal(t, "Ada", loaded.Contact.Name)
	require.NotNil(t, loaded.Project)
	assert.Equal(t, "portfolio site", loaded.Project.Description)
}

func TestStoreMissingDraft(t *testing.T) {
	store, _ := setupTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestStoreDelete(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	draft, err := store.Start(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, draft.SessionID))
	_, err = store.Get(ctx, draft.SessionID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestStoreTTLExpiry(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	draft, err := store.Start(ctx)
	require.NoError(t, err)

	mr.FastForward(draftTTL + time.Minute)

	_, err = store.Get(ctx, draft.SessionID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestDraftComplete(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
		want  bool
	}{
		{
			name:  "Empty draft",
			draft: Draft{},
			want:  false,
		},
		{
			name: "Contact only",
			draft: Draft{
				Contact: &ContactStep{Name: "Ada", Email: "ada@example.com"},
			},
			want: false,
		},
		{
			name: "Contact and project without booking",
			draft: Draft{
				Contact: &ContactStep{Name: "Ada", Email: "ada@example.com"},
				Project: &ProjectStep{Description: "portfolio site", Complexity: "simple"},
			},
			want: true,
		},
		{
			name: "Project missing complexity",
			draft: Draft{
				Contact: &ContactStep{Name: "Ada", Email: "ada@example.com"},
				Project: &ProjectStep{Description: "portfolio site"},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.draft.Complete())
		})
	}
}
