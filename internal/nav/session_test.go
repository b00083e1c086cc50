package nav

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shuhratov/loyihabot/internal/repository"
)

func TestSessionStore(t *testing.T) {
	store := NewSessionStore()

	require.Equal(t, Session{}, store.Get(10))

	store.Set(10, Session{ProjectType: repository.ProjectTypeNew, AwaitingPlanText: true})
	require.Equal(t, repository.ProjectTypeNew, store.Get(10).ProjectType)
	require.True(t, store.Get(10).AwaitingPlanText)

	// Users are isolated.
	require.Equal(t, Session{}, store.Get(20))

	store.Clear(10)
	require.Equal(t, Session{}, store.Get(10))
}
