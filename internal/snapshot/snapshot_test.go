package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Proger1298/gaming-server/internal/app"
)

type fakeSource struct {
	captured app.StateSnapshot
	restored app.StateSnapshot
	restoreErr error
}

func (f *fakeSource) CaptureState() app.StateSnapshot { return f.captured }

func (f *fakeSource) RestoreState(s app.StateSnapshot) error {
	f.restored = s
	return f.restoreErr
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state", "game.json")

	store := New(path)
	require.NoError(t, store.EnsureDir())

	src := &fakeSource{captured: app.StateSnapshot{
		NextPlayerID:  3,
		NextSessionID: 1,
		NextDogID:     2,
		Players: []app.PlayerSnapshot{
			{ID: 0, Name: "Alice", SessionID: 0, DogID: 0, Token: "abc"},
		},
	}}

	require.NoError(t, store.Save(src))

	// The final file must exist, and no stray .tmp should survive the rename.
	_, err := os.Stat(path)
	require.NoError(t, err)
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	loadInto := &fakeSource{}
	require.NoError(t, store.Load(loadInto))
	assert.Equal(t, src.captured, loadInto.restored)
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "nope.json"))
	src := &fakeSource{}
	assert.NoError(t, store.Load(src))
}

func TestLoadCorruptFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	store := New(path)
	src := &fakeSource{}
	assert.Error(t, store.Load(src))
}

func TestEmptyPathDisablesPersistence(t *testing.T) {
	store := New("")
	src := &fakeSource{}
	assert.NoError(t, store.Save(src))
	assert.NoError(t, store.Load(src))
}
