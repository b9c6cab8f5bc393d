package catalog

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/shadowrec/pkg/rec"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "catalog"), nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func sampleReplay(t *testing.T, moves ...rec.Move) []byte {
	t.Helper()
	f := rec.NewFile()
	f.Scores = [2]uint32{3, 1}
	for _, m := range moves {
		f.Moves.Append(m)
	}
	data, err := rec.NewCodec().EncodeBytes(f)
	require.NoError(t, err)
	return data
}

func TestImportAndGet(t *testing.T) {
	c := newTestCatalog(t)
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	data := sampleReplay(t,
		rec.Move{Tick: 10, PlayerID: 0, Action: rec.ActionUp | rec.ActionPunch},
		rec.Move{Tick: 12, PlayerID: 1, Action: rec.ActionKick},
	)

	entry, err := c.Import("match.rec", data)
	require.NoError(t, err)
	assert.False(t, entry.ID.IsNil())
	assert.Equal(t, "match.rec", entry.Name)
	assert.Equal(t, len(data), entry.Size)
	assert.Equal(t, 2, entry.Summary.Moves)
	assert.Equal(t, [2]uint32{3, 1}, entry.Summary.Scores)

	got, err := c.Get(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, "match.rec", got.Name)
	assert.True(t, fixed.Equal(got.ImportedAt))
	assert.Equal(t, 2, got.Summary.Moves)

	raw, err := c.Raw(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, data, raw)

	f, err := c.Load(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, f.Moves.Len())
}

func TestImportRejectsInvalidReplay(t *testing.T) {
	c := newTestCatalog(t)

	_, err := c.Import("short.rec", make([]byte, 100))
	require.Error(t, err)
	assert.True(t, errors.Is(err, rec.ErrFileParse))

	entries, err := c.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGetNotFound(t *testing.T) {
	c := newTestCatalog(t)
	id := ksuid.New()

	_, err := c.Get(id)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = c.Raw(id)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = c.Load(id)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = c.Update(id, rec.NewFile())
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.True(t, errors.Is(c.Delete(id), ErrNotFound))
}

func TestUpdate(t *testing.T) {
	c := newTestCatalog(t)
	imported := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return imported }

	entry, err := c.Import("edit.rec", sampleReplay(t, rec.Move{Tick: 1, Action: rec.ActionLeft}))
	require.NoError(t, err)

	f, err := c.Load(entry.ID)
	require.NoError(t, err)
	require.NoError(t, f.Moves.InsertAction(1, rec.Move{Tick: 2, Extra: 3, RawAction: 0x40}))

	edited := imported.Add(time.Hour)
	c.now = func() time.Time { return edited }

	updated, err := c.Update(entry.ID, f)
	require.NoError(t, err)
	assert.Equal(t, rec.MinFileSize+7+14, updated.Size)
	assert.Equal(t, 2, updated.Summary.Moves)
	assert.Equal(t, 1, updated.Summary.ExtendedMoves)
	assert.True(t, imported.Equal(updated.ImportedAt))
	assert.True(t, edited.Equal(updated.UpdatedAt))

	raw, err := c.Raw(entry.ID)
	require.NoError(t, err)
	assert.Len(t, raw, updated.Size)

	reloaded, err := c.Load(entry.ID)
	require.NoError(t, err)
	moves := reloaded.Moves.All()
	require.Len(t, moves, 2)
	assert.Equal(t, rec.ActionLeft, moves[0].Action)
	assert.Equal(t, uint32(2), moves[1].Tick)
	assert.True(t, moves[1].Extended())
	assert.Equal(t, uint8(0x40), moves[1].RawAction)
}

func TestListAndDelete(t *testing.T) {
	c := newTestCatalog(t)

	var ids []ksuid.KSUID
	for _, name := range []string{"a.rec", "b.rec", "c.rec"} {
		entry, err := c.Import(name, sampleReplay(t))
		require.NoError(t, err)
		ids = append(ids, entry.ID)
	}

	entries, err := c.List()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, id := range ids {
		found := false
		for _, entry := range entries {
			if entry.ID == id {
				found = true
			}
		}
		assert.True(t, found, "missing %s", id)
	}

	require.NoError(t, c.Delete(ids[1]))

	entries, err = c.List()
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	_, err = c.Raw(ids[1])
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestParseID(t *testing.T) {
	id := ksuid.New()

	parsed, err := ParseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseID("not-a-ksuid")
	assert.True(t, errors.Is(err, ErrInvalidID))
}

func TestReopenKeepsReplays(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "catalog")

	c, err := Open(dir, nil, nil)
	require.NoError(t, err)
	entry, err := c.Import("persist.rec", sampleReplay(t, rec.Move{Tick: 5, Action: rec.ActionDown}))
	require.NoError(t, err)
	require.NoError(t, c.Close())

	c, err = Open(dir, nil, nil)
	require.NoError(t, err)
	defer c.Close()

	got, err := c.Get(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "persist.rec", got.Name)
}

func TestEditConcurrent(t *testing.T) {
	c := newTestCatalog(t)
	entry, err := c.Import("busy.rec", sampleReplay(t))
	require.NoError(t, err)

	const writers = 25
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(tick uint32) {
			defer wg.Done()
			_, err := c.Edit(entry.ID, func(f *rec.File) error {
				return f.Moves.InsertAction(0, rec.Move{Tick: tick, Action: rec.ActionUp})
			})
			errs <- err
		}(uint32(i))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	f, err := c.Load(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, writers, f.Moves.Len())

	got, err := c.Get(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, writers, got.Summary.Moves)
}

func TestEditFailureStoresNothing(t *testing.T) {
	c := newTestCatalog(t)
	data := sampleReplay(t, rec.Move{Tick: 1})
	entry, err := c.Import("keep.rec", data)
	require.NoError(t, err)

	_, err = c.Edit(entry.ID, func(f *rec.File) error {
		f.Moves.Append(rec.Move{Tick: 2})
		return f.Moves.DeleteAction(10)
	})
	assert.True(t, errors.Is(err, rec.ErrInvalidInput))

	raw, err := c.Raw(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, data, raw)
}

func TestEditAfterDelete(t *testing.T) {
	c := newTestCatalog(t)
	entry, err := c.Import("gone.rec", sampleReplay(t))
	require.NoError(t, err)
	require.NoError(t, c.Delete(entry.ID))

	called := false
	_, err = c.Edit(entry.ID, func(f *rec.File) error {
		called = true
		return nil
	})
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, called)

	entries, err := c.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}
