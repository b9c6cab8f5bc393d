package api

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/shadowrec/pkg/rec"
)

func importSample(t *testing.T, env *testEnv, moves ...rec.Move) string {
	t.Helper()
	entry, err := env.store.Import("sample.rec", sampleReplay(t, moves...))
	require.NoError(t, err)
	return entry.ID.String()
}

func TestServer_handleHealth(t *testing.T) {
	env := setupTestServer(t)

	w := env.do(t, "GET", "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data map[string]string
	resp := decodeResponse(t, w, &data)
	assert.True(t, resp.Success)
	assert.Equal(t, "healthy", data["status"])
}

func TestServer_handleImportReplay(t *testing.T) {
	env := setupTestServer(t)

	t.Run("default name", func(t *testing.T) {
		w := env.do(t, "POST", "/api/v1/replays", sampleReplay(t))
		require.Equal(t, http.StatusOK, w.Code)

		var data struct {
			Name string `json:"name"`
		}
		decodeResponse(t, w, &data)
		assert.Equal(t, defaultUploadName, data.Name)
	})

	t.Run("undersized file", func(t *testing.T) {
		w := env.do(t, "POST", "/api/v1/replays", make([]byte, rec.MinFileSize-1))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		resp := decodeResponse(t, w, nil)
		assert.False(t, resp.Success)
		assert.Contains(t, resp.Error, "Failed to import replay")
	})

	t.Run("upload too large", func(t *testing.T) {
		w := env.do(t, "POST", "/api/v1/replays", make([]byte, 65<<10))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestServer_handleGetReplay(t *testing.T) {
	env := setupTestServer(t)

	tests := []struct {
		name           string
		id             string
		expectedStatus int
	}{
		{
			name:           "existing replay",
			id:             importSample(t, env, rec.Move{Tick: 1}),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown replay",
			id:             ksuid.New().String(),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "malformed id",
			id:             "nope",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, "GET", "/api/v1/replays/"+tt.id, nil)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestServer_handleInsertMove(t *testing.T) {
	env := setupTestServer(t)
	id := importSample(t, env,
		rec.Move{Tick: 1, Action: rec.ActionUp},
		rec.Move{Tick: 3, Action: rec.ActionDown},
	)

	body, err := json.Marshal(InsertMoveRequest{
		Index: 1,
		Move:  rec.Move{Tick: 2, PlayerID: 1, Action: rec.ActionLeft | rec.ActionPunch},
	})
	require.NoError(t, err)

	w := env.do(t, "POST", "/api/v1/replays/"+id+"/moves", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var view ReplayView
	decodeResponse(t, w, &view)
	require.Len(t, view.Moves, 3)
	assert.Equal(t, uint32(2), view.Moves[1].Tick)
	assert.Equal(t, 3, view.Entry.Summary.Moves)
	assert.Equal(t, rec.MinFileSize+3*7, view.Entry.Size)

	// The edit is persisted.
	f, err := env.store.Load(view.Entry.ID)
	require.NoError(t, err)
	m, err := f.Moves.At(1)
	require.NoError(t, err)
	assert.Equal(t, rec.ActionLeft|rec.ActionPunch, m.Action)

	t.Run("action as text", func(t *testing.T) {
		w := env.do(t, "POST", "/api/v1/replays/"+id+"/moves",
			[]byte(`{"index":99,"move":{"tick":50,"action":"down+kick"}}`))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var view ReplayView
		decodeResponse(t, w, &view)
		require.Len(t, view.Moves, 4)
		assert.Equal(t, rec.ActionDown|rec.ActionKick, view.Moves[3].Action)
	})

	t.Run("negative index", func(t *testing.T) {
		w := env.do(t, "POST", "/api/v1/replays/"+id+"/moves", []byte(`{"index":-1,"move":{}}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid json", func(t *testing.T) {
		w := env.do(t, "POST", "/api/v1/replays/"+id+"/moves", []byte(`{`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown action", func(t *testing.T) {
		w := env.do(t, "POST", "/api/v1/replays/"+id+"/moves", []byte(`{"index":0,"move":{"action":"jump"}}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestServer_handleInsertMoveConcurrent(t *testing.T) {
	env := setupTestServer(t)
	id := importSample(t, env)

	const writers = 20
	codes := make([]int, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body := []byte(fmt.Sprintf(`{"index":0,"move":{"tick":%d,"action":"up"}}`, i))
			codes[i] = env.do(t, "POST", "/api/v1/replays/"+id+"/moves", body).Code
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		assert.Equal(t, http.StatusOK, code, "writer %d", i)
	}

	entryID, err := ksuid.Parse(id)
	require.NoError(t, err)
	f, err := env.store.Load(entryID)
	require.NoError(t, err)
	assert.Equal(t, writers, f.Moves.Len())

	seen := make(map[uint32]bool)
	for _, m := range f.Moves.All() {
		seen[m.Tick] = true
	}
	assert.Len(t, seen, writers)
}

func TestServer_handleInsertMoveBodyTooLarge(t *testing.T) {
	env := setupTestServer(t)
	id := importSample(t, env, rec.Move{Tick: 1})

	pad := bytes.Repeat([]byte(" "), int(env.server.config.MaxUploadSize)+1)
	body := append([]byte(`{"index":0,"move":{"tick":2}}`), pad...)

	w := env.do(t, "POST", "/api/v1/replays/"+id+"/moves", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	entryID, err := ksuid.Parse(id)
	require.NoError(t, err)
	f, err := env.store.Load(entryID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.Moves.Len())
}

func TestServer_handleDeleteMove(t *testing.T) {
	env := setupTestServer(t)
	id := importSample(t, env,
		rec.Move{Tick: 1},
		rec.Move{Tick: 2},
		rec.Move{Tick: 3},
	)

	w := env.do(t, "DELETE", "/api/v1/replays/"+id+"/moves/1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var view ReplayView
	decodeResponse(t, w, &view)
	require.Len(t, view.Moves, 2)
	assert.Equal(t, uint32(1), view.Moves[0].Tick)
	assert.Equal(t, uint32(3), view.Moves[1].Tick)

	tests := []struct {
		path           string
		expectedStatus int
	}{
		{path: fmt.Sprintf("/api/v1/replays/%s/moves/5", id), expectedStatus: http.StatusBadRequest},
		{path: fmt.Sprintf("/api/v1/replays/%s/moves/x", id), expectedStatus: http.StatusBadRequest},
		{path: fmt.Sprintf("/api/v1/replays/%s/moves/0", ksuid.New()), expectedStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		w := env.do(t, "DELETE", tt.path, nil)
		assert.Equal(t, tt.expectedStatus, w.Code, tt.path)
	}
}

func TestServer_handlePlayback(t *testing.T) {
	env := setupTestServer(t)
	id := importSample(t, env,
		rec.Move{Tick: 8, PlayerID: 1, Action: rec.ActionKick},
		rec.Move{Tick: 2, PlayerID: 0, Action: rec.ActionUp},
		rec.Move{Tick: 5, Extra: 3, RawAction: 0x10},
	)

	w := env.do(t, "GET", "/api/v1/replays/"+id+"/playback", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var inputs []rec.Input
	decodeResponse(t, w, &inputs)
	require.Len(t, inputs, 2)
	assert.Equal(t, uint32(2), inputs[0].Tick)
	assert.Equal(t, rec.ActionUp, inputs[0].Action)
	assert.Equal(t, uint32(8), inputs[1].Tick)
}
