package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/shadowrec/pkg/catalog"
	"github.com/ssargent/shadowrec/pkg/logging"
	"github.com/ssargent/shadowrec/pkg/rec"
)

const defaultUploadName = "upload.rec"

// Server holds the API server state
type Server struct {
	store   ReplayStore
	config  ServerConfig
	metrics *Metrics
	logger  *slog.Logger
}

// NewServer creates a new API server. metrics and logger may be nil.
func NewServer(store ReplayStore, config ServerConfig, metrics *Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{
		store:   store,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

// fail logs err and sends it with the status its kind maps to
func (s *Server) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := statusForError(err)
	logger := logging.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error(message, "error", err)
	} else {
		logger.Debug(message, "error", err)
	}
	sendError(w, fmt.Sprintf("%s: %v", message, err), status)
}

func (s *Server) replayID(w http.ResponseWriter, r *http.Request) (ksuid.KSUID, bool) {
	id, err := catalog.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, "Invalid replay id", err)
		return ksuid.Nil, false
	}
	return id, true
}

// load decodes a stored replay, recording codec metrics
func (s *Server) load(id ksuid.KSUID) (*rec.File, error) {
	start := time.Now()
	f, err := s.store.Load(id)
	s.metrics.RecordCodecOperation("decode", err == nil, time.Since(start))
	return f, err
}

// limitBody caps the request body at the configured upload size
func (s *Server) limitBody(w http.ResponseWriter, r *http.Request) io.Reader {
	if s.config.MaxUploadSize > 0 {
		return http.MaxBytesReader(w, r.Body, s.config.MaxUploadSize)
	}
	return r.Body
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

func (s *Server) handleListReplays(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.List()
	if err != nil {
		s.fail(w, r, "Failed to list replays", err)
		return
	}
	s.metrics.SetReplayCount(len(entries))
	sendSuccess(w, entries)
}

// handleImportReplay stores the raw REC file in the request body. The
// optional name query parameter labels it.
func (s *Server) handleImportReplay(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(s.limitBody(w, r))
	if err != nil {
		s.fail(w, r, "Failed to read request body", err)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = defaultUploadName
	}

	start := time.Now()
	entry, err := s.store.Import(name, data)
	s.metrics.RecordCodecOperation("decode", err == nil, time.Since(start))
	if err != nil {
		s.fail(w, r, "Failed to import replay", err)
		return
	}
	sendSuccess(w, entry)
}

func (s *Server) handleGetReplay(w http.ResponseWriter, r *http.Request) {
	id, ok := s.replayID(w, r)
	if !ok {
		return
	}
	entry, err := s.store.Get(id)
	if err != nil {
		s.fail(w, r, "Failed to get replay", err)
		return
	}
	sendSuccess(w, entry)
}

func (s *Server) handleGetRaw(w http.ResponseWriter, r *http.Request) {
	id, ok := s.replayID(w, r)
	if !ok {
		return
	}
	data, err := s.store.Raw(id)
	if err != nil {
		s.fail(w, r, "Failed to read replay", err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id.String()+".rec"))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleDeleteReplay(w http.ResponseWriter, r *http.Request) {
	id, ok := s.replayID(w, r)
	if !ok {
		return
	}
	if err := s.store.Delete(id); err != nil {
		s.fail(w, r, "Failed to delete replay", err)
		return
	}
	sendSuccess(w, map[string]string{"status": "deleted", "id": id.String()})
}

func (s *Server) handleListMoves(w http.ResponseWriter, r *http.Request) {
	id, ok := s.replayID(w, r)
	if !ok {
		return
	}
	f, err := s.load(id)
	if err != nil {
		s.fail(w, r, "Failed to load replay", err)
		return
	}
	sendSuccess(w, f.Moves.All())
}

func (s *Server) handleInsertMove(w http.ResponseWriter, r *http.Request) {
	id, ok := s.replayID(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(s.limitBody(w, r))
	if err != nil {
		s.fail(w, r, "Failed to read request body", err)
		return
	}
	var req InsertMoveRequest
	if err := json.Unmarshal(body, &req); err != nil {
		sendError(w, fmt.Sprintf("Invalid JSON in request body: %v", err), http.StatusBadRequest)
		return
	}

	s.editMoves(w, r, id, "insert", func(moves *rec.MoveList) error {
		return moves.InsertAction(req.Index, req.Move)
	})
}

func (s *Server) handleDeleteMove(w http.ResponseWriter, r *http.Request) {
	id, ok := s.replayID(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		sendError(w, "Move index must be an integer", http.StatusBadRequest)
		return
	}

	s.editMoves(w, r, id, "delete", func(moves *rec.MoveList) error {
		return moves.DeleteAction(index)
	})
}

// editMoves applies edit to the stored move list of id under the catalog's
// edit lock and responds with the updated replay.
func (s *Server) editMoves(w http.ResponseWriter, r *http.Request, id ksuid.KSUID, operation string,
	edit func(moves *rec.MoveList) error) {
	var moves []rec.Move
	start := time.Now()
	entry, err := s.store.Edit(id, func(f *rec.File) error {
		err := edit(f.Moves)
		s.metrics.RecordMoveEdit(operation, err == nil)
		if err != nil {
			return err
		}
		moves = f.Moves.All()
		return nil
	})
	s.metrics.RecordCodecOperation("edit", err == nil, time.Since(start))
	if err != nil {
		s.fail(w, r, fmt.Sprintf("Failed to %s move", operation), err)
		return
	}
	sendSuccess(w, ReplayView{Entry: entry, Moves: moves})
}

func (s *Server) handlePlayback(w http.ResponseWriter, r *http.Request) {
	id, ok := s.replayID(w, r)
	if !ok {
		return
	}
	f, err := s.load(id)
	if err != nil {
		s.fail(w, r, "Failed to load replay", err)
		return
	}
	sendSuccess(w, f.Playback())
}
