// Package catalog stores REC replays in a pebble database keyed by KSUID.
//
// Each replay occupies two keys: rec/<id> holds the encoded file exactly as
// the codec writes it and meta/<id> holds a JSON Entry describing it. Both
// keys are written in one batch so a reader never sees one without the other.
package catalog

import (
	"bytes"
	"log/slog"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/goccy/go-json"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/shadowrec/pkg/logging"
	"github.com/ssargent/shadowrec/pkg/rec"
)

var (
	// ErrNotFound reports an unknown replay id.
	ErrNotFound = errors.New("catalog: replay not found")
	// ErrInvalidID reports an id that is not a KSUID.
	ErrInvalidID = errors.New("catalog: invalid replay id")
)

var (
	recPrefix  = []byte("rec/")
	metaPrefix = []byte("meta/")
)

// Entry is the metadata kept for every stored replay.
type Entry struct {
	ID         ksuid.KSUID `json:"id" yaml:"id"`
	Name       string      `json:"name" yaml:"name"`
	Size       int         `json:"size" yaml:"size"`
	ImportedAt time.Time   `json:"imported_at" yaml:"imported_at"`
	UpdatedAt  time.Time   `json:"updated_at" yaml:"updated_at"`
	Summary    rec.Summary `json:"summary" yaml:"summary"`
}

// Catalog is a replay store backed by pebble. Edit, Update and Delete hold mu
// for their whole read-modify-write.
type Catalog struct {
	mu     sync.Mutex
	db     *pebble.DB
	codec  *rec.Codec
	logger *slog.Logger
	now    func() time.Time
}

// Open opens or creates the catalog at path. A nil codec uses rec.NewCodec()
// and a nil logger discards output.
func Open(path string, codec *rec.Codec, logger *slog.Logger) (*Catalog, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "open catalog %s", path)
	}
	if codec == nil {
		codec = rec.NewCodec()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Catalog{db: db, codec: codec, logger: logger, now: time.Now}, nil
}

// ParseID parses the string form of a replay id.
func ParseID(s string) (ksuid.KSUID, error) {
	id, err := ksuid.Parse(s)
	if err != nil {
		return ksuid.Nil, errors.Mark(errors.Wrapf(err, "parse id %q", s), ErrInvalidID)
	}
	return id, nil
}

func recKey(id ksuid.KSUID) []byte {
	return append(append([]byte{}, recPrefix...), id.Bytes()...)
}

func metaKey(id ksuid.KSUID) []byte {
	return append(append([]byte{}, metaPrefix...), id.Bytes()...)
}

// Import validates data as a REC file and stores it under a new id.
func (c *Catalog) Import(name string, data []byte) (*Entry, error) {
	f, err := c.codec.LoadBytes(data)
	if err != nil {
		return nil, errors.Wrapf(err, "import %s", name)
	}

	now := c.now().UTC()
	entry := &Entry{
		ID:         ksuid.New(),
		Name:       name,
		Size:       len(data),
		ImportedAt: now,
		UpdatedAt:  now,
		Summary:    f.Summary(),
	}
	if err := c.put(entry, data); err != nil {
		return nil, err
	}

	c.logger.Info("replay imported", "id", entry.ID.String(), "name", name, "moves", entry.Summary.Moves)
	return entry, nil
}

// Get returns the metadata for id.
func (c *Catalog) Get(id ksuid.KSUID) (*Entry, error) {
	data, err := c.get(metaKey(id), id)
	if err != nil {
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, errors.Wrapf(err, "decode metadata for %s", id)
	}
	return &entry, nil
}

// Raw returns the stored REC bytes for id.
func (c *Catalog) Raw(id ksuid.KSUID) ([]byte, error) {
	return c.get(recKey(id), id)
}

// Load decodes the stored replay for id.
func (c *Catalog) Load(id ksuid.KSUID) (*rec.File, error) {
	data, err := c.Raw(id)
	if err != nil {
		return nil, err
	}
	f, err := c.codec.LoadBytes(data)
	if err != nil {
		return nil, errors.Wrapf(err, "load replay %s", id)
	}
	return f, nil
}

// Edit loads the replay stored under id, applies fn and stores the result.
// Nothing is stored when fn fails.
func (c *Catalog) Edit(id ksuid.KSUID, fn func(f *rec.File) error) (*Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := c.Load(id)
	if err != nil {
		return nil, err
	}
	if err := fn(f); err != nil {
		return nil, err
	}
	return c.update(id, f)
}

// Update re-encodes f and replaces the replay stored under id.
func (c *Catalog) Update(id ksuid.KSUID, f *rec.File) (*Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.update(id, f)
}

func (c *Catalog) update(id ksuid.KSUID, f *rec.File) (*Entry, error) {
	entry, err := c.Get(id)
	if err != nil {
		return nil, err
	}

	data, err := c.codec.EncodeBytes(f)
	if err != nil {
		return nil, errors.Wrapf(err, "encode replay %s", id)
	}

	entry.Size = len(data)
	entry.UpdatedAt = c.now().UTC()
	entry.Summary = f.Summary()
	if err := c.put(entry, data); err != nil {
		return nil, err
	}

	c.logger.Debug("replay updated", "id", id.String(), "moves", entry.Summary.Moves)
	return entry, nil
}

// List returns every entry, oldest first.
func (c *Catalog) List() ([]Entry, error) {
	iter, err := c.db.NewIter(&pebble.IterOptions{
		LowerBound: metaPrefix,
		UpperBound: prefixEnd(metaPrefix),
	})
	if err != nil {
		return nil, errors.Wrap(err, "list replays")
	}
	defer iter.Close()

	entries := []Entry{}
	for iter.First(); iter.Valid(); iter.Next() {
		var entry Entry
		if err := json.Unmarshal(iter.Value(), &entry); err != nil {
			return nil, errors.Wrap(err, "decode metadata")
		}
		entries = append(entries, entry)
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "list replays")
	}
	return entries, nil
}

// Delete removes the replay stored under id.
func (c *Catalog) Delete(id ksuid.KSUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.get(metaKey(id), id); err != nil {
		return err
	}

	batch := c.db.NewBatch()
	defer batch.Close()

	if err := batch.Delete(recKey(id), nil); err != nil {
		return errors.Wrapf(err, "delete replay %s", id)
	}
	if err := batch.Delete(metaKey(id), nil); err != nil {
		return errors.Wrapf(err, "delete replay %s", id)
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return errors.Wrapf(err, "delete replay %s", id)
	}

	c.logger.Info("replay deleted", "id", id.String())
	return nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func (c *Catalog) put(entry *Entry, data []byte) error {
	meta, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrapf(err, "encode metadata for %s", entry.ID)
	}

	batch := c.db.NewBatch()
	defer batch.Close()

	if err := batch.Set(recKey(entry.ID), data, nil); err != nil {
		return errors.Wrapf(err, "store replay %s", entry.ID)
	}
	if err := batch.Set(metaKey(entry.ID), meta, nil); err != nil {
		return errors.Wrapf(err, "store replay %s", entry.ID)
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return errors.Wrapf(err, "store replay %s", entry.ID)
	}
	return nil
}

// get copies the value for key; pebble's buffer is only valid until the
// closer runs.
func (c *Catalog) get(key []byte, id ksuid.KSUID) ([]byte, error) {
	data, closer, err := c.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, errors.Mark(errors.Wrapf(err, "replay %s", id), ErrNotFound)
		}
		return nil, errors.Wrapf(err, "read replay %s", id)
	}
	defer closer.Close()

	return bytes.Clone(data), nil
}

func prefixEnd(prefix []byte) []byte {
	end := bytes.Clone(prefix)
	end[len(end)-1]++
	return end
}
