package api

import (
	"github.com/segmentio/ksuid"

	"github.com/ssargent/shadowrec/pkg/catalog"
	"github.com/ssargent/shadowrec/pkg/rec"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// InsertMoveRequest inserts Move before Index. An index past the end appends.
type InsertMoveRequest struct {
	Index int      `json:"index"`
	Move  rec.Move `json:"move"`
}

// ReplayView is a catalog entry together with its decoded moves
type ReplayView struct {
	Entry *catalog.Entry `json:"entry"`
	Moves []rec.Move     `json:"moves,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port          int
	Bind          string
	APIKey        string
	MaxUploadSize int64
}

// ReplayStore is the subset of the catalog the API needs
type ReplayStore interface {
	Import(name string, data []byte) (*catalog.Entry, error)
	Get(id ksuid.KSUID) (*catalog.Entry, error)
	Raw(id ksuid.KSUID) ([]byte, error)
	Load(id ksuid.KSUID) (*rec.File, error)
	Edit(id ksuid.KSUID, fn func(f *rec.File) error) (*catalog.Entry, error)
	List() ([]catalog.Entry, error)
	Delete(id ksuid.KSUID) error
}
