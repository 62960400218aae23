package storage

import (
	"context"
	"errors"
)

// ErrNotFound - сохранения с таким ID в хранилище нет.
var ErrNotFound = errors.New("storage: save not found")

// SaveStore - хранилище блобов сохранений по ID. Бэкенды не заглядывают
// внутрь блоба: формат - забота кодека.
type SaveStore interface {
	Put(ctx context.Context, id string, data []byte) error
	Get(ctx context.Context, id string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
