// Package storage provides the key/value backends the content store persists
// to. Each record is a whole JSON document addressed by a string key.
package storage

import "errors"

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("storage: backend closed")

// Backend is a synchronous key/value store. Get reports ok=false for a key
// that was never written.
type Backend interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Close() error
}

// Batcher is implemented by backends that can write several records
// atomically.
type Batcher interface {
	SetMany(records map[string][]byte) error
}

// SetAll writes records through b, atomically when b supports it.
func SetAll(b Backend, records map[string][]byte) error {
	if bb, ok := b.(Batcher); ok {
		return bb.SetMany(records)
	}
	for k, v := range records {
		if err := b.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}
