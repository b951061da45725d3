// Package storage wraps the media object store and the perceptual-hash
// placeholder computation the ingestion worker depends on.
package storage

import "context"

// Store is the durable object store boundary. Put writes the bytes under key
// and returns the public URL clients load the image from.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Fingerprinter computes the compact placeholder rendered while the real
// image is still loading.
type Fingerprinter interface {
	Placeholder(data []byte) (string, error)
}
