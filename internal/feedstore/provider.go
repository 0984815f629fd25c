// Package feedstore defines the ICS import-directory abstraction.
package feedstore

import "time"

// FeedFile is the metadata of one .ics file in the import directory.
type FeedFile struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Provider is the interface for import-directory operations.
type Provider interface {
	// List returns metadata for every .ics file under the import root.
	List() ([]FeedFile, error)
	// Read returns the raw bytes of the feed at path (relative to the root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to the root).
	Write(path string, content []byte) error
	// Delete removes the feed file at path (relative to the root).
	Delete(path string) error
}
