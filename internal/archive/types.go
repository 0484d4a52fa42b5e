// Package archive stores processed images in a SQLite database.
//
// Each result is keyed by its source name, the effect name and the effect
// parameters, so re-running the same effect on the same source replaces the
// earlier result.
package archive

import (
	"errors"
	"strconv"
)

// ErrNotFound is returned when no result matches a key.
var ErrNotFound = errors.New("result not found")

// Metadata contains archive-wide metadata fields.
type Metadata struct {
	Name        string // Human-readable archive name
	Description string // Human-readable description
	Version     string // Version string
	Generator   string // Program that wrote the archive
	Count       int    // Number of sources in the run that created the archive
}

// ToMap converts Metadata to a map for database insertion.
func (m Metadata) ToMap() map[string]string {
	result := make(map[string]string)

	if m.Name != "" {
		result["name"] = m.Name
	}
	if m.Description != "" {
		result["description"] = m.Description
	}
	if m.Version != "" {
		result["version"] = m.Version
	}
	if m.Generator != "" {
		result["generator"] = m.Generator
	}
	if m.Count > 0 {
		result["count"] = strconv.Itoa(m.Count)
	}

	return result
}

// Key identifies one result.
type Key struct {
	Source string // Source image name, usually its base file name
	Effect string // Effect name
	Params string // Canonical parameter string
}

// Entry is a single result to be written.
type Entry struct {
	Key
	Format string // Encoding of Data, "png" or "jpeg"
	Data   []byte // Encoded image (gzip-compressed before storage)
}
