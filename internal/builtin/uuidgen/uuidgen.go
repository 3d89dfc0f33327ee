// Package uuidgen generates correlation ids for the http and sql
// adapters' structured log lines (request ids, connection ids), built
// on google/uuid.
package uuidgen

import "github.com/google/uuid"

// New returns a fresh random (v4) id as a string.
func New() string {
	return uuid.NewString()
}
