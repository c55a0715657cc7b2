// Package pipeline turns a manifest, its fragment files, and the current
// index document into the regenerated index document.
//
// Generate is pure: it takes bytes and returns bytes. Runner performs the
// filesystem work around it (reading the index and fragments, resolving the
// manifest, and either writing the result atomically or comparing it against
// the committed document).
package pipeline
