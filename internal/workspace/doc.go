// Package workspace anchors all file access to a repository root.
//
// Paths handed to and returned from a Workspace are slash-separated and
// relative to the root. Writes replace the target atomically: content goes to
// a temporary file in the target's directory, is synced, and then renamed
// over the target, so readers see either the old or the new document.
package workspace
