// Package git reads committed file content from the repository that contains
// the index document, so drift checks can compare against HEAD instead of the
// working tree.
package git
