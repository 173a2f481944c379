// Package metadata classifies submitted links and fetches the display metadata
// of single items and collections without downloading any media.
package metadata
