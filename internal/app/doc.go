// Package app owns the presentation state of the downloader. Workers never touch the
// state directly: they post results to the controller's event loop, which drops any
// result that belongs to an older submission.
package app
