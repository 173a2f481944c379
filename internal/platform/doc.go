package platform

// Package platform contains OS/platform integration: filesystem helpers, opening the
// download folder and external links, display formatting, and the single-instance lock.
