package ui

// Package ui contains the Fyne-based desktop user interface for the application.
// It renders the controller's state (link metadata, thumbnail, options, status and
// progress) and forwards user intents back to it. All UI strings are localized via Localization.
