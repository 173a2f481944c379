package model

// Package model defines the domain values shared across the app: submitted links
// and their classification, the metadata snapshot shown to the user, download jobs,
// the status report polled by the UI, and the error taxonomy every worker reports with.
