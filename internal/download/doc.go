package download

// Package download implements the download job of a single item or a whole collection.
// Streams are resolved through the extractor, fetched with chunked HTTP reads into a
// partial file, finalised in place (audio files get the .mp3 extension) and recorded
// in the history. Progress is reported as aggregate bytes over aggregate expected size.
