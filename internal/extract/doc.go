// Package extract resolves links into metadata and downloadable streams.
// The yt-dlp binary provides JSON dumps of items and collections; the ytdlp library
// enumerates collection items. Stream selection turns an item's formats into one
// directly fetchable Stream.
package extract
