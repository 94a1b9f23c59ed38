// Command albumpress mirrors a photo and video tree into a destination tree,
// running ffmpeg and exiftool templates on every matching file with a bounded
// number of files in flight.
//
// The root command runs a batch. Subcommands inspect dependencies (check),
// the run journal (history) and configuration (config).
package main
