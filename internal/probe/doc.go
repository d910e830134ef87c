// Package probe specializes the ffmpeg executor for ffprobe.
//
// New builds a Command that decodes stdout as key-ordered JSON whenever the
// compiled arguments request "-print_format json". Inspect runs the usual
// "-show_format -show_streams" query and converts the result into the typed
// Media model; ParseJSON does the same conversion for output obtained some
// other way.
package probe
