// Package options normalizes caller-supplied option specifications into flat,
// ordered argv tokens.
//
// A [Spec] is one of three shapes, chosen explicitly at construction:
//
//   - [Absent]: no options at all.
//   - [Delimited]: one string split with shell word rules ("-f rawvideo -s:v 640x480").
//   - [Sequence]: tokens that are already split (each element is one argv entry).
//
// [Normalize] turns any of them into a token slice. When flattening is requested
// (the global options position), every Sequence element is split again so callers
// may pass several pre-split phrases such as {"-hide_banner -y", "-v debug"}.
package options
