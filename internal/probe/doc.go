// Package probe wraps ffprobe to report the picture quality of captured
// streams: resolution, frame rate, scan type, and bitrate.
package probe
