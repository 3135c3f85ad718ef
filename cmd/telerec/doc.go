// Command telerec is the CLI for the recording service: it manages the
// programme queue and channel directory, runs one-shot recordings, inspects
// history, and converts provider playlists.
package main
