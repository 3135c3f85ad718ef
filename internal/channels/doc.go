// Package channels reads the subscription directory mapping channel names to
// stream URLs. The directory is read-only: a missing subscription or channel
// is a reported, non-fatal condition surfaced as ErrNotFound.
package channels
