// Package programs persists the planned-recording queue as a JSON document.
//
// The on-disk shape is {"programmes": [...]} with one object per planned
// recording. Saves go through an atomic rename so a reader never observes a
// partially written file. There is no cross-process locking: the scheduler
// deduplicates launches in memory and tolerates at-least-once reads.
package programs
