// Package daemon assembles the long-running recording service: the scheduler
// polls the programme queue, due entries become supervised capture sessions,
// and a single shutdown path signals every live process exactly once.
package daemon
