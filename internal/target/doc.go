// Package target turns a run mode into a sequence of pages to report on.
//
// Each Mode yields (name, page) pairs lazily as the caller ranges over
// Targets. A mode never computes statistics itself; the sequences are
// consumed by the same collection and report loop whatever the mode.
//
// An error yielded by a sequence belongs to one target unless the mode
// stops after it. Category resolution failures (ErrNotACategory) and
// category enumeration failures end the sequence.
package target
