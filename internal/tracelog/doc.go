// Package tracelog records what a history-wrapped reducer did, in SQLite.
//
// Every call into the base reducer is one row: live actions, replayed copies
// and the replay-finished marker, each with the action's canonical payload and
// fingerprint.
//
// All reads order by the logical sequence number, never by insertion time, so
// two runs of the same scenario read back identically. Payloads are stored as
// RFC 8785 canonical JSON produced by package value.
package tracelog
