// Package types defines the Forum interface, the user, channel, thread, and
// comment entities, and the errors every Forum implementation reports.
//
// Channels contain threads and threads contain comments. Thread ids are
// sequential within a channel and comment ids are sequential within a
// thread; both start at 0.
package types
