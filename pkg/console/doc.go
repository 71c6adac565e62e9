// Package console defines the contracts of the embedded diagnostic console:
// command and field declarations supplied by host modules, the textual
// command-line protocol, argument coercion, log line formatting, and the
// interfaces through which modules and frontends reach the console kernel.
package console
