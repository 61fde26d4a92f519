package config

// NameSeparator separates segments of a dotted namespace name.
const NameSeparator = "."

// Built-in alias action names
const (
	ActionRequire = "require"
	ActionInclude = "include"
)

// JournalDriver is the database/sql driver name used by the pass journal.
const JournalDriver = "sqlite"

// JournalEnvVar names the environment variable consulted by the CLI for a
// default journal path when the -journal flag is absent.
const JournalEnvVar = "LIVENS_JOURNAL"

// Pass outcome labels recorded in the journal.
const (
	OutcomeCommitted = "committed"
	OutcomeAborted   = "aborted"
)
