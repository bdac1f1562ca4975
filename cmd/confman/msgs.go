package main

// Short messages (one-liners)
const (
	MsgRootShort  = "Lazy, rootless config file management, mostly using symlinks"
	MsgSyncShort  = "Synchronize the source tree into the destination"
	MsgCheckShort = "Analyze and validate without touching the destination"
	MsgTreeShort  = "Show how every source entry would be synchronized"
	MsgVerShort   = "Print version information"

	MsgRootLong = `confman synchronizes a source tree of config files and templates into
a destination tree (usually your home directory). Filename suffixes
select the strategy per file: symlink by default, .copy / .once /
.empty for copied or seeded files, and .p.toml for entries whose
strategy is chosen by a small rule set evaluated against your tags
and hostname.`

	// Status messages
	MsgNothingToDo   = "Nothing to do, destination is up to date."
	MsgSyncedFormat  = "Synchronized %d change(s)."
	MsgCheckOkFormat = "All %d entries validated, no changes applied."
)
