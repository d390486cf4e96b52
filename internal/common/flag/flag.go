package flag

// Job holds the command line flags of one worker job run.
type Job struct {
	JobName string
	Version string
	Date    string
	// Fix lets a reconciliation job write corrections instead of only reporting.
	Fix bool
}
