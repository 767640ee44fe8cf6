package cli

var (
	verbose bool

	// all commands
	configPath string

	// for history command
	historyLimit int
)
