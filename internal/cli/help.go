package cli

const helpBanner = "" +
	"           _                           \n" +
	" _ __ ___ | | ____   ___ __   __ ___   __\n" +
	"| '_ ` _ \\| |/ /\\ \\ / / '_ \\ / _` \\ \\ / /\n" +
	"| | | | | |   <  \\ V /| | | | (_| |\\ V / \n" +
	"|_| |_| |_|_|\\_\\  \\_/ |_| |_|\\__,_| \\_/  "

// HelpTemplate is the cobra help template of every command.
const HelpTemplate = helpBanner + `

{{with or .Long .Short}}{{. | trimTrailingWhitespaces}}

{{end}}{{if or .Runnable .HasSubCommands}}{{.UsageString}}{{end}}`

const (
	ChaptersHelp = `Print the chapter tree of each file with codec labels and disassembled
commands. Files ending in .yaml or .yml are read as navigation fixtures.`

	PlayHelp = `Start a playback session: run the first-play chapter (or --enter UID),
follow every jump its commands make, optionally press menu keys, and print
the jump history and general parameters.`

	ExecHelp = `Start a session like play, then run one 8-byte DVD command given in hex.`

	DisasmHelp = `Disassemble 8-byte DVD commands given in hex. Whitespace is ignored.`
)
