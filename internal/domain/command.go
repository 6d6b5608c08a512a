package domain

type CommandType string

const (
	CommandPerk    CommandType = "perk"
	CommandUpdate  CommandType = "update"
	CommandStats   CommandType = "stats"
	CommandHelp    CommandType = "help"
	CommandUnknown CommandType = "unknown"
)

func (c CommandType) String() string {
	return string(c)
}

func (c CommandType) IsValid() bool {
	switch c {
	case CommandPerk, CommandUpdate, CommandStats, CommandHelp, CommandUnknown:
		return true
	default:
		return false
	}
}
