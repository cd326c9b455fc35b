package messages

import "strings"

const commandParts = 2

// parseCommand splits "/cmd@bot arg" into "/cmd" and "arg". Anything that is
// not a command is returned untouched as the argument of the empty command.
func parseCommand(text string) (cmd, arg string) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "/") {
		return "", text
	}

	split := strings.SplitN(trimmed, " ", commandParts)
	cmd = split[0]
	if at := strings.Index(cmd, "@"); at > 0 {
		cmd = cmd[:at]
	}
	if len(split) == commandParts {
		arg = strings.TrimSpace(split[1])
	}
	return cmd, arg
}
