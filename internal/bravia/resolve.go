package bravia

import (
	"context"
	"encoding/base64"
	"strings"
)

// irccCodePrefix starts every base64 encoded IRCC frame
const irccCodePrefix = "AAAA"

// LooksLikeCode reports whether value is already a base64 IRCC code rather
// than a command name
func LooksLikeCode(value string) bool {
	if len(value) < 8 || !strings.HasPrefix(value, irccCodePrefix) {
		return false
	}
	for _, r := range value {
		if !isBase64Rune(r) {
			return false
		}
	}
	_, err := base64.StdEncoding.DecodeString(value)
	return err == nil
}

func isBase64Rune(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == '+', r == '/', r == '=':
		return true
	}
	return false
}

// ResolveCommand maps value to an IRCC code. Known names come from the
// built-in table; code shaped input is returned as is. Anything else is looked
// up in the list the TV reports, and passed through unchanged if the TV does
// not know it either. Only a failed device query returns an error.
func (c *Client) ResolveCommand(ctx context.Context, value string) (RemoteCode, error) {
	if code, ok := LookupCommand(value); ok {
		return code, nil
	}

	if LooksLikeCode(value) {
		return RemoteCode(value), nil
	}

	info, err := c.GetRemoteControllerInfo(ctx)
	if err != nil {
		return "", err
	}

	if code, ok := info.Lookup(value); ok {
		return code, nil
	}
	for _, cmd := range info.Commands {
		if strings.EqualFold(cmd.Name, value) {
			return cmd.Value, nil
		}
	}

	c.logger.Debug().Str("command", value).Msg("Unknown command, sending as is")
	return RemoteCode(value), nil
}
