package bravia

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// SendIRCC resolves value to an IRCC code and sends it through the SOAP
// endpoint. value may be a command name ("VolumeUp") or a raw code. The raw
// response body is returned.
func (c *Client) SendIRCC(ctx context.Context, value string) (string, error) {
	code, err := c.ResolveCommand(ctx, value)
	if err != nil {
		return "", fmt.Errorf("failed to resolve command %q: %w", value, err)
	}
	return c.SendRemoteCode(ctx, code)
}

// SendRemoteCode posts an already resolved code to the IRCC endpoint
func (c *Client) SendRemoteCode(ctx context.Context, code RemoteCode) (string, error) {
	if code == "" {
		return "", fmt.Errorf("remote code is required")
	}

	envelope := fmt.Sprintf(irccEnvelope, code)

	if c.mode.Debug {
		c.logger.Debug().
			Str("code", string(code)).
			Msg("Sending IRCC request")
	}

	body, err := c.post(ctx, IRCCEndpoint, strings.NewReader(envelope), func(h http.Header) {
		h.Set("Content-Type", irccContentType)
		h.Set(soapHeader, irccSOAPAction)
	})
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// TogglePower presses the power button. Unlike SetPowerStatus it works the
// same whether the panel is on or in standby.
func (c *Client) TogglePower(ctx context.Context) (string, error) {
	return c.SendIRCC(ctx, "TvPower")
}
