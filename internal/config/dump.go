package config

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

const redacted = "********"

// Dump renders the effective configuration as YAML. Tokens are redacted.
func (c *Config) Dump() ([]byte, error) {
	out := *c

	if out.API.Token != "" {
		out.API.Token = redacted
	}

	if out.Server.Token != "" {
		out.Server.Token = redacted
	}

	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(&out); err != nil {
		return nil, err
	}

	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
