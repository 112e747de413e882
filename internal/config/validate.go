package config

import (
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable. The path argument names the
// file in error messages.
func (c *Config) Validate(path string) error {
	if c.CloudStack.APIURL == "" {
		return fmt.Errorf("cloudstack.api_url is required; edit %s", path)
	}
	if _, err := url.ParseRequestURI(c.CloudStack.APIURL); err != nil {
		return fmt.Errorf("cloudstack.api_url: %w", err)
	}
	if c.CloudStack.APIKey == "" {
		return fmt.Errorf("cloudstack.api_key is required; edit %s", path)
	}
	if c.CloudStack.SecretKey == "" {
		return fmt.Errorf("cloudstack.secret_key is required; edit %s", path)
	}
	if c.CloudStack.TimeoutSeconds < 0 {
		return fmt.Errorf("cloudstack.timeout_seconds must not be negative")
	}
	return nil
}
