package provider

import "errors"

// ErrWhatsAppInvalidConfig indicates an invalid WhatsApp adapter configuration
var ErrWhatsAppInvalidConfig = errors.New("whatsapp: invalid adapter configuration")

// WhatsAppConfig holds the static settings shared by the WhatsApp adapters
type WhatsAppConfig struct {
	// GraphBaseURL is the Graph API origin, e.g. "https://graph.facebook.com"
	GraphBaseURL string
	// GraphVersion is the Graph API version segment, e.g. "v19.0"
	GraphVersion string
	// SandboxBaseURL is the origin of the shared sandbox gateway
	SandboxBaseURL string
	// TimeoutSeconds bounds each HTTP call
	TimeoutSeconds int
}

// Validate checks the configuration
func (c *WhatsAppConfig) Validate() error {
	if c.GraphBaseURL == "" || c.GraphVersion == "" {
		return ErrWhatsAppInvalidConfig
	}
	if c.TimeoutSeconds <= 0 {
		return ErrWhatsAppInvalidConfig
	}
	return nil
}

// DefaultWhatsAppConfig returns the default WhatsApp adapter configuration
func DefaultWhatsAppConfig() *WhatsAppConfig {
	return &WhatsAppConfig{
		GraphBaseURL:   "https://graph.facebook.com",
		GraphVersion:   "v19.0",
		SandboxBaseURL: "https://api.twilio.com",
		TimeoutSeconds: 15,
	}
}
