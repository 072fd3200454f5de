package server

import (
	"github.com/authgate/authgate"
)

// Config configuration parameters
type Config struct {
	TokenType            string                  // token type reported on implicit grants
	AllowedResponseTypes []authgate.ResponseType // allow the authorization type
	// Endpoints the URLs handed to the consent form and the step-up
	// challenge. An empty StepUpURL disables step-up redirects and
	// issuance completes even for enrolled owners.
	Endpoints authgate.Endpoints
}

// NewConfig create to configuration instance
func NewConfig() *Config {
	return &Config{
		TokenType:            "Bearer",
		AllowedResponseTypes: []authgate.ResponseType{authgate.Code, authgate.Token},
		Endpoints: authgate.Endpoints{
			FormTargetURL: "/",
		},
	}
}

// CheckResponseType check allows response type
func (c *Config) CheckResponseType(rt authgate.ResponseType) bool {
	for _, art := range c.AllowedResponseTypes {
		if art == rt {
			return true
		}
	}
	return false
}
