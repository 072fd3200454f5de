package models

import "github.com/authgate/authgate"

// Client client model
type Client struct {
	ID     string
	Secret string
	// Key is the internal identifier used by the password/implicit grant.
	Key    string
	Name   string
	Domain string
	Public bool
	// Scope limits what the client may request; empty allows any scope.
	Scope authgate.Scope
}

// GetID client id
func (c *Client) GetID() string {
	return c.ID
}

// GetSecret client secret
func (c *Client) GetSecret() string {
	return c.Secret
}

// GetKey internal client identifier
func (c *Client) GetKey() string {
	if c.Key == "" {
		return c.ID
	}
	return c.Key
}

// GetName display name for the consent form
func (c *Client) GetName() string {
	if c.Name == "" {
		return c.ID
	}
	return c.Name
}

// GetDomain allow-listed redirect domain
func (c *Client) GetDomain() string {
	return c.Domain
}

// GetScope allowed scope, empty means any
func (c *Client) GetScope() authgate.Scope {
	return c.Scope
}
