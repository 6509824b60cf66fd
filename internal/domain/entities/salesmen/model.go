// Package salesmen provides the Salesmen entity of Logo Objects.
package salesmen

import (
	"logoobjects/internal/domain"
	"logoobjects/internal/metadata"
)

// Salesman is a sales representative card. Several columns carry a
// trailing underscore on the remote side.
type Salesman struct {
	InternalReference int64  `json:"INTERNAL_REFERENCE,omitempty" logo:"readonly"`
	Code              string `json:"CODE"`
	Definition        string `json:"DEFINITION_"`
	Position          string `json:"POSITION_,omitempty"`
	FirmNo            int    `json:"FIRMNO,omitempty"`
	UserNo            int    `json:"USERID,omitempty"`
	Email             string `json:"E_MAIL,omitempty"`
	Telephone         string `json:"TEL_NUMBER,omitempty"`
	Active            int    `json:"ACTIVE"`
}

// Descriptor returns the Salesmen entity definition.
func Descriptor() metadata.EntityDef {
	return metadata.Inspect(Salesman{}, "Salesmen", "salesmen")
}

// Client is the typed Salesmen client.
type Client struct {
	*domain.EntityClient[Salesman]
}

// NewClient creates a Salesmen client.
func NewClient(req domain.Requester) *Client {
	return &Client{domain.NewEntityClient[Salesman](req, Descriptor())}
}
