// Package banks provides the Banks entity (bank cards) of Logo Objects.
package banks

import (
	"logoobjects/internal/domain"
	"logoobjects/internal/metadata"
)

// Bank is a bank card.
type Bank struct {
	InternalReference int64  `json:"INTERNAL_REFERENCE,omitempty" logo:"readonly"`
	Code              string `json:"CODE"`
	Title             string `json:"TITLE"`
	Branch            string `json:"BRANCH,omitempty"`
	BranchNo          string `json:"BRANCH_NO,omitempty"`
	Address1          string `json:"ADDRESS1,omitempty"`
	Address2          string `json:"ADDRESS2,omitempty"`
	City              string `json:"CITY,omitempty"`
	Country           string `json:"COUNTRY,omitempty"`
	Telephone1        string `json:"TELEPHONE1,omitempty"`
	Email             string `json:"E_MAIL,omitempty"`
	SwiftCode         string `json:"SWIFT_CODE,omitempty"`
	RecordStatus      int    `json:"RECORD_STATUS"`
}

// Descriptor returns the Banks entity definition.
func Descriptor() metadata.EntityDef {
	return metadata.Inspect(Bank{}, "Banks", "banks")
}

// Client is the typed Banks client.
type Client struct {
	*domain.EntityClient[Bank]
}

// NewClient creates a Banks client.
func NewClient(req domain.Requester) *Client {
	return &Client{domain.NewEntityClient[Bank](req, Descriptor())}
}
