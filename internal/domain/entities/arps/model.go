// Package arps provides the Arps entity (current accounts) of Logo Objects.
package arps

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"logoobjects/internal/domain"
	"logoobjects/internal/metadata"
)

// Arp is a current account (customer or vendor) card.
type Arp struct {
	InternalReference int64           `json:"INTERNAL_REFERENCE,omitempty" logo:"readonly"`
	AccountType       int             `json:"ACCOUNT_TYPE"`
	Code              string          `json:"CODE"`
	Title             string          `json:"TITLE"`
	Address1          string          `json:"ADDRESS1,omitempty"`
	Address2          string          `json:"ADDRESS2,omitempty"`
	City              string          `json:"CITY,omitempty"`
	Country           string          `json:"COUNTRY,omitempty"`
	Telephone1        string          `json:"TELEPHONE1,omitempty"`
	Email             string          `json:"E_MAIL,omitempty"`
	TaxID             string          `json:"TAX_ID,omitempty"`
	TaxOffice         string          `json:"TAX_OFFICE,omitempty"`
	SalesmanCode      string          `json:"SALESMAN_CODE,omitempty"`
	CreditLimit       decimal.Decimal `json:"CL_RISK_LIMIT"`
	RecordStatus      int             `json:"RECORD_STATUS"`
}

// Descriptor returns the Arps entity definition.
func Descriptor() metadata.EntityDef {
	def := metadata.Inspect(Arp{}, "Arps", "Arps")
	def.Actions = []metadata.ActionDef{
		metadata.RecordAction(http.MethodGet, "ExportToXML"),
	}
	return def
}

// Client is the typed Arps client.
type Client struct {
	*domain.EntityClient[Arp]
}

// NewClient creates an Arps client.
func NewClient(req domain.Requester) *Client {
	return &Client{domain.NewEntityClient[Arp](req, Descriptor())}
}

// ExportToXML returns the card in Logo XML exchange format.
func (c *Client) ExportToXML(ctx context.Context, id int64) (string, error) {
	var xml string
	err := c.Invoke(ctx, "ExportToXML", id, nil, nil, &xml)
	return xml, err
}
