// Package salesinvoices provides the SalesInvoices entity of Logo Objects.
package salesinvoices

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"logoobjects/internal/domain"
	"logoobjects/internal/domain/filter"
	"logoobjects/internal/metadata"
)

// Line is a transaction line of an invoice.
type Line struct {
	Type       int             `json:"TYPE"`
	MasterCode string          `json:"MASTER_CODE"`
	Quantity   decimal.Decimal `json:"QUANTITY"`
	Price      decimal.Decimal `json:"PRICE"`
	VatRate    decimal.Decimal `json:"VAT_RATE"`
	UnitCode   string          `json:"UNIT_CODE"`
}

// SalesInvoice is a sales invoice.
type SalesInvoice struct {
	InternalReference int64            `json:"INTERNAL_REFERENCE,omitempty" logo:"readonly"`
	Type              int              `json:"TYPE"`
	Number            string           `json:"NUMBER"`
	Date              filter.DateTime  `json:"DATE"`
	DocNumber         string           `json:"DOC_NUMBER,omitempty"`
	ArpCode           string           `json:"ARP_CODE"`
	SalesmanCode      string           `json:"SALESMAN_CODE,omitempty"`
	Cancelled         int              `json:"CANCELLED"`
	TotalVat          decimal.Decimal  `json:"TOTAL_VAT"`
	TotalNet          decimal.Decimal  `json:"TOTAL_NET"`
	DateCreated       *filter.DateTime `json:"DATE_CREATED,omitempty" logo:"readonly"`
	Transactions      []Line           `json:"TRANSACTIONS,omitempty"`
}

// Descriptor returns the SalesInvoices entity definition.
func Descriptor() metadata.EntityDef {
	def := metadata.Inspect(SalesInvoice{}, "SalesInvoices", "salesInvoices")
	def.Actions = []metadata.ActionDef{
		metadata.RecordAction(http.MethodPost, "ApplyCampaign"),
		metadata.RecordAction(http.MethodGet, "ExportToXML"),
		metadata.RecordAction(http.MethodPost, "Cancel"),
	}
	return def
}

// Client is the typed SalesInvoices client.
type Client struct {
	*domain.EntityClient[SalesInvoice]
}

// NewClient creates a SalesInvoices client.
func NewClient(req domain.Requester) *Client {
	return &Client{domain.NewEntityClient[SalesInvoice](req, Descriptor())}
}

// ApplyCampaign applies the active campaigns to the invoice.
func (c *Client) ApplyCampaign(ctx context.Context, id int64) (SalesInvoice, error) {
	var invoice SalesInvoice
	err := c.Invoke(ctx, "ApplyCampaign", id, nil, nil, &invoice)
	return invoice, err
}

// ExportToXML returns the invoice in Logo XML exchange format.
func (c *Client) ExportToXML(ctx context.Context, id int64) (string, error) {
	var xml string
	err := c.Invoke(ctx, "ExportToXML", id, nil, nil, &xml)
	return xml, err
}

// Cancel cancels a posted invoice.
// POST /salesInvoices/{id}/Cancel
func (c *Client) Cancel(ctx context.Context, id int64) error {
	return c.Invoke(ctx, "Cancel", id, nil, nil, nil)
}
