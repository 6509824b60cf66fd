// Package salesorders provides the SalesOrders entity of Logo Objects.
package salesorders

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"logoobjects/internal/domain"
	"logoobjects/internal/domain/filter"
	"logoobjects/internal/metadata"
)

// Line is a transaction line of an order.
type Line struct {
	Type       int             `json:"TYPE"`
	MasterCode string          `json:"MASTER_CODE"`
	Quantity   decimal.Decimal `json:"QUANTITY"`
	Price      decimal.Decimal `json:"PRICE"`
	VatRate    decimal.Decimal `json:"VAT_RATE"`
	UnitCode   string          `json:"UNIT_CODE"`
}

// SalesOrder is a sales order slip.
type SalesOrder struct {
	InternalReference int64            `json:"INTERNAL_REFERENCE,omitempty" logo:"readonly"`
	Number            string           `json:"NUMBER"`
	Date              filter.DateTime  `json:"DATE"`
	DocNumber         string           `json:"DOC_NUMBER,omitempty"`
	ArpCode           string           `json:"ARP_CODE"`
	SalesmanCode      string           `json:"SALESMAN_CODE,omitempty"`
	OrderStatus       int              `json:"ORDER_STATUS"`
	TotalDiscounted   decimal.Decimal  `json:"TOTAL_DISCOUNTED"`
	TotalVat          decimal.Decimal  `json:"TOTAL_VAT"`
	TotalNet          decimal.Decimal  `json:"TOTAL_NET"`
	DateCreated       *filter.DateTime `json:"DATE_CREATED,omitempty" logo:"readonly"`
	Transactions      []Line           `json:"TRANSACTIONS,omitempty"`
}

// Descriptor returns the SalesOrders entity definition.
func Descriptor() metadata.EntityDef {
	def := metadata.Inspect(SalesOrder{}, "SalesOrders", "salesOrders")
	def.Actions = []metadata.ActionDef{
		metadata.RecordAction(http.MethodPost, "ApplyCampaign"),
		metadata.RecordAction(http.MethodGet, "ExportToXML"),
	}
	return def
}

// Client is the typed SalesOrders client.
type Client struct {
	*domain.EntityClient[SalesOrder]
}

// NewClient creates a SalesOrders client.
func NewClient(req domain.Requester) *Client {
	return &Client{domain.NewEntityClient[SalesOrder](req, Descriptor())}
}

// ApplyCampaign applies the active campaigns to the order and returns it
// as recalculated by the server.
// POST /salesOrders/{id}/ApplyCampaign
func (c *Client) ApplyCampaign(ctx context.Context, id int64) (SalesOrder, error) {
	var order SalesOrder
	err := c.Invoke(ctx, "ApplyCampaign", id, nil, nil, &order)
	return order, err
}

// ExportToXML returns the order in Logo XML exchange format.
func (c *Client) ExportToXML(ctx context.Context, id int64) (string, error) {
	var xml string
	err := c.Invoke(ctx, "ExportToXML", id, nil, nil, &xml)
	return xml, err
}
