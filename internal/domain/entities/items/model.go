// Package items provides the Items entity (material cards) of Logo Objects.
package items

import (
	"context"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"logoobjects/internal/domain"
	"logoobjects/internal/metadata"
)

// Item is a material card.
type Item struct {
	InternalReference int64           `json:"INTERNAL_REFERENCE,omitempty" logo:"readonly"`
	CardType          int             `json:"CARD_TYPE"`
	Code              string          `json:"CODE"`
	Name              string          `json:"NAME"`
	Name2             string          `json:"NAME2,omitempty"`
	GroupCode         string          `json:"GROUP_CODE,omitempty"`
	AuxilCode         string          `json:"AUXIL_CODE,omitempty"`
	ProducerCode      string          `json:"PRODUCER_CODE,omitempty"`
	UnitsetCode       string          `json:"UNITSET_CODE"`
	Vat               decimal.Decimal `json:"VAT"`
	SalesVat          decimal.Decimal `json:"SELVAT"`
	PurchaseVat       decimal.Decimal `json:"PURCHVAT"`
	RecordStatus      int             `json:"RECORD_STATUS"`
}

// Descriptor returns the Items entity definition.
func Descriptor() metadata.EntityDef {
	def := metadata.Inspect(Item{}, "Items", "items")
	def.Actions = []metadata.ActionDef{
		metadata.RecordAction(http.MethodGet, "SetDefIntValue", "field", "value"),
		metadata.RecordAction(http.MethodGet, "ExportToXML"),
	}
	return def
}

// Client is the typed Items client.
type Client struct {
	*domain.EntityClient[Item]
}

// NewClient creates an Items client.
func NewClient(req domain.Requester) *Client {
	return &Client{domain.NewEntityClient[Item](req, Descriptor())}
}

// SetDefIntValue sets an integer default of the card.
// GET /items/{id}/SetDefIntValue/{field}/{value}
func (c *Client) SetDefIntValue(ctx context.Context, id int64, field string, value int) error {
	return c.Invoke(ctx, "SetDefIntValue", id, []string{field, strconv.Itoa(value)}, nil, nil)
}

// ExportToXML returns the card in Logo XML exchange format.
// GET /items/{id}/ExportToXML
func (c *Client) ExportToXML(ctx context.Context, id int64) (string, error) {
	var xml string
	err := c.Invoke(ctx, "ExportToXML", id, nil, nil, &xml)
	return xml, err
}
