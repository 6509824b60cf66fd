// Package logoobjects is the public entry point of the Logo Objects client.
//
//	c, err := logoobjects.New(logoobjects.Config{
//		BaseURL:  "http://erp:32001/api/v1",
//		Username: "LOGO",
//		Password: "secret",
//		FirmNo:   "1",
//	})
//	banks, err := c.Banks().Search(ctx,
//		logoobjects.Criteria{"code": logoobjects.Ops{logoobjects.Like: "B"}},
//		logoobjects.QueryOptions{Limit: 10})
package logoobjects

import (
	"context"

	"logoobjects/internal/core/apperror"
	"logoobjects/internal/domain"
	"logoobjects/internal/domain/entities"
	"logoobjects/internal/domain/entities/arps"
	"logoobjects/internal/domain/entities/banks"
	"logoobjects/internal/domain/entities/items"
	"logoobjects/internal/domain/entities/salesinvoices"
	"logoobjects/internal/domain/entities/salesmen"
	"logoobjects/internal/domain/entities/salesorders"
	"logoobjects/internal/domain/filter"
	"logoobjects/internal/infrastructure/logoapi"
	"logoobjects/internal/metadata"
	"logoobjects/pkg/logger"
)

type (
	Config       = logoapi.Config
	Criteria     = filter.Criteria
	Ops          = filter.Ops
	Operator     = filter.Operator
	QueryOptions = filter.QueryOptions
	Sort         = filter.Sort
	Record       = domain.Record
	Requester    = domain.Requester
	Error        = apperror.AppError
	EntityDef    = metadata.EntityDef

	ListResult[T any]   = domain.ListResult[T]
	EntityClient[T any] = domain.EntityClient[T]
)

const (
	Equal          = filter.Equal
	NotEqual       = filter.NotEqual
	Greater        = filter.Greater
	GreaterOrEqual = filter.GreaterOrEqual
	Less           = filter.Less
	LessOrEqual    = filter.LessOrEqual
	Like           = filter.Like
	InList         = filter.InList
)

// Error codes carried by *Error.
const (
	CodeInvalidOperator    = apperror.CodeInvalidOperator
	CodeInvalidQueryOption = apperror.CodeInvalidQueryOption
	CodeUnknownField       = apperror.CodeUnknownField
	CodeUnknownEntity      = apperror.CodeUnknownEntity
	CodeNotFound           = apperror.CodeNotFound
	CodeUnauthorized       = apperror.CodeUnauthorized
	CodeRemote             = apperror.CodeRemote
	CodeTransport          = apperror.CodeTransport
)

// DefaultConfig returns transport defaults; set BaseURL and credentials.
func DefaultConfig() Config { return logoapi.DefaultConfig() }

// SortBy starts an ascending sort on fields.
func SortBy(fields ...string) *Sort { return filter.SortBy(fields...) }

// BuildSearchQuery compiles criteria into a q expression. A nil resolver
// converts field names to UPPER_SNAKE columns.
func BuildSearchQuery(criteria Criteria, fields filter.FieldResolver) (string, error) {
	return filter.BuildSearchQuery(criteria, fields)
}

// BuildQueryString encodes options as a query string without the leading "?".
func BuildQueryString(opts QueryOptions) (string, error) {
	return filter.BuildQueryString(opts)
}

// HasCode reports whether err is an *Error with the given code.
func HasCode(err error, code string) bool { return apperror.HasCode(err, code) }

// Option configures a Client.
type Option = logoapi.Option

var (
	WithHTTPClient = logoapi.WithHTTPClient
	WithLogger     = logoapi.WithLogger
)

// Client bundles typed entity clients over one authenticated transport.
type Client struct {
	transport *logoapi.Client
	req       Requester
	registry  *metadata.Registry

	banks         *banks.Client
	salesmen      *salesmen.Client
	items         *items.Client
	arps          *arps.Client
	salesOrders   *salesorders.Client
	salesInvoices *salesinvoices.Client
}

// New validates cfg and creates a client. No request is sent until the
// first call.
func New(cfg Config, opts ...Option) (*Client, error) {
	transport, err := logoapi.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return NewWithRequester(transport, transport), nil
}

// NewWithRequester builds a client over a custom Requester, e.g. a fake in
// tests. transport may be nil; Ping then becomes a no-op.
func NewWithRequester(req Requester, transport *logoapi.Client) *Client {
	return &Client{
		transport:     transport,
		req:           req,
		registry:      entities.Registry(),
		banks:         banks.NewClient(req),
		salesmen:      salesmen.NewClient(req),
		items:         items.NewClient(req),
		arps:          arps.NewClient(req),
		salesOrders:   salesorders.NewClient(req),
		salesInvoices: salesinvoices.NewClient(req),
	}
}

func (c *Client) Banks() *banks.Client                 { return c.banks }
func (c *Client) Salesmen() *salesmen.Client           { return c.salesmen }
func (c *Client) Items() *items.Client                 { return c.items }
func (c *Client) Arps() *arps.Client                   { return c.arps }
func (c *Client) SalesOrders() *salesorders.Client     { return c.salesOrders }
func (c *Client) SalesInvoices() *salesinvoices.Client { return c.salesInvoices }

// Entity returns an untyped client for any registered entity.
func (c *Client) Entity(name string) (*EntityClient[Record], error) {
	def, ok := c.registry.Get(name)
	if !ok {
		return nil, apperror.NewUnknownEntity(name)
	}
	return domain.NewEntityClient[Record](c.req, def), nil
}

// Entities lists the registered entity descriptors.
func (c *Client) Entities() []EntityDef {
	return c.registry.List()
}

// Ping authenticates against the API without touching any entity.
func (c *Client) Ping(ctx context.Context) error {
	if c.transport == nil {
		return nil
	}
	return c.transport.Ping(ctx)
}

// Logger is the logger type accepted by WithLogger.
type Logger = logger.Logger

// NopLogger returns a logger that discards everything.
func NopLogger() *Logger { return logger.Nop() }
