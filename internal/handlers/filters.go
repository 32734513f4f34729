package handlers

import (
	"fmt"
	"strconv"
	"time"

	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type productQuery struct {
	NameIExact           string `query:"name__iexact"`
	NameIContains        string `query:"name__icontains"`
	DescriptionIContains string `query:"description__icontains"`
	Price                string `query:"price"`
	PriceLTE             string `query:"price__lte"`
	PriceGTE             string `query:"price__gte"`
}

type reviewQuery struct {
	User         string `query:"user"`
	Product      string `query:"product"`
	CreatedOn    string `query:"created_at__date"`
	CreatedFrom  string `query:"created_at__date__gte"`
	CreatedUntil string `query:"created_at__date__lte"`
}

type orderQuery struct {
	StatusIExact   string `query:"status__iexact"`
	TotalAmount    string `query:"total_amount"`
	TotalAmountLT  string `query:"total_amount__lt"`
	TotalAmountGT  string `query:"total_amount__gt"`
	TotalAmountLTE string `query:"total_amount__lte"`
	TotalAmountGTE string `query:"total_amount__gte"`
	CreatedOn      string `query:"created_at__date"`
	CreatedFrom    string `query:"created_at__date__gte"`
	CreatedUntil   string `query:"created_at__date__lte"`
	UpdatedOn      string `query:"updated_at__date"`
	UpdatedFrom    string `query:"updated_at__date__gte"`
	UpdatedUntil   string `query:"updated_at__date__lte"`
	ProductID      string `query:"products__id"`
}

type collectionQuery struct {
	NameIExact    string `query:"name__iexact"`
	NameIContains string `query:"name__icontains"`
}

// filterParser accumulates the first malformed parameter it meets.
type filterParser struct {
	err error
}

func (p *filterParser) fail(param, value, kind string) {
	if p.err == nil {
		p.err = services.NewValidationError(param, services.CodeInvalidFilter, fmt.Sprintf("%q is not a valid %s", value, kind))
	}
}

func (p *filterParser) decimal(param, value string) *decimal.Decimal {
	if value == "" {
		return nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		p.fail(param, value, "number")
		return nil
	}
	return &d
}

func (p *filterParser) date(param, value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		p.fail(param, value, "date")
		return nil
	}
	return &t
}

func (p *filterParser) id(param, value string) uint {
	if value == "" {
		return 0
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil || n == 0 {
		p.fail(param, value, "id")
		return 0
	}
	return uint(n)
}

func parseQuery(c *fiber.Ctx, dst interface{}) error {
	if err := c.QueryParser(dst); err != nil {
		return services.NewValidationError("", services.CodeInvalidFilter, err.Error())
	}
	return nil
}

func productFilter(c *fiber.Ctx) (repositories.ProductFilter, error) {
	var q productQuery
	if err := parseQuery(c, &q); err != nil {
		return repositories.ProductFilter{}, err
	}
	var p filterParser
	f := repositories.ProductFilter{
		NameIExact:           q.NameIExact,
		NameIContains:        q.NameIContains,
		DescriptionIContains: q.DescriptionIContains,
		Price: repositories.DecimalRange{
			Exact: p.decimal("price", q.Price),
			LTE:   p.decimal("price__lte", q.PriceLTE),
			GTE:   p.decimal("price__gte", q.PriceGTE),
		},
	}
	return f, p.err
}

func reviewFilter(c *fiber.Ctx) (repositories.ReviewFilter, error) {
	var q reviewQuery
	if err := parseQuery(c, &q); err != nil {
		return repositories.ReviewFilter{}, err
	}
	var p filterParser
	f := repositories.ReviewFilter{
		UserID:    p.id("user", q.User),
		ProductID: p.id("product", q.Product),
		CreatedAt: repositories.DateRange{
			On:   p.date("created_at__date", q.CreatedOn),
			From: p.date("created_at__date__gte", q.CreatedFrom),
			To:   p.date("created_at__date__lte", q.CreatedUntil),
		},
	}
	return f, p.err
}

func orderFilter(c *fiber.Ctx) (repositories.OrderFilter, error) {
	var q orderQuery
	if err := parseQuery(c, &q); err != nil {
		return repositories.OrderFilter{}, err
	}
	var p filterParser
	f := repositories.OrderFilter{
		StatusIExact: q.StatusIExact,
		TotalAmount: repositories.DecimalRange{
			Exact: p.decimal("total_amount", q.TotalAmount),
			LT:    p.decimal("total_amount__lt", q.TotalAmountLT),
			GT:    p.decimal("total_amount__gt", q.TotalAmountGT),
			LTE:   p.decimal("total_amount__lte", q.TotalAmountLTE),
			GTE:   p.decimal("total_amount__gte", q.TotalAmountGTE),
		},
		CreatedAt: repositories.DateRange{
			On:   p.date("created_at__date", q.CreatedOn),
			From: p.date("created_at__date__gte", q.CreatedFrom),
			To:   p.date("created_at__date__lte", q.CreatedUntil),
		},
		UpdatedAt: repositories.DateRange{
			On:   p.date("updated_at__date", q.UpdatedOn),
			From: p.date("updated_at__date__gte", q.UpdatedFrom),
			To:   p.date("updated_at__date__lte", q.UpdatedUntil),
		},
		ProductID: p.id("products__id", q.ProductID),
	}
	return f, p.err
}

func collectionFilter(c *fiber.Ctx) (repositories.CollectionFilter, error) {
	var q collectionQuery
	if err := parseQuery(c, &q); err != nil {
		return repositories.CollectionFilter{}, err
	}
	return repositories.CollectionFilter{
		NameIExact:    q.NameIExact,
		NameIContains: q.NameIContains,
	}, nil
}
