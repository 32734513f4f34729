package repositories

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DecimalRange holds optional comparisons against a decimal column.
type DecimalRange struct {
	Exact *decimal.Decimal
	LT    *decimal.Decimal
	GT    *decimal.Decimal
	LTE   *decimal.Decimal
	GTE   *decimal.Decimal
}

// DateRange holds optional day-precision comparisons against a timestamp
// column. Days are interpreted in UTC.
type DateRange struct {
	On   *time.Time
	From *time.Time
	To   *time.Time
}

type ProductFilter struct {
	NameIExact           string
	NameIContains        string
	DescriptionIContains string
	Price                DecimalRange
}

type ReviewFilter struct {
	UserID    uint
	ProductID uint
	CreatedAt DateRange
}

type OrderFilter struct {
	// UserID restricts the listing to a single owner when non-zero.
	UserID       uint
	StatusIExact string
	TotalAmount  DecimalRange
	CreatedAt    DateRange
	UpdatedAt    DateRange
	ProductID    uint
}

type CollectionFilter struct {
	NameIExact    string
	NameIContains string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func iexact(column, value string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if value == "" {
			return db
		}
		return db.Where("LOWER("+column+") = LOWER(?)", value)
	}
}

func icontains(column, value string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if value == "" {
			return db
		}
		pattern := "%" + likeEscaper.Replace(strings.ToLower(value)) + "%"
		return db.Where("LOWER("+column+`) LIKE ? ESCAPE '\'`, pattern)
	}
}

func decimalRange(column string, r DecimalRange) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if r.Exact != nil {
			db = db.Where(column+" = ?", *r.Exact)
		}
		if r.LT != nil {
			db = db.Where(column+" < ?", *r.LT)
		}
		if r.GT != nil {
			db = db.Where(column+" > ?", *r.GT)
		}
		if r.LTE != nil {
			db = db.Where(column+" <= ?", *r.LTE)
		}
		if r.GTE != nil {
			db = db.Where(column+" >= ?", *r.GTE)
		}
		return db
	}
}

func dateRange(column string, r DateRange) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if r.On != nil {
			start := startOfDay(*r.On)
			db = db.Where(column+" >= ? AND "+column+" < ?", start, start.AddDate(0, 0, 1))
		}
		if r.From != nil {
			db = db.Where(column+" >= ?", startOfDay(*r.From))
		}
		if r.To != nil {
			db = db.Where(column+" < ?", startOfDay(*r.To).AddDate(0, 0, 1))
		}
		return db
	}
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
