package model

import (
	"bytes"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// SaleTimeLayout is the only accepted input format for sale bounds, e.g. "12:03 PM 16 April 2018".
const SaleTimeLayout = "3:04 PM 2 January 2006"

const warrantyHeading = "\n\nWarranty\n\n"

// Product represents a catalog item with its price, optional sale window and photo.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	SaleStart   *time.Time
	SaleEnd     *time.Time
	// Photo is the storage reference of the uploaded image, empty when there is none.
	Photo     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// InitMeta initializes the product timestamps. The ID is assigned by the store.
func (p *Product) InitMeta() {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
}

// Touch bumps the modification timestamp.
func (p *Product) Touch() {
	p.UpdatedAt = time.Now().UTC()
}

// IsOnSale reports whether now lies within [SaleStart, SaleEnd]. Both bounds must be set.
func (p *Product) IsOnSale(now time.Time) bool {
	if p.SaleStart == nil || p.SaleEnd == nil {
		return false
	}
	return !now.Before(*p.SaleStart) && !now.After(*p.SaleEnd)
}

// CurrentPrice is the price a buyer pays. There is no discount logic, it is always Price.
func (p *Product) CurrentPrice() float64 {
	return p.Price.InexactFloat64()
}

// AppendWarranty appends the warranty text under a "Warranty" heading. Lines are joined
// with "; " and keep their terminators. The result is not checked against the
// description length limit.
func (p *Product) AppendWarranty(content []byte) error {
	if !utf8.Valid(content) {
		return NewValidationError(FieldWarranty, MsgWarrantyNotText)
	}

	lines := bytes.SplitAfter(content, []byte("\n"))
	if len(lines) > 0 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}

	var sb strings.Builder
	sb.WriteString(p.Description)
	sb.WriteString(warrantyHeading)
	sb.Write(bytes.Join(lines, []byte("; ")))
	p.Description = sb.String()
	return nil
}

// ParseSaleTime parses a sale bound in SaleTimeLayout. The result is in UTC.
func ParseSaleTime(raw string) (time.Time, error) {
	t, err := time.Parse(SaleTimeLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
