// Package export renders orders into downloadable spreadsheets.
package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"ordertrack/internal/domain"
	apperrors "ordertrack/internal/errors"
	"ordertrack/internal/summary"
)

const (
	OrdersSheet  = "Orders"
	SummarySheet = "Summary"
	InvoiceSheet = "Invoice"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var orderHeaders = []string{"Code", "Client", "Phone", "Price", "Status", "Priority", "Comment", "Scanned", "Created"}

var invoiceHeaders = []string{"Code", "Client", "Phone", "Price", "Commission", "Net"}

// RenderOrders writes every order plus a summary sheet computed with the
// given commission.
func RenderOrders(orders []domain.Order, commission decimal.Decimal) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", OrdersSheet); err != nil {
		return nil, renderError(err)
	}
	if err := writeHeader(f, OrdersSheet, 1, orderHeaders); err != nil {
		return nil, renderError(err)
	}

	for i, o := range orders {
		row := i + 2
		prio := ""
		if p, ok := o.Priority(); ok {
			prio = strconv.Itoa(p)
		}
		values := []interface{}{
			o.Code,
			o.Client,
			o.Phone,
			o.Price.InexactFloat64(),
			string(o.Status),
			prio,
			o.CommentText(),
			o.IsScanned,
			o.CreatedAt.Format(time.DateTime),
		}
		if err := writeRow(f, OrdersSheet, row, values); err != nil {
			return nil, renderError(err)
		}
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, renderError(err)
	}
	s := summary.Calculate(orders, commission)
	lines := [][]interface{}{
		{"Total orders", s.TotalOrders},
		{"Delivered orders", s.DeliveredCount},
		{"Delivery percentage", s.DeliveryPercentage},
		{"Total amount", s.TotalAmount.InexactFloat64()},
		{"Commission per order", commission.InexactFloat64()},
		{"Total commission", s.TotalCommission.InexactFloat64()},
		{"Revenue", s.Revenue.InexactFloat64()},
	}
	for i, line := range lines {
		if err := writeRow(f, SummarySheet, i+1, line); err != nil {
			return nil, renderError(err)
		}
	}

	if err := f.SetPanes(OrdersSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2"}); err != nil {
		return nil, renderError(err)
	}
	if err := f.SetColWidth(OrdersSheet, "A", "I", 16); err != nil {
		return nil, renderError(err)
	}

	return finish(f)
}

// RenderInvoice lists delivered orders only, each charged the flat
// commission, with a totals row.
func RenderInvoice(orders []domain.Order, commission decimal.Decimal, issuedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", InvoiceSheet); err != nil {
		return nil, renderError(err)
	}

	if err := writeRow(f, InvoiceSheet, 1, []interface{}{"Invoice", issuedAt.Format(time.DateOnly)}); err != nil {
		return nil, renderError(err)
	}
	if err := writeHeader(f, InvoiceSheet, 3, invoiceHeaders); err != nil {
		return nil, renderError(err)
	}

	row := 4
	var delivered []domain.Order
	for _, o := range orders {
		if !o.IsDelivered() {
			continue
		}
		delivered = append(delivered, o)
		net := o.Price.Sub(commission)
		values := []interface{}{
			o.Code,
			o.Client,
			o.Phone,
			o.Price.InexactFloat64(),
			commission.InexactFloat64(),
			net.InexactFloat64(),
		}
		if err := writeRow(f, InvoiceSheet, row, values); err != nil {
			return nil, renderError(err)
		}
		row++
	}

	s := summary.Calculate(delivered, commission)
	totals := []interface{}{
		"Total",
		fmt.Sprintf("%d orders", s.DeliveredCount),
		"",
		s.TotalAmount.InexactFloat64(),
		s.TotalCommission.InexactFloat64(),
		s.Revenue.InexactFloat64(),
	}
	if err := writeRow(f, InvoiceSheet, row, totals); err != nil {
		return nil, renderError(err)
	}

	return finish(f)
}

func writeHeader(f *excelize.File, sheet string, row int, headers []string) error {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := writeRow(f, sheet, row, values); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return err
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(headers), row)
	return f.SetCellStyle(sheet, first, last, style)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func finish(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, renderError(err)
	}
	return buf.Bytes(), nil
}

func renderError(err error) error {
	return apperrors.NewCapabilityUnavailableError("export", err)
}
