// Package export writes customer data to an XLSX workbook.
package export

import (
	"fmt"
	"io"

	"github.com/tealeg/xlsx/v2"

	"github.com/alexanderramin/leadpipe/internal/analytics"
	"github.com/alexanderramin/leadpipe/internal/domain"
	"github.com/alexanderramin/leadpipe/internal/valuation"
)

const (
	CustomersSheet = "Customers"
	ServicesSheet  = "Services"

	dateLayout = "2006-01-02"
)

var customerHeader = []string{
	"Name", "Company", "Email", "Phone", "Service", "Frequency",
	"Line Items Total", "Contract Value", "Converted", "Status", "Property Address",
}

var serviceHeader = []string{"Service", "Customers", "Revenue", "Average"}

// Workbook builds a workbook with one row per customer and the per-service
// revenue breakdown of the active customers.
func Workbook(customers []domain.Lead) (*xlsx.File, error) {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet(CustomersSheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx: add sheet %s: %w", CustomersSheet, err)
	}
	addStrings(sheet.AddRow(), customerHeader...)
	for _, l := range customers {
		addCustomerRow(sheet.AddRow(), l)
	}

	sheet, err = f.AddSheet(ServicesSheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx: add sheet %s: %w", ServicesSheet, err)
	}
	addStrings(sheet.AddRow(), serviceHeader...)
	for _, s := range analytics.ServiceBreakdown(customers) {
		row := sheet.AddRow()
		row.AddCell().SetString(s.Service)
		row.AddCell().SetInt(s.Count)
		row.AddCell().SetFloat(s.Revenue)
		row.AddCell().SetFloat(s.Average)
	}
	return f, nil
}

// Write encodes the workbook for customers to w.
func Write(w io.Writer, customers []domain.Lead) error {
	f, err := Workbook(customers)
	if err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: write: %w", err)
	}
	return nil
}

// SaveFile writes the workbook for customers to path.
func SaveFile(path string, customers []domain.Lead) error {
	f, err := Workbook(customers)
	if err != nil {
		return err
	}
	if err := f.Save(path); err != nil {
		return fmt.Errorf("xlsx: save %s: %w", path, err)
	}
	return nil
}

func addCustomerRow(row *xlsx.Row, l domain.Lead) {
	var c domain.CustomerData
	if l.Customer != nil {
		c = *l.Customer
	}
	converted := ""
	if l.ConvertedAt != nil {
		converted = l.ConvertedAt.Format(dateLayout)
	}
	status := "Active"
	if l.CustomerArchived() {
		status = "Archived"
	}

	addStrings(row,
		domain.CoalesceStr(c.FullName(), l.Name),
		c.CompanyName,
		domain.CoalesceStr(c.Email, l.Email),
		domain.CoalesceStr(c.Phone, l.Phone),
		c.JobTitle,
		string(c.JobType),
	)
	row.AddCell().SetFloat(valuation.LineItemsTotal(c.LineItems))
	row.AddCell().SetFloat(valuation.ContractValue(l))
	addStrings(row, converted, status, c.PropertyAddress.String())
}

func addStrings(row *xlsx.Row, values ...string) {
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}
