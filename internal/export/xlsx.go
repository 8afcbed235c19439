package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"gl-reconciliation-service/internal/models"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	DetailsSheet = "Details"
	RollupsSheet = "Rollups"
)

var reconciliationHeaders = []string{
	"Account Number", "Account Name", "Account Type", "Store Number",
	"Depr Units", "Non Depr", "Report Total", "GL Balance", "Difference",
}

// WriteReconciliation renders the report as a workbook with one sheet for
// detail lines and one for account rollups.
func WriteReconciliation(w io.Writer, report *models.ReconciliationReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", DetailsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(RollupsSheet); err != nil {
		return err
	}

	if err := writeLines(f, DetailsSheet, report.Details); err != nil {
		return err
	}
	if err := writeLines(f, RollupsSheet, report.Rollups); err != nil {
		return err
	}
	return f.Write(w)
}

func writeLines(f *excelize.File, sheet string, lines []models.ReconciliationLine) error {
	headers := make([]any, len(reconciliationHeaders))
	for i, h := range reconciliationHeaders {
		headers[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}

	for i, line := range lines {
		var store any = ""
		if line.StoreNumber != nil {
			store = *line.StoreNumber
		}
		row := []any{
			line.AccountNumber,
			line.AccountName,
			string(line.AccountType),
			store,
			line.DeprUnits.InexactFloat64(),
			line.NonDepr.InexactFloat64(),
			line.ReportTotal.InexactFloat64(),
			line.GLBalance.InexactFloat64(),
			line.Difference.InexactFloat64(),
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}
