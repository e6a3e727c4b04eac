package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"crewledger/internal/domain/ledger"
	cryptoutil "crewledger/internal/platform/crypto"
)

// Exporter renders payroll entries as CSV or PDF. Archive writes the PDF to
// Dir, encrypted when a data key is configured.
type Exporter struct {
	Crypto *cryptoutil.Service
	Dir    string
}

func New(crypto *cryptoutil.Service, dir string) *Exporter {
	return &Exporter{Crypto: crypto, Dir: dir}
}

func (e *Exporter) CSV(entry ledger.PayrollEntry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{
		"employee_id", "employee_name", "pay_type",
		"regular_hours", "overtime_hours", "base_pay", "piece_rate_earnings",
		"per_diem", "fuel_allowance", "gross_pay",
		"tool_deductions", "child_support", "misc_deduction", "total_deductions",
		"net_pay", "banked_hours",
	}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for _, row := range entry.Rows {
		record := []string{
			row.EmployeeID,
			row.EmployeeName,
			row.PayType,
			money(row.RegularHours),
			money(row.OvertimeHours),
			money(row.BasePay),
			money(row.PieceRateEarnings),
			money(row.PerDiemTotal),
			money(row.FuelAllowance),
			money(row.GrossPay),
			money(row.ToolDeductions),
			money(row.ChildSupport),
			money(row.MiscDeduction),
			money(row.TotalDeductions),
			money(row.NetPay),
			money(row.BankedHours),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Exporter) PDF(entry ledger.PayrollEntry) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(80, 10, "Payroll Register")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s",
		entry.StartDate.Format("2006-01-02"), entry.EndDate.Format("2006-01-02")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 9)
	columns := []struct {
		width float64
		title string
	}{
		{60, "Employee"},
		{22, "Reg Hrs"},
		{22, "OT Hrs"},
		{28, "Base"},
		{28, "Piece"},
		{28, "Gross"},
		{28, "Deductions"},
		{28, "Net"},
	}
	for _, col := range columns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range entry.Rows {
		values := []string{
			row.EmployeeName,
			money(row.RegularHours),
			money(row.OvertimeHours),
			money(row.BasePay),
			money(row.PieceRateEarnings),
			money(row.GrossPay),
			money(row.TotalDeductions),
			money(row.NetPay),
		}
		for i, value := range values {
			pdf.CellFormat(columns[i].width, 7, value, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(0, 8, fmt.Sprintf("Totals: gross %s, deductions %s, net %s",
		money(entry.TotalGross), money(entry.TotalDeductions), money(entry.TotalNet)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Archive writes the entry's PDF into the export directory and returns the
// file path. The file gets an .enc suffix when encryption is configured.
func (e *Exporter) Archive(entry ledger.PayrollEntry) (string, error) {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", err
	}

	data, err := e.PDF(entry)
	if err != nil {
		return "", err
	}

	path := filepath.Join(e.Dir, "payroll-"+entry.ID+".pdf")
	if e.Crypto != nil && e.Crypto.Configured() {
		encrypted, err := e.Crypto.Encrypt(data)
		if err != nil {
			return "", err
		}
		path += ".enc"
		if err := os.WriteFile(path, encrypted, 0o600); err != nil {
			return "", err
		}
		return path, nil
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func money(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}
