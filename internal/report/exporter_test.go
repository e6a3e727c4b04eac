package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"strings"
	"testing"
	"time"

	"crewledger/internal/domain/ledger"
	cryptoutil "crewledger/internal/platform/crypto"
)

func sampleEntry() ledger.PayrollEntry {
	return ledger.PayrollEntry{
		ID:        "pay-1",
		StartDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC),
		Rows: []ledger.PayrollRow{{
			EmployeeID:        "emp-1",
			EmployeeName:      "Ana Reyes",
			PayType:           ledger.PayTypeHourly,
			RegularHours:      40,
			OvertimeHours:     5,
			BasePay:           950,
			PieceRateEarnings: 106.25,
			GrossPay:          1056.25,
			ToolDeductions:    100,
			TotalDeductions:   100,
			NetPay:            956.25,
		}},
		TotalGross:      1056.25,
		TotalDeductions: 100,
		TotalNet:        956.25,
	}
}

func TestCSVContainsHeaderAndRows(t *testing.T) {
	exporter := New(nil, t.TempDir())

	data, err := exporter.CSV(sampleEntry())
	if err != nil {
		t.Fatalf("csv export: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse exported csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus 1 row, got %d records", len(records))
	}
	if records[0][0] != "employee_id" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	row := records[1]
	if row[1] != "Ana Reyes" || row[5] != "950.00" || row[14] != "956.25" {
		t.Fatalf("unexpected row values: %v", row)
	}
}

func TestPDFProducesDocument(t *testing.T) {
	exporter := New(nil, t.TempDir())

	data, err := exporter.PDF(sampleEntry())
	if err != nil {
		t.Fatalf("pdf export: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output does not look like a pdf, starts with %q", data[:minInt(8, len(data))])
	}
}

func TestArchiveWritesEncryptedFile(t *testing.T) {
	crypto, err := cryptoutil.New(strings.Repeat("ab", 32))
	if err != nil {
		t.Fatalf("crypto service: %v", err)
	}
	dir := t.TempDir()
	exporter := New(crypto, dir)

	path, err := exporter.Archive(sampleEntry())
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if !strings.HasSuffix(path, ".enc") {
		t.Fatalf("expected encrypted archive, got %s", path)
	}

	sealed, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	if bytes.HasPrefix(sealed, []byte("%PDF")) {
		t.Fatal("archived file is not encrypted")
	}

	plain, err := crypto.Decrypt(sealed)
	if err != nil {
		t.Fatalf("decrypt archive: %v", err)
	}
	if !bytes.HasPrefix(plain, []byte("%PDF")) {
		t.Fatal("decrypted archive is not a pdf")
	}
}

func TestArchivePlainWithoutKey(t *testing.T) {
	dir := t.TempDir()
	exporter := New(nil, dir)

	path, err := exporter.Archive(sampleEntry())
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if strings.HasSuffix(path, ".enc") {
		t.Fatalf("expected plain archive, got %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("archived file is not a pdf")
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
