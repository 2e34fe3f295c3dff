// Package export renders record snapshots as Excel workbooks.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"moatrack/record"
)

// Mode selects the row layout of the exported sheet.
type Mode string

const (
	// ModeFull emits one row per record with every tracked attribute.
	ModeFull Mode = "full"
	// ModeStudentFlattened emits one row per student, repeating the
	// company, agreement type, and status on each row. Records without
	// students contribute no rows.
	ModeStudentFlattened Mode = "students"
)

// SheetName is the single sheet every workbook carries.
const SheetName = "MOA Records"

const cellTimeLayout = "2006-01-02 15:04"

var milestoneHeaders = map[record.Milestone]string{
	record.DateProcessedNLO:          "Date Processed by NLO",
	record.DateForwardedLCAO:         "Date Forwarded to LCAO",
	record.DateReceivedLCAO:          "Date Received from LCAO",
	record.DateForwardedAttorneys:    "Date Forwarded to Attorneys",
	record.DateReceivedLCAOWithCover: "Date Received from LCAO with Cover",
	record.DateForwardedHost:         "Date Forwarded to Host",
	record.DateForwardedNEXUSS:       "Date Forwarded to NEXUSS",
	record.DateReceivedNEXUSS:        "Date Received from NEXUSS",
	record.DateForwardedEO:           "Date Forwarded to EO",
	record.DateReceivedEO:            "Date Received from EO",
}

// Write renders records in the given mode and streams the workbook to w.
func Write(w io.Writer, records []record.Record, mode Mode) error {
	f, err := Workbook(records, mode)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

// Workbook builds the export workbook. The caller owns closing the file.
func Workbook(records []record.Record, mode Mode) (*excelize.File, error) {
	var rows [][]any
	switch mode {
	case ModeFull, "":
		rows = fullRows(records)
	case ModeStudentFlattened:
		rows = studentRows(records)
	default:
		return nil, fmt.Errorf("export: unknown mode %q", mode)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("export: name sheet: %w", err)
	}

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("export: cell name: %w", err)
			}
			if err := f.SetCellValue(SheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("export: set cell %s: %w", cell, err)
			}
		}
	}

	return f, nil
}

func fullRows(records []record.Record) [][]any {
	header := []any{
		"Company Name", "Agreement Type", "Address", "Contact Person",
		"Designation", "Email Address", "Contact Number", "Student Names",
		"Student Course", "Remarks",
	}
	for _, m := range record.Milestones() {
		header = append(header, milestoneHeaders[m])
	}
	header = append(header, "Status", "Completed Date")

	rows := [][]any{header}
	for i := range records {
		r := &records[i]
		row := []any{
			r.CompanyName, string(r.AgreementType), r.Address,
			r.ContactPerson, r.Designation, r.EmailAddress,
			r.ContactNumber, record.JoinStudents(r.StudentNames),
			r.StudentCourse, r.Remarks,
		}
		for _, m := range record.Milestones() {
			row = append(row, cellTime(r.MilestoneAt(m)))
		}
		row = append(row, string(r.Status), cellTime(r.CompletedDate))
		rows = append(rows, row)
	}
	return rows
}

func studentRows(records []record.Record) [][]any {
	rows := [][]any{{
		"Student Name", "Student Course", "Company Name",
		"Agreement Type", "Status",
	}}
	for i := range records {
		r := &records[i]
		for _, name := range r.StudentNames {
			rows = append(rows, []any{
				name, r.StudentCourse, r.CompanyName,
				string(r.AgreementType), string(r.Status),
			})
		}
	}
	return rows
}

func cellTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(cellTimeLayout)
}
