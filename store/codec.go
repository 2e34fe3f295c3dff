package store

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"moatrack/record"
)

// columnByField maps document attribute names to moa_records columns.
var columnByField = map[string]string{
	record.FieldCompanyName:   "company_name",
	record.FieldAgreementType: "agreement_type",
	record.FieldAddress:       "address",
	record.FieldContactPerson: "contact_person",
	record.FieldDesignation:   "designation",
	record.FieldEmailAddress:  "email_address",
	record.FieldContactNumber: "contact_number",
	record.FieldStudentNames:  "student_names",
	record.FieldStudentCourse: "student_course",
	record.FieldRemarks:       "remarks",
	record.FieldStatus:        "status",
	record.FieldCompletedDate: "completed_date",

	string(record.DateProcessedNLO):          "date_processed_nlo",
	string(record.DateForwardedLCAO):         "date_forwarded_lcao",
	string(record.DateReceivedLCAO):          "date_received_lcao",
	string(record.DateForwardedAttorneys):    "date_forwarded_attorneys",
	string(record.DateReceivedLCAOWithCover): "date_received_lcao_with_cover",
	string(record.DateForwardedHost):         "date_forwarded_host",
	string(record.DateForwardedNEXUSS):       "date_forwarded_nexuss",
	string(record.DateReceivedNEXUSS):        "date_received_nexuss",
	string(record.DateForwardedEO):           "date_forwarded_eo",
	string(record.DateReceivedEO):            "date_received_eo",
}

const selectColumns = `
    id, company_name, agreement_type, address, contact_person, designation,
    email_address, contact_number, student_names, student_course, remarks,
    date_processed_nlo, date_forwarded_lcao, date_received_lcao,
    date_forwarded_attorneys, date_received_lcao_with_cover,
    date_forwarded_host, date_forwarded_nexuss, date_received_nexuss,
    date_forwarded_eo, date_received_eo,
    status, completed_date, created_at, updated_at`

// columnValue converts a domain attribute value to its stored form. The
// student list is stored as a JSON array (legacy delimited rows are still
// readable on the way out); enums become plain text; timestamps pass through
// as *time.Time so NULL stays distinct from the zero value.
func columnValue(field string, v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return x, nil
	case []string:
		return record.EncodeStudents(x), nil
	case record.AgreementType:
		return string(x), nil
	case record.Status:
		return string(x), nil
	case *time.Time:
		if x == nil {
			return nil, nil
		}
		return *x, nil
	case time.Time:
		return x, nil
	default:
		return nil, fmt.Errorf("store: unsupported value %T for field %s", v, field)
	}
}

func scanRecord(row pgx.Row) (record.Record, error) {
	var (
		r        record.Record
		students string
		agType   string
		status   string
	)
	err := row.Scan(
		&r.ID, &r.CompanyName, &agType, &r.Address, &r.ContactPerson,
		&r.Designation, &r.EmailAddress, &r.ContactNumber, &students,
		&r.StudentCourse, &r.Remarks,
		&r.DateProcessedNLO, &r.DateForwardedLCAO, &r.DateReceivedLCAO,
		&r.DateForwardedAttorneys, &r.DateReceivedLCAOWithCover,
		&r.DateForwardedHost, &r.DateForwardedNEXUSS, &r.DateReceivedNEXUSS,
		&r.DateForwardedEO, &r.DateReceivedEO,
		&status, &r.CompletedDate, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return record.Record{}, err
	}
	r.StudentNames = record.DecodeStudents(students)
	r.AgreementType = record.AgreementType(agType)
	r.Status = record.Status(status)
	return r, nil
}
