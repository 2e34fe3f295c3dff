package main

import (
	"time"

	"moatrack/record"
)

type recordResponse struct {
	ID            string   `json:"id"`
	CompanyName   string   `json:"companyName"`
	AgreementType string   `json:"agreementType"`
	Address       string   `json:"address"`
	ContactPerson string   `json:"contactPerson"`
	Designation   string   `json:"designation"`
	EmailAddress  string   `json:"emailAddress"`
	ContactNumber string   `json:"contactNumber"`
	StudentNames  []string `json:"studentNames"`
	StudentCourse string   `json:"studentCourse"`
	Remarks       string   `json:"remarks"`

	Milestones map[string]*string `json:"milestones"`

	CurrentStep   int     `json:"currentStep"`
	Status        string  `json:"status"`
	CompletedDate *string `json:"completedDate"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type listResponse struct {
	Items []recordResponse `json:"items"`
	Total int              `json:"total"`
	Years []int            `json:"years,omitempty"`
}

type matchResponse struct {
	ID          string  `json:"id"`
	CompanyName string  `json:"companyName"`
	Score       float64 `json:"score"`
	Kind        string  `json:"kind"`
}

type duplicateResponse struct {
	Error string        `json:"error"`
	Match matchResponse `json:"match"`
}

func toRecordResponse(r *record.Record) recordResponse {
	milestones := make(map[string]*string, 10)
	for _, m := range record.Milestones() {
		milestones[string(m)] = rfc3339(r.MilestoneAt(m))
	}

	return recordResponse{
		ID:            r.ID,
		CompanyName:   r.CompanyName,
		AgreementType: string(r.AgreementType),
		Address:       r.Address,
		ContactPerson: r.ContactPerson,
		Designation:   r.Designation,
		EmailAddress:  r.EmailAddress,
		ContactNumber: r.ContactNumber,
		StudentNames:  r.StudentNames,
		StudentCourse: r.StudentCourse,
		Remarks:       r.Remarks,
		Milestones:    milestones,
		CurrentStep:   record.CurrentStep(r),
		Status:        string(r.Status),
		CompletedDate: rfc3339(r.CompletedDate),
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     r.UpdatedAt.Format(time.RFC3339),
	}
}

func rfc3339(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
