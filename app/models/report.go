package models

import "errors"

// Validate checks that the report names a post and a reporter.
func (r *Report) Validate() error {
	if r.PostID == "" {
		return errors.New("report must reference a post")
	}
	if r.ReporterID == "" {
		return errors.New("report must have a reporter")
	}
	return nil
}

// BeforeCreate marks a new report as pending review.
func (r *Report) BeforeCreate() {
	if r.Status == "" {
		r.Status = ReportPending
	}
}
