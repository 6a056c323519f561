package models

import "time"

// LearnerProfile is an entry in the global learner registry. Roster entries
// are copied from here on enrollment.
type LearnerProfile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	DOB     string `json:"dob,omitempty"`
	Gender  string `json:"gender,omitempty"`
	Address string `json:"address,omitempty"`
}

// Enrollment builds a fresh roster entry from the profile.
func (p LearnerProfile) Enrollment() LearnerEnrollment {
	return LearnerEnrollment{
		Name:               p.Name,
		Email:              p.Email,
		Phone:              p.Phone,
		DOB:                p.DOB,
		Gender:             p.Gender,
		Address:            p.Address,
		CompletedSubtopics: []string{},
		Grades:             []AssessmentGrade{},
		Submissions:        []Submission{},
		GrantStatus:        ClaimNotApplicable,
		ClaimStatus:        ClaimNotApplicable,
	}
}

// CalendarEvent is a scheduled session on the training calendar.
type CalendarEvent struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Location  string `json:"location,omitempty"`
	CourseID  string `json:"course_id,omitempty"`
	Trainer   string `json:"trainer,omitempty"`
}

// GrantApplication is a funding application submitted to the agency.
type GrantApplication struct {
	ID           string      `json:"id"`
	CourseID     string      `json:"course_id"`
	CourseTitle  string      `json:"course_title"`
	LearnerName  string      `json:"learner_name"`
	LearnerEmail string      `json:"learner_email"`
	Amount       float64     `json:"amount"`
	Status       ClaimStatus `json:"status"`
	SubmittedAt  time.Time   `json:"submitted_at"`
}

// JobPosting is a read-mostly listing on the careers board.
type JobPosting struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Salary      string    `json:"salary,omitempty"`
	PostedAt    time.Time `json:"posted_at"`
}
