package models

import (
	"math"
	"time"
)

// Course is a schedulable class offering. It is stored and exchanged as one
// document: topics, assessments and the learner roster are owned exclusively
// by their course and are replaced wholesale on update, never patched.
type Course struct {
	ID              string       `json:"id"`
	Code            string       `json:"code"`
	RunID           string       `json:"run_id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	Status          CourseStatus `json:"status"`
	ClassStatus     ClassStatus  `json:"class_status"`
	StartDate       string       `json:"start_date"`
	EndDate         string       `json:"end_date"`
	TrainingHours   float64      `json:"training_hours"`
	AssessmentHours float64      `json:"assessment_hours"`
	Fee             float64      `json:"fee"`
	FundingEligible bool         `json:"funding_eligible"`
	Enrolled        bool         `json:"enrolled"`

	BookmarkedSubtopics []string            `json:"bookmarked_subtopics"`
	Topics              []Topic             `json:"topics"`
	Assessments         []Assessment        `json:"assessments"`
	Learners            []LearnerEnrollment `json:"learners"`

	Quiz         *Quiz    `json:"quiz,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
	DocumentURLs []string `json:"document_urls,omitempty"`
}

// TotalHours is the authoritative course duration wherever one is displayed.
func (c Course) TotalHours() float64 {
	return c.TrainingHours + c.AssessmentHours
}

// TotalSubtopics counts subtopics across every topic.
func (c Course) TotalSubtopics() int {
	n := 0
	for _, t := range c.Topics {
		n += len(t.Subtopics)
	}
	return n
}

// Learner returns a pointer into the roster for the given email, or nil.
func (c *Course) Learner(email string) *LearnerEnrollment {
	for i := range c.Learners {
		if c.Learners[i].Email == email {
			return &c.Learners[i]
		}
	}
	return nil
}

// HasAssessment reports whether an assessment id is defined on the course.
func (c Course) HasAssessment(id string) bool {
	for _, a := range c.Assessments {
		if a.ID == id {
			return true
		}
	}
	return false
}

// Topic is one section of a course outline.
type Topic struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Subtopics []Subtopic `json:"subtopics"`
}

// Subtopic carries authorable content and is the unit of completion and
// bookmark tracking.
type Subtopic struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	MediaURL string `json:"media_url,omitempty"`
}

// Assessment is a gradeable unit definition owned by a course. Distinct from
// AssessmentGrade (a learner's result) and Submission (a learner's artifact).
type Assessment struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Category   string          `json:"category"`
	Status     AssessmentState `json:"status"`
	AccessCode string          `json:"access_code,omitempty"`
	FileURL    string          `json:"file_url,omitempty"`
}

// Quiz is a generated quiz attached to a course.
type Quiz struct {
	Title     string         `json:"title"`
	Questions []QuizQuestion `json:"questions"`
}

type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   int      `json:"answer"`
}

// LearnerEnrollment is a learner's state within one course. It is a copy of
// the registry profile taken at enrollment time; edits here do not propagate
// back to the registry.
type LearnerEnrollment struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	DOB     string `json:"dob,omitempty"`
	Gender  string `json:"gender,omitempty"`
	Address string `json:"address,omitempty"`

	ProgressPercent    int               `json:"progress_percent"`
	CompletedSubtopics []string          `json:"completed_subtopics"`
	Grades             []AssessmentGrade `json:"grades"`
	Submissions        []Submission      `json:"submissions"`

	PaymentStatus string  `json:"payment_status,omitempty"`
	AmountPaid    float64 `json:"amount_paid,omitempty"`

	GrantStatus ClaimStatus `json:"grant_status,omitempty"`
	GrantID     string      `json:"grant_id,omitempty"`
	ClaimStatus ClaimStatus `json:"claim_status,omitempty"`
	ClaimID     string      `json:"claim_id,omitempty"`
}

// RecomputeProgress sets the learner's progress percentage from the completed
// set: round(100*k/N) over N subtopics in the course, 100 when the course has
// no subtopics at all.
func (l *LearnerEnrollment) RecomputeProgress(c Course) {
	total := c.TotalSubtopics()
	if total == 0 {
		l.ProgressPercent = 100
		return
	}
	l.ProgressPercent = int(math.Round(100 * float64(len(l.CompletedSubtopics)) / float64(total)))
}

// AssessmentGrade is one learner's result for one assessment. A learner holds
// at most one grade per assessment id.
type AssessmentGrade struct {
	AssessmentID string      `json:"assessment_id"`
	Status       GradeStatus `json:"status"`
}

// Submission is one learner's uploaded artifact for one assessment. A later
// submission for the same assessment replaces the earlier one.
type Submission struct {
	AssessmentID string    `json:"assessment_id"`
	Filename     string    `json:"filename"`
	SubmittedAt  time.Time `json:"submitted_at"`
}
