package models

// CourseStatus is the publication state of a course.
type CourseStatus string

const (
	CourseDraft     CourseStatus = "Draft"
	CoursePublished CourseStatus = "Published"
)

// ClassStatus is the scheduling state of a course run.
type ClassStatus string

const (
	ClassPending    ClassStatus = "Pending"
	ClassConfirmed  ClassStatus = "Confirmed"
	ClassCancelled  ClassStatus = "Cancelled"
	ClassReschedule ClassStatus = "Reschedule"
)

// GradeStatus is a per-(learner, assessment) competency result.
type GradeStatus string

const (
	GradeCompetent       GradeStatus = "Competent"
	GradeNotYetCompetent GradeStatus = "NotYetCompetent"
	GradePending         GradeStatus = "Pending"
)

// AssessmentState is the publication state of an assessment definition.
type AssessmentState string

const (
	AssessmentUnpublished AssessmentState = "Unpublished"
	AssessmentPublished   AssessmentState = "Published"
)

// ClaimStatus tracks a grant or claim with the funding agency.
type ClaimStatus string

const (
	ClaimSuccess       ClaimStatus = "Success"
	ClaimPending       ClaimStatus = "Pending"
	ClaimProcessing    ClaimStatus = "Processing"
	ClaimFailed        ClaimStatus = "Failed"
	ClaimNotApplicable ClaimStatus = "N/A"
)

// Role is a session role. The core performs no authorization itself;
// roles are consumed by the API middleware and by views.
type Role string

const (
	RoleLearner          Role = "Learner"
	RoleTrainer          Role = "Trainer"
	RoleDeveloper        Role = "Developer"
	RoleAdmin            Role = "Admin"
	RoleTrainingProvider Role = "TrainingProvider"
)

// OverallGrade collapses a learner's per-assessment grades into one status.
// Rule: no grades -> Pending; any NotYetCompetent -> NotYetCompetent;
// all Competent -> Competent; otherwise Pending.
func OverallGrade(grades []AssessmentGrade) GradeStatus {
	if len(grades) == 0 {
		return GradePending
	}
	allCompetent := true
	for _, g := range grades {
		if g.Status == GradeNotYetCompetent {
			return GradeNotYetCompetent
		}
		if g.Status != GradeCompetent {
			allCompetent = false
		}
	}
	if allCompetent {
		return GradeCompetent
	}
	return GradePending
}
