package store

import (
	"time"

	"tms/backend/models"
)

// seedState is the demo dataset a fresh file store starts from.
func seedState() fileState {
	return fileState{
		Courses: []models.Course{
			{
				ID:                  "crs-101",
				Code:                "WSQ-FSS-1",
				RunID:               "run-2024-01",
				Title:               "Food Safety Level 1",
				Description:         "Basic food hygiene and safety for F&B staff.",
				Status:              models.CoursePublished,
				ClassStatus:         models.ClassConfirmed,
				StartDate:           "2024-02-05",
				EndDate:             "2024-02-07",
				TrainingHours:       14,
				AssessmentHours:     2,
				Fee:                 380,
				FundingEligible:     true,
				BookmarkedSubtopics: []string{},
				Topics: []models.Topic{
					{
						ID:    "t1",
						Title: "Personal Hygiene",
						Subtopics: []models.Subtopic{
							{ID: "st1", Title: "Handwashing", Content: "When and how to wash hands."},
							{ID: "st2", Title: "Protective Attire", Content: "Gloves, hairnets and aprons."},
						},
					},
					{
						ID:    "t2",
						Title: "Food Storage",
						Subtopics: []models.Subtopic{
							{ID: "st3", Title: "Temperature Control", Content: "Danger zone and cold chain."},
						},
					},
				},
				Assessments: []models.Assessment{
					{ID: "a1", Title: "Written Assessment", Category: "Written", Status: models.AssessmentPublished},
					{ID: "a2", Title: "Practical Assessment", Category: "Practical", Status: models.AssessmentUnpublished},
				},
				Learners: []models.LearnerEnrollment{},
			},
			{
				ID:                  "crs-102",
				Code:                "WSQ-WPH-2",
				RunID:               "run-2024-02",
				Title:               "Workplace Safety and Health",
				Status:              models.CourseDraft,
				ClassStatus:         models.ClassPending,
				StartDate:           "2024-03-11",
				EndDate:             "2024-03-15",
				TrainingHours:       30,
				AssessmentHours:     4,
				Fee:                 650,
				BookmarkedSubtopics: []string{},
				Topics:              []models.Topic{},
				Assessments:         []models.Assessment{},
				Learners:            []models.LearnerEnrollment{},
			},
		},
		Events: []models.CalendarEvent{
			{ID: "evt-1", Title: "FSS-1 Day 1", Date: "2024-02-05", StartTime: "09:00", EndTime: "17:00", Location: "Room 3A", CourseID: "crs-101", Trainer: "J. Lim"},
		},
		Grants: []models.GrantApplication{
			{ID: "grt-1", CourseID: "crs-101", CourseTitle: "Food Safety Level 1", LearnerName: "Tan Wei Ming", LearnerEmail: "weiming@example.com", Amount: 266, Status: models.ClaimPending, SubmittedAt: time.Date(2024, 1, 18, 9, 30, 0, 0, time.UTC)},
		},
		Learners: []models.LearnerProfile{
			{Name: "Tan Wei Ming", Email: "weiming@example.com", Phone: "91234567"},
			{Name: "Nur Aisyah", Email: "aisyah@example.com", Phone: "98765432"},
		},
		Jobs: []models.JobPosting{
			{ID: "job-1", Title: "Kitchen Supervisor", Company: "Harbour Catering", Location: "Jurong", Description: "Supervise food prep and hygiene compliance.", Salary: "$2,800 - $3,400", PostedAt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
		},
	}
}
