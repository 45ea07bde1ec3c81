package service

import "github.com/VWTAlpine/Gradevue2UI-sub000/internal/models"

// DemoGradebook returns the canned gradebook served to the demo account.
// Demo sessions never touch the upstream service, so the data is fully
// deterministic and safe to exercise the what-if and diff paths against.
func DemoGradebook() *models.Gradebook {
	return &models.Gradebook{
		ReportingPeriod: models.ReportingPeriod{
			Name:      "Quarter 3",
			StartDate: "01/26/2026",
			EndDate:   "04/03/2026",
			Index:     2,
		},
		ReportingPeriods: []models.ReportingPeriod{
			{Name: "Quarter 1", StartDate: "08/18/2025", EndDate: "10/17/2025", Index: 0},
			{Name: "Quarter 2", StartDate: "10/20/2025", EndDate: "01/23/2026", Index: 1},
			{Name: "Quarter 3", StartDate: "01/26/2026", EndDate: "04/03/2026", Index: 2},
		},
		StudentInfo: &models.StudentInfo{
			Name:   "Demo Student",
			PermID: "000000",
			Grade:  "11",
			School: "GradeVue High School",
		},
		Courses: []*models.Course{
			{
				ID:          "course-0",
				Name:        "AP Calculus BC",
				Period:      1,
				Teacher:     "R. Feynman",
				Room:        "214",
				Grade:       floatPtr(91.25),
				LetterGrade: "A-",
				Categories: []models.Category{
					{Name: "Tests", Weight: 0.6, Score: floatPtr(90), Points: "135 / 150"},
					{Name: "Homework", Weight: 0.4, Score: floatPtr(93.125), Points: "74.5 / 80"},
				},
				Assignments: []models.Assignment{
					{
						Name:           "Unit 7 Test: Differential Equations",
						Type:           "Tests",
						Date:           "02/20/2026",
						DueDate:        "02/20/2026",
						Score:          "88 out of 100",
						ScoreType:      "Raw Score",
						Points:         "88 / 100",
						PointsEarned:   floatPtr(88),
						PointsPossible: floatPtr(100),
					},
					{
						Name:           "Unit 6 Test: Integration Techniques",
						Type:           "Tests",
						Date:           "02/02/2026",
						DueDate:        "02/02/2026",
						Score:          "47 out of 50",
						ScoreType:      "Raw Score",
						Points:         "47 / 50",
						PointsEarned:   floatPtr(47),
						PointsPossible: floatPtr(50),
					},
					{
						Name:           "Homework 7.1-7.4",
						Type:           "Homework",
						Date:           "02/17/2026",
						DueDate:        "02/17/2026",
						Score:          "38 out of 40",
						ScoreType:      "Raw Score",
						Points:         "38 / 40",
						PointsEarned:   floatPtr(38),
						PointsPossible: floatPtr(40),
					},
					{
						Name:           "Homework 6.5-6.9",
						Type:           "Homework",
						Date:           "01/30/2026",
						DueDate:        "01/30/2026",
						Score:          "36.5 out of 40",
						ScoreType:      "Raw Score",
						Points:         "36.5 / 40",
						PointsEarned:   floatPtr(36.5),
						PointsPossible: floatPtr(40),
					},
				},
			},
			{
				ID:          "course-1",
				Name:        "AP English Language",
				Period:      2,
				Teacher:     "J. Baldwin",
				Room:        "108",
				Grade:       floatPtr(87.4),
				LetterGrade: "B+",
				Categories: []models.Category{
					{Name: "Essays", Weight: 0.7, Score: floatPtr(86), Points: "129 / 150"},
					{Name: "Participation", Weight: 0.3, Score: floatPtr(90.67), Points: "68 / 75"},
				},
				Assignments: []models.Assignment{
					{
						Name:           "Rhetorical Analysis Essay",
						Type:           "Essays",
						Date:           "02/13/2026",
						DueDate:        "02/13/2026",
						Score:          "84 out of 100",
						ScoreType:      "Raw Score",
						Points:         "84 / 100",
						PointsEarned:   floatPtr(84),
						PointsPossible: floatPtr(100),
					},
					{
						Name:           "Argument Essay Draft",
						Type:           "Essays",
						Date:           "01/28/2026",
						DueDate:        "01/28/2026",
						Score:          "45 out of 50",
						ScoreType:      "Raw Score",
						Points:         "45 / 50",
						PointsEarned:   floatPtr(45),
						PointsPossible: floatPtr(50),
					},
					{
						Name:           "Socratic Seminar",
						Type:           "Participation",
						Date:           "02/06/2026",
						DueDate:        "02/06/2026",
						Score:          "68 out of 75",
						ScoreType:      "Raw Score",
						Points:         "68 / 75",
						PointsEarned:   floatPtr(68),
						PointsPossible: floatPtr(75),
					},
				},
			},
			{
				ID:          "course-2",
				Name:        "Chemistry Honors",
				Period:      3,
				Teacher:     "M. Curie",
				Room:        "Lab 3",
				Grade:       floatPtr(78.5),
				LetterGrade: "C+",
				Assignments: []models.Assignment{
					{
						Name:           "Stoichiometry Lab Report",
						Type:           "Labs",
						Date:           "02/18/2026",
						DueDate:        "02/18/2026",
						Score:          "31 out of 40",
						ScoreType:      "Raw Score",
						Points:         "31 / 40",
						PointsEarned:   floatPtr(31),
						PointsPossible: floatPtr(40),
					},
					{
						Name:           "Molarity Problem Set",
						Type:           "Classwork",
						DueDate:        "02/11/2026",
						Score:          "Missing",
						ScoreType:      "Raw Score",
						Points:         "0 / 20",
						PointsEarned:   floatPtr(0),
						PointsPossible: floatPtr(20),
						IsMissing:      true,
					},
					{
						Name:           "Chapter 9 Quiz",
						Type:           "Quizzes",
						Date:           "02/04/2026",
						DueDate:        "02/04/2026",
						Score:          "26.5 out of 30",
						ScoreType:      "Raw Score",
						Points:         "26.5 / 30",
						PointsEarned:   floatPtr(26.5),
						PointsPossible: floatPtr(30),
					},
				},
			},
		},
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
