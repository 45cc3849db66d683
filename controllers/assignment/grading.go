package assignmentController

import (
	"fmt"
	"time"

	"fportal/database"
	"fportal/middleware"
	"fportal/models"
	"fportal/policy"
	"fportal/utils"
	assignmentValidator "fportal/validators/assignment"

	"github.com/gofiber/fiber/v2"
)

// SubmitAssignment handles the unsubmitted -> submitted transition. The
// payload is multipart: an optional "file" part and an optional
// "text_submission" field, checked against the assignment's declared
// submission type. For BOTH, either one is sufficient.
func SubmitAssignment(c *fiber.Ctx) error {
	user, ok := requireActor(c)
	if !ok {
		return nil
	}

	if user.Role != models.RoleStudent {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only students can submit assignments!", nil)
	}

	assignment, course, ok := loadAssignment(c)
	if !ok {
		return nil
	}

	db := database.Database.Db

	decision := policy.Decide(db, user, course, policy.ActionView)
	if !decision.Allow {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, decision.Reason, nil)
	}

	if eligible, reason := assignment.CanStudentSubmit(db, user.ID); !eligible {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, reason, nil)
	}

	text := c.FormValue("text_submission")
	file, fileErr := c.FormFile("file")
	hasFile := fileErr == nil && file != nil

	switch assignment.SubmissionType {
	case models.SubmissionTypeText:
		if text == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This assignment requires a text submission!", nil)
		}
		hasFile = false
	case models.SubmissionTypeFile:
		if !hasFile {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This assignment requires a file submission!", nil)
		}
	case models.SubmissionTypeBoth:
		if text == "" && !hasFile {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A text or file submission is required!", nil)
		}
	}

	submission := models.Submission{
		AssignmentID:   assignment.ID,
		StudentID:      user.ID,
		TextSubmission: text,
		SubmittedAt:    time.Now(),
		Status:         models.SubmissionSubmitted,
	}

	if hasFile {
		// Cross-check the assignment's declared file policy before storing.
		if !utils.FileTypeAllowed(file.Filename, assignment.AllowedFileTypes) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false,
				fmt.Sprintf("File type not allowed. Accepted: %s", assignment.AllowedFileTypes), nil)
		}
		if assignment.MaxFileSize > 0 && file.Size > assignment.MaxFileSize {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "File exceeds the maximum allowed size!", nil)
		}

		fileURL, err := utils.SaveUploadedFile(file, "submissions", "file")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store uploaded file!", nil)
		}
		submission.FileURL = fileURL
		submission.FileName = file.Filename
	}

	// The unique (assignment_id, student_id) index closes the
	// check-then-insert race: a concurrent duplicate submit fails here.
	if err := db.Create(&submission).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You have already submitted this assignment!", nil)
	}

	utils.Notify(utils.NotifyInput{
		Type:     models.NotificationSubmissionNew,
		SenderID: user.ID,
		Title:    fmt.Sprintf("[%s] New submission for %s", course.Code, assignment.Title),
		Message:  fmt.Sprintf("%s submitted %s.", user.Name, assignment.Title),
		RefType:  "SUBMISSION",
		RefID:    submission.ID,
	}, courseStaffIDs(course))

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Assignment submitted successfully!", submission)
}

// GradeSubmission handles the submitted -> graded transition. The update is
// keyed on (assignment, student) so grading two students concurrently can
// never clobber each other's rows.
func GradeSubmission(c *fiber.Ctx) error {
	user, ok := requireActor(c)
	if !ok {
		return nil
	}

	assignment, course, ok := loadAssignment(c)
	if !ok {
		return nil
	}

	db := database.Database.Db

	decision := policy.Decide(db, user, course, policy.ActionGrade)
	if !decision.Allow {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, decision.Reason, nil)
	}

	studentID, err := c.ParamsInt("studentId")
	if err != nil || studentID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid student ID!", nil)
	}

	reqData, ok := c.Locals("validatedGrade").(*assignmentValidator.GradeRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	grade := *reqData.Grade
	if grade < 0 || grade > assignment.MaxPoints {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false,
			fmt.Sprintf("Grade must be between 0 and %g!", assignment.MaxPoints), nil)
	}

	var submission models.Submission
	if err := db.Where("assignment_id = ? AND student_id = ? AND is_deleted = ?",
		assignment.ID, studentID, false).First(&submission).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Submission not found!", nil)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"grade":     grade,
		"feedback":  reqData.Feedback,
		"is_graded": true,
		"graded_by": user.ID,
		"graded_at": now,
		"status":    models.SubmissionGraded,
	}

	if err := db.Model(&models.Submission{}).
		Where("assignment_id = ? AND student_id = ?", assignment.ID, studentID).
		Updates(updates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade submission!", nil)
	}

	submission.Grade = &grade
	submission.Feedback = reqData.Feedback
	submission.IsGraded = true
	submission.GradedBy = &user.ID
	submission.GradedAt = &now
	submission.Status = models.SubmissionGraded

	utils.Notify(utils.NotifyInput{
		Type:     models.NotificationSubmissionGraded,
		SenderID: user.ID,
		Title:    fmt.Sprintf("[%s] %s graded", course.Code, assignment.Title),
		Message:  fmt.Sprintf("Your submission received %g/%g points.", grade, assignment.MaxPoints),
		RefType:  "SUBMISSION",
		RefID:    submission.ID,
	}, []uint{uint(studentID)})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submission graded successfully!", submission)
}
