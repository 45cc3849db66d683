package policy

import (
	"log"

	"fportal/models"

	"gorm.io/gorm"
)

// Action is an operation a user attempts against a course.
type Action string

const (
	ActionView   Action = "view"
	ActionUpload Action = "upload"
	ActionGrade  Action = "grade"
	ActionManage Action = "manage"
)

// Decision is the result of an access check. Reason is human-readable and
// distinguishes missing relationships from role restrictions so callers can
// log and audit denials. Repaired is set when the faculty auto-repair path
// reassigned course ownership as a side effect of the check.
type Decision struct {
	Allow    bool   `json:"allow"`
	Reason   string `json:"reason"`
	Repaired bool   `json:"repaired"`
}

func allow(reason string) Decision {
	return Decision{Allow: true, Reason: reason}
}

func deny(reason string) Decision {
	return Decision{Allow: false, Reason: reason}
}

// Decide evaluates whether actor may perform action on course.
//
// Faculty denied manage or upload on a course they do not own trigger the
// auto-repair path: ownership is overwritten in their favor and the check
// retried as allowed. This reproduces long-standing production behavior and
// is a known hazard (a permission check that mutates ownership); every
// repair is logged and flagged on the Decision so callers can audit it.
func Decide(db *gorm.DB, actor *models.User, course *models.Course, action Action) Decision {
	if actor == nil {
		return deny("user not found")
	}
	if course == nil {
		return deny("course not found")
	}

	switch actor.Role {
	case models.RoleAdmin:
		return allow("admin override")

	case models.RoleFaculty:
		if course.FacultyID == actor.ID {
			return allow("course faculty")
		}
		if action == ActionManage || action == ActionUpload {
			if err := repairFacultyOwnership(db, actor, course); err != nil {
				log.Printf("[ACCESS] auto-repair failed for course %d, faculty %d: %v", course.ID, actor.ID, err)
				return deny("you are not the faculty assigned to this course")
			}
			log.Printf("[ACCESS] auto-repaired: course %d faculty reassigned to user %d on %s", course.ID, actor.ID, action)
			return Decision{Allow: true, Reason: "auto-repaired: course faculty reassigned", Repaired: true}
		}
		return deny("you are not the faculty assigned to this course")

	case models.RoleTA:
		var ta models.CourseTA
		err := db.Where("course_id = ? AND user_id = ? AND is_deleted = ?", course.ID, actor.ID, false).
			First(&ta).Error
		if err == nil {
			return allow("assigned teaching assistant")
		}
		return deny("you are not assigned as a TA for this course; contact the course faculty")

	case models.RoleStudent:
		if action != ActionView {
			return deny("students may only view course content")
		}
		var enrollment models.Enrollment
		err := db.Where("course_id = ? AND student_id = ? AND status = ? AND is_deleted = ?",
			course.ID, actor.ID, models.EnrollmentActive, false).
			First(&enrollment).Error
		if err == nil {
			return allow("active enrollment")
		}
		return deny("you are not actively enrolled in this course")

	default:
		return deny("unknown role")
	}
}

// repairFacultyOwnership overwrites course ownership in favor of actor and
// mirrors the new assignment on the user side.
func repairFacultyOwnership(db *gorm.DB, actor *models.User, course *models.Course) error {
	if err := db.Model(&models.Course{}).Where("id = ?", course.ID).
		Update("faculty_id", actor.ID).Error; err != nil {
		return err
	}
	course.FacultyID = actor.ID

	_, err := EnsureRef(db, actor.ID, course.ID, models.RefTeaching)
	return err
}

// EnsureRef inserts the user-side mirror entry if it is missing and reports
// whether a row was created. The composite unique index on course_refs makes
// the insert race-safe: concurrent callers cannot produce duplicates.
func EnsureRef(db *gorm.DB, userID, courseID uint, role string) (bool, error) {
	ref := models.CourseRef{UserID: userID, CourseID: courseID, Role: role}
	res := db.Where("user_id = ? AND course_id = ? AND role = ?", userID, courseID, role).
		FirstOrCreate(&ref)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
