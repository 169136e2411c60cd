package rbac

const (
	PermQuizImport      = "quiz:import"
	PermQuizView        = "quiz:view"
	PermQuizViewAnswers = "quiz:view-answers"
	PermAttemptCreate   = "attempt:create"
	PermAttemptSave     = "attempt:save"
	PermAttemptSubmit   = "attempt:submit"
	PermAttemptView     = "attempt:view"     // own attempts
	PermAttemptViewAll  = "attempt:view-all" // anyone's attempts
	PermAttemptManage   = "attempt:manage"   // act on anyone's attempts
	PermAttemptGrade    = "attempt:grade"    // review and override scores
	PermEventsView      = "events:view"
)

// RolePermissions is the default policy.
var RolePermissions = map[string][]string{
	"student": {
		PermQuizView,
		PermAttemptCreate,
		PermAttemptSave,
		PermAttemptSubmit,
		PermAttemptView,
	},
	"teacher": {
		"quiz:*",
		PermAttemptCreate,
		PermAttemptSave,
		PermAttemptSubmit,
		PermAttemptView,
		PermAttemptViewAll,
		PermAttemptGrade,
	},
	"admin": {
		"*", // everything
	},
}
