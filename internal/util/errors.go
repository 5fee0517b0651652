package util

import "errors"

var (
	ErrProblemNotFound         = errors.New("Problem not found")
	ErrPodNotFound             = errors.New("Pod not found")
	ErrStageNotFound           = errors.New("Stage not found")
	ErrStageProgressNotFound   = errors.New("Stage progress not found")
	ErrPracticeProblemNotFound = errors.New("Practice problem not found")
	ErrMCQNotFound             = errors.New("MCQ question not found")
	ErrOptionNotFound          = errors.New("Selected option not found")
	ErrProfileNotFound         = errors.New("Profile not found")
	ErrUserNotFound            = errors.New("User not found")
	ErrAttemptNotFound         = errors.New("Attempt not found")
	ErrArtefactNotFound        = errors.New("Artefact not found")
	ErrContentNotFound         = errors.New("Content not found")
	ErrInvalidTier             = errors.New("Invalid subscription tier")
)

// IsNotFound 业务层 404 判定，controller 据此选择状态码
func IsNotFound(err error) bool {
	switch {
	case errors.Is(err, ErrProblemNotFound),
		errors.Is(err, ErrPodNotFound),
		errors.Is(err, ErrStageNotFound),
		errors.Is(err, ErrStageProgressNotFound),
		errors.Is(err, ErrPracticeProblemNotFound),
		errors.Is(err, ErrMCQNotFound),
		errors.Is(err, ErrOptionNotFound),
		errors.Is(err, ErrProfileNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrAttemptNotFound),
		errors.Is(err, ErrArtefactNotFound),
		errors.Is(err, ErrContentNotFound):
		return true
	}
	return false
}
