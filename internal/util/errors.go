package util

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrPhoneRegistered      = errors.New("phone already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrLearningPathNotFound = errors.New("learning path not found")
	ErrModuleNotFound       = errors.New("module not found")
	ErrLessonNotFound       = errors.New("lesson not found")
	ErrLessonLocked         = errors.New("lesson is locked")
	ErrSkillNotFound        = errors.New("skill not found")
	ErrActivityNotFound     = errors.New("activity not found")
	ErrProgressNotFound     = errors.New("progress record not found")
	ErrBackwardsTransition  = errors.New("progress status cannot move backwards")
	ErrMissingAudio         = errors.New("audio file is required")
	ErrEmptySubmission      = errors.New("submission contains no answers")
	ErrSpeechUnavailable    = errors.New("speech service unavailable")
)
