package services

import "errors"

// State-conflict errors. Handlers map these to 409 so callers can tell an
// ignored operation apart from an applied one.
var (
	ErrInvitationExpired    = errors.New("invitation has expired")
	ErrInvitationClosed     = errors.New("invitation has already been responded to")
	ErrAlreadyEnrolled      = errors.New("student is already enrolled in this course")
	ErrAlreadyReviewed      = errors.New("enrollment already has a review")
	ErrLessonNotInCourse    = errors.New("lesson does not belong to the enrolled course")
	ErrTaskTreeTooDeep      = errors.New("subtask nesting limit exceeded")
	ErrJobNotActive         = errors.New("job posting is not accepting proposals")
	ErrDuplicateProposal    = errors.New("a proposal for this job already exists")
	ErrProposalClosed       = errors.New("proposal is no longer open")
	ErrContractClosed       = errors.New("contract is no longer open")
	ErrMilestoneTransition  = errors.New("invalid milestone status transition")
	ErrFileVersionOutdated  = errors.New("new versions must be created from the current file version")
	ErrProjectMembersLimit  = errors.New("project has reached its member limit")
)
