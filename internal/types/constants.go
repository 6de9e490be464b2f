package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

// User roles
const (
	RoleTalent = "talent"
	RoleClient = "client"
	RoleMentor = "mentor"
	RoleAdmin  = "admin"
)

// Course statuses
const (
	CourseDraft     = "draft"
	CoursePublished = "published"
	CourseArchived  = "archived"
)

// Course levels
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Lesson types
const (
	LessonVideo      = "video"
	LessonArticle    = "article"
	LessonQuiz       = "quiz"
	LessonAssignment = "assignment"
)

// Enrollment payment statuses
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// Project statuses
const (
	ProjectPlanning  = "planning"
	ProjectActive    = "active"
	ProjectOnHold    = "on_hold"
	ProjectCompleted = "completed"
	ProjectCancelled = "cancelled"
)

// Project types
const (
	ProjectInternal   = "internal"
	ProjectClient     = "client"
	ProjectLearning   = "learning"
	ProjectOpenSource = "open_source"
	ProjectHackathon  = "hackathon"
)

// Visibility levels (projects and portfolio items)
const (
	VisibilityPublic     = "public"
	VisibilityPrivate    = "private"
	VisibilityInviteOnly = "invite_only"
	VisibilityLinkOnly   = "link_only"
)

// Task statuses
const (
	TaskBacklog    = "backlog"
	TaskTodo       = "todo"
	TaskInProgress = "in_progress"
	TaskReview     = "review"
	TaskCompleted  = "completed"
	TaskCancelled  = "cancelled"
)

// Task priorities
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// Invitation statuses
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationDeclined = "declined"
	InvitationExpired  = "expired"
)

// Job posting statuses
const (
	JobDraft     = "draft"
	JobPublished = "published"
	JobClosed    = "closed"
	JobFilled    = "filled"
)

// Job types
const (
	JobFullTime   = "full_time"
	JobPartTime   = "part_time"
	JobContract   = "contract"
	JobFreelance  = "freelance"
	JobInternship = "internship"
)

// Experience levels
const (
	ExperienceEntry  = "entry"
	ExperienceMid    = "mid"
	ExperienceSenior = "senior"
	ExperienceExpert = "expert"
)

// Budget types
const (
	BudgetFixed     = "fixed"
	BudgetHourly    = "hourly"
	BudgetSalary    = "salary"
	BudgetMilestone = "milestone"
)

// Proposal statuses
const (
	ProposalSubmitted   = "submitted"
	ProposalUnderReview = "under_review"
	ProposalAccepted    = "accepted"
	ProposalRejected    = "rejected"
	ProposalWithdrawn   = "withdrawn"
)

// Contract statuses
const (
	ContractDraft     = "draft"
	ContractActive    = "active"
	ContractCompleted = "completed"
	ContractCancelled = "cancelled"
	ContractDisputed  = "disputed"
)

// Milestone statuses
const (
	MilestonePending    = "pending"
	MilestoneInProgress = "in_progress"
	MilestoneCompleted  = "completed"
	MilestoneApproved   = "approved"
	MilestonePaid       = "paid"
)

// Portfolio project statuses
const (
	PortfolioCompleted  = "completed"
	PortfolioInProgress = "in_progress"
	PortfolioNotStarted = "not_started"
)

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
