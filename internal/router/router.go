package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/skillforge-dev/skillforge/internal/handlers"
	"github.com/skillforge-dev/skillforge/internal/middleware"
	"github.com/skillforge-dev/skillforge/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/:project_id", middleware.AuthMiddleware(), handlers.ProjectWebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.CreateUser)
			auth.POST("/login", handlers.LoginUser)
			auth.POST("/logout", handlers.LogoutUser)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
			auth.DELETE("/me", middleware.AuthMiddleware(), handlers.DeleteUser)
			auth.POST("/password-reset", handlers.RequestPasswordReset)
			auth.POST("/password-reset/verify", handlers.VerifyPasswordReset)
			auth.POST("/password-reset/confirm", handlers.ConfirmPasswordReset)
			auth.POST("/change-password", middleware.AuthMiddleware(), handlers.ChangePassword)
		}

		users := api.Group("/users", middleware.AuthMiddleware())
		{
			users.PATCH("/me", handlers.UpdateUser)
			users.PATCH("/me/profile", handlers.UpdateProfile)
		}

		skills := api.Group("/skills")
		{
			skills.GET("", handlers.ListSkills)
			skills.POST("", middleware.AuthMiddleware(), middleware.RequireRoles(), handlers.CreateSkill)
			skills.GET("/categories", handlers.ListSkillCategories)
			skills.POST("/categories", middleware.AuthMiddleware(), middleware.RequireRoles(), handlers.CreateSkillCategory)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", handlers.ListCategories)
			categories.POST("", middleware.AuthMiddleware(), middleware.RequireRoles(), handlers.CreateCategory)
		}

		courses := api.Group("/courses")
		{
			courses.GET("", handlers.ListCourses)
			courses.GET("/:course_id", handlers.GetCourse)
			courses.GET("/:course_id/reviews", handlers.ListCourseReviews)

			mentorOnly := courses.Group("", middleware.AuthMiddleware(), middleware.RequireRoles(types.RoleMentor))
			{
				mentorOnly.POST("", handlers.CreateCourse)
				mentorOnly.POST("/:course_id/publish", handlers.PublishCourse)
				mentorOnly.POST("/:course_id/archive", handlers.ArchiveCourse)
				mentorOnly.POST("/:course_id/modules", handlers.CreateCourseModule)
				mentorOnly.POST("/:course_id/modules/:module_id/lessons", handlers.CreateLesson)
				mentorOnly.POST("/:course_id/resources", handlers.CreateResource)
			}
		}

		enrollments := api.Group("/enrollments", middleware.AuthMiddleware())
		{
			enrollments.POST("", middleware.RequireRoles(types.RoleTalent), handlers.Enroll)
			enrollments.GET("", handlers.ListEnrollments)
			enrollments.POST("/:enrollment_id/completions", handlers.CompleteLesson)
			enrollments.POST("/:enrollment_id/review", handlers.SubmitCourseReview)
		}

		api.POST("/reviews/:review_id/approve", middleware.AuthMiddleware(), middleware.RequireRoles(), handlers.ApproveCourseReview)
		api.POST("/resources/:resource_id/download", middleware.AuthMiddleware(), handlers.DownloadResource)

		projects := api.Group("/projects", middleware.AuthMiddleware())
		{
			projects.POST("", handlers.CreateProject)
			projects.GET("", handlers.ListProjects)
			projects.GET("/:project_id", handlers.GetProject)
			projects.PATCH("/:project_id", handlers.UpdateProject)
			projects.DELETE("/:project_id", handlers.DeleteProject)

			projects.POST("/:project_id/roles", handlers.CreateProjectRole)
			projects.GET("/:project_id/members", handlers.ListProjectMembers)
			projects.POST("/:project_id/invitations", handlers.CreateInvitation)

			projects.POST("/:project_id/tasks", handlers.CreateTask)
			projects.GET("/:project_id/tasks", handlers.ListTasks)

			projects.POST("/:project_id/files", handlers.CreateProjectFile)
			projects.GET("/:project_id/files", handlers.ListProjectFiles)
		}

		members := api.Group("/members", middleware.AuthMiddleware())
		{
			members.POST("/:member_id/approve", handlers.ApproveProjectMember)
			members.POST("/:member_id/remove", handlers.RemoveProjectMember)
		}

		invitations := api.Group("/invitations", middleware.AuthMiddleware())
		{
			invitations.GET("", handlers.ListMyInvitations)
			invitations.POST("/:invitation_id/accept", handlers.AcceptInvitation)
			invitations.POST("/:invitation_id/decline", handlers.DeclineInvitation)
		}

		tasks := api.Group("/tasks", middleware.AuthMiddleware())
		{
			tasks.POST("/:task_id/start", handlers.StartTask)
			tasks.POST("/:task_id/complete", handlers.CompleteTask)
			tasks.PATCH("/:task_id/progress", handlers.UpdateTaskProgress)
			tasks.DELETE("/:task_id", handlers.DeleteTask)
		}

		files := api.Group("/files", middleware.AuthMiddleware())
		{
			files.POST("/:file_id/versions", handlers.CreateFileVersion)
			files.POST("/:file_id/download", handlers.DownloadProjectFile)
		}

		jobs := api.Group("/jobs")
		{
			jobs.GET("", handlers.ListJobs)
			jobs.GET("/:job_id", handlers.GetJob)

			clientOnly := jobs.Group("", middleware.AuthMiddleware(), middleware.RequireRoles(types.RoleClient, types.RoleMentor))
			{
				clientOnly.POST("", handlers.CreateJob)
				clientOnly.POST("/:job_id/publish", handlers.PublishJob)
				clientOnly.POST("/:job_id/close", handlers.CloseJob)
				clientOnly.GET("/:job_id/proposals", handlers.ListJobProposals)
			}

			jobs.POST("/:job_id/proposals", middleware.AuthMiddleware(), middleware.RequireRoles(types.RoleTalent, types.RoleMentor), handlers.SubmitProposal)
		}

		proposals := api.Group("/proposals", middleware.AuthMiddleware())
		{
			proposals.POST("/:proposal_id/review", middleware.RequireRoles(types.RoleClient, types.RoleMentor), handlers.ReviewProposal)
			proposals.POST("/:proposal_id/accept", middleware.RequireRoles(types.RoleClient, types.RoleMentor), handlers.AcceptProposal)
			proposals.POST("/:proposal_id/reject", middleware.RequireRoles(types.RoleClient, types.RoleMentor), handlers.RejectProposal)
			proposals.POST("/:proposal_id/withdraw", handlers.WithdrawProposal)
		}

		contracts := api.Group("/contracts", middleware.AuthMiddleware())
		{
			contracts.GET("", handlers.ListContracts)
			contracts.GET("/:contract_id", handlers.GetContract)
			contracts.POST("/:contract_id/activate", handlers.ActivateContract)
			contracts.POST("/:contract_id/complete", handlers.CompleteContract)
			contracts.POST("/:contract_id/cancel", handlers.CancelContract)
			contracts.POST("/:contract_id/dispute", handlers.DisputeContract)
			contracts.POST("/:contract_id/milestones", handlers.AddMilestone)
		}

		api.POST("/milestones/:milestone_id/transition", middleware.AuthMiddleware(), handlers.TransitionMilestone)

		portfolio := api.Group("/portfolio")
		{
			portfolio.GET("/users/:user_id", handlers.ListPortfolioItems)
			portfolio.GET("/items/:item_id", handlers.GetPortfolioItem)

			authed := portfolio.Group("", middleware.AuthMiddleware(), middleware.RequireRoles(types.RoleTalent, types.RoleMentor))
			{
				authed.POST("/items", handlers.CreatePortfolioItem)
				authed.DELETE("/items/:item_id", handlers.DeletePortfolioItem)
				authed.POST("/items/:item_id/images", handlers.AddPortfolioImage)
			}
		}
	}

	return r
}
