package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quizhub/backend/internal/middleware"
)

type Deps struct {
	Guard       *middleware.AccessGuard
	Auth        *AuthHTTP
	Users       *UserHTTP
	Roles       *RoleHTTP
	Content     *ContentHTTP
	Questions   *QuestionHTTP
	Choices     *AnswerChoiceHTTP
	Sets        *QuestionSetHTTP
	Sessions    *SessionHTTP
	Responses   *ResponseHTTP
	Groups      *GroupHTTP
	Leaderboard *LeaderboardHTTP
	Search      *SearchHTTP
}

// UnprotectedPaths returns the routes the access guard skips. The permission
// reconciler uses the same set so these routes never grow a permission row.
// Logout sits here because it verifies its own bearer token; deriving a
// permission for it would lock every default-role user out of logging out.
func UnprotectedPaths() map[string]bool {
	return map[string]bool{
		"/":             true,
		"/health/live":  true,
		"/health/ready": true,
		"/login":        true,
		"/register":     true,
		"/logout":       true,
	}
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"message": "quizhub api"})
	})
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.Use(d.Guard.Middleware)

	e.POST("/register", d.Auth.Register)
	e.POST("/login", d.Auth.Login)
	e.POST("/logout", d.Auth.Logout)

	e.GET("/users", d.Users.GetUsers)
	e.GET("/users/me", d.Users.Me)
	e.GET("/users/:id", d.Users.GetUser)
	e.PUT("/users/:id", d.Users.PatchUser)
	e.GET("/users/:id/score", d.Leaderboard.GetUserScore)

	e.GET("/roles", d.Roles.GetRoles)
	e.POST("/roles", d.Roles.CreateRole)
	e.GET("/roles/:id", d.Roles.GetRole)
	e.PUT("/roles/:id", d.Roles.PatchRole)
	e.DELETE("/roles/:id", d.Roles.DeleteRole)
	e.GET("/permissions", d.Roles.GetPermissions)

	e.GET("/subjects", d.Content.GetSubjects)
	e.POST("/subjects", d.Content.CreateSubject)
	e.GET("/subjects/:id", d.Content.GetSubject)
	e.PUT("/subjects/:id", d.Content.PatchSubject)
	e.DELETE("/subjects/:id", d.Content.DeleteSubject)

	e.GET("/topics", d.Content.GetTopics)
	e.POST("/topics", d.Content.CreateTopic)
	e.GET("/topics/:id", d.Content.GetTopic)
	e.PUT("/topics/:id", d.Content.PatchTopic)
	e.DELETE("/topics/:id", d.Content.DeleteTopic)

	e.GET("/subtopics", d.Content.GetSubtopics)
	e.POST("/subtopics", d.Content.CreateSubtopic)
	e.GET("/subtopics/:id", d.Content.GetSubtopic)
	e.PUT("/subtopics/:id", d.Content.PatchSubtopic)
	e.DELETE("/subtopics/:id", d.Content.DeleteSubtopic)

	e.GET("/questions", d.Questions.GetQuestions)
	e.POST("/questions", d.Questions.CreateQuestion)
	// The search route sits above /questions/:id so the router matches the
	// literal segment first.
	e.GET("/questions/search", d.Search.SearchQuestions)
	e.GET("/questions/:id", d.Questions.GetQuestion)
	e.PUT("/questions/:id", d.Questions.PatchQuestion)
	e.DELETE("/questions/:id", d.Questions.DeleteQuestion)

	e.GET("/answer-choices", d.Choices.GetAnswerChoices)
	e.POST("/answer-choices", d.Choices.CreateAnswerChoice)
	e.GET("/answer-choices/:id", d.Choices.GetAnswerChoice)
	e.PUT("/answer-choices/:id", d.Choices.PatchAnswerChoice)
	e.DELETE("/answer-choices/:id", d.Choices.DeleteAnswerChoice)

	e.GET("/question-sets", d.Sets.GetQuestionSets)
	e.POST("/question-sets", d.Sets.CreateQuestionSet)
	e.GET("/question-sets/:id", d.Sets.GetQuestionSet)
	e.PUT("/question-sets/:id", d.Sets.PatchQuestionSet)
	e.DELETE("/question-sets/:id", d.Sets.DeleteQuestionSet)

	e.GET("/sessions", d.Sessions.GetSessions)
	e.POST("/sessions", d.Sessions.StartSession)
	e.GET("/sessions/:id", d.Sessions.GetSession)
	e.DELETE("/sessions/:id", d.Sessions.DeleteSession)
	e.POST("/sessions/:id/answer", d.Sessions.AnswerQuestion)
	e.POST("/sessions/:id/complete", d.Sessions.CompleteSession)

	e.GET("/user-responses", d.Responses.GetUserResponses)

	e.GET("/groups", d.Groups.GetGroups)
	e.POST("/groups", d.Groups.CreateGroup)
	e.GET("/groups/:id", d.Groups.GetGroup)
	e.PUT("/groups/:id", d.Groups.PatchGroup)
	e.DELETE("/groups/:id", d.Groups.DeleteGroup)
	e.POST("/groups/:id/join", d.Groups.JoinGroup)
	e.POST("/groups/:id/leave", d.Groups.LeaveGroup)

	e.GET("/leaderboard", d.Leaderboard.GetLeaderboard)
}
