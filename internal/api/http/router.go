package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/immxrtalbeast/classroom_live/internal/domain"
)

// RealtimeGateway serves the websocket endpoint of one audience.
type RealtimeGateway interface {
	Handler(role domain.Role) http.HandlerFunc
}

type Controllers struct {
	Auth    *AuthController
	Rooms   *RoomController
	Quizzes *QuizController
}

func SetupRouter(allowOrigins []string, auth gin.HandlerFunc, c Controllers, gateway RealtimeGateway) *gin.Engine {
	router := gin.Default()
	config := cors.DefaultConfig()
	if len(allowOrigins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = allowOrigins
		config.AllowCredentials = true
	}
	config.AllowHeaders = []string{
		"Authorization",
		"Content-Type",
		"Origin",
		"Accept",
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	router.Use(cors.New(config))
	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	professor := RequireRole(domain.RoleProfessor)
	student := RequireRole(domain.RoleStudent)

	if c.Auth != nil {
		a := api.Group("/auth")
		a.POST("/register", c.Auth.Register)
		a.POST("/login", c.Auth.Login)
		a.POST("/logout", c.Auth.Logout)
		a.POST("/refresh", c.Auth.Refresh)
		a.GET("/random-handle", c.Auth.RandomHandle)
		a.GET("/me", auth, c.Auth.Me)
		a.PATCH("/me/handle", auth, c.Auth.RenameHandle)
		a.DELETE("/me", auth, c.Auth.DeleteMe)
	}

	if c.Rooms != nil {
		api.GET("/me/rooms", auth, c.Rooms.ListMine)

		rooms := api.Group("/rooms")
		rooms.GET("/code/:code", c.Rooms.ResolveCode)
		rooms.GET("/code/:code/history", auth, c.Rooms.History)

		authed := rooms.Group("", auth)
		authed.POST("", professor, c.Rooms.CreateRoom)
		authed.GET("/:roomID", c.Rooms.GetRoom)
		authed.PUT("/:roomID", professor, c.Rooms.UpdateRoom)
		authed.DELETE("/:roomID", professor, c.Rooms.DeleteRoom)
		authed.GET("/:roomID/participants", c.Rooms.ListParticipants)
		authed.GET("/:roomID/ranking", c.Rooms.Ranking)
		authed.GET("/:roomID/quizzes", professor, c.Rooms.ListQuizzes)
		authed.GET("/:roomID/image/upload-url", c.Rooms.MainImageUploadURL)
		authed.GET("/:roomID/image/download-url", c.Rooms.MainImageDownloadURL)
		authed.GET("/:roomID/images/upload-url", c.Rooms.GalleryUploadURL)
		authed.GET("/:roomID/images", c.Rooms.ListGallery)
	}

	if c.Quizzes != nil {
		quizzes := api.Group("/quizzes", auth)
		quizzes.POST("", professor, c.Quizzes.Create)
		quizzes.GET("/:quizID", c.Quizzes.Get)
		quizzes.PUT("/:quizID", professor, c.Quizzes.Update)
		quizzes.POST("/:quizID/submit", student, c.Quizzes.Submit)
		quizzes.GET("/:quizID/score", c.Quizzes.Score)
		quizzes.GET("/:quizID/ranking", c.Quizzes.Ranking)
	}

	if gateway != nil {
		router.GET("/ws/students", gin.WrapF(gateway.Handler(domain.RoleStudent)))
		router.GET("/ws/professors", gin.WrapF(gateway.Handler(domain.RoleProfessor)))
	}

	return router
}
