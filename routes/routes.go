package routes

import (
	"stockrating/controllers"

	"github.com/gin-gonic/gin"
)

func Routes(r *gin.Engine) {
	r.GET("/", controllers.PagesController.Home)
	r.GET("/analyze", controllers.AnalyzeController.AnalyzeForm)
	r.POST("/analyze", controllers.AnalyzeController.AnalyzeSubmit)
	r.GET("/terms", controllers.PagesController.Terms)
	r.GET("/signup", controllers.PagesController.Signup)
	r.GET("/login", controllers.PagesController.Login)
	r.GET("/logout", controllers.PagesController.Logout)

	v1 := r.Group("/api")

	{
		v1.GET("/analyze", controllers.AnalyzeController.Analyze)
		v1.POST("/evaluate", controllers.AnalyzeController.Evaluate)
		v1.GET("/report", controllers.AnalyzeController.Report)
		v1.GET("/keepServerRunning", controllers.HealthController.IsRunning)
	}
}
