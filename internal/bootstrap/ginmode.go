package bootstrap

import "github.com/gin-gonic/gin"

func SetGinMode(env string) {
	switch env {
	case "production", "prod":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}
}
