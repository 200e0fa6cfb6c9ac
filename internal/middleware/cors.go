package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var localOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

// CORS allows the local dev front-ends plus any configured origins.
func CORS(extraOrigins []string) gin.HandlerFunc {
	cc := cors.DefaultConfig()
	cc.AllowOrigins = append(append([]string{}, localOrigins...), extraOrigins...)
	cc.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cc.AllowHeaders = []string{"Content-Type", "Content-Length", "Authorization", "Accept", "Origin", "X-Requested-With", "X-Request-ID"}
	cc.AllowCredentials = true
	cc.MaxAge = 10 * time.Minute
	return cors.New(cc)
}
