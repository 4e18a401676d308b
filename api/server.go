package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// allowedOrigins are the front-end hosts permitted to call the API directly.
// Production traffic normally arrives same-origin through the reverse proxy.
var allowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:3001",
	"http://localhost:3002",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:3001",
	"http://127.0.0.1:3002",
	"https://yttmp3.com",
	"https://www.yttmp3.com",
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	// Register resource routers
	s.RegisterVideoRoutes(r)
	RegisterHealthRoutes(r)
	return r
}
