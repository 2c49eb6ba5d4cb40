package routes

import (
	"net/http"
	"os"
	"strings"

	"github.com/dreamvault/dreamvault-golang/internal/handlers"
	"github.com/dreamvault/dreamvault-golang/internal/middleware"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware tells the browser which frontends may talk to us.
// It is applied globally (before routing) so preflight OPTIONS requests
// get answered even on paths that only register POST.
//
// The checkout surface under /v1/billing/ carries no session state and
// can be started from anywhere the pricing page is embedded, so it gets
// a fully public policy with a narrow method set. Everything else is
// restricted to the configured frontend origin.
func CORSMiddleware() gin.HandlerFunc {
	origin := os.Getenv("FRONTEND_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}

	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/v1/billing/") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		}

		// Handle the "Preflight" OPTIONS request with an empty 204.
		// Preflights never reach a handler (or the payments provider).
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()

	// --- APPLY THE CORS GUARD ---
	// This must be the very first thing the router uses.
	router.Use(CORSMiddleware())

	v1 := router.Group("/v1")
	{
		// --- Ping Route (Public) ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Auth Routes (Public) ---
		v1.POST("/register", h.Register)
		v1.POST("/login", h.Login)

		// Admin check is public on purpose: anonymous resolves to a
		// plain non-admin status, not an error.
		v1.GET("/auth/admin-status", h.GetAdminStatus)

		// --- Billing Routes (Public) ---
		v1.POST("/billing/checkout-session", h.CreateCheckoutSession)

		// --- Protected Routes (Login Required) ---
		authed := v1.Group("/")
		authed.Use(middleware.AuthMiddleware())
		{
			// --- Onboarding (strictly ordered steps) ---
			authed.POST("/onboarding/personal-info", h.SavePersonalInfo)
			authed.POST("/onboarding/dream-experiences", h.SaveDreamExperiences)
			authed.POST("/onboarding/privacy", h.SavePrivacySettings)
			authed.POST("/onboarding/referral", h.SaveReferral)

			// --- Dashboard & Dreams ---
			authed.GET("/dashboard", h.GetDashboard)
			authed.GET("/dreams", h.GetMyDreams)
			authed.POST("/dreams", h.CreateDream)
		}

		// --- Admin-Only Routes ---
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware())
		admin.Use(middleware.AdminMiddleware(h.DB))
		{
			admin.GET("/users", h.ListUsers)
		}
	}

	return router
}
