package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mdsabbir/vaxchain/config"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter assembles the HTTP surface: health, swagger, the payment
// gateway callback (unauthenticated) and the versioned API behind auth.
func NewRouter(
	cfg *config.Config,
	campaigns *CampaignHandler,
	bookings *BookingHandler,
	reviews *ReviewHandler,
	payments *PaymentHandler,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(cfg.HTTP.CORSOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.HTTP.SwaggerDir != "" {
		router.Static("/swagger", cfg.HTTP.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/openapi.json"),
		)))
	}

	v1 := router.Group("/api/v1")

	// Gateway posts here without a user token.
	payments.RegisterCallback(v1.Group("/payments"))

	authed := v1.Group("/", AuthRequired(cfg.Auth.JWTSecret))
	campaigns.Register(authed.Group("/campaigns"))
	reviews.RegisterCampaignRoutes(authed.Group("/campaigns"))
	reviews.Register(authed.Group("/reviews"))
	bookings.Register(authed.Group("/bookings"))
	payments.Register(authed.Group("/payments"))

	return router
}
