package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/01moynul/taptosell-admin/internal/auth"
	"github.com/01moynul/taptosell-admin/internal/config"
	"github.com/01moynul/taptosell-admin/internal/handlers"
	"github.com/01moynul/taptosell-admin/internal/middleware"
)

func corsConfig(origins []string) cors.Config {
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "X-Request-ID", "X-Requested-With", "Cache-Control"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

func SetupRouter(cfg *config.Config, h *handlers.Handlers, validator *auth.Validator) *gin.Engine {
	router := gin.New()

	// --- Global middleware ---
	// CORS must run first so preflight requests never reach auth.
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(h.Log))

	if cfg.StorageDriver == "" || cfg.StorageDriver == "local" {
		router.Static(cfg.LocalUploadURLPrefix, cfg.LocalUploadDir)
	}

	v1 := router.Group("/v1")
	{
		// --- Ping Route (Public) ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Staff-Only Routes ---
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(validator))
		admin.Use(middleware.StaffMiddleware())
		{
			admin.GET("/products", h.GetProducts)
			admin.GET("/product-form/options", h.GetFormOptions)

			admin.POST("/product-forms", h.OpenProductForm)

			form := admin.Group("/product-forms/:formId")
			{
				form.GET("", h.GetProductForm)
				form.DELETE("", h.CloseProductForm)

				form.PUT("/category", h.ChangeCategory)
				form.PUT("/parameters/:index", h.ChangeParameter)
				form.PUT("/description", h.SetDescription)

				form.POST("/variants", h.AddVariant)
				form.PUT("/variants/:index", h.UpdateVariant)
				form.POST("/variants/:index/images", h.UploadVariantImage)
				form.DELETE("/variants/:index/images/:position", h.RemoveVariantImage)

				form.POST("/uploads", h.UploadEditorImage)
				form.POST("/keywords/suggest", h.SuggestKeywords)

				form.POST("/submit", h.SubmitProductForm)
				form.POST("/back", h.GoBack)
			}
		}
	}

	return router
}
