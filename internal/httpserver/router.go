package httpserver

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"storefront/internal/events"
	"storefront/internal/tracking"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// buildRouter wires the storefront pages, admin back-office and polling
// endpoints. Event streams return when streams is closed.
func buildRouter(logger zerolog.Logger, deps Deps, streams <-chan struct{}) (*gin.Engine, error) {
	if deps.Sessions == nil {
		return nil, errors.New("session manager is required")
	}
	if deps.Events == nil {
		deps.Events = events.Nop()
	}
	if deps.PollInterval <= 0 {
		deps.PollInterval = tracking.DefaultInterval
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger), gin.Recovery())
	router.SetHTMLTemplate(tmpl)
	router.StaticFS("/static", http.FS(static))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps))

	h := &handlers{deps: deps, logger: logger, streams: streams}

	web := router.Group("/")
	web.Use(sessionMiddleware(deps.Sessions, logger))
	{
		web.GET("/", h.home)
		web.GET("/menu", h.menu)
		web.POST("/cart/items", h.addToCart)

		web.GET("/contact", h.contactPage)
		web.POST("/contact", h.sendContact)

		web.GET("/signin", h.signinPage)
		web.POST("/signin", h.signin)
		web.GET("/signup", h.signupPage)
		web.POST("/signup", h.signup)
		web.GET("/verify-email", h.verifyPage)
		web.POST("/verify-email", h.verify)
		web.POST("/verify-email/resend", h.resendOTP)
		web.POST("/signout", h.signout)
	}

	member := web.Group("/")
	member.Use(requireAuth(""))
	{
		member.GET("/cart", h.cartPage)
		member.POST("/cart/items/:id/update", h.updateCartItem)
		member.POST("/cart/items/:id/remove", h.removeCartItem)
		member.POST("/cart/clear", h.clearCart)

		member.GET("/orders/:id/confirmation", h.orderConfirmation)
		member.POST("/orders/:id/mark-paid", h.markPaid)

		member.GET("/dashboard", h.dashboard)
		member.POST("/dashboard/clear-history", h.clearHistory)
	}

	checkout := web.Group("/checkout")
	checkout.Use(requireAuth("Please sign in to checkout."))
	{
		checkout.GET("", h.checkoutPage)
		checkout.POST("", h.checkoutStep)
	}

	live := web.Group("/orders/:id")
	if len(deps.CORSOrigins) > 0 {
		live.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{http.MethodGet},
			AllowHeaders:     []string{"Accept", "Cache-Control", "Last-Event-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	live.Use(requireAuthJSON())
	{
		live.GET("/status", h.orderStatus)
		live.GET("/events", h.orderEvents)
	}

	admin := web.Group("/admin")
	admin.Use(requireAdmin())
	{
		admin.GET("", h.adminPage)
		admin.GET("/orders/:id", h.adminOrderDetail)
		admin.POST("/products", h.adminSaveProduct)
		admin.POST("/products/:id", h.adminSaveProduct)
		admin.POST("/products/:id/delete", h.adminDeleteProduct)
		admin.POST("/upload", h.adminUpload)
		admin.POST("/users/:id/role", h.adminUpdateRole)
		admin.POST("/users/:id/delete", h.adminDeleteUser)
		admin.POST("/orders/:id/status", h.adminUpdateOrderStatus)
		admin.POST("/orders/:id/confirm-payment", h.adminConfirmPayment)
		admin.POST("/banks", h.adminCreateBank)
		admin.POST("/banks/:id/delete", h.adminDeleteBank)
		admin.POST("/messages/:id/read", h.adminMarkRead)
	}

	return router, nil
}

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}
