package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minishop/backend/internal/middleware"
	"github.com/minishop/backend/internal/models"
	"github.com/minishop/backend/internal/token"
)

type Deps struct {
	AuthHandler    *AuthHandler
	ProductHandler *ProductHandler
	OrderHandler   *OrderHandler
	SearchHandler  *SearchHandler
	Tokens         *token.Service
}

// Register wires every route against its required capability once, at
// registration time: public, authenticated, or admin.
func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = ErrorHandler

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	requireAuth := middleware.RequireAuth(d.Tokens)
	requireAdmin := middleware.RequireRole(models.RoleAdmin)

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)

	products := api.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/search", d.SearchHandler.SearchProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.POST("", d.ProductHandler.CreateProduct, requireAuth, requireAdmin)
	products.PUT("/:id", d.ProductHandler.UpdateProduct, requireAuth, requireAdmin)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, requireAuth, requireAdmin)

	orders := api.Group("/orders", requireAuth)
	orders.POST("", d.OrderHandler.PlaceOrder)
	orders.GET("", d.OrderHandler.GetMyOrders)
	orders.GET("/all", d.OrderHandler.GetAllOrders, requireAdmin)
	orders.PATCH("/:id/status", d.OrderHandler.UpdateOrderStatus, requireAdmin)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Route not found"})
	})
}
