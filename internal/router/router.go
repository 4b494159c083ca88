// Package router assembles the HTTP application.
package router

import (
	"time"

	"lubricentro-ws/internal/handler"
	"lubricentro-ws/internal/middleware"
	"lubricentro-ws/internal/model"
	"lubricentro-ws/internal/repository"
	"lubricentro-ws/internal/ws"
	"lubricentro-ws/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// Handlers groups everything the routes dispatch to.
type Handlers struct {
	Auth       *handler.AuthHandler
	Product    *handler.ProductHandler
	SubProduct *handler.SubProductHandler
	Vehicle    *handler.VehicleHandler
	Movement   *handler.MovementHandler
	Order      *handler.OrderHandler
	Dashboard  *handler.DashboardHandler
	User       *handler.UserHandler
	Role       *handler.RoleHandler
}

type Options struct {
	CORSOrigins string
	// LoginLimit caps login attempts per IP per minute; zero disables the limit.
	LoginLimit int
	Log        zerolog.Logger
}

func New(h Handlers, userRepo repository.UserRepository, tokens *jwt.Manager, hub *ws.Hub, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Lubricentro WS",
		ErrorHandler: handler.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(opts.Log))
	app.Use(cors.New(cors.Config{AllowOrigins: opts.CORSOrigins}))

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	login := []fiber.Handler{h.Auth.Login}
	if opts.LoginLimit > 0 {
		login = append([]fiber.Handler{limiter.New(limiter.Config{
			Max:        opts.LoginLimit,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many login attempts, try again in a minute"})
			},
		})}, login...)
	}
	auth.Post("/login", login...)
	auth.Post("/reset-password", h.Auth.ResetPassword)
	auth.Post("/validate-token", h.Auth.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo, tokens))
	need := middleware.RequirePrivilege

	protected.Post("/auth/logout", h.Auth.Logout)

	protected.Get("/dashboard/stats", need(model.PrivDashboardView), h.Dashboard.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", need(model.PrivDashboardView), h.Dashboard.GetStockMovement)
	protected.Get("/dashboard/low-stock", need(model.PrivDashboardView), h.Dashboard.GetLowStock)

	protected.Get("/products", need(model.PrivProductView), h.Product.GetProducts)
	protected.Get("/products/:id", need(model.PrivProductView), h.Product.GetProduct)
	protected.Post("/products", need(model.PrivProductCreate), h.Product.CreateProduct)
	protected.Put("/products/:id", need(model.PrivProductUpdate), h.Product.UpdateProduct)
	protected.Delete("/products/:id", need(model.PrivProductDelete), h.Product.DeleteProduct)

	protected.Get("/subproducts", need(model.PrivSubProductView), h.SubProduct.GetSubProducts)
	protected.Get("/subproducts/:id", need(model.PrivSubProductView), h.SubProduct.GetSubProduct)
	protected.Post("/subproducts", need(model.PrivSubProductCreate), h.SubProduct.CreateSubProduct)
	protected.Put("/subproducts/:id", need(model.PrivSubProductUpdate), h.SubProduct.UpdateSubProduct)
	protected.Delete("/subproducts/:id", need(model.PrivSubProductDelete), h.SubProduct.DeleteSubProduct)

	protected.Get("/vehicles", need(model.PrivVehicleView), h.Vehicle.GetVehicles)
	protected.Get("/vehicles/:id", need(model.PrivVehicleView), h.Vehicle.GetVehicle)
	protected.Post("/vehicles", need(model.PrivVehicleCreate), h.Vehicle.CreateVehicle)
	protected.Put("/vehicles/:id", need(model.PrivVehicleUpdate), h.Vehicle.UpdateVehicle)
	protected.Delete("/vehicles/:id", need(model.PrivVehicleDelete), h.Vehicle.DeleteVehicle)

	protected.Get("/movements", need(model.PrivMovementView), h.Movement.GetMovements)
	protected.Get("/movements/export", need(model.PrivMovementView), h.Movement.ExportMovements)
	protected.Get("/movements/product/:productId", need(model.PrivMovementView), h.Movement.GetProductMovements)
	protected.Get("/movements/item/:itemType/:itemId", need(model.PrivMovementView), h.Movement.GetItemMovements)
	protected.Post("/movements", need(model.PrivMovementCreate), h.Movement.CreateMovement)

	protected.Get("/orders", need(model.PrivOrderView), h.Order.GetOrders)
	protected.Get("/orders/:id", need(model.PrivOrderView), h.Order.GetOrder)
	protected.Get("/orders/:id/movements", middleware.RequireAnyPrivilege(model.PrivOrderView, model.PrivMovementView), h.Movement.GetOrderMovements)
	protected.Post("/orders", need(model.PrivOrderCreate), h.Order.CreateOrder)
	protected.Put("/orders/:id", need(model.PrivOrderUpdate), h.Order.UpdateOrder)
	protected.Patch("/orders/:id/status", need(model.PrivOrderUpdate), h.Order.UpdateOrderStatus)
	protected.Delete("/orders/:id", need(model.PrivOrderDelete), h.Order.DeleteOrder)

	protected.Get("/users", need(model.PrivUserView), h.User.GetUsers)
	protected.Get("/users/:id", need(model.PrivUserView), h.User.GetUser)
	protected.Post("/users", need(model.PrivUserCreate), h.User.CreateUser)
	protected.Put("/users/:id", need(model.PrivUserUpdate), h.User.UpdateUser)
	protected.Delete("/users/:id", need(model.PrivUserDelete), h.User.DeleteUser)
	protected.Put("/users/:id/privileges", need(model.PrivUserPrivilege), h.User.UpdateUserPrivileges)

	protected.Get("/roles", h.Role.GetRoles)
	protected.Get("/privileges", h.Role.GetPrivileges)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(hub.Serve))

	return app
}
