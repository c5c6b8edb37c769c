package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"tableside-backend/controllers"
	"tableside-backend/middleware"
	"tableside-backend/services"
)

// Handlers groups the controller instances the router mounts.
type Handlers struct {
	Auth      *controllers.AuthController
	Rooms     *controllers.RoomController
	Tables    *controllers.TableController
	Orders    *controllers.OrderController
	Seats     *controllers.SeatController
	Selection *controllers.SelectionController
	Parties   *controllers.PartyController
	Admin     *controllers.AdminController
}

// SetupRouter wires every route. Everything except /health, /login,
// /logout and the public party menu needs a staff session.
func SetupRouter(h Handlers, sessions *services.SessionManager, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger())

	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/login", h.Auth.Login)
	r.POST("/logout", h.Auth.Logout)
	r.GET("/parties/:slug/menu", h.Parties.ShowMenu)

	staff := r.Group("", middleware.StaffRequired(sessions))
	{
		staff.GET("/me", h.Auth.Me)

		rooms := staff.Group("/rooms")
		{
			rooms.GET("", h.Rooms.Dashboard)
			rooms.GET("/:id/tables", h.Rooms.Tables)
			rooms.GET("/:id/print", h.Rooms.PrintTicket)
		}

		tables := staff.Group("/tables")
		{
			tables.GET("/:id", h.Tables.View)
			tables.POST("/:id/start", h.Tables.Start)
			tables.POST("/:id/join", h.Tables.Join)
		}

		orders := staff.Group("/orders")
		{
			orders.POST("/:id/close", h.Orders.Close)
			orders.POST("/:id/printed", h.Orders.MarkPrinted)
			orders.GET("/:id/seats", h.Orders.ListSeats)
			orders.POST("/:id/seats", h.Orders.AddSeat)
			orders.GET("/:id/print", h.Orders.PrintTicket)
		}

		staff.POST("/seats/:id/remove", h.Seats.Remove)

		selections := staff.Group("/selections")
		{
			selections.POST("", h.Selection.Add)
			// must stay ahead of /:id routes
			selections.POST("/move", h.Selection.Move)
			selections.POST("/:id/remove", h.Selection.Remove)
		}

		admin := staff.Group("/admin")
		{
			admin.GET("/rooms", h.Admin.ListRooms)
			admin.POST("/rooms", h.Admin.CreateRoom)
			admin.POST("/tables", h.Admin.CreateTable)
			admin.PUT("/tables/:id/party", h.Admin.AssignTableParty)
			admin.DELETE("/tables/:id", h.Admin.DeleteTable)
			admin.GET("/courses", h.Admin.ListCourses)
			admin.POST("/courses", h.Admin.CreateCourse)
			admin.GET("/modifiers", h.Admin.ListModifiers)
			admin.POST("/modifiers", h.Admin.CreateModifier)
			admin.GET("/temperatures", h.Admin.ListTemperatures)
			admin.POST("/temperatures", h.Admin.CreateTemperature)
			admin.GET("/menu-items", h.Admin.ListMenuItems)
			admin.POST("/menu-items", h.Admin.CreateMenuItem)
			admin.DELETE("/menu-items/:id", h.Admin.DeleteMenuItem)
			admin.GET("/parties", h.Admin.ListParties)
			admin.POST("/parties", h.Admin.CreateParty)
			admin.POST("/parties/:id/menu-items", h.Admin.SetPartyMenuItem)
			admin.GET("/staff", h.Admin.ListStaff)
			admin.POST("/staff", h.Admin.CreateStaff)
			admin.PUT("/staff/:id/code", h.Admin.SetStaffCode)
			admin.GET("/logs", h.Admin.ListLogs)
		}
	}

	return r
}
