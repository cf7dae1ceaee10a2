package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"quickstay/internal/infra/config"
	"quickstay/internal/infra/obs"
)

type WebhookHTTP interface {
	Handle(c *gin.Context)
}

type UserHTTP interface {
	Me(c *gin.Context)
	StoreRecentSearchedCity(c *gin.Context)
}

type HotelHTTP interface {
	Register(c *gin.Context)
	ListAll(c *gin.Context)
	ListOwned(c *gin.Context)
	Get(c *gin.Context)
}

type RoomHTTP interface {
	Create(c *gin.Context)
	ListAvailable(c *gin.Context)
	ListOwned(c *gin.Context)
	ListByHotel(c *gin.Context)
	ToggleAvailability(c *gin.Context)
}

type BookingHTTP interface {
	CheckAvailability(c *gin.Context)
	Create(c *gin.Context)
	ListUserBookings(c *gin.Context)
	HotelBookings(c *gin.Context)
	StripePayment(c *gin.Context)
}

type ReviewHTTP interface {
	Create(c *gin.Context)
	ListByRoom(c *gin.Context)
	ListByHotel(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type Handlers struct {
	Webhook        WebhookHTTP
	User           UserHTTP
	Hotel          HotelHTTP
	Room           RoomHTTP
	Booking        BookingHTTP
	Review         ReviewHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := NewRouter(obsMW, health, h)
	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

// NewRouter builds the full route table. Split from NewServer so
// handler tests can drive it with httptest.
func NewRouter(obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api")

	// The webhook authenticates with its own signature, not a session.
	if h.Webhook != nil {
		api.POST("/clerk", h.Webhook.Handle)
	}

	if h.AuthMiddleware != nil {
		api.Use(h.AuthMiddleware)
	}

	if h.User != nil {
		api.GET("/user", h.User.Me)
		api.POST("/user/store-recent-search", h.User.StoreRecentSearchedCity)
	}
	if h.Hotel != nil {
		api.POST("/hotels", h.Hotel.Register)
		api.GET("/hotels", h.Hotel.ListAll)
		api.GET("/hotels/owner", h.Hotel.ListOwned)
		api.GET("/hotels/:hotelId", h.Hotel.Get)
	}
	if h.Room != nil {
		api.POST("/rooms", h.Room.Create)
		api.GET("/rooms", h.Room.ListAvailable)
		api.GET("/rooms/owner", h.Room.ListOwned)
		api.GET("/rooms/hotel/:hotelId", h.Room.ListByHotel)
		api.POST("/rooms/toggle-availability", h.Room.ToggleAvailability)
	}
	if h.Booking != nil {
		api.POST("/bookings/check-availability", h.Booking.CheckAvailability)
		api.POST("/bookings/book", h.Booking.Create)
		api.GET("/bookings/user", h.Booking.ListUserBookings)
		api.GET("/bookings/hotel", h.Booking.HotelBookings)
		api.POST("/bookings/stripe-payment", h.Booking.StripePayment)
	}
	if h.Review != nil {
		api.POST("/reviews/create-review", h.Review.Create)
		api.GET("/reviews/room/:roomId", h.Review.ListByRoom)
		api.GET("/reviews/hotel/:hotelId", h.Review.ListByHotel)
		api.PUT("/reviews/:reviewId", h.Review.Update)
		api.DELETE("/reviews/:reviewId", h.Review.Delete)
	}

	return router
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}

var (
	_ WebhookHTTP = WebhookHandler{}
	_ UserHTTP    = UserHandler{}
	_ HotelHTTP   = HotelHandler{}
	_ RoomHTTP    = RoomHandler{}
	_ BookingHTTP = BookingHandler{}
	_ ReviewHTTP  = ReviewHandler{}
)
