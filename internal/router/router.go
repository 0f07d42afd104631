package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	authhandler "github.com/jwalitptl/wellness-api/internal/handler/auth"
	bookinghandler "github.com/jwalitptl/wellness-api/internal/handler/booking"
	healthhandler "github.com/jwalitptl/wellness-api/internal/handler/health"
	messagehandler "github.com/jwalitptl/wellness-api/internal/handler/message"
	practitionerhandler "github.com/jwalitptl/wellness-api/internal/handler/practitioner"
	ratinghandler "github.com/jwalitptl/wellness-api/internal/handler/rating"
	therapyhandler "github.com/jwalitptl/wellness-api/internal/handler/therapy"
	"github.com/jwalitptl/wellness-api/internal/middleware"
)

type Router struct {
	engine *gin.Engine
	auth   *middleware.AuthMiddleware

	authH         *authhandler.Handler
	practitionerH *practitionerhandler.Handler
	therapyH      *therapyhandler.Handler
	bookingH      *bookinghandler.Handler
	messageH      *messagehandler.Handler
	ratingH       *ratinghandler.Handler
	healthH       *healthhandler.Handler

	metrics *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

type Config struct {
	RequestTimeout time.Duration
	RateLimit      rate.Limit
	RateBurst      int
	CORSConfig     middleware.CORSConfig
	MetricsPrefix  string
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH *authhandler.Handler,
	practitionerH *practitionerhandler.Handler,
	therapyH *therapyhandler.Handler,
	bookingH *bookinghandler.Handler,
	messageH *messagehandler.Handler,
	ratingH *ratinghandler.Handler,
	healthH *healthhandler.Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	r := &Router{
		engine:        engine,
		auth:          auth,
		authH:         authH,
		practitionerH: practitionerH,
		therapyH:      therapyH,
		bookingH:      bookingH,
		messageH:      messageH,
		ratingH:       ratingH,
		healthH:       healthH,
		metrics:       initRouterMetrics(config.MetricsPrefix),
	}

	if config.RequestTimeout <= 0 {
		config.RequestTimeout = middleware.DefaultTimeoutConfig().Duration
	}

	engine.Use(
		gin.Recovery(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.RequestTimeout}),
		middleware.RequestID(),
	)

	engine.Use(middleware.CORS(config.CORSConfig))

	if config.RateLimit > 0 {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(rateLimiter.RateLimit())
	}

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.healthH.RegisterRoutes(api)

	// public routes
	r.authH.RegisterRoutes(api)
	r.practitionerH.RegisterRoutes(api)

	// protected routes guard themselves per role
	r.therapyH.RegisterRoutes(api, r.auth)
	r.bookingH.RegisterRoutes(api, r.auth)
	r.messageH.RegisterRoutes(api, r.auth)
	r.ratingH.RegisterRoutes(api, r.auth)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
