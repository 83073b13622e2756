// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"os"
	"strings"
	"time"

	"github.com/amirphl/Kusanagi/app/dto"
	"github.com/amirphl/Kusanagi/app/handlers"
	"github.com/amirphl/Kusanagi/app/middleware"
	"github.com/amirphl/Kusanagi/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cache"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app               *fiber.App
	ticketHandler     handlers.TicketHandlerInterface
	inventoryHandler  handlers.InventoryHandlerInterface
	allocationHandler handlers.AllocationHandlerInterface
	catalogHandler    handlers.CatalogHandlerInterface
	authMiddleware    *middleware.AuthMiddleware
	enableMetrics     bool
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(
	ticketHandler handlers.TicketHandlerInterface,
	inventoryHandler handlers.InventoryHandlerInterface,
	allocationHandler handlers.AllocationHandlerInterface,
	catalogHandler handlers.CatalogHandlerInterface,
	authMiddleware *middleware.AuthMiddleware,
	enableMetrics bool,
) Router {
	// Configure Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Kusanagi API",
		ServerHeader: "Kusanagi",
		ErrorHandler: errorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:               app,
		ticketHandler:     ticketHandler,
		inventoryHandler:  inventoryHandler,
		allocationHandler: allocationHandler,
		catalogHandler:    catalogHandler,
		authMiddleware:    authMiddleware,
		enableMetrics:     enableMetrics,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	// Global middleware
	r.setupMiddleware()

	// Prometheus scrape endpoint, outside the API group and its rate limits
	if r.enableMetrics {
		r.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	// API routes
	api := r.app.Group("/api/v1")

	// Health check route (no rate limiting)
	api.Get("/health", r.healthCheck)

	// API documentation route (development only)
	if os.Getenv("APP_ENV") == "development" || os.Getenv("APP_ENV") == "local" {
		api.Get("/docs", r.getAPIDocumentation)
		log.Println("API documentation enabled for development")
	}

	// Apply general rate limiting to all API routes (aligned with nginx)
	api.Use(limiter.New(limiter.Config{
		Max:        2000,            // Maximum 2000 requests (matches nginx api zone)
		Expiration: 1 * time.Minute, // Per minute
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP() // Rate limit by IP
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
		Next: func(c fiber.Ctx) bool {
			// Skip rate limiting for health checks
			return c.Path() == "/api/v1/health"
		},
	}))

	// Public catalog endpoints, no authentication required
	catalog := api.Group("/catalog")
	catalog.Get("/names", r.catalogHandler.Names)
	catalog.Get("/models", r.catalogHandler.Models)
	catalog.Get("/availability", r.catalogHandler.Availability)
	catalog.Get("/free-units", r.catalogHandler.FreeUnits)

	// Employee request endpoints
	requests := api.Group("/requests", r.authMiddleware.Authenticate())
	requests.Post("/", r.ticketHandler.Create)
	requests.Get("/mine", r.ticketHandler.ListMine)
	requests.Get("/:request_id", r.ticketHandler.Get)
	requests.Patch("/:request_id", r.ticketHandler.Update)
	requests.Post("/:request_id/cancel", r.ticketHandler.Cancel)
	requests.Patch("/:request_id/status", r.ticketHandler.UpdateStatus)

	// Employee allocation endpoints
	allocations := api.Group("/allocations", r.authMiddleware.Authenticate())
	allocations.Get("/mine", r.allocationHandler.MyHardware)

	// Admin endpoints with stricter rate limiting (aligned with nginx)
	admin := api.Group("/admin", r.authMiddleware.AdminAuthenticate())
	admin.Use(limiter.New(limiter.Config{
		Max:        200,             // Maximum 200 requests (matches nginx admin zone)
		Expiration: 1 * time.Minute, // Per minute
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP() // Rate limit by IP
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
	}))

	admin.Get("/requests", r.ticketHandler.AdminList)
	admin.Get("/requests/filter-options", r.ticketHandler.AdminFilterOptions)
	admin.Patch("/requests/:request_id/status", r.ticketHandler.AdminUpdateStatus)
	admin.Patch("/requests/:request_id/priority", r.ticketHandler.AdminUpdatePriority)
	admin.Patch("/requests/:request_id/assignment", r.ticketHandler.AdminUpdateAssignment)
	admin.Post("/requests/:request_id/allocate", r.allocationHandler.Allocate)
	admin.Get("/inventory", r.inventoryHandler.List)
	admin.Get("/inventory/filter-options", r.inventoryHandler.FilterOptions)
	admin.Post("/inventory/intake", r.inventoryHandler.Intake)

	// Not found handler
	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// SetupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Security headers middleware
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		HSTSMaxAge:                31536000, // 1 year
		HSTSExcludeSubdomains:     false,
		ContentSecurityPolicy:     "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data: https:; font-src 'self' https:; connect-src 'self' https:; frame-ancestors 'none';",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginEmbedderPolicy: "require-corp",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "cross-origin",
		OriginAgentCluster:        "?1",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
	}))

	// CORS middleware with production settings
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"https://kusanagi.internal",
			"https://api.kusanagi.internal",
			"https://admin.kusanagi.internal",
			"https://helpdesk.kusanagi.internal",
		},
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Requested-With",
			"X-Request-ID",
			"X-API-Key",
			"Cache-Control",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
			"X-Response-Time",
		},
		AllowCredentials: true,
		MaxAge:           utils.CORSMaxAge,
	}))

	// Compression middleware for performance
	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
		Next: func(c fiber.Ctx) bool {
			// Skip compression for certain content types
			contentType := c.Get("Content-Type")
			return contains(contentType, "image/") ||
				contains(contentType, "video/") ||
				contains(contentType, "audio/")
		},
	}))

	// Cache middleware for static content
	r.app.Use(cache.New(cache.Config{
		Next: func(c fiber.Ctx) bool {
			// Only cache GET requests to specific endpoints
			return c.Method() != "GET" ||
				!contains(c.Path(), "/health") &&
					!contains(c.Path(), "/docs")
		},
		Expiration:          30 * time.Minute,
		DisableCacheControl: false,
	}))

	// Advanced logging middleware
	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			// Skip logging for health checks in production
			return c.Path() == "/api/v1/health"
		},
	}))

	// Prometheus request metrics
	if r.enableMetrics {
		r.app.Use(middleware.Metrics())
	}

	// Custom security middleware
	r.app.Use(r.securityMiddleware)

	// Recovery middleware with custom error handling
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			// Log panic with request context
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Custom security middleware
func (r *FiberRouter) securityMiddleware(c fiber.Ctx) error {
	// Add security headers
	c.Set("X-Response-Time", utils.UTCNow().Format(time.RFC3339))
	c.Set("Server", "Kusanagi")

	// IP validation (if configured)
	clientIP := c.IP()

	// Simple IP blocking example
	blockedIPs := []string{
		"127.0.0.2", // Example blocked IP
	}

	for _, blockedIP := range blockedIPs {
		if clientIP == blockedIP {
			return c.Status(fiber.StatusForbidden).JSON(dto.APIResponse{
				Success: false,
				Message: "Access denied from this IP address",
				Error: dto.ErrorDetail{
					Code: "ACCESS_DENIED",
				},
			})
		}
	}

	// Continue to next middleware
	return c.Next()
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"version":   "1.0.0",
			"service":   "kusanagi-api",
		},
	})
}

// API documentation endpoint
func (r *FiberRouter) getAPIDocumentation(c fiber.Ctx) error {
	docs := GetRouteDocumentation()
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "API documentation retrieved successfully",
		Data: fiber.Map{
			"title":       "Kusanagi API Documentation",
			"version":     "1.0.0",
			"description": "IT hardware request and allocation tracking API",
			"endpoints":   docs,
		},
	})
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	// Default error code
	code := fiber.StatusInternalServerError

	// Retrieve the custom status code if it's a fiber.*Error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Log the error
	log.Printf("Error %d: %v", code, err)

	// Get RequestID for tracing
	requestID := c.Locals("requestid")

	// Return JSON error response
	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

// Helper functions

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// contains checks if a string contains a substring
func contains(str, substr string) bool {
	return strings.Contains(str, substr)
}

// GetRouteDocumentation returns API documentation
func GetRouteDocumentation() []map[string]any {
	return []map[string]any{
		{
			"method":      "POST",
			"path":        "/api/v1/requests",
			"description": "Create a hardware request for the authenticated employee",
			"parameters": map[string]any{
				"asset_name":  "string (required) - Hardware name, e.g. Laptop",
				"model":       "string (optional) - Specific model",
				"department":  "string (optional) - Requesting department",
				"quantity":    "number (optional) - Requested quantity (default: 1)",
				"priority":    "string (optional) - Low|Medium|High",
				"description": "string (optional) - Free-form justification",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/requests/mine",
			"description": "List the authenticated employee's own requests",
			"parameters": map[string]any{
				"page":      "number (optional) - Page number (default: 1)",
				"page_size": "number (optional) - Page size (default: 20, max: 100)",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/requests/:request_id",
			"description": "Fetch a single request by its REQ- identifier",
			"parameters": map[string]any{
				"request_id": "string (required) - Request ID in URL path",
			},
		},
		{
			"method":      "PATCH",
			"path":        "/api/v1/requests/:request_id",
			"description": "Edit the quantity or description of the employee's own pending request",
			"parameters": map[string]any{
				"quantity":    "number (optional) - New quantity",
				"description": "string (optional) - New justification",
			},
		},
		{
			"method":      "POST",
			"path":        "/api/v1/requests/:request_id/cancel",
			"description": "Withdraw the employee's own pending request",
			"parameters": map[string]any{
				"request_id": "string (required) - Request ID in URL path",
			},
		},
		{
			"method":      "PATCH",
			"path":        "/api/v1/requests/:request_id/status",
			"description": "Move a request through its lifecycle (employees may only complete their own)",
			"parameters": map[string]any{
				"status": "string (required) - Pending|Approved|Rejected|Completed",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/allocations/mine",
			"description": "List hardware units currently assigned to the authenticated employee",
			"parameters":  map[string]any{},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/catalog/availability",
			"description": "Report whether the requested quantity of a hardware name is on hand",
			"parameters": map[string]any{
				"name":     "string (required) - Hardware name",
				"quantity": "number (optional) - Requested quantity (default: 1)",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/health",
			"description": "Health check endpoint",
			"parameters":  map[string]any{},
		},
	}
}
