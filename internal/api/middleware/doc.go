// Package middleware provides the HTTP middleware for the terminal server.
//
//   - CORS: lets a browser client on another origin call /execute
//   - RateLimit: per-IP token bucket, idle clients expire
//   - GlobalRateLimit: one bucket shared by every client
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.RateLimitFromConfig(cfg.RateLimit)))
package middleware
