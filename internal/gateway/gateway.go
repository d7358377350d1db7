// Package gateway provides the API gateway that routes requests to handlers.
package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httputil"
	"net/url"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ticketing-console/labeldesigner/internal/config"
)

// Gateway provides the API gateway functionality.
type Gateway struct {
	cfg    *config.Config
	logger *zap.Logger
	proxy  *httputil.ReverseProxy
}

// NewGateway creates a new API gateway. An unparsable handler URL leaves
// the proxy unset and every proxied request answers with a configuration
// error.
func NewGateway(cfg *config.Config, logger *zap.Logger) *Gateway {
	g := &Gateway{cfg: cfg, logger: logger}

	target, err := url.Parse(cfg.HandlerURL)
	if err != nil || target.Host == "" {
		logger.Error("Invalid handler URL", zap.String("handler_url", cfg.HandlerURL), zap.Error(err))
		return g
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = cfg.HTTPTimeout

	g.proxy = &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.SetXForwarded()
			g.logger.Debug("Proxying request",
				zap.String("method", r.Out.Method),
				zap.String("target", r.Out.URL.String()),
			)
		},
		Transport:    transport,
		ErrorHandler: g.proxyError,
	}
	return g
}

// proxiedPrefixes are the API route groups served by the handler service.
var proxiedPrefixes = []string{
	"/designs",
	"/sessions",
	"/uploads",
	"/templates",
	"/label-sizes",
	"/events",
}

// RegisterRoutes registers the gateway routes on the given router group.
func (g *Gateway) RegisterRoutes(rg *gin.RouterGroup) {
	for _, prefix := range proxiedPrefixes {
		rg.Any(prefix, g.proxyToHandler)
		rg.Any(prefix+"/*path", g.proxyToHandler)
	}
}

// proxyToHandler streams the request to the handler service unchanged.
func (g *Gateway) proxyToHandler(c *gin.Context) {
	if g.proxy == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "configuration_error",
			"message": "invalid handler URL configuration",
		})
		return
	}
	g.proxy.ServeHTTP(c.Writer, c.Request)
}

func (g *Gateway) proxyError(w http.ResponseWriter, r *http.Request, err error) {
	g.logger.Error("Failed to proxy request",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)

	status, code, message := http.StatusBadGateway, "proxy_error", "failed to reach handler service"
	if errors.Is(err, syscall.ECONNREFUSED) {
		status, code, message = http.StatusServiceUnavailable, "service_unavailable", "handler service is not available"
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(gin.H{"error": code, "message": message})
}

// HealthCheck returns a health check handler.
func (g *Gateway) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"role":    g.cfg.Role,
		"service": "label-designer",
	})
}
