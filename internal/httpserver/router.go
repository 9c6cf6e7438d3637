package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookstore-storefront/internal/domain"
	"bookstore-storefront/internal/service/checkout"
)

const (
	sessionHeader = "X-Session-Token"

	ctxSessionID   = "sessionID"
	ctxBearerToken = "bearerToken"
)

type sessionService interface {
	Issue(ctx context.Context) (token, sessionID string, err error)
	Lookup(ctx context.Context, token string) (string, error)
	TTLSeconds() int
}

type cartService interface {
	Items(ctx context.Context, sessionID string) ([]domain.CartItem, error)
	TotalPrice(ctx context.Context, sessionID string) (int64, error)
	Add(ctx context.Context, sessionID string, item domain.CartItem, quantity int) error
	Remove(ctx context.Context, sessionID, id string) error
	RemoveCompletely(ctx context.Context, sessionID, id string) error
	ToggleSelect(ctx context.Context, sessionID, id string) error
	SelectAll(ctx context.Context, sessionID string, selected bool) error
	Clear(ctx context.Context, sessionID string) error
}

type checkoutService interface {
	PlaceOrder(ctx context.Context, sessionID, bearerToken, userID string, form checkout.Form) (*checkout.PlacedOrder, error)
}

type ledgerService interface {
	Orders(ctx context.Context, sessionID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, sessionID, orderID string, status domain.OrderStatus) error
}

// Deps carries the service dependencies the router wires into handlers.
type Deps struct {
	SessionSvc  sessionService
	CartSvc     cartService
	CheckoutSvc checkoutService
	LedgerSvc   ledgerService
}

func (d Deps) validate() error {
	if d.SessionSvc == nil {
		return errors.New("session service required")
	}
	if d.CartSvc == nil {
		return errors.New("cart service required")
	}
	if d.CheckoutSvc == nil {
		return errors.New("checkout service required")
	}
	if d.LedgerSvc == nil {
		return errors.New("ledger service required")
	}
	return nil
}

// buildRouter wires routes for the storefront API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(corsOrigins) == 1 && corsOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = corsOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", sessionHeader)
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/sessions", createSessionHandler(deps.SessionSvc))

	me := router.Group("/me", sessionMiddleware(deps.SessionSvc))
	{
		me.GET("/cart", getCartHandler(deps.CartSvc))
		me.POST("/cart", updateCartHandler(deps.CartSvc))
		me.POST("/checkout", checkoutHandler(deps.CheckoutSvc))
		me.GET("/orders", listOrdersHandler(deps.LedgerSvc))
		me.PUT("/orders/:orderId/status", updateOrderStatusHandler(deps.LedgerSvc))
	}

	return router, nil
}

// sessionMiddleware resolves the session token into a session ID and stashes
// the optional backend bearer token for later forwarding.
func sessionMiddleware(sessions sessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader(sessionHeader))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "session token required"})
			return
		}
		sessionID, err := sessions.Lookup(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid session token"})
			return
		}
		c.Set(ctxSessionID, sessionID)

		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			c.Set(ctxBearerToken, strings.TrimPrefix(auth, "Bearer "))
		}
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(ctxSessionID)
}

func bearerToken(c *gin.Context) string {
	return c.GetString(ctxBearerToken)
}
