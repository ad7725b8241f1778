package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront/config"
	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/orderlog"
	"storefront/internal/service"
	"storefront/internal/session"
	"storefront/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const sessionContextKey = "session"

// Handler contains HTTP handlers
type Handler struct {
	catalog     *catalog.Catalog
	sessions    *session.Manager
	cartService *service.CartService
	checkout    *service.CheckoutService
	storeCfg    config.StoreConfig
	sessionCfg  config.SessionConfig
}

// NewHandler creates a new HTTP handler
func NewHandler(
	cat *catalog.Catalog,
	sessions *session.Manager,
	cartService *service.CartService,
	checkout *service.CheckoutService,
	storeCfg config.StoreConfig,
	sessionCfg config.SessionConfig,
) *Handler {
	return &Handler{
		catalog:     cat,
		sessions:    sessions,
		cartService: cartService,
		checkout:    checkout,
		storeCfg:    storeCfg,
		sessionCfg:  sessionCfg,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(requestLogger(util.GetLogger()))

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/store", h.storeInfo)
		v1.GET("/categories", h.listCategories)
		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)
		v1.GET("/payment-methods", h.listPaymentMethods)
	}

	// Only adding to the cart starts a session; the other routes act on an
	// empty session when the caller has none.
	v1.POST("/cart/items", h.sessionMiddleware(true), h.addCartItem)

	shop := v1.Group("", h.sessionMiddleware(false))
	{
		shop.GET("/cart", h.getCart)
		shop.DELETE("/cart/items/:id", h.removeCartItem)
		shop.DELETE("/cart", h.clearCart)

		shop.POST("/checkout", h.submitCheckout)

		shop.GET("/orders", h.listOrders)
		shop.GET("/orders/:id", h.getOrder)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"sessions": h.sessions.Len(),
		"time":     time.Now().Unix(),
	})
}

func (h *Handler) storeInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":          h.storeCfg.Name,
		"support_email": h.storeCfg.SupportEmail,
		"support_phone": h.storeCfg.SupportPhone,
	})
}

func (h *Handler) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.catalog.Categories()})
}

// listProducts filters by ?category= (exact, "All" for none) and ?q= (name substring)
func (h *Handler) listProducts(c *gin.Context) {
	category := c.Query("category")
	if category == "All" {
		category = ""
	}

	products := h.catalog.Products(catalog.Filter{
		Category: models.Category(category),
		Search:   c.Query("q"),
	})
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) getProduct(c *gin.Context) {
	product, ok := h.catalog.Product(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) listPaymentMethods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"payment_methods": models.PaymentMethods()})
}

type cartLineView struct {
	models.CartLine
	Subtotal decimal.Decimal `json:"subtotal"`
}

type cartView struct {
	Lines []cartLineView  `json:"lines"`
	Total decimal.Decimal `json:"total"`
	Empty bool            `json:"empty"`
}

func newCartView(ct *cart.Cart) cartView {
	lines := ct.Lines()
	view := cartView{
		Lines: make([]cartLineView, 0, len(lines)),
		Total: ct.Total(),
		Empty: ct.IsEmpty(),
	}
	for _, l := range lines {
		view.Lines = append(view.Lines, cartLineView{CartLine: l, Subtotal: l.Subtotal()})
	}
	return view
}

func (h *Handler) getCart(c *gin.Context) {
	sess := currentSession(c)

	var view cartView
	_ = sess.Do(func(s *session.Session) error {
		view = newCartView(s.Cart)
		return nil
	})
	c.JSON(http.StatusOK, view)
}

// AddCartItemRequest is the body of POST /cart/items
type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

func (h *Handler) addCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	sess := currentSession(c)
	var view cartView
	err := sess.Do(func(s *session.Session) error {
		if err := h.cartService.AddProduct(s.Cart, req.ProductID, req.Quantity); err != nil {
			return err
		}
		view = newCartView(s.Cart)
		return nil
	})

	switch {
	case err == nil:
		c.JSON(http.StatusOK, view)
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found", "details": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not add to cart", "details": err.Error()})
	}
}

func (h *Handler) removeCartItem(c *gin.Context) {
	sess := currentSession(c)

	var view cartView
	_ = sess.Do(func(s *session.Session) error {
		h.cartService.RemoveProduct(s.Cart, c.Param("id"))
		view = newCartView(s.Cart)
		return nil
	})
	c.JSON(http.StatusOK, view)
}

func (h *Handler) clearCart(c *gin.Context) {
	sess := currentSession(c)

	var view cartView
	_ = sess.Do(func(s *session.Session) error {
		h.cartService.Clear(s.Cart)
		view = newCartView(s.Cart)
		return nil
	})
	c.JSON(http.StatusOK, view)
}

// CheckoutRequest is the body of POST /checkout
type CheckoutRequest struct {
	Customer      models.CustomerInfo  `json:"customer"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
}

func (h *Handler) submitCheckout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	sess := currentSession(c)
	var order *models.Order
	err := sess.Do(func(s *session.Session) error {
		var err error
		order, err = h.checkout.Submit(c.Request.Context(), s.Orders, s.Cart, req.Customer, req.PaymentMethod)
		return err
	})

	var verr *service.ValidationError
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, order)
	case errors.Is(err, service.ErrEmptyCart):
		c.JSON(http.StatusConflict, gin.H{"error": "Your cart is empty. Add some items to checkout!"})
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  verr.Err.Error(),
			"fields": verr.Fields,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to place order",
			"details": err.Error(),
		})
	}
}

// listOrders returns the session's orders, newest first unless ?order=chronological
func (h *Handler) listOrders(c *gin.Context) {
	ordering, err := orderlog.ParseOrdering(c.Query("order"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order parameter", "details": err.Error()})
		return
	}

	sess := currentSession(c)
	var orders []models.Order
	_ = sess.Do(func(s *session.Session) error {
		orders = s.Orders.List(ordering)
		return nil
	})
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) getOrder(c *gin.Context) {
	sess := currentSession(c)

	var (
		order models.Order
		found bool
	)
	_ = sess.Do(func(s *session.Session) error {
		order, found = s.Orders.Get(c.Param("id"))
		return nil
	})
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// sessionMiddleware attaches the caller's session. With create set, a request
// carrying no known session id gets a new session; otherwise it is served from
// a throwaway empty session that is never registered.
func (h *Handler) sessionMiddleware(create bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(h.sessionCfg.HeaderName)
		if id == "" {
			id, _ = c.Cookie(h.sessionCfg.CookieName)
		}

		var (
			sess *session.Session
			ok   bool
		)
		if create {
			sess, _ = h.sessions.GetOrCreate(id)
			ok = true
		} else if id != "" {
			sess, ok = h.sessions.Get(id)
		}

		if !ok {
			c.Set(sessionContextKey, &session.Session{Cart: cart.New(), Orders: orderlog.New()})
			c.Next()
			return
		}

		c.Header(h.sessionCfg.HeaderName, sess.ID)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(h.sessionCfg.CookieName, sess.ID, 0, "/", "", false, true)

		c.Set(sessionContextKey, sess)
		c.Request = c.Request.WithContext(session.WithID(c.Request.Context(), sess.ID))
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionContextKey).(*session.Session)
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}

// requestLogger logs one line per request
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("session_id", session.IDFromContext(c.Request.Context())))
	}
}
