package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yourusername/tile-inventory/internal/domain/entity"
	"github.com/yourusername/tile-inventory/internal/usecase"
	"github.com/yourusername/tile-inventory/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// Deps are the use cases the web layer drives.
type Deps struct {
	Brands    usecase.BrandUseCase
	Customers usecase.CustomerUseCase
	Catalog   usecase.CatalogUseCase
	BulkEdit  usecase.BulkEditUseCase
	Products  usecase.ProductUseCase
	Sales     usecase.SalesUseCase
	Backup    usecase.BackupUseCase
}

// Options configure auth and CORS.
type Options struct {
	AdminPassword  string
	JWTSecret      string
	SessionTTL     time.Duration
	AllowedOrigins []string
	SecureCookies  bool
}

// Server renders the inventory UI.
type Server struct {
	deps      Deps
	auth      *authenticator
	sessions  *sessionStore
	templates *template.Template
	engine    *gin.Engine
}

// NewServer parses templates and builds the router.
func NewServer(deps Deps, opts Options) (*Server, error) {
	auth, err := newAuthenticator(opts.AdminPassword, opts.JWTSecret, opts.SessionTTL, opts.SecureCookies)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s := &Server{
		deps:      deps,
		auth:      auth,
		sessions:  newSessionStore(opts.SessionTTL),
		templates: tmpl,
	}
	s.engine = s.routes(opts.AllowedOrigins)
	return s, nil
}

// Handler exposes the router for http.Server.
func (s *Server) Handler() http.Handler { return s.engine }

// StartCleanup drops idle sessions in the background until ctx is done.
func (s *Server) StartCleanup(ctx context.Context) {
	every := s.sessions.ttl / 4
	if every < time.Minute {
		every = time.Minute
	}
	go s.sessions.cleanupLoop(ctx, every)
}

func (s *Server) routes(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(), gin.Recovery())

	corsCfg := cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		corsCfg.AllowOriginWithContextFunc = func(c *gin.Context, origin string) bool {
			if strings.TrimSpace(origin) == "" {
				return true
			}
			return originMatchesHost(origin, c.Request.Host)
		}
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "sessions": s.sessions.len()})
	})
	r.GET("/login", s.loginPage)
	r.POST("/login", s.login)
	r.POST("/logout", s.logout)

	app := r.Group("/")
	app.Use(s.requireSession())
	{
		app.GET("/", s.dashboard)
		app.GET("/back", s.back)

		app.GET("/brands", s.listBrands)
		app.GET("/brands/new", s.newBrandForm)
		app.GET("/brands/:id", s.brandDetail)
		app.GET("/brands/:id/edit", s.editBrandForm)
		app.POST("/brands", s.saveBrand)
		app.POST("/brands/:id/delete", s.deleteBrand)

		app.GET("/customers", s.listCustomers)
		app.GET("/customers/new", s.newCustomerForm)
		app.GET("/customers/:id", s.customerDetail)
		app.GET("/customers/:id/edit", s.editCustomerForm)
		app.GET("/customers/:id/invoice", s.customerInvoice)
		app.POST("/customers", s.saveCustomer)
		app.POST("/customers/:id/delete", s.deleteCustomer)

		app.GET("/products", s.listProducts)
		app.GET("/products/new", s.newProductForm)
		app.GET("/products/:id/edit", s.editProductForm)
		app.POST("/products", s.saveProduct)
		app.POST("/products/:id/delete", s.deleteProduct)

		app.GET("/catalog", s.catalogPage)
		app.POST("/catalog/refresh", s.refreshCatalog)
		app.GET("/catalog/groups", s.groupsPage)
		app.GET("/catalog/groups/:id", s.groupDetail)
		app.POST("/catalog/bulk/begin", s.bulkBegin)
		app.POST("/catalog/bulk/choose", s.bulkChoose)
		app.POST("/catalog/bulk/toggle/:id", s.bulkToggle)
		app.POST("/catalog/bulk/apply", s.bulkApply)
		app.POST("/catalog/bulk/cancel", s.bulkCancel)

		app.GET("/sales", s.salesPage)
		app.GET("/sales/quote", s.saleQuote)
		app.POST("/sales", s.recordSale)

		app.GET("/backup/export", s.exportBackup)
		app.POST("/backup/import", s.importBackup)
	}
	return r
}

// requestLogger logs one line per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"ip", c.ClientIP(),
		)
	}
}

// pageData is what every layout render receives.
type pageData struct {
	Title      string
	Page       entity.Page
	ShowNavbar bool
	Toast      *toast
	Bulk       entity.BulkEditState
	Selected   map[string]bool
	Content    template.HTML
	Data       gin.H
}

// render executes "<name>-content" into the layout. login is rendered
// without session chrome.
func (s *Server) render(c *gin.Context, status int, name string, data gin.H) {
	pd := pageData{Toast: popFlash(c), Data: data}
	if title, ok := data["Title"].(string); ok {
		pd.Title = title
	}
	if sess := currentSession(c); sess != nil {
		pd.Page = sess.Nav.Current()
		pd.ShowNavbar = sess.Nav.NavbarVisible()
		pd.Bulk = sess.Bulk()
		pd.Selected = make(map[string]bool, len(pd.Bulk.Selected))
		for _, id := range pd.Bulk.Selected {
			pd.Selected[id] = true
		}
		if pd.Title == "" {
			pd.Title = sess.Nav.Title(pd.Page)
		}
	}

	var content bytes.Buffer
	if err := s.templates.ExecuteTemplate(&content, name+"-content", pd); err != nil {
		logger.Errorf("❌ render %s: %v", name, err)
		c.String(http.StatusInternalServerError, "template error")
		return
	}
	pd.Content = template.HTML(content.String())

	var page bytes.Buffer
	if err := s.templates.ExecuteTemplate(&page, "layout.html", pd); err != nil {
		logger.Errorf("❌ render layout: %v", err)
		c.String(http.StatusInternalServerError, "template error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", page.Bytes())
}

// navigate records a page visit for the current session.
func navigate(c *gin.Context, page entity.Page, params entity.PageParams) {
	if sess := currentSession(c); sess != nil {
		sess.Nav.NavigateTo(page, params)
	}
}

// fail renders an error page with a status derived from err.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, entity.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, entity.ErrValidation), errors.Is(err, entity.ErrInsufficientStock):
		status = http.StatusBadRequest
	case errors.Is(err, entity.ErrRemote):
		status = http.StatusBadGateway
	}
	logger.Warnf("⚠️ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	s.render(c, status, "error", gin.H{"Title": "Error", "Message": userMessage(err), "Status": status})
}

// redirectWithError flashes err and redirects to target.
func redirectWithError(c *gin.Context, target, title string, err error) {
	flashError(c, title, userMessage(err))
	c.Redirect(http.StatusSeeOther, target)
}

// userMessage prefers the validation message over the wrapped chain.
func userMessage(err error) string {
	var verr *entity.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return err.Error()
}

func originMatchesHost(origin, host string) bool {
	u, err := url.Parse(strings.TrimSpace(origin))
	if err != nil || u.Host == "" {
		return false
	}
	originHost := u.Hostname()
	reqHost := strings.TrimSpace(host)
	if h, _, err := net.SplitHostPort(reqHost); err == nil {
		reqHost = h
	}
	return strings.EqualFold(originHost, reqHost)
}
