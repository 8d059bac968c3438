// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-budget/internal/bookdelivery"
	"github.com/go-petr/pet-budget/internal/bookrepo"
	"github.com/go-petr/pet-budget/internal/bookservice"
	"github.com/go-petr/pet-budget/internal/expensedelivery"
	"github.com/go-petr/pet-budget/internal/expenserepo"
	"github.com/go-petr/pet-budget/internal/expenseservice"
	"github.com/go-petr/pet-budget/internal/memberrepo"
	"github.com/go-petr/pet-budget/internal/memberservice"
	"github.com/go-petr/pet-budget/internal/middleware"
	"github.com/go-petr/pet-budget/internal/sessiondelivery"
	"github.com/go-petr/pet-budget/internal/sessionrepo"
	"github.com/go-petr/pet-budget/internal/sessionservice"
	"github.com/go-petr/pet-budget/internal/userdelivery"
	"github.com/go-petr/pet-budget/internal/userrepo"
	"github.com/go-petr/pet-budget/internal/userservice"
	"github.com/go-petr/pet-budget/pkg/configpkg"
	"github.com/go-petr/pet-budget/pkg/tokenpkg"
	"github.com/go-petr/pet-budget/pkg/web"
)

// OCSPrefix is the root of the machine surface.
const OCSPrefix = "/ocs/v2/apps/budget"

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB         *sql.DB
	Engine     *gin.Engine
	Config     configpkg.Config
	TokenMaker tokenpkg.Maker
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

type ledgerHandlers struct {
	books    *bookdelivery.Handler
	expenses *expensedelivery.Handler
}

func registerLedger(g *gin.RouterGroup, h ledgerHandlers) {
	g.GET("/books", h.books.List)
	g.POST("/books", h.books.Create)
	g.PATCH("/books/:id", h.books.Rename)
	g.PUT("/books/:id", h.books.Rename)
	g.POST("/books/:id/rename", h.books.Rename)
	g.DELETE("/books/:id", h.books.Delete)
	g.POST("/books/:id/invite", h.books.Invite)
	g.GET("/books/:id/members", h.books.Members)
	g.DELETE("/books/:id/members/:uid", h.books.RemoveMember)

	g.GET("/books/:id/expenses", h.expenses.List)
	g.POST("/books/:id/expenses", h.expenses.Create)
	g.PATCH("/books/:id/expenses/:eid", h.expenses.Update)
	g.DELETE("/books/:id/expenses/:eid", h.expenses.Delete)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	userRepo := userrepo.NewRepoPGS(conn)
	sessionRepo := sessionrepo.NewRepoPGS(conn)
	memberRepo := memberrepo.NewRepoPGS(conn)
	bookRepo := bookrepo.NewRepoPGS(conn)
	expenseRepo := expenserepo.NewRepoPGS(conn)

	tokenMaker, err := tokenpkg.NewMaker(config.TokenKind, config.TokenSymmetricKey)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	userService := userservice.New(userRepo)
	sessionService, err := sessionservice.New(sessionRepo, config, tokenMaker)
	if err != nil {
		return nil, errors.New("cannot initialize session service")
	}

	authority := memberservice.New(memberRepo, bookRepo)
	bookService := bookservice.New(bookRepo, authority, userService)
	expenseService := expenseservice.New(expenseRepo, authority)

	userHandler := userdelivery.NewHandler(userService, sessionService, config.SessionCookieName)
	sessionHandler := sessiondelivery.NewHandler(sessionService)

	metrics := middleware.NewMetrics()

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())
	engine.Use(metrics.Instrument())

	engine.GET("/healthz", func(gctx *gin.Context) {
		gctx.JSON(http.StatusOK, web.OK{OK: true})
	})
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	engine.POST("/users", userHandler.Create)
	engine.POST("/users/login", userHandler.Login)
	engine.POST("/sessions", sessionHandler.RenewAccessToken)

	session := engine.Group("/", middleware.SessionAuth(tokenMaker, config.SessionCookieName))
	registerLedger(session, ledgerHandlers{
		books:    bookdelivery.NewHandler(bookService, web.Plain{}),
		expenses: expensedelivery.NewHandler(expenseService, web.Plain{}),
	})

	ocs := engine.Group(OCSPrefix, middleware.BasicAuth(userService, web.OCS{}))
	registerLedger(ocs, ledgerHandlers{
		books:    bookdelivery.NewHandler(bookService, web.OCS{}),
		expenses: expensedelivery.NewHandler(expenseService, web.OCS{}),
	})

	server := &Server{
		DB:         conn,
		Engine:     engine,
		Config:     config,
		TokenMaker: tokenMaker,
	}

	return server, nil
}
