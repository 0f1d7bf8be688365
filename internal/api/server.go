package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"pos-workshop/internal/query"
)

const DefaultBasePath = "/api"

// Server exposes a query.Repository over HTTP. Several routes are slow on a
// fresh dataset because nothing is indexed.
type Server struct {
	repo   query.Repository
	logger *zap.Logger
	app    *fiber.App

	pingTimeout time.Duration
}

func NewServer(repo query.Repository, logger *zap.Logger, basePath string) *Server {
	s := &Server{
		repo:        repo,
		logger:      logger,
		pingTimeout: 2 * time.Second,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "pos-workshop",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(requestID())
	s.app.Use(requestLogger(logger))

	s.app.Get("/health", s.handleHealth)

	api := s.app.Group(basePath)
	api.Get("/stores", s.handleListStores)

	api.Get("/products/top-sellers", s.handleTopSellers)
	api.Get("/products", s.handleListProducts)

	api.Get("/customers/:id/history", s.handleCustomerHistory)
	api.Get("/customers", s.handleListCustomers)

	api.Get("/orders/summary", s.handleOrderSummary)
	api.Get("/orders", s.handleListOrders)
	api.Post("/orders", s.handleCreateOrder)

	return s
}

// App returns the underlying fiber app, mostly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	s.logger.Info("POS API listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// handleError catches anything a handler returned instead of answering.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		s.logger.Error("unhandled request error", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func (s *Server) fail(c *fiber.Ctx, msg string, err error) error {
	s.logger.Error(msg,
		zap.String("request_id", requestIDFrom(c)),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
