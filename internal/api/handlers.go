package api

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"pos-workshop/internal/model"
	"pos-workshop/internal/query"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), s.pingTimeout)
	defer cancel()

	db := "connected"
	if err := s.repo.Ping(ctx); err != nil {
		s.logger.Warn("health check ping failed", zap.Error(err))
		db = "disconnected"
	}
	return c.JSON(fiber.Map{"status": "ok", "db": db})
}

func (s *Server) handleListStores(c *fiber.Ctx) error {
	limit, err := queryLimit(c, query.DefaultListLimit)
	if err != nil {
		return s.fail(c, "invalid stores query", err)
	}

	stores, err := s.repo.ListStores(c.UserContext(), query.StoreFilter{Limit: limit})
	if err != nil {
		return s.fail(c, "failed to list stores", err)
	}
	return c.JSON(fiber.Map{"count": len(stores), "stores": orEmpty(stores)})
}

func (s *Server) handleListProducts(c *fiber.Ctx) error {
	limit, err := queryLimit(c, query.DefaultListLimit)
	if err != nil {
		return s.fail(c, "invalid products query", err)
	}

	products, err := s.repo.ListProducts(c.UserContext(), query.ProductFilter{
		Category: c.Query("category"),
		Limit:    limit,
	})
	if err != nil {
		return s.fail(c, "failed to list products", err)
	}
	return c.JSON(fiber.Map{"count": len(products), "products": orEmpty(products)})
}

// handleTopSellers unwinds and groups every order line on each call.
func (s *Server) handleTopSellers(c *fiber.Ctx) error {
	limit, err := queryLimit(c, query.DefaultTopSellersLimit)
	if err != nil {
		return s.fail(c, "invalid top sellers query", err)
	}

	sellers, err := s.repo.TopSellers(c.UserContext(), limit)
	if err != nil {
		return s.fail(c, "failed to compute top sellers", err)
	}
	return c.JSON(fiber.Map{"topSellers": orEmpty(sellers)})
}

func (s *Server) handleListCustomers(c *fiber.Ctx) error {
	limit, err := queryLimit(c, query.DefaultListLimit)
	if err != nil {
		return s.fail(c, "invalid customers query", err)
	}

	customers, err := s.repo.ListCustomers(c.UserContext(), query.CustomerFilter{
		LoyaltyTier: c.Query("loyaltyTier"),
		Limit:       limit,
	})
	if err != nil {
		return s.fail(c, "failed to list customers", err)
	}
	return c.JSON(fiber.Map{"count": len(customers), "customers": orEmpty(customers)})
}

func (s *Server) handleCustomerHistory(c *fiber.Ctx) error {
	id := c.Params("id")
	limit, err := queryLimit(c, query.DefaultHistoryLimit)
	if err != nil {
		return s.fail(c, "invalid customer history query", err)
	}

	customer, err := s.repo.FindCustomer(c.UserContext(), id)
	if err != nil {
		return s.fail(c, "failed to find customer", err)
	}
	if customer == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": fmt.Sprintf("Customer %s not found", id),
		})
	}

	orders, err := s.repo.CustomerOrders(c.UserContext(), id, limit)
	if err != nil {
		return s.fail(c, "failed to load customer orders", err)
	}
	return c.JSON(fiber.Map{
		"customer":   customer,
		"orderCount": len(orders),
		"orders":     orEmpty(orders),
	})
}

func (s *Server) handleListOrders(c *fiber.Ctx) error {
	filter := query.OrderFilter{StoreID: c.Query("storeId")}

	var err error
	if filter.Limit, err = queryLimit(c, query.DefaultListLimit); err != nil {
		return s.fail(c, "invalid orders query", err)
	}
	if filter.From, err = queryTime(c, "from"); err != nil {
		return s.fail(c, "invalid orders query", err)
	}
	if filter.To, err = queryTime(c, "to"); err != nil {
		return s.fail(c, "invalid orders query", err)
	}

	orders, err := s.repo.ListOrders(c.UserContext(), filter)
	if err != nil {
		return s.fail(c, "failed to list orders", err)
	}
	return c.JSON(fiber.Map{"count": len(orders), "orders": orEmpty(orders)})
}

func (s *Server) handleOrderSummary(c *fiber.Ctx) error {
	summary, err := s.repo.RevenueSummary(c.UserContext())
	if err != nil {
		return s.fail(c, "failed to compute revenue summary", err)
	}
	return c.JSON(fiber.Map{"summary": orEmpty(summary)})
}

func (s *Server) handleCreateOrder(c *fiber.Ctx) error {
	var order model.Order
	if err := c.BodyParser(&order); err != nil {
		return s.fail(c, "invalid order body", err)
	}

	id, err := s.repo.CreateOrder(c.UserContext(), &order)
	if err != nil {
		return s.fail(c, "failed to create order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"insertedId": id, "order": order})
}
