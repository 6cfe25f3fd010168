package queries_test

import (
	"context"
	"time"

	"ordertracker/internal/adapters/out/postgres/orderrepo"
	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type noopTracker struct{}

func (noopTracker) TrackAggregate(_ kernel.UUID, _ any) {}

// queryHandlerSuite spins up one Postgres container per suite and provides
// seeding helpers shared by the query handler tests.
type queryHandlerSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	orderRepo *orderrepo.GormOrderRepository
}

func (s *queryHandlerSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	s.Require().NoError(err)
	s.db = db

	err = db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{}, &orderrepo.StatusHistoryDTO{})
	s.Require().NoError(err)

	s.orderRepo = orderrepo.NewGormOrderRepository(db, noopTracker{})
}

func (s *queryHandlerSuite) TearDownSuite() {
	if s.container != nil {
		err := s.container.Terminate(context.Background())
		s.Require().NoError(err)
	}
}

func (s *queryHandlerSuite) SetupTest() {
	err := s.db.Exec("TRUNCATE TABLE orders, order_items, order_status_history CASCADE").Error
	s.Require().NoError(err)
}

// seedOrder persists a fresh Pending order with the given items.
func (s *queryHandlerSuite) seedOrder(customerID string, createdAt time.Time, prices ...string) *order.Order {
	s.T().Helper()

	items := make([]order.Item, 0, len(prices))
	for _, price := range prices {
		item, err := order.NewItem(kernel.NewUUID(), "product-"+price, 1, decimal.RequireFromString(price))
		s.Require().NoError(err)
		items = append(items, item)
	}

	seeded, err := order.NewOrder(kernel.NewUUID(), customerID, items, createdAt)
	s.Require().NoError(err)

	err = s.orderRepo.Add(context.Background(), seeded)
	s.Require().NoError(err)
	return seeded
}

// advanceOrder moves a seeded order one step along its lifecycle.
func (s *queryHandlerSuite) advanceOrder(id kernel.UUID, from, to order.Status, actor string, at time.Time) {
	s.T().Helper()

	_, err := s.orderRepo.UpdateStatusIfCurrent(context.Background(), id, from, to, actor, at)
	s.Require().NoError(err)
}
