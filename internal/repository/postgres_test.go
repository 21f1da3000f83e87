package repository

import (
	"testing"
)

func TestPostgresOrderRepository_Create(t *testing.T) {
	t.Skip("Integration test - requires database")
}

func TestPostgresOrderRepository_Update(t *testing.T) {
	t.Skip("Integration test - requires database")
}

func TestPostgresProductRepository_List(t *testing.T) {
	t.Skip("Integration test - requires database")
}

func TestPostgresReviewRepository_Create(t *testing.T) {
	t.Skip("Integration test - requires database")
}

func TestRedisOrderCache_Get(t *testing.T) {
	t.Skip("Integration test - requires redis")
}
