package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	"github.com/urbanthreads/storefront-service/internal/apperrors"
	"github.com/urbanthreads/storefront-service/internal/logging"
	"github.com/urbanthreads/storefront-service/internal/models"
)

// PostgresOrderRepository persists orders in PostgreSQL. Line items, the
// shipping address and the bank-transfer sub-record are embedded as JSONB:
// they have no identity outside their order.
type PostgresOrderRepository struct {
	db     *sql.DB
	logger *logging.Logger
}

// NewPostgresOrderRepository creates a new PostgreSQL order repository.
func NewPostgresOrderRepository(db *sql.DB, logger *logging.Logger) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		db:     db,
		logger: logger,
	}
}

const orderColumns = `
	id, user_id, items, shipping_address, payment_method, payment_result,
	items_price, shipping_price, tax_price, total_price,
	is_paid, paid_at, is_delivered, delivered_at,
	bank_transfer_details, is_bank_transfer_submitted, is_bank_transfer_approved,
	created_at, updated_at
`

// Create inserts a fully derived order. The caller is responsible for having
// computed the monetary fields from catalog prices.
func (r *PostgresOrderRepository) Create(ctx context.Context, order *models.Order) error {
	r.logger.Debug("Creating order", logging.Fields{
		"order_id": order.ID,
		"user_id":  order.UserID,
	})

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return err
	}
	addressJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, NULL,
		        $6, $7, $8, $9,
		        $10, NULL, $11, NULL,
		        NULL, $12, $13,
		        $14, $15)
	`

	_, err = r.db.ExecContext(ctx, query,
		order.ID,
		order.UserID,
		itemsJSON,
		addressJSON,
		order.PaymentMethod,
		order.ItemsPrice,
		order.ShippingPrice,
		order.TaxPrice,
		order.TotalPrice,
		order.IsPaid,
		order.IsDelivered,
		order.IsBankTransferSubmitted,
		order.IsBankTransferApproved,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create order", logging.Fields{
			"order_id": order.ID,
			"error":    err.Error(),
		})
		return err
	}

	r.logger.Info("Order created", logging.Fields{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"total":    order.TotalPrice,
	})
	return nil
}

// GetByID retrieves an order by its identifier.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to fetch order", logging.Fields{
			"order_id": id,
			"error":    err.Error(),
		})
		return nil, err
	}

	return order, nil
}

// Update writes back the whole mutable state of an order after a transition.
// There is no version check: concurrent transitions resolve last-write-wins,
// matching the storefront's historical behavior.
func (r *PostgresOrderRepository) Update(ctx context.Context, order *models.Order) error {
	r.logger.Debug("Updating order", logging.Fields{"order_id": order.ID})

	var paymentResultJSON, bankDetailsJSON []byte
	var err error
	if order.PaymentResult != nil {
		if paymentResultJSON, err = json.Marshal(order.PaymentResult); err != nil {
			return err
		}
	}
	if order.BankTransferDetails != nil {
		if bankDetailsJSON, err = json.Marshal(order.BankTransferDetails); err != nil {
			return err
		}
	}

	order.UpdatedAt = time.Now()

	query := `
		UPDATE orders
		SET payment_result = $2,
		    is_paid = $3, paid_at = $4,
		    is_delivered = $5, delivered_at = $6,
		    bank_transfer_details = $7,
		    is_bank_transfer_submitted = $8,
		    is_bank_transfer_approved = $9,
		    updated_at = $10
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		order.ID,
		nullableJSON(paymentResultJSON),
		order.IsPaid,
		nullableTime(order.PaidAt),
		order.IsDelivered,
		nullableTime(order.DeliveredAt),
		nullableJSON(bankDetailsJSON),
		order.IsBankTransferSubmitted,
		order.IsBankTransferApproved,
		order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to update order", logging.Fields{
			"order_id": order.ID,
			"error":    err.Error(),
		})
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// GetByUserID retrieves a user's orders, newest first.
func (r *PostgresOrderRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*models.Order, int, error) {
	return r.List(ctx, &models.OrderListFilter{UserID: userID, Limit: limit, Offset: offset})
}

// List retrieves orders matching the filter along with the total match count.
func (r *PostgresOrderRepository) List(ctx context.Context, filter *models.OrderListFilter) ([]*models.Order, int, error) {
	baseQuery := ` FROM orders WHERE 1=1`
	args := make([]interface{}, 0, 4)

	if filter.UserID != "" {
		args = append(args, filter.UserID)
		baseQuery += ` AND user_id = $` + strconv.Itoa(len(args))
	}
	if filter.IsPaid != nil {
		args = append(args, *filter.IsPaid)
		baseQuery += ` AND is_paid = $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*)`+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit)
	limitArg := strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	offsetArg := strconv.Itoa(len(args))

	query := `SELECT ` + orderColumns + baseQuery +
		` ORDER BY created_at DESC LIMIT $` + limitArg + ` OFFSET $` + offsetArg

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := make([]*models.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var order models.Order
	var itemsJSON, addressJSON []byte
	var paymentResultJSON, bankDetailsJSON []byte
	var paidAt, deliveredAt sql.NullTime

	err := row.Scan(
		&order.ID,
		&order.UserID,
		&itemsJSON,
		&addressJSON,
		&order.PaymentMethod,
		&paymentResultJSON,
		&order.ItemsPrice,
		&order.ShippingPrice,
		&order.TaxPrice,
		&order.TotalPrice,
		&order.IsPaid,
		&paidAt,
		&order.IsDelivered,
		&deliveredAt,
		&bankDetailsJSON,
		&order.IsBankTransferSubmitted,
		&order.IsBankTransferApproved,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(addressJSON, &order.ShippingAddress); err != nil {
		return nil, err
	}
	if len(paymentResultJSON) > 0 {
		order.PaymentResult = &models.PaymentResult{}
		if err := json.Unmarshal(paymentResultJSON, order.PaymentResult); err != nil {
			return nil, err
		}
	}
	if len(bankDetailsJSON) > 0 {
		order.BankTransferDetails = &models.BankTransferDetails{}
		if err := json.Unmarshal(bankDetailsJSON, order.BankTransferDetails); err != nil {
			return nil, err
		}
	}

	if paidAt.Valid {
		order.PaidAt = &paidAt.Time
	}
	if deliveredAt.Valid {
		order.DeliveredAt = &deliveredAt.Time
	}

	return &order, nil
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func nullableJSON(data []byte) interface{} {
	if len(data) == 0 {
		return nil
	}
	return data
}
