package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/localhandler/marketplace/internal/domain"
	"github.com/localhandler/marketplace/pkg/errors"
)

type orderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB, logger *zap.Logger) *orderRepository {
	return &orderRepository{
		db:     db,
		logger: logger,
	}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = now
	}
	if order.PaidAt.IsZero() {
		order.PaidAt = now
	}

	query := `
		INSERT INTO orders (id, shop_id, address1, address2, city, country, zip_code,
			buyer_id, buyer_name, buyer_email, total_price,
			payment_id, payment_status, payment_type,
			status, tracking_id, courier, paid_at, delivered_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`

	_, err = tx.ExecContext(ctx, query,
		order.ID,
		order.ShopID,
		order.ShippingAddress.Address1,
		order.ShippingAddress.Address2,
		order.ShippingAddress.City,
		order.ShippingAddress.Country,
		order.ShippingAddress.ZipCode,
		order.Buyer.ID,
		order.Buyer.Name,
		order.Buyer.Email,
		order.TotalPrice,
		order.PaymentInfo.ID,
		order.PaymentInfo.Status,
		order.PaymentInfo.Type,
		order.Status,
		order.TrackingID,
		order.Courier,
		order.PaidAt,
		order.DeliveredAt,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create order", zap.Error(err))
		return err
	}

	lineQuery := `
		INSERT INTO order_lines (order_id, product_id, name, quantity, unit_price,
			selected_size, selected_color, shop_id, is_reviewed, tracking_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	for _, line := range order.Cart {
		_, err = tx.ExecContext(ctx, lineQuery,
			order.ID,
			line.ProductID,
			line.Name,
			line.Quantity,
			line.UnitPrice,
			line.SelectedSize,
			line.SelectedColor,
			line.ShopID,
			line.IsReviewed,
			line.TrackingID,
		)
		if err != nil {
			r.logger.Error("Failed to create order line", zap.Error(err))
			return err
		}
	}

	return tx.Commit()
}

const orderColumns = `id, shop_id, address1, address2, city, country, zip_code,
	buyer_id, buyer_name, buyer_email, total_price,
	payment_id, payment_status, payment_type,
	status, tracking_id, courier, paid_at, delivered_at, created_at, updated_at`

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get order by ID", zap.Error(err))
		return nil, err
	}

	lines, err := r.linesForOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Cart = lines

	return order, nil
}

func (r *orderRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE buyer_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, buyerID)
}

func (r *orderRepository) ListByShop(ctx context.Context, shopID uuid.UUID) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE shop_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, shopID)
}

func (r *orderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY delivered_at DESC NULLS LAST, created_at DESC`
	return r.list(ctx, query)
}

func (r *orderRepository) UpdateShipping(ctx context.Context, id uuid.UUID, courier domain.Courier, trackingID string) error {
	query := `
		UPDATE orders
		SET status = $2, courier = $3, tracking_id = $4, updated_at = $5
		WHERE id = $1
	`

	return r.exec(ctx, query, id, domain.OrderStatusShipping, string(courier), trackingID, time.Now())
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	query := `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`

	return r.exec(ctx, query, id, status, time.Now())
}

func (r *orderRepository) MarkDelivered(ctx context.Context, order *domain.Order, payout domain.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	query := `
		UPDATE orders
		SET status = $2, payment_status = $3, delivered_at = $4, updated_at = $4
		WHERE id = $1 AND status != $2
	`

	res, err := tx.ExecContext(ctx, query, order.ID, domain.OrderStatusDelivered, "Succeeded", now)
	if err != nil {
		r.logger.Error("Failed to mark order delivered", zap.Error(err))
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return &errors.ErrInvalidStateTransition{
			From: string(domain.OrderStatusDelivered),
			To:   string(domain.OrderStatusDelivered),
		}
	}

	// Credit is additive; the running balance stays replayable from
	// the transaction history.
	_, err = tx.ExecContext(ctx,
		`UPDATE shops SET available_balance = available_balance + $2, updated_at = $3 WHERE id = $1`,
		order.ShopID, payout.FinalAmount, now)
	if err != nil {
		r.logger.Error("Failed to credit shop balance", zap.Error(err))
		return err
	}

	if err := appendTransaction(ctx, tx, &payout); err != nil {
		r.logger.Error("Failed to append payout transaction", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	order.Status = domain.OrderStatusDelivered
	order.PaymentInfo.Status = "Succeeded"
	order.DeliveredAt = &now
	order.UpdatedAt = now
	return nil
}

func (r *orderRepository) ApproveRefund(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	// Conditional flip: only an order still awaiting the refund can be
	// finalized, so two racing approvals restore inventory only once.
	res, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1 AND status = $4`,
		order.ID, domain.OrderStatusRefundSuccess, now, domain.OrderStatusProcessingRefund)
	if err != nil {
		r.logger.Error("Failed to update order status for refund", zap.Error(err))
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return &errors.ErrInvalidStateTransition{
			From: string(domain.OrderStatusRefundSuccess),
			To:   string(domain.OrderStatusRefundSuccess),
		}
	}

	// All lines restore or none do.
	restore := `UPDATE products SET stock = stock + $2, sold_out = sold_out - $2, updated_at = $3 WHERE id = $1`
	for _, line := range order.Cart {
		res, err := tx.ExecContext(ctx, restore, line.ProductID, line.Quantity, now)
		if err != nil {
			r.logger.Error("Failed to restore product inventory",
				zap.String("product_id", line.ProductID.String()), zap.Error(err))
			return err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return &errors.ErrNotFound{Resource: "product", ID: line.ProductID.String()}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	order.Status = domain.OrderStatusRefundSuccess
	order.UpdatedAt = now
	return nil
}

func (r *orderRepository) exec(ctx context.Context, query string, id uuid.UUID, args ...interface{}) error {
	res, err := r.db.ExecContext(ctx, query, append([]interface{}{id}, args...)...)
	if err != nil {
		r.logger.Error("Failed to update order", zap.Error(err))
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}

	return nil
}

func (r *orderRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, order := range orders {
		lines, err := r.linesForOrder(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Cart = lines
	}

	return orders, nil
}

func (r *orderRepository) linesForOrder(ctx context.Context, orderID uuid.UUID) ([]domain.CartLine, error) {
	query := `
		SELECT product_id, name, quantity, unit_price, selected_size, selected_color,
			shop_id, is_reviewed, tracking_id
		FROM order_lines
		WHERE order_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		r.logger.Error("Failed to load order lines", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var line domain.CartLine
		err := rows.Scan(
			&line.ProductID,
			&line.Name,
			&line.Quantity,
			&line.UnitPrice,
			&line.SelectedSize,
			&line.SelectedColor,
			&line.ShopID,
			&line.IsReviewed,
			&line.TrackingID,
		)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var trackingID, courier sql.NullString
	var deliveredAt sql.NullTime

	err := row.Scan(
		&order.ID,
		&order.ShopID,
		&order.ShippingAddress.Address1,
		&order.ShippingAddress.Address2,
		&order.ShippingAddress.City,
		&order.ShippingAddress.Country,
		&order.ShippingAddress.ZipCode,
		&order.Buyer.ID,
		&order.Buyer.Name,
		&order.Buyer.Email,
		&order.TotalPrice,
		&order.PaymentInfo.ID,
		&order.PaymentInfo.Status,
		&order.PaymentInfo.Type,
		&order.Status,
		&trackingID,
		&courier,
		&order.PaidAt,
		&deliveredAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if trackingID.Valid {
		order.TrackingID = &trackingID.String
	}
	if courier.Valid {
		order.Courier = &courier.String
	}
	if deliveredAt.Valid {
		order.DeliveredAt = &deliveredAt.Time
	}

	return &order, nil
}
