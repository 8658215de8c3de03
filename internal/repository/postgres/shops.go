package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/localhandler/marketplace/internal/domain"
	"github.com/localhandler/marketplace/pkg/errors"
)

type shopRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewShopRepository creates a new shop repository
func NewShopRepository(db *sql.DB, logger *zap.Logger) *shopRepository {
	return &shopRepository{
		db:     db,
		logger: logger,
	}
}

func (r *shopRepository) Create(ctx context.Context, shop *domain.Shop) error {
	query := `
		INSERT INTO shops (id, name, email, password_hash, address, zip_code, phone_number,
			withdraw_method, available_balance, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	now := time.Now()
	if shop.ID == uuid.Nil {
		shop.ID = uuid.New()
	}
	if shop.CreatedAt.IsZero() {
		shop.CreatedAt = now
	}
	if shop.UpdatedAt.IsZero() {
		shop.UpdatedAt = now
	}

	method, err := marshalWithdrawMethod(shop.WithdrawMethod)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query,
		shop.ID,
		shop.Name,
		shop.Email,
		shop.PasswordHash,
		shop.Address,
		shop.ZipCode,
		shop.PhoneNumber,
		method,
		shop.AvailableBalance,
		shop.IsActive,
		shop.CreatedAt,
		shop.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create shop", zap.Error(err))
		return err
	}

	return nil
}

const shopColumns = `id, name, email, password_hash, address, zip_code, phone_number,
	withdraw_method, available_balance, is_active, created_at, updated_at`

func (r *shopRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error) {
	query := `SELECT ` + shopColumns + ` FROM shops WHERE id = $1`

	shop, err := r.scanShop(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "shop", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get shop by ID", zap.Error(err))
		return nil, err
	}

	return shop, nil
}

func (r *shopRepository) GetByEmail(ctx context.Context, email string) (*domain.Shop, error) {
	query := `SELECT ` + shopColumns + ` FROM shops WHERE email = $1`

	shop, err := r.scanShop(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "shop", ID: email}
	}
	if err != nil {
		r.logger.Error("Failed to get shop by email", zap.Error(err))
		return nil, err
	}

	return shop, nil
}

func (r *shopRepository) SetWithdrawMethod(ctx context.Context, shopID uuid.UUID, method *domain.WithdrawMethod) error {
	raw, err := marshalWithdrawMethod(method)
	if err != nil {
		return err
	}

	return r.updateWithdrawMethod(ctx, shopID, raw)
}

func (r *shopRepository) ClearWithdrawMethod(ctx context.Context, shopID uuid.UUID) error {
	return r.updateWithdrawMethod(ctx, shopID, nil)
}

func (r *shopRepository) updateWithdrawMethod(ctx context.Context, shopID uuid.UUID, raw []byte) error {
	query := `UPDATE shops SET withdraw_method = $2, updated_at = $3 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, shopID, raw, time.Now())
	if err != nil {
		r.logger.Error("Failed to update withdraw method", zap.Error(err))
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return &errors.ErrNotFound{Resource: "shop", ID: shopID.String()}
	}

	return nil
}

func (r *shopRepository) ListTransactions(ctx context.Context, shopID uuid.UUID) ([]*domain.Transaction, error) {
	query := `
		SELECT id, shop_id, type, amount, service_charge, final_amount, destination, status, created_at, updated_at
		FROM shop_transactions
		WHERE shop_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, shopID)
	if err != nil {
		r.logger.Error("Failed to list transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		var destination []byte

		err := rows.Scan(
			&tx.ID,
			&tx.ShopID,
			&tx.Type,
			&tx.Amount,
			&tx.ServiceCharge,
			&tx.FinalAmount,
			&destination,
			&tx.Status,
			&tx.CreatedAt,
			&tx.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if len(destination) > 0 {
			var method domain.WithdrawMethod
			if err := json.Unmarshal(destination, &method); err == nil {
				tx.Destination = &method
			}
		}

		transactions = append(transactions, &tx)
	}

	return transactions, rows.Err()
}

func (r *shopRepository) scanShop(row *sql.Row) (*domain.Shop, error) {
	var shop domain.Shop
	var method []byte

	err := row.Scan(
		&shop.ID,
		&shop.Name,
		&shop.Email,
		&shop.PasswordHash,
		&shop.Address,
		&shop.ZipCode,
		&shop.PhoneNumber,
		&method,
		&shop.AvailableBalance,
		&shop.IsActive,
		&shop.CreatedAt,
		&shop.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(method) > 0 {
		var wm domain.WithdrawMethod
		if err := json.Unmarshal(method, &wm); err == nil {
			shop.WithdrawMethod = &wm
		}
	}

	return &shop, nil
}

func marshalWithdrawMethod(method *domain.WithdrawMethod) ([]byte, error) {
	if method == nil {
		return nil, nil
	}
	return json.Marshal(method)
}

// appendTransaction inserts a ledger history row inside an open
// transaction. Ledger rows are append-only.
func appendTransaction(ctx context.Context, tx *sql.Tx, record *domain.Transaction) error {
	query := `
		INSERT INTO shop_transactions (id, shop_id, type, amount, service_charge, final_amount,
			destination, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	now := time.Now()
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = now
	}

	destination, err := marshalWithdrawMethod(record.Destination)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, query,
		record.ID,
		record.ShopID,
		record.Type,
		record.Amount,
		record.ServiceCharge,
		record.FinalAmount,
		destination,
		record.Status,
		record.CreatedAt,
		record.UpdatedAt,
	)
	return err
}
