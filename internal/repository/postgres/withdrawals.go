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

type withdrawRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewWithdrawRepository creates a new withdraw repository
func NewWithdrawRepository(db *sql.DB, logger *zap.Logger) *withdrawRepository {
	return &withdrawRepository{
		db:     db,
		logger: logger,
	}
}

func (r *withdrawRepository) CreateReserving(ctx context.Context, req *domain.WithdrawRequest, gross float64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
	}
	if req.UpdatedAt.IsZero() {
		req.UpdatedAt = now
	}

	// Conditional debit: the reservation serializes on the shop row
	// and can never drive the balance negative.
	res, err := tx.ExecContext(ctx,
		`UPDATE shops SET available_balance = available_balance - $2, updated_at = $3
		 WHERE id = $1 AND available_balance >= $2`,
		req.SellerID, gross, now)
	if err != nil {
		r.logger.Error("Failed to reserve withdrawal amount", zap.Error(err))
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return &errors.ErrInsufficientBalance{
			ShopID:    req.SellerID.String(),
			Requested: gross,
		}
	}

	destination, err := marshalWithdrawMethod(req.Destination)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO withdraw_requests (id, seller_id, amount, service_charge, destination, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		req.ID, req.SellerID, req.Amount, req.ServiceCharge, destination, req.Status, req.CreatedAt, req.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to create withdraw request", zap.Error(err))
		return err
	}

	return tx.Commit()
}

const withdrawColumns = `id, seller_id, amount, service_charge, destination, status, created_at, updated_at`

func (r *withdrawRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WithdrawRequest, error) {
	query := `SELECT ` + withdrawColumns + ` FROM withdraw_requests WHERE id = $1`

	req, err := scanWithdraw(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "withdraw request", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get withdraw request", zap.Error(err))
		return nil, err
	}

	return req, nil
}

func (r *withdrawRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*domain.WithdrawRequest, error) {
	query := `SELECT ` + withdrawColumns + ` FROM withdraw_requests WHERE seller_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, sellerID)
}

func (r *withdrawRepository) ListAll(ctx context.Context) ([]*domain.WithdrawRequest, error) {
	query := `SELECT ` + withdrawColumns + ` FROM withdraw_requests ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *withdrawRepository) Resolve(ctx context.Context, req *domain.WithdrawRequest, record domain.Transaction, releaseGross float64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()

	// Only a Processing request can be resolved, so a repeated
	// resolution call can never append a second ledger record.
	res, err := tx.ExecContext(ctx,
		`UPDATE withdraw_requests SET status = $2, updated_at = $3 WHERE id = $1 AND status = $4`,
		req.ID, req.Status, now, domain.WithdrawStatusProcessing)
	if err != nil {
		r.logger.Error("Failed to resolve withdraw request", zap.Error(err))
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return &errors.ErrInvalidStateTransition{
			From: string(req.Status),
			To:   string(req.Status),
		}
	}

	if releaseGross > 0 {
		_, err = tx.ExecContext(ctx,
			`UPDATE shops SET available_balance = available_balance + $2, updated_at = $3 WHERE id = $1`,
			req.SellerID, releaseGross, now)
		if err != nil {
			r.logger.Error("Failed to release withdrawal reservation", zap.Error(err))
			return err
		}
	}

	if err := appendTransaction(ctx, tx, &record); err != nil {
		r.logger.Error("Failed to append withdrawal transaction", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	req.UpdatedAt = now
	return nil
}

func (r *withdrawRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.WithdrawRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list withdraw requests", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var requests []*domain.WithdrawRequest
	for rows.Next() {
		req, err := scanWithdraw(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

func scanWithdraw(row rowScanner) (*domain.WithdrawRequest, error) {
	var req domain.WithdrawRequest
	var destination []byte

	err := row.Scan(
		&req.ID,
		&req.SellerID,
		&req.Amount,
		&req.ServiceCharge,
		&destination,
		&req.Status,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(destination) > 0 {
		var method domain.WithdrawMethod
		if err := json.Unmarshal(destination, &method); err == nil {
			req.Destination = &method
		}
	}

	return &req, nil
}
