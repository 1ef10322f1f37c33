package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"psp-webhook/internal/db"
)

type Repository interface {
	GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*Order, error)
	// UpdateStatus reports false when the order exists but was left unchanged
	// because it is already PAID.
	UpdateStatus(ctx context.Context, invoiceNumber string, status OrderStatus, statusCode int) (bool, error)
}

type repository struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewRepository(conn *sql.DB, dialect db.Dialect) Repository {
	return &repository{db: conn, dialect: dialect}
}

func (r *repository) GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*Order, error) {
	query := fmt.Sprintf(`
		SELECT id, invoice_number, status, payment_status_code, created_at, updated_at
		FROM orders
		WHERE invoice_number = %s`, r.dialect.Ph(1))

	var (
		o    Order
		code sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, query, invoiceNumber).Scan(
		&o.ID,
		&o.InvoiceNumber,
		&o.Status,
		&code,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order by invoice number: %w", err)
	}
	o.PaymentStatusCode = int(code.Int64)

	return &o, nil
}

func (r *repository) UpdateStatus(ctx context.Context, invoiceNumber string, status OrderStatus, statusCode int) (bool, error) {
	if !status.Valid() {
		return false, ErrInvalidStatus
	}

	query := fmt.Sprintf(`
		UPDATE orders
		SET status = %s, payment_status_code = %s, updated_at = CURRENT_TIMESTAMP
		WHERE invoice_number = %s AND status <> %s`, r.dialect.Ph(1), r.dialect.Ph(2), r.dialect.Ph(3), r.dialect.Ph(4))

	res, err := r.db.ExecContext(ctx, query, status, statusCode, invoiceNumber, StatusPaid)
	if err != nil {
		return false, fmt.Errorf("failed to update order status: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows > 0 {
		return true, nil
	}

	exists, err := r.exists(ctx, invoiceNumber)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, ErrOrderNotFound
	}
	return false, nil
}

func (r *repository) exists(ctx context.Context, invoiceNumber string) (bool, error) {
	query := fmt.Sprintf(`SELECT 1 FROM orders WHERE invoice_number = %s`, r.dialect.Ph(1))

	var one int
	err := r.db.QueryRowContext(ctx, query, invoiceNumber).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check order: %w", err)
	}
	return true, nil
}
