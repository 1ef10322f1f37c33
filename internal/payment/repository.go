package payment

import (
	"context"
	"database/sql"
	"fmt"

	"psp-webhook/internal/db"
)

// AuditLogger records incoming payment actions.
type AuditLogger interface {
	LogIncomingPaymentAction(
		ctx context.Context,
		provider Provider,
		invoiceNumber string,
		statusCode int,
		requestBody *string,
	) error
}

type Repository interface {
	AuditLogger
	ListPaymentLogs(ctx context.Context, invoiceNumber string) ([]PaymentLog, error)
}

type repository struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewRepository(conn *sql.DB, dialect db.Dialect) Repository {
	return &repository{db: conn, dialect: dialect}
}

func (r *repository) LogIncomingPaymentAction(
	ctx context.Context,
	provider Provider,
	invoiceNumber string,
	statusCode int,
	requestBody *string,
) error {

	q := `
	INSERT INTO payment_logs (
		provider,
		invoice_number,
		status_code,
		request_body
	)
	VALUES (` + r.dialect.Placeholders(1, 4) + `);
	`

	var body sql.NullString
	if requestBody != nil {
		body = sql.NullString{String: *requestBody, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, q, string(provider), invoiceNumber, statusCode, body)
	if err != nil {
		return fmt.Errorf("insert payment log: %w", err)
	}
	return nil
}

func (r *repository) ListPaymentLogs(ctx context.Context, invoiceNumber string) ([]PaymentLog, error) {
	q := `
	SELECT id, provider, invoice_number, status_code, request_body, created_at
	FROM payment_logs
	WHERE invoice_number = ` + r.dialect.Ph(1) + `
	ORDER BY created_at DESC, id DESC;
	`

	rows, err := r.db.QueryContext(ctx, q, invoiceNumber)
	if err != nil {
		return nil, fmt.Errorf("query payment logs: %w", err)
	}
	defer rows.Close()

	logs := make([]PaymentLog, 0)
	for rows.Next() {
		var (
			l        PaymentLog
			provider string
			body     sql.NullString
		)
		if err := rows.Scan(&l.ID, &provider, &l.InvoiceNumber, &l.StatusCode, &body, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.Provider = Provider(provider)
		if body.Valid {
			s := body.String
			l.RequestBody = &s
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
