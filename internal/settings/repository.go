package settings

import (
	"context"
	"database/sql"
	"fmt"

	"psp-webhook/internal/db"
)

type Repository interface {
	// GetProviderSettings returns every stored key/value pair of a payment
	// service provider. Unknown providers yield an empty map.
	GetProviderSettings(ctx context.Context, providerID int64) (map[string]string, error)
}

type repository struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewRepository(conn *sql.DB, dialect db.Dialect) Repository {
	return &repository{db: conn, dialect: dialect}
}

func (r *repository) GetProviderSettings(ctx context.Context, providerID int64) (map[string]string, error) {
	query := fmt.Sprintf(`
		SELECT setting_key, setting_value
		FROM payment_service_provider_settings
		WHERE provider_id = %s`, r.dialect.Ph(1))

	rows, err := r.db.QueryContext(ctx, query, providerID)
	if err != nil {
		return nil, fmt.Errorf("query provider settings: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var (
			key   string
			value sql.NullString
		)
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan provider setting: %w", err)
		}
		values[key] = value.String
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate provider settings: %w", err)
	}

	return values, nil
}
