package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"roomstay/internal/config"
	"roomstay/internal/models"
)

// ServiceRoleDB is the elevated connection used only by the counter fallback
// path. It bypasses row-level authorization, so nothing else goes through it.
type ServiceRoleDB struct {
	conn *sql.DB
}

func NewServiceRoleDB(cfg config.DatabaseConfig) (*ServiceRoleDB, error) {
	user := cfg.ServiceRoleUser
	pass := cfg.ServiceRolePass
	if user == "" {
		// Without a dedicated role the fallback degrades to the regular
		// credentials; still a distinct connection.
		user = cfg.User
		pass = cfg.Password
	}

	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, user, pass, cfg.Database, cfg.SSLMode)

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(); err != nil {
		return nil, err
	}

	return &ServiceRoleDB{conn: conn}, nil
}

func (db *ServiceRoleDB) Close() error {
	return db.conn.Close()
}

// ReadCounter returns the current value of one analytics counter.
func (db *ServiceRoleDB) ReadCounter(ctx context.Context, propertyID, counter string) (int64, error) {
	if !models.ValidCounterName(counter) {
		return 0, fmt.Errorf("unknown counter %q", counter)
	}

	// counter is a validated enum, never caller input.
	query := fmt.Sprintf("SELECT %s FROM properties WHERE id = $1", counter)

	var value int64
	if err := db.conn.QueryRowContext(ctx, query, propertyID).Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}

// WriteCounter overwrites one analytics counter with value. Combined with
// ReadCounter this is the non-atomic read-modify-write fallback: two
// concurrent callers can lose an increment.
func (db *ServiceRoleDB) WriteCounter(ctx context.Context, propertyID, counter string, value int64) error {
	if !models.ValidCounterName(counter) {
		return fmt.Errorf("unknown counter %q", counter)
	}

	query := fmt.Sprintf("UPDATE properties SET %s = $1 WHERE id = $2", counter)

	res, err := db.conn.ExecContext(ctx, query, value, propertyID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
