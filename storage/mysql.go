package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	rates "github.com/malusev998/privatbank-rates"
)

const (
	MySQLTimeFormat = "2006-01-02 15:04:05"
	MySQLDateFormat = "2006-01-02"
)

var ErrNotEnoughBytesInGenerator = errors.New("id generator must return at least 16 bytes")

type (
	IDGenerator interface {
		Generate() []byte
	}

	uuidGenerator struct{}

	mysqlStorage struct {
		db          *sql.DB
		idGenerator IDGenerator
		tableName   string
	}
)

func (uuidGenerator) Generate() []byte {
	id := uuid.New()

	return id[:]
}

func NewMySQLStorage(c MySQLConfig) (rates.Storage, error) {
	db, err := sql.Open("mysql", c.ConnectionString)

	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	st, err := NewSQLStorage(c.context(), db, c.IDGenerator, c.TableName, c.Migrate)

	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return st, nil
}

func NewSQLStorage(ctx context.Context, db *sql.DB, idGenerator IDGenerator, tableName string, migrate bool) (rates.Storage, error) {
	if idGenerator == nil {
		idGenerator = uuidGenerator{}
	}

	st := mysqlStorage{
		db:          db,
		idGenerator: idGenerator,
		tableName:   tableName,
	}

	if migrate {
		if err := st.Migrate(ctx); err != nil {
			return nil, err
		}
	}

	return st, nil
}

func (m mysqlStorage) generateID() (uuid.UUID, error) {
	b := m.idGenerator.Generate()

	if len(b) < 16 {
		return uuid.Nil, ErrNotEnoughBytesInGenerator
	}

	return uuid.FromBytes(b[:16])
}

func (m mysqlStorage) Store(ctx context.Context, days []rates.DayRates) (int, error) {
	rs := records(days, time.Now().UTC())

	if len(rs) == 0 {
		return 0, nil
	}

	tx, err := m.db.BeginTx(ctx, nil)

	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s(id, rate_date, currency, provider, sale, purchase, created_at) VALUES (?,?,?,?,?,?,?) "+
			"ON DUPLICATE KEY UPDATE sale = VALUES(sale), purchase = VALUES(purchase), created_at = VALUES(created_at);",
		m.tableName,
	))

	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}

	for _, r := range rs {
		id, err := m.generateID()

		if err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return 0, err
		}

		_, err = stmt.ExecContext(
			ctx,
			id.String(),
			r.Date.Format(MySQLDateFormat),
			r.Currency,
			string(r.Provider),
			r.Sale.String(),
			r.Purchase.String(),
			r.CreatedAt.Format(MySQLTimeFormat),
		)

		if err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return 0, err
		}
	}

	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return len(rs), nil
}

func (m mysqlStorage) Migrate(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s(
	id CHAR(36) NOT NULL PRIMARY KEY,
	rate_date DATE NOT NULL,
	currency VARCHAR(16) NOT NULL,
	provider VARCHAR(32) NOT NULL,
	sale DECIMAL(20, 8) NOT NULL,
	purchase DECIMAL(20, 8) NOT NULL,
	created_at DATETIME NOT NULL,
	UNIQUE KEY %s_date_currency_provider (rate_date, currency, provider)
);`, m.tableName, m.tableName))

	if err != nil {
		return fmt.Errorf("migrate mysql table %s: %w", m.tableName, err)
	}

	return nil
}

func (m mysqlStorage) Drop(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s;", m.tableName))

	return err
}

func (m mysqlStorage) Close() error {
	return m.db.Close()
}

func (m mysqlStorage) GetStorageProviderName() string {
	return string(MySQL)
}
