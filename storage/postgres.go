package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	rates "github.com/malusev998/privatbank-rates"
)

type postgresStorage struct {
	pool      *pgxpool.Pool
	tableName string
}

func NewPostgresStorage(c PostgresConfig) (rates.Storage, error) {
	poolConfig, err := pgxpool.ParseConfig(c.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	poolConfig.MaxConns = 4
	poolConfig.MaxConnIdleTime = time.Minute

	ctx, cancel := context.WithTimeout(c.context(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	st := postgresStorage{pool: pool, tableName: c.TableName}

	if c.Migrate {
		if err := st.Migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}
	}

	return st, nil
}

func (p postgresStorage) Store(ctx context.Context, days []rates.DayRates) (int, error) {
	rs := records(days, time.Now().UTC())

	if len(rs) == 0 {
		return 0, nil
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := fmt.Sprintf(`
insert into %s (rate_date, currency, provider, sale, purchase, created_at)
values ($1::date, $2, $3, $4::numeric, $5::numeric, $6)
on conflict (rate_date, currency, provider)
do update set
  sale = excluded.sale,
  purchase = excluded.purchase,
  created_at = excluded.created_at;
`, p.tableName)

	batch := &pgx.Batch{}
	for _, r := range rs {
		batch.Queue(query, r.Date.Time, r.Currency, string(r.Provider), r.Sale.String(), r.Purchase.String(), r.CreatedAt)
	}

	br := tx.SendBatch(ctx, batch)

	for _, r := range rs {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return 0, fmt.Errorf("upsert %s %s: %w", r.Date, r.Currency, err)
		}
	}

	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}

	return len(rs), nil
}

func (p postgresStorage) Migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, fmt.Sprintf(`
create table if not exists %s (
  rate_date  date        not null,
  currency   text        not null,
  provider   text        not null,
  sale       numeric     not null,
  purchase   numeric     not null,
  created_at timestamptz not null,
  primary key (rate_date, currency, provider)
);
`, p.tableName))
	if err != nil {
		return fmt.Errorf("migrate postgres table %s: %w", p.tableName, err)
	}

	return nil
}

func (p postgresStorage) Drop(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, fmt.Sprintf("drop table if exists %s;", p.tableName))

	return err
}

func (p postgresStorage) Close() error {
	p.pool.Close()

	return nil
}

func (p postgresStorage) GetStorageProviderName() string {
	return string(Postgres)
}
