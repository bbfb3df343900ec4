package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/commcap/prospector/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies
// it, which keeps the Postgres backend unit-testable without a server.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"get_user_by_email":  `SELECT ` + userColumns + ` FROM users WHERE email = $1`,
	"apply_checkout":     `UPDATE users SET stripe_customer_id = $1, stripe_subscription_id = $2, subscription_status = $3, updated_at = $4 WHERE email = $5`,
	"increment_searches": `UPDATE users SET monthly_searches_used = monthly_searches_used + 1, updated_at = $1 WHERE email = $2`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS users (
	id                     TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	email                  TEXT NOT NULL UNIQUE,
	broker_name            TEXT NOT NULL DEFAULT '',
	company                TEXT NOT NULL DEFAULT '',
	phone                  TEXT NOT NULL DEFAULT '',
	subscription_status    TEXT NOT NULL DEFAULT 'trial',
	subscription_plan      TEXT NOT NULL DEFAULT '',
	trial_expires_at       TIMESTAMPTZ,
	stripe_customer_id     TEXT NOT NULL DEFAULT '',
	stripe_subscription_id TEXT NOT NULL DEFAULT '',
	monthly_searches_used  INTEGER NOT NULL DEFAULT 0,
	monthly_search_limit   INTEGER NOT NULL DEFAULT 0,
	created_at             TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at             TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_users_stripe_customer ON users(stripe_customer_id);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanPgUser(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get user %s", email)
	}
	return u, nil
}

func (s *PostgresStore) UpsertUser(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 ON CONFLICT (email) DO UPDATE SET
			broker_name            = EXCLUDED.broker_name,
			company                = EXCLUDED.company,
			phone                  = EXCLUDED.phone,
			subscription_status    = EXCLUDED.subscription_status,
			subscription_plan      = EXCLUDED.subscription_plan,
			trial_expires_at       = EXCLUDED.trial_expires_at,
			stripe_customer_id     = EXCLUDED.stripe_customer_id,
			stripe_subscription_id = EXCLUDED.stripe_subscription_id,
			monthly_searches_used  = EXCLUDED.monthly_searches_used,
			monthly_search_limit   = EXCLUDED.monthly_search_limit,
			updated_at             = EXCLUDED.updated_at`,
		user.ID, user.Email, user.BrokerName, user.Company, user.Phone,
		string(user.SubscriptionStatus), user.SubscriptionPlan, user.TrialExpiresAt,
		user.StripeCustomerID, user.StripeSubscriptionID,
		user.MonthlySearchesUsed, user.MonthlySearchLimit,
		user.CreatedAt, user.UpdatedAt,
	)
	return eris.Wrapf(err, "postgres: upsert user %s", user.Email)
}

func (s *PostgresStore) ApplyCheckout(ctx context.Context, email, customerID, subscriptionID string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET stripe_customer_id = $1, stripe_subscription_id = $2,
			subscription_status = $3, updated_at = $4
		 WHERE email = $5`,
		customerID, subscriptionID, string(model.StatusActive), time.Now().UTC(), email,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: apply checkout %s", email)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("user not found: %s", email)
	}
	return nil
}

func (s *PostgresStore) IncrementSearches(ctx context.Context, email string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET monthly_searches_used = monthly_searches_used + 1,
			updated_at = $1
		 WHERE email = $2`,
		time.Now().UTC(), email,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: increment searches %s", email)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("user not found: %s", email)
	}
	return nil
}

func scanPgUser(row pgx.Row) (*model.User, error) {
	var u model.User
	var status string
	var trialExpires *time.Time

	err := row.Scan(&u.ID, &u.Email, &u.BrokerName, &u.Company, &u.Phone,
		&status, &u.SubscriptionPlan, &trialExpires,
		&u.StripeCustomerID, &u.StripeSubscriptionID,
		&u.MonthlySearchesUsed, &u.MonthlySearchLimit,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}

	u.SubscriptionStatus = model.SubscriptionStatus(status)
	u.TrialExpiresAt = trialExpires
	return &u, nil
}
