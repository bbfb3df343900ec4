package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/commcap/prospector/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS users (
	id                     TEXT PRIMARY KEY,
	email                  TEXT NOT NULL UNIQUE,
	broker_name            TEXT NOT NULL DEFAULT '',
	company                TEXT NOT NULL DEFAULT '',
	phone                  TEXT NOT NULL DEFAULT '',
	subscription_status    TEXT NOT NULL DEFAULT 'trial',
	subscription_plan      TEXT NOT NULL DEFAULT '',
	trial_expires_at       DATETIME,
	stripe_customer_id     TEXT NOT NULL DEFAULT '',
	stripe_subscription_id TEXT NOT NULL DEFAULT '',
	monthly_searches_used  INTEGER NOT NULL DEFAULT 0,
	monthly_search_limit   INTEGER NOT NULL DEFAULT 0,
	created_at             DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at             DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
CREATE INDEX IF NOT EXISTS idx_users_stripe_customer ON users(stripe_customer_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const userColumns = `id, email, broker_name, company, phone,
	subscription_status, subscription_plan, trial_expires_at,
	stripe_customer_id, stripe_subscription_id,
	monthly_searches_used, monthly_search_limit, created_at, updated_at`

func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (s *SQLiteStore) UpsertUser(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(email) DO UPDATE SET
			broker_name            = excluded.broker_name,
			company                = excluded.company,
			phone                  = excluded.phone,
			subscription_status    = excluded.subscription_status,
			subscription_plan      = excluded.subscription_plan,
			trial_expires_at       = excluded.trial_expires_at,
			stripe_customer_id     = excluded.stripe_customer_id,
			stripe_subscription_id = excluded.stripe_subscription_id,
			monthly_searches_used  = excluded.monthly_searches_used,
			monthly_search_limit   = excluded.monthly_search_limit,
			updated_at             = excluded.updated_at`,
		user.ID, user.Email, user.BrokerName, user.Company, user.Phone,
		string(user.SubscriptionStatus), user.SubscriptionPlan, user.TrialExpiresAt,
		user.StripeCustomerID, user.StripeSubscriptionID,
		user.MonthlySearchesUsed, user.MonthlySearchLimit,
		user.CreatedAt, user.UpdatedAt,
	)
	return eris.Wrapf(err, "sqlite: upsert user %s", user.Email)
}

func (s *SQLiteStore) ApplyCheckout(ctx context.Context, email, customerID, subscriptionID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET stripe_customer_id = ?, stripe_subscription_id = ?,
			subscription_status = ?, updated_at = ?
		 WHERE email = ?`,
		customerID, subscriptionID, string(model.StatusActive), time.Now().UTC(), email,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: apply checkout %s", email)
	}
	return checkRowsAffected(res, "user", email)
}

func (s *SQLiteStore) IncrementSearches(ctx context.Context, email string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET monthly_searches_used = monthly_searches_used + 1,
			updated_at = ?
		 WHERE email = ?`,
		time.Now().UTC(), email,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: increment searches %s", email)
	}
	return checkRowsAffected(res, "user", email)
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanUser(row scannable) (*model.User, error) {
	var u model.User
	var status string
	var trialExpires sql.NullTime

	err := row.Scan(&u.ID, &u.Email, &u.BrokerName, &u.Company, &u.Phone,
		&status, &u.SubscriptionPlan, &trialExpires,
		&u.StripeCustomerID, &u.StripeSubscriptionID,
		&u.MonthlySearchesUsed, &u.MonthlySearchLimit,
		&u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: scan user")
	}

	u.SubscriptionStatus = model.SubscriptionStatus(status)
	if trialExpires.Valid {
		t := trialExpires.Time
		u.TrialExpiresAt = &t
	}
	return &u, nil
}
