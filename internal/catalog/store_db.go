package catalog

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"Storefront/internal/money"
	"Storefront/internal/product"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
	seedTimeout  = 10 * time.Second
	pgUniqueCode = "23505"
)

const schema = `
	CREATE TABLE IF NOT EXISTS products (
		id          INTEGER PRIMARY KEY,
		type        TEXT NOT NULL,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		rating      DOUBLE PRECISION NOT NULL DEFAULT 0,
		img         TEXT NOT NULL DEFAULT '',
		price_minor BIGINT NOT NULL CHECK (price_minor >= 0),
		available   INTEGER NOT NULL CHECK (available >= 0)
	)
`

const selectColumns = `SELECT id, type, name, description, rating, img, price_minor, available FROM products`

// PostgresStore reads products from Postgres. The *sql.DB is expected to
// be opened with the pgx stdlib driver.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) List(ctx context.Context, category string) ([]product.Product, error) {
	var out []product.Product

	category = strings.ToLower(strings.TrimSpace(category))
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		var (
			rows *sql.Rows
			err  error
		)
		if category == "" || category == product.CategoryAll {
			rows, err = s.db.QueryContext(ctx, selectColumns+` ORDER BY id ASC`)
		} else {
			rows, err = s.db.QueryContext(ctx, selectColumns+` WHERE lower(type) = $1 ORDER BY id ASC`, category)
		}
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]product.Product, 0, 16)
		for rows.Next() {
			p, err := scanProduct(rows)
			if err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int) (product.Product, bool, error) {
	var (
		p   product.Product
		err error
	)

	err = withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		var scanErr error
		p, scanErr = scanProduct(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = $1`, id))
		return scanErr
	})

	if errors.Is(err, sql.ErrNoRows) {
		return product.Product{}, false, nil
	}
	if err != nil {
		return product.Product{}, false, err
	}
	return p, true, nil
}

// Seed creates the products table if needed and inserts ps. Products whose
// id already exists are left untouched; the number inserted is returned.
func (s *PostgresStore) Seed(ctx context.Context, ps []product.Product) (int, error) {
	inserted := 0

	err := withTimeout(ctx, seedTimeout, func(ctx context.Context) error {
		if _, err := s.db.ExecContext(ctx, schema); err != nil {
			return err
		}

		for _, p := range ps {
			_, err := s.db.ExecContext(ctx, `
				INSERT INTO products (id, type, name, description, rating, img, price_minor, available)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`, p.ID, p.Type, p.Name, p.Description, p.Rating, p.Img, p.Price.Minor(), p.Available)
			if isUniqueViolation(err) {
				continue
			}
			if err != nil {
				return err
			}
			inserted++
		}
		return nil
	})

	return inserted, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(r rowScanner) (product.Product, error) {
	var (
		p     product.Product
		minor int64
	)
	if err := r.Scan(&p.ID, &p.Type, &p.Name, &p.Description, &p.Rating, &p.Img, &minor, &p.Available); err != nil {
		return product.Product{}, err
	}
	p.Price = money.FromMinor(minor)
	return p, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueCode
}
