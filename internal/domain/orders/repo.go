package orders

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// Create appends a finalized order. Nothing updates orders afterwards.
func (r *Repo) Create(ctx context.Context, o *Order) (*Order, error) {
	lines, err := json.Marshal(o.Lines)
	if err != nil {
		return nil, fmt.Errorf("marshal lines: %w", err)
	}
	sel, err := json.Marshal(o.Selection)
	if err != nil {
		return nil, fmt.Errorf("marshal selection: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO orders (
			first_name, last_name, email, phone, razon_social, cif,
			direccion, region, goal, lines, selection,
			total_price, total_units, outcome, price_shown
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING id, created_at
	`,
		o.FirstName, o.LastName, o.Email, o.Phone, o.CompanyName, o.TaxID,
		o.Address, o.Region, o.Goal, lines, sel,
		o.TotalPrice, o.TotalUnits, o.Outcome, o.PriceShown,
	)
	if err := row.Scan(&o.ID, &o.CreatedAt); err != nil {
		return nil, err
	}
	return o, nil
}

// List returns all orders, newest first, for the back-office export.
func (r *Repo) List(ctx context.Context) ([]Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, first_name, last_name, email, phone, razon_social, cif,
		       direccion, region, goal, lines, selection,
		       total_price, total_units, outcome, price_shown, created_at
		FROM orders
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		var lines, sel []byte
		if err := rows.Scan(
			&o.ID, &o.FirstName, &o.LastName, &o.Email, &o.Phone, &o.CompanyName, &o.TaxID,
			&o.Address, &o.Region, &o.Goal, &lines, &sel,
			&o.TotalPrice, &o.TotalUnits, &o.Outcome, &o.PriceShown, &o.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(lines, &o.Lines); err != nil {
			return nil, fmt.Errorf("unmarshal lines for order %d: %w", o.ID, err)
		}
		if err := json.Unmarshal(sel, &o.Selection); err != nil {
			return nil, fmt.Errorf("unmarshal selection for order %d: %w", o.ID, err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
