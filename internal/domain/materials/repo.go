package materials

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const materialColumns = `
	id, tipo, nombre, codigo, descripcion, color,
	precio_tela_m, precio_confeccion_m, precio_tela_m2, precio_confeccion_m2,
	frunce, alto_fijo_m, margen_pct, transporte_pct,
	coste_riel, coste_instalacion, transporte_fijo,
	componentes, cantidad_default, hueco_default, activo, created_at`

// componentsParam guards the componentes TEXT[] NOT NULL column: a nil slice
// would bind as SQL NULL, an empty one binds as '{}'.
func componentsParam(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func scanMaterial(row pgx.Row) (*Material, error) {
	var m Material
	if err := row.Scan(
		&m.ID, &m.Type, &m.Name, &m.Code, &m.Description, &m.Color,
		&m.FabricPriceM, &m.MakePriceM, &m.FabricPriceM2, &m.MakePriceM2,
		&m.PleatMultiplier, &m.FixedHeightM, &m.MarginPct, &m.FreightPct,
		&m.RailCost, &m.InstallationCost, &m.FlatFreight,
		&m.ComponentIDs, &m.DefaultQuantity, &m.DefaultOpening, &m.Active, &m.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repo) Create(ctx context.Context, m *Material) (*Material, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO materials (
			tipo, nombre, codigo, descripcion, color,
			precio_tela_m, precio_confeccion_m, precio_tela_m2, precio_confeccion_m2,
			frunce, alto_fijo_m, margen_pct, transporte_pct,
			coste_riel, coste_instalacion, transporte_fijo,
			componentes, cantidad_default, hueco_default, activo
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,TRUE)
		RETURNING`+materialColumns,
		m.Type, m.Name, m.Code, m.Description, m.Color,
		m.FabricPriceM, m.MakePriceM, m.FabricPriceM2, m.MakePriceM2,
		m.PleatMultiplier, m.FixedHeightM, m.MarginPct, m.FreightPct,
		m.RailCost, m.InstallationCost, m.FlatFreight,
		componentsParam(m.ComponentIDs), m.DefaultQuantity, m.DefaultOpening,
	)
	return scanMaterial(row)
}

func (r *Repo) Update(ctx context.Context, id string, m *Material) (*Material, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE materials SET
			tipo=$2, nombre=$3, codigo=$4, descripcion=$5, color=$6,
			precio_tela_m=$7, precio_confeccion_m=$8, precio_tela_m2=$9, precio_confeccion_m2=$10,
			frunce=$11, alto_fijo_m=$12, margen_pct=$13, transporte_pct=$14,
			coste_riel=$15, coste_instalacion=$16, transporte_fijo=$17,
			componentes=$18, cantidad_default=$19, hueco_default=$20
		WHERE id=$1
		RETURNING`+materialColumns,
		id,
		m.Type, m.Name, m.Code, m.Description, m.Color,
		m.FabricPriceM, m.MakePriceM, m.FabricPriceM2, m.MakePriceM2,
		m.PleatMultiplier, m.FixedHeightM, m.MarginPct, m.FreightPct,
		m.RailCost, m.InstallationCost, m.FlatFreight,
		componentsParam(m.ComponentIDs), m.DefaultQuantity, m.DefaultOpening,
	)
	mat, err := scanMaterial(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return mat, nil
}

func (r *Repo) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE materials SET activo=$2 WHERE id=$1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Material, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+materialColumns+` FROM materials WHERE id=$1`, id)
	m, err := scanMaterial(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// List returns the catalog ordered by creation time, newest first, matching
// the order the wizard consumes it in.
func (r *Repo) List(ctx context.Context, onlyActive bool) ([]Material, error) {
	q := `SELECT` + materialColumns + ` FROM materials`
	if onlyActive {
		q += ` WHERE activo = TRUE`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// Count is used by the seeder to detect an empty catalog.
func (r *Repo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM materials`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
