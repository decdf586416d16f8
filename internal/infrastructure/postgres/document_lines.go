package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

// replaceLines borra las líneas del documento en table e inserta las nuevas en orden.
func replaceLines(ctx context.Context, q Querier, table, documentID string, lines []entity.DocumentLine) error {
	if _, err := q.Exec(ctx, `DELETE FROM `+table+` WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	query := `
		INSERT INTO ` + table + ` (id, document_id, position, description, quantity, unit_price,
		                          discount_percent, discount_amount, tax_rate_percent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i, l := range lines {
		pos := l.Position
		if pos == 0 {
			pos = i + 1
		}
		_, err := q.Exec(ctx, query,
			l.ID, documentID, pos, l.Description, l.Quantity, l.UnitPrice,
			l.DiscountPercent, l.DiscountAmount, l.TaxRatePercent,
		)
		if err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}

// loadLines líneas del documento ordenadas por posición.
func loadLines(ctx context.Context, q Querier, table, documentID string) ([]entity.DocumentLine, error) {
	rows, err := q.Query(ctx, `
		SELECT id, document_id, position, description, quantity, unit_price,
		       discount_percent, discount_amount, tax_rate_percent
		FROM `+table+` WHERE document_id = $1 ORDER BY position`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	var out []entity.DocumentLine
	for rows.Next() {
		var l entity.DocumentLine
		if err := rows.Scan(
			&l.ID, &l.DocumentID, &l.Position, &l.Description, &l.Quantity, &l.UnitPrice,
			&l.DiscountPercent, &l.DiscountAmount, &l.TaxRatePercent,
		); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
