package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/zczlr12/comp0034-cw1i-zczlr12/internal/model"
)

// CreateData adds a data record to an item. The foreign key constraint
// rejects records for items that do not exist.
func CreateData(ctx context.Context, db *sql.DB, itemID int64, date time.Time, quantity int, promotion bool) (*model.Data, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO data (date, quantity, promotion, item_id) VALUES (?, ?, ?, ?)`,
		date.UTC(), quantity, promotion, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating data record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting data id: %w", err)
	}

	d := &model.Data{}
	err = db.QueryRowContext(ctx,
		`SELECT id, date, quantity, promotion, item_id FROM data WHERE id = ?`, id,
	).Scan(&d.ID, &d.Date, &d.Quantity, &d.Promotion, &d.ItemID)
	if err != nil {
		return nil, fmt.Errorf("getting data record: %w", err)
	}
	return d, nil
}

// ListItemData returns an item's data records in insertion order.
func ListItemData(ctx context.Context, db *sql.DB, itemID int64) ([]model.Data, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, date, quantity, promotion, item_id
		 FROM data WHERE item_id = ? ORDER BY id`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing item data: %w", err)
	}
	defer rows.Close()

	var data []model.Data
	for rows.Next() {
		var d model.Data
		if err := rows.Scan(&d.ID, &d.Date, &d.Quantity, &d.Promotion, &d.ItemID); err != nil {
			return nil, fmt.Errorf("scanning data record: %w", err)
		}
		data = append(data, d)
	}
	return data, rows.Err()
}
