package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zczlr12/comp0034-cw1i-zczlr12/internal/model"
)

// CreateItem creates a new item.
func CreateItem(ctx context.Context, db *sql.DB, name string, brandNumber, itemNumber int64) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (name, brand_number, item_number) VALUES (?, ?, ?)`,
		name, brandNumber, itemNumber,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, without its data records.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item := &model.Item{}
	var imageMime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, brand_number, item_number, image_mime
		 FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.Name, &item.BrandNumber, &item.ItemNumber, &imageMime)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	item.ImageMime = imageMime.String
	return item, nil
}

// GetItemDetail returns an item together with its data records.
func GetItemDetail(ctx context.Context, db *sql.DB, id int64) (*model.ItemDetail, error) {
	item, err := GetItem(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	data, err := ListItemData(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = []model.Data{}
	}

	return &model.ItemDetail{Item: *item, Data: data}, nil
}

// ListItems returns all items, without their data records.
func ListItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, brand_number, item_number, image_mime
		 FROM items ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var imageMime sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &item.BrandNumber, &item.ItemNumber, &imageMime); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.ImageMime = imageMime.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// PatchItem applies a partial update. Nil arguments leave the corresponding
// column unchanged. Returns ErrNotFound if the item does not exist.
func PatchItem(ctx context.Context, db *sql.DB, id int64, name *string, brandNumber, itemNumber *int64) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET
		     name = COALESCE(?, name),
		     brand_number = COALESCE(?, brand_number),
		     item_number = COALESCE(?, item_number)
		 WHERE id = ?`,
		name, brandNumber, itemNumber, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking updated rows: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return GetItem(ctx, db, id)
}

// DeleteItem deletes an item and all of its data records in one transaction.
// Returns ErrNotFound if the item does not exist; in that case nothing is
// deleted.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM items WHERE id = ?`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking item: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}

	// Data rows reference the item, so they go first.
	if _, err := tx.ExecContext(ctx, `DELETE FROM data WHERE item_id = ?`, id); err != nil {
		return fmt.Errorf("deleting item data: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing item delete: %w", err)
	}
	return nil
}

// SetItemImage sets an item's image data. Returns ErrNotFound if the item
// does not exist.
func SetItemImage(ctx context.Context, db *sql.DB, id int64, image []byte, mime string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET image = ?, image_mime = ? WHERE id = ?`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking updated rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetItemImage returns an item's image data and MIME type.
func GetItemImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}
