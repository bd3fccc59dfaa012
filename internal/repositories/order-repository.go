package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"ebench-backend/internal/entities"
	"ebench-backend/pkg/apperrors"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// pgUniqueViolation is the SQLSTATE for a unique constraint violation; the
// upsert race between existence check and create lands here.
const pgUniqueViolation = "23505"

type OrderRepositoryInterface interface {
	FindIDByUnique(ctx context.Context, uniqueKey string) (int64, bool, error)
	FindByUnique(ctx context.Context, uniqueKey string) (*entities.Order, error)
	FindBySales(ctx context.Context, sales string) ([]entities.Order, error)
	FindByAuditor(ctx context.Context, auditor string) ([]entities.Order, error)
	FindByStatus(ctx context.Context, status string) ([]entities.Order, error)
	ListAll(ctx context.Context) ([]entities.Order, error)
	Create(ctx context.Context, values map[string]any, lines []map[string]any, docs []entities.AttachmentRef) (int64, error)
	Update(ctx context.Context, id int64, values map[string]any, lines []map[string]any, replaceLines bool, docs []entities.AttachmentRef) error
	UpdateStatus(ctx context.Context, uniqueKey string, values map[string]any) (string, error)
	Delete(ctx context.Context, uniqueKey string) (string, error)
}

type OrderRepository struct {
	storage *pgxpool.Pool
}

func NewOrderRepository(storage *pgxpool.Pool) OrderRepositoryInterface {
	return &OrderRepository{storage: storage}
}

const orderColumns = `
	id, order_number, order_ver, order_unique, status,
	customer, sales, auditor,
	product_name, customer_po, isbn, quote_no, series_name, product_category,
	fsc_type, binding_method, usage_note, material_note, quality_note,
	special_note, custom_note,
	cpc_confirmed, export_flag, cpsia_required,
	order_qty, sample_qty, overrun_qty, spare_qty, total_qty, ship_qty,
	height_mm, width_mm, thickness_mm,
	sample_date_required, sample_date_promise, ship_date_required, ship_date_promise,
	audited_at, submitted_at, created_at, updated_at`

func scanOrder(row rowScanner) (*entities.Order, error) {
	var o entities.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.OrderVer, &o.OrderUnique, &o.Status,
		&o.Customer, &o.Sales, &o.Auditor,
		&o.ProductName, &o.CustomerPO, &o.ISBN, &o.QuoteNo, &o.SeriesName, &o.ProductCategory,
		&o.FSCType, &o.BindingMethod, &o.UsageNote, &o.MaterialNote, &o.QualityNote,
		&o.SpecialNote, &o.CustomNote,
		&o.CPCConfirmed, &o.ExportFlag, &o.CPSIARequired,
		&o.OrderQty, &o.SampleQty, &o.OverrunQty, &o.SpareQty, &o.TotalQty, &o.ShipQty,
		&o.HeightMm, &o.WidthMm, &o.ThicknessMm,
		&o.SampleDateRequired, &o.SampleDatePromise, &o.ShipDateRequired, &o.ShipDatePromise,
		&o.AuditedAt, &o.SubmittedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// orderItemColumns fixes the insertion order for line rows; the value maps
// coming from the normalizer are keyed by these column names.
var orderItemColumns = []string{
	"line_no", "content", "paper_size", "brand", "thickness", "grammage",
	"origin", "paper_type", "fsc", "pages", "colors", "spot_color",
	"surface_finish", "binding_process", "remark",
}

func (r *OrderRepository) FindIDByUnique(ctx context.Context, uniqueKey string) (int64, bool, error) {
	var id int64
	err := r.storage.QueryRow(ctx, `SELECT id FROM orders WHERE order_unique = $1`, uniqueKey).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, apperrors.NewTransientStoreError(fmt.Errorf("failed to look up order by unique key: %w", err))
	}
	return id, true, nil
}

func (r *OrderRepository) FindByUnique(ctx context.Context, uniqueKey string) (*entities.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_unique = $1`
	order, err := scanOrder(r.storage.QueryRow(ctx, query, uniqueKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("order")
		}
		return nil, apperrors.NewTransientStoreError(fmt.Errorf("failed to scan order: %w", err))
	}
	if err := r.attachChildren(ctx, []*entities.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *OrderRepository) FindBySales(ctx context.Context, sales string) ([]entities.Order, error) {
	return r.findWhere(ctx, sq.Eq{"sales": sales})
}

func (r *OrderRepository) FindByAuditor(ctx context.Context, auditor string) ([]entities.Order, error) {
	return r.findWhere(ctx, sq.Eq{"auditor": auditor})
}

func (r *OrderRepository) FindByStatus(ctx context.Context, status string) ([]entities.Order, error) {
	return r.findWhere(ctx, sq.Eq{"status": status})
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]entities.Order, error) {
	return r.findWhere(ctx, nil)
}

func (r *OrderRepository) findWhere(ctx context.Context, pred any) ([]entities.Order, error) {
	builder := psql.Select(orderColumns).From("orders").OrderBy("created_at DESC")
	if pred != nil {
		builder = builder.Where(pred)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build order query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewTransientStoreError(fmt.Errorf("failed to query orders: %w", err))
	}
	defer rows.Close()

	orders := make([]entities.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, apperrors.NewTransientStoreError(fmt.Errorf("failed to scan order in list: %w", err))
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewTransientStoreError(fmt.Errorf("failed to read order rows: %w", err))
	}

	refs := make([]*entities.Order, len(orders))
	for i := range orders {
		refs[i] = &orders[i]
	}
	if err := r.attachChildren(ctx, refs); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachChildren batch-loads line items and attachment rows for the given
// headers, preserving line_no order.
func (r *OrderRepository) attachChildren(ctx context.Context, orders []*entities.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(orders))
	byID := make(map[int64]*entities.Order, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		byID[o.ID] = o
		o.Items = make([]entities.OrderItem, 0)
		o.Documents = make([]entities.AttachmentRef, 0)
	}

	itemQuery := `
		SELECT id, order_id, line_no, content, paper_size, brand, thickness, grammage,
		       origin, paper_type, fsc, pages, colors, spot_color, surface_finish,
		       binding_process, remark
		FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, line_no`
	rows, err := r.storage.Query(ctx, itemQuery, ids)
	if err != nil {
		return apperrors.NewTransientStoreError(fmt.Errorf("failed to query order items: %w", err))
	}
	defer rows.Close()
	for rows.Next() {
		var it entities.OrderItem
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.LineNo, &it.Content, &it.PaperSize, &it.Brand,
			&it.Thickness, &it.Grammage, &it.Origin, &it.PaperType, &it.FSC, &it.Pages,
			&it.Colors, &it.SpotColor, &it.SurfaceFinish, &it.BindingProcess, &it.Remark,
		); err != nil {
			return apperrors.NewTransientStoreError(fmt.Errorf("failed to scan order item: %w", err))
		}
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	if err := rows.Err(); err != nil {
		return apperrors.NewTransientStoreError(fmt.Errorf("failed to read order item rows: %w", err))
	}

	docQuery := `SELECT id, order_id, category, file_name, file_url FROM order_documents WHERE order_id = ANY($1) ORDER BY id`
	docRows, err := r.storage.Query(ctx, docQuery, ids)
	if err != nil {
		return apperrors.NewTransientStoreError(fmt.Errorf("failed to query order documents: %w", err))
	}
	defer docRows.Close()
	for docRows.Next() {
		var ownerID int64
		var doc entities.AttachmentRef
		if err := docRows.Scan(&doc.ID, &ownerID, &doc.Category, &doc.FileName, &doc.FileURL); err != nil {
			return apperrors.NewTransientStoreError(fmt.Errorf("failed to scan order document: %w", err))
		}
		if o, ok := byID[ownerID]; ok {
			o.Documents = append(o.Documents, doc)
		}
	}
	if err := docRows.Err(); err != nil {
		return apperrors.NewTransientStoreError(fmt.Errorf("failed to read order document rows: %w", err))
	}
	return nil
}

// Create inserts the header, its line items and attachment rows as a single
// transaction. A duplicate order_unique surfaces as a ConflictError so the
// caller can retry the upsert as an update.
func (r *OrderRepository) Create(ctx context.Context, values map[string]any, lines []map[string]any, docs []entities.AttachmentRef) (int64, error) {
	var newID int64
	err := WithTx(ctx, r.storage, func(tx pgx.Tx) error {
		query, args, err := psql.Insert("orders").SetMap(values).Suffix("RETURNING id").ToSql()
		if err != nil {
			return fmt.Errorf("failed to build order insert: %w", err)
		}
		if err := tx.QueryRow(ctx, query, args...).Scan(&newID); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				key, _ := values["order_unique"].(string)
				return apperrors.NewConflictError(key, err)
			}
			return apperrors.NewTransientStoreError(fmt.Errorf("failed to insert order: %w", err))
		}
		if err := insertLineRows(ctx, tx, "order_items", "order_id", newID, orderItemColumns, lines); err != nil {
			return err
		}
		return insertDocumentRows(ctx, tx, "order_documents", "order_id", newID, docs)
	})
	if err != nil {
		return 0, err
	}
	return newID, nil
}

// Update replaces the whitelisted header fields and, when the payload
// carried a line set, deletes and re-inserts all line items in the same
// transaction; a failed line sync rolls back the header change too.
func (r *OrderRepository) Update(ctx context.Context, id int64, values map[string]any, lines []map[string]any, replaceLines bool, docs []entities.AttachmentRef) error {
	return WithTx(ctx, r.storage, func(tx pgx.Tx) error {
		values["updated_at"] = sq.Expr("NOW()")
		query, args, err := psql.Update("orders").SetMap(values).Where(sq.Eq{"id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build order update: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return apperrors.NewTransientStoreError(fmt.Errorf("failed to update order: %w", err))
		}

		if replaceLines {
			if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
				return apperrors.NewTransientStoreError(fmt.Errorf("failed to delete order items: %w", err))
			}
			if err := insertLineRows(ctx, tx, "order_items", "order_id", id, orderItemColumns, lines); err != nil {
				return err
			}
		}
		return insertDocumentRows(ctx, tx, "order_documents", "order_id", id, docs)
	})
}

// UpdateStatus sets the status columns for one order and returns its
// order_number for the audit trail.
func (r *OrderRepository) UpdateStatus(ctx context.Context, uniqueKey string, values map[string]any) (string, error) {
	values["updated_at"] = sq.Expr("NOW()")
	query, args, err := psql.Update("orders").SetMap(values).
		Where(sq.Eq{"order_unique": uniqueKey}).Suffix("RETURNING order_number").ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build status update: %w", err)
	}

	var orderNumber string
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&orderNumber); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFoundError("order")
		}
		return "", apperrors.NewTransientStoreError(fmt.Errorf("failed to update order status: %w", err))
	}
	return orderNumber, nil
}

// Delete hard-deletes an order; line items and attachment rows go with it
// via ON DELETE CASCADE. Audit history is intentionally left behind.
func (r *OrderRepository) Delete(ctx context.Context, uniqueKey string) (string, error) {
	var orderNumber string
	err := r.storage.QueryRow(ctx,
		`DELETE FROM orders WHERE order_unique = $1 RETURNING order_number`, uniqueKey).Scan(&orderNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFoundError("order")
		}
		return "", apperrors.NewTransientStoreError(fmt.Errorf("failed to delete order: %w", err))
	}
	return orderNumber, nil
}

// insertLineRows bulk-inserts line maps in a fixed column order. Shared by
// the order and work order repositories.
func insertLineRows(ctx context.Context, tx pgx.Tx, table, fkColumn string, ownerID int64, columns []string, lines []map[string]any) error {
	if len(lines) == 0 {
		return nil
	}
	builder := psql.Insert(table).Columns(append([]string{fkColumn}, columns...)...)
	for _, line := range lines {
		row := make([]any, 0, len(columns)+1)
		row = append(row, ownerID)
		for _, col := range columns {
			row = append(row, line[col])
		}
		builder = builder.Values(row...)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build %s insert: %w", table, err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return apperrors.NewTransientStoreError(fmt.Errorf("failed to insert %s rows: %w", table, err))
	}
	return nil
}

func insertDocumentRows(ctx context.Context, tx pgx.Tx, table, fkColumn string, ownerID int64, docs []entities.AttachmentRef) error {
	if len(docs) == 0 {
		return nil
	}
	builder := psql.Insert(table).Columns(fkColumn, "category", "file_name", "file_url")
	for _, doc := range docs {
		builder = builder.Values(ownerID, doc.Category, doc.FileName, doc.FileURL)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build %s insert: %w", table, err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return apperrors.NewTransientStoreError(fmt.Errorf("failed to insert %s rows: %w", table, err))
	}
	return nil
}
