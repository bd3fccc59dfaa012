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

type WorkOrderRepositoryInterface interface {
	FindIDByUnique(ctx context.Context, uniqueKey string) (int64, bool, error)
	FindByUnique(ctx context.Context, uniqueKey string) (*entities.WorkOrder, error)
	FindByClerk(ctx context.Context, clerk string) ([]entities.WorkOrder, error)
	FindByAuditor(ctx context.Context, auditor string) ([]entities.WorkOrder, error)
	FindByStatus(ctx context.Context, status string) ([]entities.WorkOrder, error)
	ListAll(ctx context.Context) ([]entities.WorkOrder, error)
	Create(ctx context.Context, values map[string]any, lines []map[string]any, docs []entities.AttachmentRef) (int64, error)
	Update(ctx context.Context, id int64, values map[string]any, lines []map[string]any, replaceLines bool, docs []entities.AttachmentRef) error
	UpdateStatus(ctx context.Context, uniqueKey string, values map[string]any) (string, error)
	UpdateProgress(ctx context.Context, workNumber string, percent int, note string) (int64, error)
}

type WorkOrderRepository struct {
	storage *pgxpool.Pool
}

func NewWorkOrderRepository(storage *pgxpool.Pool) WorkOrderRepositoryInterface {
	return &WorkOrderRepository{storage: storage}
}

const workOrderColumns = `
	id, work_number, work_ver, work_unique, status,
	customer, clerk, auditor,
	work_type, material, product_type, customer_po, product_name, product_spec,
	waste_allowance,
	order_qty, sample_qty, overrun_qty,
	sample_date_required, ship_date_required,
	process, progress_note,
	audited_at, submitted_at, created_at, updated_at`

func scanWorkOrder(row rowScanner) (*entities.WorkOrder, error) {
	var w entities.WorkOrder
	err := row.Scan(
		&w.ID, &w.WorkNumber, &w.WorkVer, &w.WorkUnique, &w.Status,
		&w.Customer, &w.Clerk, &w.Auditor,
		&w.WorkType, &w.Material, &w.ProductType, &w.CustomerPO, &w.ProductName, &w.ProductSpec,
		&w.WasteAllowance,
		&w.OrderQty, &w.SampleQty, &w.OverrunQty,
		&w.SampleDateRequired, &w.ShipDateRequired,
		&w.Process, &w.ProgressNote,
		&w.AuditedAt, &w.SubmittedAt, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

var workOrderLineColumns = []string{
	"line_no", "component", "material_desc", "print_colors", "brand",
	"material_spec", "fsc", "cut_count", "machine_size", "layout_count",
	"print_out_count", "print_waste", "material_sheets", "surface_finish",
	"print_plate_count", "production_path", "layout_method",
}

func (r *WorkOrderRepository) FindIDByUnique(ctx context.Context, uniqueKey string) (int64, bool, error) {
	var id int64
	err := r.storage.QueryRow(ctx, `SELECT id FROM work_orders WHERE work_unique = $1`, uniqueKey).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, apperrors.NewTransientStoreError(fmt.Errorf("failed to look up work order by unique key: %w", err))
	}
	return id, true, nil
}

func (r *WorkOrderRepository) FindByUnique(ctx context.Context, uniqueKey string) (*entities.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE work_unique = $1`
	wo, err := scanWorkOrder(r.storage.QueryRow(ctx, query, uniqueKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("work order")
		}
		return nil, apperrors.NewTransientStoreError(fmt.Errorf("failed to scan work order: %w", err))
	}
	if err := r.attachChildren(ctx, []*entities.WorkOrder{wo}); err != nil {
		return nil, err
	}
	return wo, nil
}

func (r *WorkOrderRepository) FindByClerk(ctx context.Context, clerk string) ([]entities.WorkOrder, error) {
	return r.findWhere(ctx, sq.Eq{"clerk": clerk})
}

func (r *WorkOrderRepository) FindByAuditor(ctx context.Context, auditor string) ([]entities.WorkOrder, error) {
	return r.findWhere(ctx, sq.Eq{"auditor": auditor})
}

func (r *WorkOrderRepository) FindByStatus(ctx context.Context, status string) ([]entities.WorkOrder, error) {
	return r.findWhere(ctx, sq.Eq{"status": status})
}

func (r *WorkOrderRepository) ListAll(ctx context.Context) ([]entities.WorkOrder, error) {
	return r.findWhere(ctx, nil)
}

func (r *WorkOrderRepository) findWhere(ctx context.Context, pred any) ([]entities.WorkOrder, error) {
	builder := psql.Select(workOrderColumns).From("work_orders").OrderBy("created_at DESC")
	if pred != nil {
		builder = builder.Where(pred)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build work order query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewTransientStoreError(fmt.Errorf("failed to query work orders: %w", err))
	}
	defer rows.Close()

	workOrders := make([]entities.WorkOrder, 0)
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, apperrors.NewTransientStoreError(fmt.Errorf("failed to scan work order in list: %w", err))
		}
		workOrders = append(workOrders, *wo)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewTransientStoreError(fmt.Errorf("failed to read work order rows: %w", err))
	}

	refs := make([]*entities.WorkOrder, len(workOrders))
	for i := range workOrders {
		refs[i] = &workOrders[i]
	}
	if err := r.attachChildren(ctx, refs); err != nil {
		return nil, err
	}
	return workOrders, nil
}

func (r *WorkOrderRepository) attachChildren(ctx context.Context, workOrders []*entities.WorkOrder) error {
	if len(workOrders) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(workOrders))
	byID := make(map[int64]*entities.WorkOrder, len(workOrders))
	for _, wo := range workOrders {
		ids = append(ids, wo.ID)
		byID[wo.ID] = wo
		wo.Lines = make([]entities.WorkOrderLine, 0)
		wo.Documents = make([]entities.AttachmentRef, 0)
	}

	lineQuery := `
		SELECT id, work_order_id, line_no, component, material_desc, print_colors,
		       brand, material_spec, fsc, cut_count, machine_size, layout_count,
		       print_out_count, print_waste, material_sheets, surface_finish,
		       print_plate_count, production_path, layout_method
		FROM work_order_lines WHERE work_order_id = ANY($1) ORDER BY work_order_id, line_no`
	rows, err := r.storage.Query(ctx, lineQuery, ids)
	if err != nil {
		return apperrors.NewTransientStoreError(fmt.Errorf("failed to query work order lines: %w", err))
	}
	defer rows.Close()
	for rows.Next() {
		var ln entities.WorkOrderLine
		if err := rows.Scan(
			&ln.ID, &ln.WorkOrderID, &ln.LineNo, &ln.Component, &ln.MaterialDesc,
			&ln.PrintColors, &ln.Brand, &ln.MaterialSpec, &ln.FSC, &ln.CutCount,
			&ln.MachineSize, &ln.LayoutCount, &ln.PrintOutCount, &ln.PrintWaste,
			&ln.MaterialSheets, &ln.SurfaceFinish, &ln.PrintPlateCount,
			&ln.ProductionPath, &ln.LayoutMethod,
		); err != nil {
			return apperrors.NewTransientStoreError(fmt.Errorf("failed to scan work order line: %w", err))
		}
		if wo, ok := byID[ln.WorkOrderID]; ok {
			wo.Lines = append(wo.Lines, ln)
		}
	}
	if err := rows.Err(); err != nil {
		return apperrors.NewTransientStoreError(fmt.Errorf("failed to read work order line rows: %w", err))
	}

	docQuery := `SELECT id, work_order_id, category, file_name, file_url FROM work_order_documents WHERE work_order_id = ANY($1) ORDER BY id`
	docRows, err := r.storage.Query(ctx, docQuery, ids)
	if err != nil {
		return apperrors.NewTransientStoreError(fmt.Errorf("failed to query work order documents: %w", err))
	}
	defer docRows.Close()
	for docRows.Next() {
		var ownerID int64
		var doc entities.AttachmentRef
		if err := docRows.Scan(&doc.ID, &ownerID, &doc.Category, &doc.FileName, &doc.FileURL); err != nil {
			return apperrors.NewTransientStoreError(fmt.Errorf("failed to scan work order document: %w", err))
		}
		if wo, ok := byID[ownerID]; ok {
			wo.Documents = append(wo.Documents, doc)
		}
	}
	if err := docRows.Err(); err != nil {
		return apperrors.NewTransientStoreError(fmt.Errorf("failed to read work order document rows: %w", err))
	}
	return nil
}

func (r *WorkOrderRepository) Create(ctx context.Context, values map[string]any, lines []map[string]any, docs []entities.AttachmentRef) (int64, error) {
	var newID int64
	err := WithTx(ctx, r.storage, func(tx pgx.Tx) error {
		query, args, err := psql.Insert("work_orders").SetMap(values).Suffix("RETURNING id").ToSql()
		if err != nil {
			return fmt.Errorf("failed to build work order insert: %w", err)
		}
		if err := tx.QueryRow(ctx, query, args...).Scan(&newID); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				key, _ := values["work_unique"].(string)
				return apperrors.NewConflictError(key, err)
			}
			return apperrors.NewTransientStoreError(fmt.Errorf("failed to insert work order: %w", err))
		}
		if err := insertLineRows(ctx, tx, "work_order_lines", "work_order_id", newID, workOrderLineColumns, lines); err != nil {
			return err
		}
		return insertDocumentRows(ctx, tx, "work_order_documents", "work_order_id", newID, docs)
	})
	if err != nil {
		return 0, err
	}
	return newID, nil
}

func (r *WorkOrderRepository) Update(ctx context.Context, id int64, values map[string]any, lines []map[string]any, replaceLines bool, docs []entities.AttachmentRef) error {
	return WithTx(ctx, r.storage, func(tx pgx.Tx) error {
		values["updated_at"] = sq.Expr("NOW()")
		query, args, err := psql.Update("work_orders").SetMap(values).Where(sq.Eq{"id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build work order update: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return apperrors.NewTransientStoreError(fmt.Errorf("failed to update work order: %w", err))
		}

		if replaceLines {
			if _, err := tx.Exec(ctx, `DELETE FROM work_order_lines WHERE work_order_id = $1`, id); err != nil {
				return apperrors.NewTransientStoreError(fmt.Errorf("failed to delete work order lines: %w", err))
			}
			if err := insertLineRows(ctx, tx, "work_order_lines", "work_order_id", id, workOrderLineColumns, lines); err != nil {
				return err
			}
		}
		return insertDocumentRows(ctx, tx, "work_order_documents", "work_order_id", id, docs)
	})
}

func (r *WorkOrderRepository) UpdateStatus(ctx context.Context, uniqueKey string, values map[string]any) (string, error) {
	values["updated_at"] = sq.Expr("NOW()")
	query, args, err := psql.Update("work_orders").SetMap(values).
		Where(sq.Eq{"work_unique": uniqueKey}).Suffix("RETURNING work_number").ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build status update: %w", err)
	}

	var workNumber string
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&workNumber); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFoundError("work order")
		}
		return "", apperrors.NewTransientStoreError(fmt.Errorf("failed to update work order status: %w", err))
	}
	return workNumber, nil
}

// UpdateProgress touches only the progress fields, across every version of
// the work number. Returns the number of affected rows.
func (r *WorkOrderRepository) UpdateProgress(ctx context.Context, workNumber string, percent int, note string) (int64, error) {
	tag, err := r.storage.Exec(ctx,
		`UPDATE work_orders SET process = $1, progress_note = $2, updated_at = NOW() WHERE work_number = $3`,
		percent, note, workNumber)
	if err != nil {
		return 0, apperrors.NewTransientStoreError(fmt.Errorf("failed to update work order progress: %w", err))
	}
	return tag.RowsAffected(), nil
}
