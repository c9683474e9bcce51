package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/stocklot/backend/internal/domain/ledger"
)

const movementSheet = "Movements"

// MovementExportService renders the movement audit trail as an Excel
// workbook for back-office reporting.
type MovementExportService struct {
	movementRepo ledger.StockMovementRepository
	logger       *zap.Logger
}

// NewMovementExportService creates a new MovementExportService
func NewMovementExportService(movementRepo ledger.StockMovementRepository, logger *zap.Logger) *MovementExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MovementExportService{
		movementRepo: movementRepo,
		logger:       logger,
	}
}

// ExportMovements builds a workbook with one row per movement matching the
// filter. The caller owns the returned file and must Close it.
func (s *MovementExportService) ExportMovements(ctx context.Context, filter ledger.MovementFilter) (*excelize.File, error) {
	// Exports are unpaginated reads.
	filter.Page = 1
	filter.PageSize = 10000

	movements, total, err := s.movementRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if _, err := f.NewSheet(movementSheet); err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headers := []string{"Date", "Product ID", "Type", "Quantity", "Unit Cost",
		"Total Cost", "From Warehouse", "To Warehouse", "Stock Before", "Stock After", "Note", "Actor"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(movementSheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, m := range movements {
		values := []interface{}{
			m.EventDate.Format("2006-01-02 15:04:05"),
			m.ProductID.String(),
			m.MovementType.String(),
			m.Quantity.String(),
			m.UnitCost.String(),
			m.TotalCost.String(),
			uuidOrEmpty(m.FromWarehouseID),
			uuidOrEmpty(m.ToWarehouseID),
			m.StockBefore.String(),
			m.StockAfter.String(),
			m.Note,
			m.Actor,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(movementSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	s.logger.Info("movement export built",
		zap.Int("rows", len(movements)),
		zap.Int64("matched", total))
	return f, nil
}

func uuidOrEmpty(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
