package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	corecatalog "github.com/example/storeops/internal/core/catalog"
	"github.com/example/storeops/internal/ctxutil"
	"github.com/example/storeops/internal/ports/primary"
	"github.com/example/storeops/internal/ports/secondary"
)

// CatalogServiceImpl implements the CatalogService interface.
type CatalogServiceImpl struct {
	milkTypeRepo secondary.MilkTypeRepository
	rtdeItemRepo secondary.RTDEItemRepository
	logger       *zap.Logger
}

// NewCatalogService creates a new CatalogService with injected dependencies.
func NewCatalogService(
	milkTypeRepo secondary.MilkTypeRepository,
	rtdeItemRepo secondary.RTDEItemRepository,
	logger *zap.Logger,
) *CatalogServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogServiceImpl{
		milkTypeRepo: milkTypeRepo,
		rtdeItemRepo: rtdeItemRepo,
		logger:       logger,
	}
}

// ListMilkTypes lists milk types in counting order.
func (s *CatalogServiceImpl) ListMilkTypes(ctx context.Context, activeOnly bool) ([]*primary.MilkType, error) {
	records, err := s.milkTypeRepo.List(ctx, secondary.CatalogFilters{ActiveOnly: activeOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to list milk types: %w", err)
	}
	out := make([]*primary.MilkType, len(records))
	for i, r := range records {
		out[i] = recordToMilkType(r)
	}
	return out, nil
}

// CreateMilkType adds a milk type, optionally with a par value.
func (s *CatalogServiceImpl) CreateMilkType(ctx context.Context, req primary.CreateMilkTypeRequest) (*primary.MilkType, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	existing, err := s.milkTypeRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up milk type: %w", err)
	}
	if err := corecatalog.CheckItem(corecatalog.ItemContext{
		Name:          name,
		Category:      corecatalog.Category(req.Category),
		CheckCategory: true,
		DisplayOrder:  req.DisplayOrder,
		ExistingID:    idOf(existing),
	}); err != nil {
		return nil, err
	}

	record := &secondary.MilkTypeRecord{
		ID:           uuid.NewString(),
		Name:         name,
		Category:     req.Category,
		DisplayOrder: req.DisplayOrder,
		Active:       true,
	}
	if err := s.milkTypeRepo.Create(ctx, record); err != nil {
		return nil, err
	}
	if req.ParValue != nil {
		if err := s.milkTypeRepo.SetPar(ctx, record.ID, *req.ParValue, s.actor(ctx, req.ActorID)); err != nil {
			return nil, fmt.Errorf("failed to set par: %w", err)
		}
	}

	s.logger.Info("milk type created", zap.String("id", record.ID), zap.String("name", name))
	return s.getMilkType(ctx, record.ID)
}

// UpdateMilkType changes the supplied fields of a milk type.
func (s *CatalogServiceImpl) UpdateMilkType(ctx context.Context, req primary.UpdateMilkTypeRequest) (*primary.MilkType, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	record, err := s.milkTypeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		record.Name = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		record.Category = *req.Category
	}
	if req.DisplayOrder != nil {
		record.DisplayOrder = *req.DisplayOrder
	}
	if req.Active != nil {
		record.Active = *req.Active
	}

	existing, err := s.milkTypeRepo.GetByName(ctx, record.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up milk type: %w", err)
	}
	if err := corecatalog.CheckItem(corecatalog.ItemContext{
		Name:          record.Name,
		Category:      corecatalog.Category(record.Category),
		CheckCategory: true,
		DisplayOrder:  record.DisplayOrder,
		ExistingID:    idOf(existing),
		SelfID:        record.ID,
	}); err != nil {
		return nil, err
	}

	if err := s.milkTypeRepo.Update(ctx, record); err != nil {
		return nil, err
	}
	return s.getMilkType(ctx, record.ID)
}

// SetMilkPar sets the par value, creating the par row on first write.
func (s *CatalogServiceImpl) SetMilkPar(ctx context.Context, req primary.SetParRequest) (*primary.MilkType, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := corecatalog.CheckPar(*req.ParValue); err != nil {
		return nil, err
	}
	if _, err := s.milkTypeRepo.GetByID(ctx, req.MilkTypeID); err != nil {
		return nil, err
	}
	actor := s.actor(ctx, req.ActorID)
	if err := s.milkTypeRepo.SetPar(ctx, req.MilkTypeID, *req.ParValue, actor); err != nil {
		return nil, fmt.Errorf("failed to set par: %w", err)
	}

	s.logger.Info("par updated",
		zap.String("milk_type_id", req.MilkTypeID),
		zap.Int("par", *req.ParValue),
		zap.String("actor", actor))
	return s.getMilkType(ctx, req.MilkTypeID)
}

// ReorderMilkTypes assigns display orders following ids.
func (s *CatalogServiceImpl) ReorderMilkTypes(ctx context.Context, ids []string) error {
	records, err := s.milkTypeRepo.List(ctx, secondary.CatalogFilters{})
	if err != nil {
		return fmt.Errorf("failed to list milk types: %w", err)
	}
	known := make(map[string]bool, len(records))
	for _, r := range records {
		known[r.ID] = true
	}
	if err := corecatalog.CheckReorder(ids, known); err != nil {
		return err
	}
	return s.milkTypeRepo.Reorder(ctx, ids)
}

// ListRTDEItems lists RTD&E items in display order.
func (s *CatalogServiceImpl) ListRTDEItems(ctx context.Context, activeOnly bool) ([]*primary.RTDEItem, error) {
	records, err := s.rtdeItemRepo.List(ctx, secondary.CatalogFilters{ActiveOnly: activeOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to list rtde items: %w", err)
	}
	out := make([]*primary.RTDEItem, len(records))
	for i, r := range records {
		out[i] = recordToRTDEItem(r)
	}
	return out, nil
}

// CreateRTDEItem adds an RTD&E item.
func (s *CatalogServiceImpl) CreateRTDEItem(ctx context.Context, req primary.CreateRTDEItemRequest) (*primary.RTDEItem, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	existing, err := s.rtdeItemRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up rtde item: %w", err)
	}
	if err := corecatalog.CheckItem(corecatalog.ItemContext{
		Name:         name,
		DisplayOrder: req.DisplayOrder,
		ExistingID:   rtdeIDOf(existing),
	}); err != nil {
		return nil, err
	}
	if err := corecatalog.CheckPar(req.ParLevel); err != nil {
		return nil, err
	}

	record := &secondary.RTDEItemRecord{
		ID:           uuid.NewString(),
		Name:         name,
		Brand:        req.Brand,
		Icon:         req.Icon,
		ParLevel:     req.ParLevel,
		DisplayOrder: req.DisplayOrder,
		Active:       true,
	}
	if err := s.rtdeItemRepo.Create(ctx, record); err != nil {
		return nil, err
	}
	s.logger.Info("rtde item created", zap.String("id", record.ID), zap.String("name", name))
	return recordToRTDEItem(record), nil
}

// UpdateRTDEItem changes the supplied fields of an RTD&E item.
func (s *CatalogServiceImpl) UpdateRTDEItem(ctx context.Context, req primary.UpdateRTDEItemRequest) (*primary.RTDEItem, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	record, err := s.rtdeItemRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		record.Name = strings.TrimSpace(*req.Name)
	}
	if req.Brand != nil {
		record.Brand = *req.Brand
	}
	if req.Icon != nil {
		record.Icon = *req.Icon
	}
	if req.ParLevel != nil {
		record.ParLevel = *req.ParLevel
	}
	if req.DisplayOrder != nil {
		record.DisplayOrder = *req.DisplayOrder
	}
	if req.Active != nil {
		record.Active = *req.Active
	}

	existing, err := s.rtdeItemRepo.GetByName(ctx, record.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up rtde item: %w", err)
	}
	if err := corecatalog.CheckItem(corecatalog.ItemContext{
		Name:         record.Name,
		DisplayOrder: record.DisplayOrder,
		ExistingID:   rtdeIDOf(existing),
		SelfID:       record.ID,
	}); err != nil {
		return nil, err
	}
	if err := corecatalog.CheckPar(record.ParLevel); err != nil {
		return nil, err
	}

	if err := s.rtdeItemRepo.Update(ctx, record); err != nil {
		return nil, err
	}
	return recordToRTDEItem(record), nil
}

// ReorderRTDEItems assigns display orders following ids.
func (s *CatalogServiceImpl) ReorderRTDEItems(ctx context.Context, ids []string) error {
	records, err := s.rtdeItemRepo.List(ctx, secondary.CatalogFilters{})
	if err != nil {
		return fmt.Errorf("failed to list rtde items: %w", err)
	}
	known := make(map[string]bool, len(records))
	for _, r := range records {
		known[r.ID] = true
	}
	if err := corecatalog.CheckReorder(ids, known); err != nil {
		return err
	}
	return s.rtdeItemRepo.Reorder(ctx, ids)
}

func (s *CatalogServiceImpl) getMilkType(ctx context.Context, id string) (*primary.MilkType, error) {
	record, err := s.milkTypeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return recordToMilkType(record), nil
}

func (s *CatalogServiceImpl) actor(ctx context.Context, explicit string) string {
	return ctxutil.ResolveActor(ctx, explicit)
}

func idOf(r *secondary.MilkTypeRecord) string {
	if r == nil {
		return ""
	}
	return r.ID
}

func rtdeIDOf(r *secondary.RTDEItemRecord) string {
	if r == nil {
		return ""
	}
	return r.ID
}

func recordToMilkType(r *secondary.MilkTypeRecord) *primary.MilkType {
	return &primary.MilkType{
		ID:           r.ID,
		Name:         r.Name,
		Category:     r.Category,
		DisplayOrder: r.DisplayOrder,
		Active:       r.Active,
		ParValue:     r.ParValue,
		ParUpdatedBy: r.ParUpdatedBy,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func recordToRTDEItem(r *secondary.RTDEItemRecord) *primary.RTDEItem {
	return &primary.RTDEItem{
		ID:           r.ID,
		Name:         r.Name,
		Brand:        r.Brand,
		Icon:         r.Icon,
		ParLevel:     r.ParLevel,
		DisplayOrder: r.DisplayOrder,
		Active:       r.Active,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// Ensure CatalogServiceImpl implements the interface
var _ primary.CatalogService = (*CatalogServiceImpl)(nil)
