package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/andresuchdata/toastshop/backend-go/internal/domain"
	"github.com/andresuchdata/toastshop/backend-go/internal/export"
	"github.com/andresuchdata/toastshop/backend-go/internal/storage"
	"github.com/rs/zerolog/log"
)

var ErrStorageDisabled = errors.New("object storage is not configured")

// ExportResult is a rendered shopping list. StorageKey is set when the file
// was archived to object storage.
type ExportResult struct {
	PlanID      string
	Filename    string
	ContentType string
	Data        []byte
	StorageKey  string
}

type ExportService struct {
	procurement *ProcurementService
	storage     storage.ObjectStorage
	notifier    domain.Notifier
}

// NewExportService wires the exporter. objects may be nil when storage is
// disabled; uploads then fail with ErrStorageDisabled.
func NewExportService(procurementSvc *ProcurementService, objects storage.ObjectStorage, notifier domain.Notifier) *ExportService {
	if notifier == nil {
		notifier = defaultNotifier()
	}
	return &ExportService{procurement: procurementSvc, storage: objects, notifier: notifier}
}

// Export plans shopID and renders the result. With upload set, the file is
// archived after the notifier confirms it.
func (s *ExportService) Export(ctx context.Context, shopID string, overrides domain.Overrides, format export.Format, upload bool) (*ExportResult, error) {
	if upload && s.storage == nil {
		return nil, ErrStorageDisabled
	}

	plan, snap, err := s.procurement.PlanWithSnapshot(ctx, shopID, overrides)
	if err != nil {
		return nil, err
	}

	list := export.Build(plan, snap.Inventory, plan.GeneratedAt)

	var buf bytes.Buffer
	if err := export.Write(&buf, list, format); err != nil {
		return nil, fmt.Errorf("render shopping list: %w", err)
	}

	result := &ExportResult{
		PlanID:      plan.ID,
		Filename:    fmt.Sprintf("shopping-list-%s.%s", plan.GeneratedAt.Format("20060102"), format.Ext()),
		ContentType: format.ContentType(),
		Data:        buf.Bytes(),
	}

	if !upload {
		return result, nil
	}

	key := storage.ShoppingListKey(plan.GeneratedAt, plan.ID, format.Ext())
	if !s.notifier.Confirm(ctx, fmt.Sprintf("Upload shopping list to %s?", key)) {
		s.notifier.Notify(ctx, "shopping list upload skipped", domain.NoticeInfo)
		return result, nil
	}

	if err := s.storage.UploadObject(ctx, key, result.Data, result.ContentType); err != nil {
		return nil, fmt.Errorf("archive shopping list: %w", err)
	}
	result.StorageKey = key

	log.Info().Str("plan_id", plan.ID).Str("key", key).Int("bytes", len(result.Data)).Msg("shopping list archived")
	s.notifier.Notify(ctx, fmt.Sprintf("shopping list uploaded to %s", key), domain.NoticeInfo)
	return result, nil
}
