package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/tile-inventory/internal/domain/entity"
	"github.com/yourusername/tile-inventory/internal/domain/repository"
	"github.com/yourusername/tile-inventory/pkg/logger"
)

// BulkEditOptions tunes how per-product updates are sent.
type BulkEditOptions struct {
	Workers int
	Stagger time.Duration
}

// BulkEditUseCase tanlangan mahsulotlarga bitta maydonni qo'llash
type BulkEditUseCase interface {
	// Apply pushes the staged edit to the remote sheet. The state is
	// cancelled on full success, narrowed to the failed IDs on partial
	// failure and left untouched when nothing was updated.
	Apply(ctx context.Context, state *entity.BulkEditState) (entity.BulkResult, error)
}

type bulkEditUseCase struct {
	remote   repository.CatalogRepository
	catalog  CatalogUseCase
	notifier repository.Notifier
	mirror   repository.CatalogMirror
	pool     updatePool
}

// NewBulkEditUseCase yangi BulkEditUseCase yaratish. notifier and mirror may be nil.
func NewBulkEditUseCase(
	remote repository.CatalogRepository,
	catalog CatalogUseCase,
	notifier repository.Notifier,
	mirror repository.CatalogMirror,
	opts BulkEditOptions,
) BulkEditUseCase {
	return &bulkEditUseCase{
		remote:   remote,
		catalog:  catalog,
		notifier: notifier,
		mirror:   mirror,
		pool:     newUpdatePool(opts.Workers, opts.Stagger),
	}
}

func (u *bulkEditUseCase) Apply(ctx context.Context, state *entity.BulkEditState) (entity.BulkResult, error) {
	if state == nil || !state.Active {
		return entity.BulkResult{}, entity.ErrBulkInactive
	}
	if state.Count() == 0 {
		return entity.BulkResult{}, entity.ErrNoSelection
	}
	value, err := entity.NormalizeBulkValue(state.Field, state.Value)
	if err != nil {
		return entity.BulkResult{}, err
	}

	ids := append([]string(nil), state.Selected...)
	result := entity.BulkResult{Field: state.Field, Value: value, Failed: map[string]error{}}

	previous, err := u.catalog.Apply(ctx, ids, state.Field, value)
	if err != nil {
		return result, fmt.Errorf("stage %s: %w", state.Field, err)
	}

	if state.Field.HasBulkAction() {
		updated, err := u.remote.BulkUpdate(ctx, state.Field, ids, value)
		if err != nil {
			u.rollback(ctx, state.Field, value, previous, nil)
			for _, id := range ids {
				result.Failed[id] = err
			}
			logger.Errorf("❌ Bulk %s update failed for %d products: %v", state.Field, len(ids), err)
			return result, err
		}
		if updated <= 0 {
			updated = len(ids)
		}
		result.Updated = updated
	} else {
		result.Failed = u.pool.run(ctx, ids, func(ctx context.Context, id string) error {
			return u.remote.UpdateProduct(ctx, id, state.Field, value)
		})
		result.Updated = len(ids) - len(result.Failed)
		if len(result.Failed) > 0 {
			u.rollback(ctx, state.Field, value, previous, result.Failed)
		}
		if result.Updated == 0 {
			first := firstFailure(ids, result.Failed)
			logger.Errorf("❌ Bulk %s update failed for all %d products: %v", state.Field, len(ids), first)
			return result, fmt.Errorf("update %s on %d products: %w", state.Field.Label(), len(ids), first)
		}
	}

	if len(result.Failed) == 0 {
		state.Cancel()
	} else {
		remaining := make([]string, 0, len(result.Failed))
		for _, id := range ids {
			if _, ok := result.Failed[id]; ok {
				remaining = append(remaining, id)
			}
		}
		state.Selected = remaining
		logger.Warnf("⚠️ Bulk %s: %d updated, %d failed", state.Field, result.Updated, len(result.Failed))
	}

	logger.Infof("✅ Bulk %s set to %q on %d products", state.Field, value, result.Updated)
	u.announce(ctx, result)
	return result, nil
}

// rollback restores previous values where value is still in place. When
// only is non-nil, just those IDs are restored.
func (u *bulkEditUseCase) rollback(ctx context.Context, field entity.BulkField, value string, previous map[string]string, only map[string]error) {
	restore := previous
	if only != nil {
		restore = make(map[string]string, len(only))
		for id := range only {
			if old, ok := previous[id]; ok {
				restore[id] = old
			}
		}
	}
	if err := u.catalog.Restore(ctx, field, value, restore); err != nil {
		logger.Warnf("⚠️ Rollback not persisted: %v", err)
	}
}

func (u *bulkEditUseCase) announce(ctx context.Context, result entity.BulkResult) {
	if u.notifier != nil {
		text := fmt.Sprintf("✅ Bulk edit: %s set to %q on %d product(s)", result.Field.Label(), result.Value, result.Updated)
		if n := len(result.Failed); n > 0 {
			text += fmt.Sprintf("\n⚠️ %d product(s) failed", n)
		}
		if err := u.notifier.Notify(ctx, text); err != nil {
			logger.Warnf("⚠️ Bulk edit notification failed: %v", err)
		}
	}
	if u.mirror != nil {
		if err := u.mirror.Publish(ctx, u.catalog.List()); err != nil {
			logger.Warnf("⚠️ Sheets mirror update failed: %v", err)
		}
	}
}

func firstFailure(ids []string, failed map[string]error) error {
	for _, id := range ids {
		if err, ok := failed[id]; ok {
			return err
		}
	}
	return errors.New("no product updated")
}
