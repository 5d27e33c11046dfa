// service/flag_service.go

package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	herd_errors "github.com/dairyops/herdwise/api/errors"
	"github.com/dairyops/herdwise/api/flags"
	logger "github.com/dairyops/herdwise/api/logging"
	"github.com/dairyops/herdwise/api/model"
	"github.com/dairyops/herdwise/api/util"
)

type IFlagService interface {
	GetFlag(ctx context.Context, key string, preview *model.Caller) (*model.FlagState, error)
	ListFlags(ctx context.Context) ([]model.CapabilityFlag, error)
	UpdateFlag(ctx context.Context, key string, patch model.FlagPatch, actorID string) (*model.CapabilityFlag, error)
	BulkUpdateFlags(ctx context.Context, patches []model.BulkFlagPatch, actorID string) []model.BulkUpdateResult
	ResetFlag(ctx context.Context, key string, actorID string) (*model.CapabilityFlag, error)
	Resolve(ctx context.Context, key string, caller model.Caller) (bool, error)
}

type FlagService struct {
	store           flags.Store
	engine          *flags.Engine
	validationUtil  *util.ValidationUtil
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
}

func NewFlagService(
	store flags.Store,
	engine *flags.Engine,
	validationUtil *util.ValidationUtil,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
) *FlagService {
	service := &FlagService{
		store:           store,
		engine:          engine,
		validationUtil:  validationUtil,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
	}
	service.subscribeToEvents()
	return service
}

func (s *FlagService) subscribeToEvents() {
	s.eventBus.Subscribe("flag.updated", func(ctx context.Context, event util.Event) error {
		flag, ok := event.Payload.(model.CapabilityFlag)
		if !ok {
			return herd_errors.ErrInvalidFlagData
		}
		return s.notificationSvc.NotifyFlagChange(ctx, "updated", flag)
	})
	s.eventBus.Subscribe("flag.reset", func(ctx context.Context, event util.Event) error {
		flag, ok := event.Payload.(model.CapabilityFlag)
		if !ok {
			return herd_errors.ErrInvalidFlagData
		}
		return s.notificationSvc.NotifyFlagChange(ctx, "reset", flag)
	})
}

// GetFlag returns the stored (or default) configuration for a capability key.
// When preview is non-nil the response also carries the decision the rollout
// engine would make for that caller.
func (s *FlagService) GetFlag(ctx context.Context, key string, preview *model.Caller) (*model.FlagState, error) {
	if !flags.IsKnownKey(key) {
		return nil, herd_errors.ErrUnknownFlagKey
	}

	flag, stored := s.engine.CurrentFlag(ctx, key)
	state := &model.FlagState{
		Flag:   flag,
		Stored: stored,
	}
	if preview != nil {
		resolved := s.engine.Resolve(ctx, key, *preview)
		state.Resolved = &resolved
	}
	return state, nil
}

func (s *FlagService) ListFlags(ctx context.Context) ([]model.CapabilityFlag, error) {
	storedFlags, err := s.store.ListFlags(ctx)
	if err != nil {
		logger.Error("Failed to list capability flags", zap.Error(err))
		return nil, herd_errors.ErrDatabaseOperation
	}

	// Merge built-in defaults for keys that have no stored override yet, so
	// the admin surface always shows the full capability catalog.
	allFlags := make([]model.CapabilityFlag, 0, len(storedFlags))
	seen := make(map[string]bool, len(storedFlags))
	for _, f := range storedFlags {
		allFlags = append(allFlags, *f)
		seen[f.Key] = true
	}
	for _, key := range flags.KnownKeys() {
		if !seen[key] {
			def, _ := flags.DefaultFlag(key)
			allFlags = append(allFlags, def)
		}
	}
	return allFlags, nil
}

func (s *FlagService) UpdateFlag(ctx context.Context, key string, patch model.FlagPatch, actorID string) (*model.CapabilityFlag, error) {
	if err := s.validationUtil.ValidateFlagPatch(key, patch); err != nil {
		logger.Warn("Rejected capability flag patch",
			zap.String("key", key),
			zap.Error(err))
		return nil, err
	}

	current, err := s.store.GetFlag(ctx, key)
	if err != nil {
		if err != herd_errors.ErrFlagNotFound {
			logger.Error("Failed to read capability flag before update",
				zap.String("key", key),
				zap.Error(err))
			return nil, herd_errors.ErrDatabaseOperation
		}
		defaultFlag, _ := flags.DefaultFlag(key)
		current = &defaultFlag
	}

	updated := applyPatch(*current, patch)
	updated.Version = current.Version + 1
	updated.UpdatedAt = time.Now().UTC()
	updated.UpdatedBy = actorID

	if _, err := s.store.UpsertFlag(ctx, updated, actorID); err != nil {
		logger.Error("Failed to persist capability flag",
			zap.String("key", key),
			zap.Error(err))
		return nil, herd_errors.ErrDatabaseOperation
	}

	// Invalidate before returning so the next resolve sees the new config.
	s.engine.InvalidateFlag(key)

	s.eventBus.Publish(ctx, "flag.updated", updated)

	logger.Info("Capability flag updated",
		zap.String("key", key),
		zap.String("actorID", actorID),
		zap.Int("version", updated.Version))
	return &updated, nil
}

// BulkUpdateFlags applies patches concurrently and reports per-key outcomes.
// A failing key never aborts the batch.
func (s *FlagService) BulkUpdateFlags(ctx context.Context, patches []model.BulkFlagPatch, actorID string) []model.BulkUpdateResult {
	results := make([]model.BulkUpdateResult, len(patches))

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, 10)

	for i, p := range patches {
		i, p := i, p
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			result := model.BulkUpdateResult{Key: p.Key}
			if _, err := s.UpdateFlag(gctx, p.Key, p.Patch, actorID); err != nil {
				result.Error = err.Error()
			} else {
				result.Updated = true
			}
			results[i] = result
			return nil
		})
	}

	// Goroutines never return an error; Wait only synchronizes completion.
	_ = g.Wait()
	return results
}

func (s *FlagService) ResetFlag(ctx context.Context, key string, actorID string) (*model.CapabilityFlag, error) {
	if !flags.IsKnownKey(key) {
		return nil, herd_errors.ErrUnknownFlagKey
	}

	current, err := s.store.GetFlag(ctx, key)
	version := 1
	if err == nil {
		version = current.Version + 1
	} else if err != herd_errors.ErrFlagNotFound {
		logger.Error("Failed to read capability flag before reset",
			zap.String("key", key),
			zap.Error(err))
		return nil, herd_errors.ErrDatabaseOperation
	}

	reset, _ := flags.DefaultFlag(key)
	reset.Version = version
	reset.UpdatedAt = time.Now().UTC()
	reset.UpdatedBy = actorID

	if _, err := s.store.UpsertFlag(ctx, reset, actorID); err != nil {
		logger.Error("Failed to reset capability flag",
			zap.String("key", key),
			zap.Error(err))
		return nil, herd_errors.ErrDatabaseOperation
	}

	s.engine.InvalidateFlag(key)
	s.eventBus.Publish(ctx, "flag.reset", reset)

	logger.Info("Capability flag reset to defaults",
		zap.String("key", key),
		zap.String("actorID", actorID))
	return &reset, nil
}

// Resolve answers "is this capability on for this caller". Unknown keys are an
// error here because the admin API caller asked explicitly; in-process callers
// go through the engine directly and get the never-error path.
func (s *FlagService) Resolve(ctx context.Context, key string, caller model.Caller) (bool, error) {
	if !flags.IsKnownKey(key) {
		return false, herd_errors.ErrUnknownFlagKey
	}
	return s.engine.Resolve(ctx, key, caller), nil
}

func applyPatch(flag model.CapabilityFlag, patch model.FlagPatch) model.CapabilityFlag {
	if patch.Description != nil {
		flag.Description = *patch.Description
	}
	if patch.EnabledDefault != nil {
		flag.EnabledDefault = *patch.EnabledDefault
	}
	if patch.RolloutPercentage != nil {
		flag.RolloutPercentage = *patch.RolloutPercentage
	}
	if patch.TargetUserIDs != nil {
		flag.TargetUserIDs = append([]string(nil), (*patch.TargetUserIDs)...)
	}
	if patch.TargetTenantIDs != nil {
		flag.TargetTenantIDs = append([]string(nil), (*patch.TargetTenantIDs)...)
	}
	return flag
}
