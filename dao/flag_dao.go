// dao/flag_dao.go
package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/dairyops/herdwise/api/audit"
	"github.com/dairyops/herdwise/api/cache"
	herd_errors "github.com/dairyops/herdwise/api/errors"
	logger "github.com/dairyops/herdwise/api/logging"
	"github.com/dairyops/herdwise/api/model"
)

// FlagDAO stores capability flags as CAPABILITY_FLAG nodes. It implements
// flags.Store. Every store round trip is recorded on the shared tracker.
type FlagDAO struct {
	Driver       neo4j.Driver
	AuditService audit.Service
	Tracker      *cache.Tracker
}

func NewFlagDAO(driver neo4j.Driver, auditService audit.Service, tracker *cache.Tracker) *FlagDAO {
	dao := &FlagDAO{Driver: driver, AuditService: auditService, Tracker: tracker}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint", zap.Error(err))
	}
	return dao
}

// EnsureUniqueConstraint ensures the unique constraint on the flag key
func (dao *FlagDAO) EnsureUniqueConstraint(ctx context.Context) error {
	logger.Info("Ensuring unique constraint on capability flag key")
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer func() {
		if err := session.Close(); err != nil {
			logger.Error("Failed to close Neo4j session", zap.Error(err))
		}
	}()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_capability_flag_key IF NOT EXISTS
        FOR (f:CAPABILITY_FLAG) REQUIRE f.key IS UNIQUE
        `
		_, err := transaction.Run(query, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create unique constraint: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		logger.Error("Failed to ensure unique constraint on flag key", zap.Error(err))
		return err
	}

	return nil
}

// GetFlag retrieves the stored flag for key, or errors.ErrFlagNotFound.
func (dao *FlagDAO) GetFlag(ctx context.Context, key string) (*model.CapabilityFlag, error) {
	return cache.Timed(dao.Tracker, "flag_store.get", func() (*model.CapabilityFlag, error) {
		return dao.getFlag(ctx, key)
	})
}

func (dao *FlagDAO) getFlag(ctx context.Context, key string) (*model.CapabilityFlag, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (f:CAPABILITY_FLAG {key: $key})
        RETURN f
        `
		queryResult, err := transaction.Run(query, map[string]interface{}{"key": key})
		if err != nil {
			return nil, herd_errors.ErrDatabaseOperation
		}
		if queryResult.Next() {
			node, found := queryResult.Record().Get("f")
			if !found {
				return nil, herd_errors.ErrInternalServer
			}
			return node, nil
		}
		return nil, herd_errors.ErrFlagNotFound
	})
	if err != nil {
		return nil, err
	}

	flag, err := flagFromNode(result)
	if err != nil {
		logger.Error("Failed to decode stored flag", zap.Error(err), zap.String("key", key))
		return nil, herd_errors.ErrInternalServer
	}
	return flag, nil
}

// UpsertFlag writes the full flag record and appends an audit entry.
func (dao *FlagDAO) UpsertFlag(ctx context.Context, flag model.CapabilityFlag, actorID string) (*model.CapabilityFlag, error) {
	return cache.Timed(dao.Tracker, "flag_store.upsert", func() (*model.CapabilityFlag, error) {
		return dao.upsertFlag(ctx, flag, actorID)
	})
}

func (dao *FlagDAO) upsertFlag(ctx context.Context, flag model.CapabilityFlag, actorID string) (*model.CapabilityFlag, error) {
	start := time.Now()

	oldFlag, err := dao.getFlag(ctx, flag.Key)
	if err != nil && err != herd_errors.ErrFlagNotFound {
		return nil, err
	}

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	flag.UpdatedAt = time.Now()
	flag.UpdatedBy = actorID

	targetUsersJSON, _ := json.Marshal(flag.TargetUserIDs)
	targetTenantsJSON, _ := json.Marshal(flag.TargetTenantIDs)

	_, err = session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MERGE (f:CAPABILITY_FLAG {key: $key})
        ON CREATE SET f += $props
        ON MATCH SET f += $props
        RETURN f.key as key
        `
		parameters := map[string]interface{}{
			"key": flag.Key,
			"props": map[string]interface{}{
				"description":       flag.Description,
				"enabledDefault":    flag.EnabledDefault,
				"rolloutPercentage": flag.RolloutPercentage,
				"targetUserIds":     string(targetUsersJSON),
				"targetTenantIds":   string(targetTenantsJSON),
				"version":           flag.Version,
				"updatedAt":         flag.UpdatedAt.Format(time.RFC3339),
				"updatedBy":         flag.UpdatedBy,
			},
		}
		upsertResult, err := transaction.Run(query, parameters)
		if err != nil {
			return nil, herd_errors.ErrDatabaseOperation
		}
		if upsertResult.Next() {
			return nil, nil
		}
		return nil, herd_errors.ErrInternalServer
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to upsert capability flag",
			zap.Error(err),
			zap.String("key", flag.Key),
			zap.Duration("duration", duration))
		return nil, err
	}

	logger.Info("Capability flag upserted",
		zap.String("key", flag.Key),
		zap.Int("rolloutPercentage", flag.RolloutPercentage),
		zap.Duration("duration", duration))

	// Audit trail
	var oldJSON json.RawMessage
	if oldFlag != nil {
		oldJSON, _ = json.Marshal(oldFlag)
	}
	newJSON, _ := json.Marshal(flag)
	change := audit.FlagChange{
		Timestamp: time.Now(),
		ActorID:   actorID,
		Action:    "UPSERT_FLAG",
		FlagKey:   flag.Key,
		OldFlag:   oldJSON,
		NewFlag:   newJSON,
	}
	if err := dao.AuditService.LogChange(ctx, change); err != nil {
		logger.Warn("Failed to write flag audit entry", zap.Error(err), zap.String("key", flag.Key))
	}

	return &flag, nil
}

// ListFlags returns every stored flag ordered by key.
func (dao *FlagDAO) ListFlags(ctx context.Context) ([]*model.CapabilityFlag, error) {
	return cache.Timed(dao.Tracker, "flag_store.list", func() ([]*model.CapabilityFlag, error) {
		return dao.listFlags(ctx)
	})
}

func (dao *FlagDAO) listFlags(ctx context.Context) ([]*model.CapabilityFlag, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (f:CAPABILITY_FLAG)
        RETURN f
        ORDER BY f.key
        `
		queryResult, err := transaction.Run(query, nil)
		if err != nil {
			return nil, herd_errors.ErrDatabaseOperation
		}

		var nodes []interface{}
		for queryResult.Next() {
			if node, found := queryResult.Record().Get("f"); found {
				nodes = append(nodes, node)
			}
		}
		return nodes, nil
	})
	if err != nil {
		logger.Error("Failed to list capability flags", zap.Error(err))
		return nil, err
	}

	nodes := result.([]interface{})
	flags := make([]*model.CapabilityFlag, 0, len(nodes))
	for _, node := range nodes {
		flag, err := flagFromNode(node)
		if err != nil {
			logger.Error("Failed to decode stored flag, skipping", zap.Error(err))
			continue
		}
		flags = append(flags, flag)
	}
	return flags, nil
}

func flagFromNode(value interface{}) (*model.CapabilityFlag, error) {
	node, ok := value.(neo4j.Node)
	if !ok {
		return nil, fmt.Errorf("unexpected node type %T", value)
	}
	props := node.Props

	flag := &model.CapabilityFlag{
		Key:         stringProp(props, "key"),
		Description: stringProp(props, "description"),
		UpdatedBy:   stringProp(props, "updatedBy"),
	}
	if enabled, ok := props["enabledDefault"].(bool); ok {
		flag.EnabledDefault = enabled
	}
	if pct, ok := props["rolloutPercentage"].(int64); ok {
		flag.RolloutPercentage = int(pct)
	}
	if version, ok := props["version"].(int64); ok {
		flag.Version = int(version)
	}
	if raw := stringProp(props, "targetUserIds"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &flag.TargetUserIDs); err != nil {
			return nil, fmt.Errorf("failed to decode target user ids: %w", err)
		}
	}
	if raw := stringProp(props, "targetTenantIds"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &flag.TargetTenantIDs); err != nil {
			return nil, fmt.Errorf("failed to decode target tenant ids: %w", err)
		}
	}
	if raw := stringProp(props, "updatedAt"); raw != "" {
		if updatedAt, err := time.Parse(time.RFC3339, raw); err == nil {
			flag.UpdatedAt = updatedAt
		}
	}
	return flag, nil
}

func stringProp(props map[string]interface{}, name string) string {
	if value, ok := props[name].(string); ok {
		return value
	}
	return ""
}
