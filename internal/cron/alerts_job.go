package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/barbackhq/pos-backend/pkg/db/models"
)

type organizationLister interface {
	ListOrganizations(ctx context.Context) ([]uuid.UUID, error)
}

type alertRecomputer interface {
	RecomputeAlerts(ctx context.Context, organizationID uuid.UUID) ([]models.InventoryAlert, error)
}

// InventoryAlertsJob rebuilds stock alerts for every organization. Expiry
// alerts drift as days pass even when stock never moves, so the board needs a
// periodic sweep on top of the per-mutation rebuild.
type InventoryAlertsJob struct {
	orgs      organizationLister
	inventory alertRecomputer
}

// NewInventoryAlertsJob builds the alert sweep job.
func NewInventoryAlertsJob(orgs organizationLister, inventory alertRecomputer) (*InventoryAlertsJob, error) {
	if orgs == nil {
		return nil, fmt.Errorf("organization lister required")
	}
	if inventory == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	return &InventoryAlertsJob{orgs: orgs, inventory: inventory}, nil
}

func (j *InventoryAlertsJob) Name() string {
	return "inventory-alert-sweep"
}

// Run recomputes alerts per organization, continuing past per-org failures so
// one tenant cannot starve the rest.
func (j *InventoryAlertsJob) Run(ctx context.Context) error {
	orgIDs, err := j.orgs.ListOrganizations(ctx)
	if err != nil {
		return fmt.Errorf("listing organizations: %w", err)
	}

	var errs error
	for _, orgID := range orgIDs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := j.inventory.RecomputeAlerts(ctx, orgID); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("org %s: %w", orgID, err))
		}
	}
	return errs
}
