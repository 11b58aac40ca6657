package repository

import (
	"context"

	"github.com/garnizeh/offerdesk/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

// OfferRepo is the persistence port for offer records. SaveOffer inserts or
// updates by ID (last write wins); GetOffer returns nil, nil when absent.
type OfferRepo interface {
	SaveOffer(ctx context.Context, o *models.Offer) error
	GetOffer(ctx context.Context, id string) (*models.Offer, error)
	ListOffers(ctx context.Context, limit, offset int) ([]models.Offer, error)
}

type RoleRepo interface {
	GetRole(ctx context.Context, name string) (*models.Role, error)
	UpsertRole(ctx context.Context, r *models.Role) error
	ListRoles(ctx context.Context) ([]models.Role, error)
}

type OperatorRepo interface {
	GetOperator(ctx context.Context, username string) (*models.Operator, error)
	UpsertOperator(ctx context.Context, op *models.Operator) error
}

type NotificationRepo interface {
	RecordNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, limit int) ([]models.Notification, error)
}
