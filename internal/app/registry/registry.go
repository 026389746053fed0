// internal/app/registry/registry.go
package registry

import (
	"context"

	adminstore "github.com/dalemusser/orgadmin/internal/app/store/admins"
	organizationstore "github.com/dalemusser/orgadmin/internal/app/store/organizations"
	"github.com/dalemusser/orgadmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AdminStore is the subset of adminstore.Store the registry needs.
type AdminStore interface {
	Create(ctx context.Context, a models.Admin) (models.Admin, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	EmailExistsForOther(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error)
	Update(ctx context.Context, id primitive.ObjectID, upd adminstore.Update) error
	SetOrganization(ctx context.Context, id, orgID primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// OrganizationStore is the subset of organizationstore.Store the registry needs.
type OrganizationStore interface {
	Create(ctx context.Context, org models.Organization) (models.Organization, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Organization, error)
	GetByName(ctx context.Context, name string) (models.Organization, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	NameExistsForOther(ctx context.Context, name string, excludeID primitive.ObjectID) (bool, error)
	Update(ctx context.Context, id primitive.ObjectID, upd organizationstore.Update) error
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	List(ctx context.Context) ([]models.Organization, error)
}

// CollectionStore manages the per-organization collections.
type CollectionStore interface {
	Create(ctx context.Context, name string) error
	Rename(ctx context.Context, oldName, newName string) error
	Drop(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// TxRunner runs fn atomically when the deployment allows it.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// Deps are the collaborators of a Registry. All are required except Log.
type Deps struct {
	Admins        AdminStore
	Organizations OrganizationStore
	Collections   CollectionStore
	Hasher        PasswordHasher
	Tx            TxRunner
	Log           *zap.Logger
}

// Registry keeps each Admin, its Organization and the organization's
// collection consistent across create, update and delete.
type Registry struct {
	admins      AdminStore
	orgs        OrganizationStore
	collections CollectionStore
	hasher      PasswordHasher
	tx          TxRunner
	log         *zap.Logger
}

func New(d Deps) *Registry {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		admins:      d.Admins,
		orgs:        d.Organizations,
		collections: d.Collections,
		hasher:      d.Hasher,
		tx:          d.Tx,
		log:         log,
	}
}
