package repository

import (
	"context"
	"time"

	"github.com/summitrentals/voice-service/internal/domain"
	"gorm.io/gorm"
)

// ContactRepository is the caller directory: a rolling aggregate per phone number.
type ContactRepository interface {
	// GetByPhone returns the contact for a phone number, or domain.ErrNotFound.
	GetByPhone(ctx context.Context, phone string) (*domain.Contact, error)

	// Upsert merges the patch into the contact for the phone number, creating
	// the row if it does not exist. Merging is coalesce semantics: a nil or
	// empty patch field never overwrites a stored value. When callAt is
	// non-zero the rolling call aggregate is bumped as well.
	Upsert(ctx context.Context, phone string, patch domain.ContactPatch, callAt time.Time) (*domain.Contact, error)
}

// CallRepository is the call record store.
type CallRepository interface {
	// UpsertCall writes the call row idempotently by id.
	UpsertCall(ctx context.Context, call *domain.Call) error

	// GetByID returns a call by its runtime id, or domain.ErrNotFound.
	GetByID(ctx context.Context, id string) (*domain.Call, error)

	// UpsertStructuredData writes the structured analysis row, idempotently
	// by call id. The call row must exist first.
	UpsertStructuredData(ctx context.Context, data *domain.StructuredCallData) error
}

// ClientRepository resolves business accounts and their phone lines.
type ClientRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Client, error)

	// GetByPhoneLineID resolves an inbound phone-line id to its client. An
	// unmapped line falls back to the default client; domain.ErrNotFound is
	// returned only when no default exists either.
	GetByPhoneLineID(ctx context.Context, phoneLineID string) (*domain.Client, error)

	GetDefault(ctx context.Context) (*domain.Client, error)
}

// CallbackRepository stores callback requests created mid-call.
type CallbackRepository interface {
	Create(ctx context.Context, req *domain.CallbackRequest) error
	UpdateStatus(ctx context.Context, id string, status string) error
	ListPending(ctx context.Context, clientID string) ([]*domain.CallbackRequest, error)
}

// EquipmentRepository is the rental inventory catalog.
type EquipmentRepository interface {
	// Search returns catalog entries matching the free-text query.
	Search(ctx context.Context, query string) ([]*domain.Equipment, error)
}

// RepositoryManager combines all repositories behind one facade.
type RepositoryManager interface {
	Contacts() ContactRepository
	Calls() CallRepository
	Clients() ClientRepository
	Callbacks() CallbackRepository
	Equipment() EquipmentRepository

	// Health check
	Ping(ctx context.Context) error

	// Close connection
	Close() error
}

// GormRepositoryManager implements RepositoryManager using GORM.
type GormRepositoryManager struct {
	db            *gorm.DB
	contactRepo   *GormContactRepository
	callRepo      *GormCallRepository
	clientRepo    *GormClientRepository
	callbackRepo  *GormCallbackRepository
	equipmentRepo *GormEquipmentRepository
}

// NewGormRepositoryManager creates a new GORM repository manager.
func NewGormRepositoryManager(db *gorm.DB) *GormRepositoryManager {
	return &GormRepositoryManager{
		db:            db,
		contactRepo:   NewGormContactRepository(db),
		callRepo:      NewGormCallRepository(db),
		clientRepo:    NewGormClientRepository(db),
		callbackRepo:  NewGormCallbackRepository(db),
		equipmentRepo: NewGormEquipmentRepository(db),
	}
}

// Contacts returns the contact repository.
func (m *GormRepositoryManager) Contacts() ContactRepository {
	return m.contactRepo
}

// Calls returns the call repository.
func (m *GormRepositoryManager) Calls() CallRepository {
	return m.callRepo
}

// Clients returns the client repository.
func (m *GormRepositoryManager) Clients() ClientRepository {
	return m.clientRepo
}

// Callbacks returns the callback repository.
func (m *GormRepositoryManager) Callbacks() CallbackRepository {
	return m.callbackRepo
}

// Equipment returns the equipment repository.
func (m *GormRepositoryManager) Equipment() EquipmentRepository {
	return m.equipmentRepo
}

// Ping checks database connectivity.
func (m *GormRepositoryManager) Ping(ctx context.Context) error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection.
func (m *GormRepositoryManager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
