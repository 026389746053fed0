package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	adminstore "github.com/dalemusser/orgadmin/internal/app/store/admins"
	collectionstore "github.com/dalemusser/orgadmin/internal/app/store/collections"
	organizationstore "github.com/dalemusser/orgadmin/internal/app/store/organizations"
	"github.com/dalemusser/orgadmin/internal/app/system/normalize"
	"github.com/dalemusser/orgadmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Faults makes named operations of an in-memory store fail. An injected
// error fires once.
type Faults struct {
	mu   sync.Mutex
	errs map[string]error
}

// FailNext makes the next call of op return err.
func (f *Faults) FailNext(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errs == nil {
		f.errs = map[string]error{}
	}
	f.errs[op] = err
}

func (f *Faults) take(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := f.errs[op]
	delete(f.errs, op)
	return err
}

/* ---------------------------------- admins --------------------------------- */

// MemAdmins is an in-memory stand-in for adminstore.Store with the same
// unique-email behaviour.
type MemAdmins struct {
	Faults
	mu   sync.RWMutex
	byID map[primitive.ObjectID]models.Admin
}

func NewMemAdmins() *MemAdmins {
	return &MemAdmins{byID: map[primitive.ObjectID]models.Admin{}}
}

func (s *MemAdmins) emailInUse(email string, exclude primitive.ObjectID) bool {
	for id, a := range s.byID {
		if id != exclude && a.Email == email {
			return true
		}
	}
	return false
}

func (s *MemAdmins) Create(_ context.Context, a models.Admin) (models.Admin, error) {
	if err := s.take("Create"); err != nil {
		return models.Admin{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a.Email = normalize.Email(a.Email)
	if s.emailInUse(a.Email, primitive.NilObjectID) {
		return models.Admin{}, adminstore.ErrDuplicateEmail
	}
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.CreatedAt, a.UpdatedAt = now, now
	s.byID[a.ID] = a
	return a, nil
}

func (s *MemAdmins) GetByID(_ context.Context, id primitive.ObjectID) (*models.Admin, error) {
	if err := s.take("GetByID"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &a, nil
}

func (s *MemAdmins) GetByEmail(_ context.Context, email string) (*models.Admin, error) {
	if err := s.take("GetByEmail"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	email = normalize.Email(email)
	for _, a := range s.byID {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *MemAdmins) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if err := s.take("ExistsByEmail"); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.emailInUse(normalize.Email(email), primitive.NilObjectID), nil
}

func (s *MemAdmins) EmailExistsForOther(_ context.Context, email string, excludeID primitive.ObjectID) (bool, error) {
	if err := s.take("EmailExistsForOther"); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.emailInUse(normalize.Email(email), excludeID), nil
}

func (s *MemAdmins) Update(_ context.Context, id primitive.ObjectID, upd adminstore.Update) error {
	if err := s.take("Update"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if upd.Email != nil {
		email := normalize.Email(*upd.Email)
		if s.emailInUse(email, id) {
			return adminstore.ErrDuplicateEmail
		}
		a.Email = email
	}
	if upd.PasswordHash != nil {
		a.PasswordHash = *upd.PasswordHash
	}
	a.UpdatedAt = time.Now().UTC()
	s.byID[id] = a
	return nil
}

func (s *MemAdmins) SetOrganization(_ context.Context, id, orgID primitive.ObjectID) error {
	if err := s.take("SetOrganization"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	a.OrganizationID = &orgID
	a.UpdatedAt = time.Now().UTC()
	s.byID[id] = a
	return nil
}

func (s *MemAdmins) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	if err := s.take("Delete"); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return 0, nil
	}
	delete(s.byID, id)
	return 1, nil
}

// All returns a snapshot of every stored admin.
func (s *MemAdmins) All() []models.Admin {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Admin, 0, len(s.byID))
	for _, a := range s.byID {
		out = append(out, a)
	}
	return out
}

/* ------------------------------- organizations ------------------------------ */

// MemOrganizations is an in-memory stand-in for organizationstore.Store.
// organization_name and collection_name are unique.
type MemOrganizations struct {
	Faults
	mu   sync.RWMutex
	byID map[primitive.ObjectID]models.Organization
	// Now, when set, stamps UpdatedAt on writes.
	Now func() time.Time
}

func NewMemOrganizations() *MemOrganizations {
	return &MemOrganizations{byID: map[primitive.ObjectID]models.Organization{}}
}

func (s *MemOrganizations) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *MemOrganizations) conflicts(name, coll string, exclude primitive.ObjectID) bool {
	for id, o := range s.byID {
		if id == exclude {
			continue
		}
		if o.OrganizationName == name || (coll != "" && o.CollectionName == coll) {
			return true
		}
	}
	return false
}

func (s *MemOrganizations) Create(_ context.Context, org models.Organization) (models.Organization, error) {
	if err := s.take("Create"); err != nil {
		return models.Organization{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	org.OrganizationName = normalize.OrgName(org.OrganizationName)
	if s.conflicts(org.OrganizationName, org.CollectionName, primitive.NilObjectID) {
		return models.Organization{}, organizationstore.ErrDuplicateOrganization
	}
	now := s.now()
	org.ID = primitive.NewObjectID()
	org.CreatedAt, org.UpdatedAt = now, now
	s.byID[org.ID] = org
	return org, nil
}

func (s *MemOrganizations) GetByID(_ context.Context, id primitive.ObjectID) (models.Organization, error) {
	if err := s.take("GetByID"); err != nil {
		return models.Organization{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.byID[id]
	if !ok {
		return models.Organization{}, mongo.ErrNoDocuments
	}
	return o, nil
}

func (s *MemOrganizations) GetByName(_ context.Context, name string) (models.Organization, error) {
	if err := s.take("GetByName"); err != nil {
		return models.Organization{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	name = normalize.OrgName(name)
	for _, o := range s.byID {
		if o.OrganizationName == name {
			return o, nil
		}
	}
	return models.Organization{}, mongo.ErrNoDocuments
}

func (s *MemOrganizations) ExistsByName(ctx context.Context, name string) (bool, error) {
	if err := s.take("ExistsByName"); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conflicts(normalize.OrgName(name), "", primitive.NilObjectID), nil
}

func (s *MemOrganizations) NameExistsForOther(_ context.Context, name string, excludeID primitive.ObjectID) (bool, error) {
	if err := s.take("NameExistsForOther"); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conflicts(normalize.OrgName(name), "", excludeID), nil
}

func (s *MemOrganizations) Update(_ context.Context, id primitive.ObjectID, upd organizationstore.Update) error {
	if err := s.take("Update"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.byID[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if upd.OrganizationName != nil {
		o.OrganizationName = normalize.OrgName(*upd.OrganizationName)
	}
	if upd.CollectionName != nil {
		o.CollectionName = *upd.CollectionName
	}
	if s.conflicts(o.OrganizationName, o.CollectionName, id) {
		return organizationstore.ErrDuplicateOrganization
	}
	o.UpdatedAt = s.now()
	s.byID[id] = o
	return nil
}

func (s *MemOrganizations) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	if err := s.take("Delete"); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return 0, nil
	}
	delete(s.byID, id)
	return 1, nil
}

func (s *MemOrganizations) List(_ context.Context) ([]models.Organization, error) {
	if err := s.take("List"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Organization, 0, len(s.byID))
	for _, o := range s.byID {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrganizationName < out[j].OrganizationName })
	return out, nil
}

/* -------------------------------- collections ------------------------------- */

// MemCollections is an in-memory stand-in for collectionstore.Store. Each
// collection holds opaque documents so renames can be checked for loss.
type MemCollections struct {
	Faults
	mu    sync.RWMutex
	colls map[string][]any
}

func NewMemCollections() *MemCollections {
	return &MemCollections{colls: map[string][]any{}}
}

func (s *MemCollections) Create(_ context.Context, name string) error {
	if err := s.take("Create"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.colls[name]; ok {
		return fmt.Errorf("%w: %s", collectionstore.ErrAlreadyExists, name)
	}
	s.colls[name] = []any{}
	return nil
}

func (s *MemCollections) Rename(_ context.Context, oldName, newName string) error {
	if err := s.take("Rename"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.colls[newName]; ok {
		return fmt.Errorf("%w: %s", collectionstore.ErrAlreadyExists, newName)
	}
	docs, ok := s.colls[oldName]
	if !ok {
		return fmt.Errorf("%w: %s", collectionstore.ErrNotFound, oldName)
	}
	s.colls[newName] = docs
	delete(s.colls, oldName)
	return nil
}

func (s *MemCollections) Drop(_ context.Context, name string) error {
	if err := s.take("Drop"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.colls[name]; !ok {
		return fmt.Errorf("%w: %s", collectionstore.ErrNotFound, name)
	}
	delete(s.colls, name)
	return nil
}

func (s *MemCollections) Exists(_ context.Context, name string) (bool, error) {
	if err := s.take("Exists"); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.colls[name]
	return ok, nil
}

// Insert appends documents to an existing collection.
func (s *MemCollections) Insert(name string, docs ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.colls[name] = append(s.colls[name], docs...)
}

// Docs returns the documents of name, or nil when it does not exist.
func (s *MemCollections) Docs(name string) []any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]any(nil), s.colls[name]...)
}

// Names returns all collection names, sorted.
func (s *MemCollections) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.colls))
	for n := range s.colls {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

/* ---------------------------------- hasher ---------------------------------- */

// PlainHasher is a reversible PasswordHasher for tests that don't exercise
// bcrypt.
type PlainHasher struct {
	Faults
}

func (h *PlainHasher) Hash(plain string) (string, error) {
	if err := h.take("Hash"); err != nil {
		return "", err
	}
	return "hashed:" + plain, nil
}

func (h *PlainHasher) Verify(plain, digest string) bool {
	return digest == "hashed:"+plain
}
