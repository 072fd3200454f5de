package store

import (
	"context"
	"errors"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/authgate/authgate"
	"github.com/authgate/authgate/models"
)

// ErrClientNotFound indicates the client is not registered.
var ErrClientNotFound = errors.New("client not found")

// NewClientStore create client store (memory)
func NewClientStore() *ClientStore {
	return &ClientStore{
		data: make(map[string]authgate.ClientInfo),
		keys: make(map[string]string),
	}
}

// ClientStore client information store (in-memory)
type ClientStore struct {
	sync.RWMutex
	data map[string]authgate.ClientInfo
	keys map[string]string // internal key -> public id
}

// GetByID according to the ID for the client information
func (cs *ClientStore) GetByID(ctx context.Context, id string) (authgate.ClientInfo, error) {
	cs.RLock()
	defer cs.RUnlock()

	if c, ok := cs.data[id]; ok {
		return c, nil
	}
	return nil, ErrClientNotFound
}

// GetByKey looks up a client by its internal identifier
func (cs *ClientStore) GetByKey(ctx context.Context, key string) (authgate.ClientInfo, error) {
	cs.RLock()
	defer cs.RUnlock()

	if id, ok := cs.keys[key]; ok {
		if c, ok := cs.data[id]; ok {
			return c, nil
		}
	}
	return nil, ErrClientNotFound
}

// Set set client information
func (cs *ClientStore) Set(id string, cli authgate.ClientInfo) (err error) {
	cs.Lock()
	defer cs.Unlock()

	cs.data[id] = cli
	cs.keys[cli.GetKey()] = id
	return
}

// --- Persistent client store ---

// DBClientStore reads clients from the oauth2_clients table.
type DBClientStore struct{ DB *gorm.DB }

func NewDBClientStore(db *gorm.DB) *DBClientStore { return &DBClientStore{DB: db} }

type clientRow struct {
	ID     string
	Secret string
	Key    string
	Name   string
	Domain string
	Public bool
	Scope  string
}

func (r clientRow) model() *models.Client {
	return &models.Client{
		ID:     r.ID,
		Secret: r.Secret,
		Key:    r.Key,
		Name:   r.Name,
		Domain: r.Domain,
		Public: r.Public,
		Scope:  authgate.ParseScope(r.Scope),
	}
}

// Upsert creates or updates a client record.
func (s *DBClientStore) Upsert(ctx context.Context, c *models.Client) error {
	return s.DB.WithContext(ctx).Exec(
		`INSERT INTO oauth2_clients(id, secret, key, name, domain, public, scope)
		 VALUES(?,?,?,?,?,?,?)
		 ON CONFLICT(id) DO UPDATE SET secret=excluded.secret, key=excluded.key, name=excluded.name, domain=excluded.domain, public=excluded.public, scope=excluded.scope, updated_at=CURRENT_TIMESTAMP`,
		c.ID, c.Secret, c.GetKey(), c.Name, c.Domain, c.Public, strings.Join(c.Scope, " "),
	).Error
}

// GetByID implements authgate.ClientStore backed by DB.
func (s *DBClientStore) GetByID(ctx context.Context, id string) (authgate.ClientInfo, error) {
	var row clientRow
	if err := s.DB.WithContext(ctx).Raw(`SELECT id, secret, key, name, domain, public, scope FROM oauth2_clients WHERE id=?`, id).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == "" {
		return nil, ErrClientNotFound
	}
	return row.model(), nil
}

// GetByKey looks a client up by its internal identifier.
func (s *DBClientStore) GetByKey(ctx context.Context, key string) (authgate.ClientInfo, error) {
	var row clientRow
	if err := s.DB.WithContext(ctx).Raw(`SELECT id, secret, key, name, domain, public, scope FROM oauth2_clients WHERE key=?`, key).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == "" {
		return nil, ErrClientNotFound
	}
	return row.model(), nil
}
