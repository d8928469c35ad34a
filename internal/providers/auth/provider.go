package auth

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/utils"
)

var (
	ErrNotFound           = errors.New("profile not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidProfile     = errors.New("invalid profile")
)

// Storage is the key/value persistence profiles are saved into
type Storage interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, data []byte) error
}

// Profile is a local desktop user. Profiles are advisory: they label the
// session but gate nothing.
type Profile struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	HasPassword  bool      `json:"has_password"`
	CreatedAt    time.Time `json:"created_at"`
}

// storedProfile carries the hash, which the public form never serializes
type storedProfile struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"password_hash,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type document struct {
	Profiles []storedProfile `json:"profiles"`
	Current  *uuid.UUID      `json:"current,omitempty"`
}

// Provider manages user profiles
type Provider struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]*Profile // Protected by mu
	current *uuid.UUID             // Protected by mu
	storage Storage
	key     string
	cost    int
	logger  *zap.Logger
}

// NewProvider creates an empty profile store
func NewProvider(storage Storage, key string, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		users:   make(map[uuid.UUID]*Profile),
		storage: storage,
		key:     key,
		cost:    bcrypt.DefaultCost,
		logger:  logger.Named("auth"),
	}
}

// WithCost sets the bcrypt cost used for new passwords
func (a *Provider) WithCost(cost int) *Provider {
	a.cost = cost
	return a
}

// Load restores stored profiles. Reports whether a stored document was applied.
func (a *Provider) Load() bool {
	if a.storage == nil {
		return false
	}
	data, ok, err := a.storage.Get(a.key)
	if err != nil {
		a.logger.Warn("Failed to read profiles", zap.Error(err))
		return false
	}
	if !ok {
		return false
	}

	var doc document
	if err := sonic.Unmarshal(data, &doc); err != nil {
		a.logger.Warn("Stored profiles unusable, starting empty", zap.Error(err))
		return false
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, sp := range doc.Profiles {
		if err := utils.ValidateUsername(sp.Username); err != nil || sp.ID == uuid.Nil {
			a.logger.Warn("Dropping stored profile", zap.String("username", sp.Username))
			continue
		}
		if a.findLocked(sp.Username) != nil {
			continue
		}
		a.users[sp.ID] = &Profile{
			ID:           sp.ID,
			Username:     sp.Username,
			DisplayName:  sp.DisplayName,
			PasswordHash: sp.PasswordHash,
			HasPassword:  sp.PasswordHash != "",
			CreatedAt:    sp.CreatedAt,
		}
	}
	if doc.Current != nil {
		if _, ok := a.users[*doc.Current]; ok {
			cur := *doc.Current
			a.current = &cur
		}
	}
	a.logger.Info("Restored profiles", zap.Int("count", len(a.users)))
	return true
}

// Register creates a profile. The password is optional; when given it is
// stored as a bcrypt hash.
func (a *Provider) Register(username, displayName, password string) (Profile, error) {
	username = strings.TrimSpace(username)
	if err := utils.ValidateUsername(username); err != nil {
		return Profile{}, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = username
	}
	if err := utils.ValidateName(displayName, "display_name"); err != nil {
		return Profile{}, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}

	var hash string
	if password != "" {
		if err := utils.ValidatePassword(password); err != nil {
			return Profile{}, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
		}
		h, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
		if err != nil {
			return Profile{}, fmt.Errorf("password hashing failed: %w", err)
		}
		hash = string(h)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.findLocked(username) != nil {
		return Profile{}, fmt.Errorf("register %q: %w", username, ErrUsernameTaken)
	}

	p := &Profile{
		ID:           uuid.New(),
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: hash,
		HasPassword:  hash != "",
		CreatedAt:    time.Now().UTC(),
	}
	a.users[p.ID] = p
	a.persistLocked()

	a.logger.Info("Registered profile", zap.String("username", username), zap.Bool("password", p.HasPassword))
	return *p, nil
}

// Authenticate checks credentials and makes the profile current. Profiles
// without a password accept an empty one.
func (a *Provider) Authenticate(username, password string) (Profile, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	p := a.findLocked(username)
	if p == nil {
		return Profile{}, ErrInvalidCredentials
	}
	if p.PasswordHash == "" {
		if password != "" {
			return Profile{}, ErrInvalidCredentials
		}
	} else if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		return Profile{}, ErrInvalidCredentials
	}

	id := p.ID
	a.current = &id
	a.persistLocked()
	return *p, nil
}

// Get returns one profile
func (a *Provider) Get(id uuid.UUID) (Profile, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	p, ok := a.users[id]
	if !ok {
		return Profile{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return *p, nil
}

// List returns all profiles ordered by username
func (a *Provider) List() []Profile {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]Profile, 0, len(a.users))
	for _, p := range a.users {
		out = append(out, *p)
	}
	slices.SortFunc(out, func(x, y Profile) int { return cmp.Compare(x.Username, y.Username) })
	return out
}

// Remove deletes a profile. Removing the current profile clears it.
func (a *Provider) Remove(id uuid.UUID) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.users[id]
	if !ok {
		return fmt.Errorf("remove %s: %w", id, ErrNotFound)
	}
	delete(a.users, id)
	if a.current != nil && *a.current == id {
		a.current = nil
	}
	a.persistLocked()

	a.logger.Info("Removed profile", zap.String("username", p.Username))
	return nil
}

// SetCurrent selects the active profile without checking credentials
func (a *Provider) SetCurrent(id uuid.UUID) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.users[id]; !ok {
		return fmt.Errorf("select %s: %w", id, ErrNotFound)
	}
	a.current = &id
	a.persistLocked()
	return nil
}

// Current returns the active profile, if any
func (a *Provider) Current() (Profile, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.current == nil {
		return Profile{}, false
	}
	p, ok := a.users[*a.current]
	if !ok {
		return Profile{}, false
	}
	return *p, true
}

// findLocked looks a profile up by case-insensitive username. Must be
// called with mu held.
func (a *Provider) findLocked(username string) *Profile {
	for _, p := range a.users {
		if strings.EqualFold(p.Username, username) {
			return p
		}
	}
	return nil
}

// persistLocked saves all profiles. Failures are logged, never returned.
// Must be called with mu held.
func (a *Provider) persistLocked() {
	if a.storage == nil {
		return
	}
	doc := document{Profiles: make([]storedProfile, 0, len(a.users)), Current: a.current}
	for _, p := range a.users {
		doc.Profiles = append(doc.Profiles, storedProfile{
			ID:           p.ID,
			Username:     p.Username,
			DisplayName:  p.DisplayName,
			PasswordHash: p.PasswordHash,
			CreatedAt:    p.CreatedAt,
		})
	}
	slices.SortFunc(doc.Profiles, func(x, y storedProfile) int { return cmp.Compare(x.Username, y.Username) })

	data, err := sonic.Marshal(doc)
	if err == nil {
		err = a.storage.Set(a.key, data)
	}
	if err != nil {
		a.logger.Warn("Failed to persist profiles", zap.Error(err))
	}
}
