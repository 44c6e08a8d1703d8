package server

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// User is an account that can sync one schedule blob.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`

	passwordHash []byte
}

// MemStorage keeps users and their saved schedules in memory, guarded by a
// mutex so the HTTP handlers can run concurrently.
type MemStorage struct {
	mu        sync.RWMutex
	users     map[string]User            // by id
	byName    map[string]string          // username -> id
	schedules map[string]json.RawMessage // by user id
}

func NewMemStorage() *MemStorage {
	return &MemStorage{
		users:     make(map[string]User),
		byName:    make(map[string]string),
		schedules: make(map[string]json.RawMessage),
	}
}

// CreateUser registers a new account, hashing the password with bcrypt.
func (m *MemStorage) CreateUser(username, password string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byName[username]; exists {
		return User{}, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.New().String(),
		Username:     username,
		passwordHash: hash,
	}
	m.users[user.ID] = user
	m.byName[username] = user.ID
	return user, nil
}

// Authenticate verifies a username/password pair.
func (m *MemStorage) Authenticate(username, password string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byName[username]
	if !ok {
		return User{}, ErrInvalidCredentials
	}
	user := m.users[id]
	if err := bcrypt.CompareHashAndPassword(user.passwordHash, []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser returns the user with the given id.
func (m *MemStorage) GetUser(id string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

// SaveSchedule overwrites the schedule blob for a user.
func (m *MemStorage) SaveSchedule(userID string, schedule json.RawMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedules[userID] = schedule
}

// GetSchedule returns the saved schedule for a user, or nil if none exists.
func (m *MemStorage) GetSchedule(userID string) json.RawMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.schedules[userID]
}
