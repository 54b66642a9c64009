package services

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/finpal/finpal-be/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(id string) (models.User, error)
	RegisterUser(name, email, password string) (models.User, error)
	AuthenticateUser(email, password string) (models.User, error)
}

// UserService provides business logic for account management.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, name, email, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return models.User{}, err
	}
	return user, nil
}

// getUserByEmail retrieves a single user by their email, including the
// password hash.
func (s *UserService) getUserByEmail(email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("user %s: %w", email, ErrNotFound)
		}
		return models.User{}, err
	}
	return user, nil
}

// RegisterUser creates a new user, hashing their password. Email
// uniqueness is enforced here; a duplicate yields ErrEmailTaken and the
// existing account is untouched.
func (s *UserService) RegisterUser(name, email, password string) (models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" || email == "" || password == "" {
		return models.User{}, fmt.Errorf("name, email and password are required: %w", ErrValidation)
	}

	if _, err := s.getUserByEmail(email); err == nil {
		return models.User{}, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, name, email, password_hash) VALUES(?, ?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(user.ID, user.Name, user.Email, user.PasswordHash); err != nil {
		// The UNIQUE constraint backstops a racing registration.
		if strings.Contains(err.Error(), "UNIQUE") {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}

	// Re-read so created_at is populated; the hash never leaves here.
	return s.GetUserByID(user.ID)
}

// AuthenticateUser verifies a user's credentials. Unknown email and
// wrong password return the same error so callers cannot probe for
// registered addresses.
func (s *UserService) AuthenticateUser(email, password string) (models.User, error) {
	user, err := s.getUserByEmail(strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}
