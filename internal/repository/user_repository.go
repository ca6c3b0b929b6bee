package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/studiohaven/cms-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	CreateAdmin(email, name, password string) (models.AdminUser, error)
	Authenticate(email, password string) (models.AdminUser, error)
	GetByID(userID string) (models.AdminUser, error)
	Approve(userID string) error
	// ListApprovedIDs feeds notification fan-out: only approved
	// accounts receive inquiry notifications.
	ListApprovedIDs() ([]string, error)
	ListAll() ([]models.AdminUser, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func (u *userRepository) CreateAdmin(email, name, password string) (models.AdminUser, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.AdminUser{}, err
	}

	user := models.AdminUser{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Approved:     false,
	}

	const query = `
		INSERT INTO admin_users (email, name, password_hash, approved)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err = u.db.QueryRow(query, user.Email, user.Name, user.PasswordHash, user.Approved).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return models.AdminUser{}, err
	}

	return user, nil
}

func (u *userRepository) Authenticate(email, password string) (models.AdminUser, error) {
	var user models.AdminUser

	const query = `
		SELECT id, email, name, password_hash, approved, created_at
		FROM admin_users
		WHERE email = $1`
	err := u.db.QueryRow(query, strings.TrimSpace(email)).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Approved,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.AdminUser{}, errors.New("invalid credentials")
		}
		return models.AdminUser{}, err
	}

	if !user.Approved {
		return models.AdminUser{}, errors.New("account is not approved")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.AdminUser{}, errors.New("invalid credentials")
	}

	return user, nil
}

func (u *userRepository) GetByID(userID string) (models.AdminUser, error) {
	var user models.AdminUser

	const query = `
		SELECT id, email, name, password_hash, approved, created_at
		FROM admin_users
		WHERE id = $1`
	err := u.db.QueryRow(query, userID).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Approved,
		&user.CreatedAt,
	)
	if err != nil {
		return models.AdminUser{}, err
	}
	return user, nil
}

func (u *userRepository) Approve(userID string) error {
	const query = `
		UPDATE admin_users
		SET approved = TRUE, updated_at = now()
		WHERE id = $1`
	result, err := u.db.Exec(query, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (u *userRepository) ListApprovedIDs() ([]string, error) {
	const query = `
		SELECT id
		FROM admin_users
		WHERE approved = TRUE
		ORDER BY created_at`

	rows, err := u.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (u *userRepository) ListAll() ([]models.AdminUser, error) {
	const query = `
		SELECT id, email, name, password_hash, approved, created_at
		FROM admin_users
		ORDER BY created_at DESC`

	rows, err := u.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.AdminUser
	for rows.Next() {
		var user models.AdminUser
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.Approved, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}
