package repositories

import (
	"database/sql"

	intconfig "washbay/internal/config"
	intdb "washbay/internal/db"
	"washbay/internal/domain"
	"washbay/internal/domain/models"
)

type UserRepository struct {
	DB intdb.DBTX
}

func (r UserRepository) db() intdb.DBTX {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const userColumns = `
	id,
	username,
	full_name,
	COALESCE(email,''),
	COALESCE(phone,''),
	role,
	is_active,
	created_at`

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.FullName,
		&u.Email,
		&u.Phone,
		&u.Role,
		&u.IsActive,
		&u.CreatedAt,
	)
	return u, err
}

func (r UserRepository) GetByID(id int64) (models.User, error) {
	u, err := scanUser(r.db().QueryRow(`
		SELECT `+userColumns+`
		FROM users
		WHERE id=? LIMIT 1`, id))
	if err == sql.ErrNoRows {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	return u, err
}

// GetActiveStaff returns the user only when it exists and is active; staff
// assignment requires both.
func (r UserRepository) GetActiveStaff(id int64) (models.User, error) {
	u, err := scanUser(r.db().QueryRow(`
		SELECT `+userColumns+`
		FROM users
		WHERE id=? AND is_active=1 LIMIT 1`, id))
	if err == sql.ErrNoRows {
		return models.User{}, domain.NotFoundError{Resource: "staff"}
	}
	return u, err
}

// GetCredentials looks a user up by username or email and returns the
// password hash alongside the profile.
func (r UserRepository) GetCredentials(login string) (models.User, string, error) {
	var (
		u    models.User
		hash string
	)
	err := r.db().QueryRow(`
		SELECT `+userColumns+`, password_hash
		FROM users
		WHERE username=? OR email=? LIMIT 1`, login, login).Scan(
		&u.ID, &u.Username, &u.FullName, &u.Email, &u.Phone, &u.Role, &u.IsActive, &u.CreatedAt,
		&hash,
	)
	if err == sql.ErrNoRows {
		return models.User{}, "", domain.NotFoundError{Resource: "user"}
	}
	return u, hash, err
}

func (r UserRepository) List() ([]models.User, error) {
	rows, err := r.db().Query(`
		SELECT ` + userColumns + `
		FROM users
		ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r UserRepository) CountByLogin(username, email string) (int, error) {
	var n int
	err := r.db().QueryRow(`
		SELECT COUNT(*) FROM users WHERE username=? OR email=?`, username, email).Scan(&n)
	return n, err
}

func (r UserRepository) Insert(u *models.User, passwordHash string) error {
	res, err := r.db().Exec(`
		INSERT INTO users (username, full_name, email, phone, password_hash, role, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Username, u.FullName, intdb.NullIfEmpty(u.Email), intdb.NullIfEmpty(u.Phone),
		passwordHash, u.Role, u.IsActive, u.CreatedAt,
	)
	if err != nil {
		return err
	}
	u.ID, err = res.LastInsertId()
	return err
}

func (r UserRepository) Update(u models.User) error {
	_, err := r.db().Exec(`
		UPDATE users
		SET full_name=?, email=?, phone=?, role=?, is_active=?
		WHERE id=?`,
		u.FullName, intdb.NullIfEmpty(u.Email), intdb.NullIfEmpty(u.Phone),
		u.Role, u.IsActive, u.ID)
	return err
}

func (r UserRepository) UpdatePassword(id int64, passwordHash string) error {
	_, err := r.db().Exec(`UPDATE users SET password_hash=? WHERE id=?`, passwordHash, id)
	return err
}

// GetPasswordHash fetches just the stored hash for change-password checks.
func (r UserRepository) GetPasswordHash(id int64) (string, error) {
	var hash string
	err := r.db().QueryRow(`SELECT password_hash FROM users WHERE id=?`, id).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", domain.NotFoundError{Resource: "user"}
	}
	return hash, err
}
