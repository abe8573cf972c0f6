package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/rudzz/marketplace-api/internal/model"
)

// ErrEmailExists is returned when registering with an email that already
// has a provider account. Handlers translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ProviderRepo provides access to the providers table for authentication
// and profile management. A provider only ever reads or updates its own
// row; the id always comes from the verified token, never from input.
type ProviderRepo struct {
	db *sql.DB
}

// NewProviderRepo returns a new ProviderRepo bound to the given database.
func NewProviderRepo(db *sql.DB) *ProviderRepo { return &ProviderRepo{db: db} }

// NewProvider carries the sanitized registration values.
type NewProvider struct {
	BusinessName string
	Email        string
	PasswordHash string
	Phone        string
	Address      string
	City         string
	State        string
	ZipCode      string
	Description  string
	Website      string
}

// GetByEmail loads the credential columns for login. sql.ErrNoRows means
// no account; the handler reports it identically to a wrong password.
func (r *ProviderRepo) GetByEmail(ctx context.Context, email string) (*model.Provider, error) {
	const q = `SELECT id, business_name, email, password FROM providers WHERE email = ?`
	var p model.Provider
	if err := r.db.QueryRowContext(ctx, q, email).Scan(
		&p.ID, &p.BusinessName, &p.Email, &p.PasswordHash,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create registers a new provider and returns its generated id. A
// duplicate email is reported as ErrEmailExists via the unique index on
// providers.email rather than a racy pre-check.
func (r *ProviderRepo) Create(ctx context.Context, np NewProvider) (uint64, error) {
	const q = `INSERT INTO providers
		(business_name, email, password, phone, address, city, state, zip_code, description, website, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		np.BusinessName, np.Email, np.PasswordHash, np.Phone, np.Address,
		np.City, np.State, np.ZipCode, np.Description, np.Website,
		time.Now().UTC(),
	)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 { // duplicate key
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ProfileDetail is the provider's own profile without the password hash.
type ProfileDetail struct {
	ID           uint64     `json:"id"`
	BusinessName string     `json:"business_name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Address      string     `json:"address"`
	City         string     `json:"city"`
	State        string     `json:"state"`
	ZipCode      string     `json:"zip_code"`
	Description  string     `json:"description"`
	Website      string     `json:"website"`
	LogoURL      *string    `json:"logo_url"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

// GetProfile loads the provider's profile by id.
func (r *ProviderRepo) GetProfile(ctx context.Context, providerID uint64) (*ProfileDetail, error) {
	const q = `SELECT id, business_name, email,
		       COALESCE(phone, ''), COALESCE(address, ''), COALESCE(city, ''),
		       COALESCE(state, ''), COALESCE(zip_code, ''), COALESCE(description, ''),
		       COALESCE(website, ''), logo_url, created_at, updated_at
		FROM providers WHERE id = ?`
	var d ProfileDetail
	var logo sql.NullString
	var updated sql.NullTime
	if err := r.db.QueryRowContext(ctx, q, providerID).Scan(
		&d.ID, &d.BusinessName, &d.Email,
		&d.Phone, &d.Address, &d.City, &d.State, &d.ZipCode, &d.Description,
		&d.Website, &logo, &d.CreatedAt, &updated,
	); err != nil {
		return nil, err
	}
	if logo.Valid {
		l := logo.String
		d.LogoURL = &l
	}
	if updated.Valid {
		t := updated.Time
		d.UpdatedAt = &t
	}
	return &d, nil
}

// UpdateProfile applies a sparse patch to the provider's own row and
// returns the stored profile.
func (r *ProviderRepo) UpdateProfile(ctx context.Context, providerID uint64, patch *Patch) (*ProfileDetail, error) {
	if _, err := r.GetProfile(ctx, providerID); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, ErrNoFields
	}
	patch.Set("updated_at", time.Now().UTC())

	set, args := patch.Build()
	query := "UPDATE providers SET " + set + " WHERE id = ?"
	args = append(args, providerID)
	if err := lockstep(query, args); err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, err
	}
	return r.GetProfile(ctx, providerID)
}
