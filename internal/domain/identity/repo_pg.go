package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Yi-Jacob/mentalspace-ehr-sub007/internal/platform/db"
	"github.com/Yi-Jacob/mentalspace-ehr-sub007/internal/platform/hipaa"
)

type queryable interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type userRepoPG struct {
	pool *pgxpool.Pool
	// enc encrypts the email column at rest; nil stores plaintext.
	enc hipaa.FieldEncryptor
}

// NewUserRepo creates a Postgres-backed UserRepository. The encryptor may be
// nil when PHI encryption is disabled.
func NewUserRepo(pool *pgxpool.Pool, enc hipaa.FieldEncryptor) UserRepository {
	return &userRepoPG{pool: pool, enc: enc}
}

func (r *userRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *userRepoPG) encryptEmail(email string) (string, error) {
	if r.enc == nil {
		return email, nil
	}
	out, err := r.enc.Encrypt(email)
	if err != nil {
		return "", fmt.Errorf("encrypt email: %w", err)
	}
	return out, nil
}

func (r *userRepoPG) decryptEmail(email string) (string, error) {
	if r.enc == nil {
		return email, nil
	}
	out, err := r.enc.Decrypt(email)
	if err != nil {
		return "", fmt.Errorf("decrypt email: %w", err)
	}
	return out, nil
}

// emailHash is a deterministic digest of the email used for lookups, since
// the encrypted column itself is not equality-searchable.
func emailHash(email string) string {
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}

const userColumns = `id, email, display_name, staff_profile, client_id, active, created_at, updated_at`

func (r *userRepoPG) Create(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	email, err := r.encryptEmail(u.Email)
	if err != nil {
		return err
	}
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO app_user (id, email, email_hash, display_name, staff_profile, client_id, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, email, emailHash(u.Email), u.DisplayName, u.StaffProfile, u.ClientID, u.Active,
	)
	return err
}

func (r *userRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.scanUser(r.conn(ctx).QueryRow(ctx,
		`SELECT `+userColumns+` FROM app_user WHERE id = $1`, id))
}

// GetByEmail looks the user up by the deterministic email hash; the
// encrypted email column cannot be matched directly.
func (r *userRepoPG) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.scanUser(r.conn(ctx).QueryRow(ctx,
		`SELECT `+userColumns+` FROM app_user WHERE email_hash = $1`, emailHash(email)))
}

func (r *userRepoPG) Update(ctx context.Context, u *User) error {
	email, err := r.encryptEmail(u.Email)
	if err != nil {
		return err
	}
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE app_user SET
			email = $2, email_hash = $3, display_name = $4, staff_profile = $5, client_id = $6, active = $7, updated_at = NOW()
		WHERE id = $1`,
		u.ID, email, emailHash(u.Email), u.DisplayName, u.StaffProfile, u.ClientID, u.Active,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM app_user WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepoPG) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM app_user`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+userColumns+` FROM app_user ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u, err := r.scanUserRow(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *userRepoPG) AssignRole(ctx context.Context, a *RoleAssignment) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO role_assignment (id, user_id, role_name, active, granted_by_id)
		VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.UserID, a.RoleName, a.Active, a.GrantedByID,
	)
	return err
}

func (r *userRepoPG) ActiveRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT role_name FROM role_assignment WHERE user_id = $1 AND active = true ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		roles = append(roles, name)
	}
	return roles, rows.Err()
}

func (r *userRepoPG) ListAssignments(ctx context.Context, userID uuid.UUID) ([]*RoleAssignment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, user_id, role_name, active, granted_by_id, created_at
		FROM role_assignment WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []*RoleAssignment
	for rows.Next() {
		var a RoleAssignment
		if err := rows.Scan(&a.ID, &a.UserID, &a.RoleName, &a.Active, &a.GrantedByID, &a.CreatedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, &a)
	}
	return assignments, rows.Err()
}

func (r *userRepoPG) RevokeRole(ctx context.Context, assignmentID uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE role_assignment SET active = false WHERE id = $1`, assignmentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepoPG) scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.StaffProfile, &u.ClientID, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if u.Email, err = r.decryptEmail(u.Email); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepoPG) scanUserRow(rows pgx.Rows) (*User, error) {
	var u User
	err := rows.Scan(&u.ID, &u.Email, &u.DisplayName, &u.StaffProfile, &u.ClientID, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if u.Email, err = r.decryptEmail(u.Email); err != nil {
		return nil, err
	}
	return &u, nil
}
