package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/twitchauth/internal/mockid/domain"
	"github.com/aussiebroadwan/twitchauth/internal/mockid/store"
)

type authorizationCodesRepo struct {
	q querier
}

func (r *authorizationCodesRepo) CreateAuthorizationCode(ctx context.Context, code domain.AuthorizationCode) error {
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now()
	}

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO authorization_codes
			(id, code_hash, client_id, user_id, redirect_uri, scopes, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		code.ID, code.CodeHash, code.ClientID, code.UserID,
		code.RedirectURI, joinScopes(code.Scopes), code.ExpiresAt, code.CreatedAt)
	return mapConstraint(err)
}

func (r *authorizationCodesRepo) GetAuthorizationCodeByHash(ctx context.Context, hash string) (domain.AuthorizationCode, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, code_hash, client_id, user_id, redirect_uri, scopes, expires_at, used_at, created_at
		FROM authorization_codes
		WHERE code_hash = ?`, hash)

	var (
		code   domain.AuthorizationCode
		scopes string
		usedAt sql.NullTime
	)
	err := row.Scan(&code.ID, &code.CodeHash, &code.ClientID, &code.UserID,
		&code.RedirectURI, &scopes, &code.ExpiresAt, &usedAt, &code.CreatedAt)
	if err != nil {
		return domain.AuthorizationCode{}, mapNotFound(err)
	}

	code.Scopes = splitScopes(scopes)
	if usedAt.Valid {
		t := usedAt.Time
		code.UsedAt = &t
	}
	return code, nil
}

func (r *authorizationCodesRepo) MarkAuthorizationCodeUsed(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE authorization_codes SET used_at = ? WHERE id = ? AND used_at IS NULL`,
		time.Now(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *authorizationCodesRepo) DeleteExpiredAuthorizationCodes(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM authorization_codes WHERE expires_at < ? OR used_at IS NOT NULL`,
		time.Now())
	return err
}
