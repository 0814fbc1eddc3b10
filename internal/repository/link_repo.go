package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cnqrstore/backend/internal/models"
)

// LinkRepo reads username_links. Links are created by the game-side bot;
// the storefront never writes them.
type LinkRepo struct {
	pool *pgxpool.Pool
}

func NewLinkRepo(pool *pgxpool.Pool) *LinkRepo {
	return &LinkRepo{pool: pool}
}

func (r *LinkRepo) Get(ctx context.Context, discordID, serverID string) (*models.UsernameLink, error) {
	var l models.UsernameLink
	err := r.pool.QueryRow(ctx, `
		SELECT discord_id, server_id, username
		FROM username_links
		WHERE discord_id = $1 AND server_id = $2
	`, discordID, serverID).Scan(&l.DiscordID, &l.ServerID, &l.Username)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &l, nil
}

// ListServerIDs returns the distinct servers that have at least one linked
// account, in stable order.
func (r *LinkRepo) ListServerIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT server_id FROM username_links ORDER BY server_id
	`)
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
	return ids, rows.Err()
}
