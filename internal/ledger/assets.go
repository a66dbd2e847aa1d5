package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const assetColumns = "id, invocation_id, album, path, width, height, from_camera, created_at"

// RecordAlbumAsset stores a saved album photo.
func (s *Store) RecordAlbumAsset(ctx context.Context, asset AlbumAsset) error {
	if strings.TrimSpace(asset.ID) == "" {
		return errors.New("album asset id is required")
	}
	if strings.TrimSpace(asset.Path) == "" {
		return errors.New("album asset path is required")
	}
	err := s.execWithRetry(
		ctx,
		`INSERT INTO album_assets (`+assetColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		asset.ID,
		nullableString(asset.InvocationID),
		asset.Album,
		asset.Path,
		asset.Width,
		asset.Height,
		boolToInt(asset.FromCamera),
		formatTime(asset.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert album asset: %w", err)
	}
	return nil
}

// ListAlbumAssets returns saved assets oldest first. An empty album name
// lists every album.
func (s *Store) ListAlbumAssets(ctx context.Context, album string) ([]AlbumAsset, error) {
	query := `SELECT ` + assetColumns + ` FROM album_assets`
	var args []any
	if album != "" {
		query += ` WHERE album = ?`
		args = append(args, album)
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list album assets: %w", err)
	}
	defer rows.Close()

	var out []AlbumAsset
	for rows.Next() {
		var (
			asset      AlbumAsset
			invocation sql.NullString
			fromCamera int64
			createdRaw string
		)
		if err := rows.Scan(&asset.ID, &invocation, &asset.Album, &asset.Path, &asset.Width, &asset.Height, &fromCamera, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan album asset: %w", err)
		}
		asset.InvocationID = invocation.String
		asset.FromCamera = fromCamera != 0
		if t, err := parseTimeString(createdRaw); err == nil {
			asset.CreatedAt = t
		}
		out = append(out, asset)
	}
	return out, rows.Err()
}

// AssetsForInvocation counts the assets saved by one invocation.
func (s *Store) AssetsForInvocation(ctx context.Context, invocationID string) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM album_assets WHERE invocation_id = ?`, invocationID)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count album assets: %w", err)
	}
	return count, nil
}
