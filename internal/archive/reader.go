package archive

import (
	"bytes"
	"compress/gzip"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Reader reads results from an archive database.
type Reader struct {
	db   *sql.DB
	path string
}

// OpenReader opens an archive database for reading.
func OpenReader(path string) (*Reader, error) {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='results'").Scan(&count)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to verify schema: %w", err)
	}
	if count == 0 {
		db.Close()
		return nil, fmt.Errorf("database does not contain results table")
	}

	return &Reader{
		db:   db,
		path: path,
	}, nil
}

// ReadResult returns the decompressed image data and its format for a key.
func (r *Reader) ReadResult(key Key) ([]byte, string, error) {
	var (
		compressed []byte
		format     string
	)
	err := r.db.QueryRow(
		"SELECT image_data, format FROM results WHERE source=? AND effect=? AND params=?",
		key.Source, key.Effect, key.Params,
	).Scan(&compressed, &format)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("%w: %s/%s [%s]", ErrNotFound, key.Source, key.Effect, key.Params)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to query result: %w", err)
	}

	data, err := gzipDecompress(compressed)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decompress result: %w", err)
	}

	return data, format, nil
}

// List returns the keys of all stored results ordered by source, effect and params.
func (r *Reader) List() ([]Key, error) {
	rows, err := r.db.Query("SELECT source, effect, params FROM results ORDER BY source, effect, params")
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var keys []Key
	for rows.Next() {
		var k Key
		if err := rows.Scan(&k.Source, &k.Effect, &k.Params); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating results: %w", err)
	}

	return keys, nil
}

// Metadata reads metadata from the database.
func (r *Reader) Metadata() (Metadata, error) {
	rows, err := r.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to query metadata: %w", err)
	}
	defer rows.Close()

	metaMap := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return Metadata{}, fmt.Errorf("failed to scan metadata row: %w", err)
		}
		metaMap[name] = value
	}
	if err := rows.Err(); err != nil {
		return Metadata{}, fmt.Errorf("error iterating metadata: %w", err)
	}

	meta := Metadata{
		Name:        metaMap["name"],
		Description: metaMap["description"],
		Version:     metaMap["version"],
		Generator:   metaMap["generator"],
	}
	if v, ok := metaMap["count"]; ok {
		if i, err := strconv.Atoi(v); err == nil {
			meta.Count = i
		}
	}

	return meta, nil
}

// Close closes the database connection.
func (r *Reader) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// gzipDecompress decompresses gzip data.
func gzipDecompress(data []byte) ([]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gr.Close()

	return io.ReadAll(gr)
}
