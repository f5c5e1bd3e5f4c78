package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/praetorian-inc/what/pkg/types"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-based store.
// Use ":memory:" for in-memory database (useful for testing).
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// An in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// AddSignature stores a signature.
func (s *SQLiteStore) AddSignature(sig *types.Signature) error {
	tagsJSON, err := json.Marshal(sig.Tags)
	if err != nil {
		return fmt.Errorf("marshaling tags: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT OR IGNORE INTO signatures (name, pattern, structural_id, rarity, tags_json, description, url, exploit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		sig.Name,
		sig.Pattern,
		sig.StructuralID,
		sig.Rarity,
		string(tagsJSON),
		sig.Description,
		sig.URL,
		sig.Exploit,
	)
	if err != nil {
		return fmt.Errorf("inserting signature: %w", err)
	}
	return nil
}

// AddBlob stores a blob record.
func (s *SQLiteStore) AddBlob(b BlobRecord) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO blobs (id, kind, origin, size, scanned, truncated, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, b.ID.Hex(), b.Kind, b.Origin, b.Size, b.Scanned, b.Truncated, b.Reason)
	if err != nil {
		return fmt.Errorf("inserting blob: %w", err)
	}
	return nil
}

// AddMatch stores a match record.
func (s *SQLiteStore) AddMatch(m *types.Match) error {
	if m.Signature == nil {
		return fmt.Errorf("match %s has no signature", m.StructuralID)
	}

	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO matches (structural_id, blob_id, signature, origin, matched, bounded,
			offset_start, offset_end, start_line, start_column, end_line, end_column)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		m.StructuralID,
		m.BlobID.Hex(),
		m.Signature.Name,
		m.Origin,
		m.Matched,
		m.Bounded,
		m.Location.Offset.Start,
		m.Location.Offset.End,
		m.Location.Source.Start.Line,
		m.Location.Source.Start.Column,
		m.Location.Source.End.Line,
		m.Location.Source.End.Column,
	)
	if err != nil {
		return fmt.Errorf("inserting match: %w", err)
	}
	return nil
}

// Signatures returns stored signatures in insertion order.
func (s *SQLiteStore) Signatures() ([]*types.Signature, error) {
	rows, err := s.db.Query(`
		SELECT name, pattern, structural_id, rarity, tags_json, description, url, exploit
		FROM signatures
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("querying signatures: %w", err)
	}
	defer rows.Close()

	var sigs []*types.Signature
	for rows.Next() {
		var sig types.Signature
		var tagsJSON string
		var description, url, exploit sql.NullString

		err := rows.Scan(&sig.Name, &sig.Pattern, &sig.StructuralID, &sig.Rarity, &tagsJSON, &description, &url, &exploit)
		if err != nil {
			return nil, fmt.Errorf("scanning signature: %w", err)
		}
		if err := json.Unmarshal([]byte(tagsJSON), &sig.Tags); err != nil {
			return nil, fmt.Errorf("unmarshaling tags: %w", err)
		}
		sig.Index = len(sigs)
		sig.Description = description.String
		sig.URL = url.String
		sig.Exploit = exploit.String

		sigs = append(sigs, &sig)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating signatures: %w", err)
	}
	return sigs, nil
}

// Blobs returns stored blob records in insertion order.
func (s *SQLiteStore) Blobs() ([]BlobRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, kind, origin, size, scanned, truncated, reason
		FROM blobs
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("querying blobs: %w", err)
	}
	defer rows.Close()

	var blobs []BlobRecord
	for rows.Next() {
		var b BlobRecord
		var idHex string
		var reason sql.NullString

		if err := rows.Scan(&idHex, &b.Kind, &b.Origin, &b.Size, &b.Scanned, &b.Truncated, &reason); err != nil {
			return nil, fmt.Errorf("scanning blob: %w", err)
		}
		id, err := types.ParseBlobID(idHex)
		if err != nil {
			return nil, fmt.Errorf("parsing blob ID: %w", err)
		}
		b.ID = id
		b.Reason = reason.String

		blobs = append(blobs, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating blobs: %w", err)
	}
	return blobs, nil
}

// Matches returns stored matches in insertion order.
func (s *SQLiteStore) Matches() ([]*types.Match, error) {
	sigs, err := s.Signatures()
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*types.Signature, len(sigs))
	for _, sig := range sigs {
		byName[sig.Name] = sig
	}

	rows, err := s.db.Query(`
		SELECT structural_id, blob_id, signature, origin, matched, bounded,
			offset_start, offset_end, start_line, start_column, end_line, end_column
		FROM matches
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("querying matches: %w", err)
	}
	defer rows.Close()

	var matches []*types.Match
	for rows.Next() {
		var m types.Match
		var blobIDHex, sigName string
		var startLine, startCol, endLine, endCol sql.NullInt64

		err := rows.Scan(
			&m.StructuralID,
			&blobIDHex,
			&sigName,
			&m.Origin,
			&m.Matched,
			&m.Bounded,
			&m.Location.Offset.Start,
			&m.Location.Offset.End,
			&startLine,
			&startCol,
			&endLine,
			&endCol,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}

		blobID, err := types.ParseBlobID(blobIDHex)
		if err != nil {
			return nil, fmt.Errorf("parsing blob ID: %w", err)
		}
		m.BlobID = blobID

		sig, ok := byName[sigName]
		if !ok {
			return nil, fmt.Errorf("match %s references unknown signature %q", m.StructuralID, sigName)
		}
		m.Signature = sig

		m.Location.Source.Start.Line = int(startLine.Int64)
		m.Location.Source.Start.Column = int(startCol.Int64)
		m.Location.Source.End.Line = int(endLine.Int64)
		m.Location.Source.End.Column = int(endCol.Int64)

		matches = append(matches, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating matches: %w", err)
	}
	return matches, nil
}

// BlobExists checks if a blob has already been stored.
func (s *SQLiteStore) BlobExists(id types.BlobID) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM blobs WHERE id = ?", id.Hex()).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking blob existence: %w", err)
	}
	return count > 0, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
