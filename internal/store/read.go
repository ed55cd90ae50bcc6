// read.go reconstructs document trees: document, versions (newest first) and
// renditions (attachment order).
//
// Trees are built with one query per level, each selecting through the same
// document filter, so listing N documents costs three queries and binds only
// the filter's own arguments.

package store

import (
	"context"
	"fmt"

	"github.com/jpl-au/docver/internal/metadata"
)

const documentColumns = `id, doc_id, metadata, latest_version`

func scanDocumentRow(sc scanner) (DocumentView, error) {
	var (
		d   DocumentView
		raw string
	)
	if err := sc.Scan(&d.ID, &d.DocID, &raw, &d.LatestVersion); err != nil {
		return d, err
	}
	m, err := metadata.Parse([]byte(raw))
	if err != nil {
		return d, fmt.Errorf("metadata of %s: %w", d.DocID, err)
	}
	d.Metadata = m
	d.Versions = []VersionView{}
	return d, nil
}

// docFilter selects a set of documents: a WHERE condition over the
// documents table (empty for all) and its arguments.
type docFilter struct {
	where string
	args  []any
}

func (f docFilter) clause() string {
	if f.where == "" {
		return ""
	}
	return " WHERE " + f.where
}

// ids is a subquery yielding the ids of the selected documents. Versions
// and renditions are fetched through it rather than by binding every id,
// which would exceed SQLite's host parameter limit on large stores.
func (f docFilter) ids() string {
	return `SELECT id FROM documents` + f.clause()
}

// queryDocuments selects documents by f in the given order and attaches the
// version trees.
func queryDocuments(ctx context.Context, q Querier, f docFilter, order string) ([]DocumentView, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+documentColumns+` FROM documents`+f.clause()+` ORDER BY `+order, f.args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	docs := []DocumentView{}
	for rows.Next() {
		d, err := scanDocumentRow(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if err := attachVersions(ctx, q, f, docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func attachVersions(ctx context.Context, q Querier, f docFilter, docs []DocumentView) error {
	if len(docs) == 0 {
		return nil
	}

	byDoc := make(map[int64]int, len(docs))
	for i, d := range docs {
		byDoc[d.ID] = i
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, document_id, version, COALESCE(change_description, ''), file_path, created_at
		FROM versions
		WHERE document_id IN (`+f.ids()+`)
		ORDER BY document_id, version DESC`, f.args...)
	if err != nil {
		return fmt.Errorf("query versions: %w", err)
	}

	type loc struct{ doc, ver int }
	byVersion := make(map[int64]loc)
	for rows.Next() {
		var (
			v     VersionView
			docID int64
			ts    int64
		)
		if err := rows.Scan(&v.ID, &docID, &v.Version, &v.ChangeDescription, &v.FilePath, &ts); err != nil {
			rows.Close()
			return fmt.Errorf("scan version: %w", err)
		}
		i, ok := byDoc[docID]
		if !ok {
			continue // document created after the first query
		}
		v.CreatedAt = unixTime(ts)
		v.HTMLPaths = []RenditionRef{}
		docs[i].Versions = append(docs[i].Versions, v)
		byVersion[v.ID] = loc{doc: i, ver: len(docs[i].Versions) - 1}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	if len(byVersion) == 0 {
		return nil
	}

	rows, err = q.QueryContext(ctx, `
		SELECT h.version_id, h.file_path
		FROM html_documents h
		JOIN versions v ON v.id = h.version_id
		WHERE v.document_id IN (`+f.ids()+`)
		ORDER BY h.id`, f.args...)
	if err != nil {
		return fmt.Errorf("query html documents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			versionID int64
			p         string
		)
		if err := rows.Scan(&versionID, &p); err != nil {
			return fmt.Errorf("scan html document: %w", err)
		}
		l, ok := byVersion[versionID]
		if !ok {
			continue
		}
		v := &docs[l.doc].Versions[l.ver]
		v.HTMLPaths = append(v.HTMLPaths, RenditionRef{Path: p})
	}
	return rows.Err()
}

// ListDocuments returns every document tree, most recently created first.
func ListDocuments(ctx context.Context, q Querier) ([]DocumentView, error) {
	return queryDocuments(ctx, q, docFilter{}, "id DESC")
}

// ListDocuments returns every document tree, most recently created first.
func (s *SQLiteStore) ListDocuments(ctx context.Context) ([]DocumentView, error) {
	return ListDocuments(ctx, s.db)
}

// Document returns the tree of docID or ErrDocumentNotFound.
func (s *SQLiteStore) Document(ctx context.Context, docID string) (DocumentView, error) {
	docs, err := queryDocuments(ctx, s.db, docFilter{where: "doc_id = ?", args: []any{docID}}, "id")
	if err != nil {
		return DocumentView{}, err
	}
	if len(docs) == 0 {
		return DocumentView{}, ErrDocumentNotFound
	}
	return docs[0], nil
}

// FilePaths returns every blob path referenced by versions and renditions.
// Used to find uploads no row points at.
func (s *SQLiteStore) FilePaths(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT file_path FROM versions UNION SELECT file_path FROM html_documents`)
	if err != nil {
		return nil, fmt.Errorf("list file paths: %w", err)
	}
	defer rows.Close()

	paths := make(map[string]bool)
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan file path: %w", err)
		}
		paths[p] = true
	}
	return paths, rows.Err()
}
