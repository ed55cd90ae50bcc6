// search.go implements substring search over documents.
//
// A document matches when its serialised metadata, or the change description
// of any of its versions, contains the query. instr() keeps the match
// case-sensitive and treats % and _ literally, unlike LIKE. Matching on key
// names or JSON punctuation is accepted.

package store

import "context"

// Search returns the full trees of matching documents in id order, each
// document once. An empty query returns an empty slice.
func Search(ctx context.Context, q Querier, query string) ([]DocumentView, error) {
	if query == "" {
		return []DocumentView{}, nil
	}
	return queryDocuments(ctx, q, docFilter{
		where: `instr(metadata, ?) > 0
		   OR id IN (SELECT document_id FROM versions WHERE instr(change_description, ?) > 0)`,
		args: []any{query, query},
	}, "id")
}

// Search returns the full trees of matching documents.
func (s *SQLiteStore) Search(ctx context.Context, query string) ([]DocumentView, error) {
	return Search(ctx, s.db, query)
}
