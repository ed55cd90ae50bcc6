// Package validate checks request input before it reaches the store.
//
// Validation is deliberately shallow. Uploaded file content is never
// inspected; only the extension is checked. doc_ids are free text apart from
// the characters that would break the /documents/:doc_id/... routes.
//
// All validation errors wrap one of the sentinel errors in errors.go:
//
//	if errors.Is(err, validate.ErrExtension) {
//	    // reject with 400
//	}
package validate
