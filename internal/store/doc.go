// Package store defines the persistence contract of the album collection.
//
// CollectionStore offers list/insert/update/delete primitives with row-level
// identity. It says nothing about transport or authentication; those belong
// to the backends:
//
//   - memory: in-process map, used by tests and demos
//   - postgrest: Supabase / PostgREST over HTTP
//   - sqlstore: SQLite or MySQL through database/sql
//   - diskv: one JSON file per album in a shared directory
//
// Every failure crossing this boundary is reported as a *Error so callers can
// tell store failures apart from local validation:
//
//	var se *store.Error
//	if errors.As(err, &se) {
//	    fmt.Println("store failed during", se.Op)
//	}
package store
