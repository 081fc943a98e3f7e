// Package schema declares the local store's tables as ent schemas. No ent
// client is generated from them: internal/store migrates its hand-written
// tables and queries them with ent's dialect/sql builders. These
// declarations are the reviewed shape of those tables, and schema_test.go
// fails when the two drift apart.
package schema
