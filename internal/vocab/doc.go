// Package vocab persists analyzed phrases to a SQLite database so learners
// can review what they looked up. Saving is driven by the modal controller's
// result hook; the store itself is plain CRUD over one table.
package vocab
