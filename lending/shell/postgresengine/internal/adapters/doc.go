// Package adapters hides the differences between pgx, database/sql and sqlx behind one small interface.
// All statements are fully rendered SQL strings built with goqu, so no driver-specific placeholders leak.
package adapters
