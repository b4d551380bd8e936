package score

import "database/sql"

func sqlNullString(s string) sql.NullString {
	return sql.NullString{Valid: true, String: s}
}
