package db

import (
	"database/sql/driver"
	"fmt"

	"golang.org/x/text/cases"
	"modernc.org/sqlite"
)

// FoldFunc is the SQL name of the Unicode case-folding function registered
// on every connection. SQLite's own LIKE and lower() only fold ASCII.
const FoldFunc = "mithai_fold"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(FoldFunc, 1, fold)
}

// Fold returns s with Unicode case folding applied, matching what FoldFunc
// does inside a query.
func Fold(s string) string {
	// A Caser keeps state between calls and is not safe for concurrent use.
	return cases.Fold().String(s)
}

func fold(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return Fold(v), nil
	case []byte:
		return Fold(string(v)), nil
	default:
		return nil, fmt.Errorf("%s: unsupported argument type %T", FoldFunc, v)
	}
}
