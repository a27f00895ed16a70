package store

import (
	"database/sql"
	"regexp"
	"strings"
	"sync"

	"github.com/harrison/rash/internal/pathutil"
	"github.com/mattn/go-sqlite3"
)

// driverName is the name under which the rash-flavored sqlite3 driver,
// with its UDFs attached via ConnectHook, is registered. Registration can
// only happen once per process (database/sql panics on a duplicate
// Register call), so it is guarded by registerOnce.
const driverName = "sqlite3_rash"

var registerOnce sync.Once

// registerDriver installs the REGEXP, PROGRAM_NAME and PATHDIST functions
// required by spec.md §6 ("SQL UDFs the store must register") on every
// connection the driver opens. Grounded on mattn/go-sqlite3's ConnectHook
// mechanism, the idiomatic way to attach custom functions (the teacher's
// learning.Store uses the driver unmodified since it needs none).
func registerDriver() {
	registerOnce.Do(func() {
		sql.Register(driverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				if err := conn.RegisterFunc("REGEXP", regexpUDF, true); err != nil {
					return err
				}
				if err := conn.RegisterFunc("PROGRAM_NAME", programNameUDF, true); err != nil {
					return err
				}
				return conn.RegisterFunc("PATHDIST", pathDistUDF, true)
			},
		})
	})
}

var regexpCache sync.Map // pattern string -> *regexp.Regexp

func regexpUDF(pattern, text string) (bool, error) {
	cached, ok := regexpCache.Load(pattern)
	var re *regexp.Regexp
	if ok {
		re = cached.(*regexp.Regexp)
	} else {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return false, err
		}
		re = compiled
		regexpCache.Store(pattern, re)
	}
	return re.MatchString(text), nil
}

// programNameUDF returns the first whitespace-separated token of cmd that
// contains no "=", skipping leading environment-variable assignments
// (spec.md §6).
func programNameUDF(cmd string) string {
	for _, tok := range strings.Fields(cmd) {
		if !strings.Contains(tok, "=") {
			return tok
		}
	}
	return ""
}

func pathDistUDF(a, b string) int {
	return pathutil.Distance(a, b)
}
