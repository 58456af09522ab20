// Package version хранит метаданные сборки демона, заполняемые через -ldflags.
package version

import "fmt"

var (
	version = "0.0.0-dev"
	commit  = "unknown"
	date    = "unknown"
)

// Info возвращает версию, коммит и дату сборки.
func Info() (v, c, d string) { return version, commit, date }

// String форматирует метаданные одной строкой для логов и /healthz.
func String() string {
	return fmt.Sprintf("omd version=%s commit=%s date=%s", version, commit, date)
}
