// Package build хранит сведения о сборке. Значения задаются через -ldflags утилитой tools/build.
package build

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info возвращает строку версии для вывода в CLI.
func Info() string {
	return Version + " (" + Commit + ", " + Date + ")"
}
