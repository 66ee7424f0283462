package actor

import (
	"fmt"
	"log"
	"time"

	"github.com/idurz/oRover/internal/logtransport"
)

// levelRank orders the recognized log levels for the configured loglevel
// threshold. Unknown levels rank as INFO.
var levelRank = map[string]int{
	"DEBUG":    0,
	"INFO":     1,
	"WARNING":  2,
	"ERROR":    3,
	"CRITICAL": 4,
}

func rankOf(level string) int {
	if r, ok := levelRank[level]; ok {
		return r
	}
	return levelRank["INFO"]
}

// LogInfo logs at INFO level: to the process's own stdlib logger always,
// and forwarded to the log server when connected. Records below the
// configured loglevel threshold are suppressed.
func (a *Actor) LogInfo(format string, args ...interface{}) {
	a.logAt("INFO", format, args...)
}

// LogDebug logs at DEBUG level.
func (a *Actor) LogDebug(format string, args ...interface{}) {
	a.logAt("DEBUG", format, args...)
}

// LogWarning logs at WARNING level.
func (a *Actor) LogWarning(format string, args ...interface{}) {
	a.logAt("WARNING", format, args...)
}

// LogError logs at ERROR level.
func (a *Actor) LogError(format string, args ...interface{}) {
	a.logAt("ERROR", format, args...)
}

func (a *Actor) logAt(level, format string, args ...interface{}) {
	if rankOf(level) < a.minLogRank {
		return
	}
	msg := fmt.Sprintf(format, args...)
	log.Printf("%s %s: %s", level, a.Name, msg)
	if a.logClient != nil {
		rec := logtransport.Record{Logger: a.Name, Level: level, Time: time.Now(), Message: msg}
		if err := a.logClient.Send(rec); err != nil {
			log.Printf("actor %s: warning: failed to forward log record: %v", a.Name, err)
		}
	}
}
