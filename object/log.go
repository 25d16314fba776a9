package object

import "sync/atomic"

import "github.com/bnclabs/golog"

import "github.com/bnclabs/objref/malloc"
import "github.com/bnclabs/objref/workq"

var logok = int64(0)

// LogComponents enable logging. By default logging is disabled,
// if applications want log information for object components
// call this function with "self" or "object" as argument. To enable
// logging for object and all of its components call this function
// with "all" or "object","malloc","workq" as argument.
func LogComponents(components ...string) {
	for _, comp := range components {
		switch comp {
		case "object", "self":
			atomic.StoreInt64(&logok, 1)
		case "malloc":
			malloc.LogComponents("self")
		case "workq":
			workq.LogComponents("self")
		case "all":
			atomic.StoreInt64(&logok, 1)
			malloc.LogComponents("all")
			workq.LogComponents("all")
		}
	}
}

func debugf(format string, v ...interface{}) {
	if atomic.LoadInt64(&logok) > 0 {
		log.Debugf(format, v...)
	}
}

func errorf(format string, v ...interface{}) {
	if atomic.LoadInt64(&logok) > 0 {
		log.Errorf(format, v...)
	}
}

func infof(format string, v ...interface{}) {
	if atomic.LoadInt64(&logok) > 0 {
		log.Infof(format, v...)
	}
}

func warnf(format string, v ...interface{}) {
	if atomic.LoadInt64(&logok) > 0 {
		log.Warnf(format, v...)
	}
}
