package object

import "fmt"
import "errors"

// ErrorInvalidArgument unrecognized flags, missing type or negative
// count passed to a create call.
var ErrorInvalidArgument = errors.New("object.invalidargument")

// ErrorTypetableFull no more object types can be registered.
var ErrorTypetableFull = errors.New("object.typetablefull")

// ErrorClosed runtime is closed, no new object or type can be created.
var ErrorClosed = errors.New("object.closed")

// ErrorNotracking live object tracking is not enabled, refer
// "debug.track" settings.
var ErrorNotracking = errors.New("object.notracking")

func panicerr(fmsg string, args ...interface{}) {
	panic(fmt.Errorf(fmsg, args...))
}
