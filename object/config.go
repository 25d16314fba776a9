package object

import s "github.com/bnclabs/gosettings"

import "github.com/bnclabs/objref/malloc"
import "github.com/bnclabs/objref/workq"

// Defaultsettings for object runtime.
//
// "maxtypes" (int64, default: 256)
//		Maximum number of object types that can be registered
//		with the runtime, including the bootstrap types.
//
// "autopool.bigsize" (int64, default: 256)
//		Dynamic slots of an auto-release pool, whose capacity has
//		grown beyond this size, are freed after every drain.
//
// "debug.track" (bool, default: false)
//		Track every live object, required for Enumobjects.
//
// "arena.*"
//		Settings for object bodies' arena, refer malloc.Defaultsettings.
//
// "workqueue.*"
//		Settings for the job queue draining deferred deletes, refer
//		workq.Defaultsettings.
func Defaultsettings() s.Settings {
	setts := s.Settings{
		"maxtypes":         int64(256),
		"autopool.bigsize": int64(256),
		"debug.track":      false,
	}
	arenasetts := malloc.Defaultsettings().AddPrefix("arena.")
	workqsetts := workq.Defaultsettings().AddPrefix("workqueue.")
	return setts.Mixin(arenasetts, workqsetts)
}
