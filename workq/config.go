package workq

import s "github.com/bnclabs/gosettings"

// Defaultsettings for workqueue.
//
// "workers" (int64, default: 2)
//		Number of worker routines.
//
// "chansize" (int64, default: 1024)
//		Buffered channel's size, Queue blocks when channel is full.
func Defaultsettings() s.Settings {
	return s.Settings{
		"workers":  int64(2),
		"chansize": int64(1024),
	}
}
