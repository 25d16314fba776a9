// Package workq implement a pool of worker routines executing queued
// jobs. Jobs are executed outside the caller's stack, a panicking job
// is recovered and logged and does not bring down its worker.
//
// Workqueue satisfies api.Jobqueue.
package workq
