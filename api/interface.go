// Package api define interfaces common to packages implementing the
// object runtime. Package shall not import packages other than golang's
// standard packages.
package api

// Jobqueue executes jobs outside the caller's stack and locks. Jobs
// queued by one caller can run concurrently with each other, in no
// particular order.
type Jobqueue interface {
	// Queue a job for asynchronous execution. Return error if the
	// queue is closed, in which case job is not executed.
	Queue(job func()) error

	// Close the queue, wait for queued jobs to complete.
	Close()
}
