package interfaces

import "price-streamer/src/models"

// -----------------------------------------------------------------------------
// INotifier accepts fire-and-forget notification jobs.
// -----------------------------------------------------------------------------

type INotifier interface {

	// Enqueue hands a job to the background dispatcher without blocking.
	// Returns false if the queue was full and the job dropped.
	Enqueue(n models.MNotification) bool
}
