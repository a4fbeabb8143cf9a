package tasks

// TaskSchedulerInterface defines the interface for background task
// scheduling. The scheduler owns a bounded worker pool and a periodic
// ticker enqueuing scrape tasks for every registered handle.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
