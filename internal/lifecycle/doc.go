// Package lifecycle holds the task and offer state machines.
//
// Both machines are plain transition tables keyed by (status, event). They
// never touch storage: services look up the next status here, then apply it
// with a compare-and-set on the expected source status so that a concurrent
// writer that moved the row first makes the update miss instead of
// overwriting it.
//
// The machines are coupled through events that fire on both sides in one
// transaction:
//
//	offer accept        task OPEN -> IN_PROGRESS, offer PENDING -> ACCEPTED,
//	                    every other PENDING offer -> REJECTED
//	submit for approval task IN_PROGRESS -> PENDING_APPROVAL,
//	                    offer ACCEPTED|COMPLETION_REJECTED -> PENDING_COMPLETION_APPROVAL
//	approve             task PENDING_APPROVAL -> COMPLETED,
//	                    offer -> COMPLETION_ACCEPTED
//	reject              task PENDING_APPROVAL -> IN_PROGRESS,
//	                    offer -> COMPLETION_REJECTED
package lifecycle
