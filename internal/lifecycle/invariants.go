package lifecycle

import (
	"fmt"

	"task-marketplace.com/task-marketplace/internal/constants"
	model "task-marketplace.com/task-marketplace/internal/models"
)

// Violation is one broken coupling rule between a task and its offers.
type Violation struct {
	TaskID string
	Rule   string
	Detail string
}

func (v Violation) String() string {
	return fmt.Sprintf("task %s: %s (%s)", v.TaskID, v.Rule, v.Detail)
}

const (
	RuleAcceptedProvider = "accepted_provider_matches_status"
	RuleSingleEngaged    = "single_engaged_offer"
	RuleEngagedProvider  = "engaged_offer_matches_provider"
	RuleCoupledStatus    = "offer_status_matches_task_status"
)

// coupledOfferStatuses maps a task status to the statuses its engaged offer
// may hold. A task status without an entry must have no engaged offer.
var coupledOfferStatuses = map[constants.TaskStatus][]constants.OfferStatus{
	constants.TaskStatusInProgress: {
		constants.OfferStatusAccepted,
		constants.OfferStatusCompletionRejected,
	},
	constants.TaskStatusPendingApproval: {
		constants.OfferStatusPendingCompletionApproval,
	},
	constants.TaskStatusCompleted: {
		constants.OfferStatusCompletionAccepted,
	},
}

// CheckTask verifies the task/offer coupling rules for one task. offers must
// be every offer stored for the task.
func CheckTask(task model.Task, offers []model.Offer) []Violation {
	var violations []Violation
	report := func(rule, format string, args ...any) {
		violations = append(violations, Violation{TaskID: task.ID, Rule: rule, Detail: fmt.Sprintf(format, args...)})
	}

	hasProvider := task.AcceptedProviderID != nil && *task.AcceptedProviderID != ""
	if hasProvider != task.Status.HasAcceptedProvider() {
		report(RuleAcceptedProvider, "status %s, accepted provider set: %t", task.Status, hasProvider)
	}

	var engaged []model.Offer
	for _, offer := range offers {
		if offer.Status.IsEngaged() {
			engaged = append(engaged, offer)
		}
	}
	if len(engaged) > 1 {
		report(RuleSingleEngaged, "%d engaged offers", len(engaged))
	}

	allowed, coupled := coupledOfferStatuses[task.Status]
	switch {
	case !coupled && len(engaged) > 0:
		report(RuleCoupledStatus, "status %s with engaged offer %s", task.Status, engaged[0].ID)
	case coupled && len(engaged) == 0:
		report(RuleCoupledStatus, "status %s without an engaged offer", task.Status)
	case coupled:
		offer := engaged[0]
		if !containsOfferStatus(allowed, offer.Status) {
			report(RuleCoupledStatus, "status %s with offer %s in %s", task.Status, offer.ID, offer.Status)
		}
		if hasProvider && offer.ProviderID != *task.AcceptedProviderID {
			report(RuleEngagedProvider, "offer %s belongs to %s, accepted provider is %s", offer.ID, offer.ProviderID, *task.AcceptedProviderID)
		}
	}

	return violations
}

func containsOfferStatus(statuses []constants.OfferStatus, s constants.OfferStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}
