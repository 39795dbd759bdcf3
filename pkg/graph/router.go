package graph

// nodeID names a node in the turn state machine.
type nodeID string

const (
	nodeClassify        nodeID = "classify"
	nodeVerify          nodeID = "verify"
	nodeCheckCompletion nodeID = "check_completion"
	nodeUpdateBuckets   nodeID = "update_buckets"
	nodeRespond         nodeID = "respond"
	nodeError           nodeID = "error"
	nodeEnd             nodeID = "end"
)

// routeFromClassify picks the edge out of the classify node. Order
// matters: clarification wins over everything, then the completion and
// review paths, then bucket updates.
func routeFromClassify(t *turn) nodeID {
	c := t.classification
	switch {
	case c == nil:
		return nodeError
	case c.Ambiguous || c.NeedsClarification:
		return nodeVerify
	case isCompletionIntent(c) && t.conv.CompletionConfirmed:
		return nodeCheckCompletion
	case isCompletionIntent(c):
		return nodeRespond
	case isReviewIntent(c):
		return nodeRespond
	case c.HasUpdates():
		return nodeUpdateBuckets
	default:
		return nodeRespond
	}
}
