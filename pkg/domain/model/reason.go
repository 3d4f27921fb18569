package model

import "fmt"

// BlockingReason explains why a pipeline blocks a push. The set of variants is
// closed: SimpleMode, BlockingStageRunning, BlockingJobRunning and
// PreBlockingStage. Use Accept with a ReasonVisitor to branch on it; adding a
// variant breaks every visitor at compile time.
type BlockingReason interface {
	Accept(v ReasonVisitor)
	String() string
	isBlockingReason()
}

// ReasonVisitor handles every BlockingReason variant.
type ReasonVisitor interface {
	VisitSimpleMode(r SimpleMode)
	VisitBlockingStageRunning(r BlockingStageRunning)
	VisitBlockingJobRunning(r BlockingJobRunning)
	VisitPreBlockingStage(r PreBlockingStage)
}

// SimpleMode blocks on any active pipeline.
type SimpleMode struct{}

// BlockingStageRunning means an active job sits in the blocking stage, or in
// the following stage within the post-block window (Stage then carries the
// " (post-block)" suffix).
type BlockingStageRunning struct {
	Stage string
}

// BlockingJobRunning means an explicitly configured job is active.
type BlockingJobRunning struct {
	Job string
}

// PreBlockingStage means a job of the stage right before the blocking stage
// has been active for at least the pre-block duration.
type PreBlockingStage struct {
	Stage   string
	Seconds int64
}

func (SimpleMode) isBlockingReason()           {}
func (BlockingStageRunning) isBlockingReason() {}
func (BlockingJobRunning) isBlockingReason()   {}
func (PreBlockingStage) isBlockingReason()     {}

func (r SimpleMode) Accept(v ReasonVisitor)           { v.VisitSimpleMode(r) }
func (r BlockingStageRunning) Accept(v ReasonVisitor) { v.VisitBlockingStageRunning(r) }
func (r BlockingJobRunning) Accept(v ReasonVisitor)   { v.VisitBlockingJobRunning(r) }
func (r PreBlockingStage) Accept(v ReasonVisitor)     { v.VisitPreBlockingStage(r) }

func (SimpleMode) String() string {
	return "Pipeline running (simple mode)"
}

func (r BlockingStageRunning) String() string {
	return fmt.Sprintf("Blocking stage '%s' is running", r.Stage)
}

func (r BlockingJobRunning) String() string {
	return fmt.Sprintf("Blocking job '%s' is running", r.Job)
}

func (r PreBlockingStage) String() string {
	return fmt.Sprintf("Stage '%s' running for %ds (approaching blocking stage)", r.Stage, r.Seconds)
}

// PostBlockStage is the stage label reported while the stage after the
// blocking stage is inside its post-block window.
func PostBlockStage(stage string) string {
	return stage + " (post-block)"
}
