package engine

// CycleState 控制周期内部阶段，严格按声明顺序循环执行，任何阶段不跳过。
type CycleState int

const (
	StateIdle CycleState = iota
	StateSnapshotting
	StateMaintaining
	StatePlanning
	StateSubmitting
	StateReconciling
	StateReporting
)

// String 返回阶段名称。
func (s CycleState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateSnapshotting:
		return "SNAPSHOTTING"
	case StateMaintaining:
		return "MAINTAINING"
	case StatePlanning:
		return "PLANNING"
	case StateSubmitting:
		return "SUBMITTING"
	case StateReconciling:
		return "RECONCILING"
	case StateReporting:
		return "REPORTING"
	default:
		return "UNKNOWN"
	}
}
