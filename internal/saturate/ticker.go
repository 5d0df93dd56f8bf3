package saturate

import "github.com/arborist-dev/kbcomplete/config"

// Task is one periodically-fired maintenance action, accruing virtual
// work until it crosses period, then firing action and carrying the
// remainder forward.
type Task struct {
	period    float64
	costRatio float64
	action    func(*State)
	acc       float64
}

// Ticker is the cooperative maintenance scheduler of spec.md's §4.I: the
// loop calls Tick once per iteration instead of arming real timers.
type Ticker struct {
	tasks []*Task
}

// NewTask registers a task firing every period virtual-time units, each
// call to Tick contributing costRatio units of work toward it.
func (t *Ticker) NewTask(period, costRatio float64, action func(*State)) *Task {
	task := &Task{period: period, costRatio: costRatio, action: action}
	t.tasks = append(t.tasks, task)
	return task
}

// CheckTask advances task by its costRatio units of work and fires its action,
// possibly more than once, for every full period crossed.
func (t *Ticker) CheckTask(task *Task, st *State) {
	task.acc += task.costRatio
	for task.acc >= task.period && task.period > 0 {
		task.acc -= task.period
		task.action(st)
	}
}

// Tick advances every registered task by its costRatio units of work.
func (t *Ticker) Tick(st *State) {
	for _, task := range t.tasks {
		t.CheckTask(task, st)
	}
}

// newTicker wires the two maintenance tasks spec.md §4.I names: queue
// simplification every renormalise_percent of the resource budget, and
// interreduction every quarter unit of virtual time. Virtual time is
// counted in critical pairs considered, the loop's own progress metric.
func newTicker(cfg config.Config) *Ticker {
	t := &Ticker{}
	budget := float64(cfg.MaxCriticalPairs)
	if budget <= 0 {
		budget = 1 << 16
	}
	renormPeriod := cfg.RenormalisePercent * budget
	if renormPeriod <= 0 {
		renormPeriod = budget
	}
	t.NewTask(renormPeriod, 1, func(st *State) {
		simplifyQueue(st)
	})
	if cfg.Simplify {
		t.NewTask(budget/4, 1, func(st *State) {
			interreduce(st)
		})
	}
	return t
}
