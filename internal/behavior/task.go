// Package behavior holds the task catalog, the action variants a dashboard
// can submit, and the ledger that applies them to the points total.
package behavior

// Task is a toggleable daily behavior.
type Task struct {
	Key   string
	Label string
}

// DefaultTasks is the stock catalog, in display order.
var DefaultTasks = []Task{
	{Key: "made_bed", Label: "Made the bed"},
	{Key: "brushed_teeth", Label: "Brushed teeth"},
	{Key: "listened", Label: "Listened well"},
	{Key: "clean_up", Label: "Cleaned up"},
	{Key: "stay_in_bed", Label: "Stayed in bed all night"},
	{Key: "use_manners", Label: "Used manners: Say please and thank you"},
	{Key: "clean_toys", Label: "Cleaned up toys"},
}

// Catalog is an ordered, fixed set of tasks.
type Catalog struct {
	tasks []Task
	byKey map[string]Task
}

func NewCatalog(tasks []Task) *Catalog {
	c := &Catalog{
		tasks: make([]Task, 0, len(tasks)),
		byKey: make(map[string]Task, len(tasks)),
	}
	for _, t := range tasks {
		if t.Key == "" || t.Key == penaltyKey {
			continue
		}
		if _, dup := c.byKey[t.Key]; dup {
			continue
		}
		c.tasks = append(c.tasks, t)
		c.byKey[t.Key] = t
	}
	return c
}

func (c *Catalog) Lookup(key string) (Task, bool) {
	t, ok := c.byKey[key]
	return t, ok
}

func (c *Catalog) Tasks() []Task {
	out := make([]Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.tasks))
	for i, t := range c.tasks {
		keys[i] = t.Key
	}
	return keys
}
