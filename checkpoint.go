package shadercache

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

func (c *Cache) startCheckpoints(spec string) error {
	cr := cron.New()
	_, err := cr.AddFunc(spec, c.checkpoint)
	if err != nil {
		return fmt.Errorf("shadercache: checkpoint schedule %q: %w", spec, err)
	}
	c.cron = cr
	cr.Start()
	return nil
}

// checkpoint runs from the scheduler; errors are only logged since the table
// is written again at Close.
func (c *Cache) checkpoint() {
	// Flush logs its own failures and returns ErrClosed once Close has run.
	_ = c.Flush()
}

func (c *Cache) stopCheckpoints() {
	if c.cron == nil {
		return
	}
	// Stop is idempotent and waits for a running checkpoint.
	<-c.cron.Stop().Done()
}
