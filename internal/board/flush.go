package board

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// StartFlusher schedules Flush with a cron spec such as "@every 30s" or
// "*/5 * * * *". The caller stops the returned cron on shutdown.
func (s *Service) StartFlusher(spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if err := s.Flush(context.Background()); err != nil {
			log.Printf("board: flush retry failed: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("flush schedule %q: %w", spec, err)
	}
	c.Start()
	log.Printf("board: flush job scheduled (%s)", spec)
	return c, nil
}
