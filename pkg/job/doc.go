// Package job runs periodic in-process tasks on cron schedules.
//
// Tasks are plain values with Name, Schedule, and Handle methods:
//
//	type PruneTokens struct{ svc *auth.Service }
//
//	func (t *PruneTokens) Name() string     { return "prune_tokens" }
//	func (t *PruneTokens) Schedule() string { return "@hourly" }
//	func (t *PruneTokens) Handle(ctx context.Context) error {
//		_, err := t.svc.PruneExpired(ctx)
//		return err
//	}
//
//	s, err := job.NewScheduler(job.WithScheduledTask(&PruneTokens{svc}))
//	s.Start(ctx)
//	defer s.Stop(ctx)
//
// A run that is still executing when its next tick arrives is skipped.
package job
