// internal/common/camunda/job.go
package camunda

import (
	"context"
	"fmt"
	"time"

	apperrors "career-workers/internal/common/errors"
	"career-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const reportTimeout = 10 * time.Second

// reportContext keeps ctx's values but not its deadline, so a job whose
// handler ran out of time is still reported to the broker.
func reportContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), reportTimeout)
}

// CompleteJob completes job with output as its variables.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(output)
	if err != nil {
		return fmt.Errorf("encode job output: %w", err)
	}

	ctx, cancel := reportContext(ctx)
	defer cancel()
	if _, err := cmd.Send(ctx); err != nil {
		return fmt.Errorf("complete job %d: %w", job.Key, err)
	}
	return nil
}

// FailJob reports err through the error handler and returns it.
func FailJob(ctx context.Context, client worker.JobClient, job entities.Job, handler *apperrors.ErrorHandler, taskType string, err error) error {
	ctx, cancel := reportContext(ctx)
	defer cancel()

	code := handler.HandleJobError(ctx, client, job, err)
	metrics.WorkerJobsFailed.WithLabelValues(taskType, string(code)).Inc()
	return err
}
