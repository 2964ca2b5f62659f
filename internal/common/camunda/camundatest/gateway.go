// Package camundatest provides an in-memory Zeebe gateway for handler tests.
package camundatest

import (
	"context"
	"sync"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"google.golang.org/grpc"
)

// Call is one job command received by the gateway.
type Call struct {
	Command      string
	JobKey       int64
	Retries      int32
	ErrorCode    string
	ErrorMessage string
	Variables    string
	// CtxErr is the context error at the moment the command arrived.
	CtxErr error
}

// Gateway records complete, fail and throw-error commands. It also serves
// as a worker.JobClient. Other gateway methods panic.
type Gateway struct {
	pb.GatewayClient

	// Err, when set, is returned from every command.
	Err error

	mu    sync.Mutex
	calls []Call
}

func NewGateway() *Gateway {
	return &Gateway{}
}

func noRetry(context.Context, error) bool { return false }

func (g *Gateway) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(g, noRetry)
}

func (g *Gateway) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(g, noRetry)
}

func (g *Gateway) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(g, noRetry)
}

func (g *Gateway) CompleteJob(ctx context.Context, in *pb.CompleteJobRequest, _ ...grpc.CallOption) (*pb.CompleteJobResponse, error) {
	g.record(ctx, Call{Command: "complete", JobKey: in.JobKey, Variables: in.Variables})
	if g.Err != nil {
		return nil, g.Err
	}
	return &pb.CompleteJobResponse{}, nil
}

func (g *Gateway) FailJob(ctx context.Context, in *pb.FailJobRequest, _ ...grpc.CallOption) (*pb.FailJobResponse, error) {
	g.record(ctx, Call{
		Command:      "fail",
		JobKey:       in.JobKey,
		Retries:      in.Retries,
		ErrorMessage: in.ErrorMessage,
		Variables:    in.Variables,
	})
	if g.Err != nil {
		return nil, g.Err
	}
	return &pb.FailJobResponse{}, nil
}

func (g *Gateway) ThrowError(ctx context.Context, in *pb.ThrowErrorRequest, _ ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	g.record(ctx, Call{
		Command:      "throw_error",
		JobKey:       in.JobKey,
		ErrorCode:    in.ErrorCode,
		ErrorMessage: in.ErrorMessage,
		Variables:    in.Variables,
	})
	if g.Err != nil {
		return nil, g.Err
	}
	return &pb.ThrowErrorResponse{}, nil
}

func (g *Gateway) record(ctx context.Context, c Call) {
	c.CtxErr = ctx.Err()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, c)
}

// Calls returns a copy of the commands received so far.
func (g *Gateway) Calls() []Call {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Call(nil), g.calls...)
}
