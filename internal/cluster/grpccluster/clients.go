package grpccluster

import (
	"context"
	"time"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/model"
	"google.golang.org/grpc"
)

// invoker is the subset of *grpc.ClientConn the clients need.
type invoker interface {
	Invoke(ctx context.Context, method string, args any, reply any, opts ...grpc.CallOption) error
}

type caller struct {
	conn    invoker
	timeout time.Duration
}

func (c caller) call(ctx context.Context, service, method string, req, resp any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	err := c.conn.Invoke(ctx, "/"+service+"/"+method, req, resp, grpc.CallContentSubtype(codecName))
	return fromStatus(err)
}

// ConsistencyClient is a cluster.ConsistencyService over gRPC.
type ConsistencyClient struct{ caller }

// NewConsistencyClient wraps conn. timeout bounds each call; zero disables it.
func NewConsistencyClient(conn *grpc.ClientConn, timeout time.Duration) *ConsistencyClient {
	return &ConsistencyClient{caller{conn: conn, timeout: timeout}}
}

func (c *ConsistencyClient) ReadStudentRecord(ctx context.Context, rollNo string, role cluster.Role) (*model.StudentRecord, error) {
	var resp readRecordResponse
	if err := c.call(ctx, consistencyService, "ReadStudentRecord", &readRecordRequest{RollNo: rollNo, Role: role}, &resp); err != nil {
		return nil, err
	}
	return &resp.Record, nil
}

func (c *ConsistencyClient) WriteStudentRecord(ctx context.Context, rollNo string, rec *model.StudentRecord, role cluster.Role) error {
	if rec == nil {
		return cluster.ErrWriteRejected
	}
	req := &writeRecordRequest{RollNo: rollNo, Record: *rec, Role: role}
	return c.call(ctx, consistencyService, "WriteStudentRecord", req, &writeRecordResponse{})
}

func (c *ConsistencyClient) ReadAllStudentRecords(ctx context.Context, role cluster.Role) ([]model.StudentRecord, error) {
	var resp readAllResponse
	if err := c.call(ctx, consistencyService, "ReadAllStudentRecords", &readAllRequest{Role: role}, &resp); err != nil {
		return nil, err
	}
	return resp.Records, nil
}

// MutexClient is a cluster.MutualExclusionService over gRPC.
type MutexClient struct{ caller }

// NewMutexClient wraps conn. The acquire call is bounded by the caller's
// context, not by timeout, because it may legitimately wait for the holder.
func NewMutexClient(conn *grpc.ClientConn, timeout time.Duration) *MutexClient {
	return &MutexClient{caller{conn: conn, timeout: timeout}}
}

func (c *MutexClient) RequestCriticalSection(ctx context.Context, key string, token int64) (bool, error) {
	var resp criticalSectionResponse
	acquire := caller{conn: c.conn}
	if err := acquire.call(ctx, mutexService, "RequestCriticalSection", &criticalSectionRequest{Key: key, Token: token}, &resp); err != nil {
		return false, err
	}
	return resp.Granted, nil
}

func (c *MutexClient) ReleaseCriticalSection(ctx context.Context, key string, token int64) error {
	return c.call(ctx, mutexService, "ReleaseCriticalSection", &criticalSectionRequest{Key: key, Token: token}, &criticalSectionResponse{})
}

// BalancerClient is a cluster.LoadBalancer over gRPC.
type BalancerClient struct{ caller }

// NewBalancerClient wraps conn. timeout bounds each call; zero disables it.
func NewBalancerClient(conn *grpc.ClientConn, timeout time.Duration) *BalancerClient {
	return &BalancerClient{caller{conn: conn, timeout: timeout}}
}

func (c *BalancerClient) RouteSubmission(ctx context.Context, sub model.Submission, load int) (model.RouteResult, error) {
	var resp routeResponse
	if err := c.call(ctx, balancerService, "RouteSubmission", &routeRequest{Submission: sub, Load: load}, &resp); err != nil {
		return model.RouteResult{}, err
	}
	return resp.Result, nil
}

var (
	_ cluster.ConsistencyService     = (*ConsistencyClient)(nil)
	_ cluster.MutualExclusionService = (*MutexClient)(nil)
	_ cluster.LoadBalancer           = (*BalancerClient)(nil)
)
