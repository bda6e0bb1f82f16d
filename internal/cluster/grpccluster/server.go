package grpccluster

import (
	"context"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster"
	"google.golang.org/grpc"
)

// unary builds a grpc.MethodHandler that decodes Req, runs call and encodes
// its result, honouring any server interceptor.
func unary[S any, Req any](fullMethod string, call func(srv S, ctx context.Context, req *Req) (any, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		handler := func(ctx context.Context, req any) (any, error) {
			out, err := call(srv.(S), ctx, req.(*Req))
			if err != nil {
				return nil, toStatus(err)
			}
			return out, nil
		}
		if interceptor == nil {
			return handler(ctx, in)
		}
		return interceptor(ctx, in, &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}, handler)
	}
}

// RegisterConsistencyServer exposes impl on s.
func RegisterConsistencyServer(s grpc.ServiceRegistrar, impl cluster.ConsistencyService) {
	s.RegisterService(&grpc.ServiceDesc{
		ServiceName: consistencyService,
		HandlerType: (*cluster.ConsistencyService)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "ReadStudentRecord",
				Handler: unary("/"+consistencyService+"/ReadStudentRecord",
					func(srv cluster.ConsistencyService, ctx context.Context, req *readRecordRequest) (any, error) {
						rec, err := srv.ReadStudentRecord(ctx, req.RollNo, req.Role)
						if err != nil {
							return nil, err
						}
						return &readRecordResponse{Record: *rec}, nil
					}),
			},
			{
				MethodName: "WriteStudentRecord",
				Handler: unary("/"+consistencyService+"/WriteStudentRecord",
					func(srv cluster.ConsistencyService, ctx context.Context, req *writeRecordRequest) (any, error) {
						if err := srv.WriteStudentRecord(ctx, req.RollNo, &req.Record, req.Role); err != nil {
							return nil, err
						}
						return &writeRecordResponse{}, nil
					}),
			},
			{
				MethodName: "ReadAllStudentRecords",
				Handler: unary("/"+consistencyService+"/ReadAllStudentRecords",
					func(srv cluster.ConsistencyService, ctx context.Context, req *readAllRequest) (any, error) {
						recs, err := srv.ReadAllStudentRecords(ctx, req.Role)
						if err != nil {
							return nil, err
						}
						return &readAllResponse{Records: recs}, nil
					}),
			},
		},
	}, impl)
}

// RegisterMutexServer exposes impl on s.
func RegisterMutexServer(s grpc.ServiceRegistrar, impl cluster.MutualExclusionService) {
	s.RegisterService(&grpc.ServiceDesc{
		ServiceName: mutexService,
		HandlerType: (*cluster.MutualExclusionService)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "RequestCriticalSection",
				Handler: unary("/"+mutexService+"/RequestCriticalSection",
					func(srv cluster.MutualExclusionService, ctx context.Context, req *criticalSectionRequest) (any, error) {
						granted, err := srv.RequestCriticalSection(ctx, req.Key, req.Token)
						if err != nil {
							return nil, err
						}
						return &criticalSectionResponse{Granted: granted}, nil
					}),
			},
			{
				MethodName: "ReleaseCriticalSection",
				Handler: unary("/"+mutexService+"/ReleaseCriticalSection",
					func(srv cluster.MutualExclusionService, ctx context.Context, req *criticalSectionRequest) (any, error) {
						if err := srv.ReleaseCriticalSection(ctx, req.Key, req.Token); err != nil {
							return nil, err
						}
						return &criticalSectionResponse{Granted: true}, nil
					}),
			},
		},
	}, impl)
}

// RegisterBalancerServer exposes impl on s.
func RegisterBalancerServer(s grpc.ServiceRegistrar, impl cluster.LoadBalancer) {
	s.RegisterService(&grpc.ServiceDesc{
		ServiceName: balancerService,
		HandlerType: (*cluster.LoadBalancer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "RouteSubmission",
				Handler: unary("/"+balancerService+"/RouteSubmission",
					func(srv cluster.LoadBalancer, ctx context.Context, req *routeRequest) (any, error) {
						res, err := srv.RouteSubmission(ctx, req.Submission, req.Load)
						if err != nil {
							return nil, err
						}
						return &routeResponse{Result: res}, nil
					}),
			},
		},
	}, impl)
}
