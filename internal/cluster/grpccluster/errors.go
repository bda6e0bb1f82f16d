package grpccluster

import (
	"context"
	"errors"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus converts a collaborator error into a gRPC status for the wire.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, cluster.ErrRecordNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, cluster.ErrWriteRejected):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, cluster.ErrNotHolder):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	}
	return status.Error(codes.Internal, err.Error())
}

// fromStatus maps a gRPC error back onto the cluster sentinels. Transport
// failures are returned as-is.
func fromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.NotFound:
		return cluster.ErrRecordNotFound
	case codes.FailedPrecondition:
		return cluster.ErrWriteRejected
	case codes.PermissionDenied:
		return cluster.ErrNotHolder
	case codes.Canceled:
		return context.Canceled
	case codes.DeadlineExceeded:
		return context.DeadlineExceeded
	}
	return err
}
