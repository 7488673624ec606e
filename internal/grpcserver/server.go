// Package grpcserver implements the QueryService gRPC server.
//
// It delegates all business logic to submission.Controller and handles only
// the transport concerns: message conversion and status-code mapping.
package grpcserver

import (
	"context"
	"encoding/json"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"aivs/query-service/internal/submission"
)

// Server implements QueryServiceServer.
type Server struct {
	ctrl *submission.Controller
}

// NewServer constructs a gRPC Server backed by ctrl.
func NewServer(ctrl *submission.Controller) *Server {
	return &Server{ctrl: ctrl}
}

// ─── RPC implementations ──────────────────────────────────────────────────────

// Submit runs one attempt. Rejected and failed attempts come back as status
// errors whose message is the user-facing status text.
func (s *Server) Submit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	form := s.ctrl.Policy().NewForm()
	if err := form.ApplyValues(req.AsMap()); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	out := s.ctrl.Submit(context.WithoutCancel(ctx), form)
	if out.State != submission.StateSucceeded {
		return nil, toGRPCError(out)
	}
	return toStruct(out)
}

// Options returns the dropdown catalog keyed by field.
func (s *Server) Options(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return toStruct(submission.Catalog)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// toGRPCError maps a non-successful outcome to a gRPC status.
func toGRPCError(out submission.Outcome) error {
	var ve *submission.ValidationError
	switch {
	case errors.As(out.Err, &ve), errors.Is(out.Err, submission.ErrInFlight):
		return status.Error(codes.InvalidArgument, out.Status)
	case errors.Is(out.Err, context.Canceled):
		return status.Error(codes.Canceled, out.Status)
	case errors.Is(out.Err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, out.Status)
	}
	return status.Error(codes.Unavailable, out.Status)
}

// toStruct converts any JSON-encodable value into a protobuf Struct.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal server error")
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, status.Error(codes.Internal, "internal server error")
	}
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal server error")
	}
	return st, nil
}
