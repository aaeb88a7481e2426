// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package mining

import (
	"context"
	"errors"
	"net"
	"time"

	. "github.com/flokiorg/evm-miner/mining/algo/common"
	"github.com/flokiorg/evm-miner/mining/pb"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Server exposes a Miner over gRPC. It searches on behalf of one caller at
// a time and rejects concurrent requests.
type Server struct {
	miner      *Miner
	maxTimeout time.Duration
	logger     zerolog.Logger

	busy   chan struct{}
	grpc   *grpc.Server
	health *health.Server
}

func NewServer(miner *Miner, maxTimeout time.Duration, logger zerolog.Logger) *Server {
	s := &Server{
		miner:      miner,
		maxTimeout: maxTimeout,
		logger:     logger,
		busy:       make(chan struct{}, 1),
		grpc:       grpc.NewServer(),
		health:     health.NewServer(),
	}

	pb.RegisterSolverServer(s.grpc, s)
	healthpb.RegisterHealthServer(s.grpc, s.health)
	s.health.SetServingStatus(pb.SolverServiceName, healthpb.HealthCheckResponse_SERVING)

	return s
}

// Serve blocks until lis fails or ctx is done, then stops gracefully.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	stopped := make(chan struct{})
	defer close(stopped)

	go func() {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("stopping solver server")
			s.health.Shutdown()
			s.grpc.GracefulStop()
		case <-stopped:
		}
	}()

	s.logger.Info().Str("addr", lis.Addr().String()).Msg("solver server listening")
	return s.grpc.Serve(lis)
}

func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.Stop()
}

func (s *Server) Solve(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := pb.SolveRequestFromStruct(in)
	if err != nil {
		return nil, toStatus(err)
	}

	select {
	case s.busy <- struct{}{}:
		defer func() { <-s.busy }()
	default:
		return nil, status.Error(codes.ResourceExhausted, "a search is already running")
	}

	timeout := req.Timeout
	if s.maxTimeout > 0 && (timeout == 0 || timeout > s.maxTimeout) {
		timeout = s.maxTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	s.logger.Info().Str("algo", s.miner.Engine().Name()).Uint8("zeros", req.Zeros).Dur("timeout", timeout).Msg("received solve request")

	solution, err := s.miner.Mine(ctx, int(req.Zeros), req.First)
	if err != nil {
		return nil, toStatus(err)
	}

	reply := &pb.SolveReply{
		Run:     solution.Run,
		Found:   solution.Found(),
		First:   &solution.First,
		Elapsed: solution.Elapsed,
		Hashes:  solution.Hashes,
	}
	if solution.Found() {
		reply.Nonce = &solution.Result.Nonce
		reply.Hash = solution.Result.Digest
	}

	out, err := reply.ToStruct()
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, ErrInvalidDifficulty), errors.Is(err, ErrInvalidNonce), errors.Is(err, pb.ErrMalformedMessage):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, ErrEvaluation), errors.Is(err, ErrVerification):
		return status.Error(codes.Internal, err.Error())
	}
	return status.Error(codes.Unknown, err.Error())
}
