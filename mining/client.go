// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package mining

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/flokiorg/evm-miner/mining/pb"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

type Client struct {
	conn   *grpc.ClientConn
	solver pb.SolverClient
}

// NewClient initializes a new gRPC client
func NewClient(server string, dialTimeout time.Duration, opts ...grpc.DialOption) (*Client, error) {

	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(server, opts...)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to gRPC server")
		return nil, err
	}

	client := healthpb.NewHealthClient(conn)

	// Health check
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: pb.SolverServiceName})
	if err == nil && resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		err = fmt.Errorf("solver status %s", resp.GetStatus())
	}
	if err != nil {
		conn.Close()
		log.Error().Err(err).Msg("Health check failed, closing connection")
		return nil, fmt.Errorf("health check failed: %w", err)
	}

	log.Info().Msg("client initialized successfully")
	return &Client{
		conn:   conn,
		solver: pb.NewSolverClient(conn),
	}, nil
}

// Solve runs a remote search. Only an unavailable server is retried; a
// failed search is returned as is.
func (c *Client) Solve(ctx context.Context, req *pb.SolveRequest, maxRetries int, maxBackoffSeconds float64) (*pb.SolveReply, error) {
	var attempt int

	in, err := req.ToStruct()
	if err != nil {
		return nil, err
	}

	log.Info().Uint8("zeros", req.Zeros).Msg("Submitting solve request...")

	for {
		select {
		case <-ctx.Done():
			log.Warn().Msg("solve request halted due to context cancellation")
			return nil, ctx.Err()
		default:
		}

		out, err := c.solver.Solve(ctx, in)
		if err == nil {
			reply, err := pb.SolveReplyFromStruct(out)
			if err != nil {
				return nil, err
			}
			log.Info().Str("run", reply.Run).Bool("found", reply.Found).Msg("solve request completed")
			return reply, nil
		}

		if status.Code(err) != codes.Unavailable {
			return nil, err
		}

		attempt++
		if attempt > maxRetries {
			log.Error().Int("attempts", attempt).Err(err).Msg("Failed to solve after multiple attempts")
			return nil, fmt.Errorf("solve failed after %d attempts: %w", attempt, err)
		}

		backoff := time.Duration(math.Min(maxBackoffSeconds, math.Pow(2, float64(attempt))) * float64(time.Second))
		log.Warn().
			Int("attempts", attempt).
			Dur("retry_after", backoff).
			Err(err).
			Msg("Retrying solve request...")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func (c *Client) Close() {
	c.conn.Close()
}
