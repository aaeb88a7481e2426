// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

// Package pb declares the Solver gRPC service. Payloads travel as
// google.protobuf.Struct and are typed by SolveRequest and SolveReply.
package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	SolverServiceName = "eminer.v1.Solver"

	Solver_Solve_FullMethodName = "/eminer.v1.Solver/Solve"
)

type SolverClient interface {
	Solve(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type solverClient struct {
	cc grpc.ClientConnInterface
}

func NewSolverClient(cc grpc.ClientConnInterface) SolverClient {
	return &solverClient{cc}
}

func (c *solverClient) Solve(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, Solver_Solve_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

type SolverServer interface {
	Solve(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterSolverServer(s grpc.ServiceRegistrar, srv SolverServer) {
	s.RegisterService(&Solver_ServiceDesc, srv)
}

func _Solver_Solve_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SolverServer).Solve(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Solver_Solve_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SolverServer).Solve(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var Solver_ServiceDesc = grpc.ServiceDesc{
	ServiceName: SolverServiceName,
	HandlerType: (*SolverServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Solve",
			Handler:    _Solver_Solve_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "eminer/v1/solver.proto",
}
