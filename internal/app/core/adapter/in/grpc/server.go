package grpc

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/JoeShih716/go-credit-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-credit-ledger/internal/app/core/usecase"
	pb "github.com/JoeShih716/go-credit-ledger/proto"
)

type GrpcServer struct {
	pb.UnimplementedLedgerServiceServer
	core   *usecase.CoreUseCase
	logger *zap.Logger
}

func NewGrpcServer(core *usecase.CoreUseCase, logger *zap.Logger) *GrpcServer {
	return &GrpcServer{
		core:   core,
		logger: logger,
	}
}

func (s *GrpcServer) PostTransaction(ctx context.Context, req *pb.PostTransactionRequest) (*pb.PostTransactionResponse, error) {
	// 1. UUID 解析 (可選)
	var refID uuid.UUID
	if req.RefId != "" {
		u, err := uuid.Parse(req.RefId)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, "invalid ref_id: "+err.Error())
		}
		refID = u
	}

	// 2. 轉換交易類型
	kind, err := domain.ParseTransactionKind(req.Kind)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	// 3. 執行交易
	res, err := s.core.PostTransaction(ctx, usecase.PostTransactionRequest{
		RefID:       refID,
		AccountID:   req.AccountId,
		Amount:      req.Amount,
		Kind:        kind,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransaction) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		s.logger.Error("post transaction failed", zap.Int64("account_id", req.AccountId), zap.Error(err))
		return nil, status.Error(codes.Internal, err.Error())
	}

	switch res.Outcome {
	case usecase.OutcomeAccepted:
		return &pb.PostTransactionResponse{
			Success: true,
			Limit:   res.Limit,
			Balance: res.Balance,
		}, nil
	case usecase.OutcomeAccountNotFound:
		return nil, status.Error(codes.NotFound, domain.ErrAccountNotFound.Error())
	default:
		// 業務邏輯拒絕，回傳 Success=false (Soft Failure)
		return &pb.PostTransactionResponse{
			Success: false,
			Message: domain.ErrInsufficientBalance.Error(),
		}, nil
	}
}

func (s *GrpcServer) GetStatement(ctx context.Context, req *pb.GetStatementRequest) (*pb.GetStatementResponse, error) {
	res, err := s.core.GetStatement(ctx, req.AccountId)
	if err != nil {
		s.logger.Error("get statement failed", zap.Int64("account_id", req.AccountId), zap.Error(err))
		return nil, status.Error(codes.Internal, err.Error())
	}
	if res.Outcome == usecase.OutcomeAccountNotFound {
		return nil, status.Error(codes.NotFound, domain.ErrAccountNotFound.Error())
	}

	st := res.Statement
	trans := make([]*pb.StatementTransaction, 0, len(st.LastTransactions))
	for _, tran := range st.LastTransactions {
		trans = append(trans, &pb.StatementTransaction{
			TransactionId: tran.TransactionID.String(),
			Amount:        tran.Amount,
			Kind:          tran.Kind.Code(),
			Description:   tran.Description,
			OccurredAtMs:  tran.OccurredAt,
		})
	}
	return &pb.GetStatementResponse{
		Balance:          st.Balance,
		Limit:            st.Limit,
		StatementDateMs:  st.StatementDate.UnixMilli(),
		LastTransactions: trans,
	}, nil
}

var _ pb.LedgerServiceServer = (*GrpcServer)(nil)
