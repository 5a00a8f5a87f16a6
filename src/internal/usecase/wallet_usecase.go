package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/internal/model"
	"dispatch-service/src/internal/model/converter"
	"dispatch-service/src/internal/repository"
	"dispatch-service/src/pkg/databases/mysql"
	httpError "dispatch-service/src/pkg/http-error"
	"dispatch-service/src/pkg/log"
	"dispatch-service/src/pkg/utils"
)

type WalletUseCase struct {
	Log              log.Log
	Validate         *validator.Validate
	DB               mysql.DBInterface
	WalletRepository *repository.WalletRepository
}

func NewWalletUseCase(
	logger log.Log,
	validate *validator.Validate,
	db mysql.DBInterface,
	walletRepository *repository.WalletRepository,
) *WalletUseCase {
	return &WalletUseCase{
		Log:              logger,
		Validate:         validate,
		DB:               db,
		WalletRepository: walletRepository,
	}
}

// TopUp credits a verified external payment. Replays of the same payment
// reference are acknowledged as duplicates without a second credit.
func (c *WalletUseCase) TopUp(ctx context.Context, request *model.TopUpRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("wallet-usecase", err.Error(), "TopUp-validation", utils.ConvertString(request))
		return result
	}

	tx, err := c.DB.BeginTxx(ctx)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = err.Error()
		result.Error = errObj
		return result
	}
	defer func() { _ = tx.Rollback() }()

	seen, err := c.WalletRepository.HasTopUp(ctx, tx, request.ActorClass, request.PaymentRef)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = err.Error()
		result.Error = errObj
		return result
	}
	if seen {
		balance, err := c.WalletRepository.BalanceTx(ctx, tx, request.ActorClass, request.ActorID)
		if err != nil {
			errObj := httpError.NewInternalServerError()
			errObj.Message = err.Error()
			result.Error = errObj
			return result
		}
		_ = tx.Commit()
		c.Log.Info("wallet-usecase", "duplicate payment reference acknowledged", "TopUp", request.PaymentRef)
		result.Data = &model.TopUpResponse{ActorID: request.ActorID, Balance: balance, Duplicate: true}
		return result
	}

	entry, err := c.WalletRepository.Credit(ctx, tx, request.ActorClass, request.ActorID, request.Amount, repository.LedgerRef{
		ReferenceType: entity.RefTopUp,
		ReferenceID:   request.PaymentRef,
		Notes:         "wallet top-up",
	})
	if errors.Is(err, repository.ErrDuplicatePaymentRef) {
		// Lost the race against a concurrent replay; same outcome.
		balance, balErr := c.WalletRepository.Balance(ctx, request.ActorClass, request.ActorID)
		if balErr != nil {
			errObj := httpError.NewInternalServerError()
			errObj.Message = balErr.Error()
			result.Error = errObj
			return result
		}
		result.Data = &model.TopUpResponse{ActorID: request.ActorID, Balance: balance, Duplicate: true}
		return result
	}
	if errors.Is(err, repository.ErrNotFound) {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("wallet for %s %s not found", request.ActorClass, request.ActorID)
		result.Error = errObj
		return result
	}
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = err.Error()
		result.Error = errObj
		c.Log.Error("wallet-usecase", err.Error(), "TopUp-credit", request.PaymentRef)
		return result
	}
	if err := tx.Commit(); err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = err.Error()
		result.Error = errObj
		return result
	}
	c.Log.Info("wallet-usecase", "wallet credited", "TopUp", request.PaymentRef)

	result.Data = &model.TopUpResponse{ActorID: request.ActorID, Balance: entry.BalanceAfter}
	return result
}

func (c *WalletUseCase) Statement(ctx context.Context, request *model.StatementRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	balance, err := c.WalletRepository.Balance(ctx, request.ActorClass, request.ActorID)
	if err != nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("wallet for %s %s not found", request.ActorClass, request.ActorID)
		result.Error = errObj
		return result
	}

	entries, err := c.WalletRepository.Statement(ctx, request.ActorClass, request.ActorID, request.Limit)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = err.Error()
		result.Error = errObj
		c.Log.Error("wallet-usecase", err.Error(), "Statement", request.ActorID)
		return result
	}

	result.Data = converter.LedgerToStatement(request.ActorID, balance, entries)
	return result
}
