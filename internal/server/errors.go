package server

import (
	"git.appkode.ru/pub/go/failure"

	"p2p_market/internal/domain"
	"p2p_market/pkg/errcodes"
)

// asTransportError переводит доменные ошибки в транспортные перед reply.Error.
// Нехватка данных — 422, ошибки входа — 400, всё остальное (падение движка,
// недоступный маркетплейс) уходит как 500 с логом полной цепочки.
func asTransportError(err error) error {
	code, ok := domain.GetCode(err)
	if !ok {
		return err
	}

	switch code {
	case errcodes.InsufficientData:
		return failure.NewUnprocessableEntityErrorFromError(err, failure.WithCode(code))
	case errcodes.InvalidTradeSide, errcodes.InvalidPriceBasis, errcodes.ValidationError:
		return failure.NewInvalidArgumentErrorFromError(err, failure.WithCode(code))
	default:
		return err
	}
}
