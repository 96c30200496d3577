package interfaces

import "context"

// TxManager выполняет функцию внутри одной транзакции БД.
// Querier, переданный в fn, привязан к этой транзакции; при ошибке
// fn транзакция откатывается, иначе коммитится.
//
//go:generate mockery --name TxManager --output ./mocks --outpkg mocks --case=underscore
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, querier DBTX) error) error
}
