package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Users() UserRepository
	Carts() CartRepository
	CartItems() CartItemRepository
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Products() ProductRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// 会員登録（ユーザー＋カート作成）が唯一の明示的なトランザクション境界
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
