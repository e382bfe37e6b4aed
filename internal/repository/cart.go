package repository

import (
	"context"

	"turismo/internal/domain/model"
)

type CartRepository interface {
	//ユーザーのカートを取得し、無ければ作成（1ユーザー1カート）
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error)
	FindByUserID(ctx context.Context, userID int64) (model.Cart, error)

	//明細を全削除（チェックアウト後・カートクリア）
	Clear(ctx context.Context, cartID int64) error
}
