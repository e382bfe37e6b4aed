package repository

import (
	"context"

	"turismo/internal/domain/model"
)

// ユーザーの保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成。作成後のIDはuserに書き戻す
	Create(ctx context.Context, user *model.User) error

	FindByID(ctx context.Context, userID int64) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)

	//Googleログイン用。emailまたはgoogle_idのどちらかが一致すれば返す
	FindByEmailOrGoogleID(ctx context.Context, email string, googleID string) (model.User, error)

	//既存アカウントへのgoogle_id後付け
	SetGoogleID(ctx context.Context, userID int64, googleID string) error
}
