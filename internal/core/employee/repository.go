package employee

import "context"

// Repository は社員レコード保管の抽象です。
// 実装は呼び出し元と集約を共有しないよう、コピーを受け渡す必要があります。
type Repository interface {
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	Update(ctx context.Context, employee *Employee) (*Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
}
