package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/ogurasousui/codex-grpc-hiring-assistant/internal/core/employee"
)

// EmployeeRepository はプロセス内メモリに社員を保持する employee.Repository の実装です。
// 受け渡しはすべてコピーで行い、保持中の集約を呼び出し元と共有しません。
type EmployeeRepository struct {
	mu        sync.Mutex
	employees map[string]*employee.Employee
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(seed ...*employee.Employee) *EmployeeRepository {
	r := &EmployeeRepository{employees: make(map[string]*employee.Employee, len(seed))}
	for _, e := range seed {
		if e != nil {
			r.employees[e.ID] = e.Clone()
		}
	}
	return r
}

// Create は社員を新規登録します。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.employees[e.ID]; ok {
		return nil, fmt.Errorf("create %s: %w", e.ID, employee.ErrEmployeeAlreadyExists)
	}
	r.employees[e.ID] = e.Clone()
	return e.Clone(), nil
}

// Update は既存の社員を置き換えます。
func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.employees[e.ID]; !ok {
		return nil, fmt.Errorf("update %s: %w", e.ID, employee.ErrEmployeeNotFound)
	}
	r.employees[e.ID] = e.Clone()
	return e.Clone(), nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.employees[id]
	if !ok {
		return nil, fmt.Errorf("find %s: %w", id, employee.ErrEmployeeNotFound)
	}
	return e.Clone(), nil
}
